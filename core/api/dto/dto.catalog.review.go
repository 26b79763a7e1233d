package dto

// ReviewCreateInput là input để thêm đánh giá cho một phim
type ReviewCreateInput struct {
	MovieID string  `json:"movieId" validate:"required"`          // ObjectID của phim
	Rating  float64 `json:"rating" validate:"required,min=0,max=10"` // Điểm trong [0,10]
	Content string  `json:"content" validate:"omitempty,no_xss"`
}

// ReviewUpdateInput là input để sửa đánh giá của chính mình
type ReviewUpdateInput struct {
	Rating  *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=10"`
	Content *string  `json:"content,omitempty" validate:"omitempty,no_xss"`
}
