package dto

// ActorCreateInput là input để tạo diễn viên mới.
// Avatar được gửi kèm dưới dạng multipart file, không nằm trong body JSON.
type ActorCreateInput struct {
	Name   string `json:"name" form:"name" validate:"required,min=1,max=100,no_xss"` // Tên diễn viên
	About  string `json:"about" form:"about" validate:"required,no_xss"`             // Tiểu sử
	Gender string `json:"gender" form:"gender" validate:"required,oneof=male female other"`
}

// ActorUpdateInput là input để cập nhật diễn viên
type ActorUpdateInput struct {
	Name   *string `json:"name,omitempty" form:"name" validate:"omitempty,min=1,max=100,no_xss"`
	About  *string `json:"about,omitempty" form:"about" validate:"omitempty,no_xss"`
	Gender *string `json:"gender,omitempty" form:"gender" validate:"omitempty,oneof=male female other"`
}
