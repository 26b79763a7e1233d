package dto

// CastMemberInput mô tả một diễn viên trong danh sách cast của phim
type CastMemberInput struct {
	Actor     string `json:"actor" validate:"required"` // ObjectID của diễn viên
	RoleAs    string `json:"roleAs" validate:"required,no_xss"`
	LeadActor bool   `json:"leadActor"`
}

// MovieCreateInput là input để tạo phim mới.
// Poster và trailer được xử lý riêng qua media gateway.
type MovieCreateInput struct {
	Title       string            `json:"title" validate:"required,min=1,max=200,no_xss"` // Tên phim
	StoryLine   string            `json:"storyLine" validate:"required,no_xss"`           // Tóm tắt nội dung
	Director    string            `json:"director,omitempty"`                             // ObjectID của đạo diễn
	ReleaseDate string            `json:"releaseDate" validate:"required"`
	Status      string            `json:"status" validate:"required,oneof=public private"`
	Type        string            `json:"type" validate:"required,no_xss"` // Thể loại phát hành: Film, TV Series, ...
	Genres      []string          `json:"genres" validate:"required,min=1,dive,genre"`
	Tags        []string          `json:"tags" validate:"required,min=1,dive,no_xss"`
	Cast        []CastMemberInput `json:"cast" validate:"omitempty,dive"`
	Writers     []string          `json:"writers,omitempty"` // Danh sách ObjectID biên kịch
	TrailerURL  string            `json:"trailerUrl" validate:"required,url"`
	TrailerID   string            `json:"trailerId" validate:"required"` // Public ID trên media gateway
	Language    string            `json:"language" validate:"required,no_xss"`
}

// MovieUpdateInput là input để cập nhật phim
type MovieUpdateInput struct {
	Title       *string            `json:"title,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	StoryLine   *string            `json:"storyLine,omitempty" validate:"omitempty,no_xss"`
	Director    *string            `json:"director,omitempty"`
	ReleaseDate *string            `json:"releaseDate,omitempty"`
	Status      *string            `json:"status,omitempty" validate:"omitempty,oneof=public private"`
	Type        *string            `json:"type,omitempty" validate:"omitempty,no_xss"`
	Genres      *[]string          `json:"genres,omitempty" validate:"omitempty,min=1,dive,genre"`
	Tags        *[]string          `json:"tags,omitempty" validate:"omitempty,min=1,dive,no_xss"`
	Cast        *[]CastMemberInput `json:"cast,omitempty" validate:"omitempty,dive"`
	Writers     *[]string          `json:"writers,omitempty"`
	Language    *string            `json:"language,omitempty" validate:"omitempty,no_xss"`
}
