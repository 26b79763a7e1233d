package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaAsset - Metadata của một asset trên dịch vụ lưu trữ media.
// PublicID là định danh do dịch vụ media cấp, dùng để xóa asset sau này.
type MediaAsset struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"publicId,omitempty" bson:"publicId,omitempty"`
}

// PosterAsset - Poster có thêm các bản responsive theo breakpoint
type PosterAsset struct {
	URL        string   `json:"url" bson:"url"`
	PublicID   string   `json:"publicId,omitempty" bson:"publicId,omitempty"`
	Responsive []string `json:"responsive,omitempty" bson:"responsive,omitempty"` // Danh sách URL theo thứ tự breakpoint giảm dần
}

// Actor - Diễn viên trong catalog
type Actor struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"text"` // Tên diễn viên (text index cho tìm kiếm)
	About     string             `json:"about" bson:"about"`
	Gender    string             `json:"gender" bson:"gender"`
	Avatar    *MediaAsset        `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt" index:"single:1,order:-1"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
