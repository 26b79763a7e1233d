package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái phim
const (
	MovieStatusPublic  = "public"
	MovieStatusPrivate = "private"
)

// CastMember - Một vai diễn trong phim
type CastMember struct {
	Actor     primitive.ObjectID `json:"actor" bson:"actor"`         // Tham chiếu tới Actor
	RoleAs    string             `json:"roleAs" bson:"roleAs"`       // Tên nhân vật
	LeadActor bool               `json:"leadActor" bson:"leadActor"` // Diễn viên chính
}

// Movie - Phim trong catalog
type Movie struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title" index:"text"` // Tiêu đề phim (text index cho tìm kiếm)
	StoryLine   string               `json:"storyLine" bson:"storyLine"`
	Director    *primitive.ObjectID  `json:"director,omitempty" bson:"director,omitempty"` // Con trỏ để omitempty hoạt động (ObjectID là array type, zero value không bị bỏ qua)
	ReleaseDate string               `json:"releaseDate" bson:"releaseDate"`
	Status      string               `json:"status" bson:"status" index:"single:1"` // public | private
	Type        string               `json:"type" bson:"type" index:"single:1"`     // Film, TV Show, Web Series...
	Genres      []string             `json:"genres" bson:"genres"`                  // Thể loại, validate theo danh sách cố định
	Tags        []string             `json:"tags" bson:"tags" index:"single:1"`     // Nhãn dùng cho gợi ý phim liên quan
	Cast        []CastMember         `json:"cast" bson:"cast"`
	Writers     []primitive.ObjectID `json:"writers,omitempty" bson:"writers,omitempty"`
	Poster      *PosterAsset         `json:"poster,omitempty" bson:"poster,omitempty"`
	Trailer     MediaAsset           `json:"trailer" bson:"trailer"` // Trailer bắt buộc khi tạo phim
	Language    string               `json:"language" bson:"language"`
	Reviews     []primitive.ObjectID `json:"reviews,omitempty" bson:"reviews,omitempty"` // Tham chiếu ngược tới các review, duy trì khi thêm/xóa review
	CreatedAt   int64                `json:"createdAt" bson:"createdAt" index:"single:1,order:-1"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}
