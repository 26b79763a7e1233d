package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review - Đánh giá của một người dùng cho một phim.
// Compound unique index (parentMovie, owner) đảm bảo mỗi người dùng
// chỉ có một đánh giá cho mỗi phim.
type Review struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ParentMovie primitive.ObjectID `json:"parentMovie" bson:"parentMovie" index:"compound:parentMovie_owner_unique"`
	Owner       primitive.ObjectID `json:"owner" bson:"owner" index:"compound:parentMovie_owner_unique"`
	Rating      float64            `json:"rating" bson:"rating"` // Điểm đánh giá trong [0,10]
	Content     string             `json:"content" bson:"content"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// RatingSummary - Tổng hợp đánh giá của một phim, tính lúc truy vấn,
// không bao giờ lưu xuống database. RatingAvg để trống khi phim chưa
// có đánh giá nào (không trả về "0").
type RatingSummary struct {
	RatingAvg   string `json:"ratingAvg,omitempty"`
	ReviewCount int64  `json:"reviewCount,omitempty"`
}
