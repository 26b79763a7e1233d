package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailVerificationToken - Mã OTP xác thực email.
// Token được băm bcrypt trước khi lưu; TTL index xóa document sau 1 giờ
// (TTL của MongoDB yêu cầu field kiểu date nên CreatedDate tách riêng
// khỏi timestamp UnixMilli dùng cho API).
type EmailVerificationToken struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Owner       primitive.ObjectID `json:"owner" bson:"owner" index:"unique"` // Người dùng sở hữu mã (mỗi user một mã)
	Token       string             `json:"-" bson:"token"`                    // Mã OTP 6 chữ số đã băm bcrypt
	CreatedDate time.Time          `json:"-" bson:"createdDate" index:"ttl:3600"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// PasswordResetToken - Mã đặt lại mật khẩu, cùng vòng đời với mã OTP email.
type PasswordResetToken struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Owner       primitive.ObjectID `json:"owner" bson:"owner" index:"unique"`
	Token       string             `json:"-" bson:"token"`
	CreatedDate time.Time          `json:"-" bson:"createdDate" index:"ttl:3600"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
