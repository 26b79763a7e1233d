package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các vai trò người dùng trong hệ thống
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User - Người dùng của nền tảng đánh giá phim
type User struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`                           // Tên hiển thị
	Email      string             `json:"email" bson:"email" index:"unique,sparse"`   // Email đăng nhập (unique)
	Password   string             `json:"-" bson:"password"`                          // Mật khẩu đã băm bcrypt, không bao giờ trả về client
	IsVerified bool               `json:"isVerified" bson:"isVerified"`               // Đã xác thực email qua OTP chưa
	Role       string             `json:"role" bson:"role" default:"user"`            // Vai trò: admin | user
	Token      string             `json:"-" bson:"token,omitempty" index:"single:1"`  // JWT token hiện tại (cập nhật mỗi lần đăng nhập)
	IsSystem   bool               `json:"-" bson:"isSystem"`                          // true = tài khoản hệ thống (admin seed), không thể xóa
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}
