package dto

// UserCreateInput là input để đăng ký tài khoản mới
type UserCreateInput struct {
	Name     string `json:"name" validate:"required,min=1,max=100,no_xss"` // Tên hiển thị
	Email    string `json:"email" validate:"required,email"`               // Email đăng nhập (unique)
	Password string `json:"password" validate:"required,strong_password"`  // Mật khẩu 8-20 ký tự
}

// UserSignInInput là input để đăng nhập
type UserSignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailInput là input để xác thực email bằng mã OTP
type VerifyEmailInput struct {
	UserID string `json:"userId" validate:"required"` // ID người dùng cần xác thực
	OTP    string `json:"OTP" validate:"required,len=6,numeric"`
}

// ResendOTPInput là input để gửi lại mã OTP xác thực email
type ResendOTPInput struct {
	UserID string `json:"userId" validate:"required"`
}

// ForgetPasswordInput là input để yêu cầu đặt lại mật khẩu
type ForgetPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyResetTokenInput là input để kiểm tra token đặt lại mật khẩu
type VerifyResetTokenInput struct {
	UserID string `json:"userId" validate:"required"`
	Token  string `json:"token" validate:"required"`
}

// ResetPasswordInput là input để đặt mật khẩu mới
type ResetPasswordInput struct {
	UserID      string `json:"userId" validate:"required"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strong_password"`
}

// UserUpdateInput là input để cập nhật thông tin người dùng
type UserUpdateInput struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100,no_xss"` // Tên hiển thị
}
