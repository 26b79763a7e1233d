package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"movie_review/core/api/dto"
	models "movie_review/core/api/models/mongodb"
	"movie_review/core/common"
	"movie_review/core/global"
	"movie_review/core/utility"
	"movie_review/internal/logger"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*BaseServiceMongoImpl[models.User]
	emailTokenService *BaseServiceMongoImpl[models.EmailVerificationToken]
	resetTokenService *BaseServiceMongoImpl[models.PasswordResetToken]
	mailSender        *MailSenderService
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	emailTokenCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.EmailVerificationTokens)
	if !exist {
		return nil, fmt.Errorf("failed to get email_verification_tokens collection: %v", common.ErrNotFound)
	}

	resetTokenCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.PasswordResetTokens)
	if !exist {
		return nil, fmt.Errorf("failed to get password_reset_tokens collection: %v", common.ErrNotFound)
	}

	mailSender, err := NewMailSenderService()
	if err != nil {
		return nil, fmt.Errorf("failed to create mail sender service: %v", err)
	}

	return &UserService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.User](userCollection),
		emailTokenService:    NewBaseServiceMongo[models.EmailVerificationToken](emailTokenCollection),
		resetTokenService:    NewBaseServiceMongo[models.PasswordResetToken](resetTokenCollection),
		mailSender:           mailSender,
	}, nil
}

// Registration đăng ký tài khoản mới và gửi mã OTP xác thực qua email
func (s *UserService) Registration(ctx context.Context, input *dto.UserCreateInput) (models.User, error) {
	var zero models.User

	// Kiểm tra email đã tồn tại chưa
	exists, err := s.DocumentExists(ctx, bson.M{"email": input.Email})
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, common.NewError(
			common.ErrCodeAuthCredentials,
			"Email này đã được sử dụng",
			common.StatusConflict,
			nil,
		)
	}

	hashedPassword, err := utility.HashPassword(input.Password)
	if err != nil {
		return zero, common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}

	created, err := s.InsertOne(ctx, user)
	if err != nil {
		return zero, err
	}

	// Phát hành OTP xác thực email cho tài khoản vừa tạo
	if err := s.issueVerificationOTP(ctx, created); err != nil {
		return zero, err
	}

	return created, nil
}

// issueVerificationOTP sinh OTP 6 chữ số, lưu bản băm và gửi mã qua email.
// Email gửi lỗi chỉ log cảnh báo, không làm hỏng đăng ký (người dùng có thể yêu cầu gửi lại).
func (s *UserService) issueVerificationOTP(ctx context.Context, user models.User) error {
	otp, err := utility.GenerateOTP(6)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}

	hashedOTP, err := utility.HashPassword(otp)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}

	token := models.EmailVerificationToken{
		Owner:       user.ID,
		Token:       hashedOTP,
		CreatedDate: time.Now(),
	}
	if _, err := s.emailTokenService.InsertOne(ctx, token); err != nil {
		return err
	}

	if err := s.mailSender.SendVerificationOTP(ctx, user.Email, user.Name, otp); err != nil {
		logger.GetAppLogger().WithError(err).WithField("email", user.Email).Warn("⚠️ Không gửi được email OTP xác thực")
	}

	return nil
}

// VerifyEmail xác thực email bằng mã OTP đã gửi cho người dùng
func (s *UserService) VerifyEmail(ctx context.Context, input *dto.VerifyEmailInput) (models.User, error) {
	var zero models.User

	userID := utility.String2ObjectID(input.UserID)
	if userID.IsZero() {
		return zero, common.ErrInvalidFormat
	}

	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		return zero, err
	}

	if user.IsVerified {
		return zero, common.NewError(
			common.ErrCodeBusinessOperation,
			"Tài khoản đã được xác thực trước đó",
			common.StatusBadRequest,
			nil,
		)
	}

	token, err := s.emailTokenService.FindOne(ctx, bson.M{"owner": userID}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, common.ErrOtpInvalid
		}
		return zero, err
	}

	if !utility.ComparePassword(token.Token, input.OTP) {
		return zero, common.ErrOtpInvalid
	}

	updated, err := s.UpdateById(ctx, userID, &UpdateData{
		Set: map[string]interface{}{"isVerified": true},
	})
	if err != nil {
		return zero, err
	}

	// Token dùng một lần, xóa ngay sau khi xác thực thành công
	if err := s.emailTokenService.DeleteById(ctx, token.ID); err != nil {
		logger.GetAppLogger().WithError(err).Warn("⚠️ Không xóa được token xác thực email sau khi dùng")
	}

	if err := s.mailSender.SendWelcome(ctx, user.Email, user.Name); err != nil {
		logger.GetAppLogger().WithError(err).WithField("email", user.Email).Warn("⚠️ Không gửi được email chào mừng")
	}

	return updated, nil
}

// ResendVerificationToken phát hành lại mã OTP xác thực email.
// Khi token cũ còn hiệu lực (chưa hết TTL 1 giờ), từ chối yêu cầu.
func (s *UserService) ResendVerificationToken(ctx context.Context, input *dto.ResendOTPInput) error {
	userID := utility.String2ObjectID(input.UserID)
	if userID.IsZero() {
		return common.ErrInvalidFormat
	}

	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return common.NewError(
			common.ErrCodeBusinessOperation,
			"Tài khoản đã được xác thực trước đó",
			common.StatusBadRequest,
			nil,
		)
	}

	exists, err := s.emailTokenService.DocumentExists(ctx, bson.M{"owner": userID})
	if err != nil {
		return err
	}
	if exists {
		return common.NewError(
			common.ErrCodeBusinessOperation,
			"Chỉ có thể yêu cầu mã mới sau một giờ",
			common.StatusBadRequest,
			nil,
		)
	}

	return s.issueVerificationOTP(ctx, user)
}

// SignIn đăng nhập, trả về user kèm JWT token.
// Token được lưu vào document user để middleware tra cứu khi xác thực request.
func (s *UserService) SignIn(ctx context.Context, input *dto.UserSignInInput) (models.User, error) {
	var zero models.User

	user, err := s.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, common.ErrInvalidCredentials
		}
		return zero, err
	}

	if !utility.ComparePassword(user.Password, input.Password) {
		return zero, common.ErrInvalidCredentials
	}

	// Tạo JWT token
	rdNumber := rand.Intn(100)
	currentTime := time.Now().Unix()

	tokenMap, err := utility.CreateToken(
		global.MongoDB_ServerConfig.JwtSecret,
		user.ID.Hex(),
		strconv.FormatInt(currentTime, 16),
		strconv.Itoa(rdNumber),
	)
	if err != nil {
		return zero, err
	}

	updated, err := s.UpdateById(ctx, user.ID, &UpdateData{
		Set: map[string]interface{}{"token": tokenMap["token"]},
	})
	if err != nil {
		return zero, err
	}

	return updated, nil
}

// Logout đăng xuất người dùng, gỡ token khỏi document user
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.UpdateById(ctx, userID, &UpdateData{
		Set:   map[string]interface{}{},
		Unset: map[string]interface{}{"token": ""},
	})
	return err
}

// ForgetPassword phát hành token đặt lại mật khẩu và gửi link qua email.
// Khi token cũ còn hiệu lực, từ chối yêu cầu mới.
func (s *UserService) ForgetPassword(ctx context.Context, input *dto.ForgetPasswordInput) error {
	user, err := s.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUserNotFound
		}
		return err
	}

	exists, err := s.resetTokenService.DocumentExists(ctx, bson.M{"owner": user.ID})
	if err != nil {
		return err
	}
	if exists {
		return common.NewError(
			common.ErrCodeBusinessOperation,
			"Chỉ có thể yêu cầu token mới sau một giờ",
			common.StatusBadRequest,
			nil,
		)
	}

	rawToken, err := utility.GenerateRandomHex(30)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}

	hashedToken, err := utility.HashPassword(rawToken)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}

	token := models.PasswordResetToken{
		Owner:       user.ID,
		Token:       hashedToken,
		CreatedDate: time.Now(),
	}
	if _, err := s.resetTokenService.InsertOne(ctx, token); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s&id=%s",
		global.MongoDB_ServerConfig.FrontendURL, rawToken, user.ID.Hex())
	if err := s.mailSender.SendPasswordResetLink(ctx, user.Email, resetURL); err != nil {
		logger.GetAppLogger().WithError(err).WithField("email", user.Email).Warn("⚠️ Không gửi được email đặt lại mật khẩu")
	}

	return nil
}

// VerifyResetToken kiểm tra token đặt lại mật khẩu có hợp lệ cho user không
func (s *UserService) VerifyResetToken(ctx context.Context, userID primitive.ObjectID, rawToken string) error {
	token, err := s.resetTokenService.FindOne(ctx, bson.M{"owner": userID}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrTokenInvalid
		}
		return err
	}

	if !utility.ComparePassword(token.Token, rawToken) {
		return common.ErrTokenInvalid
	}

	return nil
}

// ResetPassword đặt mật khẩu mới sau khi token đặt lại được xác thực.
// Mật khẩu mới phải khác mật khẩu hiện tại.
func (s *UserService) ResetPassword(ctx context.Context, input *dto.ResetPasswordInput) error {
	userID := utility.String2ObjectID(input.UserID)
	if userID.IsZero() {
		return common.ErrInvalidFormat
	}

	if err := s.VerifyResetToken(ctx, userID, input.Token); err != nil {
		return err
	}

	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		return err
	}

	if utility.ComparePassword(user.Password, input.NewPassword) {
		return common.NewError(
			common.ErrCodeBusinessOperation,
			"Mật khẩu mới phải khác mật khẩu cũ",
			common.StatusBadRequest,
			nil,
		)
	}

	hashedPassword, err := utility.HashPassword(input.NewPassword)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}

	// Đổi mật khẩu đồng thời thu hồi token đăng nhập hiện tại
	_, err = s.UpdateById(ctx, userID, &UpdateData{
		Set:   map[string]interface{}{"password": hashedPassword},
		Unset: map[string]interface{}{"token": ""},
	})
	if err != nil {
		return err
	}

	if _, err := s.resetTokenService.DeleteMany(ctx, bson.M{"owner": userID}); err != nil {
		logger.GetAppLogger().WithError(err).Warn("⚠️ Không xóa được token đặt lại mật khẩu sau khi dùng")
	}

	if err := s.mailSender.SendPasswordChanged(ctx, user.Email); err != nil {
		logger.GetAppLogger().WithError(err).WithField("email", user.Email).Warn("⚠️ Không gửi được email thông báo đổi mật khẩu")
	}

	return nil
}
