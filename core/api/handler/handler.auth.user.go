// Package handler chứa các handler xử lý request HTTP cho xác thực và danh mục phim
package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"movie_review/core/api/dto"
	"movie_review/core/api/middleware"
	models "movie_review/core/api/models/mongodb"
	"movie_review/core/api/services"
	"movie_review/core/common"
)

// UserHandler xử lý các request liên quan đến xác thực và quản lý thông tin người dùng
type UserHandler struct {
	*BaseHandler[models.User, dto.UserCreateInput, dto.UserUpdateInput]
	userService *services.UserService
}

// NewUserHandler tạo một instance mới của UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := services.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}

	return &UserHandler{
		BaseHandler: NewBaseHandler[models.User, dto.UserCreateInput, dto.UserUpdateInput](userService),
		userService: userService,
	}, nil
}

// getAuthenticatedUserID lấy ObjectID của người dùng đã xác thực từ context.
// Middleware IsAuth phải chạy trước và set user_id vào Locals.
func getAuthenticatedUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	userID := c.Locals("user_id")
	if userID == nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeAuth,
			"Người dùng chưa đăng nhập",
			common.StatusUnauthorized,
			nil,
		)
	}

	objID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			"User ID không hợp lệ",
			common.StatusBadRequest,
			err.Error(),
		)
	}
	return objID, nil
}

// HandleRegistration xử lý đăng ký tài khoản mới.
// Tài khoản sau khi tạo ở trạng thái chưa xác thực, OTP được gửi qua email.
func (h *UserHandler) HandleRegistration(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input dto.UserCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.Registration(c.Context(), &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{
			"user": fiber.Map{
				"id":    user.ID.Hex(),
				"name":  user.Name,
				"email": user.Email,
			},
		}, nil)
		return nil
	})
}

// HandleVerifyEmail xác thực email bằng mã OTP đã gửi
func (h *UserHandler) HandleVerifyEmail(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input dto.VerifyEmailInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.VerifyEmail(c.Context(), &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{
			"user": fiber.Map{
				"id":         user.ID.Hex(),
				"name":       user.Name,
				"email":      user.Email,
				"isVerified": user.IsVerified,
				"role":       user.Role,
			},
			"message": "Email đã được xác thực thành công",
		}, nil)
		return nil
	})
}

// HandleResendOTP gửi lại mã OTP xác thực email
func (h *UserHandler) HandleResendOTP(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input dto.ResendOTPInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err := h.userService.ResendVerificationToken(c.Context(), &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{
			"message": "Mã OTP mới đã được gửi tới email của bạn",
		}, nil)
		return nil
	})
}

// HandleSignIn xử lý đăng nhập, trả về thông tin người dùng kèm JWT token
func (h *UserHandler) HandleSignIn(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input dto.UserSignInInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.SignIn(c.Context(), &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		// Token có json:"-" trên model nên phải trả về tường minh
		h.HandleResponse(c, fiber.Map{
			"user": fiber.Map{
				"id":         user.ID.Hex(),
				"name":       user.Name,
				"email":      user.Email,
				"role":       user.Role,
				"isVerified": user.IsVerified,
				"token":      user.Token,
			},
		}, nil)
		return nil
	})
}

// HandleLogout đăng xuất, vô hiệu hóa token hiện tại của người dùng
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := getAuthenticatedUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.userService.Logout(c.Context(), userID)
		if err == nil {
			// Gỡ token khỏi cache xác thực để logout có hiệu lực ngay
			authHeader := c.Get("Authorization")
			if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
				middleware.InvalidateToken(parts[1])
			}
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleForgetPassword phát hành link đặt lại mật khẩu qua email
func (h *UserHandler) HandleForgetPassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input dto.ForgetPasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err := h.userService.ForgetPassword(c.Context(), &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{
			"message": "Link đặt lại mật khẩu đã được gửi tới email của bạn",
		}, nil)
		return nil
	})
}

// HandleVerifyResetToken kiểm tra token đặt lại mật khẩu còn hiệu lực hay không.
// Frontend gọi endpoint này trước khi hiển thị form nhập mật khẩu mới.
func (h *UserHandler) HandleVerifyResetToken(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input dto.VerifyResetTokenInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		userID := primitive.NilObjectID
		if oid, err := primitive.ObjectIDFromHex(input.UserID); err == nil {
			userID = oid
		} else {
			h.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}

		if err := h.userService.VerifyResetToken(c.Context(), userID, input.Token); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{"valid": true}, nil)
		return nil
	})
}

// HandleResetPassword đặt mật khẩu mới bằng token đặt lại hợp lệ
func (h *UserHandler) HandleResetPassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input dto.ResetPasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err := h.userService.ResetPassword(c.Context(), &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{
			"message": "Mật khẩu đã được thay đổi, vui lòng đăng nhập lại",
		}, nil)
		return nil
	})
}

// HandleIsAuth trả về thông tin người dùng hiện tại.
// Frontend dùng endpoint này để khôi phục phiên đăng nhập khi reload trang.
func (h *UserHandler) HandleIsAuth(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := getAuthenticatedUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.FindOneById(c.Context(), userID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{
			"user": fiber.Map{
				"id":         user.ID.Hex(),
				"name":       user.Name,
				"email":      user.Email,
				"role":       user.Role,
				"isVerified": user.IsVerified,
			},
		}, nil)
		return nil
	})
}

// HandleGetProfile lấy profile của chính người dùng đang đăng nhập.
// Model User đã giấu password và token qua json:"-" nên trả về trực tiếp được.
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := getAuthenticatedUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.FindOneById(c.Context(), userID)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleUpdateProfile cập nhật thông tin hiển thị của chính người dùng
func (h *UserHandler) HandleUpdateProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := getAuthenticatedUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.UserUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		set := updateSetFromInput(input)
		if len(set) == 0 {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Không có dữ liệu nào để cập nhật",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		user, err := h.userService.UpdateById(c.Context(), userID, &services.UpdateData{Set: set})
		h.HandleResponse(c, user, err)
		return nil
	})
}
