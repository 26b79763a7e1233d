// Package middleware chứa các middleware xác thực và phân quyền cho Fiber
package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	models "movie_review/core/api/models/mongodb"
	"movie_review/core/api/services"
	"movie_review/core/common"
	"movie_review/core/global"
	"movie_review/core/utility"
	"movie_review/internal/logger"
)

// AuthManager quản lý xác thực và phân quyền người dùng
type AuthManager struct {
	UserCRUD *services.UserService
	Cache    *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager (private constructor)
func newAuthManager() (*AuthManager, error) {
	userService, err := services.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}

	return &AuthManager{
		UserCRUD: userService,
		// Cache user theo token với thời gian sống 5 phút, dọn dẹp mỗi 10 phút
		Cache: utility.NewCache(5*time.Minute, 10*time.Minute),
	}, nil
}

// handleErrorResponse trả về lỗi theo envelope chuẩn của API
func handleErrorResponse(c fiber.Ctx, err error) {
	c.Set("Content-Type", "application/json; charset=utf-8")

	var customErr *common.Error
	if errors.As(err, &customErr) {
		c.Status(customErr.StatusCode).JSON(fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": customErr.Details,
			"status":  "error",
		})
		return
	}
	c.Status(common.StatusInternalServerError).JSON(fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": err.Error(),
		"status":  "error",
	})
}

// tokenCacheKey tạo key cache cho một token xác thực
func tokenCacheKey(token string) string {
	return "auth_token:" + token
}

// InvalidateToken gỡ token khỏi cache xác thực.
// Phải gọi khi logout để token bị thu hồi có hiệu lực ngay, không chờ hết ttl.
func (am *AuthManager) InvalidateToken(token string) {
	am.Cache.Delete(tokenCacheKey(token))
}

// InvalidateToken gỡ token khỏi cache của AuthManager toàn cục
func InvalidateToken(token string) {
	GetAuthManager().InvalidateToken(token)
}

// findUserByToken tìm user theo token, ưu tiên cache để giảm tải database
func (am *AuthManager) findUserByToken(token string) (models.User, error) {
	cacheKey := tokenCacheKey(token)
	if cached, found := am.Cache.Get(cacheKey); found {
		return cached.(models.User), nil
	}

	user, err := am.UserCRUD.FindOne(context.Background(), bson.M{"token": token}, nil)
	if err != nil {
		return models.User{}, err
	}

	am.Cache.Set(cacheKey, user)
	return user, nil
}

// IsAuth middleware xác thực người dùng qua Bearer token.
// Token phải hợp lệ về chữ ký JWT và phải trùng với token đang lưu trên user.
func IsAuth() fiber.Handler {
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Thiếu Authorization header")
			handleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			handleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		token := parts[1]

		// Kiểm tra chữ ký và hạn của JWT trước khi chạm tới database
		if _, err := utility.ParseToken(global.MongoDB_ServerConfig.JwtSecret, token); err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token không hợp lệ")
			handleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Token phải là token đang hiệu lực của user (logout sẽ gỡ token)
		user, err := authManager.findUserByToken(token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token không tồn tại trong database")
			handleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", user)
		return c.Next()
	}
}

// IsAdmin middleware yêu cầu người dùng có vai trò admin.
// Phải chạy sau IsAuth.
func IsAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		user, ok := c.Locals("user").(models.User)
		if !ok {
			handleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		if user.Role != models.RoleAdmin {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id": user.ID.Hex(),
				"role":    user.Role,
				"path":    c.Path(),
			}).Warn("❌ [AUTH] Người dùng không có quyền admin")
			handleErrorResponse(c, common.ErrNotAdmin)
			return nil
		}
		return c.Next()
	}
}

// IsValidUser middleware yêu cầu tài khoản đã xác thực email.
// Phải chạy sau IsAuth.
func IsValidUser() fiber.Handler {
	return func(c fiber.Ctx) error {
		user, ok := c.Locals("user").(models.User)
		if !ok {
			handleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		if !user.IsVerified {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id": user.ID.Hex(),
				"path":    c.Path(),
			}).Warn("❌ [AUTH] Tài khoản chưa xác thực email")
			handleErrorResponse(c, common.ErrUserNotVerified)
			return nil
		}
		return c.Next()
	}
}
