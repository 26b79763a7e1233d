package main

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	models "movie_review/core/api/models/mongodb"
	"movie_review/core/api/services"
	"movie_review/core/common"
	"movie_review/core/global"
	"movie_review/core/utility"
	"movie_review/internal/logger"
)

// InitDefaultData khởi tạo dữ liệu mặc định cho hệ thống
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	if err := initAdminUser(); err != nil {
		log.WithError(err).Error("❌ [INIT] Failed to initialize admin user")
		return
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}

// initAdminUser seed tài khoản admin hệ thống từ ADMIN_EMAIL và ADMIN_PASSWORD.
// Tài khoản seed có isSystem=true nên không thể bị xóa qua API.
func initAdminUser() error {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Info("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	userService, err := services.NewUserService()
	if err != nil {
		return err
	}

	// Seed là thao tác idempotent: admin đã tồn tại thì bỏ qua
	_, err = userService.FindOne(context.Background(), bson.M{"email": cfg.AdminEmail}, nil)
	if err == nil {
		log.Infof("Admin user %s already exists, skipping seed", cfg.AdminEmail)
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	hashedPassword, err := utility.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	// Chỉ quá trình seed được phép tạo document hệ thống
	ctx := services.WithSystemDataInsertAllowed(context.Background())
	admin, err := userService.InsertOne(ctx, models.User{
		Name:       "Administrator",
		Email:      cfg.AdminEmail,
		Password:   hashedPassword,
		IsVerified: true,
		Role:       models.RoleAdmin,
		IsSystem:   true,
	})
	if err != nil {
		return err
	}

	log.Infof("✅ [INIT] Admin user seeded successfully (ID: %s)", admin.ID.Hex())
	return nil
}
