package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"movie_review/config"
	models "movie_review/core/api/models/mongodb"
	"movie_review/core/database"
	"movie_review/core/global"
)

// InitGlobal khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// initColNames khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "auth_users"
	global.MongoDB_ColNames.EmailVerificationTokens = "auth_email_verification_tokens"
	global.MongoDB_ColNames.PasswordResetTokens = "auth_password_reset_tokens"
	global.MongoDB_ColNames.Actors = "catalog_actors"
	global.MongoDB_ColNames.Movies = "catalog_movies"
	global.MongoDB_ColNames.Reviews = "catalog_reviews"

	logrus.Info("Initialized collection names")
}

// initValidator khởi tạo validator (đăng ký custom validators: no_xss, strong_password, genre)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// initConfig khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// initDatabase_MongoDB khởi tạo kết nối database, collections và indexes
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo database và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection theo tag trên model
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), models.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.EmailVerificationTokens), models.EmailVerificationToken{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.PasswordResetTokens), models.PasswordResetToken{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Actors), models.Actor{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Movies), models.Movie{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Reviews), models.Review{})
}
