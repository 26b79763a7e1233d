package global

import (
	"movie_review/config"
	"movie_review/core/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Users                   string // Tên collection cho người dùng
	EmailVerificationTokens string // Tên collection cho mã OTP xác thực email
	PasswordResetTokens     string // Tên collection cho mã đặt lại mật khẩu
	Actors                  string // Tên collection cho diễn viên
	Movies                  string // Tên collection cho phim
	Reviews                 string // Tên collection cho đánh giá phim
}

// Các biến toàn cục
var Validate *validator.Validate               // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName    // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases

// MovieGenres là danh sách thể loại phim hợp lệ.
// Genres gửi lên ngoài danh sách này bị từ chối ở tầng validate.
var MovieGenres = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy",
	"Crime", "Documentary", "Drama", "Family", "Fantasy",
	"Film-Noir", "History", "Horror", "Music", "Musical",
	"Mystery", "Romance", "Sci-Fi", "Sport", "Thriller",
	"War", "Western",
}
