package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Địa chỉ server
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật JWT
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// SMTP Configuration (gửi OTP và email thông báo)
	SMTPHost     string `env:"SMTP_HOST,required"`              // Host SMTP
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`      // Port SMTP
	SMTPUsername string `env:"SMTP_USERNAME,required"`          // Tài khoản SMTP
	SMTPPassword string `env:"SMTP_PASSWORD,required"`          // Mật khẩu SMTP
	MailFrom     string `env:"MAIL_FROM" envDefault:"verification@moviereview.com"` // Địa chỉ gửi mặc định

	// Media Gateway Configuration (dịch vụ lưu trữ ảnh/video)
	MediaCloudName string `env:"MEDIA_CLOUD_NAME,required"` // Tên cloud trên dịch vụ media
	MediaAPIKey    string `env:"MEDIA_API_KEY,required"`    // API key dịch vụ media
	MediaAPISecret string `env:"MEDIA_API_SECRET,required"` // API secret dịch vụ media
	MediaBaseURL   string `env:"MEDIA_BASE_URL" envDefault:"https://api.cloudinary.com/v1_1"` // Base URL API dịch vụ media

	// Admin mặc định (seed lúc khởi động, optional)
	AdminEmail    string `env:"ADMIN_EMAIL"`    // Email của admin mặc định
	AdminPassword string `env:"ADMIN_PASSWORD"` // Mật khẩu của admin mặc định

	// Frontend URL (dùng trong link đặt lại mật khẩu)
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"` // URL frontend

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Tìm thư mục config
	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ các file env được cung cấp.
// Không truyền file nào thì dùng file theo GO_ENV trong config/env.
func NewConfig(files ...string) *Configuration {
	if len(files) == 0 {
		envPath := getEnvPath()
		if envPath == "" {
			// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
			fmt.Printf("Không tìm thấy thư mục config/env\n")
			return nil
		}
		files = []string{envPath}
	}

	err := godotenv.Load(files...)
	if err != nil {
		fmt.Printf("Không thể load file env tại %v: %v\n", files, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
