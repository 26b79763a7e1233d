package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requiredEnvKeys là các biến bắt buộc để parse Configuration thành công
var requiredEnvKeys = map[string]string{
	"JWT_SECRET":             "test-secret",
	"MONGODB_CONNECTION_URI": "mongodb://localhost:27017",
	"MONGODB_DBNAME":         "movie_review_test",
	"SMTP_HOST":              "smtp.example.com",
	"SMTP_USERNAME":          "mailer",
	"SMTP_PASSWORD":          "mail-pass",
	"MEDIA_CLOUD_NAME":       "demo-cloud",
	"MEDIA_API_KEY":          "media-key",
	"MEDIA_API_SECRET":       "media-secret",
}

func writeEnvFile(t *testing.T, extra map[string]string) string {
	t.Helper()

	content := ""
	for key, value := range requiredEnvKeys {
		content += fmt.Sprintf("%s=%s\n", key, value)
	}
	for key, value := range extra {
		content += fmt.Sprintf("%s=%s\n", key, value)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnvKeys(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewConfig_DocTuFileDuocTruyen(t *testing.T) {
	// godotenv không ghi đè biến đã có trong môi trường
	clearEnvKeys(t, "ADDRESS", "JWT_SECRET", "MONGODB_DBNAME")

	envPath := writeEnvFile(t, map[string]string{
		"ADDRESS": ":9090",
	})

	cfg := NewConfig(envPath)
	require.NotNil(t, cfg, "NewConfig phải đọc được file env được truyền vào")

	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, "test-secret", cfg.JwtSecret)
	assert.Equal(t, "movie_review_test", cfg.MongoDB_DBName)
	assert.Equal(t, "*", cfg.CORS_Origins, "giá trị không khai báo phải dùng default")
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestNewConfig_FileKhongTonTai(t *testing.T) {
	cfg := NewConfig(filepath.Join(t.TempDir(), "khong-ton-tai.env"))
	assert.Nil(t, cfg, "file env không tồn tại phải trả về nil")
}
