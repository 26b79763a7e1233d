package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNoXSS(t *testing.T) {
	InitValidator()

	valid := []string{
		"John Carter",
		"Phim hành động hay nhất 2024",
		"An actor & a director",
	}
	for _, v := range valid {
		assert.NoError(t, Validate.Var(v, "no_xss"), "chuỗi an toàn bị chặn nhầm: %q", v)
	}

	dangerous := []string{
		"<script>alert(1)</script>",
		"javascript:alert(1)",
		"<img src=x onerror=alert(1)>",
		"<IFRAME src='https://evil.example'>",
		"x';document.cookie",
	}
	for _, v := range dangerous {
		assert.Error(t, Validate.Var(v, "no_xss"), "chuỗi nguy hiểm không bị chặn: %q", v)
	}
}

func TestValidateStrongPassword(t *testing.T) {
	InitValidator()

	t.Run("mật khẩu hợp lệ", func(t *testing.T) {
		valid := []string{
			"MatKhau123",  // hoa + thường + số
			"matkhau@123", // thường + số + ký tự đặc biệt
			"MATKHAU@123", // hoa + số + ký tự đặc biệt
			"MatKhau@xyz", // hoa + thường + ký tự đặc biệt
		}
		for _, v := range valid {
			assert.NoError(t, Validate.Var(v, "strong_password"), "mật khẩu mạnh bị từ chối nhầm: %q", v)
		}
	})

	t.Run("mật khẩu không hợp lệ", func(t *testing.T) {
		invalid := []string{
			"Ab@1",                      // quá ngắn
			"MatKhau@123MatKhau@123xx",  // quá dài (>20)
			"matkhau123",                // chỉ 2/4 điều kiện
			"matkhauyeu",                // chỉ chữ thường
			"12345678",                  // chỉ chữ số
		}
		for _, v := range invalid {
			assert.Error(t, Validate.Var(v, "strong_password"), "mật khẩu yếu không bị từ chối: %q", v)
		}
	})
}

func TestValidateGenre(t *testing.T) {
	InitValidator()
	require.NotEmpty(t, MovieGenres)

	for _, genre := range MovieGenres {
		assert.NoError(t, Validate.Var(genre, "genre"), "genre hợp lệ bị từ chối: %q", genre)
	}

	invalid := []string{"action", "Phim Hài", "SciFi", ""}
	for _, v := range invalid {
		assert.Error(t, Validate.Var(v, "genre"), "genre ngoài danh sách không bị từ chối: %q", v)
	}
}
