package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hashed, err := HashPassword("MatKhau@123")
	require.NoError(t, err, "HashPassword không được trả về lỗi")
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "MatKhau@123", hashed, "hash không được trùng với chuỗi gốc")

	assert.True(t, ComparePassword(hashed, "MatKhau@123"), "mật khẩu đúng phải khớp với hash")
	assert.False(t, ComparePassword(hashed, "MatKhauSai"), "mật khẩu sai không được khớp với hash")
}

func TestHashPassword_DifferentSalt(t *testing.T) {
	h1, err := HashPassword("MatKhau@123")
	require.NoError(t, err)
	h2, err := HashPassword("MatKhau@123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "hai lần băm cùng một mật khẩu phải ra hash khác nhau (salt ngẫu nhiên)")
}

func TestComparePassword_InvalidHash(t *testing.T) {
	assert.False(t, ComparePassword("khong-phai-bcrypt-hash", "MatKhau@123"))
}

func TestGenerateOTP(t *testing.T) {
	t.Run("đúng độ dài và chỉ chứa chữ số", func(t *testing.T) {
		otp, err := GenerateOTP(6)
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, ch := range otp {
			assert.True(t, ch >= '0' && ch <= '9', "OTP chứa ký tự không phải chữ số: %q", ch)
		}
	})

	t.Run("độ dài không hợp lệ dùng mặc định 6", func(t *testing.T) {
		otp, err := GenerateOTP(0)
		require.NoError(t, err)
		assert.Len(t, otp, 6)

		otp, err = GenerateOTP(-3)
		require.NoError(t, err)
		assert.Len(t, otp, 6)
	})

	t.Run("độ dài tùy chỉnh", func(t *testing.T) {
		otp, err := GenerateOTP(8)
		require.NoError(t, err)
		assert.Len(t, otp, 8)
	})
}

func TestGenerateRandomHex(t *testing.T) {
	t.Run("độ dài hex gấp đôi số byte", func(t *testing.T) {
		s, err := GenerateRandomHex(30)
		require.NoError(t, err)
		assert.Len(t, s, 60)
	})

	t.Run("byteLen không hợp lệ dùng mặc định 30", func(t *testing.T) {
		s, err := GenerateRandomHex(0)
		require.NoError(t, err)
		assert.Len(t, s, 60)
	})

	t.Run("hai lần sinh không trùng nhau", func(t *testing.T) {
		s1, err := GenerateRandomHex(16)
		require.NoError(t, err)
		s2, err := GenerateRandomHex(16)
		require.NoError(t, err)
		assert.NotEqual(t, s1, s2)
	})
}
