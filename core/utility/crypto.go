package utility

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost là cost dùng cho mọi hash bcrypt trong hệ thống
const bcryptCost = 10

// HashPassword băm mật khẩu (hoặc mã OTP) bằng bcrypt
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("không thể băm mật khẩu: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword so sánh chuỗi gốc với hash bcrypt, trả về true nếu khớp
func ComparePassword(hashed string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// GenerateOTP sinh mã OTP gồm length chữ số, dùng crypto/rand
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	otp := make([]byte, length)
	for i := range otp {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("không thể sinh mã OTP: %w", err)
		}
		otp[i] = byte('0' + n.Int64())
	}
	return string(otp), nil
}

// GenerateRandomHex sinh chuỗi hex ngẫu nhiên từ byteLen byte, dùng crypto/rand
func GenerateRandomHex(byteLen int) (string, error) {
	if byteLen <= 0 {
		byteLen = 30
	}

	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("không thể sinh chuỗi ngẫu nhiên: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
