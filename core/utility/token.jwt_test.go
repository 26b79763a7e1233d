package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateToken_ParseToken_RoundTrip(t *testing.T) {
	secret := "test-jwt-secret"
	result, err := CreateToken(secret, "651f1f77bcf86cd799439011", "18b2f3a0", "a1b2c3")
	require.NoError(t, err, "CreateToken không được trả về lỗi")

	tokenString, ok := result["token"]
	require.True(t, ok, "kết quả phải chứa key 'token'")
	require.NotEmpty(t, tokenString)

	claims, err := ParseToken(secret, tokenString)
	require.NoError(t, err, "token vừa ký phải parse được bằng đúng secret")
	assert.Equal(t, "651f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "18b2f3a0", claims.Time)
	assert.Equal(t, "a1b2c3", claims.RandomNumber)
}

func TestParseToken_WrongSecret(t *testing.T) {
	result, err := CreateToken("secret-a", "651f1f77bcf86cd799439011", "18b2f3a0", "a1b2c3")
	require.NoError(t, err)

	_, err = ParseToken("secret-b", result["token"])
	assert.Error(t, err, "token ký bằng secret khác phải bị từ chối")
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("secret", "khong.phai.jwt")
	assert.Error(t, err)

	_, err = ParseToken("secret", "")
	assert.Error(t, err)
}
