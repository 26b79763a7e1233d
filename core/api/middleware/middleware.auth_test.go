package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "movie_review/core/api/models/mongodb"
	"movie_review/core/utility"
)

func TestTokenCacheKey(t *testing.T) {
	assert.Equal(t, "auth_token:abc123", tokenCacheKey("abc123"))
}

func TestAuthManager_InvalidateToken(t *testing.T) {
	am := &AuthManager{
		Cache: utility.NewCache(5*time.Minute, 10*time.Minute),
	}
	defer am.Cache.Stop()

	token := "jwt-dang-hieu-luc"
	am.Cache.Set(tokenCacheKey(token), models.User{Name: "Nguyễn Văn A"})

	cached, found := am.Cache.Get(tokenCacheKey(token))
	require.True(t, found)
	assert.Equal(t, "Nguyễn Văn A", cached.(models.User).Name)

	am.InvalidateToken(token)

	_, found = am.Cache.Get(tokenCacheKey(token))
	assert.False(t, found, "token đã logout không được còn trong cache xác thực")
}
