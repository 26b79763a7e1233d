package utility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetDelete(t *testing.T) {
	cache := NewCache(5*time.Minute, time.Hour)
	defer cache.Stop()

	_, exists := cache.Get("khong-ton-tai")
	assert.False(t, exists, "key chưa set thì Get phải trả về false")

	cache.Set("token", "abc123")
	value, exists := cache.Get("token")
	require.True(t, exists)
	assert.Equal(t, "abc123", value)

	// Set đè key cũ
	cache.Set("token", "xyz789")
	value, _ = cache.Get("token")
	assert.Equal(t, "xyz789", value)

	cache.Delete("token")
	_, exists = cache.Get("token")
	assert.False(t, exists, "key đã Delete thì Get phải trả về false")
}

func TestCache_TTLExpiry(t *testing.T) {
	// cleanup rất lâu để chắc chắn Get tự kiểm tra hạn, không dựa vào cleanup loop
	cache := NewCache(20*time.Millisecond, time.Hour)
	defer cache.Stop()

	cache.Set("token", "abc123")
	value, exists := cache.Get("token")
	require.True(t, exists, "entry còn hạn phải đọc được")
	assert.Equal(t, "abc123", value)

	time.Sleep(30 * time.Millisecond)

	_, exists = cache.Get("token")
	assert.False(t, exists, "entry quá ttl phải bị coi là không tồn tại kể cả khi cleanup chưa chạy")
}

func TestCache_CleanupLoop(t *testing.T) {
	cache := NewCache(time.Millisecond, 10*time.Millisecond)
	defer cache.Stop()

	cache.Set("a", 1)
	cache.Set("b", 2)

	// Chờ cleanup loop chạy ít nhất một lần
	time.Sleep(50 * time.Millisecond)

	_, existsA := cache.Get("a")
	_, existsB := cache.Get("b")
	assert.False(t, existsA, "cleanup phải gỡ item đã hết hạn")
	assert.False(t, existsB, "cleanup phải gỡ item đã hết hạn")
}

func TestCache_CleanupKeepsFreshEntries(t *testing.T) {
	cache := NewCache(time.Hour, 10*time.Millisecond)
	defer cache.Stop()

	cache.Set("con-han", "giu-lai")

	time.Sleep(50 * time.Millisecond)

	value, exists := cache.Get("con-han")
	require.True(t, exists, "cleanup không được xóa entry còn hạn")
	assert.Equal(t, "giu-lai", value)
}
