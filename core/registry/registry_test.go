package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	ok, err := r.Register("catalog_movies", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	value, exists := r.Get("catalog_movies")
	require.True(t, exists)
	assert.Equal(t, 1, value)

	_, exists = r.Get("chua-dang-ky")
	assert.False(t, exists)
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry[string]()

	_, err := r.Register("auth_users", "a")
	require.NoError(t, err)

	ok, err := r.Register("auth_users", "b")
	assert.Error(t, err, "đăng ký trùng tên phải trả về lỗi")
	assert.False(t, ok)

	// Item đầu tiên không bị ghi đè
	value, _ := r.Get("auth_users")
	assert.Equal(t, "a", value)
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry[int]()
	_, _ = r.Register("a", 1)
	_, _ = r.Register("b", 2)

	names := r.Names()
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_, _ = r.Register(string(rune('a'+n%26)), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			_, _ = r.Get(string(rune('a' + n%26)))
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, len(r.Names()), 26)
}
