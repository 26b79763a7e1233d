package services

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignParams(t *testing.T) {
	s := &MediaGatewayService{apiSecret: "test-api-secret"}

	t.Run("ký đúng chuẩn sort key rồi SHA1", func(t *testing.T) {
		params := map[string]string{
			"timestamp": "1700000000",
			"folder":    "movie/posters",
		}

		// Key phải được sort: folder đứng trước timestamp
		sum := sha1.Sum([]byte("folder=movie/posters&timestamp=1700000000" + "test-api-secret"))
		want := hex.EncodeToString(sum[:])

		assert.Equal(t, want, s.signParams(params))
	})

	t.Run("chữ ký ổn định giữa các lần gọi", func(t *testing.T) {
		params := map[string]string{
			"public_id": "movie/posters/abc123",
			"timestamp": "1700000000",
		}
		first := s.signParams(params)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, s.signParams(params), "chữ ký phải không phụ thuộc thứ tự duyệt map")
		}
	})

	t.Run("secret khác cho chữ ký khác", func(t *testing.T) {
		other := &MediaGatewayService{apiSecret: "secret-khac"}
		params := map[string]string{"timestamp": "1700000000"}
		assert.NotEqual(t, s.signParams(params), other.signParams(params))
	})

	t.Run("tham số rỗng", func(t *testing.T) {
		sum := sha1.Sum([]byte("test-api-secret"))
		assert.Equal(t, hex.EncodeToString(sum[:]), s.signParams(map[string]string{}))
	})
}
