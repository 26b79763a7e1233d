package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestParseOrder(t *testing.T) {
	assert.Equal(t, 1, parseOrder("single:1"))
	assert.Equal(t, -1, parseOrder("single:1,order:-1"))
	assert.Equal(t, 1, parseOrder(""))
}

func TestParseIndexTag(t *testing.T) {
	t.Run("index đơn với unique", func(t *testing.T) {
		result := parseIndexTag("single:1;unique")
		require.Len(t, result, 2)
		assert.Equal(t, "1", result[0]["single"])
		_, hasUnique := result[1]["unique"]
		assert.True(t, hasUnique, "phần tử thứ hai phải chứa key unique")
	})

	t.Run("index TTL", func(t *testing.T) {
		result := parseIndexTag("single:1;ttl:3600")
		require.Len(t, result, 2)
		assert.Equal(t, "3600", result[1]["ttl"])
	})

	t.Run("nhiều thuộc tính trong cùng một phần", func(t *testing.T) {
		result := parseIndexTag("unique,sparse")
		require.Len(t, result, 1)
		_, hasUnique := result[0]["unique"]
		_, hasSparse := result[0]["sparse"]
		assert.True(t, hasUnique)
		assert.True(t, hasSparse)
	})

	t.Run("compound index", func(t *testing.T) {
		result := parseIndexTag("compound:owner_movie")
		require.Len(t, result, 1)
		assert.Equal(t, "owner_movie", result[0]["compound"])
	})
}

func TestCompareIndex(t *testing.T) {
	keys := bson.D{{Key: "email", Value: 1}}

	t.Run("index trùng khớp", func(t *testing.T) {
		existing := bson.M{
			"key":    bson.M{"email": int32(1)},
			"unique": true,
		}
		opts := options.Index().SetUnique(true)
		assert.True(t, compareIndex(existing, keys, opts))
	})

	t.Run("khác thứ tự sắp xếp", func(t *testing.T) {
		existing := bson.M{"key": bson.M{"email": int32(-1)}}
		assert.False(t, compareIndex(existing, keys, options.Index()))
	})

	t.Run("thiếu field trong index hiện tại", func(t *testing.T) {
		existing := bson.M{"key": bson.M{"name": int32(1)}}
		assert.False(t, compareIndex(existing, keys, options.Index()))
	})

	t.Run("index hiện tại không unique nhưng cấu hình mới yêu cầu unique", func(t *testing.T) {
		existing := bson.M{"key": bson.M{"email": int32(1)}}
		opts := options.Index().SetUnique(true)
		assert.False(t, compareIndex(existing, keys, opts))
	})

	t.Run("TTL khác nhau", func(t *testing.T) {
		existing := bson.M{
			"key":                bson.M{"email": int32(1)},
			"expireAfterSeconds": int32(600),
		}
		opts := options.Index().SetExpireAfterSeconds(3600)
		assert.False(t, compareIndex(existing, keys, opts))
	})

	t.Run("giá trị order dạng float64 từ driver", func(t *testing.T) {
		existing := bson.M{"key": bson.M{"email": float64(1)}}
		assert.True(t, compareIndex(existing, keys, options.Index()))
	})
}
