package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUpdateData(t *testing.T) {
	t.Run("con trỏ UpdateData trả về nguyên vẹn", func(t *testing.T) {
		original := &UpdateData{Set: map[string]interface{}{"name": "Inception"}}
		result, err := ToUpdateData(original)
		require.NoError(t, err)
		assert.Same(t, original, result)
	})

	t.Run("UpdateData dạng giá trị", func(t *testing.T) {
		result, err := ToUpdateData(UpdateData{Set: map[string]interface{}{"title": "Dune"}})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "Dune", result.Set["title"])
	})

	t.Run("struct thường được wrap trong $set", func(t *testing.T) {
		type input struct {
			Title  string `bson:"title"`
			Status string `bson:"status"`
		}
		result, err := ToUpdateData(input{Title: "Dune", Status: "public"})
		require.NoError(t, err)
		require.NotNil(t, result.Set)
		assert.Equal(t, "Dune", result.Set["title"])
		assert.Equal(t, "public", result.Set["status"])
		assert.Nil(t, result.Unset)
	})

	t.Run("map chứa sẵn operator $set và $unset", func(t *testing.T) {
		data := map[string]interface{}{
			"$set":   map[string]interface{}{"title": "Dune"},
			"$unset": map[string]interface{}{"trailer": ""},
		}
		result, err := ToUpdateData(data)
		require.NoError(t, err)
		assert.Equal(t, "Dune", result.Set["title"])
		require.NotNil(t, result.Unset)
		_, hasTrailer := result.Unset["trailer"]
		assert.True(t, hasTrailer)
	})

	t.Run("map thường được wrap trong $set", func(t *testing.T) {
		result, err := ToUpdateData(map[string]interface{}{"status": "private"})
		require.NoError(t, err)
		assert.Equal(t, "private", result.Set["status"])
	})
}
