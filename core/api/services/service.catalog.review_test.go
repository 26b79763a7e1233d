package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReviewRefUpdate(t *testing.T) {
	reviewID := primitive.NewObjectID()

	t.Run("thêm review dùng $addToSet để không trùng tham chiếu", func(t *testing.T) {
		update := reviewRefUpdate(reviewID, true)

		require.NotNil(t, update.AddToSet)
		assert.Equal(t, reviewID, update.AddToSet["reviews"])
		assert.Nil(t, update.Pull)
	})

	t.Run("xóa review dùng $pull để gỡ tham chiếu", func(t *testing.T) {
		update := reviewRefUpdate(reviewID, false)

		require.NotNil(t, update.Pull)
		assert.Equal(t, reviewID, update.Pull["reviews"])
		assert.Nil(t, update.AddToSet)
	})

	t.Run("serialize thành document update hợp lệ", func(t *testing.T) {
		raw, err := bson.Marshal(reviewRefUpdate(reviewID, true))
		require.NoError(t, err)

		var doc bson.M
		require.NoError(t, bson.Unmarshal(raw, &doc))

		addToSet, ok := doc["$addToSet"].(bson.M)
		require.True(t, ok, "UpdateData phải serialize AddToSet thành toán tử $addToSet")
		assert.Contains(t, addToSet, "reviews")
	})
}
