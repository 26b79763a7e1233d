package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMovieJSON_DirectorOmitempty(t *testing.T) {
	t.Run("phim không có đạo diễn thì JSON không chứa key director", func(t *testing.T) {
		movie := Movie{Title: "Dune"}

		raw, err := json.Marshal(movie)
		require.NoError(t, err)

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &doc))
		// ObjectID là array type nên omitempty chỉ hoạt động qua con trỏ
		assert.NotContains(t, doc, "director")
		assert.NotContains(t, doc, "reviews", "chưa có review thì không lộ mảng tham chiếu rỗng")
	})

	t.Run("phim có đạo diễn thì JSON chứa hex ID", func(t *testing.T) {
		directorID := primitive.NewObjectID()
		movie := Movie{Title: "Dune", Director: &directorID}

		raw, err := json.Marshal(movie)
		require.NoError(t, err)

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &doc))
		assert.Equal(t, directorID.Hex(), doc["director"])
	})
}

func TestMovieBSON_ReviewRefs(t *testing.T) {
	reviewID := primitive.NewObjectID()
	movie := Movie{Title: "Dune", Reviews: []primitive.ObjectID{reviewID}}

	raw, err := bson.Marshal(movie)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))

	refs, ok := doc["reviews"].(bson.A)
	require.True(t, ok, "tham chiếu review phải lưu thành mảng trong document phim")
	assert.Equal(t, reviewID, refs[0])
}
