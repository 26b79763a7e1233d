package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "movie_review/core/api/models/mongodb"
)

// fullMovie dựng một phim với đầy đủ metadata nội bộ để kiểm tra
// shape công khai không làm lộ chúng
func fullMovie() models.Movie {
	directorID := primitive.NewObjectID()
	return models.Movie{
		ID:          primitive.NewObjectID(),
		Title:       "Dune",
		StoryLine:   "Hành trình của Paul Atreides",
		Director:    &directorID,
		ReleaseDate: "2021-10-22",
		Status:      models.MovieStatusPrivate,
		Type:        "Film",
		Genres:      []string{"Sci-Fi"},
		Tags:        []string{"space"},
		Language:    "English",
		Poster: &models.PosterAsset{
			URL:        "https://cdn/p.jpg",
			PublicID:   "posters/p1",
			Responsive: []string{"https://cdn/p-640.jpg"},
		},
		Trailer: models.MediaAsset{
			URL:      "https://cdn/t.mp4",
			PublicID: "trailers/t1",
		},
		Reviews:   []primitive.ObjectID{primitive.NewObjectID()},
		CreatedAt: 1700000000,
		UpdatedAt: 1700000001,
	}
}

func marshalToMap(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestToMovieDetail(t *testing.T) {
	movie := fullMovie()
	summary := models.RatingSummary{RatingAvg: "8.5", ReviewCount: 12}

	detail := toMovieDetail(movie, summary)
	doc := marshalToMap(t, detail)

	t.Run("giữ các field dành cho người xem", func(t *testing.T) {
		assert.Equal(t, movie.ID.Hex(), doc["id"])
		assert.Equal(t, "Dune", doc["title"])
		assert.Equal(t, "Hành trình của Paul Atreides", doc["storyLine"])
		assert.Equal(t, movie.Director.Hex(), doc["director"])
		assert.Equal(t, "https://cdn/p.jpg", doc["poster"])
		assert.Equal(t, "https://cdn/t.mp4", doc["trailer"])

		reviews := doc["reviews"].(map[string]interface{})
		assert.Equal(t, "8.5", reviews["ratingAvg"])
	})

	t.Run("không lộ metadata nội bộ", func(t *testing.T) {
		raw, err := json.Marshal(detail)
		require.NoError(t, err)
		payload := string(raw)

		assert.NotContains(t, payload, "publicId", "public ID trên gateway không được lộ ra ngoài")
		assert.NotContains(t, payload, "posters/p1")
		assert.NotContains(t, payload, "trailers/t1")
		assert.NotContains(t, doc, "status")
		assert.NotContains(t, doc, "createdAt")
		assert.NotContains(t, doc, "updatedAt")
	})
}

func TestBuildMovieListItems(t *testing.T) {
	movie := fullMovie()
	summaries := []models.RatingSummary{{RatingAvg: "9.0", ReviewCount: 3}}

	items := buildMovieListItems([]models.Movie{movie}, summaries)
	require.Len(t, items, 1)
	doc := marshalToMap(t, items[0])

	t.Run("chỉ gồm các field của danh sách công khai", func(t *testing.T) {
		assert.Equal(t, movie.ID.Hex(), doc["id"])
		assert.Equal(t, "Dune", doc["title"])
		assert.Equal(t, "https://cdn/p.jpg", doc["poster"])

		responsive := doc["responsivePosters"].([]interface{})
		assert.Equal(t, "https://cdn/p-640.jpg", responsive[0])

		reviews := doc["reviews"].(map[string]interface{})
		assert.Equal(t, "9.0", reviews["ratingAvg"])
	})

	t.Run("không lộ metadata nội bộ", func(t *testing.T) {
		assert.NotContains(t, doc, "storyLine")
		assert.NotContains(t, doc, "status")
		assert.NotContains(t, doc, "createdAt")
		assert.NotContains(t, doc, "trailer")

		raw, err := json.Marshal(items[0])
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "publicId")
	})

	t.Run("phim không có poster", func(t *testing.T) {
		bare := models.Movie{ID: primitive.NewObjectID(), Title: "Trống"}
		bareItems := buildMovieListItems([]models.Movie{bare}, []models.RatingSummary{{}})
		bareDoc := marshalToMap(t, bareItems[0])

		assert.NotContains(t, bareDoc, "poster")
		assert.NotContains(t, bareDoc, "responsivePosters")
	})
}
