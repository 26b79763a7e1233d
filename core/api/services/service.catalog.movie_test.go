package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "movie_review/core/api/models/mongodb"
)

func TestRelatedMoviesQuery(t *testing.T) {
	movieID := primitive.NewObjectID()

	t.Run("filter loại trừ chính phim gốc và chỉ lấy phim public", func(t *testing.T) {
		filter, opts, ok := relatedMoviesQuery(movieID, []string{"sci-fi", "space"})
		require.True(t, ok)

		assert.Equal(t, bson.M{"$ne": movieID}, filter["_id"], "phim gốc không được nằm trong kết quả liên quan")
		assert.Equal(t, models.MovieStatusPublic, filter["status"], "phim private không được lộ qua gợi ý liên quan")
		assert.Equal(t, bson.M{"$in": []string{"sci-fi", "space"}}, filter["tags"])

		require.NotNil(t, opts.Limit)
		assert.Equal(t, int64(5), *opts.Limit, "tối đa 5 phim liên quan")
	})

	t.Run("phim không có tag trả về ok false", func(t *testing.T) {
		// $in với mảng rỗng hoặc null bị Mongo từ chối nên không được dựng query
		_, _, ok := relatedMoviesQuery(movieID, nil)
		assert.False(t, ok)

		_, _, ok = relatedMoviesQuery(movieID, []string{})
		assert.False(t, ok)
	})
}

func TestTopRatedPipeline(t *testing.T) {
	t.Run("type rỗng mặc định là Film", func(t *testing.T) {
		pipeline := topRatedPipeline("")
		match := pipeline[0]["$match"].(bson.M)
		assert.Equal(t, "Film", match["type"])
		assert.Equal(t, models.MovieStatusPublic, match["status"])
	})

	t.Run("giữ type được truyền vào", func(t *testing.T) {
		pipeline := topRatedPipeline("TV Show")
		match := pipeline[0]["$match"].(bson.M)
		assert.Equal(t, "TV Show", match["type"])
	})

	t.Run("sort theo điểm rồi số review rồi thời điểm tạo", func(t *testing.T) {
		pipeline := topRatedPipeline("Film")

		var sortStage bson.D
		var limit interface{}
		for _, stage := range pipeline {
			if s, ok := stage["$sort"]; ok {
				sortStage = s.(bson.D)
			}
			if l, ok := stage["$limit"]; ok {
				limit = l
			}
		}

		require.Len(t, sortStage, 3, "sort phải có đủ ba tiêu chí tie-break")
		assert.Equal(t, bson.E{Key: "ratingAvg", Value: -1}, sortStage[0])
		assert.Equal(t, bson.E{Key: "reviewCount", Value: -1}, sortStage[1], "bằng điểm thì phim nhiều review hơn đứng trước")
		assert.Equal(t, bson.E{Key: "createdAt", Value: -1}, sortStage[2])
		assert.Equal(t, 10, limit)
	})
}

// gatewayDestroyRecorder giả lập media gateway, đếm các lượt destroy theo
// resource type và ghi lại public_id cùng thứ tự gọi
type gatewayDestroyRecorder struct {
	calls   []string // resource type theo thứ tự nhận request
	pubIDs  []string
	results map[string]string // resource type -> giá trị "result" trả về
}

func (r *gatewayDestroyRecorder) handler(cloudName string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		req.ParseForm()

		// Path dạng /{cloudName}/{resourceType}/destroy
		var resourceType string
		switch req.URL.Path {
		case "/" + cloudName + "/image/destroy":
			resourceType = MediaResourceImage
		case "/" + cloudName + "/video/destroy":
			resourceType = MediaResourceVideo
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}

		r.calls = append(r.calls, resourceType)
		r.pubIDs = append(r.pubIDs, req.FormValue("public_id"))

		result := "ok"
		if override, ok := r.results[resourceType]; ok {
			result = override
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"` + result + `"}`))
	}
}

func newMovieServiceWithGateway(baseURL string) *MovieService {
	return &MovieService{
		mediaGateway: &MediaGatewayService{
			client:    &fasthttp.Client{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second},
			cloudName: "demo-cloud",
			apiKey:    "test-key",
			apiSecret: "test-secret",
			baseURL:   baseURL,
		},
	}
}

func TestDestroyMovieAssets(t *testing.T) {
	t.Run("phim có poster: gỡ poster trước rồi trailer, mỗi asset đúng một lần", func(t *testing.T) {
		recorder := &gatewayDestroyRecorder{results: map[string]string{}}
		srv := httptest.NewServer(recorder.handler("demo-cloud"))
		defer srv.Close()

		s := newMovieServiceWithGateway(srv.URL)
		movie := models.Movie{
			ID:      primitive.NewObjectID(),
			Poster:  &models.PosterAsset{URL: "https://cdn/p.jpg", PublicID: "posters/p1"},
			Trailer: models.MediaAsset{URL: "https://cdn/t.mp4", PublicID: "trailers/t1"},
		}

		err := s.destroyMovieAssets(context.Background(), movie)
		require.NoError(t, err)

		require.Equal(t, []string{MediaResourceImage, MediaResourceVideo}, recorder.calls, "poster phải được gỡ trước trailer")
		assert.Equal(t, []string{"posters/p1", "trailers/t1"}, recorder.pubIDs)
	})

	t.Run("phim không có poster: chỉ một lượt destroy video", func(t *testing.T) {
		recorder := &gatewayDestroyRecorder{results: map[string]string{}}
		srv := httptest.NewServer(recorder.handler("demo-cloud"))
		defer srv.Close()

		s := newMovieServiceWithGateway(srv.URL)
		movie := models.Movie{
			ID:      primitive.NewObjectID(),
			Trailer: models.MediaAsset{URL: "https://cdn/t.mp4", PublicID: "trailers/t1"},
		}

		err := s.destroyMovieAssets(context.Background(), movie)
		require.NoError(t, err)

		assert.Equal(t, []string{MediaResourceVideo}, recorder.calls)
	})

	t.Run("gỡ poster thất bại thì dừng, không đụng tới trailer", func(t *testing.T) {
		recorder := &gatewayDestroyRecorder{
			results: map[string]string{MediaResourceImage: "not found"},
		}
		srv := httptest.NewServer(recorder.handler("demo-cloud"))
		defer srv.Close()

		s := newMovieServiceWithGateway(srv.URL)
		movie := models.Movie{
			ID:      primitive.NewObjectID(),
			Poster:  &models.PosterAsset{URL: "https://cdn/p.jpg", PublicID: "posters/p1"},
			Trailer: models.MediaAsset{URL: "https://cdn/t.mp4", PublicID: "trailers/t1"},
		}

		err := s.destroyMovieAssets(context.Background(), movie)
		require.Error(t, err, "gateway trả về kết quả khác ok phải là lỗi")

		assert.Equal(t, []string{MediaResourceImage}, recorder.calls, "trailer không được đụng tới khi bước poster thất bại")
	})

	t.Run("thiếu public ID trailer là lỗi, không gọi gateway", func(t *testing.T) {
		recorder := &gatewayDestroyRecorder{results: map[string]string{}}
		srv := httptest.NewServer(recorder.handler("demo-cloud"))
		defer srv.Close()

		s := newMovieServiceWithGateway(srv.URL)
		movie := models.Movie{
			ID:      primitive.NewObjectID(),
			Trailer: models.MediaAsset{URL: "https://cdn/t.mp4"},
		}

		err := s.destroyMovieAssets(context.Background(), movie)
		require.Error(t, err)
		assert.Empty(t, recorder.calls, "không được gọi gateway khi dữ liệu trailer đã hỏng")
	})
}
