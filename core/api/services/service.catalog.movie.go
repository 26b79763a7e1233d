package services

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"movie_review/core/api/dto"
	models "movie_review/core/api/models/mongodb"
	"movie_review/core/common"
	"movie_review/core/global"
	"movie_review/core/utility"
	"movie_review/internal/logger"
)

// MovieService là cấu trúc chứa các phương thức liên quan đến phim
type MovieService struct {
	*BaseServiceMongoImpl[models.Movie]
	reviewService *BaseServiceMongoImpl[models.Review]
	mediaGateway  *MediaGatewayService
}

// NewMovieService tạo mới MovieService
func NewMovieService() (*MovieService, error) {
	movieCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Movies)
	if !exist {
		return nil, fmt.Errorf("failed to get movies collection: %v", common.ErrNotFound)
	}

	reviewCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Reviews)
	if !exist {
		return nil, fmt.Errorf("failed to get reviews collection: %v", common.ErrNotFound)
	}

	mediaGateway, err := NewMediaGatewayService()
	if err != nil {
		return nil, fmt.Errorf("failed to create media gateway service: %v", err)
	}

	return &MovieService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Movie](movieCollection),
		reviewService:        NewBaseServiceMongo[models.Review](reviewCollection),
		mediaGateway:         mediaGateway,
	}, nil
}

// buildMovieFromInput dựng model Movie từ input tạo mới
func buildMovieFromInput(input *dto.MovieCreateInput) models.Movie {
	movie := models.Movie{
		Title:       input.Title,
		StoryLine:   input.StoryLine,
		ReleaseDate: input.ReleaseDate,
		Status:      input.Status,
		Type:        input.Type,
		Genres:      input.Genres,
		Tags:        input.Tags,
		Language:    input.Language,
		Trailer: models.MediaAsset{
			URL:      input.TrailerURL,
			PublicID: input.TrailerID,
		},
	}

	if input.Director != "" {
		directorID := utility.String2ObjectID(input.Director)
		movie.Director = &directorID
	}
	movie.Writers = utility.StringArray2ObjectIDArray(input.Writers)

	for _, c := range input.Cast {
		movie.Cast = append(movie.Cast, models.CastMember{
			Actor:     utility.String2ObjectID(c.Actor),
			RoleAs:    c.RoleAs,
			LeadActor: c.LeadActor,
		})
	}

	return movie
}

// CreateWithPoster tạo phim mới; poster (nếu có) được upload lên media gateway
// kèm yêu cầu sinh các breakpoint responsive
func (s *MovieService) CreateWithPoster(ctx context.Context, input *dto.MovieCreateInput, posterFile io.Reader, posterName string) (models.Movie, error) {
	var zero models.Movie

	movie := buildMovieFromInput(input)

	if posterFile != nil {
		uploaded, err := s.mediaGateway.Upload(ctx, MediaResourceImage, posterName, posterFile, MediaUploadOptions{
			Responsive: true,
		})
		if err != nil {
			return zero, err
		}
		movie.Poster = &models.PosterAsset{
			URL:        uploaded.URL,
			PublicID:   uploaded.PublicID,
			Responsive: uploaded.Responsive,
		}
	}

	return s.InsertOne(ctx, movie)
}

// UpdateWithPoster cập nhật phim; khi có poster mới thì xóa poster cũ
// trên gateway trước rồi mới upload poster mới
func (s *MovieService) UpdateWithPoster(ctx context.Context, movieID primitive.ObjectID, input *dto.MovieUpdateInput, posterFile io.Reader, posterName string) (models.Movie, error) {
	var zero models.Movie

	existing, err := s.FindOneById(ctx, movieID)
	if err != nil {
		return zero, err
	}

	update := &UpdateData{Set: map[string]interface{}{}}
	if input.Title != nil {
		update.Set["title"] = *input.Title
	}
	if input.StoryLine != nil {
		update.Set["storyLine"] = *input.StoryLine
	}
	if input.Director != nil {
		update.Set["director"] = utility.String2ObjectID(*input.Director)
	}
	if input.ReleaseDate != nil {
		update.Set["releaseDate"] = *input.ReleaseDate
	}
	if input.Status != nil {
		update.Set["status"] = *input.Status
	}
	if input.Type != nil {
		update.Set["type"] = *input.Type
	}
	if input.Genres != nil {
		update.Set["genres"] = *input.Genres
	}
	if input.Tags != nil {
		update.Set["tags"] = *input.Tags
	}
	if input.Language != nil {
		update.Set["language"] = *input.Language
	}
	if input.Writers != nil {
		update.Set["writers"] = utility.StringArray2ObjectIDArray(*input.Writers)
	}
	if input.Cast != nil {
		cast := make([]models.CastMember, 0, len(*input.Cast))
		for _, c := range *input.Cast {
			cast = append(cast, models.CastMember{
				Actor:     utility.String2ObjectID(c.Actor),
				RoleAs:    c.RoleAs,
				LeadActor: c.LeadActor,
			})
		}
		update.Set["cast"] = cast
	}

	if posterFile != nil {
		// Xóa poster cũ trước khi upload poster mới
		if existing.Poster != nil && existing.Poster.PublicID != "" {
			if err := s.mediaGateway.Destroy(ctx, MediaResourceImage, existing.Poster.PublicID); err != nil {
				return zero, err
			}
		}

		uploaded, err := s.mediaGateway.Upload(ctx, MediaResourceImage, posterName, posterFile, MediaUploadOptions{
			Responsive: true,
		})
		if err != nil {
			return zero, err
		}
		update.Set["poster"] = models.PosterAsset{
			URL:        uploaded.URL,
			PublicID:   uploaded.PublicID,
			Responsive: uploaded.Responsive,
		}
	}

	return s.UpdateById(ctx, movieID, update)
}

// destroyMovieAssets gỡ media của phim trên gateway theo trình tự poster
// trước (nếu có) rồi tới trailer (bắt buộc). Mỗi asset chỉ gọi destroy đúng
// một lần; bước nào thất bại thì dừng ngay, không đụng tới asset tiếp theo.
func (s *MovieService) destroyMovieAssets(ctx context.Context, movie models.Movie) error {
	if movie.Poster != nil && movie.Poster.PublicID != "" {
		if err := s.mediaGateway.Destroy(ctx, MediaResourceImage, movie.Poster.PublicID); err != nil {
			logger.GetErrorLogger().WithError(err).WithField("movie_id", movie.ID.Hex()).Error("❌ Xóa phim dừng lại: không gỡ được poster")
			return err
		}
	}

	// Phim nào cũng phải có trailer, thiếu public ID là dữ liệu hỏng
	if movie.Trailer.PublicID == "" {
		return common.NewError(
			common.ErrCodeMediaDestroy,
			"Không tìm thấy trailer của phim trên dịch vụ lưu trữ",
			common.StatusInternalServerError,
			nil,
		)
	}
	if err := s.mediaGateway.Destroy(ctx, MediaResourceVideo, movie.Trailer.PublicID); err != nil {
		logger.GetErrorLogger().WithError(err).WithField("movie_id", movie.ID.Hex()).Error("❌ Xóa phim dừng lại: không gỡ được trailer")
		return err
	}

	return nil
}

// DeleteMovie xóa phim theo trình tự: gỡ poster (nếu có) trên gateway,
// gỡ trailer (bắt buộc), xóa document phim rồi dọn các review của phim.
// Bất kỳ bước gỡ media nào thất bại đều dừng lại, document phim được giữ nguyên.
func (s *MovieService) DeleteMovie(ctx context.Context, movieID primitive.ObjectID) error {
	existing, err := s.FindOneById(ctx, movieID)
	if err != nil {
		return err
	}

	// Bước 1 + 2: gỡ poster rồi trailer trên gateway
	if err := s.destroyMovieAssets(ctx, existing); err != nil {
		return err
	}

	// Bước 3: xóa document phim
	if err := s.DeleteById(ctx, movieID); err != nil {
		return err
	}

	// Bước 4: dọn các review của phim. Lỗi ở đây chỉ log, phim đã xóa xong
	if _, err := s.reviewService.DeleteMany(ctx, bson.M{"parentMovie": movieID}); err != nil {
		logger.GetErrorLogger().WithError(err).WithField("movie_id", movieID.Hex()).Error("❌ Không dọn được review của phim đã xóa")
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"movie_id": movieID.Hex(),
		"title":    existing.Title,
	}).Info("🗑️ Đã xóa phim cùng media liên quan")

	return nil
}

// UploadTrailer đẩy trailer video lên media gateway, trả về URL và public ID
// để client dùng trong bước tạo phim tiếp theo
func (s *MovieService) UploadTrailer(ctx context.Context, file io.Reader, filename string) (*MediaUploadResult, error) {
	return s.mediaGateway.Upload(ctx, MediaResourceVideo, filename, file, MediaUploadOptions{})
}

// relatedMoviesQuery dựng filter và options tìm phim liên quan: phim public
// có chung ít nhất một tag, loại trừ chính phim gốc, tối đa 5 kết quả.
// Trả về ok = false khi phim gốc không có tag nào — $in với mảng rỗng/null
// không hợp lệ với Mongo nên caller phải trả về danh sách rỗng ngay.
func relatedMoviesQuery(excludeID primitive.ObjectID, tags []string) (bson.M, *options.FindOptions, bool) {
	if len(tags) == 0 {
		return nil, nil, false
	}

	filter := bson.M{
		"_id":    bson.M{"$ne": excludeID},
		"tags":   bson.M{"$in": tags},
		"status": models.MovieStatusPublic,
	}
	opts := options.Find().SetLimit(5)
	return filter, opts, true
}

// RelatedMovies tìm các phim public có chung ít nhất một tag với phim gốc,
// loại trừ chính nó, tối đa 5 phim theo thứ tự tự nhiên của collection
func (s *MovieService) RelatedMovies(ctx context.Context, movieID primitive.ObjectID) ([]models.Movie, error) {
	movie, err := s.FindOneById(ctx, movieID)
	if err != nil {
		return nil, err
	}

	filter, opts, ok := relatedMoviesQuery(movie.ID, movie.Tags)
	if !ok {
		return []models.Movie{}, nil
	}

	return s.Find(ctx, filter, opts)
}

// topRatedPipeline dựng pipeline lấy tối đa 10 phim public có điểm trung bình
// cao nhất theo type (rỗng nghĩa là Film). Các phim bằng điểm xếp theo số
// lượng đánh giá giảm dần, rồi tới thời điểm tạo mới nhất.
func topRatedPipeline(movieType string) []bson.M {
	if movieType == "" {
		movieType = "Film"
	}

	return []bson.M{
		{"$match": bson.M{
			"status": models.MovieStatusPublic,
			"type":   movieType,
		}},
		{"$lookup": bson.M{
			"from":         global.MongoDB_ColNames.Reviews,
			"localField":   "_id",
			"foreignField": "parentMovie",
			"as":           "matchedReviews",
		}},
		{"$addFields": bson.M{
			"ratingAvg":   bson.M{"$avg": "$matchedReviews.rating"},
			"reviewCount": bson.M{"$size": "$matchedReviews"},
		}},
		// Thứ tự các key sort phải cố định nên dùng bson.D
		{"$sort": bson.D{
			{Key: "ratingAvg", Value: -1},
			{Key: "reviewCount", Value: -1},
			{Key: "createdAt", Value: -1},
		}},
		{"$limit": 10},
		{"$project": bson.M{"matchedReviews": 0, "ratingAvg": 0, "reviewCount": 0}},
	}
}

// TopRatedMovies lấy các phim public có điểm đánh giá cao nhất theo type
func (s *MovieService) TopRatedMovies(ctx context.Context, movieType string) ([]models.Movie, error) {
	pipeline := topRatedPipeline(movieType)

	cursor, err := s.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var results []models.Movie
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	if results == nil {
		results = []models.Movie{}
	}

	return results, nil
}

// SearchMovies tìm phim theo title, không phân biệt hoa thường.
// publicOnly = true giới hạn kết quả trong các phim đã public (route công khai)
func (s *MovieService) SearchMovies(ctx context.Context, title string, publicOnly bool) ([]models.Movie, error) {
	filter := bson.M{"title": bson.M{"$regex": title, "$options": "i"}}
	if publicOnly {
		filter["status"] = models.MovieStatusPublic
	}
	return s.Find(ctx, filter, nil)
}

// LatestUploads lấy các phim public mới thêm gần nhất, mặc định 5
func (s *MovieService) LatestUploads(ctx context.Context, limit int64) ([]models.Movie, error) {
	if limit <= 0 {
		limit = 5
	}
	filter := bson.M{"status": models.MovieStatusPublic}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	return s.Find(ctx, filter, opts)
}
