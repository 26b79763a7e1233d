package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "movie_review/core/api/models/mongodb"
	"movie_review/core/common"
	"movie_review/core/global"
)

// RatingService tính tổng hợp đánh giá của phim từ collection reviews.
// Kết quả luôn được tính lúc truy vấn, không lưu xuống database.
type RatingService struct {
	reviewService *BaseServiceMongoImpl[models.Review]
}

// NewRatingService tạo mới RatingService
func NewRatingService() (*RatingService, error) {
	reviewCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Reviews)
	if !exist {
		return nil, fmt.Errorf("failed to get reviews collection: %v", common.ErrNotFound)
	}

	return &RatingService{
		reviewService: NewBaseServiceMongo[models.Review](reviewCollection),
	}, nil
}

// FormatRatingAvg làm tròn điểm trung bình về 1 chữ số thập phân (half-up)
// và trả về dạng chuỗi, ví dụ 6.666... -> "6.7", 5 -> "5.0"
func FormatRatingAvg(avg float64) string {
	rounded := math.Floor(avg*10+0.5) / 10
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}

// AverageRatings tính điểm trung bình và số lượng đánh giá của một phim.
// Khi phim chưa có đánh giá nào, trả về RatingSummary rỗng (không có "0").
func (s *RatingService) AverageRatings(ctx context.Context, movieID primitive.ObjectID) (models.RatingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"parentMovie": movieID}},
		{"$group": bson.M{
			"_id":         nil,
			"ratingAvg":   bson.M{"$avg": "$rating"},
			"reviewCount": bson.M{"$sum": 1},
		}},
	}

	cursor, err := s.reviewService.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingSummary{}, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		RatingAvg   float64 `bson:"ratingAvg"`
		ReviewCount int64   `bson:"reviewCount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return models.RatingSummary{}, common.ConvertMongoError(err)
	}

	if len(results) == 0 {
		return models.RatingSummary{}, nil
	}

	return models.RatingSummary{
		RatingAvg:   FormatRatingAvg(results[0].RatingAvg),
		ReviewCount: results[0].ReviewCount,
	}, nil
}

// AverageRatingsForMovies tính tổng hợp đánh giá cho một danh sách phim,
// trả về kết quả theo đúng thứ tự movieIDs truyền vào
func (s *RatingService) AverageRatingsForMovies(ctx context.Context, movieIDs []primitive.ObjectID) ([]models.RatingSummary, error) {
	summaries := make([]models.RatingSummary, 0, len(movieIDs))
	for _, id := range movieIDs {
		summary, err := s.AverageRatings(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
