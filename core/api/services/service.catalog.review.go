package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"movie_review/core/api/dto"
	models "movie_review/core/api/models/mongodb"
	"movie_review/core/common"
	"movie_review/core/global"
	"movie_review/core/utility"
	"movie_review/internal/logger"
)

// ReviewService là cấu trúc chứa các phương thức liên quan đến đánh giá phim
type ReviewService struct {
	*BaseServiceMongoImpl[models.Review]
	movieService *BaseServiceMongoImpl[models.Movie]
}

// NewReviewService tạo mới ReviewService
func NewReviewService() (*ReviewService, error) {
	reviewCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Reviews)
	if !exist {
		return nil, fmt.Errorf("failed to get reviews collection: %v", common.ErrNotFound)
	}

	movieCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Movies)
	if !exist {
		return nil, fmt.Errorf("failed to get movies collection: %v", common.ErrNotFound)
	}

	return &ReviewService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Review](reviewCollection),
		movieService:         NewBaseServiceMongo[models.Movie](movieCollection),
	}, nil
}

// AddReview thêm đánh giá cho một phim public.
// Mỗi người dùng chỉ được đánh giá một phim đúng một lần; compound unique
// index (parentMovie, owner) chặn race condition lọt qua bước kiểm tra.
func (s *ReviewService) AddReview(ctx context.Context, ownerID primitive.ObjectID, input *dto.ReviewCreateInput) (models.Review, error) {
	var zero models.Review

	movieID := utility.String2ObjectID(input.MovieID)
	if movieID.IsZero() {
		return zero, common.ErrInvalidFormat
	}

	movie, err := s.movieService.FindOneById(ctx, movieID)
	if err != nil {
		return zero, err
	}

	if movie.Status != models.MovieStatusPublic {
		return zero, common.NewError(
			common.ErrCodeBusinessOperation,
			"Chỉ có thể đánh giá phim đã công khai",
			common.StatusBadRequest,
			nil,
		)
	}

	exists, err := s.DocumentExists(ctx, bson.M{"parentMovie": movieID, "owner": ownerID})
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, common.NewError(
			common.ErrCodeBusinessOperation,
			"Bạn đã đánh giá phim này rồi",
			common.StatusConflict,
			nil,
		)
	}

	review := models.Review{
		ParentMovie: movieID,
		Owner:       ownerID,
		Rating:      input.Rating,
		Content:     input.Content,
	}

	created, err := s.InsertOne(ctx, review)
	if err != nil {
		return zero, err
	}

	// Ghi tham chiếu ngược vào document phim
	if _, err := s.movieService.UpdateById(ctx, movieID, reviewRefUpdate(created.ID, true)); err != nil {
		logger.GetErrorLogger().WithError(err).WithField("review_id", created.ID.Hex()).Error("❌ Không ghi được tham chiếu review vào phim")
	}

	return created, nil
}

// reviewRefUpdate dựng update duy trì mảng tham chiếu reviews trên phim:
// $addToSet khi thêm review, $pull khi xóa
func reviewRefUpdate(reviewID primitive.ObjectID, add bool) *UpdateData {
	if add {
		return &UpdateData{
			AddToSet: map[string]interface{}{"reviews": reviewID},
		}
	}
	return &UpdateData{
		Pull: map[string]interface{}{"reviews": reviewID},
	}
}

// UpdateOwnReview sửa đánh giá; chỉ chủ sở hữu mới được sửa
func (s *ReviewService) UpdateOwnReview(ctx context.Context, reviewID, ownerID primitive.ObjectID, input *dto.ReviewUpdateInput) (models.Review, error) {
	var zero models.Review

	existing, err := s.FindOneById(ctx, reviewID)
	if err != nil {
		return zero, err
	}

	if existing.Owner != ownerID {
		return zero, common.NewError(
			common.ErrCodeAuthRole,
			"Bạn không có quyền sửa đánh giá này",
			common.StatusForbidden,
			nil,
		)
	}

	update := &UpdateData{Set: map[string]interface{}{}}
	if input.Rating != nil {
		update.Set["rating"] = *input.Rating
	}
	if input.Content != nil {
		update.Set["content"] = *input.Content
	}

	return s.UpdateById(ctx, reviewID, update)
}

// DeleteOwnReview xóa đánh giá; chỉ chủ sở hữu mới được xóa
func (s *ReviewService) DeleteOwnReview(ctx context.Context, reviewID, ownerID primitive.ObjectID) error {
	existing, err := s.FindOneById(ctx, reviewID)
	if err != nil {
		return err
	}

	if existing.Owner != ownerID {
		return common.NewError(
			common.ErrCodeAuthRole,
			"Bạn không có quyền xóa đánh giá này",
			common.StatusForbidden,
			nil,
		)
	}

	if err := s.DeleteById(ctx, reviewID); err != nil {
		return err
	}

	// Gỡ tham chiếu ngược khỏi document phim
	if _, err := s.movieService.UpdateById(ctx, existing.ParentMovie, reviewRefUpdate(reviewID, false)); err != nil {
		logger.GetErrorLogger().WithError(err).WithField("review_id", reviewID.Hex()).Error("❌ Không gỡ được tham chiếu review khỏi phim")
	}

	return nil
}

// ReviewsByMovie lấy toàn bộ đánh giá của một phim
func (s *ReviewService) ReviewsByMovie(ctx context.Context, movieID primitive.ObjectID) ([]models.Review, error) {
	return s.Find(ctx, bson.M{"parentMovie": movieID}, nil)
}

// OwnReviewForMovie lấy đánh giá của chính người dùng cho một phim (nếu có)
func (s *ReviewService) OwnReviewForMovie(ctx context.Context, movieID, ownerID primitive.ObjectID) (models.Review, error) {
	return s.FindOne(ctx, bson.M{"parentMovie": movieID, "owner": ownerID}, nil)
}
