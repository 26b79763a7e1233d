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
	"movie_review/internal/logger"
)

// ActorService là cấu trúc chứa các phương thức liên quan đến diễn viên
type ActorService struct {
	*BaseServiceMongoImpl[models.Actor]
	mediaGateway *MediaGatewayService
}

// NewActorService tạo mới ActorService
func NewActorService() (*ActorService, error) {
	actorCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Actors)
	if !exist {
		return nil, fmt.Errorf("failed to get actors collection: %v", common.ErrNotFound)
	}

	mediaGateway, err := NewMediaGatewayService()
	if err != nil {
		return nil, fmt.Errorf("failed to create media gateway service: %v", err)
	}

	return &ActorService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Actor](actorCollection),
		mediaGateway:         mediaGateway,
	}, nil
}

// avatarTransformation cắt avatar vuông 500x500 theo khuôn mặt
const avatarTransformation = "c_thumb,g_face,h_500,w_500"

// CreateWithAvatar tạo diễn viên mới, upload avatar lên media gateway nếu có
func (s *ActorService) CreateWithAvatar(ctx context.Context, input *dto.ActorCreateInput, avatarFile io.Reader, avatarName string) (models.Actor, error) {
	var zero models.Actor

	actor := models.Actor{
		Name:   input.Name,
		About:  input.About,
		Gender: input.Gender,
	}

	if avatarFile != nil {
		uploaded, err := s.mediaGateway.Upload(ctx, MediaResourceImage, avatarName, avatarFile, MediaUploadOptions{
			Transformation: avatarTransformation,
		})
		if err != nil {
			return zero, err
		}
		actor.Avatar = &models.MediaAsset{
			URL:      uploaded.URL,
			PublicID: uploaded.PublicID,
		}
	}

	return s.InsertOne(ctx, actor)
}

// UpdateWithAvatar cập nhật diễn viên; khi có avatar mới thì xóa avatar cũ
// trên gateway trước rồi mới upload avatar mới
func (s *ActorService) UpdateWithAvatar(ctx context.Context, actorID primitive.ObjectID, input *dto.ActorUpdateInput, avatarFile io.Reader, avatarName string) (models.Actor, error) {
	var zero models.Actor

	existing, err := s.FindOneById(ctx, actorID)
	if err != nil {
		return zero, err
	}

	update := &UpdateData{Set: map[string]interface{}{}}
	if input.Name != nil {
		update.Set["name"] = *input.Name
	}
	if input.About != nil {
		update.Set["about"] = *input.About
	}
	if input.Gender != nil {
		update.Set["gender"] = *input.Gender
	}

	if avatarFile != nil {
		// Xóa avatar cũ trước khi upload avatar mới
		if existing.Avatar != nil && existing.Avatar.PublicID != "" {
			if err := s.mediaGateway.Destroy(ctx, MediaResourceImage, existing.Avatar.PublicID); err != nil {
				return zero, err
			}
		}

		uploaded, err := s.mediaGateway.Upload(ctx, MediaResourceImage, avatarName, avatarFile, MediaUploadOptions{
			Transformation: avatarTransformation,
		})
		if err != nil {
			return zero, err
		}
		update.Set["avatar"] = models.MediaAsset{
			URL:      uploaded.URL,
			PublicID: uploaded.PublicID,
		}
	}

	return s.UpdateById(ctx, actorID, update)
}

// DeleteWithAvatar xóa diễn viên, gỡ avatar trên media gateway trước khi xóa document
func (s *ActorService) DeleteWithAvatar(ctx context.Context, actorID primitive.ObjectID) error {
	existing, err := s.FindOneById(ctx, actorID)
	if err != nil {
		return err
	}

	if existing.Avatar != nil && existing.Avatar.PublicID != "" {
		if err := s.mediaGateway.Destroy(ctx, MediaResourceImage, existing.Avatar.PublicID); err != nil {
			return err
		}
	}

	if err := s.DeleteById(ctx, actorID); err != nil {
		return err
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"actor_id": actorID.Hex(),
		"name":     existing.Name,
	}).Info("🗑️ Đã xóa diễn viên")

	return nil
}

// SearchByName tìm diễn viên theo tên, không phân biệt hoa thường.
// Chuỗi rỗng hoặc toàn khoảng trắng bị từ chối ở tầng handler.
func (s *ActorService) SearchByName(ctx context.Context, name string) ([]models.Actor, error) {
	filter := bson.M{"name": bson.M{"$regex": name, "$options": "i"}}
	return s.Find(ctx, filter, nil)
}

// LatestActors lấy các diễn viên mới thêm gần nhất, mặc định 12
func (s *ActorService) LatestActors(ctx context.Context, limit int64) ([]models.Actor, error) {
	if limit <= 0 {
		limit = 12
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	return s.Find(ctx, bson.D{}, opts)
}
