package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"movie_review/core/api/dto"
	models "movie_review/core/api/models/mongodb"
	"movie_review/core/api/services"
)

// ReviewHandler xử lý các request liên quan đến đánh giá phim
type ReviewHandler struct {
	*BaseHandler[models.Review, dto.ReviewCreateInput, dto.ReviewUpdateInput]
	reviewService *services.ReviewService
	ratingService *services.RatingService
}

// NewReviewHandler tạo một instance mới của ReviewHandler
func NewReviewHandler() (*ReviewHandler, error) {
	reviewService, err := services.NewReviewService()
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %v", err)
	}

	ratingService, err := services.NewRatingService()
	if err != nil {
		return nil, fmt.Errorf("failed to create rating service: %v", err)
	}

	return &ReviewHandler{
		BaseHandler:   NewBaseHandler[models.Review, dto.ReviewCreateInput, dto.ReviewUpdateInput](reviewService),
		reviewService: reviewService,
		ratingService: ratingService,
	}, nil
}

// HandleAdd thêm đánh giá cho một phim công khai.
// Mỗi người dùng chỉ được đánh giá một phim một lần.
func (h *ReviewHandler) HandleAdd(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		ownerID, err := getAuthenticatedUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.ReviewCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		review, err := h.reviewService.AddReview(c.Context(), ownerID, &input)
		h.HandleResponse(c, review, err)
		return nil
	})
}

// HandleUpdateOwn cập nhật đánh giá của chính người dùng đang đăng nhập
func (h *ReviewHandler) HandleUpdateOwn(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		ownerID, err := getAuthenticatedUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		reviewID, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.ReviewUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		review, err := h.reviewService.UpdateOwnReview(c.Context(), reviewID, ownerID, &input)
		h.HandleResponse(c, review, err)
		return nil
	})
}

// HandleDeleteOwn xóa đánh giá của chính người dùng đang đăng nhập
func (h *ReviewHandler) HandleDeleteOwn(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		ownerID, err := getAuthenticatedUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		reviewID, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.reviewService.DeleteOwnReview(c.Context(), reviewID, ownerID)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleByMovie trả về toàn bộ đánh giá của một phim kèm thống kê tổng hợp
func (h *ReviewHandler) HandleByMovie(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		movieID, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		reviews, err := h.reviewService.ReviewsByMovie(c.Context(), movieID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		summary, err := h.ratingService.AverageRatings(c.Context(), movieID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{
			"reviews": reviews,
			"summary": summary,
		}, nil)
		return nil
	})
}

// HandleOwnForMovie trả về đánh giá của chính người dùng cho một phim.
// Frontend dùng để pre-fill form sửa đánh giá.
func (h *ReviewHandler) HandleOwnForMovie(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		ownerID, err := getAuthenticatedUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		movieID, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		review, err := h.reviewService.OwnReviewForMovie(c.Context(), movieID, ownerID)
		h.HandleResponse(c, review, err)
		return nil
	})
}
