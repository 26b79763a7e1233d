package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"movie_review/core/api/dto"
	models "movie_review/core/api/models/mongodb"
	"movie_review/core/api/services"
	"movie_review/core/common"
)

// ActorHandler xử lý các request liên quan đến diễn viên
type ActorHandler struct {
	*BaseHandler[models.Actor, dto.ActorCreateInput, dto.ActorUpdateInput]
	actorService *services.ActorService
}

// NewActorHandler tạo một instance mới của ActorHandler
func NewActorHandler() (*ActorHandler, error) {
	actorService, err := services.NewActorService()
	if err != nil {
		return nil, fmt.Errorf("failed to create actor service: %v", err)
	}

	return &ActorHandler{
		BaseHandler:  NewBaseHandler[models.Actor, dto.ActorCreateInput, dto.ActorUpdateInput](actorService),
		actorService: actorService,
	}, nil
}

// openUploadedFile mở file multipart từ form, trả về nil nếu client không gửi file
func openUploadedFile(c fiber.Ctx, fieldName string) (io.ReadCloser, string, error) {
	fileHeader, err := c.FormFile(fieldName)
	if err != nil {
		// Không có file trong form
		return nil, "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", common.NewError(
			common.ErrCodeValidationFormat,
			"Không thể đọc file tải lên",
			common.StatusBadRequest,
			err.Error(),
		)
	}
	return file, fileHeader.Filename, nil
}

// validateImageUpload kiểm tra content type của file ảnh tải lên
func validateImageUpload(fileHeader *multipart.FileHeader) error {
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return common.NewError(
			common.ErrCodeValidationFormat,
			"File tải lên phải là ảnh",
			common.StatusBadRequest,
			contentType,
		)
	}
	return nil
}

// HandleCreate tạo diễn viên mới từ multipart form, avatar là file tùy chọn
func (h *ActorHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		input := dto.ActorCreateInput{
			Name:   c.FormValue("name"),
			About:  c.FormValue("about"),
			Gender: c.FormValue("gender"),
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var avatarReader io.Reader
		var avatarName string
		if fileHeader, err := c.FormFile("avatar"); err == nil {
			if err := validateImageUpload(fileHeader); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			file, name, err := openUploadedFile(c, "avatar")
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			defer file.Close()
			avatarReader = file
			avatarName = name
		}

		actor, err := h.actorService.CreateWithAvatar(c.Context(), &input, avatarReader, avatarName)
		h.HandleResponse(c, actor, err)
		return nil
	})
}

// HandleUpdate cập nhật diễn viên, avatar mới (nếu có) sẽ thay thế avatar cũ
func (h *ActorHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.ActorUpdateInput
		if name := c.FormValue("name"); name != "" {
			input.Name = &name
		}
		if about := c.FormValue("about"); about != "" {
			input.About = &about
		}
		if gender := c.FormValue("gender"); gender != "" {
			input.Gender = &gender
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var avatarReader io.Reader
		var avatarName string
		if fileHeader, err := c.FormFile("avatar"); err == nil {
			if err := validateImageUpload(fileHeader); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			file, name, err := openUploadedFile(c, "avatar")
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			defer file.Close()
			avatarReader = file
			avatarName = name
		}

		actor, err := h.actorService.UpdateWithAvatar(c.Context(), id, &input, avatarReader, avatarName)
		h.HandleResponse(c, actor, err)
		return nil
	})
}

// HandleDelete xóa diễn viên kèm avatar trên dịch vụ lưu trữ media
func (h *ActorHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.actorService.DeleteWithAvatar(c.Context(), id)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleSearch tìm diễn viên theo tên, query rỗng bị từ chối
func (h *ActorHandler) HandleSearch(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		name := strings.TrimSpace(c.Query("name"))
		if name == "" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Câu truy vấn không hợp lệ",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		actors, err := h.actorService.SearchByName(c.Context(), name)
		h.HandleResponse(c, actors, err)
		return nil
	})
}

// HandleLatest trả về các diễn viên mới được thêm gần đây
func (h *ActorHandler) HandleLatest(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var limit int64
		if rawLimit := c.Query("limit"); rawLimit != "" {
			if l, err := strconv.ParseInt(rawLimit, 10, 64); err == nil && l > 0 && l <= 50 {
				limit = l
			}
		}

		actors, err := h.actorService.LatestActors(c.Context(), limit)
		h.HandleResponse(c, actors, err)
		return nil
	})
}
