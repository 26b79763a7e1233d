package handler

import (
	"reflect"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"movie_review/core/api/services"
	"movie_review/core/common"
)

// ====================================
// NHÓM 1: CÁC HANDLER CHUẨN MONGODB
// ====================================

// InsertOne xử lý POST /insert-one: tạo mới một document từ CreateInput
func (h *BaseHandler[T, CreateInput, UpdateInput]) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input CreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := h.transformCreateInputToModel(input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.Service.InsertOne(c.Context(), model)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// InsertMany xử lý POST /insert-many: tạo mới nhiều document trong một request
func (h *BaseHandler[T, CreateInput, UpdateInput]) InsertMany(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var inputs []CreateInput
		if err := h.ParseRequestBody(c, &inputs); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if len(inputs) == 0 {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Danh sách dữ liệu không được để trống",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		models := make([]T, 0, len(inputs))
		for _, input := range inputs {
			if err := h.validateInput(input); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			model, err := h.transformCreateInputToModel(input)
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			models = append(models, model)
		}

		data, err := h.Service.InsertMany(c.Context(), models)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Find xử lý GET /find: tìm nhiều document theo filter, sort, limit, skip từ query
func (h *BaseHandler[T, CreateInput, UpdateInput]) Find(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, err := h.processMongoOptions(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.Service.Find(c.Context(), filter, opts)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOne xử lý GET /find-one: tìm một document theo filter từ query
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.Service.FindOne(c.Context(), filter, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOneById xử lý GET /find-by-id/:id
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.Service.FindOneById(c.Context(), id)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindManyByIds xử lý POST /find-by-ids: body chứa danh sách ID dạng hex string
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindManyByIds(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var body struct {
			IDs []string `json:"ids"`
		}
		if err := h.ParseRequestBody(c, &body); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if len(body.IDs) == 0 {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Danh sách ID không được để trống",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		ids := make([]primitive.ObjectID, 0, len(body.IDs))
		for _, idStr := range body.IDs {
			id, err := primitive.ObjectIDFromHex(idStr)
			if err != nil {
				h.HandleResponse(c, nil, common.NewError(
					common.ErrCodeValidationFormat,
					"ID không đúng định dạng ObjectID",
					common.StatusBadRequest,
					idStr,
				))
				return nil
			}
			ids = append(ids, id)
		}

		data, err := h.Service.FindManyByIds(c.Context(), ids)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindWithPagination xử lý GET /find-with-pagination: phân trang theo page và limit
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindWithPagination(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, err := h.processMongoOptions(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)

		data, err := h.Service.FindWithPagination(c.Context(), filter, page, limit, opts)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// UpdateOne xử lý PUT /update-one: body chứa filter và update document
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, update, err := h.parseFilterUpdateBody(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.Service.UpdateOne(c.Context(), filter, update, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// UpdateMany xử lý PUT /update-many: trả về số lượng document đã được cập nhật
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateMany(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, update, err := h.parseFilterUpdateBody(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		count, err := h.Service.UpdateMany(c.Context(), filter, update, nil)
		h.HandleResponse(c, fiber.Map{"modifiedCount": count}, err)
		return nil
	})
}

// UpdateById xử lý PUT /update-by-id/:id: cập nhật document theo UpdateInput
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input UpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		set := updateSetFromInput(input)
		if len(set) == 0 {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Không có dữ liệu nào để cập nhật",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		data, err := h.Service.UpdateById(c.Context(), id, &services.UpdateData{Set: set})
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOneAndUpdate xử lý PUT /find-one-and-update: cập nhật và trả về document mới
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneAndUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, update, err := h.parseFilterUpdateBody(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.Service.FindOneAndUpdate(c.Context(), filter, update, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// DeleteOne xử lý DELETE /delete-one: xóa một document theo filter từ query
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.requireFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.Service.DeleteOne(c.Context(), filter)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// DeleteMany xử lý DELETE /delete-many: trả về số lượng document đã xóa
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteMany(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.requireFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		count, err := h.Service.DeleteMany(c.Context(), filter)
		h.HandleResponse(c, fiber.Map{"deletedCount": count}, err)
		return nil
	})
}

// DeleteById xử lý DELETE /delete-by-id/:id
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.Service.DeleteById(c.Context(), id)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// FindOneAndDelete xử lý DELETE /find-one-and-delete: xóa và trả về document đã xóa
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneAndDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.requireFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.Service.FindOneAndDelete(c.Context(), filter, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// CountDocuments xử lý GET /count: đếm số lượng document theo filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) CountDocuments(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		count, err := h.Service.CountDocuments(c.Context(), filter)
		h.HandleResponse(c, fiber.Map{"count": count}, err)
		return nil
	})
}

// Distinct xử lý GET /distinct?field=...: lấy danh sách giá trị duy nhất của một field
func (h *BaseHandler[T, CreateInput, UpdateInput]) Distinct(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		fieldName := c.Query("field")
		if fieldName == "" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu tham số field",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.Service.Distinct(c.Context(), fieldName, filter)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Upsert xử lý POST /upsert-one: cập nhật theo filter hoặc tạo mới nếu chưa tồn tại
func (h *BaseHandler[T, CreateInput, UpdateInput]) Upsert(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var body struct {
			Filter map[string]interface{} `json:"filter"`
			Data   map[string]interface{} `json:"data"`
		}
		if err := h.ParseRequestBody(c, &body); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if len(body.Filter) == 0 || len(body.Data) == 0 {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Filter và data không được để trống",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		filter := h.normalizeFilter(body.Filter)
		if err := h.validateFilter(filter); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.Service.Upsert(c.Context(), filter, bson.M(body.Data))
		h.HandleResponse(c, data, err)
		return nil
	})
}

// DocumentExists xử lý GET /exists: kiểm tra document có tồn tại theo filter hay không
func (h *BaseHandler[T, CreateInput, UpdateInput]) DocumentExists(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.requireFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		exists, err := h.Service.DocumentExists(c.Context(), filter)
		h.HandleResponse(c, fiber.Map{"exists": exists}, err)
		return nil
	})
}

// ====================================
// CÁC HÀM HỖ TRỢ
// ====================================

// requireFilter giống processFilter nhưng bắt buộc filter không rỗng.
// Các thao tác xóa và kiểm tra tồn tại không được phép chạy với filter rỗng.
func (h *BaseHandler[T, CreateInput, UpdateInput]) requireFilter(c fiber.Ctx) (map[string]interface{}, error) {
	filter, err := h.processFilter(c)
	if err != nil {
		return nil, err
	}
	if len(filter) == 0 {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			"Filter không được để trống cho thao tác này",
			common.StatusBadRequest,
			nil,
		)
	}
	return filter, nil
}

// parseFilterUpdateBody đọc body dạng {"filter": {...}, "update": {...}} cho các thao tác update
func (h *BaseHandler[T, CreateInput, UpdateInput]) parseFilterUpdateBody(c fiber.Ctx) (map[string]interface{}, *services.UpdateData, error) {
	var body struct {
		Filter map[string]interface{} `json:"filter"`
		Update struct {
			Set   map[string]interface{} `json:"set"`
			Unset map[string]interface{} `json:"unset"`
		} `json:"update"`
	}
	if err := h.ParseRequestBody(c, &body); err != nil {
		return nil, nil, err
	}
	if len(body.Filter) == 0 {
		return nil, nil, common.NewError(
			common.ErrCodeValidationInput,
			"Filter không được để trống",
			common.StatusBadRequest,
			nil,
		)
	}
	if len(body.Update.Set) == 0 && len(body.Update.Unset) == 0 {
		return nil, nil, common.NewError(
			common.ErrCodeValidationInput,
			"Update phải có ít nhất một thao tác set hoặc unset",
			common.StatusBadRequest,
			nil,
		)
	}

	filter := h.normalizeFilter(body.Filter)
	if err := h.validateFilter(filter); err != nil {
		return nil, nil, err
	}

	// Chặn client ghi đè các field nhạy cảm qua API update chung
	for key := range body.Update.Set {
		lowerKey := strings.ToLower(key)
		for _, denied := range h.filterOptions.DeniedFields {
			if strings.Contains(lowerKey, denied) {
				return nil, nil, common.NewError(
					common.ErrCodeValidationInput,
					"Không được phép cập nhật field "+key,
					common.StatusBadRequest,
					nil,
				)
			}
		}
	}

	return filter, &services.UpdateData{
		Set:   body.Update.Set,
		Unset: body.Update.Unset,
	}, nil
}

// updateSetFromInput chuyển UpdateInput thành map $set.
// Field pointer nil nghĩa là client không gửi field đó nên sẽ bị bỏ qua.
func updateSetFromInput(input interface{}) map[string]interface{} {
	value := reflect.ValueOf(input)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	set := make(map[string]interface{})
	structType := value.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}

		key := field.Tag.Get("json")
		if key != "" {
			key = strings.Split(key, ",")[0]
		}
		if key == "" || key == "-" {
			key = strings.ToLower(field.Name[:1]) + field.Name[1:]
		}

		fieldValue := value.Field(i)
		if fieldValue.Kind() == reflect.Ptr {
			if fieldValue.IsNil() {
				continue
			}
			set[key] = fieldValue.Elem().Interface()
			continue
		}
		if fieldValue.IsZero() {
			continue
		}
		set[key] = fieldValue.Interface()
	}
	return set
}
