package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"movie_review/core/api/services"
	"movie_review/core/common"
	"movie_review/core/global"
)

// FilterOptions cấu hình bảo mật cho filter nhận từ client.
// Các field nhạy cảm và operator nguy hiểm sẽ bị chặn trước khi chạm tới MongoDB.
type FilterOptions struct {
	DeniedFields     []string // Các field bị cấm filter (dữ liệu nhạy cảm)
	AllowedOperators []string // Các operator MongoDB được phép sử dụng
	MaxFields        int      // Số lượng field tối đa trong một filter
}

// DefaultFilterOptions trả về cấu hình filter mặc định cho toàn bộ handler
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		DeniedFields: []string{"password", "token", "secret", "key", "hash"},
		AllowedOperators: []string{
			"$eq", "$gt", "$gte", "$lt", "$lte", "$in", "$nin", "$exists",
		},
		MaxFields: 10,
	}
}

// BaseHandler là handler cơ sở cho các API CRUD trên MongoDB.
// T là model, CreateInput và UpdateInput là các DTO đầu vào tương ứng.
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	Service       services.BaseServiceMongo[T]
	filterOptions FilterOptions
}

// NewBaseHandler khởi tạo BaseHandler với cấu hình filter mặc định
func NewBaseHandler[T any, CreateInput any, UpdateInput any](service services.BaseServiceMongo[T]) *BaseHandler[T, CreateInput, UpdateInput] {
	return &BaseHandler[T, CreateInput, UpdateInput]{
		Service:       service,
		filterOptions: DefaultFilterOptions(),
	}
}

// validateInput xác thực dữ liệu đầu vào theo các tag validate trên DTO
func (h *BaseHandler[T, CreateInput, UpdateInput]) validateInput(input interface{}) error {
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(
			common.ErrCodeValidationInput,
			"Dữ liệu đầu vào không hợp lệ",
			common.StatusBadRequest,
			err.Error(),
		)
	}
	return nil
}

// ParseRequestBody giải mã JSON body vào struct đích.
// Dùng json.Number để không mất độ chính xác của số lớn khi đi qua interface{}.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		return common.NewError(
			common.ErrCodeValidationInput,
			"Body không được để trống",
			common.StatusBadRequest,
			nil,
		)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(
			common.ErrCodeValidationFormat,
			"Không thể phân tích JSON body",
			common.StatusBadRequest,
			err.Error(),
		)
	}
	return nil
}

// GetIDFromContext lấy và kiểm tra ObjectID từ path param :id
func (h *BaseHandler[T, CreateInput, UpdateInput]) GetIDFromContext(c fiber.Ctx) (primitive.ObjectID, error) {
	idStr := c.Params("id")
	if idStr == "" {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationInput,
			"Thiếu ID trong đường dẫn",
			common.StatusBadRequest,
			nil,
		)
	}

	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			"ID không đúng định dạng ObjectID",
			common.StatusBadRequest,
			idStr,
		)
	}
	return id, nil
}

// processFilter đọc, chuẩn hóa và kiểm tra filter từ query param `filter`.
// Trả về filter rỗng nếu client không truyền filter.
func (h *BaseHandler[T, CreateInput, UpdateInput]) processFilter(c fiber.Ctx) (map[string]interface{}, error) {
	rawFilter := c.Query("filter")
	if rawFilter == "" {
		return map[string]interface{}{}, nil
	}

	var filter map[string]interface{}
	decoder := json.NewDecoder(strings.NewReader(rawFilter))
	decoder.UseNumber()
	if err := decoder.Decode(&filter); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			"Filter không phải JSON hợp lệ",
			common.StatusBadRequest,
			err.Error(),
		)
	}

	filter = h.normalizeFilter(filter)

	if err := h.validateFilter(filter); err != nil {
		return nil, err
	}
	return filter, nil
}

// normalizeFilter chuyển đổi các giá trị trong filter về dạng MongoDB hiểu được:
// chuỗi hex của các field *Id thành ObjectID, json.Number thành int64/float64
func (h *BaseHandler[T, CreateInput, UpdateInput]) normalizeFilter(filter map[string]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(filter))
	for key, value := range filter {
		normalized[key] = h.normalizeFilterValue(key, value)
	}
	return normalized
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) normalizeFilterValue(key string, value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		// Field tham chiếu dạng hex string cần chuyển thành ObjectID
		if isObjectIDField(key) {
			if oid, err := primitive.ObjectIDFromHex(v); err == nil {
				return oid
			}
		}
		return v

	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()

	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = h.normalizeFilterValue(key, item)
		}
		return result

	case map[string]interface{}:
		// Hỗ trợ extended JSON {"$oid": "..."}
		if oidStr, ok := v["$oid"].(string); ok && len(v) == 1 {
			if oid, err := primitive.ObjectIDFromHex(oidStr); err == nil {
				return oid
			}
		}
		result := make(map[string]interface{}, len(v))
		for opKey, opValue := range v {
			result[opKey] = h.normalizeFilterValue(key, opValue)
		}
		return result

	default:
		return value
	}
}

// isObjectIDField nhận diện các field lưu ObjectID theo quy ước đặt tên
func isObjectIDField(key string) bool {
	return key == "_id" || strings.HasSuffix(key, "Id") || key == "owner" || key == "parentMovie"
}

// validateFilter kiểm tra filter theo FilterOptions của handler
func (h *BaseHandler[T, CreateInput, UpdateInput]) validateFilter(filter map[string]interface{}) error {
	if len(filter) > h.filterOptions.MaxFields {
		return common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Filter vượt quá %d field cho phép", h.filterOptions.MaxFields),
			common.StatusBadRequest,
			nil,
		)
	}

	for key, value := range filter {
		lowerKey := strings.ToLower(key)
		for _, denied := range h.filterOptions.DeniedFields {
			if strings.Contains(lowerKey, denied) {
				return common.NewError(
					common.ErrCodeValidationInput,
					fmt.Sprintf("Không được phép filter theo field %q", key),
					common.StatusBadRequest,
					nil,
				)
			}
		}

		// Kiểm tra các operator bên trong giá trị filter
		if operators, ok := value.(map[string]interface{}); ok {
			for op := range operators {
				if strings.HasPrefix(op, "$") && !slices.Contains(h.filterOptions.AllowedOperators, op) {
					return common.NewError(
						common.ErrCodeValidationInput,
						fmt.Sprintf("Operator %q không được phép sử dụng", op),
						common.StatusBadRequest,
						nil,
					)
				}
			}
		}
	}
	return nil
}

// processMongoOptions đọc các query param projection, sort, limit, skip
// và chuyển thành options.FindOptions
func (h *BaseHandler[T, CreateInput, UpdateInput]) processMongoOptions(c fiber.Ctx) (*options.FindOptions, error) {
	opts := options.Find()

	if rawProjection := c.Query("projection"); rawProjection != "" {
		var projection map[string]interface{}
		if err := json.Unmarshal([]byte(rawProjection), &projection); err != nil {
			return nil, common.NewError(
				common.ErrCodeValidationFormat,
				"Projection không phải JSON hợp lệ",
				common.StatusBadRequest,
				err.Error(),
			)
		}
		opts.SetProjection(projection)
	}

	if rawSort := c.Query("sort"); rawSort != "" {
		sortDoc, err := parseSortParam(rawSort)
		if err != nil {
			return nil, err
		}
		opts.SetSort(sortDoc)
	}

	if rawLimit := c.Query("limit"); rawLimit != "" {
		limit, err := strconv.ParseInt(rawLimit, 10, 64)
		if err != nil || limit < 0 {
			return nil, common.NewError(
				common.ErrCodeValidationInput,
				"Limit phải là số nguyên không âm",
				common.StatusBadRequest,
				rawLimit,
			)
		}
		// Chặn limit quá lớn để bảo vệ database
		if limit > 1000 {
			limit = 1000
		}
		opts.SetLimit(limit)
	}

	if rawSkip := c.Query("skip"); rawSkip != "" {
		skip, err := strconv.ParseInt(rawSkip, 10, 64)
		if err != nil || skip < 0 {
			return nil, common.NewError(
				common.ErrCodeValidationInput,
				"Skip phải là số nguyên không âm",
				common.StatusBadRequest,
				rawSkip,
			)
		}
		opts.SetSkip(skip)
	}

	return opts, nil
}

// parseSortParam phân tích chuỗi sort dạng `{"field": 1, "other": -1}`.
// Phải giữ đúng thứ tự key client truyền lên nên không thể unmarshal vào map.
func parseSortParam(rawSort string) (interface{}, error) {
	decoder := json.NewDecoder(strings.NewReader(rawSort))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil || token != json.Delim('{') {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			"Sort phải là JSON object",
			common.StatusBadRequest,
			rawSort,
		)
	}

	var sortDoc primitive.D
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, common.ErrInvalidFormat
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, common.ErrInvalidFormat
		}

		valueToken, err := decoder.Token()
		if err != nil {
			return nil, common.ErrInvalidFormat
		}
		number, ok := valueToken.(json.Number)
		if !ok {
			return nil, common.NewError(
				common.ErrCodeValidationInput,
				"Giá trị sort phải là 1 hoặc -1",
				common.StatusBadRequest,
				key,
			)
		}
		direction, err := number.Int64()
		if err != nil || (direction != 1 && direction != -1) {
			return nil, common.NewError(
				common.ErrCodeValidationInput,
				"Giá trị sort phải là 1 hoặc -1",
				common.StatusBadRequest,
				key,
			)
		}
		sortDoc = append(sortDoc, primitive.E{Key: key, Value: direction})
	}
	return sortDoc, nil
}

// ParsePagination đọc page và limit từ query, trả về giá trị mặc định an toàn
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParsePagination(c fiber.Ctx) (page int64, limit int64) {
	page = 1
	limit = 10

	if rawPage := c.Query("page"); rawPage != "" {
		if p, err := strconv.ParseInt(rawPage, 10, 64); err == nil && p > 0 {
			page = p
		}
	}
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if l, err := strconv.ParseInt(rawLimit, 10, 64); err == nil && l > 0 {
			limit = int64(math.Min(float64(l), 100))
		}
	}
	return page, limit
}

// transformCreateInputToModel chuyển DTO sang model bằng cách copy các field trùng tên.
// Các field dạng hex string trỏ tới ObjectID trong model sẽ được chuyển đổi tự động.
func (h *BaseHandler[T, CreateInput, UpdateInput]) transformCreateInputToModel(input CreateInput) (T, error) {
	var model T

	inputValue := reflect.ValueOf(input)
	if inputValue.Kind() == reflect.Ptr {
		inputValue = inputValue.Elem()
	}
	modelValue := reflect.ValueOf(&model).Elem()

	if inputValue.Kind() != reflect.Struct || modelValue.Kind() != reflect.Struct {
		return model, common.NewError(
			common.ErrCodeInternalServer,
			"Kiểu dữ liệu không hỗ trợ chuyển đổi",
			common.StatusInternalServerError,
			nil,
		)
	}

	inputType := inputValue.Type()
	for i := 0; i < inputType.NumField(); i++ {
		inputField := inputType.Field(i)
		if !inputField.IsExported() {
			continue
		}

		target := modelValue.FieldByName(inputField.Name)
		if !target.IsValid() || !target.CanSet() {
			continue
		}

		source := inputValue.Field(i)

		// Hex string trong DTO ứng với ObjectID trong model
		if source.Kind() == reflect.String && target.Type() == reflect.TypeOf(primitive.ObjectID{}) {
			if source.String() == "" {
				continue
			}
			oid, err := primitive.ObjectIDFromHex(source.String())
			if err != nil {
				return model, common.NewError(
					common.ErrCodeValidationFormat,
					fmt.Sprintf("Field %q không phải ObjectID hợp lệ", inputField.Name),
					common.StatusBadRequest,
					source.String(),
				)
			}
			target.Set(reflect.ValueOf(oid))
			continue
		}

		if source.Type().AssignableTo(target.Type()) {
			target.Set(source)
			continue
		}
		if source.Type().ConvertibleTo(target.Type()) {
			target.Set(source.Convert(target.Type()))
		}
	}

	return model, nil
}
