package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestHandler() *BaseHandler[struct{}, struct{}, struct{}] {
	return &BaseHandler[struct{}, struct{}, struct{}]{
		filterOptions: DefaultFilterOptions(),
	}
}

func TestParseSortParam(t *testing.T) {
	t.Run("giữ đúng thứ tự key", func(t *testing.T) {
		result, err := parseSortParam(`{"createdDate": -1, "name": 1}`)
		require.NoError(t, err)

		sortDoc, ok := result.(primitive.D)
		require.True(t, ok, "kết quả phải là primitive.D để giữ thứ tự")
		require.Len(t, sortDoc, 2)
		assert.Equal(t, "createdDate", sortDoc[0].Key)
		assert.Equal(t, int64(-1), sortDoc[0].Value)
		assert.Equal(t, "name", sortDoc[1].Key)
		assert.Equal(t, int64(1), sortDoc[1].Value)
	})

	t.Run("giá trị khác 1 và -1 bị từ chối", func(t *testing.T) {
		_, err := parseSortParam(`{"name": 2}`)
		assert.Error(t, err)

		_, err = parseSortParam(`{"name": "asc"}`)
		assert.Error(t, err)
	})

	t.Run("không phải JSON object", func(t *testing.T) {
		_, err := parseSortParam(`["name"]`)
		assert.Error(t, err)

		_, err = parseSortParam(`khong-phai-json`)
		assert.Error(t, err)
	})
}

func TestNormalizeFilterValue(t *testing.T) {
	h := newTestHandler()
	oid := primitive.NewObjectID()

	t.Run("field ObjectID nhận hex string", func(t *testing.T) {
		assert.Equal(t, oid, h.normalizeFilterValue("_id", oid.Hex()))
		assert.Equal(t, oid, h.normalizeFilterValue("parentMovie", oid.Hex()))
		assert.Equal(t, oid, h.normalizeFilterValue("owner", oid.Hex()))
	})

	t.Run("field thường giữ nguyên string", func(t *testing.T) {
		assert.Equal(t, oid.Hex(), h.normalizeFilterValue("title", oid.Hex()))
		assert.Equal(t, "Inception", h.normalizeFilterValue("title", "Inception"))
	})

	t.Run("json.Number thành int64 hoặc float64", func(t *testing.T) {
		assert.Equal(t, int64(9), h.normalizeFilterValue("rating", json.Number("9")))
		assert.Equal(t, 7.5, h.normalizeFilterValue("rating", json.Number("7.5")))
	})

	t.Run("extended JSON $oid", func(t *testing.T) {
		value := map[string]interface{}{"$oid": oid.Hex()}
		assert.Equal(t, oid, h.normalizeFilterValue("director", value))
	})

	t.Run("đệ quy vào operator và mảng", func(t *testing.T) {
		value := map[string]interface{}{
			"$in": []interface{}{oid.Hex()},
		}
		result, ok := h.normalizeFilterValue("parentMovie", value).(map[string]interface{})
		require.True(t, ok)
		inValues, ok := result["$in"].([]interface{})
		require.True(t, ok)
		assert.Equal(t, oid, inValues[0])
	})
}

func TestValidateFilter(t *testing.T) {
	h := newTestHandler()

	t.Run("filter hợp lệ", func(t *testing.T) {
		filter := map[string]interface{}{
			"status": "public",
			"type":   map[string]interface{}{"$in": []interface{}{"Action"}},
		}
		assert.NoError(t, h.validateFilter(filter))
	})

	t.Run("field nhạy cảm bị chặn", func(t *testing.T) {
		assert.Error(t, h.validateFilter(map[string]interface{}{"password": "x"}))
		assert.Error(t, h.validateFilter(map[string]interface{}{"resetToken": "x"}), "tên field chứa từ bị cấm cũng phải chặn")
	})

	t.Run("operator nguy hiểm bị chặn", func(t *testing.T) {
		filter := map[string]interface{}{
			"name": map[string]interface{}{"$where": "this.a == 1"},
		}
		assert.Error(t, h.validateFilter(filter))
	})

	t.Run("vượt quá số field tối đa", func(t *testing.T) {
		filter := map[string]interface{}{}
		for i := 0; i < h.filterOptions.MaxFields+1; i++ {
			filter["field"+string(rune('a'+i))] = i
		}
		assert.Error(t, h.validateFilter(filter))
	})
}

func TestTransformCreateInputToModel(t *testing.T) {
	type reviewModel struct {
		ParentMovie primitive.ObjectID
		Content     string
		Rating      float64
	}
	type reviewInput struct {
		Content string
		Rating  float64
	}

	h := &BaseHandler[reviewModel, reviewInput, struct{}]{
		filterOptions: DefaultFilterOptions(),
	}

	t.Run("copy field trùng tên", func(t *testing.T) {
		model, err := h.transformCreateInputToModel(reviewInput{Content: "Phim hay", Rating: 8.5})
		require.NoError(t, err)
		assert.Equal(t, "Phim hay", model.Content)
		assert.Equal(t, 8.5, model.Rating)
		assert.Equal(t, primitive.NilObjectID, model.ParentMovie)
	})

	type castModel struct {
		Actor    primitive.ObjectID
		RoleAs   string
		LeadRole bool
	}
	type castInput struct {
		Actor    string
		RoleAs   string
		LeadRole bool
	}
	hc := &BaseHandler[castModel, castInput, struct{}]{
		filterOptions: DefaultFilterOptions(),
	}

	t.Run("hex string thành ObjectID", func(t *testing.T) {
		oid := primitive.NewObjectID()
		model, err := hc.transformCreateInputToModel(castInput{Actor: oid.Hex(), RoleAs: "John", LeadRole: true})
		require.NoError(t, err)
		assert.Equal(t, oid, model.Actor)
		assert.Equal(t, "John", model.RoleAs)
		assert.True(t, model.LeadRole)
	})

	t.Run("hex string rỗng được bỏ qua", func(t *testing.T) {
		model, err := hc.transformCreateInputToModel(castInput{RoleAs: "John"})
		require.NoError(t, err)
		assert.Equal(t, primitive.NilObjectID, model.Actor)
	})

	t.Run("hex string không hợp lệ trả về lỗi", func(t *testing.T) {
		_, err := hc.transformCreateInputToModel(castInput{Actor: "khong-phai-hex"})
		assert.Error(t, err)
	})
}
