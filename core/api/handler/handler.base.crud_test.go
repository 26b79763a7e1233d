package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSetFromInput(t *testing.T) {
	type profileUpdate struct {
		Name   *string `json:"name,omitempty"`
		About  *string `json:"about,omitempty"`
		Gender *string `json:"gender,omitempty"`
	}

	strPtr := func(s string) *string { return &s }

	t.Run("chỉ field được gửi mới vào $set", func(t *testing.T) {
		set := updateSetFromInput(&profileUpdate{
			Name:  strPtr("John Carter"),
			About: strPtr("Diễn viên chính"),
		})
		require.Len(t, set, 2)
		assert.Equal(t, "John Carter", set["name"])
		assert.Equal(t, "Diễn viên chính", set["about"])
		_, hasGender := set["gender"]
		assert.False(t, hasGender, "field pointer nil không được vào $set")
	})

	t.Run("pointer tới chuỗi rỗng vẫn được set", func(t *testing.T) {
		set := updateSetFromInput(&profileUpdate{About: strPtr("")})
		require.Len(t, set, 1)
		assert.Equal(t, "", set["about"])
	})

	t.Run("key lấy từ json tag, bỏ phần omitempty", func(t *testing.T) {
		type input struct {
			DirectorName *string `json:"directorName,omitempty"`
		}
		set := updateSetFromInput(&input{DirectorName: strPtr("Nolan")})
		assert.Equal(t, "Nolan", set["directorName"])
	})

	t.Run("field không có json tag dùng tên field viết thường chữ đầu", func(t *testing.T) {
		type input struct {
			Title string
		}
		set := updateSetFromInput(input{Title: "Dune"})
		assert.Equal(t, "Dune", set["title"])
	})

	t.Run("field không phải pointer bị bỏ qua khi là zero value", func(t *testing.T) {
		type input struct {
			Title  string  `json:"title"`
			Rating float64 `json:"rating"`
		}
		set := updateSetFromInput(input{Title: "Dune"})
		require.Len(t, set, 1)
		_, hasRating := set["rating"]
		assert.False(t, hasRating)
	})

	t.Run("input không phải struct trả về nil", func(t *testing.T) {
		assert.Nil(t, updateSetFromInput("khong-phai-struct"))
	})

	t.Run("struct rỗng trả về map rỗng", func(t *testing.T) {
		set := updateSetFromInput(&profileUpdate{})
		assert.Empty(t, set)
	})
}
