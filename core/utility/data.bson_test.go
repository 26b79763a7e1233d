package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMap_RespectsBsonTags(t *testing.T) {
	type sample struct {
		Name   string `bson:"name"`
		Rating int32  `bson:"rating"`
		Hidden string `bson:"-"`
	}

	m, err := ToMap(sample{Name: "Inception", Rating: 9, Hidden: "bi-an"})
	require.NoError(t, err)

	assert.Equal(t, "Inception", m["name"])
	assert.Equal(t, int32(9), m["rating"])
	_, exists := m["Hidden"]
	assert.False(t, exists, "field có bson:\"-\" không được xuất hiện trong map")
}

func TestToMap_NonStruct(t *testing.T) {
	_, err := ToMap("khong-phai-struct")
	assert.Error(t, err)
}
