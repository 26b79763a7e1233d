package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestString2ObjectID(t *testing.T) {
	t.Run("chuỗi hex hợp lệ", func(t *testing.T) {
		oid := primitive.NewObjectID()
		assert.Equal(t, oid, String2ObjectID(oid.Hex()))
	})

	t.Run("chuỗi không hợp lệ trả về NilObjectID", func(t *testing.T) {
		assert.Equal(t, primitive.NilObjectID, String2ObjectID("khong-phai-hex"))
		assert.Equal(t, primitive.NilObjectID, String2ObjectID(""))
	})
}

func TestObjectID2String_RoundTrip(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid, String2ObjectID(ObjectID2String(oid)))
}

func TestStringArray2ObjectIDArray(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	result := StringArray2ObjectIDArray([]string{a.Hex(), b.Hex()})
	assert.Equal(t, []primitive.ObjectID{a, b}, result)

	assert.Nil(t, StringArray2ObjectIDArray(nil))
}
