// package basesvc - test các helper thuần: UpdateData và default từ struct tag.
package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToUpdateData_PassThrough(t *testing.T) {
	update := &UpdateData{Set: map[string]interface{}{"name": "A"}}
	got, err := ToUpdateData(update)
	assert.NoError(t, err)
	assert.Same(t, update, got, "UpdateData pointer phải được trả về nguyên vẹn")

	got2, err := ToUpdateData(UpdateData{Unset: map[string]interface{}{"awaitingReply": ""}})
	assert.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"awaitingReply": ""}, got2.Unset)
}

func TestToUpdateData_MapThuongDuocWrapTrongSet(t *testing.T) {
	got, err := ToUpdateData(map[string]interface{}{"name": "B"})
	assert.NoError(t, err)
	assert.Equal(t, "B", got.Set["name"])
	assert.Empty(t, got.Unset)
}

func TestUpdateData_BsonMarshalShape(t *testing.T) {
	// UpdateData marshal thẳng thành update document của MongoDB,
	// các nhóm rỗng phải bị omit để tránh lỗi "empty update operator"
	update := UpdateData{
		Set:   map[string]interface{}{"formRequest.submissionId": "x"},
		Unset: map[string]interface{}{"awaitingReply": ""},
	}
	raw, err := bson.Marshal(update)
	assert.NoError(t, err)

	var doc bson.M
	assert.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "$set")
	assert.Contains(t, doc, "$unset")
	assert.NotContains(t, doc, "$inc")
	assert.NotContains(t, doc, "$push")
}

type defaultedModel struct {
	Status  string `bson:"status" default:"open"`
	Retries int64  `bson:"retries" default:"3"`
	Flag    bool   `bson:"flag" default:"true"`
	Name    string `bson:"name"`
}

func TestApplyInsertDefaults_ChiSetFieldZero(t *testing.T) {
	m := defaultedModel{Name: "giữ nguyên"}
	applyInsertDefaultsToModel(&m)
	assert.Equal(t, "open", m.Status)
	assert.Equal(t, int64(3), m.Retries)
	assert.True(t, m.Flag)
	assert.Equal(t, "giữ nguyên", m.Name)

	// Field đã có giá trị không bị ghi đè
	m2 := defaultedModel{Status: "closed", Retries: 7}
	applyInsertDefaultsToModel(&m2)
	assert.Equal(t, "closed", m2.Status)
	assert.Equal(t, int64(7), m2.Retries)
}

func TestApplyInsertDefaults_InputKhongHopLe(t *testing.T) {
	// Không panic với nil hoặc không phải con trỏ struct
	applyInsertDefaultsToModel(nil)
	applyInsertDefaultsToModel(42)
	applyInsertDefaultsToModel(defaultedModel{})
}
