// Package utility - test chuyển đổi DTO → Model qua reflection.
package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sampleInput struct {
	Name       string
	ProjectID  string
	TemplateID *string
	Count      int
	Ignored    string
}

type sampleModel struct {
	Name       string
	ProjectID  primitive.ObjectID
	TemplateID *primitive.ObjectID
	Count      int64
}

func TestTransformStruct_CopyVaConvert(t *testing.T) {
	projectHex := primitive.NewObjectID().Hex()
	templateHex := primitive.NewObjectID().Hex()

	input := sampleInput{
		Name:       "Khảo sát",
		ProjectID:  projectHex,
		TemplateID: &templateHex,
		Count:      5,
		Ignored:    "model không có field này",
	}

	var model sampleModel
	err := TransformStruct(&input, &model)
	assert.NoError(t, err)
	assert.Equal(t, "Khảo sát", model.Name)
	assert.Equal(t, projectHex, model.ProjectID.Hex())
	if assert.NotNil(t, model.TemplateID) {
		assert.Equal(t, templateHex, model.TemplateID.Hex())
	}
	assert.Equal(t, int64(5), model.Count)
}

func TestTransformStruct_ChuoiRongVaNilPointer(t *testing.T) {
	input := sampleInput{Name: "A", ProjectID: "", TemplateID: nil}
	var model sampleModel
	err := TransformStruct(&input, &model)
	assert.NoError(t, err)
	assert.True(t, model.ProjectID.IsZero(), "chuỗi rỗng không được set ObjectID")
	assert.Nil(t, model.TemplateID)
}

func TestTransformStruct_HexKhongHopLe(t *testing.T) {
	input := sampleInput{Name: "A", ProjectID: "không phải hex"}
	var model sampleModel
	err := TransformStruct(&input, &model)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ProjectID")
}

func TestTransformStruct_InputKhongPhaiStruct(t *testing.T) {
	var model sampleModel
	assert.Error(t, TransformStruct("chuỗi", &model))
	assert.Error(t, TransformStruct(&sampleInput{}, model)) // output không phải pointer
}
