// Package global - test các custom validator thuần (không chạm database).
package global

import (
	"testing"

	chatdto "livechat/internal/api/chat/dto"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateNoXSS(t *testing.T) {
	InitValidator()

	type input struct {
		Name string `validate:"no_xss"`
	}

	safe := []string{"Nguyễn Văn A", "Template khảo sát 2024", ""}
	for _, s := range safe {
		if err := Validate.Struct(input{Name: s}); err != nil {
			t.Errorf("chuỗi an toàn '%s' bị từ chối: %v", s, err)
		}
	}

	dangerous := []string{
		"<script>alert(1)</script>",
		"javascript:void(0)",
		"<img onerror=alert(1)>",
		"<IFRAME src=x>",
	}
	for _, s := range dangerous {
		if err := Validate.Struct(input{Name: s}); err == nil {
			t.Errorf("chuỗi nguy hiểm '%s' phải bị từ chối", s)
		}
	}
}

func TestValidateFieldKey(t *testing.T) {
	InitValidator()

	type input struct {
		Key string `validate:"field_key"`
	}

	valid := []string{"name", "full_name", "a1", "field_2_b"}
	for _, k := range valid {
		if err := Validate.Struct(input{Key: k}); err != nil {
			t.Errorf("key hợp lệ '%s' bị từ chối: %v", k, err)
		}
	}

	invalid := []string{"Name", "1abc", "_x", "có dấu", "a-b", ""}
	for _, k := range invalid {
		if err := Validate.Struct(input{Key: k}); err == nil {
			t.Errorf("key không hợp lệ '%s' phải bị từ chối", k)
		}
	}
}

func TestValidateObjectIDHex(t *testing.T) {
	InitValidator()

	type input struct {
		ID string `validate:"object_id"`
	}

	if err := Validate.Struct(input{ID: primitive.NewObjectID().Hex()}); err != nil {
		t.Errorf("ObjectID hex hợp lệ bị từ chối: %v", err)
	}
	if err := Validate.Struct(input{ID: ""}); err != nil {
		t.Error("chuỗi rỗng là optional, không được từ chối (dùng kèm required nếu bắt buộc)")
	}
	if err := Validate.Struct(input{ID: "xyz"}); err == nil {
		t.Error("chuỗi không phải hex phải bị từ chối")
	}
}

func TestValidateExistsOnConversationCreateInput(t *testing.T) {
	InitValidator()

	// projectId mang tag exists=auth_projects: ObjectID đúng định dạng nhưng
	// không xác nhận được tồn tại (registry chưa có collection) phải bị từ chối
	in := chatdto.ConversationCreateInput{ProjectID: primitive.NewObjectID().Hex()}
	err := Validate.Struct(in)
	if err == nil {
		t.Fatal("projectId không xác nhận được tồn tại phải bị từ chối")
	}

	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("lỗi trả về không phải ValidationErrors: %v", err)
	}
	foundExists := false
	for _, ve := range ves {
		if ve.Tag() == "exists" {
			foundExists = true
			if ve.Param() != "auth_projects" {
				t.Errorf("tag exists phải trỏ tới auth_projects, nhận được %s", ve.Param())
			}
		}
	}
	if !foundExists {
		t.Error("lỗi validate phải đến từ tag exists")
	}
}
