// Package models - test Clone và kiểm tra trùng key của Definition.
package models

import (
	"testing"
)

func TestDefinitionClone_DocLapVoiBanGoc(t *testing.T) {
	original := Definition{Fields: []FieldSpec{
		{Key: "plan", Label: "Gói", Type: FieldTypeSelect, Options: []string{"free", "pro"}},
		{Key: "note", Label: "Ghi chú", Type: FieldTypeText},
	}}
	clone := original.Clone()

	// Sửa bản gốc không được ảnh hưởng bản sao (snapshot trong message)
	original.Fields[0].Options[0] = "changed"
	original.Fields[1].Label = "Đã sửa"

	if clone.Fields[0].Options[0] != "free" {
		t.Errorf("Clone chia sẻ slice Options với bản gốc: %v", clone.Fields[0].Options)
	}
	if clone.Fields[1].Label != "Ghi chú" {
		t.Errorf("Clone chia sẻ field với bản gốc: %s", clone.Fields[1].Label)
	}
}

func TestDefinitionClone_OptionsNil(t *testing.T) {
	d := Definition{Fields: []FieldSpec{{Key: "a", Label: "A", Type: FieldTypeText}}}
	clone := d.Clone()
	if clone.Fields[0].Options != nil {
		t.Error("Options nil phải giữ nguyên nil sau Clone")
	}
}

func TestCheckDuplicateKeys(t *testing.T) {
	d := Definition{Fields: []FieldSpec{
		{Key: "a", Label: "A", Type: FieldTypeText},
		{Key: "b", Label: "B", Type: FieldTypeText},
	}}
	if dup := d.CheckDuplicateKeys(); dup != "" {
		t.Errorf("definition không trùng key nhưng trả về '%s'", dup)
	}

	d.Fields = append(d.Fields, FieldSpec{Key: "a", Label: "A2", Type: FieldTypeNumber})
	if dup := d.CheckDuplicateKeys(); dup != "a" {
		t.Errorf("mong đợi key trùng 'a', nhận được '%s'", dup)
	}
}
