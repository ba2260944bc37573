// Package models - test metadata nhúng trong message và quyền sở hữu submission.
package models

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFormRequestMeta_IsExpired(t *testing.T) {
	now := int64(1700000000000)

	meta := FormRequestMeta{}
	if meta.IsExpired(now) {
		t.Error("ExpiresAt = 0 nghĩa là không có hạn, không được coi là hết hạn")
	}

	meta.ExpiresAt = now - 1
	if !meta.IsExpired(now) {
		t.Error("ExpiresAt trong quá khứ phải được coi là hết hạn")
	}

	meta.ExpiresAt = now + 60000
	if meta.IsExpired(now) {
		t.Error("ExpiresAt trong tương lai không được coi là hết hạn")
	}
}

func TestFormRequestMeta_IsAnswered(t *testing.T) {
	meta := FormRequestMeta{}
	if meta.IsAnswered() {
		t.Error("SubmissionID nil không được coi là đã trả lời")
	}

	zero := primitive.NilObjectID
	meta.SubmissionID = &zero
	if meta.IsAnswered() {
		t.Error("SubmissionID zero không được coi là đã trả lời")
	}

	id := primitive.NewObjectID()
	meta.SubmissionID = &id
	if !meta.IsAnswered() {
		t.Error("SubmissionID hợp lệ phải được coi là đã trả lời")
	}
}

func TestFormRequestMeta_JSONFieldNames(t *testing.T) {
	// Wire format của snapshot: client đọc các key này trực tiếp
	meta := FormRequestMeta{
		TemplateID:   primitive.NewObjectID(),
		TemplateName: "Khảo sát",
		Definition:   Definition{Fields: []FieldSpec{{Key: "a", Label: "A", Type: FieldTypeText}}},
		ExpiresAt:    1700000000000,
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal FormRequestMeta lỗi: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal lỗi: %v", err)
	}
	for _, key := range []string{"templateId", "templateName", "definition", "expiresAt"} {
		if _, ok := m[key]; !ok {
			t.Errorf("JSON thiếu key '%s': %s", key, raw)
		}
	}
	if _, ok := m["submissionId"]; ok {
		t.Error("submissionId nil phải bị omit khỏi JSON")
	}
}

func TestActionSubmission_ValidateOwnership(t *testing.T) {
	agentID := primitive.NewObjectID()
	visitorID := primitive.NewObjectID()

	cases := []struct {
		name    string
		creator *primitive.ObjectID
		visitor *primitive.ObjectID
		want    bool
	}{
		{"chỉ agent", &agentID, nil, true},
		{"chỉ visitor", nil, &visitorID, true},
		{"cả hai cùng set", &agentID, &visitorID, false},
		{"không ai sở hữu", nil, nil, false},
	}
	for _, tc := range cases {
		s := ActionSubmission{CreatorID: tc.creator, VisitorID: tc.visitor}
		if got := s.ValidateOwnership(); got != tc.want {
			t.Errorf("%s: ValidateOwnership = %v, mong đợi %v", tc.name, got, tc.want)
		}
	}
}

func TestActionTemplate_IsDeleted(t *testing.T) {
	tpl := ActionTemplate{}
	if tpl.IsDeleted() {
		t.Error("DeletedAt = 0 nghĩa là template còn sống")
	}
	tpl.DeletedAt = 1700000000000
	if !tpl.IsDeleted() {
		t.Error("DeletedAt > 0 nghĩa là template đã bị xóa mềm")
	}
}
