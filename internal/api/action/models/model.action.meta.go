// Package models - metadata nhúng trong chat message thuộc domain action.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormRequestMeta là snapshot của template tại thời điểm gửi form request,
// nhúng trong message có contentType "form_request". Vì là snapshot,
// các lần sửa template sau này không làm thay đổi form request đã gửi.
// SubmissionID được set khi visitor trả lời, cho phép đọc trạng thái
// "đã trả lời hay chưa" ngay trên message mà không cần join submissions.
type FormRequestMeta struct {
	TemplateID          primitive.ObjectID  `json:"templateId" bson:"templateId"`
	TemplateName        string              `json:"templateName" bson:"templateName"`
	TemplateDescription string              `json:"templateDescription,omitempty" bson:"templateDescription,omitempty"`
	Definition          Definition          `json:"definition" bson:"definition"`
	ExpiresAt           int64               `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	SubmissionID        *primitive.ObjectID `json:"submissionId,omitempty" bson:"submissionId,omitempty"`
}

// IsExpired kiểm tra form request đã hết hạn tại thời điểm now (epoch millis).
// ExpiresAt = 0 nghĩa là không có hạn.
func (m *FormRequestMeta) IsExpired(now int64) bool {
	return m.ExpiresAt > 0 && m.ExpiresAt < now
}

// IsAnswered kiểm tra form request đã có submission trả lời hay chưa
func (m *FormRequestMeta) IsAnswered() bool {
	return m.SubmissionID != nil && !m.SubmissionID.IsZero()
}

// FormSubmissionMeta là snapshot của submission nhúng trong message
// có contentType "form_submission".
type FormSubmissionMeta struct {
	FormRequestMessageID primitive.ObjectID     `json:"formRequestMessageId" bson:"formRequestMessageId"`
	SubmissionID         primitive.ObjectID     `json:"submissionId" bson:"submissionId"`
	TemplateName         string                 `json:"templateName" bson:"templateName"`
	Data                 map[string]interface{} `json:"data" bson:"data"`
}
