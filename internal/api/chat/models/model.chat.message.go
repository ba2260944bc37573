// Package models - model tin nhắn (Message) thuộc domain chat.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	actionmodels "livechat/internal/api/action/models"
)

// Loại người gửi
const (
	SenderTypeAgent   = "agent"
	SenderTypeVisitor = "visitor"
	SenderTypeSystem  = "system"
)

// Loại nội dung message
const (
	ContentTypeText           = "text"
	ContentTypeFormRequest    = "form_request"
	ContentTypeFormSubmission = "form_submission"
)

// Message là một tin nhắn trong hội thoại.
// Với contentType "form_request" trường FormRequest chứa snapshot template;
// với "form_submission" trường FormSubmission chứa snapshot dữ liệu đã điền.
// AwaitingReply = true khi message là form request chưa được trả lời;
// partial unique index trên (conversationId) với điều kiện awaitingReply=true
// đảm bảo mỗi hội thoại chỉ có tối đa một form request đang chờ.
type Message struct {
	ID             primitive.ObjectID                `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID                `json:"conversationId" bson:"conversationId"`
	ProjectID      primitive.ObjectID                `json:"projectId" bson:"projectId"`
	SenderType     string                            `json:"senderType" bson:"senderType"`
	SenderID       *primitive.ObjectID               `json:"senderId,omitempty" bson:"senderId,omitempty"`
	ContentType    string                            `json:"contentType" bson:"contentType"`
	Text           string                            `json:"text,omitempty" bson:"text,omitempty"`
	FormRequest    *actionmodels.FormRequestMeta     `json:"formRequest,omitempty" bson:"formRequest,omitempty"`
	FormSubmission *actionmodels.FormSubmissionMeta  `json:"formSubmission,omitempty" bson:"formSubmission,omitempty"`
	AwaitingReply  bool                              `json:"awaitingReply,omitempty" bson:"awaitingReply,omitempty"`
	CreatedAt      int64                             `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64                             `json:"updatedAt" bson:"updatedAt"`
}

// IsFormRequest kiểm tra message có phải form request hợp lệ hay không
func (m *Message) IsFormRequest() bool {
	return m.ContentType == ContentTypeFormRequest && m.FormRequest != nil
}
