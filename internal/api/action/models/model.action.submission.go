// Package models - model ActionSubmission thuộc domain action.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái của submission
const (
	SubmissionStatusSubmitted = "submitted"
)

// ActionSubmission là một bản ghi dữ liệu form đã điền.
// Quyền sở hữu: đúng một trong CreatorID (agent tự tạo) hoặc VisitorID
// (khách điền form được đẩy) phải khác nil, không bao giờ cả hai hoặc
// không cái nào. Mọi đường tạo submission đều phải qua SubmissionService,
// nơi ràng buộc này được kiểm tra trước khi ghi.
// FormRequestMessageID chỉ có khi submission đến từ một form request;
// khi có thì duy nhất trên toàn collection (partial unique index).
type ActionSubmission struct {
	ID                   primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	TemplateID           primitive.ObjectID     `json:"templateId" bson:"templateId"`
	ConversationID       primitive.ObjectID     `json:"conversationId" bson:"conversationId"`
	ProjectID            primitive.ObjectID     `json:"projectId" bson:"projectId"`
	Data                 map[string]interface{} `json:"data" bson:"data"`
	Status               string                 `json:"status" bson:"status"`
	CreatorID            *primitive.ObjectID    `json:"creatorId,omitempty" bson:"creatorId,omitempty"`
	VisitorID            *primitive.ObjectID    `json:"visitorId,omitempty" bson:"visitorId,omitempty"`
	FormRequestMessageID *primitive.ObjectID    `json:"formRequestMessageId,omitempty" bson:"formRequestMessageId,omitempty"`
	CreatedAt            int64                  `json:"createdAt" bson:"createdAt"`
	UpdatedAt            int64                  `json:"updatedAt" bson:"updatedAt"`
}

// ValidateOwnership kiểm tra ràng buộc "đúng một chủ sở hữu".
// Trả về false nếu cả hai cùng set hoặc cả hai cùng nil.
func (s *ActionSubmission) ValidateOwnership() bool {
	hasCreator := s.CreatorID != nil && !s.CreatorID.IsZero()
	hasVisitor := s.VisitorID != nil && !s.VisitorID.IsZero()
	return hasCreator != hasVisitor
}
