// Package models - model hội thoại (Conversation) thuộc domain chat.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái hội thoại
const (
	ConversationStatusOpen   = "open"
	ConversationStatusClosed = "closed"
)

// Conversation là một hội thoại live-chat giữa visitor và các agent của project.
// VisitorID là định danh do hệ thống cấp cho khách khi hội thoại được mở,
// không tham chiếu collection users.
type Conversation struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProjectID     primitive.ObjectID `json:"projectId" bson:"projectId"`
	VisitorID     primitive.ObjectID `json:"visitorId" bson:"visitorId"`
	VisitorName   string             `json:"visitorName,omitempty" bson:"visitorName,omitempty"`
	Status        string             `json:"status" bson:"status" default:"open"`
	LastMessageAt int64              `json:"lastMessageAt,omitempty" bson:"lastMessageAt,omitempty"`
	CreatedAt     int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt     int64              `json:"updatedAt" bson:"updatedAt"`
}
