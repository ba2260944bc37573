// Package models - model ActionTemplate thuộc domain action.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActionTemplate là mẫu form động do manager của project định nghĩa.
// Seq là số thứ tự tăng dần theo từng project (cấp bởi counter),
// dùng làm định danh thân thiện trên API thay cho ObjectID.
// DeletedAt = 0 nghĩa là template còn sống (soft delete, không bao giờ xóa cứng).
type ActionTemplate struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Seq         int64              `json:"seq" bson:"seq"`
	ProjectID   primitive.ObjectID `json:"projectId" bson:"projectId"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Definition  Definition         `json:"definition" bson:"definition"`
	IsEnabled   bool               `json:"isEnabled" bson:"isEnabled"`
	DeletedAt   int64              `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsDeleted kiểm tra template đã bị soft delete hay chưa
func (t *ActionTemplate) IsDeleted() bool {
	return t.DeletedAt > 0
}
