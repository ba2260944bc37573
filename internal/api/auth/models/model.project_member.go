// Package models - ProjectMember thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các vai trò của thành viên trong một project.
const (
	RoleManager = "manager" // Được quản lý template và mọi quyền của agent
	RoleAgent   = "agent"   // Được tham gia hội thoại, gửi form request
)

// ProjectMember gán một user vào một project với vai trò cụ thể.
// Cặp (projectId, userId) là duy nhất, đảm bảo bằng unique index.
type ProjectMember struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProjectID primitive.ObjectID `json:"projectId" bson:"projectId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Role      string             `json:"role" bson:"role" validate:"required,oneof=manager agent"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
