// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User định nghĩa mô hình người dùng (agent hoặc manager của một project).
// Việc xác thực (đăng nhập, cấp token) do hệ thống auth bên ngoài đảm nhiệm,
// service này chỉ lưu hồ sơ để phân quyền theo project.
type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	AvatarURL string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	Token     string             `json:"-" bson:"token,omitempty"`
	IsBlock   bool               `json:"-" bson:"isBlock"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
