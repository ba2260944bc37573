// Package models - model Project thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project là đơn vị tenant của hệ thống live-chat.
// Mọi action template, hội thoại và submission đều thuộc về đúng một project.
type Project struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Domain    string             `json:"domain,omitempty" bson:"domain,omitempty"`
	OwnerID   primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
