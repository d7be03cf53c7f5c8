package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Announcement struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrganizationID string             `bson:"organization_id" json:"organization_id"`
	Title          string             `bson:"title" json:"title"`
	Body           string             `bson:"body" json:"body"`
	ImageURL       string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	PreviewURL     string             `bson:"preview_url,omitempty" json:"preview_url,omitempty"`
	CreatedBy      string             `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
