package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleInput is a vehicle entered on the fleet step of the wizard.
type VehicleInput struct {
	Name        string `json:"name" binding:"required"`
	PlateNumber string `json:"plate_number" binding:"required"`
	Capacity    int    `json:"capacity" binding:"gte=0"`
}

type Vehicle struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrganizationID string             `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	PlateNumber    string             `bson:"plate_number" json:"plate_number"`
	Capacity       int                `bson:"capacity" json:"capacity"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
