package models

import "time"

type Organization struct {
	ID                 string    `bson:"_id" json:"id"`
	Name               string    `bson:"name" json:"name" binding:"required"`
	ContactEmail       string    `bson:"contact_email" json:"contact_email"`
	Phone              string    `bson:"phone" json:"phone"`
	ShareDataAnalytics bool      `bson:"share_data_analytics" json:"share_data_analytics"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}
