package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HardwareDevice struct {
	Type     string `bson:"type" json:"type"`
	Quantity int    `bson:"quantity" json:"quantity"`
	Model    string `bson:"model" json:"model"`
}

// Subscription is the persisted result of a completed onboarding order.
// Totals are stored as display strings rounded to cents.
type Subscription struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID           string             `bson:"session_id" json:"session_id"`
	OrganizationID      string             `bson:"organization_id" json:"organization_id"`
	TrackingType        string             `bson:"tracking_type" json:"tracking_type"`
	CountingType        string             `bson:"counting_type" json:"counting_type"`
	MobileAppEnabled    bool               `bson:"mobile_app_enabled" json:"mobile_app_enabled"`
	AnnouncementEnabled bool               `bson:"announcement_enabled" json:"announcement_enabled"`
	NotificationEnabled bool               `bson:"notification_enabled" json:"notification_enabled"`
	FeedbackEnabled     bool               `bson:"feedback_enabled" json:"feedback_enabled"`
	CountingEnabled     bool               `bson:"counting_enabled" json:"counting_enabled"`
	HardwareDevices     []HardwareDevice   `bson:"hardware_devices" json:"hardware_devices"`
	DiscountPercent     int64              `bson:"discount_percent" json:"discount_percent"`
	MonthlyTotal        string             `bson:"monthly_total" json:"monthly_total"`
	HardwareTotal       string             `bson:"hardware_total" json:"hardware_total"`
	Status              string             `bson:"status" json:"status"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
}

// CompletedOrder is everything written when the wizard finishes.
type CompletedOrder struct {
	Organization Organization `json:"organization"`
	Subscription Subscription `json:"subscription"`
	Users        []User       `json:"users"`
	Vehicles     []Vehicle    `json:"vehicles"`
}
