package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WebUser is a dashboard account. The id is the one issued by the auth server.
type WebUser struct {
	ID             string `bson:"_id" json:"id"`
	Email          string `bson:"email" json:"email"`
	Role           string `bson:"role" json:"role"`
	OrganizationID string `bson:"organization_id" json:"organization_id"`
	IsActive       bool   `bson:"is_active" json:"-"`
}

// TeamMember is entered on the team step of the wizard.
type TeamMember struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

// User is a team member invited through the wizard. It stays pending
// (IsActive false) until the invite code is redeemed; retrying a failed
// completion issues a fresh code and replaces InviteCodeHash.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrganizationID string             `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Role           string             `bson:"role" json:"role"`
	InviteCodeHash string             `bson:"invite_code_hash,omitempty" json:"-"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
