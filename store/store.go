package store

import (
	"context"
	"errors"
	"math"

	"pathfinder/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("not found")

// OrderStore persists completed onboarding orders. Saving the same order
// twice must not duplicate records so a failed completion can be retried.
type OrderStore interface {
	SaveOrder(ctx context.Context, order models.CompletedOrder) error
}

// WebUserStore resolves dashboard accounts by the id issued by the auth server.
type WebUserStore interface {
	FindActiveWebUser(ctx context.Context, id string) (models.WebUser, error)
}

type VehicleStore interface {
	ListVehicles(ctx context.Context, organizationID string, page Page) ([]models.Vehicle, int64, error)
}

type AnnouncementStore interface {
	ListAnnouncements(ctx context.Context, organizationID, search string, page Page) ([]models.Announcement, int64, error)
	InsertAnnouncement(ctx context.Context, a *models.Announcement) error
	FindAnnouncement(ctx context.Context, organizationID string, id primitive.ObjectID) (models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, organizationID string, id primitive.ObjectID) error
}

// Page is a 1-based page request.
type Page struct {
	Number int64
	Limit  int64
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NewPage clamps number and limit into the accepted range.
func NewPage(number, limit int64) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	// keep (number-1)*limit inside int64
	if maxNumber := math.MaxInt64 / limit; number > maxNumber {
		number = maxNumber
	}
	return Page{Number: number, Limit: limit}
}

// Skip is never negative, even for a Page built without NewPage.
func (p Page) Skip() int64 {
	if p.Number < 1 || p.Limit < 1 {
		return 0
	}
	if skip := (p.Number - 1) * p.Limit; skip >= 0 {
		return skip
	}
	return 0
}

// window returns the slice bounds of p over n items.
func (p Page) window(n int) (int, int) {
	skip := p.Skip()
	if skip > int64(n) {
		return n, n
	}
	start := int(skip)
	end := n
	if p.Limit > 0 && p.Limit < int64(n-start) {
		end = start + int(p.Limit)
	}
	return start, end
}
