package store

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"pathfinder/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Limit: DefaultPageLimit}, NewPage(0, 0))
	assert.Equal(t, Page{Number: 3, Limit: 10}, NewPage(3, 10))
	assert.Equal(t, Page{Number: 1, Limit: MaxPageLimit}, NewPage(-2, 5000))
	assert.Equal(t, int64(20), NewPage(3, 10).Skip())
}

func TestPageWindow(t *testing.T) {
	start, end := NewPage(2, 10).window(15)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)

	start, end = NewPage(5, 10).window(15)
	assert.Equal(t, 15, start)
	assert.Equal(t, 15, end)
}

func TestHugePageStaysInRange(t *testing.T) {
	p := NewPage(math.MaxInt64, MaxPageLimit)
	assert.GreaterOrEqual(t, p.Skip(), int64(0))

	start, end := p.window(15)
	assert.Equal(t, 15, start)
	assert.Equal(t, 15, end)

	// built without NewPage the product wraps past int64
	raw := Page{Number: math.MaxInt64/MaxPageLimit + 2, Limit: MaxPageLimit}
	assert.Equal(t, int64(0), raw.Skip())
	start, end = raw.window(3)
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)

	d := NewDemoStore()
	require.NoError(t, d.InsertAnnouncement(context.Background(), &models.Announcement{OrganizationID: "org-1", Title: "Only"}))
	list, total, err := d.ListAnnouncements(context.Background(), "org-1", "", p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Empty(t, list)
}

func sampleOrder(orgID, sessionID string) models.CompletedOrder {
	return models.CompletedOrder{
		Organization: models.Organization{ID: orgID, Name: "Blue Line", UpdatedAt: time.Now()},
		Subscription: models.Subscription{SessionID: sessionID, OrganizationID: orgID, TrackingType: "hardware", MonthlyTotal: "107.97"},
		Users: []models.User{
			{OrganizationID: orgID, Name: "Ana", Email: "ana@example.com"},
			{OrganizationID: orgID, Name: "Ben", Email: "ben@example.com"},
		},
		Vehicles: []models.Vehicle{{OrganizationID: orgID, Name: "Bus 1", PlateNumber: "AB-123"}},
	}
}

func TestDemoStoreSaveOrderIsIdempotent(t *testing.T) {
	ctx := context.Background()
	d := NewDemoStore()
	order := sampleOrder("org-1", "session-1")

	require.NoError(t, d.SaveOrder(ctx, order))
	first, ok := d.Subscription("session-1")
	require.True(t, ok)

	order.Users[0].Email = "ANA@example.com"
	order.Subscription.MonthlyTotal = "99.00"
	require.NoError(t, d.SaveOrder(ctx, order))

	second, ok := d.Subscription("session-1")
	require.True(t, ok)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "99.00", second.MonthlyTotal)
	assert.Len(t, d.Users("org-1"), 2)

	vehicles, total, err := d.ListVehicles(ctx, "org-1", NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, vehicles, 1)
	assert.False(t, vehicles[0].ID.IsZero())

	org, ok := d.Organization("org-1")
	require.True(t, ok)
	assert.Equal(t, "Blue Line", org.Name)
}

func TestDemoStoreAnnouncements(t *testing.T) {
	ctx := context.Background()
	d := NewDemoStore()
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		a := &models.Announcement{
			OrganizationID: "org-1",
			Title:          fmt.Sprintf("Route change %d", i),
			Body:           "Line 4 detour",
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, d.InsertAnnouncement(ctx, a))
		assert.False(t, a.ID.IsZero())
	}
	require.NoError(t, d.InsertAnnouncement(ctx, &models.Announcement{OrganizationID: "org-2", Title: "Other"}))

	list, total, err := d.ListAnnouncements(ctx, "org-1", "", NewPage(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, list, 2)
	assert.Equal(t, "Route change 4", list[0].Title)
	assert.Equal(t, "Route change 3", list[1].Title)

	list, total, err = d.ListAnnouncements(ctx, "org-1", "change 2", NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)

	found, err := d.FindAnnouncement(ctx, "org-1", list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Route change 2", found.Title)

	_, err = d.FindAnnouncement(ctx, "org-2", list[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, d.DeleteAnnouncement(ctx, "org-1", list[0].ID))
	assert.ErrorIs(t, d.DeleteAnnouncement(ctx, "org-1", list[0].ID), ErrNotFound)
	assert.ErrorIs(t, d.DeleteAnnouncement(ctx, "org-1", primitive.NewObjectID()), ErrNotFound)
}

func TestDemoStorePrune(t *testing.T) {
	ctx := context.Background()
	d := NewDemoStore()

	old := sampleOrder("org-old", "session-old")
	old.Organization.UpdatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, d.SaveOrder(ctx, old))
	require.NoError(t, d.SaveOrder(ctx, sampleOrder("org-new", "session-new")))

	stale := sampleOrder("org-busy", "session-busy")
	stale.Organization.UpdatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, d.SaveOrder(ctx, stale))
	require.NoError(t, d.InsertAnnouncement(ctx, &models.Announcement{OrganizationID: "org-busy", Title: "Still here", CreatedAt: time.Now()}))

	// announcements posted before the wizard was ever completed
	require.NoError(t, d.InsertAnnouncement(ctx, &models.Announcement{OrganizationID: "demo-stale", Title: "Old", CreatedAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, d.InsertAnnouncement(ctx, &models.Announcement{OrganizationID: "demo-fresh", Title: "New", CreatedAt: time.Now()}))

	assert.Equal(t, 2, d.Prune(time.Now().Add(-24*time.Hour)))

	_, ok := d.Subscription("session-old")
	assert.False(t, ok)
	assert.Empty(t, d.Users("org-old"))
	_, ok = d.Subscription("session-new")
	assert.True(t, ok)
	_, ok = d.Subscription("session-busy")
	assert.True(t, ok)

	list, total, err := d.ListAnnouncements(ctx, "demo-stale", "", NewPage(1, 10))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
	_, total, err = d.ListAnnouncements(ctx, "demo-fresh", "", NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
