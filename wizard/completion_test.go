package wizard

import (
	"testing"
	"time"

	"pathfinder/models"
	"pathfinder/order"
	"pathfinder/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSession(t *testing.T) Session {
	t.Helper()
	c := order.DefaultConfiguration()
	for _, a := range []order.Action{
		{Type: order.ActionSetTrackingMethod, Value: "hardware"},
		{Type: order.ActionSetCountingTechnology, Value: "AI Camera"},
		{Type: order.ActionSetFeatureToggle, Value: "mobile_app", Enabled: true},
		{Type: order.ActionSetSelectedHardware, Value: "ai-camera-basic"},
		{Type: order.ActionSetHardwareQuantity, Quantity: 2},
	} {
		var err error
		c, err = order.Apply(c, a)
		require.NoError(t, err)
	}
	return Session{
		ID:             "session-1",
		OwnerID:        "user-1",
		OrganizationID: "org-1",
		Configuration:  c,
		Organization:   OrganizationDetails{Name: " Blue Line ", ShareDataAnalytics: true},
		TeamMembers: []models.TeamMember{
			{Name: "Ana", Email: "Ana@Example.com", Role: "dispatcher"},
			{Name: "Ana again", Email: "ana@example.com"},
			{Name: "Ben", Email: "ben@example.com"},
		},
		Vehicles: []models.VehicleInput{
			{Name: "Bus 1", PlateNumber: "ab-123", Capacity: 40},
			{Name: "Bus 1 dup", PlateNumber: "AB-123", Capacity: 40},
		},
	}
}

func TestBuildCompletedOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out, invites, err := BuildCompletedOrder(completedSession(t), now)
	require.NoError(t, err)

	assert.Equal(t, "org-1", out.Organization.ID)
	assert.Equal(t, "Blue Line", out.Organization.Name)
	assert.True(t, out.Organization.ShareDataAnalytics)

	sub := out.Subscription
	assert.Equal(t, "session-1", sub.SessionID)
	assert.Equal(t, "hardware", sub.TrackingType)
	assert.Equal(t, "ai_camera", sub.CountingType)
	assert.True(t, sub.MobileAppEnabled)
	assert.True(t, sub.CountingEnabled)
	assert.Equal(t, "107.97", sub.MonthlyTotal)
	assert.Equal(t, "299.98", sub.HardwareTotal)
	assert.Equal(t, int64(10), sub.DiscountPercent)
	assert.Equal(t, SubscriptionActive, sub.Status)
	require.Len(t, sub.HardwareDevices, 1)
	assert.Equal(t, models.HardwareDevice{Type: "ai_camera", Quantity: 2, Model: "AI Camera Basic"}, sub.HardwareDevices[0])

	require.Len(t, out.Users, 2)
	assert.Equal(t, "ana@example.com", out.Users[0].Email)
	assert.Equal(t, "dispatcher", out.Users[0].Role)
	assert.Equal(t, defaultMemberRole, out.Users[1].Role)
	for _, u := range out.Users {
		assert.False(t, u.IsActive, "invited members stay pending")
	}

	require.Len(t, invites, 2)
	for i, invite := range invites {
		assert.Equal(t, "Blue Line", invite.OrganizationName)
		assert.Len(t, invite.Code, 10)
		assert.NoError(t, utils.VerifyPassword(out.Users[i].InviteCodeHash, invite.Code))
	}

	require.Len(t, out.Vehicles, 1)
	assert.Equal(t, "AB-123", out.Vehicles[0].PlateNumber)
	assert.Equal(t, VehicleStatusIdle, out.Vehicles[0].Status)
}

func TestBuildCompletedOrderDropsStaleHardware(t *testing.T) {
	s := completedSession(t)
	s.Configuration.SelectedHardware = "sensor-ir"
	s.Demo = true

	out, _, err := BuildCompletedOrder(s, time.Now())
	require.NoError(t, err)
	assert.Empty(t, out.Subscription.HardwareDevices)
	assert.Equal(t, "0.00", out.Subscription.HardwareTotal)
	assert.Equal(t, SubscriptionTrial, out.Subscription.Status)
}

func TestBuildCompletedOrderValidation(t *testing.T) {
	s := completedSession(t)
	s.Configuration = order.DefaultConfiguration()
	_, _, err := BuildCompletedOrder(s, time.Now())
	assert.ErrorIs(t, err, ErrIncompleteOrder)

	s = completedSession(t)
	s.Organization.Name = "  "
	_, _, err = BuildCompletedOrder(s, time.Now())
	assert.ErrorIs(t, err, ErrIncompleteOrder)
}
