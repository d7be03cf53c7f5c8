package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pathfinder/models"
	"pathfinder/order"
	"pathfinder/utils"

	"github.com/google/uuid"
)

var ErrIncompleteOrder = errors.New("order is incomplete")

const (
	SubscriptionActive = "active"
	SubscriptionTrial  = "trial"
	VehicleStatusIdle  = "idle"
	defaultMemberRole  = "driver"
)

// BuildCompletedOrder turns a finished session into the records persisted on
// completion, plus one invite per team member carrying the plain invite code.
func BuildCompletedOrder(s Session, now time.Time) (models.CompletedOrder, []utils.Invite, error) {
	cfg := s.Configuration.Normalize()
	if cfg.TrackingMethod == order.TrackingUnset {
		return models.CompletedOrder{}, nil, fmt.Errorf("%w: no tracking method selected", ErrIncompleteOrder)
	}
	orgName := strings.TrimSpace(s.Organization.Name)
	if orgName == "" {
		return models.CompletedOrder{}, nil, fmt.Errorf("%w: organization name is required", ErrIncompleteOrder)
	}

	display := order.Compute(cfg, s.Organization.ShareDataAnalytics).Display()

	status := SubscriptionActive
	if s.Demo {
		status = SubscriptionTrial
	}

	sub := models.Subscription{
		SessionID:           s.ID,
		OrganizationID:      s.OrganizationID,
		TrackingType:        string(cfg.TrackingMethod),
		CountingType:        string(cfg.CountingTechnology),
		MobileAppEnabled:    cfg.MobileAppEnabled,
		AnnouncementEnabled: cfg.AnnouncementEnabled,
		NotificationEnabled: cfg.NotificationEnabled,
		FeedbackEnabled:     cfg.FeedbackEnabled,
		CountingEnabled:     cfg.CountingEnabled,
		HardwareDevices:     []models.HardwareDevice{},
		DiscountPercent:     display.DiscountPercent,
		MonthlyTotal:        display.MonthlyTotal,
		HardwareTotal:       display.HardwareTotal,
		Status:              status,
		CreatedAt:           now,
	}
	if option, ok := cfg.Hardware(); ok {
		sub.HardwareDevices = append(sub.HardwareDevices, models.HardwareDevice{
			Type:     string(option.Technology),
			Quantity: cfg.HardwareQuantity,
			Model:    option.Name,
		})
	}

	out := models.CompletedOrder{
		Organization: models.Organization{
			ID:                 s.OrganizationID,
			Name:               orgName,
			ContactEmail:       s.Organization.ContactEmail,
			Phone:              s.Organization.Phone,
			ShareDataAnalytics: s.Organization.ShareDataAnalytics,
			UpdatedAt:          now,
		},
		Subscription: sub,
	}

	var invites []utils.Invite
	seen := make(map[string]bool)
	for _, member := range s.TeamMembers {
		email := strings.ToLower(strings.TrimSpace(member.Email))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true

		code := inviteCode()
		hash, err := utils.HashPassword(code)
		if err != nil {
			return models.CompletedOrder{}, nil, fmt.Errorf("hash invite code: %w", err)
		}
		role := member.Role
		if role == "" {
			role = defaultMemberRole
		}
		out.Users = append(out.Users, models.User{
			OrganizationID: s.OrganizationID,
			Name:           member.Name,
			Email:          email,
			Role:           role,
			InviteCodeHash: hash,
			CreatedAt:      now,
		})
		invites = append(invites, utils.Invite{
			Name:             member.Name,
			Email:            email,
			OrganizationName: orgName,
			Code:             code,
		})
	}

	plates := make(map[string]bool)
	for _, v := range s.Vehicles {
		plate := strings.ToUpper(strings.TrimSpace(v.PlateNumber))
		if plate == "" || plates[plate] {
			continue
		}
		plates[plate] = true
		out.Vehicles = append(out.Vehicles, models.Vehicle{
			OrganizationID: s.OrganizationID,
			Name:           v.Name,
			PlateNumber:    plate,
			Capacity:       v.Capacity,
			Status:         VehicleStatusIdle,
			CreatedAt:      now,
		})
	}
	return out, invites, nil
}

func inviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
