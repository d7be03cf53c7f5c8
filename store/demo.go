package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pathfinder/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DemoStore keeps trial data in memory. It mirrors the mongo layout closely
// enough for the dashboard to run against it.
type DemoStore struct {
	mu            sync.RWMutex
	organizations map[string]models.Organization
	subscriptions map[string]models.Subscription // by session id
	users         map[string][]models.User
	vehicles      map[string][]models.Vehicle
	announcements map[string][]models.Announcement
}

func NewDemoStore() *DemoStore {
	return &DemoStore{
		organizations: make(map[string]models.Organization),
		subscriptions: make(map[string]models.Subscription),
		users:         make(map[string][]models.User),
		vehicles:      make(map[string][]models.Vehicle),
		announcements: make(map[string][]models.Announcement),
	}
}

func (d *DemoStore) SaveOrder(ctx context.Context, order models.CompletedOrder) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	orgID := order.Organization.ID
	d.organizations[orgID] = order.Organization

	sub := order.Subscription
	if existing, ok := d.subscriptions[sub.SessionID]; ok {
		sub.ID = existing.ID
	} else {
		sub.ID = primitive.NewObjectID()
	}
	d.subscriptions[sub.SessionID] = sub

	for _, u := range order.Users {
		d.users[orgID] = upsertUser(d.users[orgID], u)
	}
	for _, v := range order.Vehicles {
		d.vehicles[orgID] = upsertVehicle(d.vehicles[orgID], v)
	}
	return nil
}

func upsertUser(users []models.User, u models.User) []models.User {
	for i := range users {
		if strings.EqualFold(users[i].Email, u.Email) {
			u.ID = users[i].ID
			users[i] = u
			return users
		}
	}
	u.ID = primitive.NewObjectID()
	return append(users, u)
}

func upsertVehicle(vehicles []models.Vehicle, v models.Vehicle) []models.Vehicle {
	for i := range vehicles {
		if vehicles[i].PlateNumber == v.PlateNumber {
			v.ID = vehicles[i].ID
			vehicles[i] = v
			return vehicles
		}
	}
	v.ID = primitive.NewObjectID()
	return append(vehicles, v)
}

// Subscription returns the subscription stored for a wizard session.
func (d *DemoStore) Subscription(sessionID string) (models.Subscription, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.subscriptions[sessionID]
	return s, ok
}

func (d *DemoStore) Users(organizationID string) []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.User(nil), d.users[organizationID]...)
}

func (d *DemoStore) Organization(organizationID string) (models.Organization, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	o, ok := d.organizations[organizationID]
	return o, ok
}

func (d *DemoStore) ListVehicles(ctx context.Context, organizationID string, page Page) ([]models.Vehicle, int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	all := d.vehicles[organizationID]
	start, end := page.window(len(all))
	return append([]models.Vehicle{}, all[start:end]...), int64(len(all)), nil
}

func (d *DemoStore) ListAnnouncements(ctx context.Context, organizationID, search string, page Page) ([]models.Announcement, int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	search = strings.ToLower(search)
	var matched []models.Announcement
	for _, a := range d.announcements[organizationID] {
		if search == "" || strings.Contains(strings.ToLower(a.Title), search) || strings.Contains(strings.ToLower(a.Body), search) {
			matched = append(matched, a)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	start, end := page.window(len(matched))
	return append([]models.Announcement{}, matched[start:end]...), int64(len(matched)), nil
}

func (d *DemoStore) InsertAnnouncement(ctx context.Context, a *models.Announcement) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	d.announcements[a.OrganizationID] = append(d.announcements[a.OrganizationID], *a)
	return nil
}

func (d *DemoStore) FindAnnouncement(ctx context.Context, organizationID string, id primitive.ObjectID) (models.Announcement, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, a := range d.announcements[organizationID] {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Announcement{}, ErrNotFound
}

func (d *DemoStore) DeleteAnnouncement(ctx context.Context, organizationID string, id primitive.ObjectID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.announcements[organizationID]
	for i, a := range list {
		if a.ID == id {
			d.announcements[organizationID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Prune drops every organization without activity since cutoff together
// with its records. Activity is the organization's last update or the newest
// record created under it, so records stored without a completed order are
// pruned too. It returns the number of organizations removed.
func (d *DemoStore) Prune(cutoff time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	last := make(map[string]time.Time)
	touch := func(id string, at time.Time) {
		if cur, ok := last[id]; !ok || at.After(cur) {
			last[id] = at
		}
	}
	for id, org := range d.organizations {
		touch(id, org.UpdatedAt)
	}
	for id, users := range d.users {
		touch(id, time.Time{})
		for _, u := range users {
			touch(id, u.CreatedAt)
		}
	}
	for id, vehicles := range d.vehicles {
		touch(id, time.Time{})
		for _, v := range vehicles {
			touch(id, v.CreatedAt)
		}
	}
	for id, announcements := range d.announcements {
		touch(id, time.Time{})
		for _, a := range announcements {
			touch(id, a.CreatedAt)
		}
	}

	removed := 0
	for id, at := range last {
		if at.Before(cutoff) {
			delete(d.organizations, id)
			delete(d.users, id)
			delete(d.vehicles, id)
			delete(d.announcements, id)
			removed++
		}
	}
	for sessionID, sub := range d.subscriptions {
		if _, ok := d.organizations[sub.OrganizationID]; !ok {
			delete(d.subscriptions, sessionID)
		}
	}
	return removed
}

// FindActiveWebUser treats every id the auth server verified as an active
// account with its own demo organization.
func (d *DemoStore) FindActiveWebUser(ctx context.Context, id string) (models.WebUser, error) {
	if id == "" {
		return models.WebUser{}, ErrNotFound
	}
	return models.WebUser{ID: id, Role: "admin", OrganizationID: "demo-" + id, IsActive: true}, nil
}
