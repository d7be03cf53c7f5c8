package wizard

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"pathfinder/models"
	"pathfinder/order"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
	ErrInvalidSnapshot  = errors.New("invalid configuration snapshot")
)

// OrganizationDetails is what the organization step of the wizard collects.
type OrganizationDetails struct {
	Name               string `json:"name" binding:"required"`
	ContactEmail       string `json:"contact_email" binding:"omitempty,email"`
	Phone              string `json:"phone"`
	ShareDataAnalytics bool   `json:"share_data_analytics"`
}

// Session is one pass through the onboarding wizard. Values returned by the
// Manager are snapshots; changing them has no effect on the stored session.
type Session struct {
	ID             string                `json:"id"`
	OwnerID        string                `json:"owner_id"`
	OrganizationID string                `json:"organization_id"`
	Demo           bool                  `json:"demo"`
	Configuration  order.Configuration   `json:"configuration"`
	Organization   OrganizationDetails   `json:"organization"`
	TeamMembers    []models.TeamMember   `json:"team_members"`
	Vehicles       []models.VehicleInput `json:"vehicles"`
	Completed      bool                  `json:"completed"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func (s Session) clone() Session {
	s.TeamMembers = append([]models.TeamMember(nil), s.TeamMembers...)
	s.Vehicles = append([]models.VehicleInput(nil), s.Vehicles...)
	return s
}

// Totals prices the session configuration with the organization's discount flag.
func (s Session) Totals() order.Totals {
	return order.Compute(s.Configuration, s.Organization.ShareDataAnalytics)
}

type entry struct {
	mu      sync.Mutex
	demo    bool // fixed at create, read without mu
	session Session
}

// Manager keeps wizard sessions in memory. Every session has its own lock so a
// cascading transition is never observed half applied.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session for owner within organizationID. Demo sessions
// without an owner are owned by themselves and get a throwaway organization.
func (m *Manager) Create(ownerID, organizationID string, demo bool) Session {
	now := m.now()
	id := uuid.NewString()
	if ownerID == "" {
		ownerID = id
	}
	if organizationID == "" {
		organizationID = "demo-" + id
	}

	s := Session{
		ID:             id,
		OwnerID:        ownerID,
		OrganizationID: organizationID,
		Demo:           demo,
		Configuration:  order.DefaultConfiguration(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	m.mu.Lock()
	m.sessions[id] = &entry{demo: demo, session: s}
	m.mu.Unlock()
	return s.clone()
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (m *Manager) Get(id string) (Session, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Session{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.clone(), nil
}

// update runs fn under the session lock. fn's changes are kept only when it
// returns nil.
func (m *Manager) update(id string, fn func(s *Session) error) (Session, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Session{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Completed {
		return e.session.clone(), ErrSessionCompleted
	}
	next := e.session.clone()
	if err := fn(&next); err != nil {
		return e.session.clone(), err
	}
	next.UpdatedAt = m.now()
	e.session = next
	return next.clone(), nil
}

// Apply runs a configuration action. A rejected action leaves the session as
// it was and returns it along with the error.
func (m *Manager) Apply(id string, action order.Action) (Session, error) {
	return m.update(id, func(s *Session) error {
		c, err := order.Apply(s.Configuration, action)
		if err != nil {
			return err
		}
		s.Configuration = c
		return nil
	})
}

func (m *Manager) Reset(id string) (Session, error) {
	return m.update(id, func(s *Session) error {
		s.Configuration = s.Configuration.Reset()
		return nil
	})
}

func (m *Manager) UpdateDetails(id string, org OrganizationDetails, team []models.TeamMember, vehicles []models.VehicleInput) (Session, error) {
	return m.update(id, func(s *Session) error {
		s.Organization = org
		s.TeamMembers = append([]models.TeamMember(nil), team...)
		s.Vehicles = append([]models.VehicleInput(nil), vehicles...)
		return nil
	})
}

// Complete hands the session to persist while holding its lock and marks it
// completed once persist succeeds. On error the session is left untouched so
// the caller may retry.
func (m *Manager) Complete(id string, persist func(Session) error) (Session, error) {
	return m.update(id, func(s *Session) error {
		if err := persist(s.clone()); err != nil {
			return err
		}
		s.Completed = true
		return nil
	})
}

// Snapshot encodes the session configuration so a client can resume it later
// in another session.
func (m *Manager) Snapshot(id string) ([]byte, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return order.Marshal(s.Configuration)
}

// Restore replaces the session configuration with a decoded snapshot.
// Selections the snapshot holds that no longer fit together are repaired.
func (m *Manager) Restore(id string, snapshot []byte) (Session, error) {
	c, err := order.Unmarshal(snapshot)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return m.update(id, func(s *Session) error {
		s.Configuration = c
		return nil
	})
}

// Sweep drops sessions idle for longer than the manager's TTL and returns how
// many were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.sessions {
		// a locked session is in use
		if !e.mu.TryLock() {
			continue
		}
		idle := e.session.UpdatedAt.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CountDemo returns how many demo sessions are held.
func (m *Manager) CountDemo() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.sessions {
		if e.demo {
			n++
		}
	}
	return n
}

// OwnedBy lists the sessions of ownerID, newest first.
func (m *Manager) OwnedBy(ownerID string) []Session {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	var out []Session
	for _, e := range entries {
		e.mu.Lock()
		if e.session.OwnerID == ownerID {
			out = append(out, e.session.clone())
		}
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
