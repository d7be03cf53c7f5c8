package controllers

import (
	"errors"
	"net/http"
	"time"

	"pathfinder/middleware"
	"pathfinder/models"
	"pathfinder/order"
	"pathfinder/store"
	"pathfinder/utils"
	"pathfinder/wizard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Onboarding serves the wizard session endpoints.
type Onboarding struct {
	Sessions   *wizard.Manager
	Orders     store.OrderStore
	DemoOrders store.OrderStore
	Mailer     utils.Mailer
	DemoMode   bool
	TokenTTL   time.Duration
	// MaxDemoSessions caps anonymous sessions held at once; zero means no cap.
	MaxDemoSessions int
	Now             func() time.Time
}

type sessionResponse struct {
	Session         wizard.Session         `json:"session"`
	Totals          order.DisplayTotals    `json:"totals"`
	HardwareOptions []order.HardwareOption `json:"hardware_options"`
}

func newSessionResponse(s wizard.Session) sessionResponse {
	options := order.HardwareOptions(s.Configuration.CountingTechnology)
	if options == nil {
		options = []order.HardwareOption{}
	}
	return sessionResponse{
		Session:         s,
		Totals:          s.Totals().Display(),
		HardwareOptions: options,
	}
}

func (o *Onboarding) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Onboarding) isDemoMode(s wizard.Session) bool {
	return s.Demo || o.DemoMode
}

// session loads the :id session and checks it belongs to the caller.
// Sessions of other owners are reported as missing.
func (o *Onboarding) session(c *gin.Context) (wizard.Session, bool) {
	s, err := o.Sessions.Get(c.Param("id"))
	if err != nil || s.OwnerID != c.GetString(middleware.OwnerIDKey) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return wizard.Session{}, false
	}
	return s, true
}

func (o *Onboarding) writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, wizard.ErrSessionCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Session already completed"})
	case errors.Is(err, order.ErrRejectedTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrUnknownOption), errors.Is(err, wizard.ErrIncompleteOrder),
		errors.Is(err, wizard.ErrInvalidSnapshot):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		utils.Log.Error("wizard session error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// CreateSession starts a wizard session for the authenticated user.
func (o *Onboarding) CreateSession(c *gin.Context) {
	user, ok := middleware.CurrentWebUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	organizationID := user.OrganizationID
	if organizationID == "" {
		organizationID = user.ID
	}

	s := o.Sessions.Create(user.ID, organizationID, false)
	middleware.ActiveSessions.Set(float64(o.Sessions.Len()))
	c.JSON(http.StatusCreated, newSessionResponse(s))
}

// CreateDemoSession starts an anonymous trial session and returns the token
// that authorizes the /demo/sessions/:id routes.
func (o *Onboarding) CreateDemoSession(c *gin.Context) {
	if o.demoLimitReached() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many demo sessions, try again later"})
		return
	}
	s := o.Sessions.Create("", "", true)
	token, err := utils.GenerateToken(s.ID, utils.DemoRole, o.TokenTTL)
	if err != nil {
		utils.Log.Error("failed to sign demo token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create demo session"})
		return
	}
	middleware.ActiveSessions.Set(float64(o.Sessions.Len()))

	c.JSON(http.StatusCreated, gin.H{
		"token":      token,
		"expires_in": int64(o.TokenTTL.Seconds()),
		"session":    newSessionResponse(s),
	})
}

func (o *Onboarding) demoLimitReached() bool {
	if o.MaxDemoSessions <= 0 || o.Sessions.CountDemo() < o.MaxDemoSessions {
		return false
	}
	// idle sessions may be holding the slots
	o.Sessions.Sweep()
	return o.Sessions.CountDemo() >= o.MaxDemoSessions
}

// ListSessions returns the caller's open and completed sessions.
func (o *Onboarding) ListSessions(c *gin.Context) {
	sessions := o.Sessions.OwnedBy(c.GetString(middleware.OwnerIDKey))
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, newSessionResponse(s))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (o *Onboarding) GetSession(c *gin.Context) {
	s, ok := o.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

// ApplyAction runs one configuration action. Rejected transitions answer 409
// with the unchanged session so the client can resync.
func (o *Onboarding) ApplyAction(c *gin.Context) {
	if _, ok := o.session(c); !ok {
		return
	}

	var action order.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	s, err := o.Sessions.Apply(c.Param("id"), action)
	if err != nil {
		result := "error"
		if errors.Is(err, order.ErrRejectedTransition) {
			result = "rejected"
		}
		middleware.WizardTransitions.WithLabelValues(string(action.Type), result).Inc()

		if errors.Is(err, order.ErrRejectedTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "session": newSessionResponse(s)})
			return
		}
		o.writeSessionError(c, err)
		return
	}

	middleware.WizardTransitions.WithLabelValues(string(action.Type), "ok").Inc()
	c.JSON(http.StatusOK, newSessionResponse(s))
}

type detailsRequest struct {
	Organization wizard.OrganizationDetails `json:"organization" binding:"required"`
	TeamMembers  []models.TeamMember        `json:"team_members" binding:"dive"`
	Vehicles     []models.VehicleInput      `json:"vehicles" binding:"dive"`
}

func (o *Onboarding) UpdateDetails(c *gin.Context) {
	if _, ok := o.session(c); !ok {
		return
	}

	var req detailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := o.Sessions.UpdateDetails(c.Param("id"), req.Organization, req.TeamMembers, req.Vehicles)
	if err != nil {
		o.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

func (o *Onboarding) GetSummary(c *gin.Context) {
	s, ok := o.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"configuration": s.Configuration,
		"organization":  s.Organization,
		"team_members":  s.TeamMembers,
		"vehicles":      s.Vehicles,
		"line_items":    order.LineItems(s.Configuration),
		"totals":        s.Totals().Display(),
	})
}

func (o *Onboarding) ResetSession(c *gin.Context) {
	if _, ok := o.session(c); !ok {
		return
	}
	s, err := o.Sessions.Reset(c.Param("id"))
	if err != nil {
		o.writeSessionError(c, err)
		return
	}
	middleware.WizardTransitions.WithLabelValues(string(order.ActionReset), "ok").Inc()
	c.JSON(http.StatusOK, newSessionResponse(s))
}

// GetSnapshot returns the session configuration in its cached form.
func (o *Onboarding) GetSnapshot(c *gin.Context) {
	if _, ok := o.session(c); !ok {
		return
	}
	data, err := o.Sessions.Snapshot(c.Param("id"))
	if err != nil {
		o.writeSessionError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// RestoreSnapshot loads a configuration produced by GetSnapshot into the session.
func (o *Onboarding) RestoreSnapshot(c *gin.Context) {
	if _, ok := o.session(c); !ok {
		return
	}
	data, err := c.GetRawData()
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}
	s, err := o.Sessions.Restore(c.Param("id"), data)
	if err != nil {
		o.writeSessionError(c, err)
		return
	}
	middleware.WizardTransitions.WithLabelValues("restore", "ok").Inc()
	c.JSON(http.StatusOK, newSessionResponse(s))
}

// CompleteSession persists the order. A store failure answers 502 and leaves
// the session open for a retry; invitations go out only after a successful save.
func (o *Onboarding) CompleteSession(c *gin.Context) {
	current, ok := o.session(c)
	if !ok {
		return
	}

	orders := o.Orders
	mode := "live"
	if o.isDemoMode(current) {
		orders = o.DemoOrders
		mode = "demo"
	}

	var (
		completed models.CompletedOrder
		invites   []utils.Invite
		buildErr  error
	)
	s, err := o.Sessions.Complete(current.ID, func(s wizard.Session) error {
		completed, invites, buildErr = wizard.BuildCompletedOrder(s, o.now())
		if buildErr != nil {
			return buildErr
		}
		return orders.SaveOrder(c.Request.Context(), completed)
	})
	if err != nil {
		if buildErr != nil || errors.Is(err, wizard.ErrSessionCompleted) || errors.Is(err, wizard.ErrSessionNotFound) {
			o.writeSessionError(c, err)
			return
		}
		utils.Log.Error("failed to save order",
			zap.String("session_id", current.ID),
			zap.String("mode", mode),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save order, please retry"})
		return
	}
	middleware.OrdersCompleted.WithLabelValues(mode).Inc()

	sent := 0
	for _, invite := range invites {
		if err := o.Mailer.SendInvite(invite); err != nil {
			utils.Log.Warn("failed to send invite", zap.String("email", invite.Email), zap.Error(err))
			continue
		}
		sent++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Order completed successfully",
		"session":      newSessionResponse(s),
		"subscription": completed.Subscription,
		"invites_sent": sent,
	})
}
