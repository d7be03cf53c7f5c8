package order

import (
	"errors"
	"fmt"
)

var (
	// ErrRejectedTransition means the mutation would break a configuration
	// invariant. The configuration returned alongside it is the prior one.
	ErrRejectedTransition = errors.New("rejected transition")
	ErrUnknownOption      = errors.New("unknown option")
)

// Configuration is the selection state of the onboarding wizard.
type Configuration struct {
	TrackingMethod      TrackingMethod     `json:"tracking_type" bson:"tracking_type"`
	CountingTechnology  CountingTechnology `json:"counting_type" bson:"counting_type"`
	CountingEnabled     bool               `json:"counting_enabled" bson:"counting_enabled"`
	SelectedHardware    string             `json:"selected_hardware,omitempty" bson:"selected_hardware,omitempty"`
	HardwareQuantity    int                `json:"hardware_quantity" bson:"hardware_quantity"`
	MobileAppEnabled    bool               `json:"mobile_app_enabled" bson:"mobile_app_enabled"`
	AnnouncementEnabled bool               `json:"announcement_enabled" bson:"announcement_enabled"`
	NotificationEnabled bool               `json:"notification_enabled" bson:"notification_enabled"`
	FeedbackEnabled     bool               `json:"feedback_enabled" bson:"feedback_enabled"`
	HybridAcknowledged  bool               `json:"hybrid_acknowledged" bson:"hybrid_acknowledged"`
}

// DefaultConfiguration is the state of a freshly entered wizard.
func DefaultConfiguration() Configuration {
	return Configuration{HardwareQuantity: 1}
}

// Reset returns the default configuration regardless of c.
func (c Configuration) Reset() Configuration {
	return DefaultConfiguration()
}

func (c Configuration) clearHardware() Configuration {
	c.SelectedHardware = ""
	c.HardwareQuantity = 1
	return c
}

// SetTrackingMethod selects the tracking method and resets everything that
// depends on it. Announcement, notification and feedback toggles survive.
func (c Configuration) SetTrackingMethod(method TrackingMethod) (Configuration, error) {
	switch method {
	case TrackingUnset, TrackingSoftware, TrackingHardware:
	default:
		return c, fmt.Errorf("%w: tracking method %q", ErrUnknownOption, method)
	}
	c.TrackingMethod = method
	c.CountingTechnology = CountingNone
	c.CountingEnabled = false
	c.HybridAcknowledged = false
	c.MobileAppEnabled = method == TrackingSoftware
	return c.clearHardware(), nil
}

// allowsTechnology reports whether tech may be selected in c.
func (c Configuration) allowsTechnology(tech CountingTechnology) bool {
	if tech == CountingNone {
		return true
	}
	switch c.TrackingMethod {
	case TrackingUnset:
		return false
	case TrackingSoftware:
		return tech == CountingQRCode || c.HybridAcknowledged
	}
	return true
}

// SetCountingTechnology selects tech and clears the hardware selection.
// Under software tracking only QR code is allowed until hybrid mode has been
// acknowledged.
func (c Configuration) SetCountingTechnology(tech CountingTechnology) (Configuration, error) {
	if tech != CountingNone && tech.Label() == "" {
		return c, fmt.Errorf("%w: counting technology %q", ErrUnknownOption, tech)
	}
	if !c.allowsTechnology(tech) {
		return c, fmt.Errorf("%w: %s counting with %q tracking", ErrRejectedTransition, tech.Label(), c.TrackingMethod)
	}
	c.CountingTechnology = tech
	c.CountingEnabled = tech != CountingNone
	return c.clearHardware(), nil
}

// SetCountingEnabled turns the counting step on or off. Turning it off drops
// the chosen technology and hardware.
func (c Configuration) SetCountingEnabled(enabled bool) (Configuration, error) {
	c.CountingEnabled = enabled
	if !enabled {
		c.CountingTechnology = CountingNone
		c = c.clearHardware()
	}
	return c, nil
}

// SetHybridAcknowledged toggles hybrid mode. Withdrawing the acknowledgment
// under software tracking drops any non-QR technology it had unlocked.
func (c Configuration) SetHybridAcknowledged(ack bool) (Configuration, error) {
	c.HybridAcknowledged = ack
	if !ack && !c.allowsTechnology(c.CountingTechnology) {
		c.CountingTechnology = CountingNone
		c.CountingEnabled = false
		c = c.clearHardware()
	}
	return c, nil
}

// SetSelectedHardware stores id as the chosen option. An empty id clears the
// selection. Membership in the current technology is not checked here;
// pricing treats a stale id as zero cost.
func (c Configuration) SetSelectedHardware(id string) (Configuration, error) {
	c.SelectedHardware = id
	return c, nil
}

// SetHardwareQuantity stores n, clamped to at least one.
func (c Configuration) SetHardwareQuantity(n int) (Configuration, error) {
	if n < 1 {
		n = 1
	}
	c.HardwareQuantity = n
	return c, nil
}

// SetFeatureToggle flips one add-on. The mobile app cannot be switched off
// under software tracking.
func (c Configuration) SetFeatureToggle(feature Feature, enabled bool) (Configuration, error) {
	switch feature {
	case FeatureMobileApp:
		if !enabled && c.TrackingMethod == TrackingSoftware {
			return c, fmt.Errorf("%w: mobile app is required for software tracking", ErrRejectedTransition)
		}
		c.MobileAppEnabled = enabled
	case FeatureAnnouncement:
		c.AnnouncementEnabled = enabled
	case FeatureNotification:
		c.NotificationEnabled = enabled
	case FeatureFeedback:
		c.FeedbackEnabled = enabled
	default:
		return c, fmt.Errorf("%w: feature %q", ErrUnknownOption, feature)
	}
	return c, nil
}

// Enabled reports whether feature is switched on.
func (c Configuration) Enabled(feature Feature) bool {
	switch feature {
	case FeatureMobileApp:
		return c.MobileAppEnabled
	case FeatureAnnouncement:
		return c.AnnouncementEnabled
	case FeatureNotification:
		return c.NotificationEnabled
	case FeatureFeedback:
		return c.FeedbackEnabled
	}
	return false
}

// Hardware resolves the selected option against the current technology.
func (c Configuration) Hardware() (HardwareOption, bool) {
	if c.SelectedHardware == "" {
		return HardwareOption{}, false
	}
	return FindHardware(c.CountingTechnology, c.SelectedHardware)
}

// Normalize repairs a configuration that did not come from the setters, for
// example one decoded from storage.
func (c Configuration) Normalize() Configuration {
	switch c.TrackingMethod {
	case TrackingUnset, TrackingSoftware, TrackingHardware:
	default:
		return DefaultConfiguration()
	}
	if c.CountingTechnology != CountingNone && (c.CountingTechnology.Label() == "" || !c.allowsTechnology(c.CountingTechnology)) {
		c.CountingTechnology = CountingNone
		c.SelectedHardware = ""
	}
	if c.TrackingMethod == TrackingSoftware {
		c.MobileAppEnabled = true
	}
	if c.TrackingMethod == TrackingUnset {
		c.HybridAcknowledged = false
	}
	if c.CountingTechnology != CountingNone {
		c.CountingEnabled = true
	}
	if c.HardwareQuantity < 1 {
		c.HardwareQuantity = 1
	}
	return c
}
