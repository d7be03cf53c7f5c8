package order

import "fmt"

type ActionType string

const (
	ActionSetTrackingMethod     ActionType = "set_tracking_method"
	ActionSetCountingTechnology ActionType = "set_counting_technology"
	ActionSetCountingEnabled    ActionType = "set_counting_enabled"
	ActionSetHybridAcknowledged ActionType = "set_hybrid_acknowledged"
	ActionSetSelectedHardware   ActionType = "set_selected_hardware"
	ActionSetHardwareQuantity   ActionType = "set_hardware_quantity"
	ActionSetFeatureToggle      ActionType = "set_feature_toggle"
	ActionReset                 ActionType = "reset"
)

// Action is one wizard interaction as it arrives over the wire. Value carries
// the method, technology, hardware id or feature name depending on Type.
type Action struct {
	Type     ActionType `json:"type" binding:"required"`
	Value    string     `json:"value,omitempty"`
	Enabled  bool       `json:"enabled,omitempty"`
	Quantity int        `json:"quantity,omitempty"`
}

// Apply runs a single action against c. On error the returned configuration
// equals c.
func Apply(c Configuration, a Action) (Configuration, error) {
	switch a.Type {
	case ActionSetTrackingMethod:
		method, err := ParseTrackingMethod(a.Value)
		if err != nil {
			return c, err
		}
		return c.SetTrackingMethod(method)
	case ActionSetCountingTechnology:
		tech, err := ParseCountingTechnology(a.Value)
		if err != nil {
			return c, err
		}
		return c.SetCountingTechnology(tech)
	case ActionSetCountingEnabled:
		return c.SetCountingEnabled(a.Enabled)
	case ActionSetHybridAcknowledged:
		return c.SetHybridAcknowledged(a.Enabled)
	case ActionSetSelectedHardware:
		return c.SetSelectedHardware(a.Value)
	case ActionSetHardwareQuantity:
		return c.SetHardwareQuantity(a.Quantity)
	case ActionSetFeatureToggle:
		feature, err := ParseFeature(a.Value)
		if err != nil {
			return c, err
		}
		return c.SetFeatureToggle(feature, a.Enabled)
	case ActionReset:
		return c.Reset(), nil
	}
	return c, fmt.Errorf("%w: action %q", ErrUnknownOption, a.Type)
}
