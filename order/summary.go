package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem is one row of the order summary.
type LineItem struct {
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	Recurring bool            `json:"recurring"`
	Included  bool            `json:"included,omitempty"`
}

var featureLabels = map[Feature]string{
	FeatureMobileApp:    "Mobile App",
	FeatureAnnouncement: "Announcements",
	FeatureNotification: "Notifications",
	FeatureFeedback:     "Feedback",
}

func (f Feature) Label() string {
	return featureLabels[f]
}

func (m TrackingMethod) Label() string {
	switch m {
	case TrackingSoftware:
		return "Software Tracking"
	case TrackingHardware:
		return "Hardware Tracking"
	}
	return ""
}

// LineItems lists what the configuration is charged for, in the order the
// summary step shows it. Included features are listed at zero.
func LineItems(c Configuration) []LineItem {
	var items []LineItem
	if c.TrackingMethod != TrackingUnset {
		items = append(items, LineItem{Label: c.TrackingMethod.Label(), Amount: BasePrice(c.TrackingMethod), Recurring: true})
	}
	if c.CountingTechnology != CountingNone {
		items = append(items, LineItem{
			Label:     fmt.Sprintf("%s Counting", c.CountingTechnology.Label()),
			Amount:    CountingPrice(c.CountingTechnology),
			Recurring: true,
		})
	}
	for _, f := range []Feature{FeatureMobileApp, FeatureAnnouncement, FeatureNotification, FeatureFeedback} {
		if !c.Enabled(f) {
			continue
		}
		item := LineItem{Label: f.Label(), Amount: AddonPrice(f), Recurring: true}
		if f == FeatureMobileApp && c.TrackingMethod == TrackingSoftware {
			item.Amount = decimal.Zero
			item.Included = true
		}
		items = append(items, item)
	}
	if option, ok := c.Hardware(); ok {
		items = append(items, LineItem{
			Label:  fmt.Sprintf("%s x%d", option.Name, c.HardwareQuantity),
			Amount: HardwareTotal(c),
		})
	}
	return items
}
