package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemsMatchTotals(t *testing.T) {
	c := mustApply(t, DefaultConfiguration(),
		Action{Type: ActionSetTrackingMethod, Value: "hardware"},
		Action{Type: ActionSetCountingTechnology, Value: "AI Camera"},
		Action{Type: ActionSetFeatureToggle, Value: "mobile_app", Enabled: true},
		Action{Type: ActionSetFeatureToggle, Value: "feedback", Enabled: true},
		Action{Type: ActionSetSelectedHardware, Value: "ai-camera-basic"},
		Action{Type: ActionSetHardwareQuantity, Quantity: 2},
	)

	items := LineItems(c)
	require.Len(t, items, 5)
	assert.Equal(t, "Hardware Tracking", items[0].Label)
	assert.Equal(t, "AI Camera Counting", items[1].Label)
	assert.Equal(t, "Feedback", items[3].Label)
	assert.True(t, items[3].Amount.IsZero())
	assert.Equal(t, "AI Camera Basic x2", items[4].Label)
	assert.False(t, items[4].Recurring)

	monthly, once := decimal.Zero, decimal.Zero
	for _, item := range items {
		if item.Recurring {
			monthly = monthly.Add(item.Amount)
		} else {
			once = once.Add(item.Amount)
		}
	}
	totals := Compute(c, false)
	assert.True(t, monthly.Equal(totals.MonthlySubtotal))
	assert.True(t, once.Equal(totals.HardwareTotal))
}

func TestLineItemsSoftwareIncludesMobileApp(t *testing.T) {
	c := mustApply(t, DefaultConfiguration(), Action{Type: ActionSetTrackingMethod, Value: "software"})
	items := LineItems(c)
	require.Len(t, items, 2)
	assert.Equal(t, "Mobile App", items[1].Label)
	assert.True(t, items[1].Included)
	assert.True(t, items[1].Amount.IsZero())

	assert.Empty(t, LineItems(DefaultConfiguration()))
}
