package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPrices(t *testing.T) {
	assert.Equal(t, "49.99", BasePrice(TrackingSoftware).String())
	assert.Equal(t, "79.99", BasePrice(TrackingHardware).String())
	assert.True(t, BasePrice(TrackingUnset).IsZero())

	want := map[CountingTechnology]string{
		CountingQRCode:     "9.99",
		CountingAICamera:   "29.99",
		CountingSensors:    "39.99",
		CountingAirTags:    "24.99",
		CountingNFC:        "14.99",
		CountingAttendance: "19.99",
	}
	for tech, p := range want {
		assert.Equal(t, p, CountingPrice(tech).String(), tech)
	}
	assert.True(t, CountingPrice(CountingNone).IsZero())

	assert.Equal(t, "9.99", AddonPrice(FeatureMobileApp).String())
	assert.Equal(t, "4.99", AddonPrice(FeatureAnnouncement).String())
	assert.Equal(t, "4.99", AddonPrice(FeatureNotification).String())
	assert.True(t, AddonPrice(FeatureFeedback).IsZero())
}

func TestHardwareOptions(t *testing.T) {
	for _, tech := range Technologies() {
		options := HardwareOptions(tech)
		require.NotEmpty(t, options, tech)
		for _, o := range options {
			assert.Equal(t, tech, o.Technology)
			assert.False(t, o.Price.IsNegative())
			if o.SoftwareOnly {
				assert.True(t, o.Price.IsZero(), o.ID)
			}
		}
	}
	assert.Empty(t, HardwareOptions(CountingNone))
	assert.Empty(t, HardwareOptions("laser"))

	options := HardwareOptions(CountingAICamera)
	options[0].Name = "changed"
	assert.Equal(t, "AI Camera Basic", HardwareOptions(CountingAICamera)[0].Name)
}

func TestParseCountingTechnology(t *testing.T) {
	for in, want := range map[string]CountingTechnology{
		"AI Camera":  CountingAICamera,
		"ai_camera":  CountingAICamera,
		"QR Code":    CountingQRCode,
		"AirTags":    CountingAirTags,
		"attendance": CountingAttendance,
		"":           CountingNone,
		"none":       CountingNone,
	} {
		got, err := ParseCountingTechnology(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseCountingTechnology("sonar")
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestComputeSoftwareOnly(t *testing.T) {
	c, err := DefaultConfiguration().SetTrackingMethod(TrackingSoftware)
	require.NoError(t, err)
	require.True(t, c.MobileAppEnabled)

	totals := Compute(c, false)
	assert.Equal(t, "49.99", totals.MonthlySubtotal.String())
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.Equal(t, "49.99", totals.MonthlyTotal.String())
	assert.True(t, totals.HardwareTotal.IsZero())
}

func TestComputeHardwareWithDiscount(t *testing.T) {
	c := mustApply(t, DefaultConfiguration(),
		Action{Type: ActionSetTrackingMethod, Value: "hardware"},
		Action{Type: ActionSetCountingTechnology, Value: "AI Camera"},
		Action{Type: ActionSetFeatureToggle, Value: "mobile_app", Enabled: true},
		Action{Type: ActionSetSelectedHardware, Value: "ai-camera-basic"},
		Action{Type: ActionSetHardwareQuantity, Quantity: 2},
	)

	totals := Compute(c, true)
	assert.Equal(t, "119.97", totals.MonthlySubtotal.String())
	assert.Equal(t, int64(10), totals.DiscountPercent)
	assert.Equal(t, "11.997", totals.DiscountAmount.String())
	assert.Equal(t, "107.973", totals.MonthlyTotal.String())
	assert.Equal(t, "299.98", totals.HardwareTotal.String())

	display := totals.Display()
	assert.Equal(t, "119.97", display.MonthlySubtotal)
	assert.Equal(t, "12.00", display.DiscountAmount)
	assert.Equal(t, "107.97", display.MonthlyTotal)
	assert.Equal(t, "299.98", display.HardwareTotal)
}

func TestFeedbackIsFree(t *testing.T) {
	c, err := DefaultConfiguration().SetTrackingMethod(TrackingHardware)
	require.NoError(t, err)
	with, err := c.SetFeatureToggle(FeatureFeedback, true)
	require.NoError(t, err)
	assert.True(t, Compute(c, false).MonthlyTotal.Equal(Compute(with, false).MonthlyTotal))
}

func TestEnablingFeatureNeverLowersTotal(t *testing.T) {
	features := []Feature{FeatureMobileApp, FeatureAnnouncement, FeatureNotification, FeatureFeedback}
	for _, method := range []TrackingMethod{TrackingUnset, TrackingHardware} {
		for _, share := range []bool{false, true} {
			base, err := DefaultConfiguration().SetTrackingMethod(method)
			require.NoError(t, err)
			for _, f := range features {
				on, err := base.SetFeatureToggle(f, true)
				require.NoError(t, err)
				assert.True(t, Compute(on, share).MonthlyTotal.GreaterThanOrEqual(Compute(base, share).MonthlyTotal),
					"%s/%s share=%v", method, f, share)
			}
		}
	}
}

func TestDiscountBound(t *testing.T) {
	tenth := decimal.NewFromFloat(0.10)
	for _, method := range []TrackingMethod{TrackingUnset, TrackingSoftware, TrackingHardware} {
		c, err := DefaultConfiguration().SetTrackingMethod(method)
		require.NoError(t, err)
		c, err = c.SetFeatureToggle(FeatureAnnouncement, true)
		require.NoError(t, err)

		off := Compute(c, false)
		assert.True(t, off.DiscountAmount.IsZero())

		on := Compute(c, true)
		bound := on.MonthlySubtotal.Mul(tenth)
		assert.False(t, on.DiscountAmount.IsNegative())
		assert.True(t, on.DiscountAmount.Equal(bound), "%s: %s != %s", method, on.DiscountAmount, bound)
		assert.True(t, on.HardwareTotal.Equal(off.HardwareTotal), "hardware is never discounted")
	}
}

func TestHardwareTotalStaleSelection(t *testing.T) {
	c := mustApply(t, DefaultConfiguration(),
		Action{Type: ActionSetTrackingMethod, Value: "hardware"},
		Action{Type: ActionSetCountingTechnology, Value: "sensors"},
		Action{Type: ActionSetSelectedHardware, Value: "ai-camera-basic"},
		Action{Type: ActionSetHardwareQuantity, Quantity: 3},
	)
	assert.True(t, Compute(c, false).HardwareTotal.IsZero())

	c, err := c.SetSelectedHardware("")
	require.NoError(t, err)
	assert.True(t, Compute(c, false).HardwareTotal.IsZero())

	c, err = c.SetSelectedHardware("sensor-weight")
	require.NoError(t, err)
	assert.Equal(t, "389.97", Compute(c, false).HardwareTotal.String())
}

func TestRepeatedComputeIsStable(t *testing.T) {
	c := mustApply(t, DefaultConfiguration(),
		Action{Type: ActionSetTrackingMethod, Value: "software"},
		Action{Type: ActionSetCountingTechnology, Value: "qr_code"},
		Action{Type: ActionSetFeatureToggle, Value: "notification", Enabled: true},
	)
	first := Compute(c, true)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, first.Display(), Compute(c, true).Display())
	}
	assert.Equal(t, "64.97", first.MonthlySubtotal.String())
}
