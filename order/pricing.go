package order

import "github.com/shopspring/decimal"

var pricedAddons = []Feature{FeatureMobileApp, FeatureAnnouncement, FeatureNotification}

// Totals is the price breakdown shown on the order summary. Values are exact;
// use Display for rounded strings.
type Totals struct {
	MonthlySubtotal decimal.Decimal `json:"monthly_subtotal"`
	DiscountPercent int64           `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	MonthlyTotal    decimal.Decimal `json:"monthly_total"`
	HardwareTotal   decimal.Decimal `json:"hardware_total"`
}

// MonthlySubtotal sums the base price, the counting add-on and the priced
// feature toggles. The software plan already includes the mobile app.
func MonthlySubtotal(c Configuration) decimal.Decimal {
	subtotal := BasePrice(c.TrackingMethod).Add(CountingPrice(c.CountingTechnology))
	for _, feature := range pricedAddons {
		if feature == FeatureMobileApp && c.TrackingMethod == TrackingSoftware {
			continue
		}
		if c.Enabled(feature) {
			subtotal = subtotal.Add(AddonPrice(feature))
		}
	}
	return subtotal
}

// HardwareTotal is unit price times quantity for the selected option, or zero
// when nothing valid is selected.
func HardwareTotal(c Configuration) decimal.Decimal {
	option, ok := c.Hardware()
	if !ok {
		return decimal.Zero
	}
	return option.Price.Mul(decimal.NewFromInt(int64(c.HardwareQuantity)))
}

// Compute derives the order totals from c and the organization's discount flag.
func Compute(c Configuration, shareDataAnalytics bool) Totals {
	subtotal := MonthlySubtotal(c)
	discount := Discount(subtotal, shareDataAnalytics)
	return Totals{
		MonthlySubtotal: subtotal,
		DiscountPercent: DiscountPercent(shareDataAnalytics),
		DiscountAmount:  discount,
		MonthlyTotal:    subtotal.Sub(discount),
		HardwareTotal:   HardwareTotal(c),
	}
}

// DisplayTotals holds the totals rounded half-up to cents.
type DisplayTotals struct {
	MonthlySubtotal string `json:"monthly_subtotal"`
	DiscountPercent int64  `json:"discount_percent"`
	DiscountAmount  string `json:"discount_amount"`
	MonthlyTotal    string `json:"monthly_total"`
	HardwareTotal   string `json:"hardware_total"`
}

func (t Totals) Display() DisplayTotals {
	return DisplayTotals{
		MonthlySubtotal: t.MonthlySubtotal.StringFixed(2),
		DiscountPercent: t.DiscountPercent,
		DiscountAmount:  t.DiscountAmount.StringFixed(2),
		MonthlyTotal:    t.MonthlyTotal.StringFixed(2),
		HardwareTotal:   t.HardwareTotal.StringFixed(2),
	}
}
