package order

import "github.com/shopspring/decimal"

// CommunityDiscountPercent is granted for opting into anonymized data sharing.
const CommunityDiscountPercent = 10

// DiscountPercent is the monthly discount for an organization.
func DiscountPercent(shareDataAnalytics bool) int64 {
	if shareDataAnalytics {
		return CommunityDiscountPercent
	}
	return 0
}

// Discount is the amount taken off a monthly subtotal. Hardware is never discounted.
func Discount(monthlySubtotal decimal.Decimal, shareDataAnalytics bool) decimal.Decimal {
	percent := DiscountPercent(shareDataAnalytics)
	if percent == 0 {
		return decimal.Zero
	}
	return monthlySubtotal.Mul(decimal.NewFromInt(percent)).Div(decimal.NewFromInt(100))
}
