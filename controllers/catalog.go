package controllers

import (
	"net/http"

	"pathfinder/order"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type technologyEntry struct {
	ID              order.CountingTechnology `json:"id"`
	Label           string                   `json:"label"`
	Price           decimal.Decimal          `json:"price"`
	HardwareOptions []order.HardwareOption   `json:"hardware_options"`
}

type priceEntry struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// GetCatalog lists every price the wizard shows.
func GetCatalog(c *gin.Context) {
	methods := []priceEntry{}
	for _, m := range []order.TrackingMethod{order.TrackingSoftware, order.TrackingHardware} {
		methods = append(methods, priceEntry{ID: string(m), Label: m.Label(), Price: order.BasePrice(m)})
	}

	technologies := []technologyEntry{}
	for _, t := range order.Technologies() {
		technologies = append(technologies, technologyEntry{
			ID:              t,
			Label:           t.Label(),
			Price:           order.CountingPrice(t),
			HardwareOptions: order.HardwareOptions(t),
		})
	}

	features := []priceEntry{}
	for _, f := range []order.Feature{order.FeatureMobileApp, order.FeatureAnnouncement, order.FeatureNotification, order.FeatureFeedback} {
		features = append(features, priceEntry{ID: string(f), Label: f.Label(), Price: order.AddonPrice(f)})
	}

	c.JSON(http.StatusOK, gin.H{
		"tracking_methods":           methods,
		"counting_technologies":      technologies,
		"features":                   features,
		"community_discount_percent": order.CommunityDiscountPercent,
	})
}
