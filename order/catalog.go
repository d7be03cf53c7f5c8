package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type TrackingMethod string

const (
	TrackingUnset    TrackingMethod = ""
	TrackingSoftware TrackingMethod = "software"
	TrackingHardware TrackingMethod = "hardware"
)

type CountingTechnology string

const (
	CountingNone       CountingTechnology = ""
	CountingQRCode     CountingTechnology = "qr_code"
	CountingAICamera   CountingTechnology = "ai_camera"
	CountingSensors    CountingTechnology = "sensors"
	CountingAirTags    CountingTechnology = "airtags"
	CountingNFC        CountingTechnology = "nfc"
	CountingAttendance CountingTechnology = "attendance"
)

// Feature is an add-on toggle shown on the features step.
type Feature string

const (
	FeatureMobileApp    Feature = "mobile_app"
	FeatureAnnouncement Feature = "announcement"
	FeatureNotification Feature = "notification"
	FeatureFeedback     Feature = "feedback"
)

// HardwareOption is a purchasable device (or software-only variant) tied to one counting technology.
type HardwareOption struct {
	ID           string             `json:"id"`
	Technology   CountingTechnology `json:"technology"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Price        decimal.Decimal    `json:"price"`
	SoftwareOnly bool               `json:"software_only"`
	Icon         string             `json:"icon"`
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var basePrices = map[TrackingMethod]decimal.Decimal{
	TrackingSoftware: price("49.99"),
	TrackingHardware: price("79.99"),
}

var countingPrices = map[CountingTechnology]decimal.Decimal{
	CountingQRCode:     price("9.99"),
	CountingAICamera:   price("29.99"),
	CountingSensors:    price("39.99"),
	CountingAirTags:    price("24.99"),
	CountingNFC:        price("14.99"),
	CountingAttendance: price("19.99"),
}

// Feedback carries no price.
var addonPrices = map[Feature]decimal.Decimal{
	FeatureMobileApp:    price("9.99"),
	FeatureAnnouncement: price("4.99"),
	FeatureNotification: price("4.99"),
}

var hardwareCatalog = map[CountingTechnology][]HardwareOption{
	CountingQRCode: {
		{ID: "qr-app", Name: "QR Check-in App", Description: "Passengers scan a QR code with the driver app", Price: decimal.Zero, SoftwareOnly: true, Icon: "qr-code"},
		{ID: "qr-sticker-pack", Name: "QR Sticker Pack", Description: "50 weatherproof QR stickers for seats and doors", Price: price("19.99"), Icon: "sticker"},
	},
	CountingAICamera: {
		{ID: "ai-camera-basic", Name: "AI Camera Basic", Description: "Door-mounted camera with on-device passenger counting", Price: price("149.99"), Icon: "camera"},
		{ID: "ai-camera-pro", Name: "AI Camera Pro", Description: "Dual-lens camera with night vision and 98% counting accuracy", Price: price("249.99"), Icon: "camera"},
	},
	CountingSensors: {
		{ID: "sensor-ir", Name: "Infrared Door Sensor", Description: "Bidirectional infrared beam counter", Price: price("89.99"), Icon: "sensor"},
		{ID: "sensor-weight", Name: "Seat Weight Sensor", Description: "Pressure pad occupancy sensor per seat row", Price: price("129.99"), Icon: "scale"},
	},
	CountingAirTags: {
		{ID: "airtag-single", Name: "AirTag", Description: "Single tracker for personnel or equipment", Price: price("29.99"), Icon: "tag"},
		{ID: "airtag-four-pack", Name: "AirTag 4 Pack", Description: "Four trackers with key rings", Price: price("99.99"), Icon: "tag"},
	},
	CountingNFC: {
		{ID: "nfc-reader", Name: "NFC Reader", Description: "Vehicle-mounted reader for NFC cards and tags", Price: price("59.99"), Icon: "nfc"},
		{ID: "nfc-tag-pack", Name: "NFC Tag Pack", Description: "25 programmable NFC tags", Price: price("19.99"), Icon: "nfc"},
	},
	CountingAttendance: {
		{ID: "attendance-terminal", Name: "Attendance Terminal", Description: "Fingerprint and card attendance terminal", Price: price("199.99"), Icon: "fingerprint"},
		{ID: "attendance-app", Name: "Attendance App", Description: "Check-in from the mobile app", Price: decimal.Zero, SoftwareOnly: true, Icon: "smartphone"},
	},
}

func init() {
	for tech, options := range hardwareCatalog {
		for i := range options {
			options[i].Technology = tech
		}
	}
}

// BasePrice is the monthly price of a tracking method. Unset is free.
func BasePrice(method TrackingMethod) decimal.Decimal {
	if p, ok := basePrices[method]; ok {
		return p
	}
	return decimal.Zero
}

// CountingPrice is the monthly add-on price of a counting technology.
func CountingPrice(tech CountingTechnology) decimal.Decimal {
	if p, ok := countingPrices[tech]; ok {
		return p
	}
	return decimal.Zero
}

// AddonPrice is the monthly price of a feature toggle.
func AddonPrice(feature Feature) decimal.Decimal {
	if p, ok := addonPrices[feature]; ok {
		return p
	}
	return decimal.Zero
}

// HardwareOptions returns the options for tech in display order. Unknown
// technologies yield an empty slice. The result is a copy.
func HardwareOptions(tech CountingTechnology) []HardwareOption {
	options := hardwareCatalog[tech]
	out := make([]HardwareOption, len(options))
	copy(out, options)
	return out
}

// FindHardware looks id up among the options of tech.
func FindHardware(tech CountingTechnology, id string) (HardwareOption, bool) {
	for _, option := range hardwareCatalog[tech] {
		if option.ID == id {
			return option, true
		}
	}
	return HardwareOption{}, false
}

var countingLabels = map[CountingTechnology]string{
	CountingQRCode:     "QR Code",
	CountingAICamera:   "AI Camera",
	CountingSensors:    "Sensors",
	CountingAirTags:    "AirTags",
	CountingNFC:        "NFC",
	CountingAttendance: "Attendance",
}

// Technologies lists every selectable counting technology in display order.
func Technologies() []CountingTechnology {
	return []CountingTechnology{CountingQRCode, CountingAICamera, CountingSensors, CountingAirTags, CountingNFC, CountingAttendance}
}

// Label is the display name used by the wizard.
func (t CountingTechnology) Label() string {
	return countingLabels[t]
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
	return s
}

// ParseCountingTechnology accepts enum values ("ai_camera") and display labels ("AI Camera").
func ParseCountingTechnology(s string) (CountingTechnology, error) {
	key := normalizeName(s)
	if key == "" || key == "none" {
		return CountingNone, nil
	}
	for tech, label := range countingLabels {
		if key == normalizeName(string(tech)) || key == normalizeName(label) {
			return tech, nil
		}
	}
	return CountingNone, fmt.Errorf("%w: counting technology %q", ErrUnknownOption, s)
}

func ParseTrackingMethod(s string) (TrackingMethod, error) {
	switch normalizeName(s) {
	case "", "unset":
		return TrackingUnset, nil
	case "software":
		return TrackingSoftware, nil
	case "hardware":
		return TrackingHardware, nil
	}
	return TrackingUnset, fmt.Errorf("%w: tracking method %q", ErrUnknownOption, s)
}

func ParseFeature(s string) (Feature, error) {
	switch normalizeName(s) {
	case "mobileapp", "mobile":
		return FeatureMobileApp, nil
	case "announcement", "announcements":
		return FeatureAnnouncement, nil
	case "notification", "notifications":
		return FeatureNotification, nil
	case "feedback":
		return FeatureFeedback, nil
	}
	return "", fmt.Errorf("%w: feature %q", ErrUnknownOption, s)
}
