package billing

import (
	"strings"

	"github.com/shopspring/decimal"

	"transportbilling/models"
)

// Category is the bill category a record falls into.
type Category string

const (
	Regular    Category = "Regular"
	Rework     Category = "Rework"
	Additional Category = "Additional"
)

var reworkFactor = decimal.RequireFromString("0.8")

// AdditionalEntry is the multi-destination surcharge for a record.
type AdditionalEntry struct {
	Destinations int   `json:"destinations"`
	Rate         int64 `json:"rate"`
	Amount       int64 `json:"amount"`
}

// Classification is derived per run and never cached.
type Classification struct {
	Category         Category         `json:"category"`
	VehicleType      string           `json:"vehicle_type"`
	BaseAmount       int64            `json:"base_amount"`
	EffectiveAmount  int64            `json:"effective_amount"`
	DriverPayment    int64            `json:"driver_payment"`
	DestinationCount int              `json:"destination_count"`
	Additional       *AdditionalEntry `json:"additional,omitempty"`
	NeedsReview      bool             `json:"needs_review,omitempty"`
	ReviewReason     string           `json:"review_reason,omitempty"`
}

// ClassifiedRecord pairs a record with its classification.
type ClassifiedRecord struct {
	Record *models.LRRecord
	Bill   Classification
}

// Route is a directional origin/destination pair.
type Route struct {
	Origin      string
	Destination string
}

// Classifier decides bill categories and amounts. It performs no I/O.
type Classifier struct {
	rates  RateTable
	rework Route
}

func NewClassifier(rates RateTable, rework Route) *Classifier {
	return &Classifier{rates: rates, rework: rework}
}

// Classify never fails; problems are surfaced through NeedsReview.
func (c *Classifier) Classify(rec *models.LRRecord) Classification {
	if rec == nil {
		return Classification{Category: Regular, NeedsReview: true, ReviewReason: "no record"}
	}

	cl := Classification{
		Category:         Regular,
		DestinationCount: DestinationCount(rec),
	}

	vt := normalizeVehicleType(rec.VehicleType)
	rate, known := c.rates[vt]
	switch {
	case vt == "":
		cl.NeedsReview = true
		cl.ReviewReason = "vehicle type is empty"
	case !known:
		vt = c.rates.lowestTier()
		rate = c.rates[vt]
	}
	cl.VehicleType = vt

	if c.IsRework(rec) {
		cl.Category = Rework
		cl.BaseAmount = rate.Base
		cl.EffectiveAmount = decimal.NewFromInt(rate.Base).Mul(reworkFactor).Round(0).IntPart()
		cl.DriverPayment = rate.ReworkDriver
		return cl
	}

	cl.BaseAmount = rate.Base
	cl.EffectiveAmount = rate.Base
	cl.DriverPayment = rate.Driver

	// A single destination never yields an additional entry.
	if cl.DestinationCount >= 2 && !cl.NeedsReview {
		extra := int64(cl.DestinationCount - 1)
		cl.Additional = &AdditionalEntry{
			Destinations: cl.DestinationCount,
			Rate:         rate.PerDestination,
			Amount:       decimal.NewFromInt(rate.PerDestination).Mul(decimal.NewFromInt(extra)).IntPart(),
		}
	}
	return cl
}

// IsRework reports whether the record travels the fixed rework route.
func (c *Classifier) IsRework(rec *models.LRRecord) bool {
	return strings.EqualFold(strings.TrimSpace(rec.Origin), strings.TrimSpace(c.rework.Origin)) &&
		strings.EqualFold(strings.TrimSpace(rec.Destination), strings.TrimSpace(c.rework.Destination))
}

// IsAdditional reports whether a separate additional-bill entry exists.
func (cl Classification) IsAdditional() bool {
	return cl.Category != Rework && cl.Additional != nil
}

// DestinationCount counts consignees, falling back to the destination field.
func DestinationCount(rec *models.LRRecord) int {
	if n := len(SplitList(rec.Consignee)); n > 0 {
		return n
	}
	return len(SplitList(rec.Destination))
}

// SplitList splits a slash-delimited field into trimmed, non-empty tokens.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "/") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
