package ledger

import (
	"sort"
	"strings"
	"time"
)

// HealthThresholds tunes snapshot health classification. Refrigerated
// products are recognized by a keyword in the product name and get a
// tighter expiry alert window.
type HealthThresholds struct {
	RefrigeratedKeyword string
	RefrigeratedDays    int
	DefaultDays         int
	AgingMonths         int
}

func DefaultHealthThresholds() HealthThresholds {
	return HealthThresholds{
		RefrigeratedKeyword: "냉장",
		RefrigeratedDays:    21,
		DefaultDays:         90,
		AgingMonths:         3,
	}
}

// AlertDays returns the expiry alert threshold for a product name.
func (t HealthThresholds) AlertDays(productName string) int {
	if t.RefrigeratedKeyword != "" && strings.Contains(productName, t.RefrigeratedKeyword) {
		return t.RefrigeratedDays
	}
	return t.DefaultDays
}

// HealthReport classifies a snapshot into the three daily-check lists.
type HealthReport struct {
	MissingExpiry  []StockRecord `json:"missing_expiry"`
	ExpiryImminent []StockRecord `json:"expiry_imminent"`
	LongTermAged   []StockRecord `json:"long_term_aged"`
}

// nullLikeExpiry covers the tokens the source files use for an absent
// expiry date, compared case-insensitively.
var nullLikeExpiry = map[string]struct{}{
	"":     {},
	"nan":  {},
	"nat":  {},
	"none": {},
}

// IsNullLikeExpiry reports whether an expiry cell holds no real date.
func IsNullLikeExpiry(v string) bool {
	_, ok := nullLikeExpiry[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// ClassifyHealth runs the three daily checks against a snapshot as of the
// given day. A record can appear in more than one list. Imminent items
// are sorted by remaining days ascending, aged items by receipt date
// ascending.
func ClassifyHealth(records []StockRecord, asOf time.Time, t HealthThresholds) HealthReport {
	report := HealthReport{
		MissingExpiry:  []StockRecord{},
		ExpiryImminent: []StockRecord{},
		LongTermAged:   []StockRecord{},
	}
	agingCutoff := dateOnly(asOf).AddDate(0, -t.AgingMonths, 0)

	for _, rec := range records {
		if IsNullLikeExpiry(rec.ExpiryDate) {
			report.MissingExpiry = append(report.MissingExpiry, rec)
		}
		if rec.RemainingDays != nil && *rec.RemainingDays <= t.AlertDays(rec.ProductName) {
			report.ExpiryImminent = append(report.ExpiryImminent, rec)
		}
		if rec.ReceiptDate != nil && !rec.ReceiptDate.After(agingCutoff) &&
			(rec.Quantity > 0 || rec.Weight > 0) {
			report.LongTermAged = append(report.LongTermAged, rec)
		}
	}

	sort.SliceStable(report.ExpiryImminent, func(i, j int) bool {
		return *report.ExpiryImminent[i].RemainingDays < *report.ExpiryImminent[j].RemainingDays
	})
	sort.SliceStable(report.LongTermAged, func(i, j int) bool {
		return report.LongTermAged[i].ReceiptDate.Before(*report.LongTermAged[j].ReceiptDate)
	})
	return report
}
