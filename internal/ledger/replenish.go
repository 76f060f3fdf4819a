package ledger

import "sort"

// ReplenishOptions tunes the suggestion report.
type ReplenishOptions struct {
	// MonthsEquivalent converts window totals into monthly averages.
	MonthsEquivalent int
	// MinAvgActiveDaysPerMonth drops products that moved on too few
	// distinct days to trust their average.
	MinAvgActiveDaysPerMonth float64
}

// ReplenishmentSuggestion proposes topping a position back up to its
// monthly average outflow. Box counts are the authoritative measure;
// weights ride along for reference.
type ReplenishmentSuggestion struct {
	Location         string  `json:"location"`
	ProductCode      string  `json:"product_code"`
	ProductName      string  `json:"product_name"`
	AvgMonthlyQtyBox float64 `json:"avg_monthly_qty_box"`
	AvgMonthlyQtyKG  float64 `json:"avg_monthly_qty_kg"`
	CurrentQtyBox    float64 `json:"current_qty_box"`
	CurrentWgtKG     float64 `json:"current_wgt_kg"`
	NeededQtyBox     float64 `json:"needed_qty_box"`
	NeededQtyKG      float64 `json:"needed_qty_kg"`
	AvgActiveDays    float64 `json:"avg_active_days"`
}

// SuggestReplenishment joins windowed sales against current stock on
// (product code, branch). Missing stock reads as zero on hand. Products
// below the activity gate or needing nothing are omitted. The report is
// sorted by branch, then needed boxes descending, then product code.
func SuggestReplenishment(sales []MovementSummary, stock []AggregatedStock, opts ReplenishOptions) []ReplenishmentSuggestion {
	if opts.MonthsEquivalent <= 0 {
		opts.MonthsEquivalent = 1
	}
	months := float64(opts.MonthsEquivalent)

	onHand := make(map[StockKey]AggregatedStock, len(stock))
	for _, s := range stock {
		onHand[s.Key] = s
	}

	out := make([]ReplenishmentSuggestion, 0, len(sales))
	for _, s := range sales {
		avgActive := float64(s.ActiveDays) / months
		if avgActive < opts.MinAvgActiveDaysPerMonth {
			continue
		}
		avgBox := roundFloat(s.TotalQtyBox/months, 2)
		avgKG := roundFloat(s.TotalQtyKG/months, 2)

		current := onHand[StockKey{ProductCode: s.ProductCode, Location: s.Location}]
		neededBox := roundFloat(max0(avgBox-current.Quantity), 2)
		neededKG := roundFloat(max0(avgKG-current.Weight), 2)
		if neededBox <= 0 {
			continue
		}
		out = append(out, ReplenishmentSuggestion{
			Location:         s.Location,
			ProductCode:      s.ProductCode,
			ProductName:      s.ProductName,
			AvgMonthlyQtyBox: avgBox,
			AvgMonthlyQtyKG:  avgKG,
			CurrentQtyBox:    current.Quantity,
			CurrentWgtKG:     current.Weight,
			NeededQtyBox:     neededBox,
			NeededQtyKG:      neededKG,
			AvgActiveDays:    avgActive,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Location != out[j].Location {
			return out[i].Location < out[j].Location
		}
		if out[i].NeededQtyBox != out[j].NeededQtyBox {
			return out[i].NeededQtyBox > out[j].NeededQtyBox
		}
		return out[i].ProductCode < out[j].ProductCode
	})
	return out
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
