package ledger

import (
	"sort"
	"time"
)

// TrendPoint is one warehouse's total on one snapshot date. Deltas are
// against the previous snapshot in the series; the oldest point has none.
type TrendPoint struct {
	Date     time.Time `json:"date"`
	QtyBox   float64   `json:"qty_box"`
	WgtKG    float64   `json:"wgt_kg"`
	DeltaBox float64   `json:"delta_box"`
	DeltaKG  float64   `json:"delta_kg"`
	HasDelta bool      `json:"has_delta"`
}

// TrendSeries is one warehouse row of the trend report.
type TrendSeries struct {
	Warehouse string       `json:"warehouse"`
	Points    []TrendPoint `json:"points"`
}

// TrendConfig maps raw branch names onto report warehouses and fixes the
// row order. Branches outside the alias map do not contribute.
type TrendConfig struct {
	Aliases  map[string]string
	RowOrder []string
}

func DefaultTrendConfig() TrendConfig {
	return TrendConfig{Aliases: DefaultTrendAliases, RowOrder: DefaultTrendRowOrder}
}

// BuildTrend totals each snapshot per warehouse and lines the totals up
// oldest-first with day-over-day deltas, one series per warehouse in row
// order plus a grand-total series.
func BuildTrend(snapshots []Snapshot, cfg TrendConfig) []TrendSeries {
	if cfg.Aliases == nil {
		cfg = DefaultTrendConfig()
	}

	ordered := make([]Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	type totals struct{ box, kg float64 }
	byDate := make([]map[string]totals, len(ordered))
	for i, snap := range ordered {
		t := make(map[string]totals)
		for _, rec := range snap.Records {
			warehouse, ok := cfg.Aliases[rec.Location]
			if !ok {
				continue
			}
			cur := t[warehouse]
			cur.box += rec.Quantity
			cur.kg += rec.Weight
			t[warehouse] = cur
		}
		byDate[i] = t
	}

	rows := append([]string{}, cfg.RowOrder...)
	rows = append(rows, TrendTotalLabel)

	series := make([]TrendSeries, 0, len(rows))
	for _, warehouse := range rows {
		s := TrendSeries{Warehouse: warehouse, Points: make([]TrendPoint, 0, len(ordered))}
		for i, snap := range ordered {
			var p TrendPoint
			p.Date = dateOnly(snap.Date)
			if warehouse == TrendTotalLabel {
				for _, t := range byDate[i] {
					p.QtyBox += t.box
					p.WgtKG += t.kg
				}
			} else {
				t := byDate[i][warehouse]
				p.QtyBox = t.box
				p.WgtKG = t.kg
			}
			if i > 0 {
				prev := s.Points[i-1]
				p.DeltaBox = p.QtyBox - prev.QtyBox
				p.DeltaKG = p.WgtKG - prev.WgtKG
				p.HasDelta = true
			}
			s.Points = append(s.Points, p)
		}
		series = append(series, s)
	}
	return series
}
