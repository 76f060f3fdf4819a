package ledger

import "math"

// matchTolerance is the absolute tolerance for treating two quantities as
// equal. Weights are rounded to 2 decimals on both sides first, since the
// two systems disagree below that precision.
const matchTolerance = 1e-9

// ComparedEntry is one position present on both sides.
type ComparedEntry struct {
	Key         StockKey `json:"key"`
	ProductName string   `json:"product_name"`
	ERPQty      float64  `json:"erp_qty"`
	SMQty       float64  `json:"sm_qty"`
	QtyDiff     float64  `json:"qty_diff"`
	ERPWgt      float64  `json:"erp_wgt"`
	SMWgt       float64  `json:"sm_wgt"`
	WgtDiff     float64  `json:"wgt_diff"`
}

// ReconSummary carries the headline counters of a reconciliation.
// MatchRate is a percentage of the common positions; it is 0 when the two
// sides share nothing.
type ReconSummary struct {
	ERPTotal      int     `json:"erp_total"`
	SMTotal       int     `json:"sm_total"`
	CommonTotal   int     `json:"common_total"`
	OnlyERPCount  int     `json:"only_erp_count"`
	OnlySMCount   int     `json:"only_sm_count"`
	MatchCount    int     `json:"match_count"`
	MismatchCount int     `json:"mismatch_count"`
	MatchRate     float64 `json:"match_rate"`
}

// ReconciliationResult is the full outcome of comparing the two ledgers.
type ReconciliationResult struct {
	Summary    ReconSummary      `json:"summary"`
	OnlyERP    []AggregatedStock `json:"only_erp"`
	OnlySM     []AggregatedStock `json:"only_sm"`
	Matched    []ComparedEntry   `json:"matched"`
	Mismatched []ComparedEntry   `json:"mismatched"`
}

// Reconcile joins the aggregated ERP and SM ledgers on position key and
// classifies every position. An empty side degenerates cleanly: the other
// side lands in its only-list and the match rate is 0.
func Reconcile(erp, sm []AggregatedStock) ReconciliationResult {
	smIndex := make(map[StockKey]AggregatedStock, len(sm))
	for _, s := range sm {
		smIndex[s.Key] = s
	}
	matchedKeys := make(map[StockKey]struct{}, len(erp))

	res := ReconciliationResult{
		OnlyERP:    []AggregatedStock{},
		OnlySM:     []AggregatedStock{},
		Matched:    []ComparedEntry{},
		Mismatched: []ComparedEntry{},
	}

	for _, e := range erp {
		s, ok := smIndex[e.Key]
		if !ok {
			res.OnlyERP = append(res.OnlyERP, e)
			continue
		}
		matchedKeys[e.Key] = struct{}{}

		name := e.ProductName
		if name == "" {
			name = s.ProductName
		}
		entry := ComparedEntry{
			Key:         e.Key,
			ProductName: name,
			ERPQty:      e.Quantity,
			SMQty:       s.Quantity,
			QtyDiff:     e.Quantity - s.Quantity,
			ERPWgt:      e.Weight,
			SMWgt:       s.Weight,
			WgtDiff:     e.Weight - s.Weight,
		}
		qtyMatch := math.Abs(entry.QtyDiff) <= matchTolerance
		wgtMatch := math.Abs(roundFloat(e.Weight, 2)-roundFloat(s.Weight, 2)) <= matchTolerance
		if qtyMatch && wgtMatch {
			res.Matched = append(res.Matched, entry)
		} else {
			res.Mismatched = append(res.Mismatched, entry)
		}
	}

	for _, s := range sm {
		if _, ok := matchedKeys[s.Key]; !ok {
			res.OnlySM = append(res.OnlySM, s)
		}
	}

	res.Summary = ReconSummary{
		ERPTotal:      len(erp),
		SMTotal:       len(sm),
		CommonTotal:   len(res.Matched) + len(res.Mismatched),
		OnlyERPCount:  len(res.OnlyERP),
		OnlySMCount:   len(res.OnlySM),
		MatchCount:    len(res.Matched),
		MismatchCount: len(res.Mismatched),
	}
	if res.Summary.CommonTotal > 0 {
		res.Summary.MatchRate = float64(res.Summary.MatchCount) / float64(res.Summary.CommonTotal) * 100
	}
	return res
}
