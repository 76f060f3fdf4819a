package ledger

import "time"

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// MovementSummary totals the movement of one product at one branch over
// a window. ActiveDays counts the distinct calendar days with at least
// one transaction.
type MovementSummary struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Location    string  `json:"location"`
	TotalQtyBox float64 `json:"total_qty_box"`
	TotalQtyKG  float64 `json:"total_qty_kg"`
	ActiveDays  int     `json:"active_days"`
}

// TrailingWindow anchors a window of the given length on the newest
// transaction date in the data, not on the wall clock, so a stale log
// still analyzes its own most recent activity. Returns false when there
// is nothing to anchor on.
func TrailingWindow(txs []TransactionRecord, days int) (Window, bool) {
	if len(txs) == 0 || days <= 0 {
		return Window{}, false
	}
	end := dateOnly(txs[0].Date)
	for _, tx := range txs[1:] {
		if d := dateOnly(tx.Date); d.After(end) {
			end = d
		}
	}
	return Window{Start: end.AddDate(0, 0, -(days - 1)), End: end}, true
}

type movementKey struct {
	code     string
	name     string
	location string
}

// SummarizeWindow totals transactions inside the trailing window per
// (product code, product name, branch), in first-seen order. An empty
// input yields an empty summary and a zero window.
func SummarizeWindow(txs []TransactionRecord, days int) ([]MovementSummary, Window) {
	window, ok := TrailingWindow(txs, days)
	if !ok {
		return []MovementSummary{}, Window{}
	}

	index := make(map[movementKey]int)
	seenDays := make(map[movementKey]map[time.Time]struct{})
	summaries := make([]MovementSummary, 0)
	for _, tx := range txs {
		day := dateOnly(tx.Date)
		if !window.contains(day) {
			continue
		}
		key := movementKey{code: tx.ProductCode, name: tx.ProductName, location: tx.Location}
		i, ok := index[key]
		if !ok {
			i = len(summaries)
			index[key] = i
			seenDays[key] = make(map[time.Time]struct{})
			summaries = append(summaries, MovementSummary{
				ProductCode: tx.ProductCode,
				ProductName: tx.ProductName,
				Location:    tx.Location,
			})
		}
		summaries[i].TotalQtyBox += tx.QtyBox
		summaries[i].TotalQtyKG += tx.QtyKG
		if _, seen := seenDays[key][day]; !seen {
			seenDays[key][day] = struct{}{}
			summaries[i].ActiveDays++
		}
	}
	return summaries, window
}

// FilterTransactions keeps transactions matching the optional
// counterparty (exact) and product-name substring filters within the
// window. Used by the movement detail endpoint.
func FilterTransactions(txs []TransactionRecord, window Window, counterparty, nameContains string) []TransactionRecord {
	out := make([]TransactionRecord, 0)
	for _, tx := range txs {
		if !window.contains(dateOnly(tx.Date)) {
			continue
		}
		if counterparty != "" && tx.Counterparty != counterparty {
			continue
		}
		if nameContains != "" && !containsFold(tx.ProductName, nameContains) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
