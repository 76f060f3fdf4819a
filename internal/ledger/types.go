package ledger

import "time"

// Row is a single spreadsheet row keyed by header name.
type Row map[string]string

// StockKey identifies one stock position: a product at a branch.
type StockKey struct {
	ProductCode string `json:"product_code"`
	Location    string `json:"location"`
}

// String is for log lines and cache keys only; it is never parsed back.
func (k StockKey) String() string {
	return k.ProductCode + "-" + k.Location
}

// StockRecord is one normalized row of a stock snapshot sheet.
// ExpiryDate stays raw text because the source files carry free-form
// values there; health checks interpret it.
type StockRecord struct {
	ReceiptNumber string     `json:"receipt_number,omitempty"`
	ProductCode   string     `json:"product_code"`
	ProductName   string     `json:"product_name"`
	Location      string     `json:"location"`
	Quantity      float64    `json:"quantity"`
	Weight        float64    `json:"weight"`
	ExpiryDate    string     `json:"expiry_date,omitempty"`
	RemainingDays *int       `json:"remaining_days,omitempty"`
	ReceiptDate   *time.Time `json:"receipt_date,omitempty"`
	InitialQtyBox float64    `json:"initial_qty_box,omitempty"`
	InitialQtyKG  float64    `json:"initial_qty_kg,omitempty"`
}

// TransactionRecord is one normalized row of the trade log.
type TransactionRecord struct {
	Date         time.Time `json:"date"`
	ProductCode  string    `json:"product_code"`
	ProductName  string    `json:"product_name"`
	Location     string    `json:"location"`
	QtyBox       float64   `json:"qty_box"`
	QtyKG        float64   `json:"qty_kg"`
	Counterparty string    `json:"counterparty,omitempty"`
}

// AggregatedStock is the per-position total after grouping a snapshot.
type AggregatedStock struct {
	Key         StockKey `json:"key"`
	ProductName string   `json:"product_name"`
	Quantity    float64  `json:"quantity"`
	Weight      float64  `json:"weight"`
}

// BatchStats reports what normalization did to a batch of rows.
// Coerced cells and excluded rows are soft conditions; the batch
// itself is still usable.
type BatchStats struct {
	RowsRead          int `json:"rows_read"`
	RowsKept          int `json:"rows_kept"`
	CoercedCells      int `json:"coerced_cells"`
	ExcludedDates     int `json:"excluded_dates"`
	ExcludedLocations int `json:"excluded_locations"`
}

// Merge folds another batch's counters into this one.
func (s *BatchStats) Merge(other BatchStats) {
	s.RowsRead += other.RowsRead
	s.RowsKept += other.RowsKept
	s.CoercedCells += other.CoercedCells
	s.ExcludedDates += other.ExcludedDates
	s.ExcludedLocations += other.ExcludedLocations
}

// Snapshot pairs a sheet date with its normalized records.
type Snapshot struct {
	Date    time.Time     `json:"date"`
	Records []StockRecord `json:"records"`
}
