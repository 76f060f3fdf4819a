// backend-go/internal/domain/models.go
package domain

import "time"

// ReportRun is the persisted audit record for one report execution.
type ReportRun struct {
	ID              int64     `json:"id" db:"id"`
	ReportKind      string    `json:"report_kind" db:"report_kind"`
	SnapshotDate    time.Time `json:"snapshot_date" db:"snapshot_date"`
	WindowDays      int       `json:"window_days" db:"window_days"`
	RowsRead        int       `json:"rows_read" db:"rows_read"`
	RowsKept        int       `json:"rows_kept" db:"rows_kept"`
	CoercedCells    int       `json:"coerced_cells" db:"coerced_cells"`
	ExcludedRows    int       `json:"excluded_rows" db:"excluded_rows"`
	MatchedCount    int       `json:"matched_count" db:"matched_count"`
	MismatchedCount int       `json:"mismatched_count" db:"mismatched_count"`
	OnlyERPCount    int       `json:"only_erp_count" db:"only_erp_count"`
	OnlySMCount     int       `json:"only_sm_count" db:"only_sm_count"`
	MatchRate       float64   `json:"match_rate" db:"match_rate"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// ReportRunFilter represents filters for report run history queries
type ReportRunFilter struct {
	ReportKinds  []string `json:"report_kinds"`
	SnapshotDate string   `json:"snapshot_date"`
	Page         int      `json:"page"`
	PageSize     int      `json:"page_size"`
}

// ReportRunSummary represents run counts grouped by report kind
type ReportRunSummary struct {
	ReportKind string `json:"report_kind" db:"report_kind"`
	Count      int    `json:"count" db:"count"`
}

// ReplenishmentLine is one archived replenishment suggestion.
type ReplenishmentLine struct {
	ID               int64     `json:"id" db:"id"`
	WindowEnd        time.Time `json:"window_end" db:"window_end"`
	WindowDays       int       `json:"window_days" db:"window_days"`
	Location         string    `json:"location" db:"location"`
	ProductCode      string    `json:"product_code" db:"product_code"`
	ProductName      string    `json:"product_name" db:"product_name"`
	AvgMonthlyQtyBox float64   `json:"avg_monthly_qty_box" db:"avg_monthly_qty_box"`
	AvgMonthlyQtyKG  float64   `json:"avg_monthly_qty_kg" db:"avg_monthly_qty_kg"`
	CurrentQtyBox    float64   `json:"current_qty_box" db:"current_qty_box"`
	NeededQtyBox     float64   `json:"needed_qty_box" db:"needed_qty_box"`
	NeededQtyKG      float64   `json:"needed_qty_kg" db:"needed_qty_kg"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
