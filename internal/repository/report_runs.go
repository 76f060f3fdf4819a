// backend-go/internal/repository/report_runs.go
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kmeatops/inventory-recon/backend-go/internal/domain"
)

type ReportRunRepository interface {
	RecordRun(ctx context.Context, run *domain.ReportRun) error
	GetRuns(ctx context.Context, filter domain.ReportRunFilter) ([]domain.ReportRun, int, error)
	GetRunSummary(ctx context.Context, filter domain.ReportRunFilter) ([]domain.ReportRunSummary, error)
	GetAvailableDates(ctx context.Context, limit int) ([]time.Time, error)
}

type reportRunRepository struct {
	db *sqlx.DB
}

func NewReportRunRepository(db *sqlx.DB) ReportRunRepository {
	return &reportRunRepository{db: db}
}

func (r *reportRunRepository) RecordRun(ctx context.Context, run *domain.ReportRun) error {
	query := `
        INSERT INTO report_runs (
            report_kind, snapshot_date, window_days,
            rows_read, rows_kept, coerced_cells, excluded_rows,
            matched_count, mismatched_count, only_erp_count, only_sm_count,
            match_rate, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowxContext(ctx, query,
		run.ReportKind, run.SnapshotDate, run.WindowDays,
		run.RowsRead, run.RowsKept, run.CoercedCells, run.ExcludedRows,
		run.MatchedCount, run.MismatchedCount, run.OnlyERPCount, run.OnlySMCount,
		run.MatchRate, run.CreatedAt,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("error recording report run: %w", err)
	}

	return nil
}

func (r *reportRunRepository) GetRuns(ctx context.Context, filter domain.ReportRunFilter) ([]domain.ReportRun, int, error) {
	countQuery := `
        SELECT COUNT(*)
        FROM report_runs
        WHERE 1=1
    `

	query := `
        SELECT
            id, report_kind, snapshot_date, window_days,
            rows_read, rows_kept, coerced_cells, excluded_rows,
            matched_count, mismatched_count, only_erp_count, only_sm_count,
            match_rate, created_at
        FROM report_runs
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if len(filter.ReportKinds) > 0 {
		conditions = append(conditions, fmt.Sprintf("report_kind = ANY($%d::text[])", argCounter))
		args = append(args, pq.Array(filter.ReportKinds))
		argCounter++
	}

	if filter.SnapshotDate != "" {
		conditions = append(conditions, fmt.Sprintf("snapshot_date = $%d::date", argCounter))
		args = append(args, filter.SnapshotDate)
		argCounter++
	}

	if len(conditions) > 0 {
		whereClause := " AND " + strings.Join(conditions, " AND ")
		query += whereClause
		countQuery += whereClause
	}

	var total int
	err := r.db.GetContext(ctx, &total, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting report runs: %w", err)
	}

	query += " ORDER BY created_at DESC"

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.PageSize, offset)
	}

	var runs []domain.ReportRun
	err = r.db.SelectContext(ctx, &runs, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting report runs: %w", err)
	}

	return runs, total, nil
}

func (r *reportRunRepository) GetRunSummary(ctx context.Context, filter domain.ReportRunFilter) ([]domain.ReportRunSummary, error) {
	query := `
        SELECT
            report_kind,
            COUNT(*) as count
        FROM report_runs
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if len(filter.ReportKinds) > 0 {
		conditions = append(conditions, fmt.Sprintf("report_kind = ANY($%d::text[])", argCounter))
		args = append(args, pq.Array(filter.ReportKinds))
		argCounter++
	}

	if filter.SnapshotDate != "" {
		conditions = append(conditions, fmt.Sprintf("snapshot_date = $%d::date", argCounter))
		args = append(args, filter.SnapshotDate)
		argCounter++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " GROUP BY report_kind"

	var summaries []domain.ReportRunSummary
	err := r.db.SelectContext(ctx, &summaries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error getting report run summary: %w", err)
	}

	return summaries, nil
}

func (r *reportRunRepository) GetAvailableDates(ctx context.Context, limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
        SELECT DISTINCT snapshot_date
        FROM report_runs
        ORDER BY snapshot_date DESC
        LIMIT $1
    `

	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, limit); err != nil {
		return nil, fmt.Errorf("error getting available dates: %w", err)
	}

	return dates, nil
}
