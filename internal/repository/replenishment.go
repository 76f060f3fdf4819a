// backend-go/internal/repository/replenishment.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kmeatops/inventory-recon/backend-go/internal/domain"
	"github.com/kmeatops/inventory-recon/backend-go/internal/repository/postgres"
)

type ReplenishmentRepository interface {
	SaveSnapshot(ctx context.Context, lines []domain.ReplenishmentLine) error
	GetSnapshot(ctx context.Context, windowEnd string) ([]domain.ReplenishmentLine, error)
	GetSnapshotDates(ctx context.Context, limit int) ([]time.Time, error)
}

type replenishmentRepository struct {
	db *postgres.DB
}

func NewReplenishmentRepository(db *postgres.DB) ReplenishmentRepository {
	return &replenishmentRepository{db: db}
}

// SaveSnapshot replaces the archived lines for the snapshot's window end
// with the given set, inside one transaction.
func (r *replenishmentRepository) SaveSnapshot(ctx context.Context, lines []domain.ReplenishmentLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
        INSERT INTO replenishment_lines (
            window_end, window_days, location, product_code, product_name,
            avg_monthly_qty_box, avg_monthly_qty_kg,
            current_qty_box, needed_qty_box, needed_qty_kg, created_at
        ) VALUES (
            :window_end, :window_days, :location, :product_code, :product_name,
            :avg_monthly_qty_box, :avg_monthly_qty_kg,
            :current_qty_box, :needed_qty_box, :needed_qty_kg, :created_at
        )
    `

	now := time.Now().UTC()
	windowEnd := lines[0].WindowEnd

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM replenishment_lines WHERE window_end = $1`, windowEnd); err != nil {
			return fmt.Errorf("error clearing previous snapshot: %w", err)
		}

		for i := range lines {
			if lines[i].CreatedAt.IsZero() {
				lines[i].CreatedAt = now
			}
			if _, err := tx.NamedExecContext(ctx, query, lines[i]); err != nil {
				return fmt.Errorf("error archiving replenishment line: %w", err)
			}
		}
		return nil
	})
}

func (r *replenishmentRepository) GetSnapshot(ctx context.Context, windowEnd string) ([]domain.ReplenishmentLine, error) {
	query := `
        SELECT
            id, window_end, window_days, location, product_code, product_name,
            avg_monthly_qty_box, avg_monthly_qty_kg,
            current_qty_box, needed_qty_box, needed_qty_kg, created_at
        FROM replenishment_lines
        WHERE window_end = $1::date
        ORDER BY location, needed_qty_box DESC, product_code
    `

	var lines []domain.ReplenishmentLine
	if err := r.db.SelectContext(ctx, &lines, query, windowEnd); err != nil {
		return nil, fmt.Errorf("error getting replenishment snapshot: %w", err)
	}
	return lines, nil
}

func (r *replenishmentRepository) GetSnapshotDates(ctx context.Context, limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
        SELECT DISTINCT window_end
        FROM replenishment_lines
        ORDER BY window_end DESC
        LIMIT $1
    `

	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, limit); err != nil {
		return nil, fmt.Errorf("error getting snapshot dates: %w", err)
	}
	return dates, nil
}
