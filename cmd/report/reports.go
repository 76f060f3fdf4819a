// backend-go/cmd/report/reports.go
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"github.com/kmeatops/inventory-recon/backend-go/internal/cache"
	"github.com/kmeatops/inventory-recon/backend-go/internal/config"
	"github.com/kmeatops/inventory-recon/backend-go/internal/domain"
	"github.com/kmeatops/inventory-recon/backend-go/internal/drive"
	"github.com/kmeatops/inventory-recon/backend-go/internal/repository"
	"github.com/kmeatops/inventory-recon/backend-go/internal/repository/postgres"
	"github.com/kmeatops/inventory-recon/backend-go/internal/service"
)

// auditDB pulls the connection opened by the command's Before hook and
// wraps it for the repositories.
func auditDB(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return postgres.Wrap(sqlx.NewDb(db, "pgx")), nil
}

func newServices() (*service.ReconService, *service.PlanningService, error) {
	cfg := config.Load()

	source, err := newWorkbookSource(cfg)
	if err != nil {
		return nil, nil, err
	}

	noop := cache.NewNoopReportCache()
	recon := service.NewReconService(source, noop, nil, cfg.Analysis)
	planning := service.NewPlanningService(source, noop, nil, cfg.Analysis)
	return recon, planning, nil
}

// newWorkbookSource prefers Google Drive when a folder is configured and
// falls back to the local workbook directory.
func newWorkbookSource(cfg *config.Config) (service.WorkbookFetcher, error) {
	if cfg.Drive.FolderID != "" {
		creds := os.Getenv("GOOGLE_DRIVE_CREDENTIALS_JSON")
		if creds == "" {
			data, err := os.ReadFile(cfg.Drive.CredentialsFile)
			if err != nil {
				return nil, fmt.Errorf("loading drive credentials: %w", err)
			}
			creds = string(data)
		}
		driveService, err := drive.NewService(creds)
		if err != nil {
			return nil, err
		}
		return drive.NewWorkbookSource(driveService, cfg.Drive.FolderID, drive.WorkbookNames{
			ERPStock: cfg.Drive.ERPStockFile,
			SMStock:  cfg.Drive.SMStockFile,
			TradeLog: cfg.Drive.TradeLogFile,
		}), nil
	}

	return service.NewLocalWorkbookSource(cfg.App.DataDir, cfg.Drive.ERPStockFile, cfg.Drive.SMStockFile, cfg.Drive.TradeLogFile), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runReconcile(c *cli.Context) error {
	recon, _, err := newServices()
	if err != nil {
		return err
	}

	report, err := recon.Reconcile(c.Context, c.String("date"))
	if err != nil {
		return err
	}

	return printJSON(report)
}

func runHealth(c *cli.Context) error {
	recon, _, err := newServices()
	if err != nil {
		return err
	}

	report, err := recon.Health(c.Context, c.String("date"))
	if err != nil {
		return err
	}

	return printJSON(report)
}

func runTrend(c *cli.Context) error {
	recon, _, err := newServices()
	if err != nil {
		return err
	}

	report, err := recon.Trend(c.Context)
	if err != nil {
		return err
	}

	return printJSON(report)
}

func runReplenish(c *cli.Context) error {
	_, planning, err := newServices()
	if err != nil {
		return err
	}

	if !c.Bool("export") {
		report, err := planning.Replenishment(c.Context, c.Int("window-days"))
		if err != nil {
			return err
		}
		return printJSON(report)
	}

	data, filename, err := planning.ReplenishmentWorkbook(c.Context, c.Int("window-days"))
	if err != nil {
		return err
	}

	path := filepath.Join(config.Load().App.ExportDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}

func runMovements(c *cli.Context) error {
	_, planning, err := newServices()
	if err != nil {
		return err
	}

	report, err := planning.Movements(c.Context, service.MovementQuery{
		WindowDays:   c.Int("window-days"),
		Side:         c.String("side"),
		Counterparty: c.String("counterparty"),
		NameContains: c.String("name"),
	})
	if err != nil {
		return err
	}

	return printJSON(report)
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS report_runs (
    id BIGSERIAL PRIMARY KEY,
    report_kind TEXT NOT NULL,
    snapshot_date DATE NOT NULL,
    window_days INT NOT NULL DEFAULT 0,
    rows_read INT NOT NULL DEFAULT 0,
    rows_kept INT NOT NULL DEFAULT 0,
    coerced_cells INT NOT NULL DEFAULT 0,
    excluded_rows INT NOT NULL DEFAULT 0,
    matched_count INT NOT NULL DEFAULT 0,
    mismatched_count INT NOT NULL DEFAULT 0,
    only_erp_count INT NOT NULL DEFAULT 0,
    only_sm_count INT NOT NULL DEFAULT 0,
    match_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_report_runs_kind_date
    ON report_runs (report_kind, snapshot_date);

CREATE TABLE IF NOT EXISTS replenishment_lines (
    id BIGSERIAL PRIMARY KEY,
    window_end DATE NOT NULL,
    window_days INT NOT NULL,
    location TEXT NOT NULL,
    product_code TEXT NOT NULL,
    product_name TEXT NOT NULL,
    avg_monthly_qty_box DOUBLE PRECISION NOT NULL DEFAULT 0,
    avg_monthly_qty_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
    current_qty_box DOUBLE PRECISION NOT NULL DEFAULT 0,
    needed_qty_box DOUBLE PRECISION NOT NULL DEFAULT 0,
    needed_qty_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_replenishment_lines_window
    ON replenishment_lines (window_end);
`

func runSeed(c *cli.Context) error {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.ExecContext(c.Context, schemaDDL); err != nil {
		return fmt.Errorf("failed to create report tables: %w", err)
	}

	fmt.Println("report tables ready")
	return nil
}

// runArchive computes the replenishment report and persists its lines,
// replacing any earlier archive for the same window end.
func runArchive(c *cli.Context) error {
	db, err := auditDB(c)
	if err != nil {
		return err
	}

	_, planning, err := newServices()
	if err != nil {
		return err
	}

	report, err := planning.Replenishment(c.Context, c.Int("window-days"))
	if err != nil {
		return err
	}

	lines := make([]domain.ReplenishmentLine, 0, len(report.Suggestions))
	for _, s := range report.Suggestions {
		lines = append(lines, domain.ReplenishmentLine{
			WindowEnd:        report.Window.End,
			WindowDays:       report.WindowDays,
			Location:         s.Location,
			ProductCode:      s.ProductCode,
			ProductName:      s.ProductName,
			AvgMonthlyQtyBox: s.AvgMonthlyQtyBox,
			AvgMonthlyQtyKG:  s.AvgMonthlyQtyKG,
			CurrentQtyBox:    s.CurrentQtyBox,
			NeededQtyBox:     s.NeededQtyBox,
			NeededQtyKG:      s.NeededQtyKG,
		})
	}

	repo := repository.NewReplenishmentRepository(db)
	if err := repo.SaveSnapshot(c.Context, lines); err != nil {
		return err
	}

	fmt.Printf("archived %d lines for %s\n", len(lines), report.Window.End.Format("2006-01-02"))
	return nil
}

// runListArchives prints archived snapshot dates, or one snapshot's
// lines when --window-end is given.
func runListArchives(c *cli.Context) error {
	db, err := auditDB(c)
	if err != nil {
		return err
	}

	repo := repository.NewReplenishmentRepository(db)

	if end := c.String("window-end"); end != "" {
		lines, err := repo.GetSnapshot(c.Context, end)
		if err != nil {
			return err
		}
		return printJSON(lines)
	}

	dates, err := repo.GetSnapshotDates(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	for _, d := range dates {
		fmt.Println(d.Format("2006-01-02"))
	}
	return nil
}

func runListRuns(c *cli.Context) error {
	db, err := auditDB(c)
	if err != nil {
		return err
	}

	repo := repository.NewReportRunRepository(db.DB)

	if c.Bool("dates") {
		dates, err := repo.GetAvailableDates(c.Context, c.Int("limit"))
		if err != nil {
			return err
		}
		for _, d := range dates {
			fmt.Println(d.Format("2006-01-02"))
		}
		return nil
	}

	runs, total, err := repo.GetRuns(c.Context, domain.ReportRunFilter{
		Page:     1,
		PageSize: c.Int("limit"),
	})
	if err != nil {
		return err
	}

	for _, r := range runs {
		fmt.Printf("%-10s %s window=%dd read=%d kept=%d matched=%d mismatched=%d rate=%.1f%% at=%s\n",
			r.ReportKind, r.SnapshotDate.Format("2006-01-02"), r.WindowDays,
			r.RowsRead, r.RowsKept, r.MatchedCount, r.MismatchedCount, r.MatchRate,
			r.CreatedAt.Format(time.RFC3339))
	}
	fmt.Printf("%d runs total\n", total)
	return nil
}
