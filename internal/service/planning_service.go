// backend-go/internal/service/planning_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kmeatops/inventory-recon/backend-go/internal/cache"
	"github.com/kmeatops/inventory-recon/backend-go/internal/config"
	"github.com/kmeatops/inventory-recon/backend-go/internal/domain"
	"github.com/kmeatops/inventory-recon/backend-go/internal/ledger"
	"github.com/kmeatops/inventory-recon/backend-go/internal/repository"
	"github.com/kmeatops/inventory-recon/backend-go/internal/workbook"
)

// ReplenishmentReport is the suggestion payload served to clients.
type ReplenishmentReport struct {
	Window      ledger.Window                    `json:"window"`
	WindowDays  int                              `json:"window_days"`
	Suggestions []ledger.ReplenishmentSuggestion `json:"suggestions"`
	SalesStats  ledger.BatchStats                `json:"sales_stats"`
	StockStats  ledger.BatchStats                `json:"stock_stats"`
}

// MovementQuery narrows a transaction detail search.
type MovementQuery struct {
	WindowDays   int
	Side         string // "sales", "purchase" or "" for both
	Counterparty string
	NameContains string
}

// DailyMovement totals the matching transactions of one calendar day.
type DailyMovement struct {
	Date   time.Time `json:"date"`
	QtyBox float64   `json:"qty_box"`
	QtyKG  float64   `json:"qty_kg"`
}

// MovementReport lists the transactions matching a query together with
// their per-day totals.
type MovementReport struct {
	Window       ledger.Window              `json:"window"`
	Transactions []ledger.TransactionRecord `json:"transactions"`
	Daily        []DailyMovement            `json:"daily"`
}

type PlanningService struct {
	source WorkbookFetcher
	cache  cache.ReportCache
	runs   repository.ReportRunRepository
	cfg    config.AnalysisConfig
}

func NewPlanningService(source WorkbookFetcher, cacheImpl cache.ReportCache, runs repository.ReportRunRepository, cfg config.AnalysisConfig) *PlanningService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &PlanningService{source: source, cache: cacheImpl, runs: runs, cfg: cfg}
}

// Replenishment joins windowed sales against the newest branch snapshot
// and suggests topping each active position back up to its monthly
// average outflow. windowDays <= 0 falls back to the configured window.
func (s *PlanningService) Replenishment(ctx context.Context, windowDays int) (*ReplenishmentReport, error) {
	if windowDays <= 0 {
		windowDays = s.cfg.WindowDays
	}

	filter := cache.ReportFilter{Report: "replenish", WindowDays: windowDays}
	var cached ReplenishmentReport
	if ok, err := s.cache.Get(ctx, filter, &cached); err == nil && ok {
		return &cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("replenish: cache get failed")
	}

	sales, salesStats, err := s.loadSales()
	if err != nil {
		return nil, err
	}

	stock, stockStats, err := s.loadLatestStock()
	if err != nil {
		return nil, err
	}

	summaries, window := ledger.SummarizeWindow(sales, windowDays)
	suggestions := ledger.SuggestReplenishment(summaries, stock, ledger.ReplenishOptions{
		MonthsEquivalent:         s.cfg.MonthsEquivalent,
		MinAvgActiveDaysPerMonth: s.cfg.MinActiveDaysPerMonth,
	})

	report := &ReplenishmentReport{
		Window:      window,
		WindowDays:  windowDays,
		Suggestions: suggestions,
		SalesStats:  salesStats,
		StockStats:  stockStats,
	}

	s.recordRun(ctx, window.End, windowDays, mergedStats(salesStats, stockStats))

	if err := s.cache.Set(ctx, filter, report); err != nil {
		log.Warn().Err(err).Msg("replenish: cache set failed")
	}

	return report, nil
}

// ReplenishmentWorkbook renders the suggestion report as a downloadable
// spreadsheet. Returns the file bytes and a dated file name.
func (s *PlanningService) ReplenishmentWorkbook(ctx context.Context, windowDays int) ([]byte, string, error) {
	report, err := s.Replenishment(ctx, windowDays)
	if err != nil {
		return nil, "", err
	}

	data, err := workbook.ExportReplenishment(report.Suggestions)
	if err != nil {
		return nil, "", fmt.Errorf("rendering replenishment workbook: %w", err)
	}

	return data, workbook.ReplenishmentFileName(report.Window.End), nil
}

// Movements searches the trade log for transactions matching the query
// inside its trailing window.
func (s *PlanningService) Movements(ctx context.Context, q MovementQuery) (*MovementReport, error) {
	if q.WindowDays <= 0 {
		q.WindowDays = s.cfg.WindowDays
	}

	filter := cache.ReportFilter{
		Report:       "movements-" + q.Side,
		WindowDays:   q.WindowDays,
		Counterparty: q.Counterparty,
		NameContains: q.NameContains,
	}
	var cached MovementReport
	if ok, err := s.cache.Get(ctx, filter, &cached); err == nil && ok {
		return &cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("movements: cache get failed")
	}

	var txs []ledger.TransactionRecord
	switch q.Side {
	case "sales":
		sales, _, err := s.loadSales()
		if err != nil {
			return nil, err
		}
		txs = sales
	case "purchase":
		purchases, _, err := s.loadPurchases()
		if err != nil {
			return nil, err
		}
		txs = purchases
	case "":
		sales, _, err := s.loadSales()
		if err != nil {
			return nil, err
		}
		purchases, _, err := s.loadPurchases()
		if err != nil {
			return nil, err
		}
		txs = append(sales, purchases...)
	default:
		return nil, fmt.Errorf("unknown movement side %q", q.Side)
	}

	window, ok := ledger.TrailingWindow(txs, q.WindowDays)
	if !ok {
		return &MovementReport{Transactions: []ledger.TransactionRecord{}, Daily: []DailyMovement{}}, nil
	}

	matched := ledger.FilterTransactions(txs, window, q.Counterparty, q.NameContains)
	report := &MovementReport{
		Window:       window,
		Transactions: matched,
		Daily:        dailyTotals(matched),
	}

	if err := s.cache.Set(ctx, filter, report); err != nil {
		log.Warn().Err(err).Msg("movements: cache set failed")
	}

	return report, nil
}

func dailyTotals(txs []ledger.TransactionRecord) []DailyMovement {
	byDate := make(map[time.Time]*DailyMovement)
	for _, tx := range txs {
		d, ok := byDate[tx.Date]
		if !ok {
			d = &DailyMovement{Date: tx.Date}
			byDate[tx.Date] = d
		}
		d.QtyBox += tx.QtyBox
		d.QtyKG += tx.QtyKG
	}

	out := make([]DailyMovement, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *PlanningService) loadSales() ([]ledger.TransactionRecord, ledger.BatchStats, error) {
	wb, err := s.openTradeLog()
	if err != nil {
		return nil, ledger.BatchStats{}, err
	}
	defer wb.Close()

	rows, err := wb.Rows(ledger.SheetSales)
	if err != nil {
		return nil, ledger.BatchStats{}, fmt.Errorf("reading sales sheet: %w", err)
	}
	return ledger.NormalizeSalesLog(rows)
}

func (s *PlanningService) loadPurchases() ([]ledger.TransactionRecord, ledger.BatchStats, error) {
	wb, err := s.openTradeLog()
	if err != nil {
		return nil, ledger.BatchStats{}, err
	}
	defer wb.Close()

	rows, err := wb.Rows(ledger.SheetPurchase)
	if err != nil {
		return nil, ledger.BatchStats{}, fmt.Errorf("reading purchase sheet: %w", err)
	}
	return ledger.NormalizePurchaseLog(rows)
}

func (s *PlanningService) loadLatestStock() ([]ledger.AggregatedStock, ledger.BatchStats, error) {
	data, err := s.source.SMStock()
	if err != nil {
		return nil, ledger.BatchStats{}, fmt.Errorf("loading branch workbook: %w", err)
	}
	wb, err := workbook.OpenBytes(data)
	if err != nil {
		return nil, ledger.BatchStats{}, err
	}
	defer wb.Close()

	date, err := wb.LatestSheetDate()
	if err != nil {
		return nil, ledger.BatchStats{}, err
	}
	rows, err := wb.DatedRows(date)
	if err != nil {
		return nil, ledger.BatchStats{}, fmt.Errorf("reading branch sheet: %w", err)
	}
	records, stats, err := ledger.NormalizeSMStock(rows, nil)
	if err != nil {
		return nil, ledger.BatchStats{}, err
	}
	return ledger.AggregateStock(records), stats, nil
}

func (s *PlanningService) openTradeLog() (*workbook.Workbook, error) {
	data, err := s.source.TradeLog()
	if err != nil {
		return nil, fmt.Errorf("loading trade log workbook: %w", err)
	}
	return workbook.OpenBytes(data)
}

func (s *PlanningService) recordRun(ctx context.Context, windowEnd time.Time, windowDays int, stats ledger.BatchStats) {
	if s.runs == nil {
		return
	}
	run := &domain.ReportRun{
		ReportKind:   "replenish",
		SnapshotDate: windowEnd,
		WindowDays:   windowDays,
		RowsRead:     stats.RowsRead,
		RowsKept:     stats.RowsKept,
		CoercedCells: stats.CoercedCells,
		ExcludedRows: stats.ExcludedDates + stats.ExcludedLocations,
	}
	if err := s.runs.RecordRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("kind", "replenish").Msg("report run audit insert failed")
	}
}
