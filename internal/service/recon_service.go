// backend-go/internal/service/recon_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kmeatops/inventory-recon/backend-go/internal/cache"
	"github.com/kmeatops/inventory-recon/backend-go/internal/config"
	"github.com/kmeatops/inventory-recon/backend-go/internal/domain"
	"github.com/kmeatops/inventory-recon/backend-go/internal/ledger"
	"github.com/kmeatops/inventory-recon/backend-go/internal/repository"
	"github.com/kmeatops/inventory-recon/backend-go/internal/workbook"
)

// WorkbookFetcher supplies the raw bytes of the three source workbooks.
type WorkbookFetcher interface {
	ERPStock() ([]byte, error)
	SMStock() ([]byte, error)
	TradeLog() ([]byte, error)
}

// ReconReport is the reconciliation payload served to clients.
type ReconReport struct {
	SnapshotDate string                      `json:"snapshot_date"`
	Result       ledger.ReconciliationResult `json:"result"`
	ERPStats     ledger.BatchStats           `json:"erp_stats"`
	SMStats      ledger.BatchStats           `json:"sm_stats"`
}

// HealthSnapshotReport is the stock health payload for one snapshot date.
type HealthSnapshotReport struct {
	SnapshotDate string              `json:"snapshot_date"`
	Report       ledger.HealthReport `json:"report"`
	Stats        ledger.BatchStats   `json:"stats"`
}

// TrendReport carries the per-warehouse daily trend series.
type TrendReport struct {
	Dates  []string             `json:"dates"`
	Series []ledger.TrendSeries `json:"series"`
}

type ReconService struct {
	source WorkbookFetcher
	cache  cache.ReportCache
	runs   repository.ReportRunRepository
	cfg    config.AnalysisConfig
}

func NewReconService(source WorkbookFetcher, cacheImpl cache.ReportCache, runs repository.ReportRunRepository, cfg config.AnalysisConfig) *ReconService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &ReconService{source: source, cache: cacheImpl, runs: runs, cfg: cfg}
}

// Reconcile compares the ERP and branch ledgers for one snapshot date.
// An empty date picks the newest date present in both workbooks.
func (s *ReconService) Reconcile(ctx context.Context, snapshotDate string) (*ReconReport, error) {
	filter := cache.ReportFilter{Report: "recon", SnapshotDate: snapshotDate}
	var cached ReconReport
	if ok, err := s.cache.Get(ctx, filter, &cached); err == nil && ok {
		return &cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("recon: cache get failed")
	}

	erpWb, err := s.openWorkbook(s.source.ERPStock)
	if err != nil {
		return nil, fmt.Errorf("loading erp workbook: %w", err)
	}
	defer erpWb.Close()

	smWb, err := s.openWorkbook(s.source.SMStock)
	if err != nil {
		return nil, fmt.Errorf("loading branch workbook: %w", err)
	}
	defer smWb.Close()

	date, err := commonSnapshotDate(erpWb, smWb, snapshotDate)
	if err != nil {
		return nil, err
	}

	erpRows, err := erpWb.DatedRows(date)
	if err != nil {
		return nil, fmt.Errorf("reading erp sheet: %w", err)
	}
	smRows, err := smWb.DatedRows(date)
	if err != nil {
		return nil, fmt.Errorf("reading branch sheet: %w", err)
	}

	erpRecords, erpStats, err := ledger.NormalizeERPStock(erpRows, ledger.DefaultERPLocationAliases)
	if err != nil {
		return nil, err
	}
	smRecords, smStats, err := ledger.NormalizeSMStock(smRows, ledger.TargetBranches(ledger.DefaultERPLocationAliases))
	if err != nil {
		return nil, err
	}

	result := ledger.Reconcile(ledger.AggregateStock(erpRecords), ledger.AggregateStock(smRecords))

	report := &ReconReport{
		SnapshotDate: date.Format("2006-01-02"),
		Result:       result,
		ERPStats:     erpStats,
		SMStats:      smStats,
	}

	s.recordRun(ctx, "recon", date, 0, mergedStats(erpStats, smStats), &result.Summary)

	if err := s.cache.Set(ctx, filter, report); err != nil {
		log.Warn().Err(err).Msg("recon: cache set failed")
	}

	return report, nil
}

// Health classifies the branch ledger of one snapshot date into missing
// expiry, imminent expiry and long-term aged stock.
func (s *ReconService) Health(ctx context.Context, snapshotDate string) (*HealthSnapshotReport, error) {
	filter := cache.ReportFilter{Report: "health", SnapshotDate: snapshotDate}
	var cached HealthSnapshotReport
	if ok, err := s.cache.Get(ctx, filter, &cached); err == nil && ok {
		return &cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("health: cache get failed")
	}

	smWb, err := s.openWorkbook(s.source.SMStock)
	if err != nil {
		return nil, fmt.Errorf("loading branch workbook: %w", err)
	}
	defer smWb.Close()

	date, err := resolveSnapshotDate(smWb, snapshotDate)
	if err != nil {
		return nil, err
	}

	rows, err := smWb.DatedRows(date)
	if err != nil {
		return nil, fmt.Errorf("reading branch sheet: %w", err)
	}

	records, stats, err := ledger.NormalizeSMStock(rows, nil)
	if err != nil {
		return nil, err
	}

	report := &HealthSnapshotReport{
		SnapshotDate: date.Format("2006-01-02"),
		Report:       ledger.ClassifyHealth(records, date, s.thresholds()),
		Stats:        stats,
	}

	s.recordRun(ctx, "health", date, 0, stats, nil)

	if err := s.cache.Set(ctx, filter, report); err != nil {
		log.Warn().Err(err).Msg("health: cache set failed")
	}

	return report, nil
}

// Trend builds the per-warehouse box and weight totals over the newest
// snapshot sheets, with day-over-day deltas.
func (s *ReconService) Trend(ctx context.Context) (*TrendReport, error) {
	filter := cache.ReportFilter{Report: "trend"}
	var cached TrendReport
	if ok, err := s.cache.Get(ctx, filter, &cached); err == nil && ok {
		return &cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("trend: cache get failed")
	}

	smWb, err := s.openWorkbook(s.source.SMStock)
	if err != nil {
		return nil, fmt.Errorf("loading branch workbook: %w", err)
	}
	defer smWb.Close()

	dates := smWb.SheetDates()
	if len(dates) == 0 {
		return nil, fmt.Errorf("no snapshot sheets found")
	}
	count := s.cfg.TrendSheetCount
	if count <= 0 {
		count = 7
	}
	if len(dates) > count {
		dates = dates[:count]
	}

	// Sheets are read sequentially, the file handle is shared.
	// Normalization fans out per snapshot.
	sheetRows := make([][]ledger.Row, len(dates))
	for i, date := range dates {
		rows, err := smWb.DatedRows(date)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", workbook.SheetName(date), err)
		}
		sheetRows[i] = rows
	}

	snapshots := make([]ledger.Snapshot, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	for i, date := range dates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, _, err := ledger.NormalizeSMStock(sheetRows[i], nil)
			if err != nil {
				return err
			}
			snapshots[i] = ledger.Snapshot{Date: date, Records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	series := ledger.BuildTrend(snapshots, ledger.DefaultTrendConfig())

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = d.Format("2006-01-02")
	}

	report := &TrendReport{Dates: labels, Series: series}

	if err := s.cache.Set(ctx, filter, report); err != nil {
		log.Warn().Err(err).Msg("trend: cache set failed")
	}

	return report, nil
}

// AvailableDates lists the snapshot dates present in the branch
// workbook, newest first.
func (s *ReconService) AvailableDates(ctx context.Context) ([]string, error) {
	smWb, err := s.openWorkbook(s.source.SMStock)
	if err != nil {
		return nil, fmt.Errorf("loading branch workbook: %w", err)
	}
	defer smWb.Close()

	dates := smWb.SheetDates()
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format("2006-01-02")
	}
	return out, nil
}

// RunHistory returns recorded report runs.
func (s *ReconService) RunHistory(ctx context.Context, filter domain.ReportRunFilter) ([]domain.ReportRun, int, error) {
	if s.runs == nil {
		return []domain.ReportRun{}, 0, nil
	}
	return s.runs.GetRuns(ctx, filter)
}

// RunSummary returns recorded run counts grouped by report kind.
func (s *ReconService) RunSummary(ctx context.Context, filter domain.ReportRunFilter) ([]domain.ReportRunSummary, error) {
	if s.runs == nil {
		return []domain.ReportRunSummary{}, nil
	}
	return s.runs.GetRunSummary(ctx, filter)
}

// InvalidateReports drops every cached report. Used after new workbook
// uploads land.
func (s *ReconService) InvalidateReports(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

func (s *ReconService) thresholds() ledger.HealthThresholds {
	t := ledger.DefaultHealthThresholds()
	if s.cfg.RefrigeratedKeyword != "" {
		t.RefrigeratedKeyword = s.cfg.RefrigeratedKeyword
	}
	if s.cfg.RefrigeratedAlertDays > 0 {
		t.RefrigeratedDays = s.cfg.RefrigeratedAlertDays
	}
	if s.cfg.DefaultAlertDays > 0 {
		t.DefaultDays = s.cfg.DefaultAlertDays
	}
	if s.cfg.AgingMonths > 0 {
		t.AgingMonths = s.cfg.AgingMonths
	}
	return t
}

func (s *ReconService) openWorkbook(fetch func() ([]byte, error)) (*workbook.Workbook, error) {
	data, err := fetch()
	if err != nil {
		return nil, err
	}
	return workbook.OpenBytes(data)
}

func (s *ReconService) recordRun(ctx context.Context, kind string, date time.Time, windowDays int, stats ledger.BatchStats, summary *ledger.ReconSummary) {
	if s.runs == nil {
		return
	}
	run := &domain.ReportRun{
		ReportKind:   kind,
		SnapshotDate: date,
		WindowDays:   windowDays,
		RowsRead:     stats.RowsRead,
		RowsKept:     stats.RowsKept,
		CoercedCells: stats.CoercedCells,
		ExcludedRows: stats.ExcludedDates + stats.ExcludedLocations,
	}
	if summary != nil {
		run.MatchedCount = summary.MatchCount
		run.MismatchedCount = summary.MismatchCount
		run.OnlyERPCount = summary.OnlyERPCount
		run.OnlySMCount = summary.OnlySMCount
		run.MatchRate = summary.MatchRate
	}
	if err := s.runs.RecordRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("report run audit insert failed")
	}
}

func mergedStats(stats ...ledger.BatchStats) ledger.BatchStats {
	var out ledger.BatchStats
	for _, s := range stats {
		out.Merge(s)
	}
	return out
}

var snapshotDateLayouts = []string{"2006-01-02", "20060102"}

func parseSnapshotDate(v string) (time.Time, error) {
	for _, layout := range snapshotDateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid snapshot date %q", v)
}

func resolveSnapshotDate(wb *workbook.Workbook, requested string) (time.Time, error) {
	if requested == "" {
		return wb.LatestSheetDate()
	}
	date, err := parseSnapshotDate(requested)
	if err != nil {
		return time.Time{}, err
	}
	if !wb.HasSheet(workbook.SheetName(date)) {
		return time.Time{}, fmt.Errorf("no snapshot sheet for %s", requested)
	}
	return date, nil
}

// commonSnapshotDate resolves a date both workbooks have a sheet for.
// Without an explicit request it picks the newest shared date.
func commonSnapshotDate(erpWb, smWb *workbook.Workbook, requested string) (time.Time, error) {
	if requested != "" {
		date, err := parseSnapshotDate(requested)
		if err != nil {
			return time.Time{}, err
		}
		name := workbook.SheetName(date)
		if !erpWb.HasSheet(name) || !smWb.HasSheet(name) {
			return time.Time{}, fmt.Errorf("no snapshot sheet for %s in both workbooks", requested)
		}
		return date, nil
	}
	for _, date := range erpWb.SheetDates() {
		if smWb.HasSheet(workbook.SheetName(date)) {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("no common snapshot sheet between workbooks")
}
