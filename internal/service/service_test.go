package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kmeatops/inventory-recon/backend-go/internal/config"
	"github.com/kmeatops/inventory-recon/backend-go/internal/domain"
	"github.com/kmeatops/inventory-recon/backend-go/internal/ledger"
)

type fakeSource struct {
	erp, sm, trade []byte
}

func (f *fakeSource) ERPStock() ([]byte, error) { return f.erp, nil }
func (f *fakeSource) SMStock() ([]byte, error)  { return f.sm, nil }
func (f *fakeSource) TradeLog() ([]byte, error) { return f.trade, nil }

type fakeRuns struct {
	recorded []domain.ReportRun
}

func (f *fakeRuns) RecordRun(ctx context.Context, run *domain.ReportRun) error {
	run.ID = int64(len(f.recorded) + 1)
	f.recorded = append(f.recorded, *run)
	return nil
}

func (f *fakeRuns) GetRuns(ctx context.Context, filter domain.ReportRunFilter) ([]domain.ReportRun, int, error) {
	return f.recorded, len(f.recorded), nil
}

func (f *fakeRuns) GetRunSummary(ctx context.Context, filter domain.ReportRunFilter) ([]domain.ReportRunSummary, error) {
	counts := map[string]int{}
	for _, r := range f.recorded {
		counts[r.ReportKind]++
	}
	out := make([]domain.ReportRunSummary, 0, len(counts))
	for kind, n := range counts {
		out = append(out, domain.ReportRunSummary{ReportKind: kind, Count: n})
	}
	return out, nil
}

func (f *fakeRuns) GetAvailableDates(ctx context.Context, limit int) ([]time.Time, error) {
	var dates []time.Time
	for _, r := range f.recorded {
		dates = append(dates, r.SnapshotDate)
	}
	return dates, nil
}

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		WindowDays:            90,
		MonthsEquivalent:      3,
		MinActiveDaysPerMonth: 1,
		RefrigeratedKeyword:   "냉장",
		RefrigeratedAlertDays: 21,
		DefaultAlertDays:      90,
		AgingMonths:           3,
		TrendSheetCount:       7,
	}
}

func writeSheet(t *testing.T, f *excelize.File, sheet string, rows [][]interface{}) {
	t.Helper()
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
}

func workbookBytes(t *testing.T, f *excelize.File) []byte {
	t.Helper()
	require.NoError(t, f.DeleteSheet("Sheet1"))
	data, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return data.Bytes()
}

func buildERPWorkbook(t *testing.T) []byte {
	f := excelize.NewFile()
	writeSheet(t, f, "20260803", [][]interface{}{
		{"호실", "상품코드", "품목명", "수량", "중량"},
		{"냉동", "1001", "삼겹살", 4, 120.5},
		{"냉동", "3003", "목살", 2, 40},
		{"기타창고", "9999", "잡육", 1, 5},
	})
	return workbookBytes(t, f)
}

func buildSMWorkbook(t *testing.T) []byte {
	f := excelize.NewFile()
	smHeader := []interface{}{"지점명", "상품코드", "상품명", "잔량(박스)", "잔량(Kg)", "소비기한", "입고일자", "잔여일수"}
	writeSheet(t, f, "20260801", [][]interface{}{
		smHeader,
		{"신갈냉동", "1001", "삼겹살", 6, 140.5, "2026-12-01", "2026-07-20", 120},
	})
	writeSheet(t, f, "20260803", [][]interface{}{
		smHeader,
		{"신갈냉동", "1001", "삼겹살", 4, 120.5, "2026-12-01", "2026-07-20", 120},
		{"신갈냉동", "2002", "항정살", 3, 33, "nan", "2026-03-01", ""},
		{"케이미트스토어", "4004", "냉장 등심", 1, 12, "2026-08-10", "2026-08-01", 7},
		{"외부창고", "5005", "우삼겹", 2, 20, "", "", ""},
	})
	return workbookBytes(t, f)
}

func buildTradeLogWorkbook(t *testing.T) []byte {
	f := excelize.NewFile()
	writeSheet(t, f, "s-list", [][]interface{}{
		{"매출일자", "상품코드", "상  품  명", "수량(Box)", "수량(Kg)", "지점명", "거래처명"},
		{"2026-08-01", "1001", "삼겹살", 10, 250, "신갈냉동", "한돈유통"},
		{"2026-08-02", "1001", "삼겹살", 10, 250, "신갈냉동", "한돈유통"},
		{"2026-08-03", "1001", "삼겹살", 10, 250, "신갈냉동", "서울상회"},
	})
	writeSheet(t, f, "p-list", [][]interface{}{
		{"매입일자", "코드", "상 품 명", "지 점 명", "Box", "Kg", "거래처명"},
		{"2026-08-02", "1001", "삼겹살", "신갈냉동", 20, 500, "도축장"},
		{"", "", "삼겹살", "", 5, 125, ""},
	})
	return workbookBytes(t, f)
}

func newTestSource(t *testing.T) *fakeSource {
	return &fakeSource{
		erp:   buildERPWorkbook(t),
		sm:    buildSMWorkbook(t),
		trade: buildTradeLogWorkbook(t),
	}
}

func TestReconcileFromWorkbooks(t *testing.T) {
	svc := NewReconService(newTestSource(t), nil, nil, testAnalysisConfig())

	report, err := svc.Reconcile(context.Background(), "")
	require.NoError(t, err)

	require.Equal(t, "2026-08-03", report.SnapshotDate)

	require.Len(t, report.Result.Matched, 1)
	require.Equal(t, "1001", report.Result.Matched[0].Key.ProductCode)

	require.Len(t, report.Result.OnlyERP, 1)
	require.Equal(t, "3003", report.Result.OnlyERP[0].Key.ProductCode)

	onlySM := make([]string, 0, len(report.Result.OnlySM))
	for _, s := range report.Result.OnlySM {
		onlySM = append(onlySM, s.Key.ProductCode)
	}
	require.ElementsMatch(t, []string{"2002", "4004"}, onlySM)

	// unmapped ERP room and off-target branch both counted out
	require.Equal(t, 1, report.ERPStats.ExcludedLocations)
	require.Equal(t, 1, report.SMStats.ExcludedLocations)
}

func TestReconcileUnknownSnapshotDate(t *testing.T) {
	svc := NewReconService(newTestSource(t), nil, nil, testAnalysisConfig())

	_, err := svc.Reconcile(context.Background(), "2026-08-09")
	require.Error(t, err)

	_, err = svc.Reconcile(context.Background(), "not-a-date")
	require.Error(t, err)
}

func TestReconcileRecordsRunAudit(t *testing.T) {
	runs := &fakeRuns{}
	svc := NewReconService(newTestSource(t), nil, runs, testAnalysisConfig())

	_, err := svc.Reconcile(context.Background(), "")
	require.NoError(t, err)

	history, total, err := svc.RunHistory(context.Background(), domain.ReportRunFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "recon", history[0].ReportKind)
	require.Equal(t, "2026-08-03", history[0].SnapshotDate.Format("2006-01-02"))
	require.Equal(t, 1, history[0].MatchedCount)

	summary, err := svc.RunSummary(context.Background(), domain.ReportRunFilter{})
	require.NoError(t, err)
	require.Len(t, summary, 1)
	require.Equal(t, "recon", summary[0].ReportKind)
	require.Equal(t, 1, summary[0].Count)
}

func TestRunSummaryWithoutAuditStore(t *testing.T) {
	svc := NewReconService(newTestSource(t), nil, nil, testAnalysisConfig())

	summary, err := svc.RunSummary(context.Background(), domain.ReportRunFilter{})
	require.NoError(t, err)
	require.Empty(t, summary)
}

func TestHealthFromWorkbooks(t *testing.T) {
	svc := NewReconService(newTestSource(t), nil, nil, testAnalysisConfig())

	report, err := svc.Health(context.Background(), "2026-08-03")
	require.NoError(t, err)

	require.Equal(t, "2026-08-03", report.SnapshotDate)

	missing := make([]string, 0, len(report.Report.MissingExpiry))
	for _, r := range report.Report.MissingExpiry {
		missing = append(missing, r.ProductCode)
	}
	require.ElementsMatch(t, []string{"2002", "5005"}, missing)

	// 7 remaining days trips the refrigerated threshold
	require.Len(t, report.Report.ExpiryImminent, 1)
	require.Equal(t, "4004", report.Report.ExpiryImminent[0].ProductCode)

	// received five months before the snapshot
	require.Len(t, report.Report.LongTermAged, 1)
	require.Equal(t, "2002", report.Report.LongTermAged[0].ProductCode)
}

func TestTrendFromWorkbooks(t *testing.T) {
	svc := NewReconService(newTestSource(t), nil, nil, testAnalysisConfig())

	report, err := svc.Trend(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"2026-08-01", "2026-08-03"}, report.Dates)

	byName := make(map[string]ledger.TrendSeries, len(report.Series))
	for _, s := range report.Series {
		byName[s.Warehouse] = s
	}

	singal, ok := byName["신갈"]
	require.True(t, ok)
	require.Len(t, singal.Points, 2)
	require.InDelta(t, 6, singal.Points[0].QtyBox, 1e-9)
	require.InDelta(t, 7, singal.Points[1].QtyBox, 1e-9)
	require.True(t, singal.Points[1].HasDelta)
	require.InDelta(t, 1, singal.Points[1].DeltaBox, 1e-9)

	total, ok := byName[ledger.TrendTotalLabel]
	require.True(t, ok)
	// 외부창고 has no alias and stays out of the totals
	require.InDelta(t, 8, total.Points[1].QtyBox, 1e-9)
}

func TestAvailableDates(t *testing.T) {
	svc := NewReconService(newTestSource(t), nil, nil, testAnalysisConfig())

	dates, err := svc.AvailableDates(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"2026-08-03", "2026-08-01"}, dates)
}

func TestReplenishmentFromWorkbooks(t *testing.T) {
	svc := NewPlanningService(newTestSource(t), nil, nil, testAnalysisConfig())

	report, err := svc.Replenishment(context.Background(), 0)
	require.NoError(t, err)

	require.Equal(t, 90, report.WindowDays)
	require.Equal(t, "2026-08-03", report.Window.End.Format("2006-01-02"))

	require.Len(t, report.Suggestions, 1)
	s := report.Suggestions[0]
	require.Equal(t, "1001", s.ProductCode)
	require.Equal(t, "신갈냉동", s.Location)
	require.InDelta(t, 10, s.AvgMonthlyQtyBox, 1e-9)
	require.InDelta(t, 4, s.CurrentQtyBox, 1e-9)
	require.InDelta(t, 6, s.NeededQtyBox, 1e-9)
}

func TestReplenishmentWorkbookExport(t *testing.T) {
	svc := NewPlanningService(newTestSource(t), nil, nil, testAnalysisConfig())

	data, filename, err := svc.ReplenishmentWorkbook(context.Background(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Equal(t, "재고보충제안보고서_지점별_20260803.xlsx", filename)
}

func TestMovementsSearch(t *testing.T) {
	svc := NewPlanningService(newTestSource(t), nil, nil, testAnalysisConfig())

	report, err := svc.Movements(context.Background(), MovementQuery{
		Side:         "sales",
		Counterparty: "한돈유통",
	})
	require.NoError(t, err)
	require.Len(t, report.Transactions, 2)
	require.Len(t, report.Daily, 2)
	require.Equal(t, "2026-08-01", report.Daily[0].Date.Format("2006-01-02"))
	require.InDelta(t, 10, report.Daily[0].QtyBox, 1e-9)

	// purchase sheet forward-fills the merged date and branch cells
	report, err = svc.Movements(context.Background(), MovementQuery{Side: "purchase"})
	require.NoError(t, err)
	require.Len(t, report.Transactions, 2)
	require.Equal(t, report.Transactions[0].Date, report.Transactions[1].Date)
	require.Equal(t, "신갈냉동", report.Transactions[1].Location)

	_, err = svc.Movements(context.Background(), MovementQuery{Side: "bogus"})
	require.Error(t, err)
}
