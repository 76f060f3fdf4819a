package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func datep(s string) *time.Time {
	d := day(s)
	return &d
}

func TestClassifyHealthMissingExpiry(t *testing.T) {
	records := []StockRecord{
		{ProductCode: "1", ExpiryDate: ""},
		{ProductCode: "2", ExpiryDate: "NaT"},
		{ProductCode: "3", ExpiryDate: "nan"},
		{ProductCode: "4", ExpiryDate: "None"},
		{ProductCode: "5", ExpiryDate: "2026-12-31"},
	}

	report := ClassifyHealth(records, day("2026-08-01"), DefaultHealthThresholds())
	require.Len(t, report.MissingExpiry, 4)
}

func TestClassifyHealthImminentUsesKeywordThreshold(t *testing.T) {
	records := []StockRecord{
		{ProductCode: "1", ProductName: "냉장 목살", RemainingDays: intp(21), ExpiryDate: "d"},
		{ProductCode: "2", ProductName: "냉장 목살", RemainingDays: intp(22), ExpiryDate: "d"},
		{ProductCode: "3", ProductName: "냉동 갈비", RemainingDays: intp(90), ExpiryDate: "d"},
		{ProductCode: "4", ProductName: "냉동 갈비", RemainingDays: intp(91), ExpiryDate: "d"},
		{ProductCode: "5", ProductName: "냉동 갈비", ExpiryDate: "d"}, // no remaining-days value
	}

	report := ClassifyHealth(records, day("2026-08-01"), DefaultHealthThresholds())
	require.Len(t, report.ExpiryImminent, 2)
	// sorted by remaining days ascending
	require.Equal(t, "1", report.ExpiryImminent[0].ProductCode)
	require.Equal(t, "3", report.ExpiryImminent[1].ProductCode)
}

func TestClassifyHealthLongTermAged(t *testing.T) {
	asOf := day("2026-08-01")
	records := []StockRecord{
		{ProductCode: "old-empty", ReceiptDate: datep("2026-01-10"), Quantity: 0, Weight: 0, ExpiryDate: "d"},
		{ProductCode: "old-kg", ReceiptDate: datep("2026-02-01"), Quantity: 0, Weight: 3.5, ExpiryDate: "d"},
		{ProductCode: "boundary", ReceiptDate: datep("2026-05-01"), Quantity: 1, ExpiryDate: "d"},
		{ProductCode: "fresh", ReceiptDate: datep("2026-07-20"), Quantity: 1, ExpiryDate: "d"},
		{ProductCode: "no-date", Quantity: 1, ExpiryDate: "d"},
	}

	report := ClassifyHealth(records, asOf, DefaultHealthThresholds())
	require.Len(t, report.LongTermAged, 2)
	// sorted by receipt date ascending; exactly three months ago counts
	require.Equal(t, "old-kg", report.LongTermAged[0].ProductCode)
	require.Equal(t, "boundary", report.LongTermAged[1].ProductCode)
}

func TestIsNullLikeExpiry(t *testing.T) {
	for _, v := range []string{"", "  ", "nan", "NaT", "None", "nat"} {
		require.True(t, IsNullLikeExpiry(v), v)
	}
	require.False(t, IsNullLikeExpiry("2026-01-01"))
}

func TestAlertDays(t *testing.T) {
	th := DefaultHealthThresholds()
	require.Equal(t, 21, th.AlertDays("한돈 냉장 삼겹살"))
	require.Equal(t, 90, th.AlertDays("냉동 삼겹살"))
}
