package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeERPStockMapsRoomsAndCoerces(t *testing.T) {
	rows := []Row{
		{ColERPRoom: "냉동", ColProductCode: "1001.0", ColERPProductName: " 냉동 삼겹살 ", ColERPQty: "10", ColERPWgt: "120.5"},
		{ColERPRoom: "선왕판매", ColProductCode: "1002", ColERPProductName: "목살", ColERPQty: "abc", ColERPWgt: ""},
		{ColERPRoom: "본사창고", ColProductCode: "1003", ColERPProductName: "안심", ColERPQty: "1", ColERPWgt: "2"},
	}

	records, stats, err := NormalizeERPStock(rows, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "1001", records[0].ProductCode)
	require.Equal(t, "냉동 삼겹살", records[0].ProductName)
	require.Equal(t, "신갈냉동", records[0].Location)
	require.Equal(t, 10.0, records[0].Quantity)

	require.Equal(t, "케이미트스토어", records[1].Location)
	require.Equal(t, 0.0, records[1].Quantity)

	require.Equal(t, 3, stats.RowsRead)
	require.Equal(t, 2, stats.RowsKept)
	require.Equal(t, 1, stats.CoercedCells)
	require.Equal(t, 1, stats.ExcludedLocations)
}

func TestNormalizeERPStockRejectsMissingColumns(t *testing.T) {
	rows := []Row{{ColERPRoom: "냉동", ColProductCode: "1001"}}

	_, _, err := NormalizeERPStock(rows, nil)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, "erp stock", schemaErr.Source)
	require.ElementsMatch(t, []string{ColERPProductName, ColERPQty, ColERPWgt}, schemaErr.Missing)
}

func TestNormalizeSMStockFiltersBranchesAndReadsExtras(t *testing.T) {
	rows := []Row{
		{
			ColBranch: "신갈냉동", ColProductCode: "2001", ColSMProductName: "등심",
			ColQtyBox: "5", ColWgtKG: "60.25",
			ColReceiptNumber: " R-77 ", ColExpiryDate: "nan",
			ColReceiptDate: "2026-05-01", ColRemainingDays: "12",
			ColInitialBox: "8", ColInitialKG: "96",
		},
		{ColBranch: "다른지점", ColProductCode: "2002", ColSMProductName: "갈비", ColQtyBox: "1", ColWgtKG: "1"},
	}

	records, stats, err := NormalizeSMStock(rows, []string{"신갈냉동"})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "R-77", rec.ReceiptNumber)
	require.Equal(t, "nan", rec.ExpiryDate)
	require.NotNil(t, rec.ReceiptDate)
	require.Equal(t, "2026-05-01", rec.ReceiptDate.Format("2006-01-02"))
	require.NotNil(t, rec.RemainingDays)
	require.Equal(t, 12, *rec.RemainingDays)
	require.Equal(t, 8.0, rec.InitialQtyBox)
	require.Equal(t, 96.0, rec.InitialQtyKG)

	require.Equal(t, 1, stats.ExcludedLocations)
}

func TestNormalizeSMStockKeepsAllBranchesWithoutTargets(t *testing.T) {
	rows := []Row{
		{ColBranch: "신갈냉동", ColProductCode: "1", ColSMProductName: "a", ColQtyBox: "1", ColWgtKG: "1"},
		{ColBranch: "다른지점", ColProductCode: "2", ColSMProductName: "b", ColQtyBox: "2", ColWgtKG: "2"},
	}

	records, stats, err := NormalizeSMStock(rows, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Zero(t, stats.ExcludedLocations)
}

func TestNormalizeSalesLogDropsBadDates(t *testing.T) {
	rows := []Row{
		{ColSalesDate: "2026-07-01", ColProductCode: "3001", ColSalesProductName: "냉장 목살", ColSalesQtyBox: "3", ColSalesQtyKG: "36", ColSalesBranch: "신갈냉동"},
		{ColSalesDate: "not a date", ColProductCode: "3002", ColSalesProductName: "갈비", ColSalesQtyBox: "1", ColSalesQtyKG: "10", ColSalesBranch: "신갈냉동"},
	}

	txs, stats, err := NormalizeSalesLog(rows)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, "3001", txs[0].ProductCode)
	require.Equal(t, 1, stats.ExcludedDates)
	require.Equal(t, 1, stats.RowsKept)
}

func TestNormalizePurchaseLogForwardFillsMergedCells(t *testing.T) {
	rows := []Row{
		{ColPurchaseDate: "2026-07-02", ColPurchaseBranch: "신갈냉동", ColPurchaseCode: "C1", ColCounterparty: "농협", ColProductCode: "4001", ColPurchaseProductName: "삼겹", ColPurchaseQtyBox: "2", ColPurchaseQtyKG: "24"},
		{ColPurchaseDate: "", ColPurchaseBranch: "", ColPurchaseCode: "", ColCounterparty: "", ColProductCode: "4002", ColPurchaseProductName: "목살", ColPurchaseQtyBox: "1", ColPurchaseQtyKG: "12"},
	}

	txs, stats, err := NormalizePurchaseLog(rows)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, txs[0].Date, txs[1].Date)
	require.Equal(t, "신갈냉동", txs[1].Location)
	require.Equal(t, "농협", txs[1].Counterparty)
	require.Zero(t, stats.ExcludedDates)
}
