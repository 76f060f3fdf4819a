package workbook

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kmeatops/inventory-recon/backend-go/internal/ledger"
)

const replenishmentSheet = "보충제안"

var replenishmentHeader = []string{
	"지점명", "상품코드", "상품명",
	"월평균 출고량(박스)", "월평균 출고량(Kg)",
	"잔량(박스)", "잔량(Kg)",
	"필요수량(박스)", "필요수량(Kg)",
}

// ExportReplenishment renders the suggestion report as an XLSX workbook.
// Box columns are whole numbers, kg columns keep 2 decimals.
func ExportReplenishment(suggestions []ledger.ReplenishmentSuggestion) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), replenishmentSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(replenishmentSheet, "A1", &replenishmentHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	boxStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, err
	}
	kgStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	for i, s := range suggestions {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			s.Location, s.ProductCode, s.ProductName,
			s.AvgMonthlyQtyBox, s.AvgMonthlyQtyKG,
			s.CurrentQtyBox, s.CurrentWgtKG,
			s.NeededQtyBox, s.NeededQtyKG,
		}
		if err := f.SetSheetRow(replenishmentSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	last := len(suggestions) + 1
	for _, col := range []string{"D", "F", "H"} {
		if err := f.SetCellStyle(replenishmentSheet, col+"2", fmt.Sprintf("%s%d", col, last), boxStyle); err != nil {
			return nil, err
		}
	}
	for _, col := range []string{"E", "G", "I"} {
		if err := f.SetCellStyle(replenishmentSheet, col+"2", fmt.Sprintf("%s%d", col, last), kgStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ReplenishmentFileName names the export after its report date.
func ReplenishmentFileName(reportDate time.Time) string {
	return fmt.Sprintf("재고보충제안보고서_지점별_%s.xlsx", reportDate.Format("20060102"))
}
