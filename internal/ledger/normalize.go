package ledger

import "strings"

// NormalizeERPStock turns raw ERP sheet rows into stock records. Rows in
// rooms outside the alias map fall out of scope and are counted, numeric
// cells that fail to parse become 0 and are counted, and absent required
// columns reject the whole batch.
func NormalizeERPStock(rows []Row, aliases map[string]string) ([]StockRecord, BatchStats, error) {
	required := []string{ColERPRoom, ColProductCode, ColERPProductName, ColERPQty, ColERPWgt}
	if err := checkSchema("erp stock", rows, required); err != nil {
		return nil, BatchStats{}, err
	}
	if aliases == nil {
		aliases = DefaultERPLocationAliases
	}

	var stats BatchStats
	records := make([]StockRecord, 0, len(rows))
	for _, row := range rows {
		stats.RowsRead++
		branch, ok := aliases[strings.TrimSpace(row[ColERPRoom])]
		if !ok {
			stats.ExcludedLocations++
			continue
		}
		qty, coerced := parseDecimal(row[ColERPQty])
		if coerced {
			stats.CoercedCells++
		}
		wgt, coerced := parseDecimal(row[ColERPWgt])
		if coerced {
			stats.CoercedCells++
		}
		records = append(records, StockRecord{
			ProductCode: cleanCode(row[ColProductCode]),
			ProductName: strings.TrimSpace(row[ColERPProductName]),
			Location:    branch,
			Quantity:    qty,
			Weight:      wgt,
		})
		stats.RowsKept++
	}
	return records, stats, nil
}

// NormalizeSMStock turns raw SM warehouse sheet rows into stock records.
// When targetBranches is non-nil, rows at other branches are dropped and
// counted. Receipt metadata and expiry columns are read when present;
// their absence does not reject the batch.
func NormalizeSMStock(rows []Row, targetBranches []string) ([]StockRecord, BatchStats, error) {
	required := []string{ColBranch, ColProductCode, ColSMProductName, ColQtyBox, ColWgtKG}
	if err := checkSchema("sm stock", rows, required); err != nil {
		return nil, BatchStats{}, err
	}

	var targets map[string]struct{}
	if targetBranches != nil {
		targets = make(map[string]struct{}, len(targetBranches))
		for _, b := range targetBranches {
			targets[b] = struct{}{}
		}
	}

	var stats BatchStats
	records := make([]StockRecord, 0, len(rows))
	for _, row := range rows {
		stats.RowsRead++
		branch := strings.TrimSpace(row[ColBranch])
		if targets != nil {
			if _, ok := targets[branch]; !ok {
				stats.ExcludedLocations++
				continue
			}
		}
		qty, coerced := parseDecimal(row[ColQtyBox])
		if coerced {
			stats.CoercedCells++
		}
		wgt, coerced := parseDecimal(row[ColWgtKG])
		if coerced {
			stats.CoercedCells++
		}
		rec := StockRecord{
			ReceiptNumber: strings.TrimSpace(row[ColReceiptNumber]),
			ProductCode:   cleanCode(row[ColProductCode]),
			ProductName:   strings.TrimSpace(row[ColSMProductName]),
			Location:      branch,
			Quantity:      qty,
			Weight:        wgt,
			ExpiryDate:    cleanCode(row[ColExpiryDate]),
		}
		if v, ok := row[ColReceiptDate]; ok {
			if d, ok := parseDate(v); ok {
				rec.ReceiptDate = &d
			}
		}
		if v, ok := row[ColRemainingDays]; ok {
			if strings.TrimSpace(v) != "" {
				if f, coerced := parseDecimal(v); !coerced {
					days := int(f)
					rec.RemainingDays = &days
				}
			}
		}
		if v, ok := row[ColInitialBox]; ok {
			f, coerced := parseDecimal(v)
			if coerced {
				stats.CoercedCells++
			}
			rec.InitialQtyBox = f
		}
		if v, ok := row[ColInitialKG]; ok {
			f, coerced := parseDecimal(v)
			if coerced {
				stats.CoercedCells++
			}
			rec.InitialQtyKG = f
		}
		records = append(records, rec)
		stats.RowsKept++
	}
	return records, stats, nil
}

// NormalizeSalesLog turns raw sales log rows into transactions. Rows
// whose date cannot be parsed are dropped and counted.
func NormalizeSalesLog(rows []Row) ([]TransactionRecord, BatchStats, error) {
	required := []string{ColSalesDate, ColProductCode, ColSalesProductName, ColSalesQtyBox, ColSalesQtyKG, ColSalesBranch}
	if err := checkSchema("sales log", rows, required); err != nil {
		return nil, BatchStats{}, err
	}

	var stats BatchStats
	txs := make([]TransactionRecord, 0, len(rows))
	for _, row := range rows {
		stats.RowsRead++
		date, ok := parseDate(row[ColSalesDate])
		if !ok {
			stats.ExcludedDates++
			continue
		}
		qtyBox, coerced := parseDecimal(row[ColSalesQtyBox])
		if coerced {
			stats.CoercedCells++
		}
		qtyKG, coerced := parseDecimal(row[ColSalesQtyKG])
		if coerced {
			stats.CoercedCells++
		}
		txs = append(txs, TransactionRecord{
			Date:         date,
			ProductCode:  cleanCode(row[ColProductCode]),
			ProductName:  strings.TrimSpace(row[ColSalesProductName]),
			Location:     strings.TrimSpace(row[ColSalesBranch]),
			QtyBox:       qtyBox,
			QtyKG:        qtyKG,
			Counterparty: strings.TrimSpace(row[ColCounterparty]),
		})
		stats.RowsKept++
	}
	return txs, stats, nil
}

// NormalizePurchaseLog turns raw purchase log rows into transactions.
// The purchase sheet uses merged cells for date, branch, code and
// counterparty, so those columns are forward-filled first.
func NormalizePurchaseLog(rows []Row) ([]TransactionRecord, BatchStats, error) {
	required := []string{ColPurchaseDate, ColPurchaseBranch, ColPurchaseQtyBox, ColPurchaseQtyKG}
	if err := checkSchema("purchase log", rows, required); err != nil {
		return nil, BatchStats{}, err
	}
	ForwardFill(rows, ColPurchaseDate, ColPurchaseBranch, ColPurchaseCode, ColCounterparty)

	var stats BatchStats
	txs := make([]TransactionRecord, 0, len(rows))
	for _, row := range rows {
		stats.RowsRead++
		date, ok := parseDate(row[ColPurchaseDate])
		if !ok {
			stats.ExcludedDates++
			continue
		}
		qtyBox, coerced := parseDecimal(row[ColPurchaseQtyBox])
		if coerced {
			stats.CoercedCells++
		}
		qtyKG, coerced := parseDecimal(row[ColPurchaseQtyKG])
		if coerced {
			stats.CoercedCells++
		}
		txs = append(txs, TransactionRecord{
			Date:         date,
			ProductCode:  cleanCode(row[ColPurchaseCode]),
			ProductName:  strings.TrimSpace(row[ColPurchaseProductName]),
			Location:     strings.TrimSpace(row[ColPurchaseBranch]),
			QtyBox:       qtyBox,
			QtyKG:        qtyKG,
			Counterparty: strings.TrimSpace(row[ColCounterparty]),
		})
		stats.RowsKept++
	}
	return txs, stats, nil
}

// ForwardFill copies the last non-empty value of each column down into
// empty cells, mirroring how merged spreadsheet cells read back.
func ForwardFill(rows []Row, cols ...string) {
	last := make(map[string]string, len(cols))
	for _, row := range rows {
		for _, col := range cols {
			v := strings.TrimSpace(row[col])
			if v == "" {
				if prev, ok := last[col]; ok {
					row[col] = prev
				}
				continue
			}
			last[col] = v
		}
	}
}
