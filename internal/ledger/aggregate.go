package ledger

// AggregateStock groups records by (product code, location), summing
// quantity and weight. The product name of a group is the first one seen
// in input order. Positions that total exactly zero on both measures are
// dropped after grouping.
func AggregateStock(records []StockRecord) []AggregatedStock {
	index := make(map[StockKey]int, len(records))
	grouped := make([]AggregatedStock, 0, len(records))
	for _, rec := range records {
		key := StockKey{ProductCode: rec.ProductCode, Location: rec.Location}
		if i, ok := index[key]; ok {
			grouped[i].Quantity += rec.Quantity
			grouped[i].Weight += rec.Weight
			continue
		}
		index[key] = len(grouped)
		grouped = append(grouped, AggregatedStock{
			Key:         key,
			ProductName: rec.ProductName,
			Quantity:    rec.Quantity,
			Weight:      rec.Weight,
		})
	}

	out := grouped[:0]
	for _, g := range grouped {
		if g.Quantity == 0 && g.Weight == 0 {
			continue
		}
		out = append(out, g)
	}
	return out
}
