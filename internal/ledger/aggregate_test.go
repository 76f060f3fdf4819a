package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregateStockSumsPerPosition(t *testing.T) {
	records := []StockRecord{
		{ProductCode: "1001", ProductName: "삼겹살", Location: "신갈냉동", Quantity: 2, Weight: 20},
		{ProductCode: "1001", ProductName: "삼겹살(구명)", Location: "신갈냉동", Quantity: 3, Weight: 30},
		{ProductCode: "1001", ProductName: "삼겹살", Location: "케이미트스토어", Quantity: 1, Weight: 10},
	}

	got := AggregateStock(records)
	require.Len(t, got, 2)

	require.Equal(t, StockKey{ProductCode: "1001", Location: "신갈냉동"}, got[0].Key)
	require.Equal(t, 5.0, got[0].Quantity)
	require.Equal(t, 50.0, got[0].Weight)
	// first-seen name wins for the group
	require.Equal(t, "삼겹살", got[0].ProductName)

	require.Equal(t, StockKey{ProductCode: "1001", Location: "케이미트스토어"}, got[1].Key)
}

func TestAggregateStockDropsZeroPositions(t *testing.T) {
	records := []StockRecord{
		{ProductCode: "1", Location: "a", Quantity: 2, Weight: -2},
		{ProductCode: "1", Location: "a", Quantity: -2, Weight: 2},
		{ProductCode: "2", Location: "a", Quantity: 0, Weight: 0.5},
	}

	got := AggregateStock(records)
	require.Len(t, got, 1)
	// zero quantity alone does not drop a position
	require.Equal(t, "2", got[0].Key.ProductCode)
}

func TestAggregateStockEmptyInput(t *testing.T) {
	require.Empty(t, AggregateStock(nil))
}
