package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pos(code, loc, name string, qty, wgt float64) AggregatedStock {
	return AggregatedStock{
		Key:         StockKey{ProductCode: code, Location: loc},
		ProductName: name,
		Quantity:    qty,
		Weight:      wgt,
	}
}

func TestReconcileClassifiesPositions(t *testing.T) {
	erp := []AggregatedStock{
		pos("1001", "신갈냉동", "삼겹살", 10, 120.004),
		pos("1002", "신갈냉동", "목살", 5, 60),
		pos("1003", "케이미트스토어", "안심", 2, 24),
	}
	sm := []AggregatedStock{
		pos("1001", "신갈냉동", "삼겹살", 10, 120.0041),
		pos("1002", "신갈냉동", "목살", 4, 60),
		pos("1004", "신갈냉동", "갈비", 7, 70),
	}

	res := Reconcile(erp, sm)

	// weights agree after rounding to 2 decimals
	require.Len(t, res.Matched, 1)
	require.Equal(t, "1001", res.Matched[0].Key.ProductCode)

	require.Len(t, res.Mismatched, 1)
	require.Equal(t, "1002", res.Mismatched[0].Key.ProductCode)
	require.Equal(t, 1.0, res.Mismatched[0].QtyDiff)

	require.Len(t, res.OnlyERP, 1)
	require.Equal(t, "1003", res.OnlyERP[0].Key.ProductCode)
	require.Len(t, res.OnlySM, 1)
	require.Equal(t, "1004", res.OnlySM[0].Key.ProductCode)

	s := res.Summary
	require.Equal(t, 3, s.ERPTotal)
	require.Equal(t, 3, s.SMTotal)
	require.Equal(t, 2, s.CommonTotal)
	require.Equal(t, 1, s.MatchCount)
	require.Equal(t, 1, s.MismatchCount)
	require.InDelta(t, 50.0, s.MatchRate, 1e-9)
}

func TestReconcileWeightRoundingSplitsAtSecondDecimal(t *testing.T) {
	erp := []AggregatedStock{pos("1", "a", "x", 1, 10.004)}
	sm := []AggregatedStock{pos("1", "a", "x", 1, 10.006)}

	res := Reconcile(erp, sm)
	// 10.00 vs 10.01 after rounding
	require.Empty(t, res.Matched)
	require.Len(t, res.Mismatched, 1)
}

func TestReconcileQuantityToleranceBoundary(t *testing.T) {
	erp := []AggregatedStock{
		pos("1", "a", "x", 10, 5.00),
		pos("2", "a", "y", 10, 5.00),
	}
	sm := []AggregatedStock{
		pos("1", "a", "x", 10+1e-10, 5.004),
		pos("2", "a", "y", 9, 5.00),
	}

	res := Reconcile(erp, sm)

	// a quantity delta below the tolerance still matches
	require.Len(t, res.Matched, 1)
	require.Equal(t, "1", res.Matched[0].Key.ProductCode)

	require.Len(t, res.Mismatched, 1)
	require.Equal(t, "2", res.Mismatched[0].Key.ProductCode)
	require.InDelta(t, 1.0, res.Mismatched[0].QtyDiff, 1e-9)
}

func TestReconcileTakesSMNameWhenERPNameEmpty(t *testing.T) {
	erp := []AggregatedStock{pos("1", "a", "", 1, 1)}
	sm := []AggregatedStock{pos("1", "a", "갈비", 1, 1)}

	res := Reconcile(erp, sm)
	require.Len(t, res.Matched, 1)
	require.Equal(t, "갈비", res.Matched[0].ProductName)
}

func TestReconcileEmptySideDegenerates(t *testing.T) {
	sm := []AggregatedStock{
		pos("1", "a", "x", 1, 1),
		pos("2", "a", "y", 2, 2),
	}

	res := Reconcile(nil, sm)
	require.Empty(t, res.Matched)
	require.Empty(t, res.Mismatched)
	require.Empty(t, res.OnlyERP)
	require.Len(t, res.OnlySM, 2)

	s := res.Summary
	require.Zero(t, s.ERPTotal)
	require.Equal(t, 2, s.SMTotal)
	require.Zero(t, s.CommonTotal)
	require.Equal(t, 2, s.OnlySMCount)
	require.Zero(t, s.MatchRate)
}
