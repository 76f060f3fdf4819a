package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTrendTotalsAndDeltas(t *testing.T) {
	snapshots := []Snapshot{
		{
			Date: day("2026-08-02"),
			Records: []StockRecord{
				{Location: "신갈냉동", Quantity: 12, Weight: 130},
				{Location: "선왕CH4층", Quantity: 4, Weight: 40},
			},
		},
		{
			Date: day("2026-08-01"),
			Records: []StockRecord{
				{Location: "신갈냉동", Quantity: 10, Weight: 100},
				{Location: "신갈냉동", Quantity: 2, Weight: 20},
				{Location: "선왕CH4층", Quantity: 5, Weight: 50},
				{Location: "알수없는지점", Quantity: 99, Weight: 999},
			},
		},
	}

	series := BuildTrend(snapshots, DefaultTrendConfig())
	require.Len(t, series, len(DefaultTrendRowOrder)+1)

	byName := make(map[string]TrendSeries)
	for _, s := range series {
		byName[s.Warehouse] = s
	}

	singal := byName["신갈"]
	require.Len(t, singal.Points, 2)
	// snapshots are reordered oldest first
	require.Equal(t, day("2026-08-01"), singal.Points[0].Date)
	require.Equal(t, 12.0, singal.Points[0].QtyBox)
	require.False(t, singal.Points[0].HasDelta)
	require.Equal(t, 12.0, singal.Points[1].QtyBox)
	require.True(t, singal.Points[1].HasDelta)
	require.Equal(t, 0.0, singal.Points[1].DeltaBox)
	require.Equal(t, 10.0, singal.Points[1].DeltaKG)

	seonwang := byName["선왕"]
	require.Equal(t, -1.0, seonwang.Points[1].DeltaBox)

	// unmapped branches stay out of the totals
	total := byName[TrendTotalLabel]
	require.Equal(t, 17.0, total.Points[0].QtyBox)
	require.Equal(t, 16.0, total.Points[1].QtyBox)
	require.Equal(t, -1.0, total.Points[1].DeltaBox)
}

func TestBuildTrendEmptySnapshots(t *testing.T) {
	series := BuildTrend(nil, DefaultTrendConfig())
	require.Len(t, series, len(DefaultTrendRowOrder)+1)
	for _, s := range series {
		require.Empty(t, s.Points)
	}
}
