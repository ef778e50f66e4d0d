package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDailyStatsAccumulates(t *testing.T) {
	d := NewDailyStats()

	d.RecordClose(0.05, 50)
	d.RecordClose(-0.01, -10)
	d.RecordClose(0.02, 20)

	snap := d.Snapshot()
	assert.Equal(t, 3, snap.TradesTotal)
	assert.Equal(t, 2, snap.Wins)
	assert.Equal(t, 1, snap.Losses)
	assert.InDelta(t, 66.67, snap.WinRatePct, 0.01)
	assert.InDelta(t, 0.06, snap.TotalPnLSOL, 1e-9)
	assert.Equal(t, 50.0, snap.BestTradePct)
	assert.Equal(t, -10.0, snap.WorstTradePct)
}

func TestDailyStatsSeedsBestWorstFromFirstTrade(t *testing.T) {
	d := NewDailyStats()

	// A lone losing trade is both the best and the worst of the day
	d.RecordClose(-0.01, -12)

	snap := d.Snapshot()
	assert.Equal(t, -12.0, snap.BestTradePct)
	assert.Equal(t, -12.0, snap.WorstTradePct)
}

func TestDailyStatsReset(t *testing.T) {
	d := NewDailyStats()
	d.RecordClose(0.05, 50)

	d.Reset()

	snap := d.Snapshot()
	assert.Zero(t, snap.TradesTotal)
	assert.Zero(t, snap.TotalPnLSOL)
	assert.Zero(t, snap.BestTradePct)
}

func TestDailyStatsEmptyWinRate(t *testing.T) {
	snap := NewDailyStats().Snapshot()
	assert.Zero(t, snap.WinRatePct)
}
