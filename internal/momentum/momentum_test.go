package momentum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testThresholds() Thresholds {
	return Thresholds{
		MinTrades:              3,
		MinVolumeSOL:           0.2,
		MinPriceChangePct:      2.0,
		MinUniqueTraders:       2,
		MinBuyRatio:            0.5,
		MaxHolderConcentration: 0.5,
		ObservationWindow:      5 * time.Second,
	}
}

func trade(mint string, side Side, price, size float64, trader string, at time.Time) TradeObservation {
	return TradeObservation{
		Mint:      mint,
		Side:      side,
		Price:     price,
		SizeSOL:   size,
		Trader:    trader,
		Timestamp: at,
	}
}

func TestValidatorReadyAfterHolderData(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()

	require.True(t, v.Watch("mint1", start))

	v.RecordTrade(trade("mint1", SideBuy, 1.00, 0.05, "alice", start.Add(100*time.Millisecond)))
	v.RecordTrade(trade("mint1", SideBuy, 1.01, 0.05, "bob", start.Add(200*time.Millisecond)))

	status, unmet := v.Check("mint1", start.Add(300*time.Millisecond))
	assert.Equal(t, StatusObserving, status)
	assert.Contains(t, unmet, "trades:2<3")
	assert.Contains(t, unmet, "volume:0.10<0.20")
	assert.Contains(t, unmet, "holder_data:pending")

	v.RecordTrade(trade("mint1", SideBuy, 1.03, 0.15, "carol", start.Add(400*time.Millisecond)))

	// Every trade condition now holds, but holder data is a hard gate
	status, unmet = v.Check("mint1", start.Add(500*time.Millisecond))
	assert.Equal(t, StatusObserving, status)
	assert.Equal(t, []string{"holder_data:pending"}, unmet)

	v.SetHolderConcentration("mint1", 0.3)

	status, unmet = v.Check("mint1", start.Add(600*time.Millisecond))
	assert.Equal(t, StatusReady, status)
	assert.Empty(t, unmet)
}

func TestValidatorWhaleConcentrationBlocks(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()
	v.Watch("mint1", start)

	v.RecordTrade(trade("mint1", SideBuy, 1.00, 0.10, "alice", start))
	v.RecordTrade(trade("mint1", SideBuy, 1.01, 0.10, "bob", start))
	v.RecordTrade(trade("mint1", SideBuy, 1.05, 0.10, "carol", start))
	v.SetHolderConcentration("mint1", 0.62)

	status, unmet := v.Check("mint1", start.Add(time.Second))
	assert.Equal(t, StatusObserving, status)
	assert.Equal(t, []string{"whale:62%>50%"}, unmet)
}

func TestValidatorBuyRatio(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()
	v.Watch("mint1", start)

	v.RecordTrade(trade("mint1", SideBuy, 1.00, 0.10, "alice", start))
	v.RecordTrade(trade("mint1", SideSell, 0.99, 0.10, "bob", start))
	v.RecordTrade(trade("mint1", SideSell, 0.97, 0.10, "carol", start))
	v.SetHolderConcentration("mint1", 0.1)

	status, unmet := v.Check("mint1", start.Add(time.Second))
	assert.Equal(t, StatusObserving, status)
	assert.Contains(t, unmet, "buy_ratio:0.33<0.50")
}

func TestValidatorExpiresBeforePromotion(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()
	v.Watch("mint1", start)

	v.RecordTrade(trade("mint1", SideBuy, 1.00, 0.10, "alice", start))
	v.RecordTrade(trade("mint1", SideBuy, 1.01, 0.10, "bob", start))
	v.RecordTrade(trade("mint1", SideBuy, 1.05, 0.10, "carol", start))
	v.SetHolderConcentration("mint1", 0.1)

	// First check happens after the window closed. Even though every
	// condition holds, the token must expire, not promote.
	status, _ := v.Check("mint1", start.Add(6*time.Second))
	assert.Equal(t, StatusExpired, status)

	// Terminal state sticks
	status, _ = v.Check("mint1", start.Add(7*time.Second))
	assert.Equal(t, StatusExpired, status)
}

func TestValidatorExpiredIgnoresLateData(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()
	v.Watch("mint1", start)

	status, _ := v.Check("mint1", start.Add(6*time.Second))
	require.Equal(t, StatusExpired, status)

	// Late trades and holder data must not resurrect the record
	v.RecordTrade(trade("mint1", SideBuy, 1.00, 1.0, "alice", start.Add(6*time.Second)))
	v.SetHolderConcentration("mint1", 0.1)

	status, _ = v.Check("mint1", start.Add(7*time.Second))
	assert.Equal(t, StatusExpired, status)

	snap, ok := v.SnapshotOf("mint1")
	require.True(t, ok)
	assert.Equal(t, 0, snap.TradeCount)
}

func TestValidatorUniqueTradersNotDoubleCounted(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()
	v.Watch("mint1", start)

	v.RecordTrade(trade("mint1", SideBuy, 1.00, 0.10, "alice", start))
	v.RecordTrade(trade("mint1", SideBuy, 1.01, 0.10, "alice", start))
	v.RecordTrade(trade("mint1", SideBuy, 1.05, 0.10, "alice", start))
	v.SetHolderConcentration("mint1", 0.1)

	status, unmet := v.Check("mint1", start.Add(time.Second))
	assert.Equal(t, StatusObserving, status)
	assert.Equal(t, []string{"traders:1<2"}, unmet)
}

func TestValidatorPriceChangeIsAbsolute(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()
	v.Watch("mint1", start)

	// Falling price also counts as movement
	v.RecordTrade(trade("mint1", SideBuy, 1.00, 0.10, "alice", start))
	v.RecordTrade(trade("mint1", SideBuy, 0.99, 0.10, "bob", start))
	v.RecordTrade(trade("mint1", SideBuy, 0.95, 0.10, "carol", start))
	v.SetHolderConcentration("mint1", 0.1)

	status, unmet := v.Check("mint1", start.Add(time.Second))
	assert.Equal(t, StatusReady, status)
	assert.Empty(t, unmet)
}

func TestValidatorImplicitWatchOnTrade(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()

	// A trade for an unknown mint starts its observation window
	v.RecordTrade(trade("mint1", SideBuy, 1.00, 0.10, "alice", start))

	assert.True(t, v.Watching("mint1"))

	snap, ok := v.SnapshotOf("mint1")
	require.True(t, ok)
	assert.Equal(t, 1, snap.TradeCount)
	assert.Equal(t, StatusObserving, snap.Status)
}

func TestValidatorWatchIdempotent(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()

	assert.True(t, v.Watch("mint1", start))
	v.RecordTrade(trade("mint1", SideBuy, 1.00, 0.10, "alice", start))

	// Re-watching must not reset the counters
	assert.False(t, v.Watch("mint1", start.Add(time.Second)))

	snap, _ := v.SnapshotOf("mint1")
	assert.Equal(t, 1, snap.TradeCount)
}

func TestValidatorCheckUnknownMint(t *testing.T) {
	v := NewValidator(testThresholds())

	status, unmet := v.Check("missing", time.Now())
	assert.Equal(t, StatusNotWatched, status)
	assert.Nil(t, unmet)
}

func TestCleanupExpired(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()

	v.Watch("stale", start)
	v.Watch("fresh", start.Add(4*time.Second))

	expired := v.CleanupExpired(start.Add(6 * time.Second))
	require.Len(t, expired, 1)
	assert.Equal(t, "stale", expired[0].Mint)
	assert.NotEmpty(t, expired[0].Unmet)

	assert.False(t, v.Watching("stale"))
	assert.True(t, v.Watching("fresh"))
}

func TestZeroTradesBuyRatioBlocks(t *testing.T) {
	v := NewValidator(testThresholds())
	start := time.Now()
	v.Watch("mint1", start)
	v.SetHolderConcentration("mint1", 0.1)

	// No trades at all: ratio is 0, not vacuously passing
	status, unmet := v.Check("mint1", start.Add(time.Second))
	assert.Equal(t, StatusObserving, status)
	assert.Contains(t, unmet, "buy_ratio:0.00<0.50")
}
