package holders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDistribution() *Distribution {
	return &Distribution{
		Mint:        "mint1",
		TotalSupply: 1_000_000_000,
		TopHolders: []Holder{
			{Address: "whale1", Amount: 200_000_000},
			{Address: "whale2", Amount: 100_000_000},
			{Address: "whale3", Amount: 50_000_000},
			{Address: "small", Amount: 1_000_000},
		},
		Concentration: 0.2,
	}
}

func TestWatcherAnySellMode(t *testing.T) {
	w := NewWatcher(3, true, 0)
	w.Track(testDistribution())

	require.True(t, w.Tracked("mint1"))
	assert.False(t, w.Dumped("mint1"))

	// A sell by an untracked trader is ignored
	assert.False(t, w.ProcessSell("mint1", "random", 500))
	assert.False(t, w.Dumped("mint1"))

	// Only the top watchCount holders are tracked
	assert.False(t, w.ProcessSell("mint1", "small", 1_000_000))

	assert.True(t, w.ProcessSell("mint1", "whale2", 10))
	assert.True(t, w.Dumped("mint1"))

	// Already dumped; further sells do not re-flip
	assert.False(t, w.ProcessSell("mint1", "whale1", 10))
}

func TestWatcherThresholdMode(t *testing.T) {
	w := NewWatcher(3, false, 50)
	w.Track(testDistribution())

	// 20% of the entry balance: below the 50% threshold
	assert.False(t, w.ProcessSell("mint1", "whale1", 40_000_000))
	assert.False(t, w.Dumped("mint1"))

	// Cumulative 60% crosses it
	assert.True(t, w.ProcessSell("mint1", "whale1", 80_000_000))
	assert.True(t, w.Dumped("mint1"))
}

func TestWatcherThresholdPerHolder(t *testing.T) {
	w := NewWatcher(3, false, 50)
	w.Track(testDistribution())

	// Two holders each selling 30% must not be pooled together
	assert.False(t, w.ProcessSell("mint1", "whale1", 60_000_000))
	assert.False(t, w.ProcessSell("mint1", "whale2", 30_000_000))
	assert.False(t, w.Dumped("mint1"))
}

func TestWatcherUntrack(t *testing.T) {
	w := NewWatcher(3, true, 0)
	w.Track(testDistribution())
	w.Untrack("mint1")

	assert.False(t, w.Tracked("mint1"))
	assert.False(t, w.ProcessSell("mint1", "whale1", 10))
	assert.False(t, w.Dumped("mint1"))
}

func TestWatcherUnknownMint(t *testing.T) {
	w := NewWatcher(3, true, 0)

	assert.False(t, w.ProcessSell("unknown", "whale1", 10))
	assert.False(t, w.Dumped("unknown"))
}
