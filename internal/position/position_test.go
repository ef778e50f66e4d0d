package position

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPosition(t *testing.T, s *Store, mint string, entry float64) {
	t.Helper()
	err := s.Open(&Position{
		Mint:          mint,
		TokenName:     "Test Token",
		TokenSymbol:   "TEST",
		EntryPrice:    entry,
		EntryTime:     time.Now(),
		CostBasisSOL:  0.01,
		TokenQuantity: 1_000_000,
	})
	require.NoError(t, err)
}

func TestOpenDuplicate(t *testing.T) {
	s := NewStore()
	openTestPosition(t, s, "mint1", 1.0)

	err := s.Open(&Position{Mint: "mint1", EntryPrice: 1.0})
	assert.ErrorIs(t, err, ErrPositionExists)
	assert.Equal(t, 1, s.Count())
}

func TestOpenSeedsPeakFromEntry(t *testing.T) {
	s := NewStore()
	openTestPosition(t, s, "mint1", 2.0)

	pos, ok := s.Get("mint1")
	require.True(t, ok)
	assert.Equal(t, 2.0, pos.PeakPrice)
	assert.Equal(t, 2.0, pos.CurrentPrice)
}

func TestPeakIsMonotone(t *testing.T) {
	s := NewStore()
	openTestPosition(t, s, "mint1", 1.0)
	now := time.Now()

	pos, err := s.UpdatePrice("mint1", 1.5, now)
	require.NoError(t, err)
	assert.Equal(t, 1.5, pos.PeakPrice)

	pos, err = s.UpdatePrice("mint1", 1.2, now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1.2, pos.CurrentPrice)
	assert.Equal(t, 1.5, pos.PeakPrice)
}

func TestStaleTickDiscarded(t *testing.T) {
	s := NewStore()
	openTestPosition(t, s, "mint1", 1.0)
	now := time.Now()

	_, err := s.UpdatePrice("mint1", 1.5, now)
	require.NoError(t, err)

	// An older tick must not move the mark
	pos, err := s.UpdatePrice("mint1", 0.5, now.Add(-time.Second))
	assert.ErrorIs(t, err, ErrStaleTick)
	assert.Equal(t, 1.5, pos.CurrentPrice)
	assert.Equal(t, 1.5, pos.PeakPrice)
}

func TestUpdatePriceUnknownMint(t *testing.T) {
	s := NewStore()

	_, err := s.UpdatePrice("missing", 1.0, time.Now())
	assert.ErrorIs(t, err, ErrPositionNotFound)
}

func TestCloseIdempotent(t *testing.T) {
	s := NewStore()
	openTestPosition(t, s, "mint1", 1.0)

	closed, ok := s.Close("mint1", 0.02)
	require.True(t, ok)
	assert.Equal(t, "mint1", closed.Mint)
	assert.Equal(t, 0, s.Count())

	_, ok = s.Close("mint1", 0.02)
	assert.False(t, ok)
}

func TestPnLMath(t *testing.T) {
	pos := Position{EntryPrice: 1.0, CurrentPrice: 1.3, PeakPrice: 1.5}

	assert.InDelta(t, 30.0, pos.PnLPct(), 1e-9)
	assert.InDelta(t, 50.0, pos.PeakPnLPct(), 1e-9)
	assert.InDelta(t, (1.5-1.3)/1.5*100, pos.DropFromPeakPct(), 1e-9)
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.json")

	s := NewStore()
	openTestPosition(t, s, "mint1", 1.0)
	now := time.Now()
	_, err := s.UpdatePrice("mint1", 2.0, now)
	require.NoError(t, err)
	require.NoError(t, s.SaveToFile(path))

	restored := NewStore()
	count, err := restored.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	pos, ok := restored.Get("mint1")
	require.True(t, ok)
	assert.Equal(t, 1.0, pos.EntryPrice)

	// Loaded positions drop their runtime marks and reseed the peak
	// from the first tick after restart
	assert.Zero(t, pos.PeakPrice)

	pos, err = restored.UpdatePrice("mint1", 1.2, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1.2, pos.PeakPrice)
}

func TestLoadFromMissingFile(t *testing.T) {
	s := NewStore()
	count, err := s.LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLoadSkipsExistingMints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.json")

	s := NewStore()
	openTestPosition(t, s, "mint1", 1.0)
	require.NoError(t, s.SaveToFile(path))

	target := NewStore()
	openTestPosition(t, target, "mint1", 3.0)

	count, err := target.LoadFromFile(path)
	require.NoError(t, err)
	assert.Zero(t, count)

	pos, _ := target.Get("mint1")
	assert.Equal(t, 3.0, pos.EntryPrice)
}
