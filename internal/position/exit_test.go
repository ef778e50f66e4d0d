package position

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() Rules {
	return Rules{
		TakeProfitPct:         50,
		StopLossPct:           20,
		TrailingStopEnabled:   true,
		TrailingActivationPct: 10,
		TrailingDistancePct:   15,
	}
}

func posAt(entry, current, peak float64) Position {
	return Position{
		Mint:         "mint1",
		EntryPrice:   entry,
		CurrentPrice: current,
		PeakPrice:    peak,
	}
}

func TestNoExitWhileFlat(t *testing.T) {
	e := NewEngine(testRules())

	d := e.Evaluate(posAt(1.0, 1.02, 1.05), false)
	assert.False(t, d.Exit)
}

func TestTakeProfit(t *testing.T) {
	e := NewEngine(testRules())

	d := e.Evaluate(posAt(1.0, 1.50, 1.50), false)
	require.True(t, d.Exit)
	assert.Equal(t, ReasonTakeProfit, d.Reason)
	assert.InDelta(t, 50.0, d.PnLPct, 1e-9)
}

func TestStopLoss(t *testing.T) {
	e := NewEngine(testRules())

	d := e.Evaluate(posAt(1.0, 0.80, 1.0), false)
	require.True(t, d.Exit)
	assert.Equal(t, ReasonStopLoss, d.Reason)
	assert.InDelta(t, -20.0, d.PnLPct, 1e-9)
}

func TestExitAtExactThresholdDespiteRoundoff(t *testing.T) {
	e := NewEngine(testRules())

	// (0.80-1.0)/1.0*100 lands at -19.999999999999996; the stop must
	// still fire at the configured -20
	d := e.Evaluate(posAt(1.0, 0.80, 1.0), false)
	require.True(t, d.Exit)
	assert.Equal(t, ReasonStopLoss, d.Reason)

	// (0.45-0.3)/0.3*100 lands just under 50
	d = e.Evaluate(posAt(0.3, 0.45, 0.45), false)
	require.True(t, d.Exit)
	assert.Equal(t, ReasonTakeProfit, d.Reason)
}

func TestNoExitJustInsideThresholds(t *testing.T) {
	e := NewEngine(testRules())

	assert.False(t, e.Evaluate(posAt(1.0, 0.81, 1.0), false).Exit)
	assert.False(t, e.Evaluate(posAt(1.0, 1.49, 1.49), false).Exit)
}

func TestTrailingStopScenario(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Open(&Position{Mint: "mint1", EntryPrice: 1.0}))
	e := NewEngine(testRules())
	now := time.Now()

	// Climb arms the trailing stop at +10%
	for i, price := range []float64{1.15, 1.30} {
		pos, err := s.UpdatePrice("mint1", price, now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		d := e.Evaluate(pos, false)
		assert.False(t, d.Exit, "no exit at %.2f", price)
	}

	// Drop from peak 1.30 to 1.05 is ~19.2%, beyond the 15% distance
	pos, err := s.UpdatePrice("mint1", 1.05, now.Add(3*time.Second))
	require.NoError(t, err)

	d := e.Evaluate(pos, false)
	require.True(t, d.Exit)
	assert.Equal(t, ReasonTrailingStop, d.Reason)
	assert.InDelta(t, (1.30-1.05)/1.30*100, d.DropFromPeakPct, 1e-9)
}

func TestTrailingNotArmedBelowActivation(t *testing.T) {
	e := NewEngine(testRules())

	// Peak +8% never armed the trail; the 20% drop from peak must not
	// fire the trailing stop
	d := e.Evaluate(posAt(1.0, 0.864, 1.08), false)
	if d.Exit {
		assert.NotEqual(t, ReasonTrailingStop, d.Reason)
	}
}

func TestTrailingStaysArmedAfterPeakFade(t *testing.T) {
	e := NewEngine(testRules())

	// Peak reached +30%; price back near entry. Arming depends on the
	// peak, not the current gain, so the trail still fires.
	d := e.Evaluate(posAt(1.0, 1.02, 1.30), false)
	require.True(t, d.Exit)
	assert.Equal(t, ReasonTrailingStop, d.Reason)
}

func TestHolderDumpTrumpsTakeProfit(t *testing.T) {
	e := NewEngine(testRules())

	d := e.Evaluate(posAt(1.0, 1.60, 1.60), true)
	require.True(t, d.Exit)
	assert.Equal(t, ReasonHolderDump, d.Reason)
}

func TestTrailingTrumpsStopLoss(t *testing.T) {
	e := NewEngine(testRules())

	// Down 25% from entry after a +20% peak: both trailing and stop
	// loss hold, trailing wins by precedence
	d := e.Evaluate(posAt(1.0, 0.75, 1.20), false)
	require.True(t, d.Exit)
	assert.Equal(t, ReasonTrailingStop, d.Reason)
}

func TestTrailingDisabled(t *testing.T) {
	rules := testRules()
	rules.TrailingStopEnabled = false
	e := NewEngine(rules)

	d := e.Evaluate(posAt(1.0, 1.05, 1.30), false)
	assert.False(t, d.Exit)
}
