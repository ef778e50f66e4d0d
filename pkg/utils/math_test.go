package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 0.5, SafeDiv(1, 2))
	assert.Zero(t, SafeDiv(1, 0))
}

func TestCalculatePercentageChange(t *testing.T) {
	assert.InDelta(t, 50.0, CalculatePercentageChange(1.0, 1.5), 1e-9)
	assert.InDelta(t, -25.0, CalculatePercentageChange(2.0, 1.5), 1e-9)
	assert.Zero(t, CalculatePercentageChange(0, 1.5))
}

func TestApplySlippage(t *testing.T) {
	// 500 bp up for max buy cost, down for min sell proceeds
	assert.InDelta(t, 1.05, ApplySlippage(1.0, 500, true), 1e-9)
	assert.InDelta(t, 0.95, ApplySlippage(1.0, 500, false), 1e-9)
}
