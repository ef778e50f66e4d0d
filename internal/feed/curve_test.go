package feed

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curveBytes(vTokens, vSol, rTokens, rSol, supply uint64, complete bool) []byte {
	data := make([]byte, 49)
	binary.LittleEndian.PutUint64(data[8:], vTokens)
	binary.LittleEndian.PutUint64(data[16:], vSol)
	binary.LittleEndian.PutUint64(data[24:], rTokens)
	binary.LittleEndian.PutUint64(data[32:], rSol)
	binary.LittleEndian.PutUint64(data[40:], supply)
	if complete {
		data[48] = 1
	}
	return data
}

func TestDecodeBondingCurveData(t *testing.T) {
	data := curveBytes(1_000_000_000_000, 30_000_000_000, 800_000_000_000, 10_000_000_000, 1_000_000_000_000, false)

	curve, err := decodeBondingCurveData(data)
	require.NoError(t, err)

	assert.Equal(t, uint64(1_000_000_000_000), curve.VirtualTokenReserves)
	assert.Equal(t, uint64(30_000_000_000), curve.VirtualSolReserves)
	assert.Equal(t, uint64(800_000_000_000), curve.RealTokenReserves)
	assert.Equal(t, uint64(10_000_000_000), curve.RealSolReserves)
	assert.Equal(t, uint64(1_000_000_000_000), curve.TokenTotalSupply)
	assert.False(t, curve.Complete)
}

func TestDecodeBondingCurveComplete(t *testing.T) {
	curve, err := decodeBondingCurveData(curveBytes(1, 1, 0, 0, 1, true))
	require.NoError(t, err)
	assert.True(t, curve.Complete)
}

func TestDecodeBondingCurveTooShort(t *testing.T) {
	_, err := decodeBondingCurveData(make([]byte, 16))
	assert.Error(t, err)
}

func TestCurvePrice(t *testing.T) {
	// 30 SOL against 1,000,000 tokens in virtual reserves
	curve := &BondingCurveData{
		VirtualTokenReserves: 1_000_000 * 1_000_000, // raw, six decimals
		VirtualSolReserves:   30 * 1_000_000_000,    // lamports
	}

	assert.InDelta(t, 0.00003, curve.Price(), 1e-12)
}

func TestCurvePriceEmptyReserves(t *testing.T) {
	curve := &BondingCurveData{}
	assert.Zero(t, curve.Price())
}
