package feed

import (
	"context"
	"encoding/binary"
	"fmt"

	"pump-sniper-go/internal/solana"
	"pump-sniper-go/pkg/utils"
)

// BondingCurveData is the decoded pump.fun bonding curve account
type BondingCurveData struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
}

// Price returns the spot price in SOL per token implied by the
// virtual reserves
func (bc *BondingCurveData) Price() float64 {
	if bc.VirtualTokenReserves == 0 {
		return 0
	}
	solReserves := float64(bc.VirtualSolReserves) / 1e9
	tokenReserves := float64(bc.VirtualTokenReserves) / 1e6
	return solReserves / tokenReserves
}

// CurveReader fetches and decodes bonding curve accounts
type CurveReader struct {
	rpcClient *solana.Client
}

// NewCurveReader creates a bonding curve reader
func NewCurveReader(rpcClient *solana.Client) *CurveReader {
	return &CurveReader{rpcClient: rpcClient}
}

// GetTokenPrice fetches the curve and returns the current spot price
func (cr *CurveReader) GetTokenPrice(ctx context.Context, bondingCurveAddress string) (float64, error) {
	curveData, err := cr.GetBondingCurveData(ctx, bondingCurveAddress)
	if err != nil {
		return 0, fmt.Errorf("failed to get bonding curve data: %w", err)
	}

	price := curveData.Price()
	if price <= 0 {
		return 0, fmt.Errorf("bonding curve %s has empty reserves", bondingCurveAddress)
	}

	return price, nil
}

// GetBondingCurveData fetches and decodes a bonding curve account
func (cr *CurveReader) GetBondingCurveData(ctx context.Context, bondingCurveAddress string) (*BondingCurveData, error) {
	accountInfo, err := cr.rpcClient.GetAccountInfo(ctx, bondingCurveAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get curve account: %w", err)
	}

	if len(accountInfo.Data) == 0 {
		return nil, fmt.Errorf("curve account %s has no data", bondingCurveAddress)
	}

	data, err := utils.DecodeDataString(accountInfo.Data[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode curve account data: %w", err)
	}

	return decodeBondingCurveData(data)
}

// decodeBondingCurveData decodes the raw bonding curve account layout:
// an 8-byte discriminator followed by five little-endian u64 fields and
// a completion flag
func decodeBondingCurveData(data []byte) (*BondingCurveData, error) {
	if len(data) < 49 {
		return nil, fmt.Errorf("bonding curve data too short: %d bytes", len(data))
	}

	offset := 8 // skip discriminator

	curveData := &BondingCurveData{
		VirtualTokenReserves: binary.LittleEndian.Uint64(data[offset:]),
		VirtualSolReserves:   binary.LittleEndian.Uint64(data[offset+8:]),
		RealTokenReserves:    binary.LittleEndian.Uint64(data[offset+16:]),
		RealSolReserves:      binary.LittleEndian.Uint64(data[offset+24:]),
		TokenTotalSupply:     binary.LittleEndian.Uint64(data[offset+32:]),
		Complete:             data[offset+40] != 0,
	}

	return curveData, nil
}
