package utils

import (
	"github.com/gagliardetto/solana-go"

	"pump-sniper-go/internal/config"
)

// PumpFunPDADerivation derives the pump.fun program-derived addresses
type PumpFunPDADerivation struct {
}

func NewPumpFunPDADerivation() *PumpFunPDADerivation {
	return &PumpFunPDADerivation{}
}

// DeriveBondingCurve derives the bonding curve account for a mint
func (p *PumpFunPDADerivation) DeriveBondingCurve(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		[]byte("bonding-curve"),
		mint.Bytes(),
	}

	programID := solana.PublicKeyFromBytes(config.PumpFunProgramID)
	data, nonce, err := solana.FindProgramAddress(seeds, programID)

	return data, nonce, err
}

// DeriveAssociatedBondingCurve derives the bonding curve's token account
func (p *PumpFunPDADerivation) DeriveAssociatedBondingCurve(mint solana.PublicKey, bondingCurve solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		bondingCurve.Bytes(),
		solana.TokenProgramID.Bytes(),
		mint.Bytes(),
	}

	data, nonce, err := solana.FindProgramAddress(seeds, solana.SPLAssociatedTokenAccountProgramID)

	return data, nonce, err
}
