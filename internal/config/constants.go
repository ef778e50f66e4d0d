package config

import "github.com/mr-tron/base58"

// Solana network constants
const (
	SolanaMainnetRPC = "https://api.mainnet-beta.solana.com"
	SolanaDevnetRPC  = "https://api.devnet.solana.com"

	// PumpPortal-style trade event stream
	DefaultStreamURL = "wss://pumpportal.fun/api/data"

	// Solana constants
	LamportsPerSol = 1_000_000_000

	// Token decimals used by pump.fun mints
	TokenDecimals = 1_000_000

	// Transaction constants
	MaxRetries        = 3
	RetryDelayMs      = 1000
	ConfirmTimeoutSec = 30
)

// pump.fun program addresses
var (
	// Main pump.fun program ID
	PumpFunProgramID = mustDecodeBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// Global account for pump.fun
	PumpFunGlobal = mustDecodeBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")

	// Fee recipient
	PumpFunFeeRecipient = mustDecodeBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")

	// Event authority
	PumpFunEventAuthority = mustDecodeBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")

	// System program
	SystemProgramID = mustDecodeBase58("11111111111111111111111111111111")

	// Token program
	TokenProgramID = mustDecodeBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// Associated Token program
	AssociatedTokenProgramID = mustDecodeBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	// Rent program
	RentProgramID = mustDecodeBase58("SysvarRent111111111111111111111111111111111")

	// Compute Budget program
	ComputeBudgetProgramID = mustDecodeBase58("ComputeBudget111111111111111111111111111111")
)

// Trading constants
const (
	// Default slippage in basis points (1% = 100 bp)
	DefaultSlippageBP = 500 // 5%

	// Minimum SOL amount for trades
	MinTradeAmountSOL = 0.0001

	// Maximum SOL amount for trades
	MaxTradeAmountSOL = 0.1

	// Default buy amount in SOL
	DefaultBuyAmountSOL = 0.01
)

// Pump.fun buy/sell instruction discriminators (first 8 bytes, hex)
const (
	BuyInstructionDiscriminator  = "66063d1201daebea"
	SellInstructionDiscriminator = "33e685a4017f83ad"
)

// Compute Budget instruction indexes
const (
	SetComputeUnitLimitInstruction = 2
	SetComputeUnitPriceInstruction = 3
)

// Helper function to decode base58 addresses and panic on error
// Used for compile-time constant addresses that should never fail
func mustDecodeBase58(addr string) []byte {
	decoded, err := base58.Decode(addr)
	if err != nil {
		panic("Invalid base58 address: " + addr + ", error: " + err.Error())
	}
	return decoded
}

// GetRPCEndpoint returns RPC endpoint based on network
func GetRPCEndpoint(network string) string {
	switch network {
	case "mainnet":
		return SolanaMainnetRPC
	case "devnet":
		return SolanaDevnetRPC
	default:
		return SolanaMainnetRPC
	}
}

// ConvertSOLToLamports converts SOL to lamports
func ConvertSOLToLamports(sol float64) uint64 {
	return uint64(sol * LamportsPerSol)
}

// ConvertLamportsToSOL converts lamports to SOL
func ConvertLamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}
