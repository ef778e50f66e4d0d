package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"pump-sniper-go/internal/config"
	"pump-sniper-go/internal/logger"
	rpcclient "pump-sniper-go/internal/solana"
	"pump-sniper-go/internal/wallet"
	"pump-sniper-go/pkg/utils"
)

// TradeRequest identifies the token being traded
type TradeRequest struct {
	Mint        string
	TokenName   string
	TokenSymbol string

	// Buy: SOL to spend and the expected token amount at current price.
	// Sell: token quantity to liquidate and the expected SOL proceeds.
	AmountSOL    float64
	AmountTokens uint64

	// Sell only
	ExitReason string
	ProfitPct  float64
	CloseATA   bool
}

// TradeResult is the outcome of a buy or sell
type TradeResult struct {
	Success      bool
	DryRun       bool
	DecisionID   string
	Signature    string
	AmountSOL    float64
	AmountTokens uint64
	Price        float64
	TradeTime    time.Duration
	Error        string
}

// Executor builds, signs, and submits pump.fun trades
type Executor struct {
	wallet      *wallet.Wallet
	rpcClient   *rpcclient.Client
	logger      *logger.Logger
	tradeLogger *logger.TradeLogger
	config      *config.Config
	pda         *utils.PumpFunPDADerivation
	dryRun      bool
}

// NewExecutor creates a trade executor
func NewExecutor(w *wallet.Wallet, rpcClient *rpcclient.Client, log *logger.Logger,
	tradeLogger *logger.TradeLogger, cfg *config.Config) *Executor {

	return &Executor{
		wallet:      w,
		rpcClient:   rpcClient,
		logger:      log,
		tradeLogger: tradeLogger,
		config:      cfg,
		pda:         utils.NewPumpFunPDADerivation(),
		dryRun:      cfg.Trading.DryRun,
	}
}

// tradeAccounts are the derived addresses for one mint
type tradeAccounts struct {
	mint                   common.PublicKey
	bondingCurve           common.PublicKey
	associatedBondingCurve common.PublicKey
	userATA                common.PublicKey
}

// deriveAccounts resolves the bonding curve, its token account, and the
// user's ATA for a mint
func (e *Executor) deriveAccounts(mint string) (*tradeAccounts, error) {
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, fmt.Errorf("invalid mint address: %w", err)
	}

	bondingCurve, _, err := e.pda.DeriveBondingCurve(mintKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive bonding curve: %w", err)
	}

	associatedBondingCurve, _, err := e.pda.DeriveAssociatedBondingCurve(mintKey, bondingCurve)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated bonding curve: %w", err)
	}

	mintCommon := common.PublicKeyFromBytes(mintKey.Bytes())

	userATA, err := e.wallet.GetAssociatedTokenAddress(mintCommon)
	if err != nil {
		return nil, err
	}

	return &tradeAccounts{
		mint:                   mintCommon,
		bondingCurve:           common.PublicKeyFromBytes(bondingCurve.Bytes()),
		associatedBondingCurve: common.PublicKeyFromBytes(associatedBondingCurve.Bytes()),
		userATA:                userATA,
	}, nil
}

// Buy spends request.AmountSOL on the token. In dry-run mode the trade
// is logged but never submitted.
func (e *Executor) Buy(ctx context.Context, request TradeRequest) *TradeResult {
	startTime := time.Now()
	decisionID := uuid.NewString()

	price := 0.0
	if request.AmountTokens > 0 {
		price = request.AmountSOL / float64(request.AmountTokens)
	}

	e.logger.LogTradeAttempt("buy", request.Mint, request.AmountSOL, "")

	if e.dryRun {
		e.logger.WithToken(request.Mint).WithField("decision_id", decisionID).Info("🧪 Dry run - buy not submitted")
		e.tradeLogger.LogBuy(decisionID, request.Mint, request.TokenName, request.TokenSymbol,
			request.AmountSOL, float64(request.AmountTokens), price, "", "dry_run", "",
			e.config.Trading.SlippageBP)

		return &TradeResult{
			Success:      true,
			DryRun:       true,
			DecisionID:   decisionID,
			AmountSOL:    request.AmountSOL,
			AmountTokens: request.AmountTokens,
			Price:        price,
			TradeTime:    time.Since(startTime),
		}
	}

	accounts, err := e.deriveAccounts(request.Mint)
	if err != nil {
		return e.failBuy(request, decisionID, startTime, err)
	}

	maxSolCost := config.ConvertSOLToLamports(utils.ApplySlippage(request.AmountSOL, e.config.Trading.SlippageBP, true))

	instructions := []types.Instruction{}
	if e.config.Trading.PriorityFee > 0 {
		instructions = append(instructions, createPriorityFeeInstruction(e.config.Trading.PriorityFee))
	}
	instructions = append(instructions,
		createComputeBudgetInstruction(),
		createAssociatedAccountInstruction(accounts.mint, accounts.userATA, e.wallet.GetPublicKey()),
		createBuyInstruction(accounts.mint, accounts.bondingCurve, accounts.associatedBondingCurve,
			accounts.userATA, e.wallet.GetPublicKey(), request.AmountTokens, maxSolCost),
	)

	transaction, err := e.wallet.CreateTransaction(ctx, instructions)
	if err != nil {
		return e.failBuy(request, decisionID, startTime, err)
	}

	signature, err := e.wallet.SendAndConfirmTransaction(ctx, transaction)
	if err != nil {
		return e.failBuy(request, decisionID, startTime, err)
	}

	e.logger.LogTradeSuccess("buy", request.Mint, request.AmountSOL, signature, price)
	e.tradeLogger.LogBuy(decisionID, request.Mint, request.TokenName, request.TokenSymbol,
		request.AmountSOL, float64(request.AmountTokens), price, signature, "success", "",
		e.config.Trading.SlippageBP)

	return &TradeResult{
		Success:      true,
		DecisionID:   decisionID,
		Signature:    signature,
		AmountSOL:    request.AmountSOL,
		AmountTokens: request.AmountTokens,
		Price:        price,
		TradeTime:    time.Since(startTime),
	}
}

// Sell liquidates the position's token quantity. In dry-run mode the
// trade is logged but never submitted.
func (e *Executor) Sell(ctx context.Context, request TradeRequest) *TradeResult {
	startTime := time.Now()
	decisionID := uuid.NewString()

	price := 0.0
	if request.AmountTokens > 0 {
		price = request.AmountSOL / float64(request.AmountTokens)
	}

	e.logger.LogTradeAttempt("sell", request.Mint, request.AmountSOL, "")

	if e.dryRun {
		e.logger.WithToken(request.Mint).WithField("decision_id", decisionID).Info("🧪 Dry run - sell not submitted")
		e.tradeLogger.LogSell(decisionID, request.Mint, request.TokenName, request.TokenSymbol,
			request.AmountSOL, float64(request.AmountTokens), price, "", "dry_run", "",
			e.config.Trading.SlippageBP, request.ExitReason, request.ProfitPct)

		return &TradeResult{
			Success:      true,
			DryRun:       true,
			DecisionID:   decisionID,
			AmountSOL:    request.AmountSOL,
			AmountTokens: request.AmountTokens,
			Price:        price,
			TradeTime:    time.Since(startTime),
		}
	}

	accounts, err := e.deriveAccounts(request.Mint)
	if err != nil {
		return e.failSell(request, decisionID, startTime, err)
	}

	sellAmount := request.AmountTokens
	if sellAmount == 0 {
		// Fall back to the on-chain balance when the caller did not
		// track the exact quantity
		sellAmount, err = e.tokenBalance(ctx, accounts.userATA)
		if err != nil {
			return e.failSell(request, decisionID, startTime, err)
		}
	}

	if sellAmount == 0 {
		return e.failSell(request, decisionID, startTime, fmt.Errorf("no tokens to sell for %s", request.Mint))
	}

	minSolOutput := config.ConvertSOLToLamports(utils.ApplySlippage(request.AmountSOL, e.config.Trading.SlippageBP, false))

	instructions := []types.Instruction{}
	if e.config.Trading.PriorityFee > 0 {
		instructions = append(instructions, createPriorityFeeInstruction(e.config.Trading.PriorityFee))
	}
	instructions = append(instructions,
		createComputeBudgetInstruction(),
		createSellInstruction(accounts.mint, accounts.bondingCurve, accounts.associatedBondingCurve,
			accounts.userATA, e.wallet.GetPublicKey(), sellAmount, minSolOutput),
	)

	if request.CloseATA {
		instructions = append(instructions, createCloseAccountInstruction(accounts.userATA, e.wallet.GetPublicKey()))
	}

	transaction, err := e.wallet.CreateTransaction(ctx, instructions)
	if err != nil {
		return e.failSell(request, decisionID, startTime, err)
	}

	signature, err := e.wallet.SendAndConfirmTransaction(ctx, transaction)
	if err != nil {
		return e.failSell(request, decisionID, startTime, err)
	}

	e.logger.LogTradeSuccess("sell", request.Mint, request.AmountSOL, signature, price)
	e.tradeLogger.LogSell(decisionID, request.Mint, request.TokenName, request.TokenSymbol,
		request.AmountSOL, float64(sellAmount), price, signature, "success", "",
		e.config.Trading.SlippageBP, request.ExitReason, request.ProfitPct)

	return &TradeResult{
		Success:      true,
		DecisionID:   decisionID,
		Signature:    signature,
		AmountSOL:    request.AmountSOL,
		AmountTokens: sellAmount,
		Price:        price,
		TradeTime:    time.Since(startTime),
	}
}

// tokenBalance reads the raw token amount from the user's ATA
func (e *Executor) tokenBalance(ctx context.Context, ata common.PublicKey) (uint64, error) {
	accountInfo, err := e.rpcClient.GetAccountInfo(ctx, ata.ToBase58())
	if err != nil {
		return 0, fmt.Errorf("failed to get token account: %w", err)
	}

	if len(accountInfo.Data) == 0 {
		return 0, fmt.Errorf("token account has no data")
	}

	data, err := utils.DecodeDataString(accountInfo.Data[0])
	if err != nil {
		return 0, fmt.Errorf("failed to decode token account data: %w", err)
	}

	return decodeTokenAccountAmount(data)
}

// decodeTokenAccountAmount extracts the raw amount from SPL token account
// data, a little-endian u64 at offset 64
func decodeTokenAccountAmount(data []byte) (uint64, error) {
	if len(data) < 72 {
		return 0, fmt.Errorf("token account data too short")
	}

	amount, err := utils.DecodeU64LE(data[64:72])
	if err != nil {
		return 0, fmt.Errorf("failed to decode token balance: %w", err)
	}

	return amount, nil
}

func (e *Executor) failBuy(request TradeRequest, decisionID string, startTime time.Time, err error) *TradeResult {
	e.logger.LogTradeError("buy", request.Mint, request.AmountSOL, err)
	e.tradeLogger.LogBuy(decisionID, request.Mint, request.TokenName, request.TokenSymbol,
		request.AmountSOL, float64(request.AmountTokens), 0, "", "failed", err.Error(),
		e.config.Trading.SlippageBP)

	return &TradeResult{
		Success:    false,
		DecisionID: decisionID,
		Error:      err.Error(),
		TradeTime:  time.Since(startTime),
	}
}

func (e *Executor) failSell(request TradeRequest, decisionID string, startTime time.Time, err error) *TradeResult {
	e.logger.LogTradeError("sell", request.Mint, request.AmountSOL, err)
	e.tradeLogger.LogSell(decisionID, request.Mint, request.TokenName, request.TokenSymbol,
		request.AmountSOL, float64(request.AmountTokens), 0, "", "failed", err.Error(),
		e.config.Trading.SlippageBP, request.ExitReason, request.ProfitPct)

	return &TradeResult{
		Success:    false,
		DecisionID: decisionID,
		Error:      err.Error(),
		TradeTime:  time.Since(startTime),
	}
}
