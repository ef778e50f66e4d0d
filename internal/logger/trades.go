package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TradeLog represents a trade log entry
type TradeLog struct {
	Timestamp    time.Time `json:"timestamp"`
	DecisionID   string    `json:"decision_id"`             // Correlation ID for the entry/exit decision
	TradeType    string    `json:"trade_type"`              // "buy" or "sell"
	Mint         string    `json:"mint"`                    // Token mint address
	TokenName    string    `json:"token_name"`              // Token name
	TokenSymbol  string    `json:"token_symbol"`            // Token symbol
	AmountSOL    float64   `json:"amount_sol"`              // Amount in SOL
	AmountTokens float64   `json:"amount_tokens"`           // Amount in tokens
	Price        float64   `json:"price"`                   // Price per token in SOL
	Signature    string    `json:"signature"`               // Transaction signature
	Status       string    `json:"status"`                  // "success", "failed", "dry_run"
	ErrorMessage string    `json:"error_message,omitempty"` // Error if failed
	SlippageBP   int       `json:"slippage_bp"`             // Slippage in basis points
	ExitReason   string    `json:"exit_reason,omitempty"`   // Exit reason for sell trades
	ProfitPct    float64   `json:"profit_pct,omitempty"`    // P&L percentage for sell trades
}

// TradeLogger handles trade-specific logging
type TradeLogger struct {
	baseDir string
	logger  *Logger
}

// NewTradeLogger creates a new trade logger
func NewTradeLogger(baseDir string, logger *Logger) (*TradeLogger, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create trade log directory: %w", err)
	}

	return &TradeLogger{
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// LogTrade logs a trade to both structured logs and trade files
func (tl *TradeLogger) LogTrade(trade TradeLog) error {
	// Log to main logger
	tl.logger.WithFields(map[string]interface{}{
		"event":         "trade_logged",
		"decision_id":   trade.DecisionID,
		"trade_type":    trade.TradeType,
		"mint":          trade.Mint,
		"token_name":    trade.TokenName,
		"amount_sol":    trade.AmountSOL,
		"amount_tokens": trade.AmountTokens,
		"price":         trade.Price,
		"signature":     trade.Signature,
		"status":        trade.Status,
		"exit_reason":   trade.ExitReason,
	}).Info("Trade logged")

	// Write to daily trade file
	filename := fmt.Sprintf("trades_%s.jsonl", time.Now().Format("2006-01-02"))
	filepath := filepath.Join(tl.baseDir, filename)

	file, err := os.OpenFile(filepath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open trade log file: %w", err)
	}
	defer file.Close()

	// Write trade as JSON line
	tradeBytes, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("failed to marshal trade: %w", err)
	}

	if _, err := file.Write(append(tradeBytes, '\n')); err != nil {
		return fmt.Errorf("failed to write trade to file: %w", err)
	}

	return nil
}

// LogBuy logs a buy trade
func (tl *TradeLogger) LogBuy(decisionID, mint, tokenName, tokenSymbol string,
	amountSOL, amountTokens, price float64, signature string,
	status string, errorMsg string, slippageBP int) error {

	trade := TradeLog{
		Timestamp:    time.Now(),
		DecisionID:   decisionID,
		TradeType:    "buy",
		Mint:         mint,
		TokenName:    tokenName,
		TokenSymbol:  tokenSymbol,
		AmountSOL:    amountSOL,
		AmountTokens: amountTokens,
		Price:        price,
		Signature:    signature,
		Status:       status,
		ErrorMessage: errorMsg,
		SlippageBP:   slippageBP,
	}

	return tl.LogTrade(trade)
}

// LogSell logs a sell trade
func (tl *TradeLogger) LogSell(decisionID, mint, tokenName, tokenSymbol string,
	amountSOL, amountTokens, price float64, signature string,
	status string, errorMsg string, slippageBP int,
	exitReason string, profitPct float64) error {

	trade := TradeLog{
		Timestamp:    time.Now(),
		DecisionID:   decisionID,
		TradeType:    "sell",
		Mint:         mint,
		TokenName:    tokenName,
		TokenSymbol:  tokenSymbol,
		AmountSOL:    amountSOL,
		AmountTokens: amountTokens,
		Price:        price,
		Signature:    signature,
		Status:       status,
		ErrorMessage: errorMsg,
		SlippageBP:   slippageBP,
		ExitReason:   exitReason,
		ProfitPct:    profitPct,
	}

	return tl.LogTrade(trade)
}

// DailySummary is the end-of-day rollup written beside the trade files
type DailySummary struct {
	Date          string    `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
	TradesTotal   int       `json:"trades_total"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	WinRatePct    float64   `json:"win_rate_pct"`
	TotalPnLSOL   float64   `json:"total_pnl_sol"`
	BestTradePct  float64   `json:"best_trade_pct"`
	WorstTradePct float64   `json:"worst_trade_pct"`
	OpenPositions int       `json:"open_positions"`
}

// LogDailySummary writes the daily trading summary file
func (tl *TradeLogger) LogDailySummary(summary DailySummary) error {
	summary.Date = time.Now().UTC().Format("2006-01-02")
	summary.Timestamp = time.Now()

	filename := fmt.Sprintf("summary_%s.json", summary.Date)
	filepath := filepath.Join(tl.baseDir, filename)

	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	tl.logger.WithFields(map[string]interface{}{
		"event":        "daily_summary",
		"trades_total": summary.TradesTotal,
		"win_rate_pct": summary.WinRatePct,
		"total_pnl":    summary.TotalPnLSOL,
	}).Info("Daily summary logged")

	return nil
}
