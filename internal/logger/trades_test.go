package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTradeLogger(t *testing.T) (*TradeLogger, string) {
	t.Helper()

	log, err := NewLogger(LogConfig{Level: "error", Format: "json"})
	require.NoError(t, err)

	dir := t.TempDir()
	tl, err := NewTradeLogger(dir, log)
	require.NoError(t, err)

	return tl, dir
}

func TestLogBuyWritesDailyFile(t *testing.T) {
	tl, dir := newTestTradeLogger(t)

	err := tl.LogBuy("id-1", "mint1", "Moon", "MOON", 0.01, 250000, 0.00000004, "sig1", "success", "", 500)
	require.NoError(t, err)
	err = tl.LogSell("id-2", "mint1", "Moon", "MOON", 0.015, 250000, 0.00000006, "sig2", "success", "", 500, "take_profit", 50)
	require.NoError(t, err)

	path := filepath.Join(dir, fmt.Sprintf("trades_%s.jsonl", time.Now().Format("2006-01-02")))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var trades []TradeLog
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var trade TradeLog
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &trade))
		trades = append(trades, trade)
	}

	require.Len(t, trades, 2)
	assert.Equal(t, "buy", trades[0].TradeType)
	assert.Equal(t, "id-1", trades[0].DecisionID)
	assert.Equal(t, "sell", trades[1].TradeType)
	assert.Equal(t, "take_profit", trades[1].ExitReason)
	assert.Equal(t, 50.0, trades[1].ProfitPct)
}

func TestLogDailySummary(t *testing.T) {
	tl, dir := newTestTradeLogger(t)

	summary := DailySummary{
		Date:        time.Now().UTC().Format("2006-01-02"),
		Timestamp:   time.Now(),
		TradesTotal: 3,
		Wins:        2,
		Losses:      1,
		WinRatePct:  66.7,
		TotalPnLSOL: 0.04,
	}
	require.NoError(t, tl.LogDailySummary(summary))

	path := filepath.Join(dir, fmt.Sprintf("summary_%s.json", summary.Date))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var restored DailySummary
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, 3, restored.TradesTotal)
	assert.InDelta(t, 0.04, restored.TotalPnLSOL, 1e-9)
}
