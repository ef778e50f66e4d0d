package sniper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-sniper-go/internal/config"
	"pump-sniper-go/internal/executor"
	"pump-sniper-go/internal/holders"
	"pump-sniper-go/internal/logger"
	"pump-sniper-go/internal/momentum"
	"pump-sniper-go/internal/position"
	"pump-sniper-go/internal/stream"
)

func newTestSniper(t *testing.T) *Sniper {
	t.Helper()

	log, err := logger.NewLogger(logger.LogConfig{Level: "error", Format: "text"})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Momentum.ObservationWindowMs = 5000

	return New(Deps{
		Config:    cfg,
		Logger:    log,
		Stream:    stream.NewClient("ws://127.0.0.1:0", log.Logger),
		Watcher:   holders.NewWatcher(3, false, 50),
		Store:     position.NewStore(),
		Validator: momentum.NewValidator(momentum.ThresholdsFromConfig(cfg)),
	})
}

func TestFailedEntryDropsWatchRecord(t *testing.T) {
	s := newTestSniper(t)

	mint := "mint1"
	require.True(t, s.validator.Watch(mint, time.Now()))
	token := &trackedToken{mint: mint, entering: true, lastPrice: 0.001}
	s.tokens[mint] = token

	s.finishEntry(token, 0.001, &executor.TradeResult{Success: false})

	assert.False(t, s.validator.Watching(mint))
	assert.NotContains(t, s.tokens, mint)
	_, held := s.store.Get(mint)
	assert.False(t, held)
}

func TestExpireTokenDropsWatchRecord(t *testing.T) {
	s := newTestSniper(t)

	mint := "mint1"
	require.True(t, s.validator.Watch(mint, time.Now()))
	s.tokens[mint] = &trackedToken{mint: mint}

	s.expireToken(mint, []string{"trades:0<3"})

	assert.False(t, s.validator.Watching(mint))
	assert.NotContains(t, s.tokens, mint)
}
