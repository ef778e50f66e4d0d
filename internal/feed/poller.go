package feed

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"pump-sniper-go/internal/config"
	"pump-sniper-go/internal/logger"
	"pump-sniper-go/internal/position"
	"pump-sniper-go/pkg/utils"
)

// PriceTick is one observed price for a held token
type PriceTick struct {
	Mint      string
	Price     float64
	Timestamp time.Time
}

// Poller periodically reads the bonding curve of every open position
// and emits price ticks
type Poller struct {
	curveReader *CurveReader
	store       *position.Store
	config      *config.Config
	logger      *logger.Logger
	pda         *utils.PumpFunPDADerivation

	ticks chan PriceTick

	// Curve addresses resolved once per mint
	curveCache map[string]string
}

// NewPoller creates a price poller over the position store
func NewPoller(curveReader *CurveReader, store *position.Store, cfg *config.Config, log *logger.Logger) *Poller {
	return &Poller{
		curveReader: curveReader,
		store:       store,
		config:      cfg,
		logger:      log,
		pda:         utils.NewPumpFunPDADerivation(),
		ticks:       make(chan PriceTick, 256),
		curveCache:  make(map[string]string),
	}
}

// Ticks returns the channel of emitted price ticks
func (p *Poller) Ticks() <-chan PriceTick {
	return p.ticks
}

// Run polls until the context is cancelled. Blocking; run in a
// goroutine.
func (p *Poller) Run(ctx context.Context) {
	interval := p.config.GetFeedPollInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.logger.WithComponent("feed").WithField("interval", interval).Info("📈 Price poller started")

	for {
		select {
		case <-ctx.Done():
			p.logger.WithComponent("feed").Info("🛑 Price poller stopped")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce reads the curve for every open position
func (p *Poller) pollOnce(ctx context.Context) {
	open := p.store.ListOpen()
	p.pruneCache(open)
	if len(open) == 0 {
		return
	}

	now := time.Now()

	for _, pos := range open {
		curveAddress, err := p.curveAddress(pos.Mint)
		if err != nil {
			p.logger.WithError(err).WithField("mint", pos.Mint).Warn("⚠️ Cannot derive bonding curve")
			continue
		}

		price, err := p.curveReader.GetTokenPrice(ctx, curveAddress)
		if err != nil {
			p.logger.WithFields(logrus.Fields{
				"mint":  pos.Mint,
				"curve": curveAddress,
			}).WithError(err).Debug("Price fetch failed")
			continue
		}

		select {
		case p.ticks <- PriceTick{Mint: pos.Mint, Price: price, Timestamp: now}:
		default:
			p.logger.WithField("mint", pos.Mint).Warn("⚠️ Tick channel full, dropping price update")
		}
	}
}

// pruneCache drops cached curve addresses for mints no longer held
func (p *Poller) pruneCache(open []position.Position) {
	if len(p.curveCache) == 0 {
		return
	}

	held := make(map[string]struct{}, len(open))
	for _, pos := range open {
		held[pos.Mint] = struct{}{}
	}

	for mint := range p.curveCache {
		if _, ok := held[mint]; !ok {
			delete(p.curveCache, mint)
		}
	}
}

// curveAddress resolves and caches the bonding curve PDA for a mint
func (p *Poller) curveAddress(mint string) (string, error) {
	if addr, ok := p.curveCache[mint]; ok {
		return addr, nil
	}

	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return "", err
	}

	curve, _, err := p.pda.DeriveBondingCurve(mintKey)
	if err != nil {
		return "", err
	}

	addr := curve.String()
	p.curveCache[mint] = addr
	return addr, nil
}
