package sniper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"pump-sniper-go/internal/config"
	"pump-sniper-go/internal/executor"
	"pump-sniper-go/internal/feed"
	"pump-sniper-go/internal/holders"
	"pump-sniper-go/internal/logger"
	"pump-sniper-go/internal/metrics"
	"pump-sniper-go/internal/momentum"
	"pump-sniper-go/internal/position"
	"pump-sniper-go/internal/stream"
)

// trackedToken is the metadata kept for a token between discovery and
// entry
type trackedToken struct {
	mint            string
	name            string
	symbol          string
	bondingCurveKey string
	lastPrice       float64
	entering        bool
}

// Sniper wires the stream, momentum gate, holder checks, price feed,
// and exit engine into one decision loop
type Sniper struct {
	config      *config.Config
	logger      *logger.Logger
	tradeLogger *logger.TradeLogger

	validator  *momentum.Validator
	store      *position.Store
	exitEngine *position.Engine
	stats      *position.DailyStats

	stream   *stream.Client
	fetcher  *holders.Fetcher
	watcher  *holders.Watcher
	poller   *feed.Poller
	executor *executor.Executor
	metrics  *metrics.Metrics
	cron     *cron.Cron

	// Loop-owned state; only the run loop touches these maps
	tokens  map[string]*trackedToken
	dists   map[string]*holders.Distribution
	exiting map[string]bool

	// Deferred work handed back to the run loop from goroutines
	loopCh chan func()

	distCh chan *holders.Distribution

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Deps are the collaborators the sniper orchestrates
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	TradeLogger *logger.TradeLogger
	Stream      *stream.Client
	Watcher     *holders.Watcher
	Poller      *feed.Poller
	Executor    *executor.Executor
	Metrics     *metrics.Metrics
	Store       *position.Store
	Validator   *momentum.Validator
}

// New creates the sniper around its collaborators
func New(deps Deps) *Sniper {
	ctx, cancel := context.WithCancel(context.Background())

	return &Sniper{
		config:      deps.Config,
		logger:      deps.Logger,
		tradeLogger: deps.TradeLogger,
		validator:   deps.Validator,
		store:       deps.Store,
		exitEngine:  position.NewEngine(position.RulesFromConfig(deps.Config)),
		stats:       position.NewDailyStats(),
		stream:      deps.Stream,
		watcher:     deps.Watcher,
		poller:      deps.Poller,
		executor:    deps.Executor,
		metrics:     deps.Metrics,
		cron:        cron.New(cron.WithLocation(time.UTC)),
		tokens:      make(map[string]*trackedToken),
		dists:       make(map[string]*holders.Distribution),
		exiting:     make(map[string]bool),
		loopCh:      make(chan func(), 64),
		distCh:      make(chan *holders.Distribution, 64),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetFetcher installs the holder fetcher after construction; the
// fetcher's sink points back at the sniper, so the two cannot be built
// in one step
func (s *Sniper) SetFetcher(f *holders.Fetcher) {
	s.fetcher = f
}

// DistSink is the callback the holder fetcher delivers results to
func (s *Sniper) DistSink(dist *holders.Distribution) {
	select {
	case s.distCh <- dist:
	case <-s.ctx.Done():
	}
}

// Start restores persisted positions, subscribes the stream, and runs
// the decision loop
func (s *Sniper) Start() error {
	restored, err := s.store.LoadFromFile(s.config.Positions.PersistPath)
	if err != nil {
		return fmt.Errorf("failed to load positions: %w", err)
	}
	if restored > 0 {
		s.logger.WithField("positions", restored).Info("💾 Restored open positions")
		for _, pos := range s.store.ListOpen() {
			s.tokens[pos.Mint] = &trackedToken{
				mint:   pos.Mint,
				name:   pos.TokenName,
				symbol: pos.TokenSymbol,
			}
			if err := s.stream.SubscribeTokenTrades(pos.Mint); err != nil {
				s.logger.WithToken(pos.Mint).WithError(err).Warn("⚠️ Failed to resubscribe restored position")
			}
		}
	}

	if s.metrics != nil {
		s.metrics.OpenPositions.Set(float64(s.store.Count()))
	}

	if err := s.stream.SubscribeNewTokens(); err != nil {
		return fmt.Errorf("failed to subscribe to new tokens: %w", err)
	}

	s.cron.AddFunc("0 0 * * *", s.rollDailyStats)
	s.cron.Start()

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.poller.Run(s.ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.run()
	}()

	return nil
}

// Stop cancels the loop and persists open positions
func (s *Sniper) Stop() {
	s.cancel()
	s.cron.Stop()
	s.wg.Wait()

	if err := s.store.SaveToFile(s.config.Positions.PersistPath); err != nil {
		s.logger.WithError(err).Error("❌ Failed to persist positions")
	} else {
		s.logger.WithField("positions", s.store.Count()).Info("💾 Positions persisted")
	}
}

// run is the single decision loop; all watch/position transitions
// funnel through it
func (s *Sniper) run() {
	cleanup := time.NewTicker(time.Second)
	defer cleanup.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case create := <-s.stream.Creates():
			s.onCreate(create)
		case trade := <-s.stream.Trades():
			s.onTrade(trade)
		case dist := <-s.distCh:
			s.onHolderData(dist)
		case tick := <-s.poller.Ticks():
			s.onPriceTick(tick.Mint, tick.Price, tick.Timestamp)
		case fn := <-s.loopCh:
			fn()
		case now := <-cleanup.C:
			s.onCleanup(now)
		}
	}
}

// onCreate starts the observation window for a freshly launched token
func (s *Sniper) onCreate(event *stream.CreateEvent) {
	if s.metrics != nil {
		s.metrics.TokensDiscovered.Inc()
	}

	s.logger.LogTokenDiscovered(event.Mint, event.Creator, event.Name, event.Symbol)

	if !s.validator.Watch(event.Mint, event.Timestamp) {
		return
	}

	s.tokens[event.Mint] = &trackedToken{
		mint:            event.Mint,
		name:            event.Name,
		symbol:          event.Symbol,
		bondingCurveKey: event.BondingCurveKey,
	}

	if err := s.stream.SubscribeTokenTrades(event.Mint); err != nil {
		s.logger.WithToken(event.Mint).WithError(err).Warn("⚠️ Failed to subscribe token trades")
	}

	s.fetcher.FetchAsync(s.ctx, event.Mint)
}

// onTrade feeds a stream trade into momentum scoring, dump detection,
// and position marks
func (s *Sniper) onTrade(event *stream.TradeEvent) {
	if s.metrics != nil {
		s.metrics.TradesObserved.Inc()
	}

	price := event.Price()

	// Trades against a held token double as price ticks and feed the
	// holder dump detector
	if pos, ok := s.store.Get(event.Mint); ok {
		if !event.IsBuy && s.watcher.ProcessSell(event.Mint, event.Trader, event.TokenAmount) {
			s.logger.WithToken(event.Mint).WithField("trader", event.Trader).Warn("🐋 Tracked holder dumped")
		}
		if price > 0 {
			s.onPriceTick(event.Mint, price, event.Timestamp)
		} else {
			s.evaluateExit(pos)
		}
	}

	if !s.validator.Watching(event.Mint) {
		return
	}

	side := momentum.SideSell
	if event.IsBuy {
		side = momentum.SideBuy
	}

	s.validator.RecordTrade(momentum.TradeObservation{
		Mint:      event.Mint,
		Side:      side,
		Price:     price,
		SizeSOL:   event.SolAmount,
		Trader:    event.Trader,
		Timestamp: event.Timestamp,
	})

	if token, ok := s.tokens[event.Mint]; ok && price > 0 {
		token.lastPrice = price
	}

	s.checkReadiness(event.Mint, event.Timestamp)
}

// onHolderData applies a fetched holder distribution and rechecks the
// gate, since holder data is often the last unmet condition
func (s *Sniper) onHolderData(dist *holders.Distribution) {
	s.dists[dist.Mint] = dist

	if !s.validator.Watching(dist.Mint) {
		return
	}

	s.validator.SetHolderConcentration(dist.Mint, dist.Concentration)
	s.checkReadiness(dist.Mint, time.Now())
}

// checkReadiness runs the gate and enters on Ready
func (s *Sniper) checkReadiness(mint string, now time.Time) {
	status, unmet := s.validator.Check(mint, now)

	switch status {
	case momentum.StatusReady:
		s.enterPosition(mint)
	case momentum.StatusExpired:
		s.expireToken(mint, unmet)
	default:
		s.logger.LogWatchStatus(mint, string(status), unmet)
	}
}

// enterPosition buys the token and opens the position
func (s *Sniper) enterPosition(mint string) {
	token, ok := s.tokens[mint]
	if !ok || token.entering {
		return
	}
	if _, held := s.store.Get(mint); held {
		return
	}
	if token.lastPrice <= 0 {
		s.logger.WithToken(mint).Warn("⚠️ Ready without a price, skipping entry")
		return
	}

	token.entering = true

	if snap, ok := s.validator.SnapshotOf(mint); ok {
		s.logger.LogTokenReady(mint, snap.TradeCount, snap.CumulativeVolume, snap.PriceChangePct, snap.HolderConcentration)
	}
	if s.metrics != nil {
		s.metrics.TokensReady.Inc()
	}

	amountSOL := s.config.Trading.BuyAmountSOL
	price := token.lastPrice
	// Raw token units at six decimals
	amountTokens := uint64(amountSOL / price * float64(config.TokenDecimals))

	request := executor.TradeRequest{
		Mint:         mint,
		TokenName:    token.name,
		TokenSymbol:  token.symbol,
		AmountSOL:    amountSOL,
		AmountTokens: amountTokens,
	}

	go func() {
		result := s.executor.Buy(s.ctx, request)
		s.onLoop(func() { s.finishEntry(token, price, result) })
	}()
}

// finishEntry opens the position after a successful buy
func (s *Sniper) finishEntry(token *trackedToken, price float64, result *executor.TradeResult) {
	token.entering = false
	mint := token.mint

	if s.metrics != nil {
		s.metrics.TradeDuration.Observe(result.TradeTime.Seconds())
	}

	if !result.Success {
		s.logger.WithToken(mint).Error("❌ Entry failed, dropping token")
		s.forgetToken(mint)
		if s.metrics != nil {
			s.metrics.BuysTotal.WithLabelValues("failed").Inc()
		}
		return
	}

	if s.metrics != nil {
		status := "success"
		if result.DryRun {
			status = "dry_run"
		}
		s.metrics.BuysTotal.WithLabelValues(status).Inc()
	}

	pos := &position.Position{
		Mint:          mint,
		TokenName:     token.name,
		TokenSymbol:   token.symbol,
		EntryPrice:    price,
		EntryTime:     time.Now(),
		CostBasisSOL:  result.AmountSOL,
		TokenQuantity: float64(result.AmountTokens),
	}

	if err := s.store.Open(pos); err != nil {
		s.logger.WithToken(mint).WithError(err).Error("❌ Failed to open position")
		return
	}

	if dist, ok := s.dists[mint]; ok {
		s.watcher.Track(dist)
	}

	s.validator.Remove(mint)

	if s.metrics != nil {
		s.metrics.OpenPositions.Set(float64(s.store.Count()))
	}

	s.logger.WithToken(mint).WithField("entry_price", price).Info("📌 Position opened")
}

// onPriceTick marks the position and evaluates exit conditions
func (s *Sniper) onPriceTick(mint string, price float64, ts time.Time) {
	pos, err := s.store.UpdatePrice(mint, price, ts)
	if err != nil {
		// Stale ticks and unknown mints are expected noise
		return
	}

	s.evaluateExit(pos)
}

// evaluateExit runs the exit rules and liquidates on the first match
func (s *Sniper) evaluateExit(pos position.Position) {
	if s.exiting[pos.Mint] {
		return
	}

	decision := s.exitEngine.Evaluate(pos, s.watcher.Dumped(pos.Mint))
	if !decision.Exit {
		return
	}

	s.exiting[pos.Mint] = true

	s.logger.LogExitSignal(pos.Mint, string(decision.Reason), decision.PnLPct, pos.CurrentPrice, pos.PeakPrice)
	if s.metrics != nil {
		s.metrics.ExitsTotal.WithLabelValues(string(decision.Reason)).Inc()
	}

	proceedsSOL := pos.CurrentPrice * pos.TokenQuantity / float64(config.TokenDecimals)

	request := executor.TradeRequest{
		Mint:         pos.Mint,
		TokenName:    pos.TokenName,
		TokenSymbol:  pos.TokenSymbol,
		AmountSOL:    proceedsSOL,
		AmountTokens: uint64(pos.TokenQuantity),
		ExitReason:   string(decision.Reason),
		ProfitPct:    decision.PnLPct,
		CloseATA:     true,
	}

	go func() {
		result := s.executor.Sell(s.ctx, request)
		s.onLoop(func() { s.finishExit(pos, decision, result) })
	}()
}

// finishExit closes the position after the sell settles
func (s *Sniper) finishExit(pos position.Position, decision position.Decision, result *executor.TradeResult) {
	delete(s.exiting, pos.Mint)

	if s.metrics != nil {
		s.metrics.TradeDuration.Observe(result.TradeTime.Seconds())
	}

	if !result.Success {
		// Leave the position open; the next tick retries the exit
		s.logger.WithToken(pos.Mint).Error("❌ Exit trade failed, will retry")
		if s.metrics != nil {
			s.metrics.SellsTotal.WithLabelValues("failed").Inc()
		}
		return
	}

	if s.metrics != nil {
		status := "success"
		if result.DryRun {
			status = "dry_run"
		}
		s.metrics.SellsTotal.WithLabelValues(status).Inc()
	}

	closed, ok := s.store.Close(pos.Mint, result.AmountSOL)
	if !ok {
		return
	}

	pnlSOL := result.AmountSOL - closed.CostBasisSOL
	s.stats.RecordClose(pnlSOL, decision.PnLPct)

	s.watcher.Untrack(pos.Mint)
	s.forgetToken(pos.Mint)

	if s.metrics != nil {
		s.metrics.OpenPositions.Set(float64(s.store.Count()))
	}

	s.logger.WithToken(pos.Mint).WithField("pnl_sol", pnlSOL).Info("✅ Position closed")
}

// expireToken tears down a token whose window elapsed
func (s *Sniper) expireToken(mint string, unmet []string) {
	s.logger.LogTokenExpired(mint, unmet)
	if s.metrics != nil {
		s.metrics.TokensExpired.Inc()
	}

	s.forgetToken(mint)
}

// forgetToken drops the watch record, tracking state, and the trade
// subscription, unless a position still needs the feed
func (s *Sniper) forgetToken(mint string) {
	s.validator.Remove(mint)
	delete(s.tokens, mint)
	delete(s.dists, mint)

	if _, held := s.store.Get(mint); !held {
		if err := s.stream.UnsubscribeTokenTrades(mint); err != nil {
			s.logger.WithToken(mint).WithError(err).Debug("Unsubscribe failed")
		}
	}
}

// onCleanup sweeps expired observation windows
func (s *Sniper) onCleanup(now time.Time) {
	for _, expired := range s.validator.CleanupExpired(now) {
		s.logger.LogTokenExpired(expired.Mint, expired.Unmet)
		if s.metrics != nil {
			s.metrics.TokensExpired.Inc()
		}
		s.forgetToken(expired.Mint)
	}

	if s.metrics != nil {
		s.metrics.WatchedTokens.Set(float64(len(s.validator.Snapshot())))
	}
}

// rollDailyStats writes the daily summary and resets the counters
func (s *Sniper) rollDailyStats() {
	snap := s.stats.Snapshot()

	summary := logger.DailySummary{
		Date:          snap.Day,
		Timestamp:     time.Now(),
		TradesTotal:   snap.TradesTotal,
		Wins:          snap.Wins,
		Losses:        snap.Losses,
		WinRatePct:    snap.WinRatePct,
		TotalPnLSOL:   snap.TotalPnLSOL,
		BestTradePct:  snap.BestTradePct,
		WorstTradePct: snap.WorstTradePct,
		OpenPositions: s.store.Count(),
	}

	if err := s.tradeLogger.LogDailySummary(summary); err != nil {
		s.logger.WithError(err).Error("❌ Failed to write daily summary")
	}

	s.stats.Reset()
}

// onLoop hands a closure back to the run loop
func (s *Sniper) onLoop(fn func()) {
	select {
	case s.loopCh <- fn:
	case <-s.ctx.Done():
	}
}
