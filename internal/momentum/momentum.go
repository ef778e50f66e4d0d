package momentum

import (
	"fmt"
	"sync"
	"time"

	"pump-sniper-go/internal/config"
	"pump-sniper-go/pkg/utils"
)

// Status represents the admission state of a watched token
type Status string

const (
	StatusNotWatched Status = "not_watched"
	StatusObserving  Status = "observing"
	StatusReady      Status = "ready"
	StatusExpired    Status = "expired"
)

// Side is the direction of an observed trade
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TradeObservation is a single trade event folded into a token's counters
type TradeObservation struct {
	Mint      string
	Side      Side
	Price     float64
	SizeSOL   float64
	Trader    string
	Timestamp time.Time
}

// Thresholds are the entry-gate conditions a token must satisfy
type Thresholds struct {
	MinTrades              int
	MinVolumeSOL           float64
	MinPriceChangePct      float64
	MinUniqueTraders       int
	MinBuyRatio            float64
	MaxHolderConcentration float64
	ObservationWindow      time.Duration
}

// ThresholdsFromConfig builds gate thresholds from the application config
func ThresholdsFromConfig(cfg *config.Config) Thresholds {
	return Thresholds{
		MinTrades:              cfg.Momentum.MinTrades,
		MinVolumeSOL:           cfg.Momentum.MinVolumeSOL,
		MinPriceChangePct:      cfg.Momentum.MinPriceChangePct,
		MinUniqueTraders:       cfg.Momentum.MinUniqueTraders,
		MinBuyRatio:            cfg.Momentum.MinBuyRatio,
		MaxHolderConcentration: cfg.Momentum.MaxHolderConcentration,
		ObservationWindow:      cfg.GetObservationWindow(),
	}
}

// WatchRecord holds the running counters for a single token under observation.
// All counters are monotonically non-decreasing for the record's lifetime.
type WatchRecord struct {
	mu sync.Mutex

	Mint        string
	FirstSeenAt time.Time
	Deadline    time.Time

	TradeCount       int
	BuyCount         int
	SellCount        int
	CumulativeVolume float64
	BuyVolume        float64
	SellVolume       float64

	uniqueTraders map[string]struct{}

	FirstPrice float64
	LastPrice  float64
	HighPrice  float64
	LowPrice   float64

	HolderConcentration float64
	HolderDataFetched   bool

	Status Status
}

// UniqueTraderCount returns the number of distinct traders seen so far
func (r *WatchRecord) UniqueTraderCount() int {
	return len(r.uniqueTraders)
}

// BuyRatio is buy_count / (buy_count + sell_count), 0 when no trades
func (r *WatchRecord) BuyRatio() float64 {
	return utils.SafeDiv(float64(r.BuyCount), float64(r.BuyCount+r.SellCount))
}

// VolumeWeightedBuyRatio is the advisory SOL-weighted buy share
func (r *WatchRecord) VolumeWeightedBuyRatio() float64 {
	return utils.SafeDiv(r.BuyVolume, r.BuyVolume+r.SellVolume)
}

// NetFlowSOL is buy volume minus sell volume, an advisory demand metric
func (r *WatchRecord) NetFlowSOL() float64 {
	return r.BuyVolume - r.SellVolume
}

// PriceChangePct is abs(last/first - 1) * 100, 0 before the first trade
func (r *WatchRecord) PriceChangePct() float64 {
	if r.FirstPrice == 0 {
		return 0
	}
	change := (r.LastPrice/r.FirstPrice - 1) * 100
	if change < 0 {
		change = -change
	}
	return change
}

// Validator owns one watch record per observed token and decides admission.
// The table lock only guards the map; each record carries its own mutex so
// unrelated tokens never contend.
type Validator struct {
	mu         sync.RWMutex
	records    map[string]*WatchRecord
	thresholds Thresholds
}

// NewValidator creates a momentum validator with the given gate thresholds
func NewValidator(thresholds Thresholds) *Validator {
	return &Validator{
		records:    make(map[string]*WatchRecord),
		thresholds: thresholds,
	}
}

// record returns the watch record for mint, creating it when createAt is
// non-zero and the token is not yet watched
func (v *Validator) record(mint string, createAt time.Time) *WatchRecord {
	v.mu.RLock()
	r := v.records[mint]
	v.mu.RUnlock()
	if r != nil || createAt.IsZero() {
		return r
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if r = v.records[mint]; r != nil {
		return r
	}
	r = &WatchRecord{
		Mint:          mint,
		FirstSeenAt:   createAt,
		Deadline:      createAt.Add(v.thresholds.ObservationWindow),
		uniqueTraders: make(map[string]struct{}),
		Status:        StatusObserving,
	}
	v.records[mint] = r
	return r
}

// Watch starts observing a token. Returns true if a new observation window
// was opened, false if the token was already watched.
func (v *Validator) Watch(mint string, now time.Time) bool {
	v.mu.RLock()
	_, exists := v.records[mint]
	v.mu.RUnlock()
	if exists {
		return false
	}
	v.record(mint, now)
	return true
}

// RecordTrade folds a trade event into the token's counters. Unknown tokens
// are implicitly created; terminal records ignore further trades. Returns the
// status after the update.
func (v *Validator) RecordTrade(obs TradeObservation) Status {
	r := v.record(obs.Mint, obs.Timestamp)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusObserving {
		return r.Status
	}

	r.TradeCount++
	switch obs.Side {
	case SideBuy:
		r.BuyCount++
		r.BuyVolume += obs.SizeSOL
	case SideSell:
		r.SellCount++
		r.SellVolume += obs.SizeSOL
	}
	r.CumulativeVolume += obs.SizeSOL
	if obs.Trader != "" {
		r.uniqueTraders[obs.Trader] = struct{}{}
	}

	if r.FirstPrice == 0 {
		r.FirstPrice = obs.Price
		r.LowPrice = obs.Price
	}
	r.LastPrice = obs.Price
	if obs.Price > r.HighPrice {
		r.HighPrice = obs.Price
	}
	if obs.Price < r.LowPrice {
		r.LowPrice = obs.Price
	}

	return r.Status
}

// SetHolderConcentration records the asynchronous holder fetch result.
// A no-op for unknown or terminal records; an expired token is never
// resurrected by late holder data.
func (v *Validator) SetHolderConcentration(mint string, fraction float64) {
	r := v.record(mint, time.Time{})
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusObserving {
		return
	}
	r.HolderConcentration = fraction
	r.HolderDataFetched = true
}

// Check evaluates the token's admission state at the given time. When all
// conditions hold the record transitions to Ready; when the observation
// window has elapsed without Ready it transitions to Expired. Both are
// terminal. The returned slice names the unmet conditions, advisory only.
func (v *Validator) Check(mint string, now time.Time) (Status, []string) {
	r := v.record(mint, time.Time{})
	if r == nil {
		return StatusNotWatched, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusObserving {
		return r.Status, nil
	}

	unmet := v.unmetLocked(r)
	if now.After(r.Deadline) {
		// Window elapsed; never promote late, even if everything holds now.
		r.Status = StatusExpired
		return r.Status, unmet
	}

	if len(unmet) == 0 {
		r.Status = StatusReady
		return r.Status, nil
	}
	return r.Status, unmet
}

// unmetLocked reports which gate conditions the record does not satisfy.
// Caller holds r.mu.
func (v *Validator) unmetLocked(r *WatchRecord) []string {
	var unmet []string
	t := v.thresholds

	if r.TradeCount < t.MinTrades {
		unmet = append(unmet, fmt.Sprintf("trades:%d<%d", r.TradeCount, t.MinTrades))
	}
	if r.CumulativeVolume < t.MinVolumeSOL {
		unmet = append(unmet, fmt.Sprintf("volume:%.2f<%.2f", r.CumulativeVolume, t.MinVolumeSOL))
	}
	if change := r.PriceChangePct(); change < t.MinPriceChangePct {
		unmet = append(unmet, fmt.Sprintf("price_change:%.1f%%<%.1f%%", change, t.MinPriceChangePct))
	}
	if len(r.uniqueTraders) < t.MinUniqueTraders {
		unmet = append(unmet, fmt.Sprintf("traders:%d<%d", len(r.uniqueTraders), t.MinUniqueTraders))
	}
	if ratio := r.BuyRatio(); ratio < t.MinBuyRatio {
		unmet = append(unmet, fmt.Sprintf("buy_ratio:%.2f<%.2f", ratio, t.MinBuyRatio))
	}
	if !r.HolderDataFetched {
		unmet = append(unmet, "holder_data:pending")
	} else if r.HolderConcentration > t.MaxHolderConcentration {
		unmet = append(unmet, fmt.Sprintf("whale:%.0f%%>%.0f%%",
			r.HolderConcentration*100, t.MaxHolderConcentration*100))
	}

	return unmet
}

// Remove drops the watch record for a token. A token that reappears after
// removal starts a fresh observation window.
func (v *Validator) Remove(mint string) {
	v.mu.Lock()
	delete(v.records, mint)
	v.mu.Unlock()
}

// ExpiredToken describes a token whose observation window closed without entry
type ExpiredToken struct {
	Mint  string
	Unmet []string
}

// CleanupExpired transitions every overdue record to Expired and removes all
// terminal records from the table, returning the newly expired tokens.
func (v *Validator) CleanupExpired(now time.Time) []ExpiredToken {
	v.mu.Lock()
	candidates := make([]*WatchRecord, 0, len(v.records))
	for _, r := range v.records {
		candidates = append(candidates, r)
	}
	v.mu.Unlock()

	var expired []ExpiredToken
	var remove []string
	for _, r := range candidates {
		r.mu.Lock()
		if r.Status == StatusObserving && now.After(r.Deadline) {
			r.Status = StatusExpired
			expired = append(expired, ExpiredToken{Mint: r.Mint, Unmet: v.unmetLocked(r)})
		}
		if r.Status == StatusExpired {
			remove = append(remove, r.Mint)
		}
		r.mu.Unlock()
	}

	if len(remove) > 0 {
		v.mu.Lock()
		for _, mint := range remove {
			delete(v.records, mint)
		}
		v.mu.Unlock()
	}

	return expired
}

// WatchSnapshot is a read-only view of a record for diagnostics logging
type WatchSnapshot struct {
	Mint                string
	Status              Status
	TradeCount          int
	UniqueTraders       int
	CumulativeVolume    float64
	PriceChangePct      float64
	BuyRatio            float64
	NetFlowSOL          float64
	HolderDataFetched   bool
	HolderConcentration float64
	Unmet               []string
}

// Snapshot returns point-in-time views of every watched token
func (v *Validator) Snapshot() []WatchSnapshot {
	v.mu.RLock()
	records := make([]*WatchRecord, 0, len(v.records))
	for _, r := range v.records {
		records = append(records, r)
	}
	v.mu.RUnlock()

	out := make([]WatchSnapshot, 0, len(records))
	for _, r := range records {
		r.mu.Lock()
		out = append(out, WatchSnapshot{
			Mint:                r.Mint,
			Status:              r.Status,
			TradeCount:          r.TradeCount,
			UniqueTraders:       len(r.uniqueTraders),
			CumulativeVolume:    r.CumulativeVolume,
			PriceChangePct:      r.PriceChangePct(),
			BuyRatio:            r.BuyRatio(),
			NetFlowSOL:          r.NetFlowSOL(),
			HolderDataFetched:   r.HolderDataFetched,
			HolderConcentration: r.HolderConcentration,
			Unmet:               v.unmetLocked(r),
		})
		r.mu.Unlock()
	}
	return out
}

// SnapshotOf returns a point-in-time view of a single watched token
func (v *Validator) SnapshotOf(mint string) (WatchSnapshot, bool) {
	v.mu.RLock()
	r, ok := v.records[mint]
	v.mu.RUnlock()
	if !ok {
		return WatchSnapshot{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return WatchSnapshot{
		Mint:                r.Mint,
		Status:              r.Status,
		TradeCount:          r.TradeCount,
		UniqueTraders:       len(r.uniqueTraders),
		CumulativeVolume:    r.CumulativeVolume,
		PriceChangePct:      r.PriceChangePct(),
		BuyRatio:            r.BuyRatio(),
		NetFlowSOL:          r.NetFlowSOL(),
		HolderDataFetched:   r.HolderDataFetched,
		HolderConcentration: r.HolderConcentration,
		Unmet:               v.unmetLocked(r),
	}, true
}

// Watching reports whether a token currently has a live observation window
func (v *Validator) Watching(mint string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.records[mint]
	return ok
}
