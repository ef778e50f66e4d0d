package holders

import (
	"sync"
	"time"
)

// watchedHolder tracks one top holder's balance since position entry
type watchedHolder struct {
	address     string
	entryAmount float64
	soldAmount  float64
}

// tokenWatch is the dump-detection state for one held token
type tokenWatch struct {
	mu      sync.Mutex
	mint    string
	since   time.Time
	holders map[string]*watchedHolder
	dumped  bool
}

// Watcher snapshots the top holders of a token at position entry and
// flags the token when one of them sells
type Watcher struct {
	mu      sync.RWMutex
	watches map[string]*tokenWatch

	watchCount       int
	exitOnAnySell    bool
	sellThresholdPct float64
}

// NewWatcher creates a holder dump watcher. watchCount is how many of
// the top holders to track per token. When exitOnAnySell is true any
// sell by a tracked holder flags the token; otherwise the flag is only
// raised once a tracked holder has sold sellThresholdPct of the balance
// it held at entry.
func NewWatcher(watchCount int, exitOnAnySell bool, sellThresholdPct float64) *Watcher {
	return &Watcher{
		watches:          make(map[string]*tokenWatch),
		watchCount:       watchCount,
		exitOnAnySell:    exitOnAnySell,
		sellThresholdPct: sellThresholdPct,
	}
}

// Track starts dump detection for a mint using the distribution that
// passed the entry gate. Call once when the position opens.
func (w *Watcher) Track(dist *Distribution) {
	watch := &tokenWatch{
		mint:    dist.Mint,
		since:   time.Now(),
		holders: make(map[string]*watchedHolder),
	}

	n := w.watchCount
	if n > len(dist.TopHolders) {
		n = len(dist.TopHolders)
	}

	for _, h := range dist.TopHolders[:n] {
		watch.holders[h.Address] = &watchedHolder{
			address:     h.Address,
			entryAmount: h.Amount,
		}
	}

	w.mu.Lock()
	w.watches[dist.Mint] = watch
	w.mu.Unlock()
}

// ProcessSell feeds a sell observed on the trade stream into dump
// detection. Sells by untracked traders or on untracked mints are
// ignored. Returns true when the sell flips the token to dumped.
func (w *Watcher) ProcessSell(mint, trader string, tokenAmount float64) bool {
	w.mu.RLock()
	watch, ok := w.watches[mint]
	w.mu.RUnlock()
	if !ok {
		return false
	}

	watch.mu.Lock()
	defer watch.mu.Unlock()

	if watch.dumped {
		return false
	}

	holder, ok := watch.holders[trader]
	if !ok {
		return false
	}

	holder.soldAmount += tokenAmount

	if w.exitOnAnySell {
		watch.dumped = true
		return true
	}

	if holder.entryAmount > 0 {
		soldPct := holder.soldAmount / holder.entryAmount * 100
		if soldPct >= w.sellThresholdPct {
			watch.dumped = true
			return true
		}
	}

	return false
}

// Dumped reports whether a tracked holder has dumped the mint
func (w *Watcher) Dumped(mint string) bool {
	w.mu.RLock()
	watch, ok := w.watches[mint]
	w.mu.RUnlock()
	if !ok {
		return false
	}

	watch.mu.Lock()
	defer watch.mu.Unlock()
	return watch.dumped
}

// Untrack stops dump detection for a mint, typically after the
// position closes
func (w *Watcher) Untrack(mint string) {
	w.mu.Lock()
	delete(w.watches, mint)
	w.mu.Unlock()
}

// Tracked reports whether dump detection is active for a mint
func (w *Watcher) Tracked(mint string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.watches[mint]
	return ok
}
