package position

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"pump-sniper-go/pkg/utils"
)

var (
	// ErrPositionExists is returned by Open when the token already has an open position
	ErrPositionExists = errors.New("position already open for token")

	// ErrPositionNotFound is returned when no open position exists for the token
	ErrPositionNotFound = errors.New("no open position for token")

	// ErrStaleTick is returned when a price tick is older than the last applied one
	ErrStaleTick = errors.New("stale price tick discarded")
)

// Position is one open trade. CurrentPrice and PeakPrice are runtime state and
// deliberately excluded from persistence: a freshly loaded position reseeds its
// peak from the first observed tick instead of trusting a stored value.
type Position struct {
	Mint          string    `json:"mint"`
	TokenName     string    `json:"token_name"`
	TokenSymbol   string    `json:"token_symbol"`
	EntryPrice    float64   `json:"entry_price"`
	EntryTime     time.Time `json:"entry_time"`
	CostBasisSOL  float64   `json:"cost_basis_sol"`
	TokenQuantity float64   `json:"token_quantity"`

	CurrentPrice float64   `json:"-"`
	PeakPrice    float64   `json:"-"`
	Realized     bool      `json:"-"`
	LastTickAt   time.Time `json:"-"`
}

// PnLPct is (current - entry) / entry * 100
func (p *Position) PnLPct() float64 {
	return utils.CalculatePercentageChange(p.EntryPrice, p.CurrentPrice)
}

// PeakPnLPct is the peak-based gain since entry, used to arm the trailing stop
func (p *Position) PeakPnLPct() float64 {
	return utils.CalculatePercentageChange(p.EntryPrice, p.PeakPrice)
}

// DropFromPeakPct is (peak - current) / peak * 100
func (p *Position) DropFromPeakPct() float64 {
	if p.PeakPrice == 0 {
		return 0
	}
	return (p.PeakPrice - p.CurrentPrice) / p.PeakPrice * 100
}

// record pairs a position with its own lock so unrelated tokens never contend
type record struct {
	mu  sync.Mutex
	pos *Position
}

// Store owns all open positions. The table lock only guards the map; each
// position is mutated under its own per-record mutex.
type Store struct {
	mu      sync.RWMutex
	records map[string]*record
}

// NewStore creates an empty position store
func NewStore() *Store {
	return &Store{
		records: make(map[string]*record),
	}
}

// Open registers a new position. Fails if one is already open for the mint.
func (s *Store) Open(pos *Position) error {
	if pos.Mint == "" {
		return fmt.Errorf("position has no mint")
	}
	if pos.EntryPrice <= 0 {
		return fmt.Errorf("position entry price must be positive")
	}

	// Peak starts at entry; a zero peak only occurs on positions loaded
	// from disk and is reseeded by the first tick.
	if pos.PeakPrice == 0 {
		pos.PeakPrice = pos.EntryPrice
	}
	if pos.CurrentPrice == 0 {
		pos.CurrentPrice = pos.EntryPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[pos.Mint]; exists {
		return fmt.Errorf("%w: %s", ErrPositionExists, pos.Mint)
	}
	s.records[pos.Mint] = &record{pos: pos}
	return nil
}

// UpdatePrice applies a price tick to the open position. The peak is seeded
// from the first tick when unset and never decreases afterwards. Ticks older
// than the last applied one are discarded. Returns a snapshot after applying.
func (s *Store) UpdatePrice(mint string, price float64, ts time.Time) (Position, error) {
	r := s.lookup(mint)
	if r == nil {
		return Position{}, fmt.Errorf("%w: %s", ErrPositionNotFound, mint)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pos.Realized {
		return Position{}, fmt.Errorf("%w: %s", ErrPositionNotFound, mint)
	}
	if !r.pos.LastTickAt.IsZero() && ts.Before(r.pos.LastTickAt) {
		return *r.pos, ErrStaleTick
	}

	r.pos.CurrentPrice = price
	r.pos.LastTickAt = ts
	if r.pos.PeakPrice == 0 {
		r.pos.PeakPrice = price
	} else if price > r.pos.PeakPrice {
		r.pos.PeakPrice = price
	}

	return *r.pos, nil
}

// Close marks the position realized and removes it from the active set.
// Closing an already-closed or unknown token is a no-op.
func (s *Store) Close(mint string, proceedsSOL float64) (Position, bool) {
	r := s.lookup(mint)
	if r == nil {
		return Position{}, false
	}

	r.mu.Lock()
	if r.pos.Realized {
		r.mu.Unlock()
		return Position{}, false
	}
	r.pos.Realized = true
	snapshot := *r.pos
	r.mu.Unlock()

	s.mu.Lock()
	delete(s.records, mint)
	s.mu.Unlock()

	_ = proceedsSOL // recorded by the caller's trade log; the store only tracks lifecycle
	return snapshot, true
}

// Get returns a snapshot of the open position for a token
func (s *Store) Get(mint string) (Position, bool) {
	r := s.lookup(mint)
	if r == nil {
		return Position{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pos.Realized {
		return Position{}, false
	}
	return *r.pos, true
}

// ListOpen returns snapshots of all open positions
func (s *Store) ListOpen() []Position {
	s.mu.RLock()
	records := make([]*record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	s.mu.RUnlock()

	out := make([]Position, 0, len(records))
	for _, r := range records {
		r.mu.Lock()
		if !r.pos.Realized {
			out = append(out, *r.pos)
		}
		r.mu.Unlock()
	}
	return out
}

// Count returns the number of open positions
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) lookup(mint string) *record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[mint]
}

// SaveToFile persists the open positions as JSON. Runtime fields (current
// price, peak price) are not written; see Position.
func (s *Store) SaveToFile(path string) error {
	positions := s.ListOpen()

	data, err := json.MarshalIndent(positions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write positions file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace positions file: %w", err)
	}
	return nil
}

// LoadFromFile restores open positions from JSON. Loaded positions carry a
// zero peak and current price; the first tick after load seeds both.
func (s *Store) LoadFromFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read positions file: %w", err)
	}

	var positions []Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return 0, fmt.Errorf("failed to unmarshal positions: %w", err)
	}

	loaded := 0
	for i := range positions {
		pos := positions[i]
		pos.Realized = false
		// Zero peak on purpose: reseeded from the first live tick rather
		// than trusting a stale stored price.
		pos.PeakPrice = 0
		pos.CurrentPrice = 0

		s.mu.Lock()
		if _, exists := s.records[pos.Mint]; !exists {
			s.records[pos.Mint] = &record{pos: &pos}
			loaded++
		}
		s.mu.Unlock()
	}
	return loaded, nil
}
