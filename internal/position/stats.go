package position

import (
	"sync"
	"time"
)

// DailyStats accumulates the day's realized trade outcomes. Reset at UTC
// midnight by the orchestrator's scheduler.
type DailyStats struct {
	mu sync.Mutex

	day           string
	tradesTotal   int
	wins          int
	losses        int
	totalPnLSOL   float64
	bestTradePct  float64
	worstTradePct float64
}

// StatsSnapshot is a point-in-time copy of the daily statistics
type StatsSnapshot struct {
	Day           string
	TradesTotal   int
	Wins          int
	Losses        int
	WinRatePct    float64
	TotalPnLSOL   float64
	BestTradePct  float64
	WorstTradePct float64
}

// NewDailyStats creates the day's statistics accumulator
func NewDailyStats() *DailyStats {
	return &DailyStats{day: time.Now().UTC().Format("2006-01-02")}
}

// RecordClose folds one realized trade into the day's totals
func (d *DailyStats) RecordClose(pnlSOL, pnlPct float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.tradesTotal++
	d.totalPnLSOL += pnlSOL
	if pnlPct >= 0 {
		d.wins++
	} else {
		d.losses++
	}
	if d.tradesTotal == 1 || pnlPct > d.bestTradePct {
		d.bestTradePct = pnlPct
	}
	if d.tradesTotal == 1 || pnlPct < d.worstTradePct {
		d.worstTradePct = pnlPct
	}
}

// Snapshot returns a copy of the current totals
func (d *DailyStats) Snapshot() StatsSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := StatsSnapshot{
		Day:           d.day,
		TradesTotal:   d.tradesTotal,
		Wins:          d.wins,
		Losses:        d.losses,
		TotalPnLSOL:   d.totalPnLSOL,
		BestTradePct:  d.bestTradePct,
		WorstTradePct: d.worstTradePct,
	}
	if d.tradesTotal > 0 {
		snap.WinRatePct = float64(d.wins) / float64(d.tradesTotal) * 100
	}
	return snap
}

// Reset clears the totals for a new trading day
func (d *DailyStats) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.day = time.Now().UTC().Format("2006-01-02")
	d.tradesTotal = 0
	d.wins = 0
	d.losses = 0
	d.totalPnLSOL = 0
	d.bestTradePct = 0
	d.worstTradePct = 0
}
