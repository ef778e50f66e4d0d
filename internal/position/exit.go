package position

import "pump-sniper-go/internal/config"

// Reason identifies which exit rule fired
type Reason string

const (
	ReasonHolderDump   Reason = "holder_dump"
	ReasonTrailingStop Reason = "trailing_stop"
	ReasonTakeProfit   Reason = "take_profit"
	ReasonStopLoss     Reason = "stop_loss"
)

// Rules are the configured exit thresholds
type Rules struct {
	TakeProfitPct         float64
	StopLossPct           float64
	TrailingStopEnabled   bool
	TrailingActivationPct float64
	TrailingDistancePct   float64
}

// RulesFromConfig builds exit rules from the application config
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		TakeProfitPct:         cfg.Exit.TakeProfitPct,
		StopLossPct:           cfg.Exit.StopLossPct,
		TrailingStopEnabled:   cfg.Exit.TrailingStopEnabled,
		TrailingActivationPct: cfg.Exit.TrailingActivationPct,
		TrailingDistancePct:   cfg.Exit.TrailingDistancePct,
	}
}

// thresholdEpsilon absorbs float roundoff in the percentage math, so a
// position sitting exactly on a configured threshold still triggers.
// (0.80-1.0)/1.0*100 evaluates to -19.999999999999996, not -20.)
const thresholdEpsilon = 1e-9

// Decision is the outcome of one exit evaluation. At most one reason fires
// per tick.
type Decision struct {
	Exit            bool
	Reason          Reason
	PnLPct          float64
	DropFromPeakPct float64
}

// Engine evaluates exit rules for open positions. Evaluation is a pure
// decision; selling and closing the store entry is the orchestrator's job, so
// execution failures never corrupt decision state.
type Engine struct {
	rules Rules
}

// NewEngine creates an exit decision engine with the given rules
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Evaluate applies the exit rules to a position snapshot in fixed precedence:
// holder dump, trailing stop, take profit, stop loss. First match wins.
func (e *Engine) Evaluate(pos Position, holderDump bool) Decision {
	d := Decision{
		PnLPct:          pos.PnLPct(),
		DropFromPeakPct: pos.DropFromPeakPct(),
	}

	// 1. Holder-dump kill switch overrides every P&L rule.
	if holderDump {
		d.Exit = true
		d.Reason = ReasonHolderDump
		return d
	}

	// 2. Trailing stop. Armed once the peak-based gain has reached the
	// activation threshold; the peak is monotone so arming never flickers.
	if e.rules.TrailingStopEnabled &&
		pos.PeakPnLPct() >= e.rules.TrailingActivationPct-thresholdEpsilon &&
		pos.PeakPrice > pos.EntryPrice &&
		d.DropFromPeakPct >= e.rules.TrailingDistancePct-thresholdEpsilon {
		d.Exit = true
		d.Reason = ReasonTrailingStop
		return d
	}

	// 3. Take profit.
	if d.PnLPct >= e.rules.TakeProfitPct-thresholdEpsilon {
		d.Exit = true
		d.Reason = ReasonTakeProfit
		return d
	}

	// 4. Stop loss. StopLossPct is a loss magnitude.
	if d.PnLPct <= -e.rules.StopLossPct+thresholdEpsilon {
		d.Exit = true
		d.Reason = ReasonStopLoss
		return d
	}

	return d
}
