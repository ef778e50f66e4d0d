package stream

import (
	"encoding/json"
	"fmt"
	"time"
)

// rawEvent is the wire shape of a PumpPortal data message. Creation
// and trade events share one schema keyed by txType.
type rawEvent struct {
	Signature       string  `json:"signature"`
	Mint            string  `json:"mint"`
	TxType          string  `json:"txType"`
	TraderPublicKey string  `json:"traderPublicKey"`
	SolAmount       float64 `json:"solAmount"`
	TokenAmount     float64 `json:"tokenAmount"`
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	URI             string  `json:"uri"`
	BondingCurveKey string  `json:"bondingCurveKey"`
	VTokensInCurve  float64 `json:"vTokensInBondingCurve"`
	VSolInCurve     float64 `json:"vSolInBondingCurve"`
	MarketCapSol    float64 `json:"marketCapSol"`
	Message         string  `json:"message"`
	Errors          []any   `json:"errors"`
}

// CreateEvent is a newly launched token
type CreateEvent struct {
	Signature       string
	Mint            string
	Creator         string
	Name            string
	Symbol          string
	URI             string
	BondingCurveKey string
	InitialBuySOL   float64
	MarketCapSOL    float64
	Timestamp       time.Time
}

// TradeEvent is a buy or sell against a token's bonding curve
type TradeEvent struct {
	Signature       string
	Mint            string
	Trader          string
	IsBuy           bool
	SolAmount       float64
	TokenAmount     float64
	BondingCurveKey string
	VTokensInCurve  float64
	VSolInCurve     float64
	Timestamp       time.Time
}

// Price returns the curve spot price in SOL per token implied by the
// virtual reserves carried on the event, or 0 when they are absent
func (t *TradeEvent) Price() float64 {
	if t.VTokensInCurve <= 0 {
		return 0
	}
	return t.VSolInCurve / t.VTokensInCurve
}

// parseEvent decodes a raw stream payload into a typed event. Returns
// (nil, nil, nil) for acknowledgements and other non-event messages.
func parseEvent(data []byte, now time.Time) (*CreateEvent, *TradeEvent, error) {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal stream event: %w", err)
	}

	// Subscription acks carry a message field and no txType
	if raw.TxType == "" {
		return nil, nil, nil
	}

	if raw.Mint == "" {
		return nil, nil, fmt.Errorf("stream event missing mint (txType=%s)", raw.TxType)
	}

	switch raw.TxType {
	case "create":
		return &CreateEvent{
			Signature:       raw.Signature,
			Mint:            raw.Mint,
			Creator:         raw.TraderPublicKey,
			Name:            raw.Name,
			Symbol:          raw.Symbol,
			URI:             raw.URI,
			BondingCurveKey: raw.BondingCurveKey,
			InitialBuySOL:   raw.SolAmount,
			MarketCapSOL:    raw.MarketCapSol,
			Timestamp:       now,
		}, nil, nil
	case "buy", "sell":
		return nil, &TradeEvent{
			Signature:       raw.Signature,
			Mint:            raw.Mint,
			Trader:          raw.TraderPublicKey,
			IsBuy:           raw.TxType == "buy",
			SolAmount:       raw.SolAmount,
			TokenAmount:     raw.TokenAmount,
			BondingCurveKey: raw.BondingCurveKey,
			VTokensInCurve:  raw.VTokensInCurve,
			VSolInCurve:     raw.VSolInCurve,
			Timestamp:       now,
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown txType: %s", raw.TxType)
	}
}
