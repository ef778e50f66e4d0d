package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateEvent(t *testing.T) {
	payload := []byte(`{
		"signature": "sig123",
		"mint": "MintPubkey111",
		"txType": "create",
		"traderPublicKey": "CreatorPubkey",
		"name": "Moon Token",
		"symbol": "MOON",
		"uri": "https://example.com/meta.json",
		"bondingCurveKey": "CurvePubkey",
		"solAmount": 0.5,
		"marketCapSol": 30.2
	}`)

	now := time.Now()
	create, trade, err := parseEvent(payload, now)
	require.NoError(t, err)
	require.NotNil(t, create)
	assert.Nil(t, trade)

	assert.Equal(t, "MintPubkey111", create.Mint)
	assert.Equal(t, "CreatorPubkey", create.Creator)
	assert.Equal(t, "Moon Token", create.Name)
	assert.Equal(t, "MOON", create.Symbol)
	assert.Equal(t, "CurvePubkey", create.BondingCurveKey)
	assert.Equal(t, 0.5, create.InitialBuySOL)
	assert.Equal(t, now, create.Timestamp)
}

func TestParseTradeEvents(t *testing.T) {
	buy := []byte(`{
		"signature": "sig456",
		"mint": "MintPubkey111",
		"txType": "buy",
		"traderPublicKey": "BuyerPubkey",
		"solAmount": 0.1,
		"tokenAmount": 250000,
		"vTokensInBondingCurve": 1000000000,
		"vSolInBondingCurve": 30.5
	}`)

	create, trade, err := parseEvent(buy, time.Now())
	require.NoError(t, err)
	assert.Nil(t, create)
	require.NotNil(t, trade)

	assert.True(t, trade.IsBuy)
	assert.Equal(t, "BuyerPubkey", trade.Trader)
	assert.Equal(t, 0.1, trade.SolAmount)
	assert.Equal(t, 250000.0, trade.TokenAmount)
	assert.InDelta(t, 30.5/1000000000, trade.Price(), 1e-15)

	sell := []byte(`{"mint": "MintPubkey111", "txType": "sell", "traderPublicKey": "SellerPubkey", "solAmount": 0.05}`)

	_, trade, err = parseEvent(sell, time.Now())
	require.NoError(t, err)
	require.NotNil(t, trade)
	assert.False(t, trade.IsBuy)
	assert.Zero(t, trade.Price())
}

func TestParseSubscriptionAck(t *testing.T) {
	ack := []byte(`{"message": "Successfully subscribed to token creation events."}`)

	create, trade, err := parseEvent(ack, time.Now())
	require.NoError(t, err)
	assert.Nil(t, create)
	assert.Nil(t, trade)
}

func TestParseUnknownTxType(t *testing.T) {
	_, _, err := parseEvent([]byte(`{"mint": "m", "txType": "migrate"}`), time.Now())
	assert.Error(t, err)
}

func TestParseMissingMint(t *testing.T) {
	_, _, err := parseEvent([]byte(`{"txType": "buy"}`), time.Now())
	assert.Error(t, err)
}

func TestParseMalformedJSON(t *testing.T) {
	_, _, err := parseEvent([]byte(`{not json`), time.Now())
	assert.Error(t, err)
}
