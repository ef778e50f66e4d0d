package holders

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"pump-sniper-go/internal/config"
	"pump-sniper-go/internal/logger"
	"pump-sniper-go/internal/solana"
)

// Distribution summarizes holder balances for a mint
type Distribution struct {
	Mint          string
	TopHolders    []Holder
	TotalSupply   float64
	Concentration float64 // top holder balance / total supply, 0..1
	FetchedAt     time.Time
}

// Holder is a single token account with its balance
type Holder struct {
	Address string
	Amount  float64
}

// DistributionSink receives the fetched holder distribution for a mint.
// Fetch failures never reach the sink; the mint simply stays unfetched.
type DistributionSink func(dist *Distribution)

// Fetcher retrieves holder distributions over RPC
type Fetcher struct {
	client *solana.Client
	config *config.Config
	logger *logger.Logger
	sink   DistributionSink
}

// NewFetcher creates a holder distribution fetcher
func NewFetcher(client *solana.Client, cfg *config.Config, log *logger.Logger, sink DistributionSink) *Fetcher {
	return &Fetcher{
		client: client,
		config: cfg,
		logger: log,
		sink:   sink,
	}
}

// FetchAsync kicks off a background fetch for the mint. The result is
// delivered through the sink; errors are logged and swallowed so a
// token whose holder data cannot be fetched stays blocked.
func (f *Fetcher) FetchAsync(ctx context.Context, mint string) {
	go func() {
		dist, err := f.Fetch(ctx, mint)
		if err != nil {
			f.logger.LogError("holders", "fetch", err, logrus.Fields{
				"mint": mint,
			})
			return
		}

		f.logger.LogHolderData(mint, dist.Concentration, len(dist.TopHolders))

		if f.sink != nil {
			f.sink(dist)
		}
	}()
}

// Fetch retrieves the top-N holder distribution for a mint, retrying
// per configuration before giving up
func (f *Fetcher) Fetch(ctx context.Context, mint string) (*Distribution, error) {
	var lastErr error
	attempts := f.config.Holders.FetchRetries + 1

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(f.config.Advanced.RetryDelayMs) * time.Millisecond):
			}
		}

		dist, err := f.fetchOnce(ctx, mint)
		if err == nil {
			return dist, nil
		}
		lastErr = err

		f.logger.WithFields(logrus.Fields{
			"mint":    mint,
			"attempt": attempt + 1,
		}).WithError(err).Debug("Holder fetch attempt failed")
	}

	return nil, fmt.Errorf("holder fetch failed after %d attempts: %w", attempts, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, mint string) (*Distribution, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.config.GetHolderFetchTimeout())
	defer cancel()

	supply, err := f.client.GetTokenSupply(fetchCtx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get token supply: %w", err)
	}

	supplyAmount, err := strconv.ParseFloat(supply.Amount, 64)
	if err != nil || supplyAmount <= 0 {
		return nil, fmt.Errorf("invalid token supply %q for %s", supply.Amount, mint)
	}

	accounts, err := f.client.GetTokenLargestAccounts(fetchCtx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get largest accounts: %w", err)
	}

	if len(accounts) == 0 {
		return nil, fmt.Errorf("no token accounts found for %s", mint)
	}

	topN := f.config.Holders.TopN
	if topN > len(accounts) {
		topN = len(accounts)
	}

	dist := &Distribution{
		Mint:        mint,
		TotalSupply: supplyAmount,
		FetchedAt:   time.Now(),
	}

	for _, acct := range accounts[:topN] {
		amount, err := strconv.ParseFloat(acct.Amount, 64)
		if err != nil {
			continue
		}
		dist.TopHolders = append(dist.TopHolders, Holder{
			Address: acct.Address,
			Amount:  amount,
		})
	}

	if len(dist.TopHolders) == 0 {
		return nil, fmt.Errorf("no parseable balances for %s", mint)
	}

	// getTokenLargestAccounts returns balances sorted descending, so
	// the first entry is the single largest holder.
	dist.Concentration = dist.TopHolders[0].Amount / supplyAmount

	return dist, nil
}
