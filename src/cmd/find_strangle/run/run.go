package run

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/edgewalker/edgewalker/src/eventmodels"
	"github.com/edgewalker/edgewalker/src/eventservices"
	"github.com/edgewalker/edgewalker/src/strangles"
	"github.com/edgewalker/edgewalker/src/utils"
)

type RunArgs struct {
	Ticker     string
	ConfigFile string
}

type RunResult struct {
	Result *eventmodels.StrangleResult
}

// Run searches a single underlying for its most balanced strangle. Unlike
// the universe scan, the price band and volatility sanity gates are not
// applied: asking for a specific ticker overrides them.
func Run(ctx context.Context, args RunArgs) (RunResult, error) {
	symbol := eventmodels.NewStockSymbol(args.Ticker)
	if symbol == "" {
		return RunResult{}, fmt.Errorf("Run: ticker is required")
	}

	cfg, err := eventservices.LoadScanConfig(args.ConfigFile)
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: failed to load config: %w", err)
	}

	apiKey, err := utils.GetPolygonApiKey()
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: %w", err)
	}

	fetcher := eventservices.NewPolygonMarketDataMachine(apiKey)

	marketOpen := fetcher.IsMarketOpen(ctx)

	stockPrice, err := fetcher.GetStockPrice(ctx, symbol, marketOpen)
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: failed to fetch stock price: %w", err)
	}

	log.Infof("Run: %s trading at $%.2f", symbol, stockPrice)

	now := time.Now().UTC()

	query := eventservices.ChainQuery{
		MinDaysToExpiration:  cfg.MinDaysToExpiration,
		ExpirationWindowDays: cfg.ExpirationWindowDays,
		Now:                  now,
	}

	if cfg.StrikeBufferFactor > 0 {
		query.MinStrikePrice = stockPrice / cfg.StrikeBufferFactor
		query.MaxStrikePrice = stockPrice * cfg.StrikeBufferFactor
	}

	quotes, err := fetcher.FetchOptionsChain(ctx, symbol, query)
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: failed to fetch options chain: %w", err)
	}

	companyName := fetcher.GetCompanyName(ctx, symbol)

	result, err := strangles.FindBalancedStrangle(symbol, companyName, stockPrice, quotes, eventservices.EngineConfig(cfg), now)
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: search failed: %w", err)
	}

	if result != nil && result.BreakevenDifference > 0 {
		if sigma, _, err := fetcher.StockSigmaMu(ctx, symbol, eventservices.SigmaMuWindowDays); err != nil {
			log.Warnf("Run: failed to fetch sigma for variability ratio: %v", err)
		} else {
			result.VariabilityRatio = sigma / result.BreakevenDifference
		}
	}

	return RunResult{Result: result}, nil
}
