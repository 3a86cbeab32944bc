package eventservices

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/edgewalker/edgewalker/src/eventmodels"
	"github.com/edgewalker/edgewalker/src/strangles"
)

// SigmaMuWindowDays is the trailing window for the volatility sanity gate
// and the variability ratio.
const SigmaMuWindowDays = 30

// MarketDataFetcher is the slice of the market data machine the scanner
// needs. The production implementation is PolygonMarketDataMachine; tests
// substitute a canned fetcher.
type MarketDataFetcher interface {
	IsMarketOpen(ctx context.Context) bool
	GetStockPrice(ctx context.Context, symbol eventmodels.StockSymbol, marketOpen bool) (float64, error)
	StockSigmaMu(ctx context.Context, symbol eventmodels.StockSymbol, days int) (float64, float64, error)
	FetchOptionsChain(ctx context.Context, symbol eventmodels.StockSymbol, query ChainQuery) ([]eventmodels.OptionQuoteDTO, error)
	GetCompanyName(ctx context.Context, symbol eventmodels.StockSymbol) string
}

// ScanReport is the outcome of one universe sweep.
type ScanReport struct {
	RunID                uuid.UUID
	StartedAt            time.Time
	FinishedAt           time.Time
	Results              []*eventmodels.StrangleResult
	TickersProcessed     int
	TickersSkipped       int
	CandidatesConsidered int
}

// ScanUniverse runs the fetch, filter, search and score pipeline for every
// ticker, at most cfg.MaxConcurrentRequests tickers in flight at once.
// Per-ticker failures are logged and counted as skips; only context
// cancellation ends the sweep early. Results come back in universe order
// with the no-candidate tickers removed.
func ScanUniverse(ctx context.Context, fetcher MarketDataFetcher, tickers []eventmodels.StockSymbol, cfg *eventmodels.ScanConfigYAML) (*ScanReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ScanUniverse: invalid config: %w", err)
	}

	report := &ScanReport{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
	}

	logger := log.WithField("run_id", report.RunID)
	logger.Infof("ScanUniverse: scanning %d tickers, %d in flight", len(tickers), cfg.MaxConcurrentRequests)

	marketOpen := fetcher.IsMarketOpen(ctx)
	engineCfg := EngineConfig(cfg)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		results   = make([]*eventmodels.StrangleResult, len(tickers))
		semaphore = make(chan struct{}, cfg.MaxConcurrentRequests)
	)

	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("ScanUniverse: cancelled after %d tickers: %w", i, err)
		}

		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, fmt.Errorf("ScanUniverse: cancelled after %d tickers: %w", i, ctx.Err())
		case semaphore <- struct{}{}:
		}

		wg.Add(1)

		go func(i int, ticker eventmodels.StockSymbol) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result, err := scanTicker(ctx, fetcher, ticker, marketOpen, cfg, engineCfg)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				logger.Warnf("ScanUniverse: skipping %s: %v", ticker, err)
				report.TickersSkipped++
				return
			}

			report.TickersProcessed++

			if result != nil {
				report.CandidatesConsidered += result.NumCandidatesConsidered
				results[i] = result
			}
		}(i, ticker)
	}

	wg.Wait()

	for _, result := range results {
		if result != nil {
			report.Results = append(report.Results, result)
		}
	}

	report.FinishedAt = time.Now().UTC()

	logger.Infof("ScanUniverse: %d results, %d processed, %d skipped, %d pairs tried",
		len(report.Results), report.TickersProcessed, report.TickersSkipped, report.CandidatesConsidered)

	return report, nil
}

// scanTicker runs the pipeline for one underlying. A nil result with a nil
// error means the ticker was processed but produced no candidate.
func scanTicker(ctx context.Context, fetcher MarketDataFetcher, ticker eventmodels.StockSymbol, marketOpen bool, cfg *eventmodels.ScanConfigYAML, engineCfg strangles.Config) (*eventmodels.StrangleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stockPrice, err := fetcher.GetStockPrice(ctx, ticker, marketOpen)
	if err != nil {
		return nil, fmt.Errorf("scanTicker: failed to fetch stock price: %w", err)
	}

	if stockPrice < cfg.MinStockPrice || stockPrice > cfg.MaxStockPrice {
		log.Debugf("scanTicker: %s price %.2f outside [%.2f, %.2f]", ticker, stockPrice, cfg.MinStockPrice, cfg.MaxStockPrice)
		return nil, nil
	}

	sigma, mean, err := fetcher.StockSigmaMu(ctx, ticker, SigmaMuWindowDays)
	if err != nil {
		return nil, fmt.Errorf("scanTicker: failed to fetch sigma and mu: %w", err)
	}

	if sigma > cfg.MaxFluctuation*mean {
		log.Debugf("scanTicker: %s failed volatility sanity check, sigma %.2f mu %.2f", ticker, sigma, mean)
		return nil, nil
	}

	query := ChainQuery{
		MinDaysToExpiration:  cfg.MinDaysToExpiration,
		ExpirationWindowDays: cfg.ExpirationWindowDays,
		Now:                  time.Now().UTC(),
	}

	if cfg.StrikeBufferFactor > 0 {
		query.MinStrikePrice = stockPrice / cfg.StrikeBufferFactor
		query.MaxStrikePrice = stockPrice * cfg.StrikeBufferFactor
	}

	quotes, err := fetcher.FetchOptionsChain(ctx, ticker, query)
	if err != nil {
		return nil, fmt.Errorf("scanTicker: failed to fetch options chain: %w", err)
	}

	companyName := fetcher.GetCompanyName(ctx, ticker)

	result, err := strangles.FindBalancedStrangle(ticker, companyName, stockPrice, quotes, engineCfg, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("scanTicker: search failed: %w", err)
	}

	if result != nil && result.BreakevenDifference > 0 {
		result.VariabilityRatio = sigma / result.BreakevenDifference
	}

	return result, nil
}

// EngineConfig translates the yaml config into the core engine's shape.
func EngineConfig(cfg *eventmodels.ScanConfigYAML) strangles.Config {
	var backend strangles.SearchBackend
	if cfg.SearchWorkers > 1 {
		backend = strangles.ParallelBackend{Workers: cfg.SearchWorkers}
	}

	return strangles.Config{
		Filter: strangles.FilterConfig{
			MaxSpreadFactor:    cfg.MaxSpreadFactor,
			MinOpenInterest:    cfg.MinOpenInterest,
			MinVolume:          cfg.MinVolume,
			MinPremium:         cfg.MinPremium,
			MaxPremium:         cfg.MaxPremium,
			StrikeBufferFactor: cfg.StrikeBufferFactor,
		},
		Search: strangles.SearchConfig{
			ForceCoupledExpirations: cfg.ForceCoupledExpirations,
			FeePerContractLeg:       cfg.FeePerContractLeg,
			TieBreak:                strangles.TieBreak(cfg.TieBreak),
			Backend:                 backend,
		},
	}
}
