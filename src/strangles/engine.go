package strangles

import (
	"fmt"
	"time"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

// Config bundles the filter and search tunables for one engine invocation.
type Config struct {
	Filter FilterConfig
	Search SearchConfig
}

// FindBalancedStrangle runs the full pipeline for one ticker: filter the
// raw chain, search the call/put combinations, and score the winner. It is
// a pure function of its arguments; a nil result with a nil error means no
// candidate, which callers treat as an uninteresting ticker.
func FindBalancedStrangle(symbol eventmodels.StockSymbol, companyName string, stockPrice float64, quotes []eventmodels.OptionQuoteDTO, cfg Config, now time.Time) (*eventmodels.StrangleResult, error) {
	cleaned, err := FilterQuotes(quotes, stockPrice, cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("FindBalancedStrangle: %w", err)
	}

	var calls, puts []eventmodels.CleanedContract
	for _, contract := range cleaned {
		if contract.ContractType == eventmodels.Call {
			calls = append(calls, contract)
		} else {
			puts = append(puts, contract)
		}
	}

	best, numConsidered, err := Search(calls, puts, cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("FindBalancedStrangle: %w", err)
	}

	if best == nil {
		return nil, nil
	}

	result := &eventmodels.StrangleResult{
		Ticker:                  symbol,
		CompanyName:             companyName,
		StockPrice:              stockPrice,
		ExpirationDateCall:      best.Call.Expiration.Format(eventmodels.ExpirationDateLayout),
		ExpirationDatePut:       best.Put.Expiration.Format(eventmodels.ExpirationDateLayout),
		StrikePriceCall:         best.Call.StrikePrice,
		StrikePricePut:          best.Put.StrikePrice,
		PremiumCall:             best.Call.Premium,
		PremiumPut:              best.Put.Premium,
		CostCall:                best.Call.Premium * 100.0,
		CostPut:                 best.Put.Premium * 100.0,
		UpperBreakeven:          best.UpperBreakeven,
		LowerBreakeven:          best.LowerBreakeven,
		BreakevenDifference:     best.BreakevenDifference,
		NormalizedDifference:    best.NormalizedDifference,
		ImpliedVolatility:       best.BlendedImpliedVolatility(),
		NumCandidatesConsidered: numConsidered,
	}

	if err := Score(result, now, cfg.Search.FeePerContractLeg); err != nil {
		return nil, fmt.Errorf("FindBalancedStrangle: %w", err)
	}

	return result, nil
}
