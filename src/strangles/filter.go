package strangles

import (
	"fmt"
	"math"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

// DefaultMaxSpreadFactor is the widest bid/ask spread tolerated, as a
// fraction of the premium.
const DefaultMaxSpreadFactor = 0.5

// FilterConfig carries the contract filter tunables. Zero values disable
// the optional liquidity and range gates. MaxSpreadFactor is a pointer so
// an explicit zero (tolerate no spread at all) stays distinct from unset,
// which falls back to DefaultMaxSpreadFactor.
type FilterConfig struct {
	MaxSpreadFactor    *float64
	MinOpenInterest    int
	MinVolume          int
	MinPremium         float64
	MaxPremium         float64
	StrikeBufferFactor float64
}

// FilterQuotes reduces a raw chain snapshot to the contracts whose pricing
// can be trusted. Individual rejections are silent: an empty result means
// no eligible contracts, not an error. Structurally corrupt quotes and a
// non-positive stock price are caller defects and fail fast.
func FilterQuotes(quotes []eventmodels.OptionQuoteDTO, stockPrice float64, cfg FilterConfig) ([]eventmodels.CleanedContract, error) {
	if stockPrice <= 0 {
		return nil, fmt.Errorf("FilterQuotes: stock price must be positive, found %v", stockPrice)
	}

	maxSpreadFactor := DefaultMaxSpreadFactor
	if cfg.MaxSpreadFactor != nil {
		if *cfg.MaxSpreadFactor < 0 {
			return nil, fmt.Errorf("FilterQuotes: max spread factor must be non-negative, found %v", *cfg.MaxSpreadFactor)
		}

		maxSpreadFactor = *cfg.MaxSpreadFactor
	}

	var cleaned []eventmodels.CleanedContract

	for i := range quotes {
		quote := &quotes[i]

		if err := quote.Validate(); err != nil {
			return nil, fmt.Errorf("FilterQuotes: quote %d: %w", i, err)
		}

		contract, ok := cleanQuote(quote, stockPrice, maxSpreadFactor, cfg)
		if !ok {
			continue
		}

		cleaned = append(cleaned, contract)
	}

	return cleaned, nil
}

func cleanQuote(quote *eventmodels.OptionQuoteDTO, stockPrice, maxSpreadFactor float64, cfg FilterConfig) (eventmodels.CleanedContract, bool) {
	// Premium is the bid/ask midpoint, falling back to the last trade and
	// then the vendor's fair market value.
	var premium float64
	switch {
	case quote.Bid != nil && quote.Ask != nil:
		premium = (*quote.Bid + *quote.Ask) / 2.0
	case quote.LastTradePrice != nil:
		premium = *quote.LastTradePrice
	case quote.FairMarketValue != nil:
		premium = *quote.FairMarketValue
	default:
		return eventmodels.CleanedContract{}, false
	}

	// A contract without a two-sided quote is untrustworthy even when a
	// fallback premium exists.
	if quote.Bid == nil || quote.Ask == nil {
		return eventmodels.CleanedContract{}, false
	}

	// Zero quotes indicate no active market.
	if premium == 0 || *quote.Bid == 0 || *quote.Ask == 0 {
		return eventmodels.CleanedContract{}, false
	}

	spread := math.Abs(*quote.Ask - *quote.Bid)
	if spread > maxSpreadFactor*premium {
		return eventmodels.CleanedContract{}, false
	}

	// A premium below intrinsic value signals bad or stale data.
	var intrinsic float64
	if quote.ContractType == eventmodels.Put {
		intrinsic = math.Max(0, quote.StrikePrice-stockPrice)
	} else {
		intrinsic = math.Max(0, stockPrice-quote.StrikePrice)
	}

	if premium < intrinsic {
		return eventmodels.CleanedContract{}, false
	}

	// The risk metrics need a volatility signal, so contracts without a
	// positive implied volatility are unusable.
	if quote.ImpliedVolatility == nil || *quote.ImpliedVolatility <= 0 {
		return eventmodels.CleanedContract{}, false
	}

	if cfg.MinOpenInterest > 0 && quote.OpenInterest < cfg.MinOpenInterest {
		return eventmodels.CleanedContract{}, false
	}

	if cfg.MinVolume > 0 && quote.Volume < cfg.MinVolume {
		return eventmodels.CleanedContract{}, false
	}

	if cfg.StrikeBufferFactor > 0 {
		if quote.StrikePrice < stockPrice/cfg.StrikeBufferFactor || quote.StrikePrice > stockPrice*cfg.StrikeBufferFactor {
			return eventmodels.CleanedContract{}, false
		}
	}

	if cfg.MinPremium > 0 && premium < cfg.MinPremium {
		return eventmodels.CleanedContract{}, false
	}

	if cfg.MaxPremium > 0 && premium > cfg.MaxPremium {
		return eventmodels.CleanedContract{}, false
	}

	expiration, err := quote.Expiration()
	if err != nil {
		// Unreachable after Validate; treat as a rejection rather than panic.
		return eventmodels.CleanedContract{}, false
	}

	return eventmodels.CleanedContract{
		ContractType:      quote.ContractType,
		StrikePrice:       quote.StrikePrice,
		Expiration:        expiration,
		Premium:           premium,
		ImpliedVolatility: *quote.ImpliedVolatility,
	}, true
}
