package strangles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

func fptr(v float64) *float64 {
	return &v
}

func newQuote(optionType eventmodels.OptionType, strike, bid, ask float64) eventmodels.OptionQuoteDTO {
	return eventmodels.OptionQuoteDTO{
		ContractType:      optionType,
		StrikePrice:       strike,
		ExpirationDate:    "2030-06-21",
		Bid:               fptr(bid),
		Ask:               fptr(ask),
		ImpliedVolatility: fptr(0.35),
		OpenInterest:      100,
		Volume:            50,
	}
}

func TestFilterQuotes(t *testing.T) {
	stockPrice := 95.0

	t.Run("midpoint premium survives", func(t *testing.T) {
		quotes := []eventmodels.OptionQuoteDTO{newQuote(eventmodels.Call, 100, 1.9, 2.1)}

		cleaned, err := FilterQuotes(quotes, stockPrice, FilterConfig{})
		require.NoError(t, err)
		require.Len(t, cleaned, 1)

		assert.Equal(t, 2.0, cleaned[0].Premium)
		assert.Equal(t, 100.0, cleaned[0].StrikePrice)
		assert.Equal(t, eventmodels.Call, cleaned[0].ContractType)
		assert.Equal(t, time.Date(2030, 6, 21, 0, 0, 0, 0, time.UTC), cleaned[0].Expiration)
	})

	t.Run("one-sided quote is rejected despite a last trade price", func(t *testing.T) {
		quote := newQuote(eventmodels.Call, 100, 1.9, 2.1)
		quote.Ask = nil
		quote.LastTradePrice = fptr(2.0)

		cleaned, err := FilterQuotes([]eventmodels.OptionQuoteDTO{quote}, stockPrice, FilterConfig{})
		require.NoError(t, err)
		assert.Empty(t, cleaned)
	})

	t.Run("zero bid is rejected despite a last trade price", func(t *testing.T) {
		quote := newQuote(eventmodels.Call, 100, 0, 2.1)
		quote.LastTradePrice = fptr(2.0)

		cleaned, err := FilterQuotes([]eventmodels.OptionQuoteDTO{quote}, stockPrice, FilterConfig{})
		require.NoError(t, err)
		assert.Empty(t, cleaned)
	})

	t.Run("zero ask is rejected", func(t *testing.T) {
		quote := newQuote(eventmodels.Put, 90, 1.9, 0)

		cleaned, err := FilterQuotes([]eventmodels.OptionQuoteDTO{quote}, stockPrice, FilterConfig{})
		require.NoError(t, err)
		assert.Empty(t, cleaned)
	})

	t.Run("no price source is rejected", func(t *testing.T) {
		quote := newQuote(eventmodels.Call, 100, 0, 0)
		quote.Bid = nil
		quote.Ask = nil

		cleaned, err := FilterQuotes([]eventmodels.OptionQuoteDTO{quote}, stockPrice, FilterConfig{})
		require.NoError(t, err)
		assert.Empty(t, cleaned)
	})

	t.Run("wide relative spread is rejected", func(t *testing.T) {
		// premium 1.5, spread 1.0 > 0.5 * 1.5
		wide := newQuote(eventmodels.Call, 100, 1.0, 2.0)
		// premium 1.9, spread 0.2 <= 0.5 * 1.9
		tight := newQuote(eventmodels.Call, 100, 1.8, 2.0)

		cleaned, err := FilterQuotes([]eventmodels.OptionQuoteDTO{wide, tight}, stockPrice, FilterConfig{})
		require.NoError(t, err)
		require.Len(t, cleaned, 1)
		assert.Equal(t, 1.9, cleaned[0].Premium)
	})

	t.Run("explicit zero spread factor tolerates no spread at all", func(t *testing.T) {
		cfg := FilterConfig{MaxSpreadFactor: fptr(0)}

		locked := newQuote(eventmodels.Call, 100, 2.0, 2.0)
		tight := newQuote(eventmodels.Call, 100, 1.9, 2.1)

		cleaned, err := FilterQuotes([]eventmodels.OptionQuoteDTO{locked, tight}, stockPrice, cfg)
		require.NoError(t, err)
		require.Len(t, cleaned, 1)
		assert.Equal(t, 2.0, cleaned[0].Premium)
	})

	t.Run("negative spread factor fails fast", func(t *testing.T) {
		quotes := []eventmodels.OptionQuoteDTO{newQuote(eventmodels.Call, 100, 1.9, 2.1)}

		_, err := FilterQuotes(quotes, stockPrice, FilterConfig{MaxSpreadFactor: fptr(-0.1)})
		assert.Error(t, err)
	})

	t.Run("call priced below intrinsic value is rejected", func(t *testing.T) {
		// intrinsic value = 110 - 100 = 10, premium 5
		quote := newQuote(eventmodels.Call, 100, 4.9, 5.1)

		cleaned, err := FilterQuotes([]eventmodels.OptionQuoteDTO{quote}, 110.0, FilterConfig{})
		require.NoError(t, err)
		assert.Empty(t, cleaned)
	})

	t.Run("put priced below intrinsic value is rejected", func(t *testing.T) {
		// intrinsic value = 120 - 110 = 10, premium 5
		quote := newQuote(eventmodels.Put, 120, 4.9, 5.1)

		cleaned, err := FilterQuotes([]eventmodels.OptionQuoteDTO{quote}, 110.0, FilterConfig{})
		require.NoError(t, err)
		assert.Empty(t, cleaned)
	})

	t.Run("missing or zero implied volatility is rejected", func(t *testing.T) {
		noIV := newQuote(eventmodels.Call, 100, 1.9, 2.1)
		noIV.ImpliedVolatility = nil

		zeroIV := newQuote(eventmodels.Call, 100, 1.9, 2.1)
		zeroIV.ImpliedVolatility = fptr(0)

		cleaned, err := FilterQuotes([]eventmodels.OptionQuoteDTO{noIV, zeroIV}, stockPrice, FilterConfig{})
		require.NoError(t, err)
		assert.Empty(t, cleaned)
	})

	t.Run("liquidity and range gates", func(t *testing.T) {
		cfg := FilterConfig{
			MinOpenInterest:    10,
			MinVolume:          5,
			MinPremium:         0.5,
			MaxPremium:         10.0,
			StrikeBufferFactor: 2.0,
		}

		illiquid := newQuote(eventmodels.Call, 100, 1.9, 2.1)
		illiquid.OpenInterest = 9

		thin := newQuote(eventmodels.Call, 100, 1.9, 2.1)
		thin.Volume = 4

		farStrike := newQuote(eventmodels.Call, 300, 1.9, 2.1)

		rich := newQuote(eventmodels.Call, 100, 11.0, 12.0)

		good := newQuote(eventmodels.Call, 100, 1.9, 2.1)

		cleaned, err := FilterQuotes([]eventmodels.OptionQuoteDTO{illiquid, thin, farStrike, rich, good}, stockPrice, cfg)
		require.NoError(t, err)
		require.Len(t, cleaned, 1)
		assert.Equal(t, 2.0, cleaned[0].Premium)
	})

	t.Run("postconditions hold for every survivor", func(t *testing.T) {
		quotes := []eventmodels.OptionQuoteDTO{
			newQuote(eventmodels.Call, 100, 1.9, 2.1),
			newQuote(eventmodels.Put, 90, 1.4, 1.6),
			newQuote(eventmodels.Call, 105, 0, 1.0),
			newQuote(eventmodels.Put, 85, 0.9, 5.0),
		}

		cleaned, err := FilterQuotes(quotes, stockPrice, FilterConfig{})
		require.NoError(t, err)

		for _, c := range cleaned {
			assert.Greater(t, c.Premium, 0.0)
			assert.Greater(t, c.ImpliedVolatility, 0.0)
		}
	})

	t.Run("refiltering cleaned contracts is idempotent", func(t *testing.T) {
		quotes := []eventmodels.OptionQuoteDTO{
			newQuote(eventmodels.Call, 100, 1.9, 2.1),
			newQuote(eventmodels.Put, 90, 1.4, 1.6),
		}

		cleaned, err := FilterQuotes(quotes, stockPrice, FilterConfig{})
		require.NoError(t, err)
		require.Len(t, cleaned, 2)

		var requotes []eventmodels.OptionQuoteDTO
		for _, c := range cleaned {
			requotes = append(requotes, c.ToQuoteDTO())
		}

		refiltered, err := FilterQuotes(requotes, stockPrice, FilterConfig{})
		require.NoError(t, err)
		assert.Equal(t, cleaned, refiltered)
	})

	t.Run("non-positive stock price fails fast", func(t *testing.T) {
		quotes := []eventmodels.OptionQuoteDTO{newQuote(eventmodels.Call, 100, 1.9, 2.1)}

		_, err := FilterQuotes(quotes, 0, FilterConfig{})
		assert.Error(t, err)
	})

	t.Run("corrupted quote fails fast", func(t *testing.T) {
		badStrike := newQuote(eventmodels.Call, -5, 1.9, 2.1)

		_, err := FilterQuotes([]eventmodels.OptionQuoteDTO{badStrike}, stockPrice, FilterConfig{})
		assert.Error(t, err)

		badDate := newQuote(eventmodels.Call, 100, 1.9, 2.1)
		badDate.ExpirationDate = "21-06-2030"

		_, err = FilterQuotes([]eventmodels.OptionQuoteDTO{badDate}, stockPrice, FilterConfig{})
		assert.Error(t, err)
	})

	t.Run("empty input is a valid outcome", func(t *testing.T) {
		cleaned, err := FilterQuotes(nil, stockPrice, FilterConfig{})
		require.NoError(t, err)
		assert.Empty(t, cleaned)
	})
}
