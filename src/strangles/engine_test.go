package strangles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

func TestFindBalancedStrangle(t *testing.T) {
	symbol := eventmodels.StockSymbol("COIN")
	now := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	stockPrice := 95.0

	t.Run("happy path", func(t *testing.T) {
		quotes := []eventmodels.OptionQuoteDTO{
			newQuote(eventmodels.Call, 100, 1.9, 2.1),
			newQuote(eventmodels.Call, 110, 0.9, 1.1),
			newQuote(eventmodels.Put, 90, 1.9, 2.1),
			newQuote(eventmodels.Put, 80, 0.9, 1.1),
		}

		result, err := FindBalancedStrangle(symbol, "Coinbase Global", stockPrice, quotes, Config{}, now)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, symbol, result.Ticker)
		assert.Equal(t, "Coinbase Global", result.CompanyName)
		assert.Equal(t, stockPrice, result.StockPrice)
		assert.Equal(t, 100.0, result.StrikePriceCall)
		assert.Equal(t, 90.0, result.StrikePricePut)
		assert.Equal(t, "2030-06-21", result.ExpirationDateCall)
		assert.Equal(t, "2030-06-21", result.ExpirationDatePut)
		assert.Equal(t, 4, result.NumCandidatesConsidered)

		assert.InDelta(t, 2.0, result.PremiumCall, 1e-9)
		assert.InDelta(t, 200.0, result.CostCall, 1e-9)
		assert.InDelta(t, 200.0, result.CostPut, 1e-9)
		assert.InDelta(t, 104.0, result.UpperBreakeven, 1e-9)
		assert.InDelta(t, 86.0, result.LowerBreakeven, 1e-9)
		assert.InDelta(t, 0.18947, result.NormalizedDifference, 1e-5)
		assert.InDelta(t, 0.35, result.ImpliedVolatility, 1e-9)

		assert.InDelta(t, 9.0/95.0, result.EscapeRatio, 1e-9)
		assert.Greater(t, result.ProbabilityOfProfit, 0.0)
		assert.NotZero(t, result.ExpectedGain)
	})

	t.Run("blended volatility weights by premium", func(t *testing.T) {
		call := newQuote(eventmodels.Call, 100, 2.9, 3.1)
		call.ImpliedVolatility = fptr(0.40)
		put := newQuote(eventmodels.Put, 90, 0.9, 1.1)
		put.ImpliedVolatility = fptr(0.20)

		result, err := FindBalancedStrangle(symbol, "", stockPrice, []eventmodels.OptionQuoteDTO{call, put}, Config{}, now)
		require.NoError(t, err)
		require.NotNil(t, result)

		// (3*0.40 + 1*0.20) / 4
		assert.InDelta(t, 0.35, result.ImpliedVolatility, 1e-9)
	})

	t.Run("no surviving quotes means no result and no error", func(t *testing.T) {
		quotes := []eventmodels.OptionQuoteDTO{
			newQuote(eventmodels.Call, 100, 0, 2.1),
			newQuote(eventmodels.Put, 90, 0, 2.1),
		}

		result, err := FindBalancedStrangle(symbol, "", stockPrice, quotes, Config{}, now)
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("one sided chain means no result", func(t *testing.T) {
		quotes := []eventmodels.OptionQuoteDTO{
			newQuote(eventmodels.Call, 100, 1.9, 2.1),
			newQuote(eventmodels.Call, 105, 1.4, 1.6),
		}

		result, err := FindBalancedStrangle(symbol, "", stockPrice, quotes, Config{}, now)
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("invalid quote propagates the error", func(t *testing.T) {
		bad := newQuote(eventmodels.Call, -5, 1.9, 2.1)

		_, err := FindBalancedStrangle(symbol, "", stockPrice, []eventmodels.OptionQuoteDTO{bad}, Config{}, now)
		assert.Error(t, err)
	})

	t.Run("non-positive stock price propagates the error", func(t *testing.T) {
		quotes := []eventmodels.OptionQuoteDTO{newQuote(eventmodels.Call, 100, 1.9, 2.1)}

		_, err := FindBalancedStrangle(symbol, "", 0, quotes, Config{}, now)
		assert.Error(t, err)
	})

	t.Run("search config is honored end to end", func(t *testing.T) {
		nearCall := newQuote(eventmodels.Call, 100, 1.9, 2.1)
		farPut := newQuote(eventmodels.Put, 90, 1.9, 2.1)
		farPut.ExpirationDate = "2030-07-19"

		cfg := Config{Search: SearchConfig{ForceCoupledExpirations: true}}

		result, err := FindBalancedStrangle(symbol, "", stockPrice, []eventmodels.OptionQuoteDTO{nearCall, farPut}, cfg, now)
		require.NoError(t, err)
		assert.Nil(t, result)
	})
}
