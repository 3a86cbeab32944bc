package eventmodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStrangleResultString(t *testing.T) {
	result := &StrangleResult{
		Ticker:               "COIN",
		CompanyName:          "Coinbase Global",
		StockPrice:           95,
		ExpirationDateCall:   "2030-06-21",
		ExpirationDatePut:    "2030-06-21",
		StrikePriceCall:      100,
		StrikePricePut:       90,
		PremiumCall:          2,
		PremiumPut:           2,
		CostCall:             200,
		CostPut:              200,
		UpperBreakeven:       102,
		LowerBreakeven:       88,
		BreakevenDifference:  14,
		NormalizedDifference: 0.147,
		VariabilityRatio:     0.111,
		ImpliedVolatility:    0.35,

		NumCandidatesConsidered: 1234567,
		EscapeRatio:             0.074,
		ProbabilityOfProfit:     0.42,
		ExpectedGain:            -12.5,
	}

	card := result.String()

	assert.Contains(t, card, "Coinbase Global (COIN): $95.00")
	assert.Contains(t, card, "0.147")
	assert.Contains(t, card, "0.111")
	assert.Contains(t, card, "$400.00")
	assert.Contains(t, card, "1,234,567")
	assert.Contains(t, card, "-$12.50")
	assert.Contains(t, card, "2030-06-21")
}

func TestStrangleCandidateBlendedImpliedVolatility(t *testing.T) {
	expiration := time.Date(2030, 6, 21, 0, 0, 0, 0, time.UTC)

	candidate := StrangleCandidate{
		Call: CleanedContract{
			ContractType:      Call,
			StrikePrice:       100,
			Expiration:        expiration,
			Premium:           3,
			ImpliedVolatility: 0.40,
		},
		Put: CleanedContract{
			ContractType:      Put,
			StrikePrice:       90,
			Expiration:        expiration,
			Premium:           1,
			ImpliedVolatility: 0.20,
		},
	}

	assert.InDelta(t, 0.35, candidate.BlendedImpliedVolatility(), 1e-9)
}
