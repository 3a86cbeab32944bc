package strangles

import (
	"fmt"
	"math"
	"time"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

const daysPerYear = 365.0

// normCDF is the standard normal cumulative distribution function.
func normCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// DaysToExpiration returns the whole days between now and the earlier of
// the two expirations, floored at zero.
func DaysToExpiration(now, callExpiration, putExpiration time.Time) int {
	earliest := callExpiration
	if putExpiration.Before(earliest) {
		earliest = putExpiration
	}

	days := int(earliest.Sub(now).Hours() / 24.0)
	if days < 0 {
		return 0
	}

	return days
}

// EscapeRatio is the minimum fractional price move, in either direction,
// needed to reach a breakeven point.
func EscapeRatio(stockPrice, upperBreakeven, lowerBreakeven float64) float64 {
	return math.Min(
		math.Abs(stockPrice-upperBreakeven),
		math.Abs(stockPrice-lowerBreakeven),
	) / stockPrice
}

// ProbabilityOfProfit estimates the chance that the price at expiration
// lands outside the breakeven interval, treating the two tails of a
// zero-drift lognormal distribution as disjoint events. Expired positions
// and positions without a volatility signal score zero.
func ProbabilityOfProfit(stockPrice, upperBreakeven, lowerBreakeven, impliedVolatility float64, daysToExpiration int) float64 {
	if daysToExpiration <= 0 {
		return 0.0
	}

	sigma := impliedVolatility * math.Sqrt(float64(daysToExpiration)/daysPerYear)
	if sigma <= 0 {
		return 0.0
	}

	moveToUpper := (upperBreakeven - stockPrice) / stockPrice
	moveToLower := (stockPrice - lowerBreakeven) / stockPrice

	zUp := moveToUpper / sigma
	zDown := moveToLower / sigma

	probabilityUp := 1.0 - normCDF(zUp)
	probabilityDown := normCDF(-zDown)

	return probabilityUp + probabilityDown
}

// ExpectedGain is the risk-neutral expectation of the position's payoff at
// expiration minus its cost, in currency units per 100-share contract pair.
// Both legs are valued in closed form under a zero-drift lognormal price.
//
// An expired position is a pure loss of premiums and fees; a position
// without a volatility signal has no usable expectation and scores zero.
func ExpectedGain(stockPrice, callStrike, putStrike, impliedVolatility float64, daysToExpiration int, premiumCall, premiumPut, feePerContractLeg float64) float64 {
	totalPremium := premiumCall + premiumPut

	if daysToExpiration <= 0 {
		return -(100.0*totalPremium + 2.0*feePerContractLeg)
	}

	sigma := impliedVolatility * math.Sqrt(float64(daysToExpiration)/daysPerYear)
	if sigma <= 0 {
		return 0.0
	}

	d1Call := (math.Log(stockPrice/callStrike) + sigma*sigma/2.0) / sigma
	d2Call := d1Call - sigma
	callValue := stockPrice*normCDF(d1Call) - callStrike*normCDF(d2Call)

	d1Put := (math.Log(stockPrice/putStrike) + sigma*sigma/2.0) / sigma
	d2Put := d1Put - sigma
	putValue := putStrike*normCDF(-d2Put) - stockPrice*normCDF(-d1Put)

	gainPerShare := callValue + putValue - totalPremium - 2.0*feePerContractLeg/100.0

	return gainPerShare * 100.0
}

// Score fills in the risk metrics on a freshly built result. The order is
// fixed: escape ratio first, then probability of profit, then expected
// gain; the last two share the time to expiration of the earlier leg.
func Score(result *eventmodels.StrangleResult, now time.Time, feePerContractLeg float64) error {
	if result.StockPrice <= 0 {
		return fmt.Errorf("Score: stock price must be positive, found %v", result.StockPrice)
	}

	callExpiration, err := time.Parse(eventmodels.ExpirationDateLayout, result.ExpirationDateCall)
	if err != nil {
		return fmt.Errorf("Score: invalid call expiration %q: %w", result.ExpirationDateCall, err)
	}

	putExpiration, err := time.Parse(eventmodels.ExpirationDateLayout, result.ExpirationDatePut)
	if err != nil {
		return fmt.Errorf("Score: invalid put expiration %q: %w", result.ExpirationDatePut, err)
	}

	result.EscapeRatio = EscapeRatio(result.StockPrice, result.UpperBreakeven, result.LowerBreakeven)

	daysToExpiration := DaysToExpiration(now, callExpiration, putExpiration)

	result.ProbabilityOfProfit = ProbabilityOfProfit(
		result.StockPrice,
		result.UpperBreakeven,
		result.LowerBreakeven,
		result.ImpliedVolatility,
		daysToExpiration,
	)

	result.ExpectedGain = ExpectedGain(
		result.StockPrice,
		result.StrikePriceCall,
		result.StrikePricePut,
		result.ImpliedVolatility,
		daysToExpiration,
		result.PremiumCall,
		result.PremiumPut,
		feePerContractLeg,
	)

	return nil
}
