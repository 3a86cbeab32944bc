package eventmodels

// StrangleCandidate is one call/put pairing with its breakeven economics.
// AverageStrike is always positive because zero and negative strikes are
// rejected before the search runs.
type StrangleCandidate struct {
	Call CleanedContract
	Put  CleanedContract

	StrangleCost         float64
	UpperBreakeven       float64
	LowerBreakeven       float64
	BreakevenDifference  float64
	AverageStrike        float64
	NormalizedDifference float64
}

// BlendedImpliedVolatility is the premium-weighted average of the two legs'
// implied volatilities. The larger premium carries the larger share of the
// market's volatility signal.
func (c *StrangleCandidate) BlendedImpliedVolatility() float64 {
	totalPremium := c.Call.Premium + c.Put.Premium
	if totalPremium == 0 {
		return 0
	}

	return (c.Call.Premium*c.Call.ImpliedVolatility + c.Put.Premium*c.Put.ImpliedVolatility) / totalPremium
}
