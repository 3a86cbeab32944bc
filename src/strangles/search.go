package strangles

import (
	"fmt"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

// DefaultFeePerContractLeg is the brokerage round-trip cost per option leg
// on a standard 100-share contract: a buy fee plus a sell fee.
const DefaultFeePerContractLeg = 0.53 + 0.55

// SearchConfig carries the combination search tunables. A nil Backend runs
// the reference implementation.
type SearchConfig struct {
	ForceCoupledExpirations bool
	FeePerContractLeg       float64
	TieBreak                TieBreak
	Backend                 SearchBackend
}

// Search evaluates the cartesian product of calls and puts and returns the
// pair with the smallest normalized breakeven difference, together with the
// number of pairs evaluated. A nil candidate means no pair qualified, which
// is a normal outcome for thin chains, not an error.
func Search(calls, puts []eventmodels.CleanedContract, cfg SearchConfig) (*eventmodels.StrangleCandidate, int, error) {
	for _, c := range calls {
		if c.StrikePrice <= 0 {
			return nil, 0, fmt.Errorf("Search: call strike must be positive, found %v", c.StrikePrice)
		}
	}

	for _, p := range puts {
		if p.StrikePrice <= 0 {
			return nil, 0, fmt.Errorf("Search: put strike must be positive, found %v", p.StrikePrice)
		}
	}

	if len(calls) == 0 || len(puts) == 0 {
		return nil, 0, nil
	}

	backend := cfg.Backend
	if backend == nil {
		backend = ReferenceBackend{}
	}

	best, numConsidered := backend.FindMinSpread(calls, puts, cfg)
	return best, numConsidered, nil
}

// newCandidate computes the breakeven economics for a single pairing. The
// per-leg fee is quoted per 100-share contract and converted to per-share
// terms here.
func newCandidate(call, put eventmodels.CleanedContract, feePerContractLeg float64) eventmodels.StrangleCandidate {
	strangleCost := call.Premium + put.Premium + 2.0*feePerContractLeg/100.0

	upperBreakeven := call.StrikePrice + strangleCost
	lowerBreakeven := put.StrikePrice - strangleCost

	breakevenDifference := upperBreakeven - lowerBreakeven
	if breakevenDifference < 0 {
		breakevenDifference = -breakevenDifference
	}

	averageStrike := 0.5 * (call.StrikePrice + put.StrikePrice)

	return eventmodels.StrangleCandidate{
		Call:                 call,
		Put:                  put,
		StrangleCost:         strangleCost,
		UpperBreakeven:       upperBreakeven,
		LowerBreakeven:       lowerBreakeven,
		BreakevenDifference:  breakevenDifference,
		AverageStrike:        averageStrike,
		NormalizedDifference: breakevenDifference / averageStrike,
	}
}
