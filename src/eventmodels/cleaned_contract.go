package eventmodels

import "time"

// CleanedContract is an option quote that passed every data quality gate.
// Premium is the single trustworthy per-share price. Bid, ask and spread
// are filter-time inputs and are not carried.
type CleanedContract struct {
	ContractType      OptionType
	StrikePrice       float64
	Expiration        time.Time
	Premium           float64
	ImpliedVolatility float64
}

// ToQuoteDTO re-expresses the contract as a two-sided quote priced at its
// premium. Feeding the result back through the filter yields the same
// contract, which keeps the filter idempotent on clean data.
func (c CleanedContract) ToQuoteDTO() OptionQuoteDTO {
	bid := c.Premium
	ask := c.Premium
	iv := c.ImpliedVolatility

	return OptionQuoteDTO{
		ContractType:      c.ContractType,
		StrikePrice:       c.StrikePrice,
		ExpirationDate:    c.Expiration.Format(ExpirationDateLayout),
		Bid:               &bid,
		Ask:               &ask,
		ImpliedVolatility: &iv,
	}
}
