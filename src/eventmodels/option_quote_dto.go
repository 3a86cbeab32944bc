package eventmodels

import (
	"fmt"
	"time"
)

const ExpirationDateLayout = "2006-01-02"

// OptionQuoteDTO is one option contract row from a chain snapshot, as
// delivered by the market data collaborator. Bid, Ask, LastTradePrice,
// FairMarketValue and ImpliedVolatility are nullable: vendors omit them
// for contracts that have not traded recently.
type OptionQuoteDTO struct {
	ContractType      OptionType `json:"contract_type"`
	StrikePrice       float64    `json:"strike_price"`
	ExpirationDate    string     `json:"expiration_date"`
	Bid               *float64   `json:"bid"`
	Ask               *float64   `json:"ask"`
	LastTradePrice    *float64   `json:"last_trade_price"`
	FairMarketValue   *float64   `json:"fair_market_value"`
	ImpliedVolatility *float64   `json:"implied_volatility"`
	OpenInterest      int        `json:"open_interest"`
	Volume            int        `json:"volume"`
}

// Validate rejects quotes that are structurally corrupt rather than merely
// untrustworthy. Market noise (missing quotes, wide spreads) is handled by
// the filter; a negative strike or a malformed date is upstream corruption
// and must fail fast.
func (q *OptionQuoteDTO) Validate() error {
	if err := q.ContractType.Validate(); err != nil {
		return fmt.Errorf("OptionQuoteDTO: Validate: %w", err)
	}

	if q.StrikePrice <= 0 {
		return fmt.Errorf("OptionQuoteDTO: Validate: strike price must be positive, found %v", q.StrikePrice)
	}

	if _, err := time.Parse(ExpirationDateLayout, q.ExpirationDate); err != nil {
		return fmt.Errorf("OptionQuoteDTO: Validate: invalid expiration date %q: %w", q.ExpirationDate, err)
	}

	if q.Bid != nil && *q.Bid < 0 {
		return fmt.Errorf("OptionQuoteDTO: Validate: negative bid %v", *q.Bid)
	}

	if q.Ask != nil && *q.Ask < 0 {
		return fmt.Errorf("OptionQuoteDTO: Validate: negative ask %v", *q.Ask)
	}

	if q.LastTradePrice != nil && *q.LastTradePrice < 0 {
		return fmt.Errorf("OptionQuoteDTO: Validate: negative last trade price %v", *q.LastTradePrice)
	}

	if q.FairMarketValue != nil && *q.FairMarketValue < 0 {
		return fmt.Errorf("OptionQuoteDTO: Validate: negative fair market value %v", *q.FairMarketValue)
	}

	if q.ImpliedVolatility != nil && *q.ImpliedVolatility < 0 {
		return fmt.Errorf("OptionQuoteDTO: Validate: negative implied volatility %v", *q.ImpliedVolatility)
	}

	if q.OpenInterest < 0 {
		return fmt.Errorf("OptionQuoteDTO: Validate: negative open interest %d", q.OpenInterest)
	}

	if q.Volume < 0 {
		return fmt.Errorf("OptionQuoteDTO: Validate: negative volume %d", q.Volume)
	}

	return nil
}

// Expiration parses the contract's expiration date. Call Validate first.
func (q *OptionQuoteDTO) Expiration() (time.Time, error) {
	exp, err := time.Parse(ExpirationDateLayout, q.ExpirationDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("OptionQuoteDTO: Expiration: %w", err)
	}

	return exp, nil
}
