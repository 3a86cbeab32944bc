package eventmodels

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// StrangleResult is the winning candidate for one ticker, enriched with the
// risk metrics. It is constructed once per search and not mutated afterwards
// except by the fixed-order scoring pass.
type StrangleResult struct {
	Ticker                  StockSymbol `json:"ticker" csv:"symbol"`
	CompanyName             string      `json:"company_name" csv:"company"`
	StockPrice              float64     `json:"stock_price" csv:"stock_price"`
	ExpirationDateCall      string      `json:"expiration_date_call" csv:"call_expiration"`
	ExpirationDatePut       string      `json:"expiration_date_put" csv:"put_expiration"`
	StrikePriceCall         float64     `json:"strike_price_call" csv:"call_strike"`
	StrikePricePut          float64     `json:"strike_price_put" csv:"put_strike"`
	PremiumCall             float64     `json:"premium_call" csv:"call_premium"`
	PremiumPut              float64     `json:"premium_put" csv:"put_premium"`
	CostCall                float64     `json:"cost_call" csv:"call_cost"`
	CostPut                 float64     `json:"cost_put" csv:"put_cost"`
	UpperBreakeven          float64     `json:"upper_breakeven" csv:"upper_breakeven"`
	LowerBreakeven          float64     `json:"lower_breakeven" csv:"lower_breakeven"`
	BreakevenDifference     float64     `json:"breakeven_difference" csv:"breakeven_difference"`
	NormalizedDifference    float64     `json:"normalized_difference" csv:"normalized_difference"`
	VariabilityRatio        float64     `json:"variability_ratio" csv:"variability_ratio"`
	ImpliedVolatility       float64     `json:"implied_volatility" csv:"implied_volatility"`
	NumCandidatesConsidered int         `json:"num_candidates_considered" csv:"pairs_tried"`
	EscapeRatio             float64     `json:"escape_ratio" csv:"escape_ratio"`
	ProbabilityOfProfit     float64     `json:"probability_of_profit" csv:"probability_of_profit"`
	ExpectedGain            float64     `json:"expected_gain" csv:"expected_gain"`
}

// StrangleCost is the total cash outlay for both contracts, before fees.
func (r *StrangleResult) StrangleCost() float64 {
	return r.CostCall + r.CostPut
}

func (r *StrangleResult) String() string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	expectedGain := fmt.Sprintf("$%.2f", r.ExpectedGain)
	if r.ExpectedGain < 0 {
		expectedGain = fmt.Sprintf("-$%.2f", -r.ExpectedGain)
	}

	display.WriteString(fmt.Sprintf("%s (%s): $%.2f\n", r.CompanyName, r.Ticker, r.StockPrice))

	table := tablewriter.NewWriter(display)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnSeparator("")

	rows := [][]string{
		{"Normalized breakeven difference", fmt.Sprintf("%.3f", r.NormalizedDifference)},
		{"Variability ratio", fmt.Sprintf("%.3f", r.VariabilityRatio)},
		{"Implied volatility", fmt.Sprintf("%.3f", r.ImpliedVolatility)},
		{"Probability of profit", fmt.Sprintf("%.3f", r.ProbabilityOfProfit)},
		{"Expected gain", expectedGain},
		{"Escape ratio", fmt.Sprintf("%.3f", r.EscapeRatio)},
		{"Cost of strangle", fmt.Sprintf("$%.2f", r.StrangleCost())},
		{"Contract pairs tried", p.Sprintf("%d", r.NumCandidatesConsidered)},
		{"Call expiration", r.ExpirationDateCall},
		{"Call strike", fmt.Sprintf("$%.2f", r.StrikePriceCall)},
		{"Call premium", fmt.Sprintf("$%.2f", r.PremiumCall)},
		{"Put expiration", r.ExpirationDatePut},
		{"Put strike", fmt.Sprintf("$%.2f", r.StrikePricePut)},
		{"Put premium", fmt.Sprintf("$%.2f", r.PremiumPut)},
		{"Upper breakeven", fmt.Sprintf("$%.3f", r.UpperBreakeven)},
		{"Lower breakeven", fmt.Sprintf("$%.3f", r.LowerBreakeven)},
		{"Breakeven difference", fmt.Sprintf("$%.3f", r.BreakevenDifference)},
	}

	for _, row := range rows {
		table.Append(row)
	}

	table.Render()
	return display.String()
}
