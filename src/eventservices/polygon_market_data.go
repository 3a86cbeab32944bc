package eventservices

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

// ChainQuery bounds the option chain fetched for one underlying. The window
// is expressed relative to Now so the same query can be replayed for
// backtests. A zero strike bound leaves that side of the band open.
type ChainQuery struct {
	MinDaysToExpiration  int
	ExpirationWindowDays int
	MinStrikePrice       float64
	MaxStrikePrice       float64
	Now                  time.Time
}

func (q ChainQuery) windowStart() time.Time {
	return q.Now.AddDate(0, 0, q.MinDaysToExpiration)
}

func (q ChainQuery) windowEnd() time.Time {
	return q.windowStart().AddDate(0, 0, q.ExpirationWindowDays)
}

type PolygonMarketDataMachine struct {
	Client *polygon.Client
}

func NewPolygonMarketDataMachine(apiKey string) *PolygonMarketDataMachine {
	return &PolygonMarketDataMachine{
		Client: polygon.New(apiKey),
	}
}

// IsMarketOpen reports whether US equities are currently trading. A failed
// status fetch degrades to closed-market pricing rather than aborting the
// scan.
func (m *PolygonMarketDataMachine) IsMarketOpen(ctx context.Context) bool {
	status, err := m.Client.GetMarketStatus(ctx)
	if err != nil {
		log.Warnf("IsMarketOpen: failed to fetch market status, assuming closed: %v", err)
		return false
	}

	return strings.EqualFold(status.Market, "open")
}

// GetStockPrice returns the most recent minute close while the market is
// open, falling back through the daily close to the previous session's close.
func (m *PolygonMarketDataMachine) GetStockPrice(ctx context.Context, symbol eventmodels.StockSymbol, marketOpen bool) (float64, error) {
	resp, err := m.Client.GetTickerSnapshot(ctx, &models.GetTickerSnapshotParams{
		Ticker:     symbol.String(),
		Locale:     models.US,
		MarketType: models.Stocks,
	})

	if err != nil {
		return 0, fmt.Errorf("GetStockPrice: failed to fetch snapshot for %s: %w", symbol, err)
	}

	price, err := priceFromSnapshot(&resp.Snapshot, marketOpen)
	if err != nil {
		return 0, fmt.Errorf("GetStockPrice: %s: %w", symbol, err)
	}

	return price, nil
}

func priceFromSnapshot(snapshot *models.TickerSnapshot, marketOpen bool) (float64, error) {
	if marketOpen && snapshot.Minute.Close > 0 {
		return snapshot.Minute.Close, nil
	}

	if snapshot.Day.Close > 0 {
		return snapshot.Day.Close, nil
	}

	if snapshot.PrevDay.Close > 0 {
		return snapshot.PrevDay.Close, nil
	}

	return 0, fmt.Errorf("priceFromSnapshot: no usable price in snapshot")
}

// StockSigmaMu is the standard deviation and mean of the trailing daily
// closes. The ratio sigma/mu feeds the scanner's fluctuation gate.
func (m *PolygonMarketDataMachine) StockSigmaMu(ctx context.Context, symbol eventmodels.StockSymbol, days int) (float64, float64, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	params := models.ListAggsParams{
		Ticker:     symbol.String(),
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithOrder(models.Asc).WithAdjusted(true)

	iter := m.Client.ListAggs(ctx, params)

	var closes []float64
	for iter.Next() {
		closes = append(closes, iter.Item().Close)
	}

	if err := iter.Err(); err != nil {
		return 0, 0, fmt.Errorf("StockSigmaMu: failed to fetch daily aggs for %s: %w", symbol, err)
	}

	if len(closes) < 2 {
		return 0, 0, fmt.Errorf("StockSigmaMu: not enough daily closes for %s, found %d", symbol, len(closes))
	}

	sigma, err := stats.StandardDeviation(closes)
	if err != nil {
		return 0, 0, fmt.Errorf("StockSigmaMu: failed to compute standard deviation for %s: %w", symbol, err)
	}

	mu, err := stats.Mean(closes)
	if err != nil {
		return 0, 0, fmt.Errorf("StockSigmaMu: failed to compute mean for %s: %w", symbol, err)
	}

	return sigma, mu, nil
}

// FetchOptionsChain pulls the chain snapshot for the query's expiration
// window and maps each contract to the screener's quote shape. Rows the
// vendor returns without a usable contract type are dropped here; every
// other cleaning rule lives downstream.
func (m *PolygonMarketDataMachine) FetchOptionsChain(ctx context.Context, symbol eventmodels.StockSymbol, query ChainQuery) ([]eventmodels.OptionQuoteDTO, error) {
	expirationGTE := models.Date(query.windowStart())
	expirationLTE := models.Date(query.windowEnd())
	limit := 250

	params := &models.ListOptionsChainParams{
		UnderlyingAsset:   symbol.String(),
		ExpirationDateGTE: &expirationGTE,
		ExpirationDateLTE: &expirationLTE,
		Limit:             &limit,
	}

	// Push the strike band to the vendor so wildly out of range contracts
	// never cross the wire. The filter re-applies the same band.
	if query.MinStrikePrice > 0 {
		strikeGTE := query.MinStrikePrice
		params.StrikePriceGTE = &strikeGTE
	}

	if query.MaxStrikePrice > 0 {
		strikeLTE := query.MaxStrikePrice
		params.StrikePriceLTE = &strikeLTE
	}

	iter := m.Client.ListOptionsChainSnapshot(ctx, params)

	var quotes []eventmodels.OptionQuoteDTO
	for iter.Next() {
		snapshot := iter.Item()

		optionType, err := parseContractType(snapshot.Details.ContractType)
		if err != nil {
			log.Debugf("FetchOptionsChain: skipping %s: %v", snapshot.Details.Ticker, err)
			continue
		}

		quote := eventmodels.OptionQuoteDTO{
			ContractType:   optionType,
			StrikePrice:    snapshot.Details.StrikePrice,
			ExpirationDate: time.Time(snapshot.Details.ExpirationDate).Format(eventmodels.ExpirationDateLayout),
			OpenInterest:   int(snapshot.OpenInterest),
			Volume:         int(snapshot.Day.Volume),
		}

		if bid := snapshot.LastQuote.Bid; bid > 0 {
			quote.Bid = &bid
		}

		if ask := snapshot.LastQuote.Ask; ask > 0 {
			quote.Ask = &ask
		}

		if last := snapshot.LastTrade.Price; last > 0 {
			quote.LastTradePrice = &last
		}

		if iv := snapshot.ImpliedVolatility; iv > 0 {
			quote.ImpliedVolatility = &iv
		}

		quotes = append(quotes, quote)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("FetchOptionsChain: failed to fetch chain for %s: %w", symbol, err)
	}

	log.Debugf("FetchOptionsChain: fetched %d contracts for %s", len(quotes), symbol)

	return quotes, nil
}

// GetCompanyName returns the ticker's registered name truncated to three
// words. Lookup failures fall back to the parenthesized symbol so reports
// always have a label.
func (m *PolygonMarketDataMachine) GetCompanyName(ctx context.Context, symbol eventmodels.StockSymbol) string {
	fallback := fmt.Sprintf("(%s)", symbol)

	resp, err := m.Client.GetTickerDetails(ctx, &models.GetTickerDetailsParams{
		Ticker: symbol.String(),
	})

	if err != nil {
		log.Warnf("GetCompanyName: failed to fetch details for %s: %v", symbol, err)
		return fallback
	}

	name := strings.TrimSpace(resp.Results.Name)
	if name == "" {
		return fallback
	}

	words := strings.Fields(name)
	if len(words) > 3 {
		words = words[:3]
	}

	return strings.Join(words, " ")
}

func parseContractType(contractType string) (eventmodels.OptionType, error) {
	switch strings.ToLower(contractType) {
	case "call":
		return eventmodels.Call, nil
	case "put":
		return eventmodels.Put, nil
	default:
		return "", fmt.Errorf("parseContractType: unknown contract type %q", contractType)
	}
}
