package eventservices

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

// LoadTickerUniverse reads a json file of named ticker collections, e.g.
//
//	{"etfs": ["SPY", "QQQ"], "semis": ["NVDA", "AMD"]}
//
// and returns the union of the requested collections, de-duplicated and
// sorted. Requesting a collection the file does not define is an error.
func LoadTickerUniverse(path string, collections []string) ([]eventmodels.StockSymbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadTickerUniverse: failed to read %s: %w", path, err)
	}

	var file map[string][]string
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("LoadTickerUniverse: failed to unmarshal %s: %w", path, err)
	}

	if len(collections) == 0 {
		for name := range file {
			collections = append(collections, name)
		}
	}

	seen := make(map[eventmodels.StockSymbol]struct{})
	var tickers []eventmodels.StockSymbol

	for _, name := range collections {
		symbols, found := file[name]
		if !found {
			return nil, fmt.Errorf("LoadTickerUniverse: unknown collection %q in %s", name, path)
		}

		for _, s := range symbols {
			symbol := eventmodels.NewStockSymbol(s)
			if symbol == "" {
				continue
			}

			if _, ok := seen[symbol]; ok {
				continue
			}

			seen[symbol] = struct{}{}
			tickers = append(tickers, symbol)
		}
	}

	sort.Slice(tickers, func(i, j int) bool {
		return tickers[i] < tickers[j]
	})

	return tickers, nil
}
