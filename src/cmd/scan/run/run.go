package run

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/edgewalker/edgewalker/src/eventmodels"
	"github.com/edgewalker/edgewalker/src/eventservices"
	"github.com/edgewalker/edgewalker/src/utils"
)

type RunArgs struct {
	ConfigFile  string
	Collections []string
	OutDir      string
}

type RunResult struct {
	Report   *eventservices.ScanReport
	Kept     []*eventmodels.StrangleResult
	CsvPath  string
	HtmlPath string
}

// Run sweeps the configured ticker universe and writes the csv and html
// reports for every result under the normalized difference threshold.
func Run(ctx context.Context, args RunArgs) (RunResult, error) {
	cfg, err := eventservices.LoadScanConfig(args.ConfigFile)
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: failed to load config: %w", err)
	}

	if len(args.Collections) > 0 {
		cfg.Collections = args.Collections
	}

	if args.OutDir != "" {
		cfg.OutputDir = args.OutDir
	}

	apiKey, err := utils.GetPolygonApiKey()
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: %w", err)
	}

	tickers, err := eventservices.LoadTickerUniverse(cfg.TickersFile, cfg.Collections)
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: failed to load ticker universe: %w", err)
	}

	fetcher := eventservices.NewPolygonMarketDataMachine(apiKey)

	report, err := eventservices.ScanUniverse(ctx, fetcher, tickers, cfg)
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: scan failed: %w", err)
	}

	kept := FilterAndSortResults(report.Results, cfg.NormalizedDifferenceThreshold)

	log.Infof("Run: keeping %d of %d results under threshold %.3f", len(kept), len(report.Results), cfg.NormalizedDifferenceThreshold)

	result := RunResult{
		Report: report,
		Kept:   kept,
	}

	if len(kept) > 0 {
		prefix := fmt.Sprintf("strangles_%s", report.RunID)

		csvPath, err := ExportToCsv(cfg.OutputDir, kept, prefix)
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: failed to export csv: %w", err)
		}

		htmlPath, err := ExportToHtml(cfg.OutputDir, kept, report, prefix)
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: failed to export html: %w", err)
		}

		result.CsvPath = csvPath
		result.HtmlPath = htmlPath
	}

	return result, nil
}

// FilterAndSortResults keeps the results whose normalized difference is at
// or under the threshold, ordered by normalized difference ascending with
// probability of profit descending as the tie-break. A non-positive
// threshold keeps everything.
func FilterAndSortResults(results []*eventmodels.StrangleResult, threshold float64) []*eventmodels.StrangleResult {
	var kept []*eventmodels.StrangleResult

	for _, r := range results {
		if threshold > 0 && r.NormalizedDifference > threshold {
			continue
		}

		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].NormalizedDifference != kept[j].NormalizedDifference {
			return kept[i].NormalizedDifference < kept[j].NormalizedDifference
		}

		return kept[i].ProbabilityOfProfit > kept[j].ProbabilityOfProfit
	})

	return kept
}
