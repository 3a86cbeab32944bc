package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/edgewalker/edgewalker/src/cmd/scan/run"
	"github.com/edgewalker/edgewalker/src/eventmodels"
	"github.com/edgewalker/edgewalker/src/utils"
)

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/scan/main.go --config config.yaml",
	Short: "Scan a ticker universe for balanced strangles",
	Run: func(cmd *cobra.Command, args []string) {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		collections, err := cmd.Flags().GetStringSlice("collections")
		if err != nil {
			log.Fatalf("error getting collections: %v", err)
		}

		outDir, err := cmd.Flags().GetString("outDir")
		if err != nil {
			log.Fatalf("error getting outDir: %v", err)
		}

		top, err := cmd.Flags().GetInt("top")
		if err != nil {
			log.Fatalf("error getting top: %v", err)
		}

		if err := utils.InitEnvironmentVariables(); err != nil {
			log.Fatalf("error loading environment variables: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := run.Run(ctx, run.RunArgs{
			ConfigFile:  configFile,
			Collections: collections,
			OutDir:      outDir,
		})

		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		printTopResults(result.Kept, top)
		printSummary(result)
	},
}

func printTopResults(results []*eventmodels.StrangleResult, top int) {
	if len(results) == 0 {
		fmt.Println("No balanced strangles found.")
		return
	}

	if top > 0 && len(results) > top {
		results = results[:top]
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Price", "Call", "Put", "Cost", "Norm Diff", "P(Profit)", "E[Gain]"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, r := range results {
		table.Append([]string{
			r.Ticker.String(),
			fmt.Sprintf("$%.2f", r.StockPrice),
			fmt.Sprintf("$%.2f @ %s", r.StrikePriceCall, r.ExpirationDateCall),
			fmt.Sprintf("$%.2f @ %s", r.StrikePricePut, r.ExpirationDatePut),
			fmt.Sprintf("$%.2f", r.StrangleCost()),
			fmt.Sprintf("%.4f", r.NormalizedDifference),
			fmt.Sprintf("%.3f", r.ProbabilityOfProfit),
			fmt.Sprintf("$%.2f", r.ExpectedGain),
		})
	}

	table.Render()
}

func printSummary(result run.RunResult) {
	p := message.NewPrinter(language.English)

	report := result.Report
	elapsed := report.FinishedAt.Sub(report.StartedAt)

	p.Printf("Run %s: %d tickers processed, %d skipped, %d contract pairs tried in %v\n",
		report.RunID, report.TickersProcessed, report.TickersSkipped, report.CandidatesConsidered, elapsed.Round(time.Millisecond))

	if result.CsvPath != "" {
		fmt.Println("CSV file written to: ", result.CsvPath)
	}

	if result.HtmlPath != "" {
		fmt.Println("HTML report written to: ", result.HtmlPath)
	}
}

func main() {
	runCmd.PersistentFlags().String("config", "", "Path to the yaml scan config. Defaults apply when omitted.")
	runCmd.PersistentFlags().StringSlice("collections", []string{}, "Ticker collections to scan, overriding the config file.")
	runCmd.PersistentFlags().String("outDir", "", "The directory to write the reports to.")
	runCmd.PersistentFlags().Int("top", 10, "How many results to print.")

	runCmd.Execute()
}
