package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edgewalker/edgewalker/src/cmd/find_strangle/run"
	"github.com/edgewalker/edgewalker/src/utils"
)

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/find_strangle/main.go --ticker COIN",
	Short: "Find the most balanced strangle for a single ticker",
	Run: func(cmd *cobra.Command, args []string) {
		ticker, err := cmd.Flags().GetString("ticker")
		if err != nil {
			log.Fatalf("error getting ticker: %v", err)
		}

		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			log.Fatalf("error getting json: %v", err)
		}

		if err := utils.InitEnvironmentVariables(); err != nil {
			log.Fatalf("error loading environment variables: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := run.Run(ctx, run.RunArgs{
			Ticker:     ticker,
			ConfigFile: configFile,
		})

		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		if result.Result == nil {
			fmt.Printf("No balanced strangle found for %s.\n", ticker)
			return
		}

		if asJSON {
			resultJSON, err := json.MarshalIndent(result.Result, "", "  ")
			if err != nil {
				log.Fatalf("Failed to marshal result: %v", err)
			}

			fmt.Println(string(resultJSON))
			return
		}

		fmt.Print(result.Result.String())
	},
}

func main() {
	runCmd.PersistentFlags().String("ticker", "", "The underlying stock symbol.")
	runCmd.PersistentFlags().String("config", "", "Path to the yaml scan config. Defaults apply when omitted.")
	runCmd.PersistentFlags().Bool("json", false, "Print the result as json instead of a card.")

	runCmd.MarkPersistentFlagRequired("ticker")

	runCmd.Execute()
}
