package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coin-tracker/internal/app"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats <coin_id>",
	Short: "Market analytics over the most recent price records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsLimit <= 1 {
			return fmt.Errorf("--limit must be greater than 1")
		}

		opts := app.ReportOptions{
			CoinID: strings.ToLower(strings.TrimSpace(args[0])),
			Limit:  statsLimit,
		}
		return getApp().MarketStats(cmd.Context(), opts)
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsLimit, "limit", 10, "Number of recent records to analyze")
}
