package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coin-tracker/internal/app"
)

var trendLimit int

var trendCmd = &cobra.Command{
	Use:   "trend <coin_id>",
	Short: "Trend, volatility, and momentum analysis over recent records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if trendLimit <= 3 {
			return fmt.Errorf("--limit must be greater than 3")
		}

		opts := app.ReportOptions{
			CoinID: strings.ToLower(strings.TrimSpace(args[0])),
			Limit:  trendLimit,
		}
		return getApp().TrendStats(cmd.Context(), opts)
	},
}

func init() {
	trendCmd.Flags().IntVar(&trendLimit, "limit", 10, "Number of recent records to analyze")
}
