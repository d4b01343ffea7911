package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coin-tracker/internal/app"
)

var untrackPurgePrices bool

var untrackCmd = &cobra.Command{
	Use:   "untrack <coin_id>",
	Short: "Stop tracking a coin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coinID := strings.ToLower(strings.TrimSpace(args[0]))
		if coinID == "" {
			return fmt.Errorf("coin id cannot be empty")
		}

		opts := app.UntrackOptions{
			CoinID:      coinID,
			PurgePrices: untrackPurgePrices,
		}
		return getApp().Untrack(cmd.Context(), opts)
	},
}

func init() {
	untrackCmd.Flags().BoolVar(&untrackPurgePrices, "purge-prices", false, "Also delete the coin's price history")
}
