package cli

import (
	"github.com/spf13/cobra"

	"coin-tracker/internal/app"
)

var recordCmd = &cobra.Command{
	Use:   "record [coin_id]",
	Short: "Record a price snapshot for one coin or all tracked coins",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.RecordOptions{}
		if len(args) == 1 {
			opts.CoinID = args[0]
		}
		return getApp().Record(cmd.Context(), opts)
	},
}
