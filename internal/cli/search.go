package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coin-tracker/internal/app"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the coin catalog by symbol, id, or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(args[0])
		if query == "" {
			return fmt.Errorf("search query cannot be empty")
		}

		opts := app.SearchOptions{
			Query: query,
			Limit: searchLimit,
		}
		if opts.Limit <= 0 {
			opts.Limit = getApp().Config.Search.Limit
		}

		return getApp().Search(cmd.Context(), opts)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum matches to list (defaults to config)")
}
