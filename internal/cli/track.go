package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coin-tracker/internal/app"
)

var (
	trackSelect int
	trackLimit  int
)

var trackCmd = &cobra.Command{
	Use:   "track <query>",
	Short: "Search the coin catalog and start tracking a coin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(args[0])
		if query == "" {
			return fmt.Errorf("search query cannot be empty")
		}

		opts := app.TrackOptions{
			Query:     query,
			Choice:    trackSelect,
			ChoiceSet: cmd.Flags().Changed("select"),
			Limit:     trackLimit,
		}
		if opts.Limit <= 0 {
			opts.Limit = getApp().Config.Search.Limit
		}

		return getApp().Track(cmd.Context(), opts)
	},
}

func init() {
	trackCmd.Flags().IntVar(&trackSelect, "select", 0, "Candidate number to track (0 cancels)")
	trackCmd.Flags().IntVar(&trackLimit, "limit", 0, "Maximum candidates to list (defaults to config)")
}
