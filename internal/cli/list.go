package cli

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked coins",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().List(cmd.Context())
	},
}
