package cli

import (
	"github.com/spf13/cobra"
)

var tzCheckCmd = &cobra.Command{
	Use:   "tz-check",
	Short: "Notify when TIMEZONE's UTC offset no longer matches INITIAL_TZ_OFFSET",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := getApp().TimezoneCheck(cmd.Context())
		return err
	},
}
