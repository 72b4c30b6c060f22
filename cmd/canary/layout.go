package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"canary/internal/frame"
	"canary/internal/report"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the frame layout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatStr, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		format, err := report.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		return report.WriteLayout(cmd.OutOrStdout(), frame.Describe(), format)
	},
}

func init() {
	layoutCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}
