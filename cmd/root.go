// Package cmd implements the portfolio CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "portfolio",
	Short:        "Portfolio web site",
	Long:         "Serve the portfolio page with its sales and platform charts, or check the bundled data.",
	RunE:         runServe,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
