// Package cmd provides the CLI commands for the allowance request service.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camara-itapoa/diaria-engine/config"
	"github.com/camara-itapoa/diaria-engine/logging"
)

var (
	cfg     *config.Config
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "diaria",
	Short: "Travel allowance request service for the municipal chamber",
	Long: `diaria runs the chamber's travel allowance ("diárias") backend.

It serves the calculation engine, the request workflow, and the
administrative endpoints over HTTP. Configuration comes from the
environment, with an optional .env file for local development.

Examples:
  diaria serve
  diaria seed-holidays --year 2026
  diaria version`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func initConfig() {
	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	err = logging.Initialize(logging.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}
