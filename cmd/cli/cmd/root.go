// Package cmd provides the CLI commands for shipquote.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shipquote/internal/config"
	"shipquote/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shipquote",
	Short: "Estimate affordable shipment quantities under a budget",
	Long: `shipquote solves how many units a buyer can afford for a single
shipment negotiation, given a budget, a wholesale price, a resale margin,
and a transport cost that may jump at truck or container breakpoints.

Examples:
  shipquote quote deal.hcl
  shipquote quote --format json deal.hcl
  shipquote sweep deal.hcl --from 10000 --to 80000 --step 2500`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shipquote.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("shipquote version 0.1.0")
	},
}
