// Package cmd - quote command
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dealhcl "shipquote/adapters/hcl"
	"shipquote/core/output"
	"shipquote/core/solver"
	"shipquote/internal/config"
	"shipquote/internal/logging"
)

var (
	outputFormat string
	noColor      bool
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote <deal-file>",
	Short: "Solve a deal file and print the quote",
	Long: `Solve the affordability problem for one deal file and report the
maximum affordable quantity with its derived values.

Examples:
  shipquote quote deal.hcl
  shipquote quote --format json deal.hcl`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json)")
	quoteCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	deal, err := dealhcl.LoadDeal(args[0], cfg.ExchangeRate)
	if err != nil {
		return err
	}
	logging.Info("solving deal", zap.String("deal", deal.Name))

	quote, err := solver.SolveQuote(deal)
	if err != nil {
		return fmt.Errorf("failed to solve deal %s: %w", deal.Name, err)
	}

	format := output.Format(outputFormat)
	if outputFormat == "" {
		format = output.Format(cfg.Output.DefaultFormat)
	}
	formatter := output.New(format, noColor || cfg.Output.NoColor)

	report := &output.Report{
		DealName:     deal.Name,
		Budget:       deal.Budget,
		ExchangeRate: deal.ExchangeRate,
		Payer:        deal.Payer,
		Quote:        quote,
	}
	return formatter.Render(os.Stdout, report)
}
