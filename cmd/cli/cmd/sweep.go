// Package cmd - sweep command
package cmd

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dealhcl "shipquote/adapters/hcl"
	"shipquote/core/output"
	"shipquote/core/solver"
	"shipquote/internal/config"
	"shipquote/internal/logging"
)

var (
	sweepFrom float64
	sweepTo   float64
	sweepStep float64
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep <deal-file>",
	Short: "Evaluate a deal across a budget range and chart the per-unit cost",
	Long: `Solve the same deal repeatedly over a range of budgets and render
the blended per-unit cost as a line chart (budget on the x-axis).

Example:
  shipquote sweep deal.hcl --from 10000 --to 80000 --step 2500`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 10000, "lowest budget to evaluate")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 80000, "highest budget to evaluate")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 2500, "budget increment")
}

func runSweep(cmd *cobra.Command, args []string) error {
	if sweepStep <= 0 {
		return fmt.Errorf("step must be positive")
	}
	if sweepTo < sweepFrom {
		return fmt.Errorf("to must not be below from")
	}

	cfg := config.Get()
	deal, err := dealhcl.LoadDeal(args[0], cfg.ExchangeRate)
	if err != nil {
		return err
	}

	step := decimal.NewFromFloat(sweepStep)
	to := decimal.NewFromFloat(sweepTo)

	var points []output.SweepPoint
	for budget := decimal.NewFromFloat(sweepFrom); budget.LessThanOrEqual(to); budget = budget.Add(step) {
		// Each evaluation is an independent solver call on a copy of the
		// deal with only the budget swapped.
		probe := *deal
		probe.Budget = budget

		quote, err := solver.SolveQuote(&probe)
		if err != nil {
			return fmt.Errorf("failed to solve deal %s at budget %s: %w", deal.Name, budget, err)
		}
		if quote.ItemCount == 0 {
			continue
		}
		points = append(points, output.SweepPoint{Budget: budget, Quote: quote})
	}
	logging.Info("budget sweep complete",
		zap.String("deal", deal.Name),
		zap.Int("points", len(points)))

	if len(points) == 0 {
		fmt.Println("No budget in the range affords a single unit.")
		return nil
	}
	return output.RenderSweep(os.Stdout, points)
}
