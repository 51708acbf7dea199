// Package output - Budget sweep chart
package output

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
	"github.com/shopspring/decimal"

	"shipquote/core/types"
)

// SweepPoint pairs an evaluated budget with its quote
type SweepPoint struct {
	Budget decimal.Decimal `json:"budget"`
	Quote  *types.Quote    `json:"quote"`
}

// RenderSweep draws the per-unit client cost across a budget range as a
// terminal line chart: budget ascends along the x-axis, blended per-unit
// cost is the y-axis. Purely presentational.
func RenderSweep(w io.Writer, points []SweepPoint) error {
	if len(points) == 0 {
		return nil
	}

	series := make([]float64, len(points))
	for i, p := range points {
		series[i], _ = p.Quote.CostPerUnitClient.Float64()
	}

	first := points[0].Budget.StringFixed(0)
	last := points[len(points)-1].Budget.StringFixed(0)
	chart := asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("cost per unit (%s) over budgets %s..%s (%s)",
			types.CurrencyClient, first, last, types.CurrencyClient)),
	)

	if _, err := fmt.Fprintln(w, chart); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nunits at %s: %d, units at %s: %d\n",
		first, points[0].Quote.ItemCount,
		last, points[len(points)-1].Quote.ItemCount)
	return err
}
