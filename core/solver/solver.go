// Package solver - Affordability search
//
// Quantity appears on both sides of the budget equation because unit
// price, margin, and transport cost can each be step functions of
// quantity (volume breakpoints). The search is a scaled-estimate
// iterative refinement rather than a closed-form inversion: overshoot
// shrinks the estimate proportionally to the overshoot ratio, undershoot
// probes exactly one more unit.
package solver

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shipquote/core/pricing"
	"shipquote/core/types"
	"shipquote/internal/errors"
	"shipquote/internal/logging"
)

// MaxIterations caps the refinement loop. The proportional shrink
// strictly decreases the estimate and growth is one unit per iteration,
// so honest near-monotone pricing converges in far fewer steps; the cap
// turns pathological non-monotone inputs into an explicit error.
const MaxIterations = 10000

var one = decimal.NewFromInt(1)

// evaluator evaluates the deal's cost model at a probed quantity. Every
// call re-evaluates the schedules: tiers can shift the effective price
// discontinuously at breakpoints, so nothing is cached across quantities.
type evaluator struct {
	unitPrice  pricing.Schedule
	margin     pricing.Schedule
	transport  pricing.Schedule
	clientPays bool
}

func newEvaluator(deal *types.Deal) (*evaluator, error) {
	margin, err := deal.Margin.Resolve(deal.UnitPrice)
	if err != nil {
		return nil, err
	}
	return &evaluator{
		unitPrice:  deal.UnitPrice,
		margin:     margin,
		transport:  deal.Transport,
		clientPays: deal.Payer == types.ClientPays,
	}, nil
}

// sellPrice is the margin-inflated unit price at a probed quantity:
// unitPrice(n) / (1 - margin(n)).
func (e *evaluator) sellPrice(quantity int64) (decimal.Decimal, error) {
	margin := e.margin.At(quantity)
	if margin.GreaterThanOrEqual(one) {
		return decimal.Zero, errors.InvalidMargin(quantity, margin.String())
	}
	price := e.unitPrice.At(quantity)
	if price.Sign() <= 0 {
		return decimal.Zero, errors.Newf(errors.TypePricing,
			"unit price must be positive at quantity %d", quantity)
	}
	return price.Div(one.Sub(margin)), nil
}

// totalCost is the client-side cost of buying the probed quantity.
// Transport is included only when the client bears it.
func (e *evaluator) totalCost(quantity int64) (decimal.Decimal, error) {
	sell, err := e.sellPrice(quantity)
	if err != nil {
		return decimal.Zero, err
	}
	total := sell.Mul(decimal.NewFromInt(quantity))
	if e.clientPays {
		total = total.Add(e.transport.At(quantity))
	}
	return total, nil
}

// marginalCost approximates the cost of moving from quantity to
// quantity+1: one more unit at next-quantity sell price plus the
// transport delta (which jumps at vehicle-capacity breakpoints).
func (e *evaluator) marginalCost(quantity int64) (decimal.Decimal, error) {
	sell, err := e.sellPrice(quantity + 1)
	if err != nil {
		return decimal.Zero, err
	}
	if !e.clientPays {
		return sell, nil
	}
	delta := e.transport.At(quantity + 1).Sub(e.transport.At(quantity))
	return sell.Add(delta), nil
}

// Solve computes the maximum integer quantity affordable under the
// deal's budget constraint. It is a pure function: no shared state, safe
// to call concurrently from independent invocations.
func Solve(deal *types.Deal) (int64, error) {
	if deal.Budget.IsNegative() {
		return 0, errors.Input("budget must not be negative")
	}
	if deal.ExchangeRate.Sign() <= 0 {
		return 0, errors.Input("exchange rate must be positive")
	}
	if !deal.Payer.Valid() {
		return 0, errors.Input("unknown payer policy: " + string(deal.Payer))
	}

	eval, err := newEvaluator(deal)
	if err != nil {
		return 0, err
	}
	return search(eval, deal.ConvertedBudget())
}

func search(eval *evaluator, budget decimal.Decimal) (int64, error) {
	// Seed: client-pays starts from the single-unit sell price ignoring
	// transport; purchaser-pays grows from one unit.
	var estimate int64
	if eval.clientPays {
		sell, err := eval.sellPrice(1)
		if err != nil {
			return 0, err
		}
		estimate = budget.Div(sell).Floor().IntPart()
	} else {
		estimate = 1
	}
	if estimate <= 0 {
		return 0, nil
	}
	logging.Debug("affordability search seeded",
		zap.Int64("estimate", estimate),
		zap.String("budget", budget.String()))

	for iter := 0; iter < MaxIterations; iter++ {
		total, err := eval.totalCost(estimate)
		if err != nil {
			return 0, err
		}

		if total.GreaterThan(budget) {
			// Overshoot: shrink proportionally to the overshoot ratio.
			// The ratio is below 1 so this strictly decreases; the guard
			// only covers decimal rounding at the division precision.
			next := decimal.NewFromInt(estimate).Mul(budget).Div(total).Floor().IntPart()
			if next >= estimate {
				next = estimate - 1
			}
			estimate = next
			if estimate <= 0 {
				return 0, nil
			}
			continue
		}

		// The estimate fits; probe whether one more unit still does.
		marginal, err := eval.marginalCost(estimate)
		if err != nil {
			return 0, err
		}
		if total.Add(marginal).LessThanOrEqual(budget) {
			estimate++
			continue
		}

		logging.Debug("affordability search converged",
			zap.Int64("itemCount", estimate),
			zap.Int("iterations", iter+1))
		return estimate, nil
	}

	return 0, errors.NonConvergence(MaxIterations)
}

// SolveQuote runs Solve and derives the reporting values at the solved
// count: margin and shipping converted back to the client currency, and
// the blended per-unit cost including the client's shipping share.
func SolveQuote(deal *types.Deal) (*types.Quote, error) {
	count, err := Solve(deal)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return &types.Quote{
			SellPricePerUnit:  decimal.Zero,
			MarginClient:      decimal.Zero,
			ShippingClient:    decimal.Zero,
			CostPerUnitClient: decimal.Zero,
		}, nil
	}

	eval, err := newEvaluator(deal)
	if err != nil {
		return nil, err
	}
	sell, err := eval.sellPrice(count)
	if err != nil {
		return nil, err
	}

	rate := deal.ExchangeRate
	quantity := decimal.NewFromInt(count)
	unit := deal.UnitPrice.At(count)
	transport := deal.Transport.At(count)

	perUnit := sell
	if deal.Payer == types.ClientPays {
		perUnit = perUnit.Add(transport.Div(quantity))
	}

	return &types.Quote{
		ItemCount:         count,
		SellPricePerUnit:  sell,
		MarginClient:      sell.Sub(unit).Mul(quantity).Div(rate),
		ShippingClient:    transport.Div(rate),
		CostPerUnitClient: perUnit.Div(rate),
	}, nil
}
