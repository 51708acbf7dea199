// Package pricing - Margin strategies
package pricing

import (
	"github.com/shopspring/decimal"

	"shipquote/internal/errors"
)

// MarginKind tags the strategy used to obtain the margin fraction
type MarginKind int

const (
	// MarginFixed is an explicit constant fraction
	MarginFixed MarginKind = iota

	// MarginScheduled is an explicit quantity-dependent fraction
	MarginScheduled

	// MarginFromClientPrice derives the fraction from the per-unit price
	// the client is willing to pay
	MarginFromClientPrice
)

var one = decimal.NewFromInt(1)

// MarginSource selects how the margin fraction is obtained. It is an
// explicit variant rather than an implicit fallback chain, so the solver
// only ever sees a resolved margin schedule.
type MarginSource struct {
	kind        MarginKind
	fraction    decimal.Decimal
	schedule    Schedule
	clientPrice decimal.Decimal
}

// FixedMargin uses an explicit constant fraction in [0, 1)
func FixedMargin(fraction decimal.Decimal) MarginSource {
	return MarginSource{kind: MarginFixed, fraction: fraction}
}

// MarginSchedule uses an explicit quantity-dependent fraction
func MarginSchedule(s Schedule) MarginSource {
	return MarginSource{kind: MarginScheduled, schedule: s}
}

// FromClientPrice derives the margin from the per-unit sell price the
// client has accepted: margin(n) = 1 - unitPrice(n)/clientPrice.
func FromClientPrice(clientPrice decimal.Decimal) MarginSource {
	return MarginSource{kind: MarginFromClientPrice, clientPrice: clientPrice}
}

// Kind returns the strategy tag
func (m MarginSource) Kind() MarginKind {
	return m.kind
}

// Resolve turns the source into a margin schedule against the given
// unit-price schedule. Resolution happens once, before the search starts;
// the returned schedule is still evaluated fresh at every probed quantity
// because tiered unit prices shift the derived margin at breakpoints.
func (m MarginSource) Resolve(unitPrice Schedule) (Schedule, error) {
	switch m.kind {
	case MarginScheduled:
		return m.schedule, nil
	case MarginFromClientPrice:
		if m.clientPrice.Sign() <= 0 {
			return Schedule{}, errors.Pricing("client price must be positive to derive a margin")
		}
		price := m.clientPrice
		return FuncOf(func(quantity int64) decimal.Decimal {
			return one.Sub(unitPrice.At(quantity).Div(price))
		}), nil
	default:
		return Fixed(m.fraction), nil
	}
}
