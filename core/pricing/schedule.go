// Package pricing - Quantity-dependent pricing schedules
// All pricing math flows through these primitives; callers declare the
// pricing model, they do not do math.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind tags the variant of a Schedule
type Kind int

const (
	// KindFixed is a quantity-independent constant
	KindFixed Kind = iota

	// KindTiered selects a rate by quantity breakpoint
	KindTiered

	// KindFunc is an arbitrary quantity function
	KindFunc
)

// Tier is a quantity breakpoint in a tiered schedule.
// The rate applies to the whole order when its quantity is at most UpTo;
// UpTo == 0 means unlimited.
type Tier struct {
	UpTo int64           `json:"up_to"`
	Rate decimal.Decimal `json:"rate"`
}

// Schedule is a pure quantity -> value function in the pricing currency,
// resolved once per solve call into one of three variants.
type Schedule struct {
	kind  Kind
	value decimal.Decimal
	tiers []Tier
	fn    func(quantity int64) decimal.Decimal
}

// Fixed creates a quantity-independent schedule
func Fixed(value decimal.Decimal) Schedule {
	return Schedule{kind: KindFixed, value: value}
}

// Zero is the all-zero schedule (e.g. no transport cost)
func Zero() Schedule {
	return Fixed(decimal.Zero)
}

// Tiered creates a breakpoint schedule. Tiers must be ordered by
// ascending UpTo with an unlimited (UpTo == 0) tier last; evaluating a
// quantity beyond a bounded final tier panics rather than silently
// pricing it at zero.
func Tiered(tiers ...Tier) Schedule {
	return Schedule{kind: KindTiered, tiers: tiers}
}

// FuncOf wraps an arbitrary quantity function
func FuncOf(fn func(quantity int64) decimal.Decimal) Schedule {
	return Schedule{kind: KindFunc, fn: fn}
}

// Kind returns the variant tag
func (s Schedule) Kind() Kind {
	return s.kind
}

// At evaluates the schedule at a probed quantity. Tiered schedules pick
// the first tier whose limit covers the quantity, so the effective rate
// can change discontinuously at breakpoints; callers must re-evaluate at
// every quantity they probe rather than reuse an earlier result.
func (s Schedule) At(quantity int64) decimal.Decimal {
	switch s.kind {
	case KindTiered:
		for _, tier := range s.tiers {
			if tier.UpTo == 0 || quantity <= tier.UpTo {
				return tier.Rate
			}
		}
		// A zero rate here would silently undercharge; a tier table
		// without an unlimited last tier is a caller bug.
		panic(fmt.Sprintf("pricing: tiered schedule has no tier covering quantity %d", quantity))
	case KindFunc:
		return s.fn(quantity)
	default:
		return s.value
	}
}

// Sum composes schedules by addition, for transport models with several
// components (e.g. per-truck freight plus per-truck customs handling).
func Sum(schedules ...Schedule) Schedule {
	return FuncOf(func(quantity int64) decimal.Decimal {
		total := decimal.Zero
		for _, s := range schedules {
			total = total.Add(s.At(quantity))
		}
		return total
	})
}

// PerVehicle models full-vehicle transport pricing: every started vehicle
// of the given capacity costs costPerTrip, so the total is
// costPerTrip * ceil(quantity / capacity).
func PerVehicle(capacity int64, costPerTrip decimal.Decimal) Schedule {
	return FuncOf(func(quantity int64) decimal.Decimal {
		if quantity <= 0 {
			return decimal.Zero
		}
		trips := (quantity + capacity - 1) / capacity
		return costPerTrip.Mul(decimal.NewFromInt(trips))
	})
}
