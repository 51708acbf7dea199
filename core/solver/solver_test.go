// Package solver - Affordability search tests
// These tests exercise the documented search properties: budget respect,
// monotonicity, the closed form for constant pricing, and the tiered
// truck-breakpoint scenario.
package solver

import (
	"testing"

	"github.com/shopspring/decimal"

	"shipquote/core/pricing"
	"shipquote/core/types"
	"shipquote/internal/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// tieredDeal is the reference scenario: unit price 3.50 below 8000
// units, 3.25 up to 9999, 3.00 from 10000, margin 0.4, one 7000-unit
// truck at 6850 per trip, client pays transport.
func tieredDeal(budget string) *types.Deal {
	return &types.Deal{
		Name:         "tiered",
		Budget:       dec(budget),
		ExchangeRate: dec("0.88"),
		UnitPrice: pricing.Tiered(
			pricing.Tier{UpTo: 7999, Rate: dec("3.50")},
			pricing.Tier{UpTo: 9999, Rate: dec("3.25")},
			pricing.Tier{Rate: dec("3.00")},
		),
		Margin:    pricing.FixedMargin(dec("0.4")),
		Transport: pricing.PerVehicle(7000, dec("6850")),
		Payer:     types.ClientPays,
	}
}

func constantDeal(budget, price, margin string, payer types.PayerPolicy) *types.Deal {
	return &types.Deal{
		Name:         "constant",
		Budget:       dec(budget),
		ExchangeRate: dec("1"),
		UnitPrice:    pricing.Fixed(dec(price)),
		Margin:       pricing.FixedMargin(dec(margin)),
		Transport:    pricing.Zero(),
		Payer:        payer,
	}
}

// TestConstantPricingClosedForm checks the purchaser-pays closed form:
// floor(convertedBudget / (price / (1 - margin))).
func TestConstantPricingClosedForm(t *testing.T) {
	// sell price = 5 / (1 - 0.2) = 6.25, floor(1000 / 6.25) = 160
	count, err := Solve(constantDeal("1000", "5", "0.2", types.PurchaserPays))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 160 {
		t.Errorf("expected 160 units, got %d", count)
	}
}

// TestTieredScenario pins the reference tiered scenario to its
// deterministic answer: the count lands exactly on the first truck
// capacity because a 7001st unit would charge a whole second trip.
func TestTieredScenario(t *testing.T) {
	deal := tieredDeal("60000")
	count, err := Solve(deal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 7000 {
		t.Fatalf("expected 7000 units, got %d", count)
	}

	// Budget respect: total cost at the count fits, one more unit does
	// not. Recomputed here from the schedules, not the solver.
	converted := deal.ConvertedBudget()
	if total := clientTotal(deal, count); total.GreaterThan(converted) {
		t.Errorf("total %s at %d exceeds converted budget %s", total, count, converted)
	}
	if total := clientTotal(deal, count+1); !total.GreaterThan(converted) {
		t.Errorf("total %s at %d should exceed converted budget %s", total, count+1, converted)
	}
}

// clientTotal recomputes sellPrice(n)*n + transport(n) independently
func clientTotal(deal *types.Deal, n int64) decimal.Decimal {
	marginSched, err := deal.Margin.Resolve(deal.UnitPrice)
	if err != nil {
		panic(err)
	}
	one := decimal.NewFromInt(1)
	sell := deal.UnitPrice.At(n).Div(one.Sub(marginSched.At(n)))
	return sell.Mul(decimal.NewFromInt(n)).Add(deal.Transport.At(n))
}

// TestBudgetMonotonicity checks a bigger budget never buys fewer units
func TestBudgetMonotonicity(t *testing.T) {
	prev := int64(-1)
	for budget := 0; budget <= 100000; budget += 2500 {
		deal := tieredDeal(decimal.NewFromInt(int64(budget)).String())
		count, err := Solve(deal)
		if err != nil {
			t.Fatalf("budget %d: unexpected error: %v", budget, err)
		}
		if count < prev {
			t.Fatalf("budget %d: count %d dropped below %d", budget, count, prev)
		}
		prev = count
	}
}

// TestZeroBudget checks the zero and below-floor boundaries
func TestZeroBudget(t *testing.T) {
	cases := []struct {
		name string
		deal *types.Deal
	}{
		{"zero budget", tieredDeal("0")},
		{"below single unit", constantDeal("6", "5", "0.2", types.PurchaserPays)},
		{"below unit plus shipping", &types.Deal{
			Budget:       dec("105"),
			ExchangeRate: dec("1"),
			UnitPrice:    pricing.Fixed(dec("10")),
			Margin:       pricing.FixedMargin(dec("0")),
			Transport:    pricing.Fixed(dec("100")),
			Payer:        types.ClientPays,
		}},
	}
	for _, tc := range cases {
		count, err := Solve(tc.deal)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if count != 0 {
			t.Errorf("%s: expected 0 units, got %d", tc.name, count)
		}
	}
}

// TestPayerPolicyDivergence checks client-pays never affords more than
// purchaser-pays for the same deal. Budgets stay below the point where
// the purchaser-pays unit-step growth from its seed of one would hit
// the iteration cap.
func TestPayerPolicyDivergence(t *testing.T) {
	for budget := 1000; budget <= 27000; budget *= 3 {
		clientDeal := tieredDeal(decimal.NewFromInt(int64(budget)).String())
		purchaserDeal := tieredDeal(decimal.NewFromInt(int64(budget)).String())
		purchaserDeal.Payer = types.PurchaserPays

		clientCount, err := Solve(clientDeal)
		if err != nil {
			t.Fatalf("budget %d: %v", budget, err)
		}
		purchaserCount, err := Solve(purchaserDeal)
		if err != nil {
			t.Fatalf("budget %d: %v", budget, err)
		}
		if clientCount > purchaserCount {
			t.Errorf("budget %d: client-pays %d exceeds purchaser-pays %d",
				budget, clientCount, purchaserCount)
		}
	}
}

// TestIdempotence checks repeated calls with identical input agree
func TestIdempotence(t *testing.T) {
	first, err := Solve(tieredDeal("60000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Solve(tieredDeal("60000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("solver is not idempotent: %d vs %d", first, second)
	}
}

// TestMarginFromClientPrice checks the derived-margin strategy: a client
// price of 8 against a wholesale price of 4 is a 0.5 margin, so the sell
// price equals the client price
func TestMarginFromClientPrice(t *testing.T) {
	deal := &types.Deal{
		Budget:       dec("1000"),
		ExchangeRate: dec("1"),
		UnitPrice:    pricing.Fixed(dec("4")),
		Margin:       pricing.FromClientPrice(dec("8")),
		Transport:    pricing.Zero(),
		Payer:        types.PurchaserPays,
	}
	count, err := Solve(deal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 125 {
		t.Errorf("expected floor(1000/8) = 125 units, got %d", count)
	}
}

// TestInvalidInputs checks boundary rejection before the loop starts
func TestInvalidInputs(t *testing.T) {
	negative := constantDeal("100", "5", "0.2", types.PurchaserPays)
	negative.Budget = dec("-1")
	if _, err := Solve(negative); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected input error for negative budget, got %v", err)
	}

	zeroRate := constantDeal("100", "5", "0.2", types.PurchaserPays)
	zeroRate.ExchangeRate = decimal.Zero
	if _, err := Solve(zeroRate); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected input error for zero exchange rate, got %v", err)
	}

	badPayer := constantDeal("100", "5", "0.2", "freight-forwarder")
	if _, err := Solve(badPayer); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected input error for unknown payer, got %v", err)
	}
}

// TestInvalidMargin checks a margin at or above 1 is fatal, including
// when a tiered margin only crosses 1 at a probed breakpoint
func TestInvalidMargin(t *testing.T) {
	if _, err := Solve(constantDeal("100", "5", "1", types.PurchaserPays)); !errors.IsType(err, errors.TypeMargin) {
		t.Errorf("expected margin error, got %v", err)
	}

	crossing := constantDeal("1000", "5", "0", types.PurchaserPays)
	crossing.Margin = pricing.MarginSchedule(pricing.Tiered(
		pricing.Tier{UpTo: 50, Rate: dec("0.3")},
		pricing.Tier{Rate: dec("1.5")},
	))
	if _, err := Solve(crossing); !errors.IsType(err, errors.TypeMargin) {
		t.Errorf("expected margin error at the crossing tier, got %v", err)
	}
}

// TestNonPositivePriceFailsLoudly checks a broken pricing function is an
// error, not a silently clamped answer
func TestNonPositivePriceFailsLoudly(t *testing.T) {
	deal := constantDeal("100", "5", "0", types.PurchaserPays)
	deal.UnitPrice = pricing.Fixed(decimal.Zero)
	if _, err := Solve(deal); !errors.IsType(err, errors.TypePricing) {
		t.Errorf("expected pricing error for zero unit price, got %v", err)
	}
}

// TestNonConvergence forces the oscillation the iteration cap guards
// against: a price step upward at 11 units makes the marginal probe grow
// the estimate to 11, where the recomputed total overshoots and shrinks
// straight back to 10.
func TestNonConvergence(t *testing.T) {
	deal := &types.Deal{
		Budget:       dec("12"),
		ExchangeRate: dec("1"),
		UnitPrice: pricing.Tiered(
			pricing.Tier{UpTo: 10, Rate: dec("1")},
			pricing.Tier{Rate: dec("1.2")},
		),
		Margin:    pricing.FixedMargin(dec("0")),
		Transport: pricing.Zero(),
		Payer:     types.PurchaserPays,
	}
	if _, err := Solve(deal); !errors.IsType(err, errors.TypeConvergence) {
		t.Errorf("expected convergence error, got %v", err)
	}
}

// TestSolveQuoteDerivedValues pins the derived reporting numbers for the
// reference tiered scenario at its solved count of 7000
func TestSolveQuoteDerivedValues(t *testing.T) {
	quote, err := SolveQuote(tieredDeal("60000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.ItemCount != 7000 {
		t.Fatalf("expected 7000 units, got %d", quote.ItemCount)
	}
	// sell = 3.5/0.6, margin = (sell-3.5)*7000/0.88,
	// shipping = 6850/0.88, per-unit = (sell + 6850/7000)/0.88
	if got := quote.SellPricePerUnit.StringFixed(2); got != "5.83" {
		t.Errorf("sell price per unit: expected 5.83, got %s", got)
	}
	if got := quote.MarginClient.StringFixed(2); got != "18560.61" {
		t.Errorf("margin: expected 18560.61, got %s", got)
	}
	if got := quote.ShippingClient.StringFixed(2); got != "7784.09" {
		t.Errorf("shipping: expected 7784.09, got %s", got)
	}
	if got := quote.CostPerUnitClient.StringFixed(2); got != "7.74" {
		t.Errorf("cost per unit: expected 7.74, got %s", got)
	}
}

// TestSolveQuoteZeroCount checks the zero-count quote is all zeros
func TestSolveQuoteZeroCount(t *testing.T) {
	quote, err := SolveQuote(tieredDeal("0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.ItemCount != 0 || !quote.MarginClient.IsZero() || !quote.ShippingClient.IsZero() {
		t.Errorf("expected an all-zero quote, got %+v", quote)
	}
}
