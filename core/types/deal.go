// Package types - Shared deal and money types
package types

import (
	"github.com/shopspring/decimal"

	"shipquote/core/pricing"
)

// Currency represents a currency code
type Currency string

const (
	// CurrencyClient is the currency the client's budget is stated in
	CurrencyClient Currency = "USD"

	// CurrencyPricing is the currency all pricing functions quote in
	CurrencyPricing Currency = "EUR"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// PayerPolicy selects whose budget constraint carries the transport cost
type PayerPolicy string

const (
	// ClientPays adds transport cost to the client's budget constraint
	ClientPays PayerPolicy = "client"

	// PurchaserPays keeps transport cost out of the client constraint
	PurchaserPays PayerPolicy = "purchaser"
)

// Valid reports whether the policy is one of the known variants
func (p PayerPolicy) Valid() bool {
	return p == ClientPays || p == PurchaserPays
}

// Deal is the structured input of a single affordability calculation.
// All fields are immutable value data with the lifetime of one call.
type Deal struct {
	// Name labels the deal in reports
	Name string

	// Budget is the client's budget in the client currency; must be >= 0
	Budget decimal.Decimal

	// ExchangeRate converts the client currency into the pricing
	// currency; must be > 0
	ExchangeRate decimal.Decimal

	// UnitPrice is the wholesale purchase price per unit (pricing
	// currency), possibly tiered by quantity
	UnitPrice pricing.Schedule

	// Margin is the strategy producing the profit fraction in [0, 1)
	Margin pricing.MarginSource

	// Transport is the shipment cost (pricing currency), normally
	// non-decreasing in quantity
	Transport pricing.Schedule

	// Payer selects who bears the transport cost
	Payer PayerPolicy
}

// ConvertedBudget is the budget expressed in the pricing currency
func (d *Deal) ConvertedBudget() decimal.Decimal {
	return d.Budget.Mul(d.ExchangeRate)
}
