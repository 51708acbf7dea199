// Package types - Quote output
package types

import "github.com/shopspring/decimal"

// Quote is the output of one affordability calculation: the solved item
// count plus derived reporting values. Deterministic in the deal input,
// never mutated, recomputed fresh per call.
type Quote struct {
	// ItemCount is the maximum affordable quantity
	ItemCount int64 `json:"item_count"`

	// SellPricePerUnit is the margin-inflated unit price at ItemCount,
	// in the pricing currency
	SellPricePerUnit decimal.Decimal `json:"sell_price_per_unit"`

	// MarginClient is the total profit at ItemCount, converted back to
	// the client currency
	MarginClient decimal.Decimal `json:"margin_client"`

	// ShippingClient is the transport cost at ItemCount, converted back
	// to the client currency
	ShippingClient decimal.Decimal `json:"shipping_client"`

	// CostPerUnitClient is the blended per-unit cost (sell price plus
	// per-unit shipping share when the client pays shipping), converted
	// back to the client currency
	CostPerUnitClient decimal.Decimal `json:"cost_per_unit_client"`
}
