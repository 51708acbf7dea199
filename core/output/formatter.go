// Package output provides output formatting interfaces.
// This package produces human and machine-readable renderings of
// computed quotes; it performs no pricing math of its own.
package output

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"shipquote/core/types"
	"shipquote/core/ui"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable terminal report
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Report contains the complete output of one solved deal
type Report struct {
	// DealName labels the deal
	DealName string `json:"deal_name"`

	// Budget is the client budget in the client currency
	Budget decimal.Decimal `json:"budget"`

	// ExchangeRate is the applied conversion rate
	ExchangeRate decimal.Decimal `json:"exchange_rate"`

	// Payer is the transport payer policy
	Payer types.PayerPolicy `json:"payer"`

	// Quote holds the solved count and derived values
	Quote *types.Quote `json:"quote"`
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// New returns the formatter for a format name, defaulting to CLI
func New(format Format, noColor bool) Formatter {
	switch format {
	case FormatJSON:
		return &jsonFormatter{}
	default:
		return &cliFormatter{noColor: noColor}
	}
}

type cliFormatter struct {
	noColor bool
}

func (f *cliFormatter) Format() Format {
	return FormatCLI
}

func (f *cliFormatter) Render(w io.Writer, report *Report) error {
	term := ui.NewWriter(w, f.noColor)
	term.Header("Shipment Quote: " + report.DealName)

	term.Row("Budget ("+types.CurrencyClient.String()+")", report.Budget.StringFixed(2))
	term.Row("Exchange rate", report.ExchangeRate.String())
	term.Row("Transport paid by", string(report.Payer))
	term.Println("")

	q := report.Quote
	if q.ItemCount == 0 {
		term.Warning("budget does not cover a single unit")
		return nil
	}

	term.Row("Affordable units", decimal.NewFromInt(q.ItemCount).String())
	term.Row("Sell price/unit ("+types.CurrencyPricing.String()+")", q.SellPricePerUnit.StringFixed(2))
	term.Row("Margin ("+types.CurrencyClient.String()+")", q.MarginClient.StringFixed(2))
	term.Row("Shipping ("+types.CurrencyClient.String()+")", q.ShippingClient.StringFixed(2))
	term.Row("Cost/unit ("+types.CurrencyClient.String()+")", q.CostPerUnitClient.StringFixed(2))
	term.Println("")
	term.Success("quote computed")
	return nil
}

type jsonFormatter struct{}

func (f *jsonFormatter) Format() Format {
	return FormatJSON
}

func (f *jsonFormatter) Render(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
