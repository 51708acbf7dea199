// Package hcl parses deal configuration files.
//
// A deal file declares one or more deal blocks. Blocks with more than
// one attribute must be written one attribute per line (HCL permits a
// single-line block only for a lone attribute):
//
//	deal "electronics-restock" {
//	  budget = 60000
//	  payer  = "client"
//
//	  unit_price {
//	    tier {
//	      up_to = 7999
//	      rate  = 3.50
//	    }
//	    tier {
//	      up_to = 9999
//	      rate  = 3.25
//	    }
//	    tier { rate = 3.00 }
//	  }
//
//	  margin { fraction = 0.4 }
//
//	  transport {
//	    per_vehicle {
//	      capacity = 7000
//	      cost     = 6850
//	    }
//	  }
//	}
package hcl

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"shipquote/core/pricing"
	"shipquote/core/types"
	"shipquote/internal/errors"
)

type dealFile struct {
	Deals []dealBlock `hcl:"deal,block"`
}

type dealBlock struct {
	Name         string          `hcl:"name,label"`
	Budget       float64         `hcl:"budget" validate:"gte=0"`
	ExchangeRate *float64        `hcl:"exchange_rate,optional" validate:"omitempty,gt=0"`
	Payer        string          `hcl:"payer" validate:"oneof=client purchaser"`
	UnitPrice    *scheduleBlock  `hcl:"unit_price,block" validate:"required"`
	Margin       *marginBlock    `hcl:"margin,block" validate:"required"`
	Transport    *transportBlock `hcl:"transport,block"`
}

type scheduleBlock struct {
	Constant *float64    `hcl:"constant,optional" validate:"omitempty,gt=0"`
	Tiers    []tierBlock `hcl:"tier,block" validate:"dive"`
}

type tierBlock struct {
	UpTo int64   `hcl:"up_to,optional" validate:"gte=0"`
	Rate float64 `hcl:"rate" validate:"gt=0"`
}

type marginBlock struct {
	Fraction    *float64 `hcl:"fraction,optional" validate:"omitempty,gte=0,lt=1"`
	ClientPrice *float64 `hcl:"client_price,optional" validate:"omitempty,gt=0"`
}

type transportBlock struct {
	Fixed       *float64       `hcl:"fixed,optional" validate:"omitempty,gte=0"`
	PerVehicles []vehicleBlock `hcl:"per_vehicle,block" validate:"dive"`
}

type vehicleBlock struct {
	Capacity int64   `hcl:"capacity" validate:"gt=0"`
	Cost     float64 `hcl:"cost" validate:"gte=0"`
}

var validate = validator.New()

// LoadDeals parses and validates a deal file. Deals without their own
// exchange_rate use defaultRate.
func LoadDeals(path string, defaultRate decimal.Decimal) ([]*types.Deal, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing("failed to read deal file", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, errors.Parsing("failed to parse deal file", diags)
	}

	var parsed dealFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, errors.Parsing("failed to decode deal file", diags)
	}
	if len(parsed.Deals) == 0 {
		return nil, errors.Parsing("deal file declares no deal blocks", nil)
	}

	deals := make([]*types.Deal, 0, len(parsed.Deals))
	for _, block := range parsed.Deals {
		if err := validate.Struct(block); err != nil {
			return nil, errors.Parsing("invalid deal "+block.Name, err)
		}
		deal, err := block.toDeal(defaultRate)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// LoadDeal parses a deal file expected to declare exactly one deal
func LoadDeal(path string, defaultRate decimal.Decimal) (*types.Deal, error) {
	deals, err := LoadDeals(path, defaultRate)
	if err != nil {
		return nil, err
	}
	if len(deals) != 1 {
		return nil, errors.Parsing("deal file must declare exactly one deal block", nil)
	}
	return deals[0], nil
}

func (b *dealBlock) toDeal(defaultRate decimal.Decimal) (*types.Deal, error) {
	unitPrice, err := b.UnitPrice.toSchedule(b.Name)
	if err != nil {
		return nil, err
	}
	margin, err := b.Margin.toSource(b.Name)
	if err != nil {
		return nil, err
	}

	rate := defaultRate
	if b.ExchangeRate != nil {
		rate = decimal.NewFromFloat(*b.ExchangeRate)
	}

	return &types.Deal{
		Name:         b.Name,
		Budget:       decimal.NewFromFloat(b.Budget),
		ExchangeRate: rate,
		UnitPrice:    unitPrice,
		Margin:       margin,
		Transport:    b.Transport.toSchedule(),
		Payer:        types.PayerPolicy(b.Payer),
	}, nil
}

func (s *scheduleBlock) toSchedule(deal string) (pricing.Schedule, error) {
	if s.Constant != nil && len(s.Tiers) > 0 {
		return pricing.Schedule{}, errors.Parsing(
			"deal "+deal+": unit_price sets both constant and tiers", nil)
	}
	if s.Constant != nil {
		return pricing.Fixed(decimal.NewFromFloat(*s.Constant)), nil
	}
	if len(s.Tiers) == 0 {
		return pricing.Schedule{}, errors.Parsing(
			"deal "+deal+": unit_price needs a constant or at least one tier", nil)
	}

	tiers := make([]pricing.Tier, 0, len(s.Tiers))
	prev := int64(0)
	for i, t := range s.Tiers {
		unlimited := t.UpTo == 0
		if unlimited && i != len(s.Tiers)-1 {
			return pricing.Schedule{}, errors.Parsing(
				"deal "+deal+": unlimited tier must come last", nil)
		}
		if !unlimited && t.UpTo <= prev {
			return pricing.Schedule{}, errors.Parsing(
				"deal "+deal+": tier limits must be strictly ascending", nil)
		}
		prev = t.UpTo
		tiers = append(tiers, pricing.Tier{UpTo: t.UpTo, Rate: decimal.NewFromFloat(t.Rate)})
	}
	// The solver probes unbounded quantities, so a tier table must cover
	// them all; pricing.Tiered panics past a bounded final tier.
	if s.Tiers[len(s.Tiers)-1].UpTo != 0 {
		return pricing.Schedule{}, errors.Parsing(
			"deal "+deal+": last tier must be unlimited (omit up_to)", nil)
	}
	return pricing.Tiered(tiers...), nil
}

func (m *marginBlock) toSource(deal string) (pricing.MarginSource, error) {
	switch {
	case m.Fraction != nil && m.ClientPrice != nil:
		return pricing.MarginSource{}, errors.Parsing(
			"deal "+deal+": margin sets both fraction and client_price", nil)
	case m.Fraction != nil:
		return pricing.FixedMargin(decimal.NewFromFloat(*m.Fraction)), nil
	case m.ClientPrice != nil:
		return pricing.FromClientPrice(decimal.NewFromFloat(*m.ClientPrice)), nil
	default:
		return pricing.MarginSource{}, errors.Parsing(
			"deal "+deal+": margin needs a fraction or a client_price", nil)
	}
}

func (t *transportBlock) toSchedule() pricing.Schedule {
	if t == nil {
		return pricing.Zero()
	}
	components := make([]pricing.Schedule, 0, len(t.PerVehicles)+1)
	for _, v := range t.PerVehicles {
		components = append(components, pricing.PerVehicle(v.Capacity, decimal.NewFromFloat(v.Cost)))
	}
	if t.Fixed != nil {
		components = append(components, pricing.Fixed(decimal.NewFromFloat(*t.Fixed)))
	}
	switch len(components) {
	case 0:
		return pricing.Zero()
	case 1:
		return components[0]
	default:
		return pricing.Sum(components...)
	}
}
