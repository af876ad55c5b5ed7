package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// SizeQuantity is one cell of the color/size quantity grid.
type SizeQuantity struct {
	Color    string
	Size     string
	Quantity int
}

// LineItem is one decorated product in the cart.
type LineItem struct {
	ID                 uuid.UUID
	ProductRef         string
	ClientProvided     bool
	NeedsVectorization bool
	Quantities         []SizeQuantity
	TotalQuantity      int
	Options            TechniqueOptions
	SelectedOptionIDs  []string
}

// validate enforces the quantity invariant: a priced line needs a positive
// total, and when a size grid is present its sum must agree with the total.
func (i LineItem) validate() error {
	if i.TotalQuantity < 1 {
		return newError(KindInvalidQuantity, i.ID, fmt.Sprintf("total quantity %d", i.TotalQuantity))
	}
	if len(i.Quantities) == 0 {
		return nil
	}
	sum := 0
	for _, q := range i.Quantities {
		if q.Quantity < 0 {
			return newError(KindInvalidQuantity, i.ID, fmt.Sprintf("negative grid quantity %d", q.Quantity))
		}
		sum += q.Quantity
	}
	if sum != i.TotalQuantity {
		return newError(KindInvalidQuantity, i.ID, fmt.Sprintf("grid sum %d != total %d", sum, i.TotalQuantity))
	}
	return nil
}

// PriceDetail is the itemized breakdown for one line item. It is a derived
// value with no storage identity: the same inputs always produce the same
// detail. Monetary fields stay unrounded through the pipeline; Rounded
// produces the display form.
type PriceDetail struct {
	// UnitPrice is the client-visible per-unit price after the textile
	// discount, or zero for client-provided goods.
	UnitPrice decimal.Decimal
	// IndexationPerUnit is the internal-only surcharge recorded for
	// client-provided goods. It is forwarded to the ERP and never shown to
	// the client; it is zero otherwise.
	IndexationPerUnit decimal.Decimal
	Quantity          int
	// FixedFees is charged once per line, independent of quantity.
	FixedFees decimal.Decimal
	// OptionsSurchargePerUnit is the summed named-option surcharge per unit.
	OptionsSurchargePerUnit decimal.Decimal
	// ExpressSurcharge is the absolute express amount for the whole line.
	ExpressSurcharge decimal.Decimal
	Total            decimal.Decimal
}

// Rounded returns the detail with money fields rounded to 2 decimals.
func (d PriceDetail) Rounded() PriceDetail {
	d.UnitPrice = d.UnitPrice.Round(2)
	d.IndexationPerUnit = d.IndexationPerUnit.Round(2)
	d.FixedFees = d.FixedFees.Round(2)
	d.OptionsSurchargePerUnit = d.OptionsSurchargePerUnit.Round(2)
	d.ExpressSurcharge = d.ExpressSurcharge.Round(2)
	d.Total = d.Total.Round(2)
	return d
}

// PriceLineItem prices one line against the config and tariff snapshot.
// The stages run in a fixed order because each one feeds the next:
//
//  1. tariff lookup on raw quantity and the technique's secondary dimension
//  2. client-provided duality: visible price drops to zero, the indexation
//     surcharge is recorded internally for the ERP
//  3. textile discount (mutually exclusive with indexation)
//  4. fixed fees, once per line
//  5. named option surcharges, per unit
//  6. express surcharge on (unit + options) x quantity; the percentage is a
//     quote-level decision applied uniformly to every line
//  7. line total
//
// Any failure aborts this line's pricing with a structured error; the
// engine never substitutes a guessed price.
func PriceLineItem(item LineItem, cfg Config, table *ServiceTable, expressPercent decimal.Decimal) (PriceDetail, error) {
	if err := item.validate(); err != nil {
		return PriceDetail{}, err
	}

	basePrice, err := table.LookupUnitPrice(item.ID, item.TotalQuantity, item.Options)
	if err != nil {
		return PriceDetail{}, err
	}

	unitPrice := basePrice
	indexationPerUnit := decimal.Zero
	if item.ClientProvided {
		unitPrice = decimal.Zero
		indexationPerUnit = basePrice.Mul(cfg.ClientProvidedIndexationPercent).Div(oneHundred)
	} else {
		discount := oneHundred.Sub(cfg.TextileDiscountPercent).Div(oneHundred)
		unitPrice = unitPrice.Mul(discount)
	}

	fixedFees := table.FixedFees(item.Options)

	optionsPerUnit := decimal.Zero
	for _, optionID := range item.SelectedOptionIDs {
		opt, ok := table.OptionByID(optionID)
		if !ok {
			return PriceDetail{}, newError(KindUnknownDimension, item.ID, fmt.Sprintf("option %q", optionID))
		}
		optionsPerUnit = optionsPerUnit.Add(unitPrice.Mul(opt.Percent).Div(oneHundred))
	}

	quantity := decimal.NewFromInt(int64(item.TotalQuantity))
	expressSurcharge := unitPrice.Add(optionsPerUnit).
		Mul(quantity).
		Mul(expressPercent).
		Div(oneHundred)

	total := unitPrice.Mul(quantity).
		Add(fixedFees).
		Add(optionsPerUnit.Mul(quantity)).
		Add(expressSurcharge)

	return PriceDetail{
		UnitPrice:               unitPrice,
		IndexationPerUnit:       indexationPerUnit,
		Quantity:                item.TotalQuantity,
		FixedFees:               fixedFees,
		OptionsSurchargePerUnit: optionsPerUnit,
		ExpressSurcharge:        expressSurcharge,
		Total:                   total,
	}, nil
}
