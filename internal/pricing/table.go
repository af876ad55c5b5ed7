package pricing

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/pkg/enums"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

// TableKey is the typed composite lookup key: the quantity bracket label
// plus the technique-specific secondary dimension. Keeping it a struct
// instead of a concatenated string makes malformed keys a type error
// rather than a runtime string-matching bug.
type TableKey struct {
	RangeLabel string
	Dimension  string
}

func (k TableKey) String() string {
	return k.RangeLabel + "/" + k.Dimension
}

// ServiceTable is one technique's tiered price matrix snapshot: quantity
// brackets, the secondary-dimension domain, the sparse price cells, fixed
// fees and optional named surcharges.
type ServiceTable struct {
	Technique enums.Technique

	Ranges       []types.QuantityRange
	StitchRanges []types.StitchRange
	PrintSizes   []string

	Prices map[TableKey]decimal.Decimal

	FixedFeePerColor           decimal.Decimal
	FixedFeeSmallDigitization  decimal.Decimal
	FixedFeeLargeDigitization  decimal.Decimal
	SmallDigitizationThreshold int

	Options []types.SurchargeOption
}

// MinQuantity returns the lowest quantity any bracket covers.
func (t *ServiceTable) MinQuantity() int {
	min := 0
	for i, r := range t.Ranges {
		if i == 0 || r.Min < min {
			min = r.Min
		}
	}
	return min
}

// OptionByID resolves a named surcharge option.
func (t *ServiceTable) OptionByID(id string) (types.SurchargeOption, bool) {
	for _, opt := range t.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return types.SurchargeOption{}, false
}

// LookupUnitPrice resolves the per-unit price for the quantity and the
// secondary dimension extracted from the technique options. A combination
// absent from the table fails with PriceNotConfigured; it never defaults
// to 0, because 0 is a valid price and a silent default would under-quote.
func (t *ServiceTable) LookupUnitPrice(itemID uuid.UUID, quantity int, opts TechniqueOptions) (decimal.Decimal, error) {
	rangeLabel, ok := t.rangeFor(quantity)
	if !ok {
		return decimal.Zero, newError(KindNoMatchingQuantityRange, itemID, fmt.Sprintf("%s qty=%d", t.Technique, quantity))
	}

	dimension, err := t.secondaryDimension(itemID, opts)
	if err != nil {
		return decimal.Zero, err
	}

	key := TableKey{RangeLabel: rangeLabel, Dimension: dimension}
	price, ok := t.Prices[key]
	if !ok {
		return decimal.Zero, newError(KindPriceNotConfigured, itemID, fmt.Sprintf("%s %s", t.Technique, key))
	}
	return price, nil
}

func (t *ServiceTable) rangeFor(quantity int) (string, bool) {
	for _, r := range t.Ranges {
		if r.Contains(quantity) {
			return r.Label, true
		}
	}
	return "", false
}

// secondaryDimension maps the options union onto the table's second axis:
// color count for screen print, the covering stitch bracket for embroidery,
// the exact print size string for direct-to-film.
func (t *ServiceTable) secondaryDimension(itemID uuid.UUID, opts TechniqueOptions) (string, error) {
	switch o := opts.(type) {
	case ScreenPrintOptions:
		if o.ColorCount < 1 {
			return "", newError(KindUnknownDimension, itemID, fmt.Sprintf("color count %d", o.ColorCount))
		}
		return strconv.Itoa(o.ColorCount), nil
	case EmbroideryOptions:
		for _, r := range t.StitchRanges {
			if r.Contains(o.StitchCount) {
				return r.Label, nil
			}
		}
		return "", newError(KindUnknownDimension, itemID, fmt.Sprintf("stitch count %d", o.StitchCount))
	case DirectToFilmOptions:
		for _, size := range t.PrintSizes {
			if size == o.PrintSize {
				return size, nil
			}
		}
		return "", newError(KindUnknownDimension, itemID, fmt.Sprintf("print size %q", o.PrintSize))
	default:
		return "", newError(KindUnknownDimension, itemID, fmt.Sprintf("unsupported options %T", opts))
	}
}

// FixedFees computes the one-time per-line charge for the options:
// per-color setup for screen print, the digitization fee bracketed by
// stitch count for embroidery, nothing for direct-to-film. Fixed fees are
// independent of quantity.
func (t *ServiceTable) FixedFees(opts TechniqueOptions) decimal.Decimal {
	switch o := opts.(type) {
	case ScreenPrintOptions:
		return t.FixedFeePerColor.Mul(decimal.NewFromInt(int64(o.ColorCount)))
	case EmbroideryOptions:
		if o.StitchCount <= t.SmallDigitizationThreshold {
			return t.FixedFeeSmallDigitization
		}
		return t.FixedFeeLargeDigitization
	default:
		return decimal.Zero
	}
}

// ValidateCoverage checks the bracket invariant: every integer quantity
// from the table minimum up to the bound matches exactly one bracket.
func (t *ServiceTable) ValidateCoverage(upTo int) error {
	if len(t.Ranges) == 0 {
		return fmt.Errorf("%s: no quantity ranges configured", t.Technique)
	}
	for qty := t.MinQuantity(); qty <= upTo; qty++ {
		matches := 0
		for _, r := range t.Ranges {
			if r.Contains(qty) {
				matches++
			}
		}
		if matches != 1 {
			return fmt.Errorf("%s: quantity %d matched by %d ranges, want exactly 1", t.Technique, qty, matches)
		}
	}
	last := t.Ranges[len(t.Ranges)-1]
	unbounded := false
	for _, r := range t.Ranges {
		if r.Max == nil {
			unbounded = true
		}
	}
	if !unbounded {
		return fmt.Errorf("%s: no open-ended range (last configured: %q)", t.Technique, last.Label)
	}
	return nil
}
