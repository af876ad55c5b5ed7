package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// QuantityRange is one tiered bracket of order quantity. A nil Max means the
// bracket is unbounded above.
type QuantityRange struct {
	Min   int    `json:"min"`
	Max   *int   `json:"max,omitempty"`
	Label string `json:"label"`
}

// Contains reports whether the quantity falls inside the bracket.
func (r QuantityRange) Contains(qty int) bool {
	if qty < r.Min {
		return false
	}
	if r.Max != nil && qty > *r.Max {
		return false
	}
	return true
}

// QuantityRanges is a slice marshaled as JSONB.
type QuantityRanges []QuantityRange

// Value serializes the ranges to JSON.
func (q QuantityRanges) Value() (driver.Value, error) {
	if q == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(q)
}

// Scan decodes JSONB into the range slice.
func (q *QuantityRanges) Scan(value interface{}) error {
	if value == nil {
		*q = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded QuantityRanges
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*q = decoded
	return nil
}

// StitchRange brackets embroidery stitch counts onto a labeled tier.
type StitchRange struct {
	Min   int    `json:"min"`
	Max   *int   `json:"max,omitempty"`
	Label string `json:"label"`
}

// Contains reports whether the stitch count falls inside the bracket.
func (r StitchRange) Contains(stitches int) bool {
	if stitches < r.Min {
		return false
	}
	if r.Max != nil && stitches > *r.Max {
		return false
	}
	return true
}

// StitchRanges is a slice marshaled as JSONB.
type StitchRanges []StitchRange

// Value serializes the ranges to JSON.
func (s StitchRanges) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan decodes JSONB into the range slice.
func (s *StitchRanges) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded StitchRanges
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// PriceCell holds one priced combination of quantity bracket and the
// technique-specific secondary dimension (color count, stitch tier label or
// print size).
type PriceCell struct {
	RangeLabel string          `json:"range_label"`
	Dimension  string          `json:"dimension"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// PriceCells is a slice marshaled as JSONB.
type PriceCells []PriceCell

// Value serializes the cells to JSON.
func (p PriceCells) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

// Scan decodes JSONB into the cell slice.
func (p *PriceCells) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded PriceCells
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*p = decoded
	return nil
}

// SurchargeOption is a named percentage surcharge selectable on screen print
// lines (special inks, oversized placements and the like).
type SurchargeOption struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percent"`
}

// SurchargeOptions is a slice marshaled as JSONB.
type SurchargeOptions []SurchargeOption

// Value serializes the options to JSON.
func (s SurchargeOptions) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan decodes JSONB into the option slice.
func (s *SurchargeOptions) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded SurchargeOptions
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
