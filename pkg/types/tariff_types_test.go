package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func TestQuantityRangeContains(t *testing.T) {
	t.Parallel()

	bounded := QuantityRange{Min: 11, Max: intPtr(100), Label: "11-100"}
	if !bounded.Contains(11) || !bounded.Contains(100) {
		t.Fatal("bounds must be inclusive")
	}
	if bounded.Contains(10) || bounded.Contains(101) {
		t.Fatal("values outside the bracket must not match")
	}

	open := QuantityRange{Min: 101, Label: "101+"}
	if !open.Contains(100000) {
		t.Fatal("open-ended bracket must match any quantity above min")
	}
}

func TestPriceCellsRoundTrip(t *testing.T) {
	t.Parallel()

	cells := PriceCells{
		{RangeLabel: "11-100", Dimension: "2", UnitPrice: decimal.RequireFromString("3.20")},
	}

	raw, err := cells.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var decoded PriceCells
	if err := decoded.Scan(raw); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("decoded %d cells, want 1", len(decoded))
	}
	if !decoded[0].UnitPrice.Equal(cells[0].UnitPrice) {
		t.Fatalf("unit price %s, want %s", decoded[0].UnitPrice, cells[0].UnitPrice)
	}
}

func TestAddressNormalized(t *testing.T) {
	t.Parallel()

	a := Address{Line1: "Grote  Markt 1", City: "Haarlem", PostalCode: "2011RD", Country: "NL"}
	b := Address{Line1: "grote markt 1", City: "haarlem", PostalCode: "2011rd", Country: "nl"}
	if a.Normalized() != b.Normalized() {
		t.Fatalf("normalization should collapse case and whitespace: %q vs %q", a.Normalized(), b.Normalized())
	}
}
