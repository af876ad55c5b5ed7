package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/pkg/enums"
)

func testConfig() Config {
	return Config{
		TextileDiscountPercent:          decimal.Zero,
		ClientProvidedIndexationPercent: dec("15"),
		ExpressSurchargePercentPerDay:   dec("10"),
		IndividualPackagingUnitPrice:    dec("0.10"),
		NewCartonUnitPrice:              dec("2.50"),
		VectorizationUnitPrice:          dec("30"),
	}
}

func TestPriceLineItemScreenPrint(t *testing.T) {
	t.Parallel()

	item := LineItem{
		ID:            uuid.New(),
		ProductRef:    "TS-100",
		TotalQuantity: 50,
		Options:       ScreenPrintOptions{TextileType: enums.TextileTypeLight, ColorCount: 2, PrintSize: "A4", LocationCount: 1},
	}

	detail, err := PriceLineItem(item, testConfig(), screenPrintTable(), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !detail.UnitPrice.Equal(dec("3.20")) {
		t.Fatalf("unit price = %s, want 3.20", detail.UnitPrice)
	}
	if !detail.FixedFees.Equal(dec("50")) {
		t.Fatalf("fixed fees = %s, want 50 (2 colors x 25)", detail.FixedFees)
	}
	// 50 x 3.20 + 50 = 210
	if !detail.Total.Equal(dec("210")) {
		t.Fatalf("total = %s, want 210", detail.Total)
	}
}

func TestPriceLineItemEmbroideryDigitization(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	table := embroideryTable()

	small := LineItem{ID: uuid.New(), TotalQuantity: 200, Options: EmbroideryOptions{StitchCount: 8000, LocationCount: 1}}
	detail, err := PriceLineItem(small, cfg, table, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !detail.FixedFees.Equal(dec("35")) {
		t.Fatalf("small digitization fee = %s, want 35", detail.FixedFees)
	}
	// 200 x 2.90 + 35 = 615
	if !detail.Total.Equal(dec("615")) {
		t.Fatalf("total = %s, want 615", detail.Total)
	}

	large := LineItem{ID: uuid.New(), TotalQuantity: 200, Options: EmbroideryOptions{StitchCount: 12000, LocationCount: 1}}
	detail, err = PriceLineItem(large, cfg, table, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !detail.FixedFees.Equal(dec("70")) {
		t.Fatalf("large digitization fee = %s, want 70", detail.FixedFees)
	}
	// 200 x 4.20 + 70 = 910
	if !detail.Total.Equal(dec("910")) {
		t.Fatalf("total = %s, want 910", detail.Total)
	}
}

func TestPriceLineItemTextileDiscount(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.TextileDiscountPercent = dec("10")

	item := LineItem{
		ID:            uuid.New(),
		TotalQuantity: 5,
		Options:       ScreenPrintOptions{TextileType: enums.TextileTypeDark, ColorCount: 1, PrintSize: "A4", LocationCount: 1},
	}
	detail, err := PriceLineItem(item, cfg, screenPrintTable(), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 6.50 less 10% = 5.85
	if !detail.UnitPrice.Equal(dec("5.85")) {
		t.Fatalf("discounted unit price = %s, want 5.85", detail.UnitPrice)
	}
	if !detail.IndexationPerUnit.IsZero() {
		t.Fatalf("indexation must be zero for house textile, got %s", detail.IndexationPerUnit)
	}
}

func TestPriceLineItemClientProvidedDuality(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.TextileDiscountPercent = dec("10") // must NOT combine with indexation

	item := LineItem{
		ID:             uuid.New(),
		ClientProvided: true,
		TotalQuantity:  50,
		Options:        ScreenPrintOptions{TextileType: enums.TextileTypeLight, ColorCount: 2, PrintSize: "A4", LocationCount: 1},
	}
	detail, err := PriceLineItem(item, cfg, screenPrintTable(), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !detail.UnitPrice.IsZero() {
		t.Fatalf("client-visible unit price = %s, want 0", detail.UnitPrice)
	}
	// 3.20 x 15% = 0.48, internal only
	if !detail.IndexationPerUnit.Equal(dec("0.48")) {
		t.Fatalf("indexation per unit = %s, want 0.48", detail.IndexationPerUnit)
	}
	// Fixed fees still apply: the service work is real even on free goods.
	if !detail.Total.Equal(dec("50")) {
		t.Fatalf("total = %s, want 50 (fixed fees only)", detail.Total)
	}
}

func TestPriceLineItemOptionSurcharges(t *testing.T) {
	t.Parallel()

	item := LineItem{
		ID:                uuid.New(),
		TotalQuantity:     50,
		Options:           ScreenPrintOptions{TextileType: enums.TextileTypeLight, ColorCount: 2, PrintSize: "A4", LocationCount: 1},
		SelectedOptionIDs: []string{"fluor", "oversize"},
	}
	detail, err := PriceLineItem(item, testConfig(), screenPrintTable(), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3.20 x (10% + 25%) = 1.12 per unit
	if !detail.OptionsSurchargePerUnit.Equal(dec("1.12")) {
		t.Fatalf("options per unit = %s, want 1.12", detail.OptionsSurchargePerUnit)
	}
	// 50 x 3.20 + 50 + 50 x 1.12 = 266
	if !detail.Total.Equal(dec("266")) {
		t.Fatalf("total = %s, want 266", detail.Total)
	}
}

func TestPriceLineItemUnknownOptionFails(t *testing.T) {
	t.Parallel()

	item := LineItem{
		ID:                uuid.New(),
		TotalQuantity:     50,
		Options:           ScreenPrintOptions{TextileType: enums.TextileTypeLight, ColorCount: 2, PrintSize: "A4", LocationCount: 1},
		SelectedOptionIDs: []string{"glitter"},
	}
	_, err := PriceLineItem(item, testConfig(), screenPrintTable(), decimal.Zero)
	if err == nil {
		t.Fatal("expected error for unknown option id")
	}
	if typed := AsError(err); typed == nil || typed.Kind != KindUnknownDimension {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPriceLineItemExpressSurcharge(t *testing.T) {
	t.Parallel()

	item := LineItem{
		ID:                uuid.New(),
		TotalQuantity:     50,
		Options:           ScreenPrintOptions{TextileType: enums.TextileTypeLight, ColorCount: 2, PrintSize: "A4", LocationCount: 1},
		SelectedOptionIDs: []string{"fluor"},
	}
	detail, err := PriceLineItem(item, testConfig(), screenPrintTable(), dec("40"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (3.20 + 0.32) x 50 x 40% = 70.40; fixed fees stay outside the base.
	if !detail.ExpressSurcharge.Equal(dec("70.40")) {
		t.Fatalf("express surcharge = %s, want 70.40", detail.ExpressSurcharge)
	}
	// 160 + 50 + 16 + 70.40 = 296.40
	if !detail.Total.Equal(dec("296.40")) {
		t.Fatalf("total = %s, want 296.40", detail.Total)
	}
}

func TestPriceLineItemQuantityInvariant(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	table := screenPrintTable()
	opts := ScreenPrintOptions{TextileType: enums.TextileTypeLight, ColorCount: 1, PrintSize: "A4", LocationCount: 1}

	cases := []struct {
		name string
		item LineItem
	}{
		{"zero total", LineItem{ID: uuid.New(), TotalQuantity: 0, Options: opts}},
		{"grid disagrees with total", LineItem{
			ID:            uuid.New(),
			TotalQuantity: 10,
			Quantities: []SizeQuantity{
				{Color: "black", Size: "M", Quantity: 4},
				{Color: "black", Size: "L", Quantity: 5},
			},
			Options: opts,
		}},
		{"negative grid cell", LineItem{
			ID:            uuid.New(),
			TotalQuantity: 2,
			Quantities: []SizeQuantity{
				{Color: "black", Size: "M", Quantity: 3},
				{Color: "black", Size: "L", Quantity: -1},
			},
			Options: opts,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := PriceLineItem(tc.item, cfg, table, decimal.Zero)
			if err == nil {
				t.Fatal("expected invalid quantity error")
			}
			if typed := AsError(err); typed == nil || typed.Kind != KindInvalidQuantity {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPriceLineItemNoIntermediateRounding(t *testing.T) {
	t.Parallel()

	table := screenPrintTable()
	table.Prices[TableKey{RangeLabel: "11-100", Dimension: "2"}] = dec("3.333")

	item := LineItem{
		ID:            uuid.New(),
		TotalQuantity: 30,
		Options:       ScreenPrintOptions{TextileType: enums.TextileTypeLight, ColorCount: 2, PrintSize: "A4", LocationCount: 1},
	}
	detail, err := PriceLineItem(item, testConfig(), table, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 30 x 3.333 + 50 = 149.99 exactly; rounding only happens in Rounded.
	if !detail.Total.Equal(dec("149.99")) {
		t.Fatalf("total = %s, want 149.99", detail.Total)
	}
	rounded := detail.Rounded()
	if !rounded.UnitPrice.Equal(dec("3.33")) {
		t.Fatalf("rounded unit price = %s, want 3.33", rounded.UnitPrice)
	}
}
