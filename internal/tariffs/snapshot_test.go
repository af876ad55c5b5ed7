package tariff

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/internal/pricing"
	"github.com/printhuis/quoteportal-backend/pkg/db/models"
	"github.com/printhuis/quoteportal-backend/pkg/enums"
	pkgerrors "github.com/printhuis/quoteportal-backend/pkg/errors"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConfigFromModel(t *testing.T) {
	t.Parallel()

	cfg := ConfigFromModel(models.PricingSettings{
		TextileDiscountPercent:          dec("5"),
		ClientProvidedIndexationPercent: dec("15"),
		ExpressSurchargePercentPerDay:   dec("10"),
		IndividualPackagingUnitPrice:    dec("0.10"),
		NewCartonUnitPrice:              dec("2.50"),
		VectorizationUnitPrice:          dec("30"),
	})
	if !cfg.TextileDiscountPercent.Equal(dec("5")) {
		t.Fatalf("discount = %s, want 5", cfg.TextileDiscountPercent)
	}
	if !cfg.VectorizationUnitPrice.Equal(dec("30")) {
		t.Fatalf("vectorization = %s, want 30", cfg.VectorizationUnitPrice)
	}
}

func TestTableFromModel(t *testing.T) {
	t.Parallel()

	ten := 10
	table := TableFromModel(models.ServiceTariff{
		Technique: enums.TechniqueScreenPrint,
		QuantityRanges: types.QuantityRanges{
			{Min: 1, Max: &ten, Label: "1-10"},
			{Min: 11, Label: "11+"},
		},
		PriceCells: types.PriceCells{
			{RangeLabel: "1-10", Dimension: "2", UnitPrice: dec("8.00")},
			{RangeLabel: "11+", Dimension: "2", UnitPrice: dec("3.20")},
		},
		FixedFeePerColor: dec("25"),
	})

	if table.Technique != enums.TechniqueScreenPrint {
		t.Fatalf("technique = %s", table.Technique)
	}
	price, ok := table.Prices[pricing.TableKey{RangeLabel: "11+", Dimension: "2"}]
	if !ok {
		t.Fatal("missing price cell after conversion")
	}
	if !price.Equal(dec("3.20")) {
		t.Fatalf("price = %s, want 3.20", price)
	}
	if err := table.ValidateCoverage(1000); err != nil {
		t.Fatalf("converted table should cover all quantities: %v", err)
	}
}

func TestValidateTariff(t *testing.T) {
	t.Parallel()

	ten := 10
	valid := TariffInput{
		Technique: enums.TechniqueScreenPrint,
		QuantityRanges: []types.QuantityRange{
			{Min: 1, Max: &ten, Label: "1-10"},
			{Min: 11, Label: "11+"},
		},
		PriceCells: []types.PriceCell{
			{RangeLabel: "1-10", Dimension: "1", UnitPrice: dec("6.50")},
		},
	}
	if err := validateTariff(valid); err != nil {
		t.Fatalf("valid tariff rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*TariffInput)
	}{
		{"unknown technique", func(in *TariffInput) { in.Technique = "laser" }},
		{"no ranges", func(in *TariffInput) { in.QuantityRanges = nil }},
		{"no cells", func(in *TariffInput) { in.PriceCells = nil }},
		{"negative price", func(in *TariffInput) {
			in.PriceCells = []types.PriceCell{{RangeLabel: "1-10", Dimension: "1", UnitPrice: dec("-1")}}
		}},
		{"gap between ranges", func(in *TariffInput) {
			twelve := 12
			in.QuantityRanges = []types.QuantityRange{
				{Min: 1, Max: &ten, Label: "1-10"},
				{Min: 12, Max: &twelve, Label: "12"},
				{Min: 13, Label: "13+"},
			}
		}},
		{"embroidery without stitch ranges", func(in *TariffInput) { in.Technique = enums.TechniqueEmbroidery }},
		{"dtf without print sizes", func(in *TariffInput) { in.Technique = enums.TechniqueDirectToFilm }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			input := valid
			tc.mutate(&input)
			err := validateTariff(input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	valid := SettingsInput{
		TextileDiscountPercent:          dec("5"),
		ClientProvidedIndexationPercent: dec("15"),
		ExpressSurchargePercentPerDay:   dec("10"),
		IndividualPackagingUnitPrice:    dec("0.10"),
		NewCartonUnitPrice:              dec("2.50"),
		VectorizationUnitPrice:          dec("30"),
	}
	if err := validateSettings(valid); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}

	over := valid
	over.TextileDiscountPercent = dec("101")
	if err := validateSettings(over); err == nil {
		t.Fatal("expected error for percent above 100")
	}

	negative := valid
	negative.NewCartonUnitPrice = dec("-2.50")
	if err := validateSettings(negative); err == nil {
		t.Fatal("expected error for negative price")
	}
}
