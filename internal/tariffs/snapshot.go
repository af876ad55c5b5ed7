package tariff

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/internal/pricing"
	"github.com/printhuis/quoteportal-backend/pkg/db/models"
	"github.com/printhuis/quoteportal-backend/pkg/enums"
	pkgerrors "github.com/printhuis/quoteportal-backend/pkg/errors"
)

// ConfigFromModel converts the stored settings row into the engine's config.
func ConfigFromModel(settings models.PricingSettings) pricing.Config {
	return pricing.Config{
		TextileDiscountPercent:          settings.TextileDiscountPercent,
		ClientProvidedIndexationPercent: settings.ClientProvidedIndexationPercent,
		ExpressSurchargePercentPerDay:   settings.ExpressSurchargePercentPerDay,
		IndividualPackagingUnitPrice:    settings.IndividualPackagingUnitPrice,
		NewCartonUnitPrice:              settings.NewCartonUnitPrice,
		VectorizationUnitPrice:          settings.VectorizationUnitPrice,
	}
}

// TableFromModel converts a stored tariff row into the engine's lookup table.
func TableFromModel(row models.ServiceTariff) *pricing.ServiceTable {
	prices := make(map[pricing.TableKey]decimal.Decimal, len(row.PriceCells))
	for _, cell := range row.PriceCells {
		prices[pricing.TableKey{RangeLabel: cell.RangeLabel, Dimension: cell.Dimension}] = cell.UnitPrice
	}
	return &pricing.ServiceTable{
		Technique:                  row.Technique,
		Ranges:                     row.QuantityRanges,
		StitchRanges:               row.StitchRanges,
		PrintSizes:                 row.PrintSizes,
		Prices:                     prices,
		FixedFeePerColor:           row.FixedFeePerColor,
		FixedFeeSmallDigitization:  row.FixedFeeSmallDigitization,
		FixedFeeLargeDigitization:  row.FixedFeeLargeDigitization,
		SmallDigitizationThreshold: row.SmallDigitizationThreshold,
		Options:                    row.SurchargeOptions,
	}
}

// LoadSnapshot reads the settings and every tariff in one pass so a whole
// pricing request runs against a single configuration version.
func (r *Repository) LoadSnapshot(ctx context.Context) (*pricing.Snapshot, error) {
	settings, err := r.GetSettings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pricing settings")
	}
	rows, err := r.ListTariffs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service tariffs")
	}

	tables := make(map[enums.Technique]*pricing.ServiceTable, len(rows))
	for _, row := range rows {
		tables[row.Technique] = TableFromModel(row)
	}

	return &pricing.Snapshot{
		Config: ConfigFromModel(*settings),
		Tables: tables,
	}, nil
}
