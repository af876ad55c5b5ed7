package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/pkg/enums"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

// ServiceTariff holds one technique's tiered price matrix plus its fixed
// fees and optional named surcharges. Exactly one row exists per technique.
type ServiceTariff struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Technique enums.Technique `gorm:"column:technique;type:technique_enum;not null;uniqueIndex"`

	QuantityRanges types.QuantityRanges `gorm:"column:quantity_ranges;type:jsonb;not null"`
	StitchRanges   types.StitchRanges   `gorm:"column:stitch_ranges;type:jsonb"`
	PrintSizes     pq.StringArray       `gorm:"column:print_sizes;type:text[];default:ARRAY[]::text[]"`
	PriceCells     types.PriceCells     `gorm:"column:price_cells;type:jsonb;not null"`

	FixedFeePerColor           decimal.Decimal `gorm:"column:fixed_fee_per_color;type:numeric(12,2);not null;default:0"`
	FixedFeeSmallDigitization  decimal.Decimal `gorm:"column:fixed_fee_small_digitization;type:numeric(12,2);not null;default:0"`
	FixedFeeLargeDigitization  decimal.Decimal `gorm:"column:fixed_fee_large_digitization;type:numeric(12,2);not null;default:0"`
	SmallDigitizationThreshold int             `gorm:"column:small_digitization_threshold;not null;default:0"`

	SurchargeOptions types.SurchargeOptions `gorm:"column:surcharge_options;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
