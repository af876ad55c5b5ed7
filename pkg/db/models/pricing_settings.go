package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingSettings is the admin-edited singleton of global pricing factors.
// A single row exists; updates overwrite it in place (last saved wins).
type PricingSettings struct {
	ID                              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TextileDiscountPercent          decimal.Decimal `gorm:"column:textile_discount_percent;type:numeric(5,2);not null"`
	ClientProvidedIndexationPercent decimal.Decimal `gorm:"column:client_provided_indexation_percent;type:numeric(5,2);not null"`
	ExpressSurchargePercentPerDay   decimal.Decimal `gorm:"column:express_surcharge_percent_per_day;type:numeric(5,2);not null"`
	IndividualPackagingUnitPrice    decimal.Decimal `gorm:"column:individual_packaging_unit_price;type:numeric(12,2);not null"`
	NewCartonUnitPrice              decimal.Decimal `gorm:"column:new_carton_unit_price;type:numeric(12,2);not null"`
	VectorizationUnitPrice          decimal.Decimal `gorm:"column:vectorization_unit_price;type:numeric(12,2);not null"`
	CreatedAt                       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (PricingSettings) TableName() string {
	return "pricing_settings"
}
