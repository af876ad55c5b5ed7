package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/pkg/enums"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

// QuoteRecord is a priced cart persisted as a draft, with the itemized
// totals frozen at pricing time.
type QuoteRecord struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientRef string            `gorm:"column:client_ref;not null"`
	Status    enums.QuoteStatus `gorm:"column:status;type:quote_status;not null;default:draft"`

	DelayType   enums.DelayType `gorm:"column:delay_type;type:delay_type;not null"`
	WorkingDays int             `gorm:"column:working_days;not null"`
	ExpressDays decimal.Decimal `gorm:"column:express_days;type:numeric(4,2);not null;default:0"`

	DeliveryMode        enums.DeliveryMode `gorm:"column:delivery_mode;type:delivery_mode;not null"`
	DeliveryAddress     *types.Address     `gorm:"column:delivery_address;type:jsonb"`
	BillingAddress      *types.Address     `gorm:"column:billing_address;type:jsonb"`
	IndividualPackaging bool               `gorm:"column:individual_packaging;not null;default:false"`
	NewCarton           bool               `gorm:"column:new_carton;not null;default:false"`
	CartonCount         int                `gorm:"column:carton_count;not null;default:0"`

	ServicesTotal         decimal.Decimal `gorm:"column:services_total;type:numeric(12,2);not null"`
	ShippingCost          decimal.Decimal `gorm:"column:shipping_cost;type:numeric(12,2);not null"`
	PackagingCost         decimal.Decimal `gorm:"column:packaging_cost;type:numeric(12,2);not null"`
	CartonCost            decimal.Decimal `gorm:"column:carton_cost;type:numeric(12,2);not null"`
	VectorizationCost     decimal.Decimal `gorm:"column:vectorization_cost;type:numeric(12,2);not null"`
	ExpressSurchargeTotal decimal.Decimal `gorm:"column:express_surcharge_total;type:numeric(12,2);not null"`
	GrandTotal            decimal.Decimal `gorm:"column:grand_total;type:numeric(12,2);not null"`

	IndicationDate time.Time `gorm:"column:indication_date;type:date;not null"`
	DeliveryDate   time.Time `gorm:"column:delivery_date;type:date;not null"`

	Items []QuoteItemRecord `gorm:"foreignKey:QuoteID"`

	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	SubmittedAt *time.Time `gorm:"column:submitted_at"`
}

// TableName overrides the default pluralization.
func (QuoteRecord) TableName() string {
	return "quotes"
}

// QuoteItemRecord is one decorated-product line frozen at pricing time.
// IndexationPerUnit carries the internal-only surcharge for client-provided
// goods; it is forwarded to the ERP and never shown to the client.
type QuoteItemRecord struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID uuid.UUID `gorm:"column:quote_id;type:uuid;not null;index"`

	Position           int             `gorm:"column:position;not null"`
	ProductRef         string          `gorm:"column:product_ref;not null"`
	Technique          enums.Technique `gorm:"column:technique;type:technique_enum;not null"`
	TechniqueOptions   json.RawMessage `gorm:"column:technique_options;type:jsonb;not null"`
	SelectedOptionIDs  json.RawMessage `gorm:"column:selected_option_ids;type:jsonb"`
	ClientProvided     bool            `gorm:"column:client_provided;not null;default:false"`
	NeedsVectorization bool            `gorm:"column:needs_vectorization;not null;default:false"`
	TotalQuantity      int             `gorm:"column:total_quantity;not null"`

	UnitPrice               decimal.Decimal `gorm:"column:unit_price;type:numeric(12,4);not null"`
	IndexationPerUnit       decimal.Decimal `gorm:"column:indexation_per_unit;type:numeric(12,4);not null;default:0"`
	FixedFees               decimal.Decimal `gorm:"column:fixed_fees;type:numeric(12,2);not null"`
	OptionsSurchargePerUnit decimal.Decimal `gorm:"column:options_surcharge_per_unit;type:numeric(12,4);not null;default:0"`
	ExpressSurcharge        decimal.Decimal `gorm:"column:express_surcharge;type:numeric(12,2);not null;default:0"`
	LineTotal               decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (QuoteItemRecord) TableName() string {
	return "quote_items"
}
