package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/pkg/enums"
)

// QuoteSubmittedItem is one priced line forwarded to the ERP. It carries the
// internal indexation value that never appears in the client-facing response.
type QuoteSubmittedItem struct {
	ItemID            uuid.UUID       `json:"item_id"`
	ProductRef        string          `json:"product_ref"`
	Technique         enums.Technique `json:"technique"`
	Quantity          int             `json:"quantity"`
	ClientProvided    bool            `json:"client_provided"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	IndexationPerUnit decimal.Decimal `json:"indexation_per_unit"`
	FixedFees         decimal.Decimal `json:"fixed_fees"`
	ExpressSurcharge  decimal.Decimal `json:"express_surcharge"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// QuoteSubmittedEvent is emitted when a client turns a draft into an order
// request. Downstream ERP consumers use it to open a production order.
type QuoteSubmittedEvent struct {
	QuoteID               uuid.UUID            `json:"quote_id"`
	ClientRef             string               `json:"client_ref"`
	DelayType             enums.DelayType      `json:"delay_type"`
	DeliveryMode          enums.DeliveryMode   `json:"delivery_mode"`
	ServicesTotal         decimal.Decimal      `json:"services_total"`
	ShippingCost          decimal.Decimal      `json:"shipping_cost"`
	ExpressSurchargeTotal decimal.Decimal      `json:"express_surcharge_total"`
	GrandTotal            decimal.Decimal      `json:"grand_total"`
	IndicationDate        time.Time            `json:"indication_date"`
	DeliveryDate          time.Time            `json:"delivery_date"`
	SubmittedAt           time.Time            `json:"submitted_at"`
	Items                 []QuoteSubmittedItem `json:"items"`
}

// PricingConfigChangedEvent signals that the global pricing factors were
// edited; already-priced drafts keep their totals, new requests see the new
// snapshot.
type PricingConfigChangedEvent struct {
	SettingsID                      uuid.UUID       `json:"settings_id"`
	TextileDiscountPercent          decimal.Decimal `json:"textile_discount_percent"`
	ClientProvidedIndexationPercent decimal.Decimal `json:"client_provided_indexation_percent"`
	ExpressSurchargePercentPerDay   decimal.Decimal `json:"express_surcharge_percent_per_day"`
	IndividualPackagingUnitPrice    decimal.Decimal `json:"individual_packaging_unit_price"`
	NewCartonUnitPrice              decimal.Decimal `json:"new_carton_unit_price"`
	VectorizationUnitPrice          decimal.Decimal `json:"vectorization_unit_price"`
}

// ServiceTariffChangedEvent signals that a technique's tariff grid was
// replaced.
type ServiceTariffChangedEvent struct {
	TariffID  uuid.UUID       `json:"tariff_id"`
	Technique enums.Technique `json:"technique"`
}
