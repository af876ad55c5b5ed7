package pricing

import "github.com/shopspring/decimal"

// Config is the snapshot of global pricing factors taken once per pricing
// request. Percentages are 0-100 values; money values are non-negative.
// The engine never reads ambient state: a quote is always priced under the
// single config version captured here.
type Config struct {
	TextileDiscountPercent          decimal.Decimal
	ClientProvidedIndexationPercent decimal.Decimal
	ExpressSurchargePercentPerDay   decimal.Decimal
	IndividualPackagingUnitPrice    decimal.Decimal
	NewCartonUnitPrice              decimal.Decimal
	VectorizationUnitPrice          decimal.Decimal
}
