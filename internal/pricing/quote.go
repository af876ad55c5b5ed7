package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/internal/schedule"
	"github.com/printhuis/quoteportal-backend/pkg/enums"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

// Snapshot bundles the config and the per-technique tariffs read once at
// the start of a pricing request, so every line of a quote is priced under
// the same admin-edited version.
type Snapshot struct {
	Config Config
	Tables map[enums.Technique]*ServiceTable
}

// TableFor returns the tariff for a technique.
func (s Snapshot) TableFor(technique enums.Technique) (*ServiceTable, bool) {
	table, ok := s.Tables[technique]
	return table, ok
}

// Delivery captures the client's delivery choices.
type Delivery struct {
	Mode                    enums.DeliveryMode
	Address                 *types.Address
	BillingAddress          *types.Address
	BillingAddressDifferent bool
	IndividualPackaging     bool
	NewCarton               bool
}

// QuoteInput is the full cart snapshot handed to the calculator. The
// shipping cost and carton count are opaque inputs resolved by external
// collaborators before the pure computation starts.
type QuoteInput struct {
	Items        []LineItem
	Delivery     Delivery
	Delay        schedule.Delay
	ShippingCost decimal.Decimal
	CartonCount  int
}

// ItemDetail pairs a line item with its breakdown.
type ItemDetail struct {
	Item   LineItem
	Detail PriceDetail
}

// QuoteTotal is the aggregated, itemized quote price.
type QuoteTotal struct {
	ServicesTotal     decimal.Decimal
	ShippingCost      decimal.Decimal
	PackagingCost     decimal.Decimal
	CartonCost        decimal.Decimal
	VectorizationCost decimal.Decimal
	// ExpressSurchargeTotal is a rollup of the per-line express surcharges.
	// Those amounts are already inside each line total and therefore inside
	// ServicesTotal; the grand total must never add the rollup again.
	ExpressSurchargeTotal decimal.Decimal
	GrandTotal            decimal.Decimal

	ExpressSurchargePercent decimal.Decimal
	IndicationDate          time.Time
	DeliveryDate            time.Time

	ItemDetails []ItemDetail
}

// Rounded returns the total with money fields rounded to 2 decimals.
func (q QuoteTotal) Rounded() QuoteTotal {
	q.ServicesTotal = q.ServicesTotal.Round(2)
	q.ShippingCost = q.ShippingCost.Round(2)
	q.PackagingCost = q.PackagingCost.Round(2)
	q.CartonCost = q.CartonCost.Round(2)
	q.VectorizationCost = q.VectorizationCost.Round(2)
	q.ExpressSurchargeTotal = q.ExpressSurchargeTotal.Round(2)
	q.GrandTotal = q.GrandTotal.Round(2)
	details := make([]ItemDetail, len(q.ItemDetails))
	for i, d := range q.ItemDetails {
		details[i] = ItemDetail{Item: d.Item, Detail: d.Detail.Rounded()}
	}
	q.ItemDetails = details
	return q
}

// validateDelay enforces the lead-time invariants before any line is priced.
func validateDelay(delay schedule.Delay) error {
	if delay.IsExpress() {
		if delay.ExpressDays.Sign() <= 0 {
			return newError(KindInvalidDelay, uuid.Nil, fmt.Sprintf("express days %s", delay.ExpressDays))
		}
		return nil
	}
	if delay.WorkingDays < 1 {
		return newError(KindInvalidDelay, uuid.Nil, fmt.Sprintf("working days %d", delay.WorkingDays))
	}
	return nil
}

// CalculateQuoteTotal prices every line item and aggregates the quote-level
// add-ons. Quotes are all-or-nothing: any line failure aborts the whole
// computation, because a partially priced quote is worse than an explicit
// failure.
func CalculateQuoteTotal(input QuoteInput, snap Snapshot, now time.Time) (*QuoteTotal, error) {
	if err := validateDelay(input.Delay); err != nil {
		return nil, err
	}

	expressPercent := schedule.ExpressSurchargePercent(
		snap.Config.ExpressSurchargePercentPerDay,
		input.Delay.ChosenDays(),
	)

	servicesTotal := decimal.Zero
	expressTotal := decimal.Zero
	totalQuantity := 0
	vectorizationCount := 0
	details := make([]ItemDetail, 0, len(input.Items))

	for _, item := range input.Items {
		technique := enums.Technique("")
		if item.Options != nil {
			technique = item.Options.Technique()
		}
		table, ok := snap.TableFor(technique)
		if !ok {
			return nil, newError(KindUnknownDimension, item.ID, fmt.Sprintf("no tariff for technique %q", technique))
		}

		detail, err := PriceLineItem(item, snap.Config, table, expressPercent)
		if err != nil {
			return nil, err
		}

		servicesTotal = servicesTotal.Add(detail.Total)
		expressTotal = expressTotal.Add(detail.ExpressSurcharge)
		totalQuantity += item.TotalQuantity
		if item.NeedsVectorization {
			vectorizationCount++
		}
		details = append(details, ItemDetail{Item: item, Detail: detail})
	}

	shippingCost := decimal.Zero
	if input.Delivery.Mode.UsesCarrier() {
		shippingCost = input.ShippingCost
	}

	packagingCost := decimal.Zero
	if input.Delivery.IndividualPackaging {
		packagingCost = snap.Config.IndividualPackagingUnitPrice.Mul(decimal.NewFromInt(int64(totalQuantity)))
	}

	cartonCost := decimal.Zero
	if input.Delivery.NewCarton {
		cartonCost = snap.Config.NewCartonUnitPrice.Mul(decimal.NewFromInt(int64(input.CartonCount)))
	}

	vectorizationCost := snap.Config.VectorizationUnitPrice.Mul(decimal.NewFromInt(int64(vectorizationCount)))

	// ExpressSurchargeTotal is already folded into ServicesTotal through the
	// line totals; adding it here again would double-charge.
	grandTotal := servicesTotal.
		Add(shippingCost).
		Add(packagingCost).
		Add(cartonCost).
		Add(vectorizationCost)

	indication := schedule.IndicationDate(now)

	return &QuoteTotal{
		ServicesTotal:           servicesTotal,
		ShippingCost:            shippingCost,
		PackagingCost:           packagingCost,
		CartonCost:              cartonCost,
		VectorizationCost:       vectorizationCost,
		ExpressSurchargeTotal:   expressTotal,
		GrandTotal:              grandTotal,
		ExpressSurchargePercent: expressPercent,
		IndicationDate:          indication,
		DeliveryDate:            schedule.DeliveryDate(input.Delay, indication),
		ItemDetails:             details,
	}, nil
}
