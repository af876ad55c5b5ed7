package quote

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/internal/pricing"
	"github.com/printhuis/quoteportal-backend/internal/schedule"
	"github.com/printhuis/quoteportal-backend/pkg/db/models"
	"github.com/printhuis/quoteportal-backend/pkg/enums"
	pkgerrors "github.com/printhuis/quoteportal-backend/pkg/errors"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

// SizeQuantityInput is one cell of the color/size grid.
type SizeQuantityInput struct {
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// OptionsInput carries the technique-specific decoration parameters. Only
// the fields for the line's technique are read.
type OptionsInput struct {
	TextileType   enums.TextileType `json:"textile_type,omitempty"`
	ColorCount    int               `json:"color_count,omitempty"`
	StitchCount   int               `json:"stitch_count,omitempty"`
	PrintSize     string            `json:"print_size,omitempty"`
	LocationCount int               `json:"location_count,omitempty"`
}

// ItemInput is one decorated product line of a quote request.
type ItemInput struct {
	ProductRef         string              `json:"product_ref" validate:"required"`
	Technique          enums.Technique     `json:"technique" validate:"required"`
	ClientProvided     bool                `json:"client_provided"`
	NeedsVectorization bool                `json:"needs_vectorization"`
	TotalQuantity      int                 `json:"total_quantity" validate:"required,min=1"`
	Quantities         []SizeQuantityInput `json:"quantities,omitempty"`
	Options            OptionsInput        `json:"options"`
	SelectedOptionIDs  []string            `json:"selected_option_ids,omitempty"`
}

// DeliveryInput carries the delivery and packaging choices.
type DeliveryInput struct {
	Mode                    enums.DeliveryMode `json:"mode" validate:"required"`
	Address                 *types.Address     `json:"address,omitempty"`
	BillingAddress          *types.Address     `json:"billing_address,omitempty"`
	BillingAddressDifferent bool               `json:"billing_address_different"`
	IndividualPackaging     bool               `json:"individual_packaging"`
	NewCarton               bool               `json:"new_carton"`
	CartonCount             int                `json:"carton_count" validate:"min=0"`
}

// DelayInput carries the requested lead time.
type DelayInput struct {
	Type        enums.DelayType `json:"type" validate:"required"`
	WorkingDays int             `json:"working_days,omitempty"`
	ExpressDays string          `json:"express_days,omitempty"`
}

// QuoteInput is the full payload for pricing or drafting a quote.
type QuoteInput struct {
	ClientRef string        `json:"client_ref" validate:"required"`
	Items     []ItemInput   `json:"items" validate:"required,min=1,dive"`
	Delivery  DeliveryInput `json:"delivery" validate:"required"`
	Delay     DelayInput    `json:"delay" validate:"required"`
}

// ItemDTO is the client-visible breakdown of one line. It deliberately has
// no indexation field.
type ItemDTO struct {
	ID                      uuid.UUID       `json:"id,omitempty"`
	Position                int             `json:"position"`
	ProductRef              string          `json:"product_ref"`
	Technique               enums.Technique `json:"technique"`
	ClientProvided          bool            `json:"client_provided"`
	TotalQuantity           int             `json:"total_quantity"`
	UnitPrice               decimal.Decimal `json:"unit_price"`
	FixedFees               decimal.Decimal `json:"fixed_fees"`
	OptionsSurchargePerUnit decimal.Decimal `json:"options_surcharge_per_unit"`
	ExpressSurcharge        decimal.Decimal `json:"express_surcharge"`
	LineTotal               decimal.Decimal `json:"line_total"`
}

// QuoteDTO is the client-visible priced quote.
type QuoteDTO struct {
	ID                      uuid.UUID          `json:"id,omitempty"`
	ClientRef               string             `json:"client_ref"`
	Status                  enums.QuoteStatus  `json:"status,omitempty"`
	DelayType               enums.DelayType    `json:"delay_type"`
	DeliveryMode            enums.DeliveryMode `json:"delivery_mode"`
	ServicesTotal           decimal.Decimal    `json:"services_total"`
	ShippingCost            decimal.Decimal    `json:"shipping_cost"`
	PackagingCost           decimal.Decimal    `json:"packaging_cost"`
	CartonCost              decimal.Decimal    `json:"carton_cost"`
	VectorizationCost       decimal.Decimal    `json:"vectorization_cost"`
	ExpressSurchargeTotal   decimal.Decimal    `json:"express_surcharge_total"`
	GrandTotal              decimal.Decimal    `json:"grand_total"`
	ExpressSurchargePercent decimal.Decimal    `json:"express_surcharge_percent"`
	IndicationDate          string             `json:"indication_date"`
	DeliveryDate            string             `json:"delivery_date"`
	SubmittedAt             *time.Time         `json:"submitted_at,omitempty"`
	Items                   []ItemDTO          `json:"items"`
}

const dateLayout = "2006-01-02"

// toEngineOptions maps the wire options onto the engine's tagged union.
func toEngineOptions(technique enums.Technique, in OptionsInput) (pricing.TechniqueOptions, error) {
	switch technique {
	case enums.TechniqueScreenPrint:
		return pricing.ScreenPrintOptions{
			TextileType:   in.TextileType,
			ColorCount:    in.ColorCount,
			PrintSize:     in.PrintSize,
			LocationCount: in.LocationCount,
		}, nil
	case enums.TechniqueEmbroidery:
		return pricing.EmbroideryOptions{
			StitchCount:   in.StitchCount,
			LocationCount: in.LocationCount,
		}, nil
	case enums.TechniqueDirectToFilm:
		return pricing.DirectToFilmOptions{
			PrintSize:     in.PrintSize,
			LocationCount: in.LocationCount,
		}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown technique "+string(technique))
	}
}

func toEngineDelay(in DelayInput) (schedule.Delay, error) {
	delay := schedule.Delay{Type: in.Type, WorkingDays: in.WorkingDays}
	if in.Type == enums.DelayTypeExpress {
		days, err := decimal.NewFromString(in.ExpressDays)
		if err != nil {
			return schedule.Delay{}, pkgerrors.New(pkgerrors.CodeValidation, "express_days must be a decimal number of days")
		}
		delay.ExpressDays = days
	}
	return delay, nil
}

func toEngineItems(items []ItemInput) ([]pricing.LineItem, error) {
	out := make([]pricing.LineItem, 0, len(items))
	for _, item := range items {
		opts, err := toEngineOptions(item.Technique, item.Options)
		if err != nil {
			return nil, err
		}
		grid := make([]pricing.SizeQuantity, 0, len(item.Quantities))
		for _, cell := range item.Quantities {
			grid = append(grid, pricing.SizeQuantity{Color: cell.Color, Size: cell.Size, Quantity: cell.Quantity})
		}
		out = append(out, pricing.LineItem{
			ID:                 uuid.New(),
			ProductRef:         item.ProductRef,
			ClientProvided:     item.ClientProvided,
			NeedsVectorization: item.NeedsVectorization,
			Quantities:         grid,
			TotalQuantity:      item.TotalQuantity,
			Options:            opts,
			SelectedOptionIDs:  item.SelectedOptionIDs,
		})
	}
	return out, nil
}

// totalToDTO converts a rounded engine total into the response shape.
func totalToDTO(input QuoteInput, total pricing.QuoteTotal) *QuoteDTO {
	items := make([]ItemDTO, 0, len(total.ItemDetails))
	for i, d := range total.ItemDetails {
		items = append(items, ItemDTO{
			Position:                i,
			ProductRef:              d.Item.ProductRef,
			Technique:               d.Item.Options.Technique(),
			ClientProvided:          d.Item.ClientProvided,
			TotalQuantity:           d.Item.TotalQuantity,
			UnitPrice:               d.Detail.UnitPrice,
			FixedFees:               d.Detail.FixedFees,
			OptionsSurchargePerUnit: d.Detail.OptionsSurchargePerUnit,
			ExpressSurcharge:        d.Detail.ExpressSurcharge,
			LineTotal:               d.Detail.Total,
		})
	}
	return &QuoteDTO{
		ClientRef:               input.ClientRef,
		DelayType:               input.Delay.Type,
		DeliveryMode:            input.Delivery.Mode,
		ServicesTotal:           total.ServicesTotal,
		ShippingCost:            total.ShippingCost,
		PackagingCost:           total.PackagingCost,
		CartonCost:              total.CartonCost,
		VectorizationCost:       total.VectorizationCost,
		ExpressSurchargeTotal:   total.ExpressSurchargeTotal,
		GrandTotal:              total.GrandTotal,
		ExpressSurchargePercent: total.ExpressSurchargePercent,
		IndicationDate:          total.IndicationDate.Format(dateLayout),
		DeliveryDate:            total.DeliveryDate.Format(dateLayout),
		Items:                   items,
	}
}

// recordToDTO converts a stored draft into the response shape.
func recordToDTO(record *models.QuoteRecord) *QuoteDTO {
	items := make([]ItemDTO, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, ItemDTO{
			ID:                      item.ID,
			Position:                item.Position,
			ProductRef:              item.ProductRef,
			Technique:               item.Technique,
			ClientProvided:          item.ClientProvided,
			TotalQuantity:           item.TotalQuantity,
			UnitPrice:               item.UnitPrice,
			FixedFees:               item.FixedFees,
			OptionsSurchargePerUnit: item.OptionsSurchargePerUnit,
			ExpressSurcharge:        item.ExpressSurcharge,
			LineTotal:               item.LineTotal,
		})
	}
	return &QuoteDTO{
		ID:                    record.ID,
		ClientRef:             record.ClientRef,
		Status:                record.Status,
		DelayType:             record.DelayType,
		DeliveryMode:          record.DeliveryMode,
		ServicesTotal:         record.ServicesTotal,
		ShippingCost:          record.ShippingCost,
		PackagingCost:         record.PackagingCost,
		CartonCost:            record.CartonCost,
		VectorizationCost:     record.VectorizationCost,
		ExpressSurchargeTotal: record.ExpressSurchargeTotal,
		GrandTotal:            record.GrandTotal,
		IndicationDate:        record.IndicationDate.Format(dateLayout),
		DeliveryDate:          record.DeliveryDate.Format(dateLayout),
		SubmittedAt:           record.SubmittedAt,
		Items:                 items,
	}
}

// buildRecord freezes a priced quote into its storage shape. The rounded
// total goes into the money columns; the per-item indexation survives only
// here and in the ERP event, never in a client response.
func buildRecord(input QuoteInput, total pricing.QuoteTotal, delay schedule.Delay) (*models.QuoteRecord, error) {
	items := make([]models.QuoteItemRecord, 0, len(total.ItemDetails))
	for i, d := range total.ItemDetails {
		optionsJSON, err := json.Marshal(input.Items[i].Options)
		if err != nil {
			return nil, err
		}
		selectedJSON, err := json.Marshal(input.Items[i].SelectedOptionIDs)
		if err != nil {
			return nil, err
		}
		items = append(items, models.QuoteItemRecord{
			Position:                i,
			ProductRef:              d.Item.ProductRef,
			Technique:               d.Item.Options.Technique(),
			TechniqueOptions:        optionsJSON,
			SelectedOptionIDs:       selectedJSON,
			ClientProvided:          d.Item.ClientProvided,
			NeedsVectorization:      d.Item.NeedsVectorization,
			TotalQuantity:           d.Item.TotalQuantity,
			UnitPrice:               d.Detail.UnitPrice,
			IndexationPerUnit:       d.Detail.IndexationPerUnit,
			FixedFees:               d.Detail.FixedFees,
			OptionsSurchargePerUnit: d.Detail.OptionsSurchargePerUnit,
			ExpressSurcharge:        d.Detail.ExpressSurcharge,
			LineTotal:               d.Detail.Total,
		})
	}

	return &models.QuoteRecord{
		ClientRef:             input.ClientRef,
		Status:                enums.QuoteStatusDraft,
		DelayType:             delay.Type,
		WorkingDays:           delay.WorkingDays,
		ExpressDays:           delay.ExpressDays,
		DeliveryMode:          input.Delivery.Mode,
		DeliveryAddress:       input.Delivery.Address,
		BillingAddress:        input.Delivery.BillingAddress,
		IndividualPackaging:   input.Delivery.IndividualPackaging,
		NewCarton:             input.Delivery.NewCarton,
		CartonCount:           input.Delivery.CartonCount,
		ServicesTotal:         total.ServicesTotal,
		ShippingCost:          total.ShippingCost,
		PackagingCost:         total.PackagingCost,
		CartonCost:            total.CartonCost,
		VectorizationCost:     total.VectorizationCost,
		ExpressSurchargeTotal: total.ExpressSurchargeTotal,
		GrandTotal:            total.GrandTotal,
		IndicationDate:        total.IndicationDate,
		DeliveryDate:          total.DeliveryDate,
		Items:                 items,
	}, nil
}
