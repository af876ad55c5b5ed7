package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printhuis/quoteportal-backend/internal/pricing"
	"github.com/printhuis/quoteportal-backend/internal/schedule"
	"github.com/printhuis/quoteportal-backend/pkg/db"
	"github.com/printhuis/quoteportal-backend/pkg/db/models"
	"github.com/printhuis/quoteportal-backend/pkg/enums"
	pkgerrors "github.com/printhuis/quoteportal-backend/pkg/errors"
	"github.com/printhuis/quoteportal-backend/pkg/logger"
	"github.com/printhuis/quoteportal-backend/pkg/outbox"
	"github.com/printhuis/quoteportal-backend/pkg/outbox/payloads"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

// Service exposes the client-facing quote operations.
type Service interface {
	PriceQuote(ctx context.Context, input QuoteInput) (*QuoteDTO, error)
	CreateDraft(ctx context.Context, input QuoteInput) (*QuoteDTO, error)
	GetQuote(ctx context.Context, id uuid.UUID) (*QuoteDTO, error)
	ListQuotes(ctx context.Context, clientRef string) ([]QuoteDTO, error)
	SubmitQuote(ctx context.Context, id uuid.UUID) (*QuoteDTO, error)
}

type snapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*pricing.Snapshot, error)
}

type shippingCoster interface {
	Cost(ctx context.Context, destination types.Address) (decimal.Decimal, error)
}

type eventEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo      *Repository
	dbClient  *db.Client
	snapshots snapshotLoader
	shipping  shippingCoster
	events    eventEmitter
	logg      *logger.Logger
	now       func() time.Time
}

// NewService constructs the quote service.
func NewService(repo *Repository, dbClient *db.Client, snapshots snapshotLoader, shipping shippingCoster, events eventEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot loader required")
	}
	if shipping == nil {
		return nil, fmt.Errorf("shipping service required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		repo:      repo,
		dbClient:  dbClient,
		snapshots: snapshots,
		shipping:  shipping,
		events:    events,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) PriceQuote(ctx context.Context, input QuoteInput) (*QuoteDTO, error) {
	total, _, err := s.compute(ctx, input)
	if err != nil {
		return nil, err
	}
	return totalToDTO(input, *total), nil
}

func (s *service) CreateDraft(ctx context.Context, input QuoteInput) (*QuoteDTO, error) {
	total, delay, err := s.compute(ctx, input)
	if err != nil {
		return nil, err
	}

	record, err := buildRecord(input, *total, delay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "freeze quote draft")
	}

	if _, err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store quote draft")
	}

	if s.logg != nil {
		logCtx := s.logg.WithQuoteID(ctx, record.ID.String())
		s.logg.Info(logCtx, "quote draft created")
	}

	dto := recordToDTO(record)
	dto.ExpressSurchargePercent = total.ExpressSurchargePercent
	return dto, nil
}

func (s *service) GetQuote(ctx context.Context, id uuid.UUID) (*QuoteDTO, error) {
	record, err := s.findQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToDTO(record), nil
}

func (s *service) ListQuotes(ctx context.Context, clientRef string) ([]QuoteDTO, error) {
	records, err := s.repo.ListByClientRef(ctx, clientRef)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}
	out := make([]QuoteDTO, 0, len(records))
	for i := range records {
		out = append(out, *recordToDTO(&records[i]))
	}
	return out, nil
}

func (s *service) SubmitQuote(ctx context.Context, id uuid.UUID) (*QuoteDTO, error) {
	var record *models.QuoteRecord

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		loaded, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		submittedAt := s.now()
		changed, err := txRepo.MarkSubmitted(ctx, id, submittedAt)
		if err != nil {
			return err
		}
		if !changed && loaded.Status != enums.QuoteStatusSubmitted {
			return pkgerrors.New(pkgerrors.CodeConflict, "quote is not submittable")
		}

		loaded.Status = enums.QuoteStatusSubmitted
		if loaded.SubmittedAt == nil {
			loaded.SubmittedAt = &submittedAt
		}
		record = loaded

		// Retried submits reuse the original event row.
		return s.events.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteSubmitted,
			AggregateType: enums.AggregateQuote,
			AggregateID:   loaded.ID,
			Version:       1,
			Data:          submittedEventPayload(loaded),
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit quote")
	}

	if s.logg != nil {
		logCtx := s.logg.WithQuoteID(ctx, record.ID.String())
		s.logg.Info(logCtx, "quote submitted")
	}

	return recordToDTO(record), nil
}

// compute runs the pure pricing pipeline: resolve shipping, load one
// snapshot, price every line.
func (s *service) compute(ctx context.Context, input QuoteInput) (*pricing.QuoteTotal, schedule.Delay, error) {
	if len(input.Items) == 0 {
		return nil, schedule.Delay{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	delay, err := toEngineDelay(input.Delay)
	if err != nil {
		return nil, schedule.Delay{}, err
	}

	items, err := toEngineItems(input.Items)
	if err != nil {
		return nil, schedule.Delay{}, err
	}

	shippingCost := decimal.Zero
	if input.Delivery.Mode.UsesCarrier() {
		if input.Delivery.Address == nil {
			return nil, schedule.Delay{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required for carrier delivery")
		}
		cost, err := s.shipping.Cost(ctx, *input.Delivery.Address)
		if err != nil {
			return nil, schedule.Delay{}, err
		}
		shippingCost = cost
	}

	snap, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return nil, schedule.Delay{}, err
	}

	total, err := pricing.CalculateQuoteTotal(pricing.QuoteInput{
		Items: items,
		Delivery: pricing.Delivery{
			Mode:                    input.Delivery.Mode,
			Address:                 input.Delivery.Address,
			BillingAddress:          input.Delivery.BillingAddress,
			BillingAddressDifferent: input.Delivery.BillingAddressDifferent,
			IndividualPackaging:     input.Delivery.IndividualPackaging,
			NewCarton:               input.Delivery.NewCarton,
		},
		Delay:        delay,
		ShippingCost: shippingCost,
		CartonCount:  input.Delivery.CartonCount,
	}, *snap, s.now())
	if err != nil {
		return nil, schedule.Delay{}, mapPricingError(err, items)
	}

	rounded := total.Rounded()
	return &rounded, delay, nil
}

func (s *service) findQuote(ctx context.Context, id uuid.UUID) (*models.QuoteRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return record, nil
}

// mapPricingError translates a structured engine failure into the API error
// model, pointing at the failing line by its position in the request.
func mapPricingError(err error, items []pricing.LineItem) error {
	typed := pricing.AsError(err)
	if typed == nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "price quote")
	}

	details := map[string]any{
		"kind": string(typed.Kind),
		"key":  typed.Key,
	}
	for i, item := range items {
		if item.ID == typed.ItemID {
			details["item_index"] = i
			break
		}
	}

	switch typed.Kind {
	case pricing.KindInvalidQuantity, pricing.KindInvalidDelay:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, typed, "invalid quote input").WithDetails(details)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeUnpriceable, typed, "quote cannot be priced").WithDetails(details)
	}
}

// submittedEventPayload builds the ERP-facing event, including the internal
// indexation values the client never sees.
func submittedEventPayload(record *models.QuoteRecord) payloads.QuoteSubmittedEvent {
	items := make([]payloads.QuoteSubmittedItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, payloads.QuoteSubmittedItem{
			ItemID:            item.ID,
			ProductRef:        item.ProductRef,
			Technique:         item.Technique,
			Quantity:          item.TotalQuantity,
			ClientProvided:    item.ClientProvided,
			UnitPrice:         item.UnitPrice,
			IndexationPerUnit: item.IndexationPerUnit,
			FixedFees:         item.FixedFees,
			ExpressSurcharge:  item.ExpressSurcharge,
			LineTotal:         item.LineTotal,
		})
	}

	submittedAt := time.Time{}
	if record.SubmittedAt != nil {
		submittedAt = *record.SubmittedAt
	}

	return payloads.QuoteSubmittedEvent{
		QuoteID:               record.ID,
		ClientRef:             record.ClientRef,
		DelayType:             record.DelayType,
		DeliveryMode:          record.DeliveryMode,
		ServicesTotal:         record.ServicesTotal,
		ShippingCost:          record.ShippingCost,
		ExpressSurchargeTotal: record.ExpressSurchargeTotal,
		GrandTotal:            record.GrandTotal,
		IndicationDate:        record.IndicationDate,
		DeliveryDate:          record.DeliveryDate,
		SubmittedAt:           submittedAt,
		Items:                 items,
	}
}
