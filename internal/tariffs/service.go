package tariff

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printhuis/quoteportal-backend/pkg/db"
	"github.com/printhuis/quoteportal-backend/pkg/db/models"
	"github.com/printhuis/quoteportal-backend/pkg/enums"
	pkgerrors "github.com/printhuis/quoteportal-backend/pkg/errors"
	"github.com/printhuis/quoteportal-backend/pkg/outbox"
	"github.com/printhuis/quoteportal-backend/pkg/outbox/payloads"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

// coverageCeiling bounds the quantity sweep used to validate that a tariff's
// brackets are contiguous and non-overlapping.
const coverageCeiling = 100000

// Service exposes admin management of pricing settings and tariffs.
type Service interface {
	GetSettings(ctx context.Context) (*models.PricingSettings, error)
	UpdateSettings(ctx context.Context, actorID uuid.UUID, input SettingsInput) (*models.PricingSettings, error)
	ListTariffs(ctx context.Context) ([]models.ServiceTariff, error)
	GetTariff(ctx context.Context, technique enums.Technique) (*models.ServiceTariff, error)
	UpsertTariff(ctx context.Context, actorID uuid.UUID, input TariffInput) (*models.ServiceTariff, error)
	DeleteTariff(ctx context.Context, actorID uuid.UUID, technique enums.Technique) error
}

// SettingsInput holds the validated payload to overwrite the settings
// singleton. Every field is required: partial updates would make the saved
// row depend on edit order.
type SettingsInput struct {
	TextileDiscountPercent          decimal.Decimal
	ClientProvidedIndexationPercent decimal.Decimal
	ExpressSurchargePercentPerDay   decimal.Decimal
	IndividualPackagingUnitPrice    decimal.Decimal
	NewCartonUnitPrice              decimal.Decimal
	VectorizationUnitPrice          decimal.Decimal
}

// TariffInput holds the validated payload to replace a technique's tariff.
type TariffInput struct {
	Technique                  enums.Technique
	QuantityRanges             []types.QuantityRange
	StitchRanges               []types.StitchRange
	PrintSizes                 []string
	PriceCells                 []types.PriceCell
	FixedFeePerColor           decimal.Decimal
	FixedFeeSmallDigitization  decimal.Decimal
	FixedFeeLargeDigitization  decimal.Decimal
	SmallDigitizationThreshold int
	SurchargeOptions           []types.SurchargeOption
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	events   eventEmitter
}

// NewService constructs the tariff admin service.
func NewService(repo *Repository, dbClient *db.Client, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tariff repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, dbClient: dbClient, events: events}, nil
}

func (s *service) GetSettings(ctx context.Context) (*models.PricingSettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pricing settings not configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pricing settings")
	}
	return settings, nil
}

func (s *service) UpdateSettings(ctx context.Context, actorID uuid.UUID, input SettingsInput) (*models.PricingSettings, error) {
	if err := validateSettings(input); err != nil {
		return nil, err
	}

	row := &models.PricingSettings{
		TextileDiscountPercent:          input.TextileDiscountPercent,
		ClientProvidedIndexationPercent: input.ClientProvidedIndexationPercent,
		ExpressSurchargePercentPerDay:   input.ExpressSurchargePercentPerDay,
		IndividualPackagingUnitPrice:    input.IndividualPackagingUnitPrice,
		NewCartonUnitPrice:              input.NewCartonUnitPrice,
		VectorizationUnitPrice:          input.VectorizationUnitPrice,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.repo.WithTx(tx).SaveSettings(ctx, row)
		if err != nil {
			return err
		}
		row = saved
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPricingConfigChanged,
			AggregateType: enums.AggregatePricingConfig,
			AggregateID:   saved.ID,
			Actor:         &outbox.ActorRef{UserID: actorID, Role: "admin"},
			Version:       1,
			Data: payloads.PricingConfigChangedEvent{
				SettingsID:                      saved.ID,
				TextileDiscountPercent:          saved.TextileDiscountPercent,
				ClientProvidedIndexationPercent: saved.ClientProvidedIndexationPercent,
				ExpressSurchargePercentPerDay:   saved.ExpressSurchargePercentPerDay,
				IndividualPackagingUnitPrice:    saved.IndividualPackagingUnitPrice,
				NewCartonUnitPrice:              saved.NewCartonUnitPrice,
				VectorizationUnitPrice:          saved.VectorizationUnitPrice,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save pricing settings")
	}
	return row, nil
}

func (s *service) ListTariffs(ctx context.Context) ([]models.ServiceTariff, error) {
	rows, err := s.repo.ListTariffs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list service tariffs")
	}
	return rows, nil
}

func (s *service) GetTariff(ctx context.Context, technique enums.Technique) (*models.ServiceTariff, error) {
	row, err := s.repo.GetTariffByTechnique(ctx, technique)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no tariff for technique %s", technique))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service tariff")
	}
	return row, nil
}

func (s *service) UpsertTariff(ctx context.Context, actorID uuid.UUID, input TariffInput) (*models.ServiceTariff, error) {
	if err := validateTariff(input); err != nil {
		return nil, err
	}

	row := &models.ServiceTariff{
		Technique:                  input.Technique,
		QuantityRanges:             input.QuantityRanges,
		StitchRanges:               input.StitchRanges,
		PrintSizes:                 input.PrintSizes,
		PriceCells:                 input.PriceCells,
		FixedFeePerColor:           input.FixedFeePerColor,
		FixedFeeSmallDigitization:  input.FixedFeeSmallDigitization,
		FixedFeeLargeDigitization:  input.FixedFeeLargeDigitization,
		SmallDigitizationThreshold: input.SmallDigitizationThreshold,
		SurchargeOptions:           input.SurchargeOptions,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.repo.WithTx(tx).UpsertTariff(ctx, row)
		if err != nil {
			return err
		}
		row = saved
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventServiceTariffChanged,
			AggregateType: enums.AggregateServiceTariff,
			AggregateID:   saved.ID,
			Actor:         &outbox.ActorRef{UserID: actorID, Role: "admin"},
			Version:       1,
			Data: payloads.ServiceTariffChangedEvent{
				TariffID:  saved.ID,
				Technique: saved.Technique,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save service tariff")
	}
	return row, nil
}

func (s *service) DeleteTariff(ctx context.Context, actorID uuid.UUID, technique enums.Technique) error {
	if !technique.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid technique %q", technique))
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		existing, err := txRepo.GetTariffByTechnique(ctx, technique)
		if err != nil {
			return err
		}
		if err := txRepo.DeleteTariff(ctx, technique); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventServiceTariffChanged,
			AggregateType: enums.AggregateServiceTariff,
			AggregateID:   existing.ID,
			Actor:         &outbox.ActorRef{UserID: actorID, Role: "admin"},
			Version:       1,
			Data: payloads.ServiceTariffChangedEvent{
				TariffID:  existing.ID,
				Technique: technique,
			},
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no tariff for technique %s", technique))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete service tariff")
	}
	return nil
}

func validateSettings(input SettingsInput) error {
	percents := map[string]decimal.Decimal{
		"textile_discount_percent":           input.TextileDiscountPercent,
		"client_provided_indexation_percent": input.ClientProvidedIndexationPercent,
		"express_surcharge_percent_per_day":  input.ExpressSurchargePercentPerDay,
	}
	for field, value := range percents {
		if value.Sign() < 0 || value.GreaterThan(decimal.NewFromInt(100)) {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be between 0 and 100", field))
		}
	}
	prices := map[string]decimal.Decimal{
		"individual_packaging_unit_price": input.IndividualPackagingUnitPrice,
		"new_carton_unit_price":           input.NewCartonUnitPrice,
		"vectorization_unit_price":        input.VectorizationUnitPrice,
	}
	for field, value := range prices {
		if value.Sign() < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must not be negative", field))
		}
	}
	return nil
}

// validateTariff rejects grids that would later fail quote requests: the
// quantity brackets must tile without gaps or overlaps, the technique's
// secondary dimension must be configured, and no cell may carry a negative
// price.
func validateTariff(input TariffInput) error {
	if !input.Technique.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid technique %q", input.Technique))
	}
	if len(input.QuantityRanges) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one quantity range is required")
	}
	if len(input.PriceCells) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one price cell is required")
	}

	switch input.Technique {
	case enums.TechniqueEmbroidery:
		if len(input.StitchRanges) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "embroidery tariffs need stitch ranges")
		}
	case enums.TechniqueDirectToFilm:
		if len(input.PrintSizes) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "direct-to-film tariffs need print sizes")
		}
	}

	for _, cell := range input.PriceCells {
		if cell.UnitPrice.Sign() < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("negative price for %s/%s", cell.RangeLabel, cell.Dimension))
		}
	}

	table := TableFromModel(models.ServiceTariff{
		Technique:      input.Technique,
		QuantityRanges: input.QuantityRanges,
		StitchRanges:   input.StitchRanges,
		PrintSizes:     input.PrintSizes,
		PriceCells:     input.PriceCells,
	})
	if err := table.ValidateCoverage(coverageCeiling); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "quantity ranges misconfigured")
	}
	return nil
}
