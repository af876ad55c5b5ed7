package tariff

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/printhuis/quoteportal-backend/pkg/db/models"
	"github.com/printhuis/quoteportal-backend/pkg/enums"
)

// Repository wires together pricing settings and service tariff persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// GetSettings loads the pricing settings singleton.
func (r *Repository) GetSettings(ctx context.Context) (*models.PricingSettings, error) {
	var settings models.PricingSettings
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings overwrites the singleton in place, creating it on first use.
func (r *Repository) SaveSettings(ctx context.Context, settings *models.PricingSettings) (*models.PricingSettings, error) {
	existing, err := r.GetSettings(ctx)
	switch {
	case err == nil:
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first save creates the row
	default:
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// ListTariffs returns every configured technique tariff.
func (r *Repository) ListTariffs(ctx context.Context) ([]models.ServiceTariff, error) {
	var rows []models.ServiceTariff
	if err := r.db.WithContext(ctx).Order("technique ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTariffByTechnique loads one technique's tariff.
func (r *Repository) GetTariffByTechnique(ctx context.Context, technique enums.Technique) (*models.ServiceTariff, error) {
	var row models.ServiceTariff
	if err := r.db.WithContext(ctx).First(&row, "technique = ?", technique).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertTariff replaces the tariff for its technique.
func (r *Repository) UpsertTariff(ctx context.Context, tariff *models.ServiceTariff) (*models.ServiceTariff, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "technique"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity_ranges",
				"stitch_ranges",
				"print_sizes",
				"price_cells",
				"fixed_fee_per_color",
				"fixed_fee_small_digitization",
				"fixed_fee_large_digitization",
				"small_digitization_threshold",
				"surcharge_options",
				"updated_at",
			}),
		}).
		Create(tariff).Error
	if err != nil {
		return nil, err
	}
	return r.GetTariffByTechnique(ctx, tariff.Technique)
}

// DeleteTariff removes a technique's tariff. Quotes already priced keep
// their stored totals; new requests for the technique fail explicitly.
func (r *Repository) DeleteTariff(ctx context.Context, technique enums.Technique) error {
	result := r.db.WithContext(ctx).Where("technique = ?", technique).Delete(&models.ServiceTariff{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
