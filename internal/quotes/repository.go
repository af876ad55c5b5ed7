package quote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printhuis/quoteportal-backend/pkg/db/models"
	"github.com/printhuis/quoteportal-backend/pkg/enums"
)

// Repository persists quote drafts and their frozen line items.
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

// Create stores the quote with its items in one insert.
func (r *Repository) Create(ctx context.Context, record *models.QuoteRecord) (*models.QuoteRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByID loads the quote with its items ordered by position.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.QuoteRecord, error) {
	var record models.QuoteRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByClientRef returns a client's quotes, newest first, without items.
func (r *Repository) ListByClientRef(ctx context.Context, clientRef string) ([]models.QuoteRecord, error) {
	var records []models.QuoteRecord
	err := r.db.WithContext(ctx).
		Where("client_ref = ?", clientRef).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// MarkSubmitted flips a draft to submitted. The guard on the current status
// makes concurrent submits collapse into one transition.
func (r *Repository) MarkSubmitted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.QuoteRecord{}).
		Where("id = ? AND status = ?", id, enums.QuoteStatusDraft).
		Updates(map[string]any{
			"status":       enums.QuoteStatusSubmitted,
			"submitted_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
