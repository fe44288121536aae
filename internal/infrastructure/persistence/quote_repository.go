package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/salesdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormQuoteRepository implements crm.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByIDForOrg finds a quote by ID within an organization
func (r *GormQuoteRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*crm.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPublicID finds a quote by public identifier within an organization
func (r *GormQuoteRepository) FindByPublicID(ctx context.Context, orgID uuid.UUID, publicID string) (*crm.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND public_id = ?", orgID, publicID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDealID finds the quote referencing a pipeline deal, if any
func (r *GormQuoteRepository) FindByDealID(ctx context.Context, orgID, dealID uuid.UUID) (*crm.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND pipeline_deal_id = ?", orgID, dealID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create persists a new quote. The unique index on pipeline_deal_id turns a
// concurrent duplicate into ErrAlreadyExists so the caller can fall back to
// the existing row.
func (r *GormQuoteRepository) Create(ctx context.Context, quote *crm.Quote) error {
	model := models.QuoteModelFromDomain(quote)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates an existing quote
func (r *GormQuoteRepository) Save(ctx context.Context, quote *crm.Quote) error {
	model := models.QuoteModelFromDomain(quote)
	return r.db.WithContext(ctx).Save(model).Error
}

// MarkAccepted flips the quote to Accepted only when it is not Accepted
// already. The guard is the status predicate in the UPDATE itself; the
// reported bool comes from RowsAffected, so exactly one caller of a
// concurrent pair sees true.
func (r *GormQuoteRepository) MarkAccepted(ctx context.Context, orgID, id, actorID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.QuoteModel{}).
		Where("tenant_id = ? AND id = ? AND status <> ?", orgID, id, crm.QuoteStatusAccepted).
		Updates(map[string]interface{}{
			"status":     crm.QuoteStatusAccepted,
			"updated_by": actorID,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
