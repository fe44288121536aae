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

// GormPipelineDealRepository implements crm.PipelineDealRepository using GORM
type GormPipelineDealRepository struct {
	db *gorm.DB
}

// NewGormPipelineDealRepository creates a new GormPipelineDealRepository
func NewGormPipelineDealRepository(db *gorm.DB) *GormPipelineDealRepository {
	return &GormPipelineDealRepository{db: db}
}

// FindByIDForOrg finds a deal by ID within an organization
func (r *GormPipelineDealRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*crm.PipelineDeal, error) {
	var model models.PipelineDealModel
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

// FindByPublicID finds a deal by public identifier within an organization
func (r *GormPipelineDealRepository) FindByPublicID(ctx context.Context, orgID uuid.UUID, publicID string) (*crm.PipelineDeal, error) {
	var model models.PipelineDealModel
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

// FindByLeadID finds the deal generated from a lead, if any
func (r *GormPipelineDealRepository) FindByLeadID(ctx context.Context, orgID, leadID uuid.UUID) (*crm.PipelineDeal, error) {
	var model models.PipelineDealModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lead_id = ?", orgID, leadID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a deal. The partial unique index on lead_id turns
// a concurrent second conversion of the same lead into ErrAlreadyExists.
func (r *GormPipelineDealRepository) Save(ctx context.Context, deal *crm.PipelineDeal) error {
	model := models.PipelineDealModelFromDomain(deal)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DeleteByLeadID removes every deal generated from the lead
func (r *GormPipelineDealRepository) DeleteByLeadID(ctx context.Context, orgID, leadID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND lead_id = ?", orgID, leadID).
		Delete(&models.PipelineDealModel{}).Error
}
