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

// GormLeadRepository implements crm.LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByIDForOrg finds a lead by ID within an organization
func (r *GormLeadRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*crm.Lead, error) {
	var model models.LeadModel
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

// FindByPublicID finds a lead by public identifier within an organization.
// The organization filter makes a cross-organization identifier read exactly
// like a nonexistent one.
func (r *GormLeadRepository) FindByPublicID(ctx context.Context, orgID uuid.UUID, publicID string) (*crm.Lead, error) {
	var model models.LeadModel
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

// Save creates or updates a lead
func (r *GormLeadRepository) Save(ctx context.Context, lead *crm.Lead) error {
	model := models.LeadModelFromDomain(lead)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateStatusBatch sets the status on the given leads in one statement
func (r *GormLeadRepository) UpdateStatusBatch(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID, status crm.LeadStatus, actorID uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.LeadModel{}).
		Where("tenant_id = ? AND id IN ?", orgID, ids).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": actorID,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

// DeleteForOrg deletes a lead within an organization
func (r *GormLeadRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", orgID, id).
		Delete(&models.LeadModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
