package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/salesdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements crm.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForOrg finds a customer by ID within an organization
func (r *GormCustomerRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*crm.Customer, error) {
	var model models.CustomerModel
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

// FindByPublicID finds a customer by public identifier within an organization
func (r *GormCustomerRepository) FindByPublicID(ctx context.Context, orgID uuid.UUID, publicID string) (*crm.Customer, error) {
	var model models.CustomerModel
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

// FindByEmail finds a customer by email within an organization
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, orgID uuid.UUID, email string) (*crm.Customer, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", orgID, strings.ToLower(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// AddPurchase atomically adds an amount to the ledger of the customer with
// the given email. The increment happens inside the UPDATE, so two
// concurrent accepts both land in full.
func (r *GormCustomerRepository) AddPurchase(ctx context.Context, orgID uuid.UUID, email string, amount decimal.Decimal, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("tenant_id = ? AND email = ?", orgID, strings.ToLower(email)).
		Updates(map[string]interface{}{
			"total_value":   gorm.Expr("total_value + ?", amount),
			"last_purchase": at,
			"updated_at":    at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpsertPurchase inserts the customer or, when the (organization, email) pair
// already exists, adds the customer's opening ledger value to the existing
// row. One atomic statement, so concurrent accepts for a brand-new email
// never create duplicate customers; the loser's row merge keeps both
// amounts.
func (r *GormCustomerRepository) UpsertPurchase(ctx context.Context, customer *crm.Customer) (*crm.Customer, error) {
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "email"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_value":   gorm.Expr("customers.total_value + ?", customer.TotalValue),
				"last_purchase": customer.LastPurchase,
				"updated_at":    customer.UpdatedAt,
			}),
		}).
		Create(model).Error; err != nil {
		return nil, err
	}
	return r.FindByEmail(ctx, customer.OrgID, customer.Email)
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *crm.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}
