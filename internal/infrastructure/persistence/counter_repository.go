package persistence

import (
	"context"
	"errors"

	"github.com/salesdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// counterIncrementSQL reserves the next value in one atomic statement. The
// unqualified value on the right-hand side of the DO UPDATE refers to the
// existing row, so the statement runs unchanged on PostgreSQL and SQLite.
// A missing counter row is seeded so the first allocation returns 1.
const counterIncrementSQL = `
INSERT INTO counters (name, value, updated_at)
VALUES (?, 1, CURRENT_TIMESTAMP)
ON CONFLICT (name)
DO UPDATE SET value = value + 1, updated_at = CURRENT_TIMESTAMP
RETURNING value`

// GormCounterRepository implements sequence.CounterRepository using GORM
type GormCounterRepository struct {
	db *gorm.DB
}

// NewGormCounterRepository creates a new GormCounterRepository
func NewGormCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

// Increment reserves and returns the next value of the named counter. Two
// concurrent callers serialize on the row and never observe the same value.
func (r *GormCounterRepository) Increment(ctx context.Context, name string) (int64, error) {
	var value int64
	if err := r.db.WithContext(ctx).Raw(counterIncrementSQL, name).Scan(&value).Error; err != nil {
		return 0, err
	}
	return value, nil
}

// Current returns the last allocated value without reserving a new one.
// A counter that has never been used reads as zero.
func (r *GormCounterRepository) Current(ctx context.Context, name string) (int64, error) {
	var model models.CounterModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return model.Value, nil
}
