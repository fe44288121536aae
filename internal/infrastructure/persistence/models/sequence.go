package models

import (
	"time"

	"github.com/salesdesk/backend/internal/domain/sequence"
)

// CounterModel is the persistence model for a named allocation counter.
// The name is the primary key; one row exists per entity type system-wide.
type CounterModel struct {
	Name      string    `gorm:"type:varchar(64);primary_key"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CounterModel) TableName() string {
	return "counters"
}

// ToDomain converts the persistence model to a domain Counter
func (m *CounterModel) ToDomain() *sequence.Counter {
	return &sequence.Counter{
		Name:      m.Name,
		Value:     m.Value,
		UpdatedAt: m.UpdatedAt,
	}
}
