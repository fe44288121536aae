package persistence

import (
	"testing"

	"github.com/salesdesk/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database migrated with every model.
// The pool is capped at one connection so every session, including the ones
// spawned by concurrent test goroutines, sees the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.CounterModel{},
		&models.LeadModel{},
		&models.PipelineDealModel{},
		&models.QuoteModel{},
		&models.CustomerModel{},
	))

	// The composite uniqueness on (tenant_id, email) spans an embedded column
	// and lives in the SQL migrations, so the test schema adds it by hand.
	require.NoError(t, db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_tenant_email ON customers (tenant_id, email)",
	).Error)

	return db
}
