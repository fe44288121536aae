package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestCounterIncrement(t *testing.T) {
	ctx := context.Background()

	t.Run("first increment seeds the counter at one", func(t *testing.T) {
		repo := NewGormCounterRepository(newTestDB(t))

		value, err := repo.Increment(ctx, "leadId")
		require.NoError(t, err)
		assert.Equal(t, int64(1), value)
	})

	t.Run("values are contiguous", func(t *testing.T) {
		repo := NewGormCounterRepository(newTestDB(t))

		for want := int64(1); want <= 5; want++ {
			value, err := repo.Increment(ctx, "quoteId")
			require.NoError(t, err)
			assert.Equal(t, want, value)
		}
	})

	t.Run("counters advance independently per name", func(t *testing.T) {
		repo := NewGormCounterRepository(newTestDB(t))

		for i := 0; i < 3; i++ {
			_, err := repo.Increment(ctx, "leadId")
			require.NoError(t, err)
		}
		value, err := repo.Increment(ctx, "pipelineId")
		require.NoError(t, err)
		assert.Equal(t, int64(1), value)
	})

	t.Run("concurrent increments never repeat a value", func(t *testing.T) {
		repo := NewGormCounterRepository(newTestDB(t))

		const workers = 25
		results := make(chan int64, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				value, err := repo.Increment(ctx, "customerId")
				assert.NoError(t, err)
				results <- value
			}()
		}
		wg.Wait()
		close(results)

		seen := make(map[int64]bool, workers)
		var max int64
		for value := range results {
			assert.False(t, seen[value], "value %d allocated twice", value)
			seen[value] = true
			if value > max {
				max = value
			}
		}
		assert.Len(t, seen, workers)
		assert.Equal(t, int64(workers), max)
	})
}

func TestCounterCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("reads the last allocated value without reserving", func(t *testing.T) {
		repo := NewGormCounterRepository(newTestDB(t))

		for i := 0; i < 4; i++ {
			_, err := repo.Increment(ctx, "leadId")
			require.NoError(t, err)
		}

		value, err := repo.Current(ctx, "leadId")
		require.NoError(t, err)
		assert.Equal(t, int64(4), value)

		value, err = repo.Current(ctx, "leadId")
		require.NoError(t, err)
		assert.Equal(t, int64(4), value)
	})

	t.Run("unused counter reads as zero", func(t *testing.T) {
		repo := NewGormCounterRepository(newTestDB(t))

		value, err := repo.Current(ctx, "projectId")
		require.NoError(t, err)
		assert.Equal(t, int64(0), value)
	})
}

func TestCounterIncrementStatement(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	repo := NewGormCounterRepository(db)

	mock.ExpectQuery(`INSERT INTO counters \(name, value, updated_at\) VALUES \(\$1, 1, CURRENT_TIMESTAMP\) ON CONFLICT \(name\) DO UPDATE SET value = value \+ 1, updated_at = CURRENT_TIMESTAMP RETURNING value`).
		WithArgs("leadId").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(42)))

	value, err := repo.Increment(context.Background(), "leadId")
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}
