package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nexerp/backend/internal/domain/shared"
)

func stockLevelRows(id, productID, locationID uuid.UUID, qty int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version", "product_id", "location_id", "quantity",
	}).AddRow(id, now, now, 1, productID, locationID, decimal.NewFromInt(qty))
}

func TestGormStockLevelRepository_FindByProductAndLocation(t *testing.T) {
	t.Run("finds existing level", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(gormDB)

		levelID := uuid.New()
		productID := uuid.New()
		locationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_levels" WHERE product_id = \$1 AND location_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(productID, locationID, 1).
			WillReturnRows(stockLevelRows(levelID, productID, locationID, 25))

		level, err := repo.FindByProductAndLocation(context.Background(), productID, locationID)

		assert.NoError(t, err)
		require.NotNil(t, level)
		assert.Equal(t, productID, level.ProductID)
		assert.True(t, level.Quantity.Equal(decimal.NewFromInt(25)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing pair", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "stock_levels" WHERE product_id = \$1 AND location_id = \$2 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		level, err := repo.FindByProductAndLocation(context.Background(), uuid.New(), uuid.New())

		assert.Nil(t, level)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockLevelRepository_FindByProductAndLocationForUpdate(t *testing.T) {
	t.Run("issues SELECT FOR UPDATE", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(gormDB)

		levelID := uuid.New()
		productID := uuid.New()
		locationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_levels" WHERE product_id = \$1 AND location_id = \$2 .* FOR UPDATE`).
			WithArgs(productID, locationID, 1).
			WillReturnRows(stockLevelRows(levelID, productID, locationID, 10))

		level, err := repo.FindByProductAndLocationForUpdate(context.Background(), productID, locationID)

		assert.NoError(t, err)
		require.NotNil(t, level)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockLevelRepository_GetOrCreateForUpdate(t *testing.T) {
	t.Run("returns locked existing row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(gormDB)

		levelID := uuid.New()
		productID := uuid.New()
		locationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_levels" WHERE product_id = \$1 AND location_id = \$2 .* FOR UPDATE`).
			WithArgs(productID, locationID, 1).
			WillReturnRows(stockLevelRows(levelID, productID, locationID, 7))

		level, err := repo.GetOrCreateForUpdate(context.Background(), productID, locationID)

		assert.NoError(t, err)
		require.NotNil(t, level)
		assert.Equal(t, levelID, level.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates zero-quantity row on first use", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(gormDB)

		productID := uuid.New()
		locationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_levels" WHERE product_id = \$1 AND location_id = \$2 .* FOR UPDATE`).
			WithArgs(productID, locationID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		mock.ExpectExec(`INSERT INTO "stock_levels" .* ON CONFLICT \("product_id","location_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		level, err := repo.GetOrCreateForUpdate(context.Background(), productID, locationID)

		assert.NoError(t, err)
		require.NotNil(t, level)
		assert.Equal(t, productID, level.ProductID)
		assert.Equal(t, locationID, level.LocationID)
		assert.True(t, level.Quantity.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockLevelRepository_SumByProduct(t *testing.T) {
	t.Run("sums quantities across locations", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(gormDB)

		productID := uuid.New()

		mock.ExpectQuery(`SELECT SUM\(quantity\) FROM "stock_levels" WHERE product_id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(decimal.NewFromInt(42)))

		sum, err := repo.SumByProduct(context.Background(), productID)

		assert.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(42)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero when no rows exist", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(gormDB)

		productID := uuid.New()

		mock.ExpectQuery(`SELECT SUM\(quantity\) FROM "stock_levels" WHERE product_id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(nil))

		sum, err := repo.SumByProduct(context.Background(), productID)

		assert.NoError(t, err)
		assert.True(t, sum.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
