package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockProductoRepo(t *testing.T) (ProductoRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewProductoRepository(gormDB), mock, mockDB
}

func TestIDsOrdenados(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	c := uuid.MustParse("ffffffff-0000-0000-0000-000000000000")

	assert.Equal(t, []uuid.UUID{a, b, c}, IDsOrdenados([]uuid.UUID{c, a, b, a, c}))
	assert.Empty(t, IDsOrdenados(nil))
}

func TestLockForUpdateTx(t *testing.T) {
	repo, mock, mockDB := newMockProductoRepo(t)
	defer mockDB.Close()

	a, b := uuid.New(), uuid.New()
	rows := sqlmock.NewRows([]string{"id", "nombre", "stock", "umbral_stock_bajo"}).
		AddRow(a.String(), "Harina", "10.000", "5.000").
		AddRow(b.String(), "Azúcar", "2.500", "1.000")
	mock.ExpectQuery(`SELECT \* FROM "productos" WHERE id IN \(\$1,\$2\) ORDER BY id FOR UPDATE`).
		WillReturnRows(rows)

	bloqueados, err := repo.LockForUpdateTx(repo.DB(), IDsOrdenados([]uuid.UUID{a, b}))

	require.NoError(t, err)
	require.Len(t, bloqueados, 2)
	assert.Equal(t, "Harina", bloqueados[a].Nombre)
	assert.True(t, bloqueados[b].Stock.Equal(decimal.RequireFromString("2.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockForUpdateTx_SinIDsNoConsulta(t *testing.T) {
	repo, mock, mockDB := newMockProductoRepo(t)
	defer mockDB.Close()

	bloqueados, err := repo.LockForUpdateTx(repo.DB(), nil)

	require.NoError(t, err)
	assert.Empty(t, bloqueados)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStockTx(t *testing.T) {
	repo, mock, mockDB := newMockProductoRepo(t)
	defer mockDB.Close()

	mock.ExpectExec(`UPDATE "productos" SET "stock"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetStockTx(repo.DB(), uuid.New(), decimal.NewFromInt(7)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStockBajo(t *testing.T) {
	repo, mock, mockDB := newMockProductoRepo(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "productos" WHERE stock <= umbral_stock_bajo ORDER BY nombre ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "stock", "umbral_stock_bajo"}).
			AddRow(uuid.NewString(), "Harina", "1", "5"))

	productos, err := repo.ListStockBajo(context.Background())

	require.NoError(t, err)
	require.Len(t, productos, 1)
	assert.True(t, productos[0].StockBajo())
	assert.NoError(t, mock.ExpectationsWereMet())
}
