package postgresrepo

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/brewline/queue/internal/service/models/coffee"
	"github.com/brewline/queue/internal/service/models/order"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresOrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return NewPostgresOrderRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func orderRows(o OrderDal) *sqlmock.Rows {
	return sqlmock.NewRows(orderColumns).AddRow(
		o.Id,
		o.BusinessId,
		o.Name,
		o.CoffeeType,
		o.Size,
		o.SpecialInstructions,
		o.PickupTime,
		o.Status,
		o.CreatedAt,
		o.UpdatedAt,
	)
}

func TestMarkServedUpdatesPendingOrder(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	servedAt := now.Add(time.Minute)
	dal := OrderDal{
		Id:         11,
		BusinessId: 7,
		Name:       "Alice",
		CoffeeType: "Latte",
		Size:       "Medium",
		PickupTime: now.Add(5 * time.Minute),
		Status:     "served",
		CreatedAt:  now,
		UpdatedAt:  servedAt,
	}

	mock.ExpectQuery(`UPDATE orders SET status = \$1, updated_at = \$2 WHERE id = \$3 AND status = \$4 RETURNING`).
		WithArgs("served", servedAt, int64(11), "pending").
		WillReturnRows(orderRows(dal))

	served, err := repo.MarkServed(context.Background(), 11, servedAt)
	require.NoError(t, err)
	require.NotNil(t, served)
	assert.Equal(t, order.StatusServed, served.Status)
	assert.Equal(t, coffee.TypeLatte, served.CoffeeType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkServedReturnsNilWhenNoPendingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	servedAt := time.Now().UTC()
	mock.ExpectQuery(`UPDATE orders SET status = \$1, updated_at = \$2 WHERE id = \$3 AND status = \$4 RETURNING`).
		WithArgs("served", servedAt, int64(404), "pending").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	served, err := repo.MarkServed(context.Background(), 404, servedAt)
	require.NoError(t, err)
	assert.Nil(t, served)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDReturnsNilWhenMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	got, err := repo.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryOrdersNewestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	newer := OrderDal{
		Id: 2, BusinessId: 7, Name: "Bob", CoffeeType: "Espresso", Size: "Small",
		PickupTime: now.Add(10 * time.Minute), Status: "pending",
		CreatedAt: now.Add(time.Minute), UpdatedAt: now.Add(time.Minute),
	}
	older := OrderDal{
		Id: 1, BusinessId: 7, Name: "Alice", CoffeeType: "Latte", Size: "Medium",
		PickupTime: now.Add(5 * time.Minute), Status: "served",
		CreatedAt: now, UpdatedAt: now,
	}
	rows := orderRows(newer).AddRow(
		older.Id, older.BusinessId, older.Name, older.CoffeeType, older.Size,
		older.SpecialInstructions, older.PickupTime, older.Status,
		older.CreatedAt, older.UpdatedAt,
	)

	mock.ExpectQuery(`SELECT .* FROM orders WHERE business_id = ANY\(\$1\) ORDER BY created_at DESC`).
		WillReturnRows(rows)

	orders, err := repo.Query(context.Background(), &order.QueryOrdersModel{BusinessIds: []int64{7}})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(2), orders[0].ID)
	assert.Equal(t, int64(1), orders[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
