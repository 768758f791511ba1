package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/brewline/queue/internal/service/models/coffee"
	"github.com/brewline/queue/internal/service/models/order"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// OrderDal represents order data access layer model
type OrderDal struct {
	Id                  int64     `db:"id"`
	BusinessId          int64     `db:"business_id"`
	Name                string    `db:"name"`
	CoffeeType          string    `db:"coffee_type"`
	Size                string    `db:"size"`
	SpecialInstructions string    `db:"special_instructions"`
	PickupTime          time.Time `db:"pickup_time"`
	Status              string    `db:"status"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model
func (o *OrderDal) ToModel() (*order.Order, error) {
	coffeeType, err := coffee.ParseType(o.CoffeeType)
	if err != nil {
		return nil, err
	}
	size, err := coffee.ParseSize(o.Size)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:                  o.Id,
		BusinessID:          o.BusinessId,
		Name:                o.Name,
		CoffeeType:          coffeeType,
		Size:                size,
		SpecialInstructions: o.SpecialInstructions,
		PickupTime:          o.PickupTime,
		Status:              status,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}, nil
}

var orderColumns = []string{
	"id",
	"business_id",
	"name",
	"coffee_type",
	"size",
	"special_instructions",
	"pickup_time",
	"status",
	"created_at",
	"updated_at",
}

type PostgresOrderRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresOrderRepository(conn sqlx.ExtContext) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert inserts a single order and returns it with the store-assigned id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns(
			"business_id",
			"name",
			"coffee_type",
			"size",
			"special_instructions",
			"pickup_time",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			o.BusinessID,
			o.Name,
			o.CoffeeType.String(),
			o.Size.String(),
			o.SpecialInstructions,
			o.PickupTime,
			o.Status.String(),
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRowxContext(ctx, query, args...).Scan(&o.ID); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// GetByID retrieves a single order, or nil if it does not exist.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	if err := r.conn.QueryRowxContext(ctx, query, args...).StructScan(&dal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return dal.ToModel()
}

// Query retrieves orders based on filter criteria, newest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Expr("id = ANY(?)", pq.Array(filter.Ids)))
	}
	if len(filter.BusinessIds) > 0 {
		builder = builder.Where(sq.Expr("business_id = ANY(?)", pq.Array(filter.BusinessIds)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = s.String()
		}
		builder = builder.Where(sq.Expr("status = ANY(?)", pq.Array(statuses)))
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		if err := rows.StructScan(&dal); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// MarkServed flips a pending order to served and returns the updated row.
// Returns nil when the order does not exist or is already served, so the
// pending -> served transition can never run twice.
func (r *PostgresOrderRepository) MarkServed(ctx context.Context, id int64, servedAt time.Time) (*order.Order, error) {
	query, args, err := sq.Update("orders").
		Set("status", order.StatusServed.String()).
		Set("updated_at", servedAt).
		Where(sq.Eq{"id": id, "status": order.StatusPending.String()}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	var dal OrderDal
	if err := r.conn.QueryRowxContext(ctx, query, args...).StructScan(&dal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to mark order served: %w", err)
	}

	return dal.ToModel()
}
