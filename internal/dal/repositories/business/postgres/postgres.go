package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/brewline/queue/internal/service/models/business"
	"github.com/jmoiron/sqlx"
)

// BusinessDal represents business data access layer model
type BusinessDal struct {
	Id         int64     `db:"id"`
	Name       string    `db:"name"`
	AdminId    string    `db:"admin_id"`
	AdminEmail string    `db:"admin_email"`
	CreatedAt  time.Time `db:"created_at"`
	IsActive   bool      `db:"is_active"`
}

// ToModel converts BusinessDal to service layer Business model
func (b *BusinessDal) ToModel() *business.Business {
	return &business.Business{
		ID:         b.Id,
		Name:       b.Name,
		AdminID:    b.AdminId,
		AdminEmail: b.AdminEmail,
		CreatedAt:  b.CreatedAt,
		IsActive:   b.IsActive,
	}
}

var businessColumns = []string{
	"id",
	"name",
	"admin_id",
	"admin_email",
	"created_at",
	"is_active",
}

type PostgresBusinessRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresBusinessRepository(conn sqlx.ExtContext) *PostgresBusinessRepository {
	return &PostgresBusinessRepository{
		conn: conn,
	}
}

// Insert inserts a business and returns it with the store-assigned id.
func (r *PostgresBusinessRepository) Insert(ctx context.Context, b business.Business) (business.Business, error) {
	query, args, err := sq.Insert("businesses").
		Columns("name", "admin_id", "admin_email", "created_at", "is_active").
		Values(b.Name, b.AdminID, b.AdminEmail, b.CreatedAt, b.IsActive).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return business.Business{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRowxContext(ctx, query, args...).Scan(&b.ID); err != nil {
		return business.Business{}, fmt.Errorf("failed to insert business: %w", err)
	}

	return b, nil
}

// GetByID retrieves a single business, or nil if it does not exist.
func (r *PostgresBusinessRepository) GetByID(ctx context.Context, id int64) (*business.Business, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, "")
}

// LockByID retrieves a business and holds a row lock until the surrounding
// transaction completes. Order scheduling for a business is serialized
// through this lock.
func (r *PostgresBusinessRepository) LockByID(ctx context.Context, id int64) (*business.Business, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, "FOR UPDATE")
}

// GetByAdminID retrieves the active business owned by the given identity, or
// nil. Deactivated businesses are excluded so the owner can register a new
// one, matching the partial unique index on active rows.
func (r *PostgresBusinessRepository) GetByAdminID(ctx context.Context, adminID string) (*business.Business, error) {
	return r.getOne(ctx, sq.Eq{"admin_id": adminID, "is_active": true}, "")
}

func (r *PostgresBusinessRepository) getOne(ctx context.Context, where sq.Eq, suffix string) (*business.Business, error) {
	builder := sq.Select(businessColumns...).
		From("businesses").
		Where(where).
		PlaceholderFormat(sq.Dollar)
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal BusinessDal
	if err := r.conn.QueryRowxContext(ctx, query, args...).StructScan(&dal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	return dal.ToModel(), nil
}

// ListActive retrieves all active businesses, newest first.
func (r *PostgresBusinessRepository) ListActive(ctx context.Context) ([]business.Business, error) {
	query, args, err := sq.Select(businessColumns...).
		From("businesses").
		Where(sq.Eq{"is_active": true}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query businesses: %w", err)
	}
	defer rows.Close()

	var result []business.Business
	for rows.Next() {
		var dal BusinessDal
		if err := rows.StructScan(&dal); err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Deactivate soft-deletes a business. The row and its orders stay in place.
func (r *PostgresBusinessRepository) Deactivate(ctx context.Context, id int64) error {
	query, args, err := sq.Update("businesses").
		Set("is_active", false).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to deactivate business: %w", err)
	}

	return nil
}
