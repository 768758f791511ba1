package ibusiness

import (
	"context"

	"github.com/brewline/queue/internal/service/models/business"
)

// Repository is an interface for the business repository. Lookups return nil
// without an error when the business does not exist.
type Repository interface {
	Insert(ctx context.Context, b business.Business) (business.Business, error)
	GetByID(ctx context.Context, id int64) (*business.Business, error)
	// GetByAdminID returns the admin's active business, or nil. Deactivated
	// businesses do not count against the one-per-admin rule.
	GetByAdminID(ctx context.Context, adminID string) (*business.Business, error)
	ListActive(ctx context.Context) ([]business.Business, error)
	Deactivate(ctx context.Context, id int64) error
}

// Locker serializes order scheduling per business by taking a row lock for
// the duration of the surrounding transaction.
type Locker interface {
	Repository
	LockByID(ctx context.Context, id int64) (*business.Business, error)
}
