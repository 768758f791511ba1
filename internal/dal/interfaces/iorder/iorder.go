package iorder

import (
	"context"
	"time"

	"github.com/brewline/queue/internal/service/models/order"
)

// Repository is an interface for the order postgres repository.
type Repository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	GetByID(ctx context.Context, id int64) (*order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	MarkServed(ctx context.Context, id int64, servedAt time.Time) (*order.Order, error)
}
