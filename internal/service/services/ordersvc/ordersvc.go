package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brewline/queue/internal/dal/interfaces/ibusiness"
	"github.com/brewline/queue/internal/dal/interfaces/iorder"
	"github.com/brewline/queue/internal/dal/interfaces/ioutbox"
	"github.com/brewline/queue/internal/dal/postgres"
	"github.com/brewline/queue/internal/dal/uow"
	"github.com/brewline/queue/internal/service/models/event"
	"github.com/brewline/queue/internal/service/models/order"
	"github.com/brewline/queue/internal/service/models/outbox"
	"github.com/brewline/queue/internal/service/pickup"
	"github.com/brewline/queue/internal/service/queue"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

var (
	ErrBusinessNotFound   = errors.New("business not found")
	ErrBusinessInactive   = errors.New("business is deactivated")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyServed = errors.New("order is already served")
)

// OrderService is a service for managing orders and their pickup schedule.
type OrderService struct {
	pgClient   *postgres.Client
	interval   time.Duration
	clock      func() time.Time
	uowFactory func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	OrderRepository() iorder.Repository
	BusinessRepository() ibusiness.Locker
	OutboxRepository() ioutbox.Repository
}

func (s *OrderService) newUOW() unitOfWork {
	if s.uowFactory != nil {
		return s.uowFactory()
	}
	return uow.NewUnitOfWork(s.pgClient)
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		interval: pickup.DefaultInterval,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithInterval overrides the per-order service interval.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithInterval(interval time.Duration) option {
	return func(s *OrderService) {
		s.interval = interval
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(clock func() time.Time) option {
	return func(s *OrderService) {
		s.clock = clock
	}
}

// WithUnitOfWorkFactory overrides unit-of-work construction.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.uowFactory = factory
	}
}

// CreateOrder schedules and stores a new order. The pickup slot is reserved
// inside a transaction that holds the business row lock, so two concurrent
// submissions to the same business can never compute overlapping slots from
// stale state.
func (s *OrderService) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	ctx, span := otel.Tracer("queue-svc").Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	now := s.clock()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}

	b, err := work.BusinessRepository().LockByID(ctx, o.BusinessID)
	if err != nil {
		_ = work.Rollback()
		return order.Order{}, err
	}
	if b == nil {
		_ = work.Rollback()
		return order.Order{}, ErrBusinessNotFound
	}
	if !b.IsActive {
		_ = work.Rollback()
		return order.Order{}, ErrBusinessInactive
	}

	pending, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{
		BusinessIds: []int64{o.BusinessID},
		Statuses:    []order.Status{order.StatusPending},
	})
	if err != nil {
		_ = work.Rollback()
		return order.Order{}, err
	}

	o.PickupTime = pickup.NextPickupTime(pending, now, s.interval)
	o.Status = order.StatusPending
	o.CreatedAt = now
	o.UpdatedAt = now

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		_ = work.Rollback()
		return order.Order{}, err
	}

	if err := enqueueOrderChanged(ctx, work.OutboxRepository(), event.TypeOrderCreated, inserted, now); err != nil {
		_ = work.Rollback()
		return order.Order{}, err
	}

	if err := work.Commit(); err != nil {
		return order.Order{}, err
	}

	return inserted, nil
}

// MarkServed transitions an order from pending to served. The transition is
// one-way: serving an already served order fails with ErrOrderAlreadyServed.
func (s *OrderService) MarkServed(ctx context.Context, orderID int64) (order.Order, error) {
	ctx, span := otel.Tracer("queue-svc").Start(ctx, "OrderService.MarkServed")
	defer span.End()

	now := s.clock()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}

	updated, err := work.OrderRepository().MarkServed(ctx, orderID, now)
	if err != nil {
		_ = work.Rollback()
		return order.Order{}, err
	}
	if updated == nil {
		existing, err := work.OrderRepository().GetByID(ctx, orderID)
		_ = work.Rollback()
		if err != nil {
			return order.Order{}, err
		}
		if existing == nil {
			return order.Order{}, ErrOrderNotFound
		}

		return order.Order{}, ErrOrderAlreadyServed
	}

	if err := enqueueOrderChanged(ctx, work.OutboxRepository(), event.TypeOrderServed, *updated, now); err != nil {
		_ = work.Rollback()
		return order.Order{}, err
	}

	if err := work.Commit(); err != nil {
		return order.Order{}, err
	}

	return *updated, nil
}

// GetOrder retrieves a single order, or nil if it does not exist.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	return s.newUOW().OrderRepository().GetByID(ctx, orderID)
}

// GetOrders retrieves orders based on filter, newest first.
func (s *OrderService) GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
	ctx, span := otel.Tracer("queue-svc").Start(ctx, "OrderService.GetOrders")
	defer span.End()

	return s.newUOW().OrderRepository().Query(ctx, &filter)
}

// GetQueue splits the business's full order list into pending and served
// subsets for the admin view.
func (s *OrderService) GetQueue(ctx context.Context, businessID int64) (queue.View, error) {
	orders, err := s.GetOrders(ctx, order.QueryOrdersModel{BusinessIds: []int64{businessID}})
	if err != nil {
		return queue.View{}, err
	}

	return queue.Partition(orders), nil
}

// enqueueOrderChanged stages an order-change event in the same transaction as
// the mutation it describes.
func enqueueOrderChanged(
	ctx context.Context,
	outboxRepo ioutbox.Repository,
	eventType event.Type,
	o order.Order,
	now time.Time,
) error {
	payload, err := json.Marshal(event.OrderChanged{
		Type:       eventType,
		OrderID:    o.ID,
		BusinessID: o.BusinessID,
		OccurredAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	queueName := viper.GetString("rabbitmq.queue")
	if queueName == "" {
		queueName = "order-events"
	}
	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	return outboxRepo.Insert(ctx, outbox.Message{
		QueueName:   queueName,
		RoutingKey:  queueName,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
}
