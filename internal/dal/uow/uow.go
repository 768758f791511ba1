package uow

import (
	"context"

	"github.com/brewline/queue/internal/dal/interfaces/ibusiness"
	"github.com/brewline/queue/internal/dal/interfaces/iorder"
	"github.com/brewline/queue/internal/dal/interfaces/ioutbox"
	"github.com/brewline/queue/internal/dal/postgres"
	businessrepo "github.com/brewline/queue/internal/dal/repositories/business/postgres"
	orderrepo "github.com/brewline/queue/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/brewline/queue/internal/dal/repositories/outbox/postgres"

	"github.com/jmoiron/sqlx"
)

type unitOfWork struct {
	db           *sqlx.DB
	tx           *sqlx.Tx
	orderRepo    iorder.Repository
	businessRepo ibusiness.Locker
	outboxRepo   ioutbox.Repository
}

func NewUnitOfWork(db *postgres.Client) *unitOfWork {
	return &unitOfWork{
		db:           db.DB(),
		orderRepo:    orderrepo.NewPostgresOrderRepository(db.DB()),
		businessRepo: businessrepo.NewPostgresBusinessRepository(db.DB()),
		outboxRepo:   outboxrepo.NewOutboxRepository(db.DB()),
	}
}

func (u *unitOfWork) OrderRepository() iorder.Repository {
	return u.orderRepo
}

func (u *unitOfWork) BusinessRepository() ibusiness.Locker {
	return u.businessRepo
}

func (u *unitOfWork) OutboxRepository() ioutbox.Repository {
	return u.outboxRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.businessRepo = businessrepo.NewPostgresBusinessRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit()
}

func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback()
}
