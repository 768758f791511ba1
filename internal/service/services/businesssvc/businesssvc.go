package businesssvc

import (
	"context"
	"errors"
	"time"

	"github.com/brewline/queue/internal/dal/interfaces/ibusiness"
	"github.com/brewline/queue/internal/service/models/business"
	"go.opentelemetry.io/otel"
)

var (
	ErrBusinessNotFound  = errors.New("business not found")
	ErrAlreadyRegistered = errors.New("admin already has a registered business")
)

// BusinessService manages business registration and lookup.
type BusinessService struct {
	repo  ibusiness.Repository
	clock func() time.Time
}

// option is a function that configures the BusinessService.
type option func(*BusinessService)

// MustNewBusinessService creates a new BusinessService.
func MustNewBusinessService(opts ...option) *BusinessService {
	s := &BusinessService{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.repo == nil {
		panic("businesssvc: repository is not configured")
	}

	return s
}

// WithRepository sets the business repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo ibusiness.Repository) option {
	return func(s *BusinessService) {
		s.repo = repo
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(clock func() time.Time) option {
	return func(s *BusinessService) {
		s.clock = clock
	}
}

// Register creates a business for the given admin identity. Each admin owns
// at most one active business; the check here gives a clean error before the
// store's unique index would reject the insert.
func (s *BusinessService) Register(ctx context.Context, b business.Business) (business.Business, error) {
	ctx, span := otel.Tracer("queue-svc").Start(ctx, "BusinessService.Register")
	defer span.End()

	existing, err := s.repo.GetByAdminID(ctx, b.AdminID)
	if err != nil {
		return business.Business{}, err
	}
	if existing != nil {
		return business.Business{}, ErrAlreadyRegistered
	}

	b.CreatedAt = s.clock()
	b.IsActive = true

	return s.repo.Insert(ctx, b)
}

// GetByID retrieves a business, or nil if it does not exist.
func (s *BusinessService) GetByID(ctx context.Context, id int64) (*business.Business, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByAdminID retrieves the active business owned by the given identity,
// or nil.
func (s *BusinessService) GetByAdminID(ctx context.Context, adminID string) (*business.Business, error) {
	return s.repo.GetByAdminID(ctx, adminID)
}

// ListActive retrieves all active businesses, newest first.
func (s *BusinessService) ListActive(ctx context.Context) ([]business.Business, error) {
	return s.repo.ListActive(ctx)
}

// Deactivate soft-deletes a business. Its orders stay in place.
func (s *BusinessService) Deactivate(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("queue-svc").Start(ctx, "BusinessService.Deactivate")
	defer span.End()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrBusinessNotFound
	}

	return s.repo.Deactivate(ctx, id)
}
