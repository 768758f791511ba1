package cacherepo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/brewline/queue/internal/dal/interfaces/ibusiness"
	"github.com/brewline/queue/internal/service/models/business"
	"github.com/redis/go-redis/v9"
)

// CachedBusinessRepository wraps a business repository with a Redis
// read-through cache on point reads. Businesses change rarely (created once,
// deactivated at most once), so a short TTL plus invalidation on writes is
// enough. Cache failures fall back to the underlying repository.
type CachedBusinessRepository struct {
	inner  ibusiness.Repository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedBusinessRepository(
	inner ibusiness.Repository,
	client *redis.Client,
	ttl time.Duration,
) *CachedBusinessRepository {
	return &CachedBusinessRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

func businessKey(id int64) string {
	return "business:" + strconv.FormatInt(id, 10)
}

// GetByID serves from cache when possible. A missing business is not cached,
// so a registration right after a miss becomes visible immediately.
func (r *CachedBusinessRepository) GetByID(ctx context.Context, id int64) (*business.Business, error) {
	payload, err := r.client.Get(ctx, businessKey(id)).Bytes()
	if err == nil {
		var b business.Business
		if err := json.Unmarshal(payload, &b); err == nil {
			return &b, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("Business cache read failed", "business_id", id, "error", err)
	}

	b, err := r.inner.GetByID(ctx, id)
	if err != nil || b == nil {
		return b, err
	}

	if payload, err := json.Marshal(b); err == nil {
		if err := r.client.Set(ctx, businessKey(id), payload, r.ttl).Err(); err != nil {
			slog.Warn("Business cache write failed", "business_id", id, "error", err)
		}
	}

	return b, nil
}

func (r *CachedBusinessRepository) Insert(ctx context.Context, b business.Business) (business.Business, error) {
	return r.inner.Insert(ctx, b)
}

func (r *CachedBusinessRepository) GetByAdminID(ctx context.Context, adminID string) (*business.Business, error) {
	return r.inner.GetByAdminID(ctx, adminID)
}

func (r *CachedBusinessRepository) ListActive(ctx context.Context) ([]business.Business, error) {
	return r.inner.ListActive(ctx)
}

// Deactivate invalidates the cached entry so the soft-delete is observed on
// the next read.
func (r *CachedBusinessRepository) Deactivate(ctx context.Context, id int64) error {
	if err := r.inner.Deactivate(ctx, id); err != nil {
		return err
	}

	if err := r.client.Del(ctx, businessKey(id)).Err(); err != nil {
		slog.Warn("Business cache invalidation failed", "business_id", id, "error", err)
	}

	return nil
}
