package cacherepo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brewline/queue/internal/service/models/business"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBusinessRepo struct {
	byID     map[int64]*business.Business
	getCalls int
}

func (f *fakeBusinessRepo) Insert(_ context.Context, b business.Business) (business.Business, error) {
	f.byID[b.ID] = &b
	return b, nil
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, id int64) (*business.Business, error) {
	f.getCalls++
	return f.byID[id], nil
}

func (f *fakeBusinessRepo) GetByAdminID(_ context.Context, adminID string) (*business.Business, error) {
	for _, b := range f.byID {
		if b.AdminID == adminID {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBusinessRepo) ListActive(_ context.Context) ([]business.Business, error) {
	return nil, nil
}

func (f *fakeBusinessRepo) Deactivate(_ context.Context, id int64) error {
	if b, ok := f.byID[id]; ok {
		b.IsActive = false
	}
	return nil
}

func newCacheUnderTest(t *testing.T) (*CachedBusinessRepository, *fakeBusinessRepo) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &fakeBusinessRepo{byID: map[int64]*business.Business{
		7: {ID: 7, Name: "Cafe Central", AdminID: "admin-1", IsActive: true},
	}}

	return NewCachedBusinessRepository(inner, client, time.Minute), inner
}

func TestCachedBusinessRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo, inner := newCacheUnderTest(t)

	first, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Cafe Central", first.Name)
	assert.Equal(t, 1, inner.getCalls)

	second, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, inner.getCalls, "second read should be served from cache")
}

func TestCachedBusinessRepository_MissingBusinessIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo, inner := newCacheUnderTest(t)

	missing, err := repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.getCalls)
}

func TestCachedBusinessRepository_DeactivateInvalidates(t *testing.T) {
	ctx := context.Background()
	repo, inner := newCacheUnderTest(t)

	_, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(ctx, 7))

	after, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.False(t, after.IsActive)
	assert.Equal(t, 2, inner.getCalls, "deactivate should drop the cached entry")
}
