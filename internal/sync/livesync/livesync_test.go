package livesync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brewline/queue/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLister is an in-memory order store that intentionally returns orders
// unsorted, so the tests cover the hub's own re-sorting.
type fakeLister struct {
	mu     sync.Mutex
	orders []order.Order
	err    error
}

func (f *fakeLister) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	var result []order.Order
	for _, o := range f.orders {
		if len(filter.BusinessIds) > 0 && o.BusinessID != filter.BusinessIds[0] {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

func (f *fakeLister) add(o order.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, o)
}

func (f *fakeLister) markServed(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = order.StatusServed
		}
	}
}

func receiveSnapshot(t *testing.T, sub *Subscription) []order.Order {
	t.Helper()
	select {
	case snapshot := <-sub.Snapshots():
		return snapshot
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestHub_DeliversSortedSnapshotsOnEveryChange(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	lister := &fakeLister{}
	lister.add(order.Order{ID: 1, BusinessID: 1, Status: order.StatusPending, CreatedAt: now})

	hub := NewHub(lister)
	defer hub.Close()

	sub := hub.Subscribe(ctx, 1)
	defer sub.Close()

	initial := receiveSnapshot(t, sub)
	require.Len(t, initial, 1)

	// Insert out of creation order; the snapshot must still be createdAt
	// descending.
	lister.add(order.Order{ID: 3, BusinessID: 1, Status: order.StatusPending, CreatedAt: now.Add(2 * time.Minute)})
	lister.add(order.Order{ID: 2, BusinessID: 1, Status: order.StatusPending, CreatedAt: now.Add(time.Minute)})
	hub.Notify(ctx, 1)

	snapshot := receiveSnapshot(t, sub)
	require.Len(t, snapshot, 3)
	assert.Equal(t, int64(3), snapshot[0].ID)
	assert.Equal(t, int64(2), snapshot[1].ID)
	assert.Equal(t, int64(1), snapshot[2].ID)

	lister.markServed(1)
	hub.Notify(ctx, 1)

	snapshot = receiveSnapshot(t, sub)
	require.Len(t, snapshot, 3)
	assert.Equal(t, order.StatusServed, snapshot[2].Status)
}

func TestHub_FiltersByBusiness(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	lister := &fakeLister{}
	lister.add(order.Order{ID: 1, BusinessID: 1, CreatedAt: now})
	lister.add(order.Order{ID: 2, BusinessID: 2, CreatedAt: now})

	hub := NewHub(lister)
	defer hub.Close()

	sub := hub.Subscribe(ctx, 1)
	defer sub.Close()

	snapshot := receiveSnapshot(t, sub)
	require.Len(t, snapshot, 1)
	assert.Equal(t, int64(1), snapshot[0].ID)
}

func TestHub_SlowConsumerGetsLatestSnapshot(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	lister := &fakeLister{}
	hub := NewHub(lister)
	defer hub.Close()

	sub := hub.Subscribe(ctx, 1)
	defer sub.Close()
	receiveSnapshot(t, sub)

	// Two notifications without a read in between: the first snapshot is
	// superseded, not queued.
	lister.add(order.Order{ID: 1, BusinessID: 1, CreatedAt: now})
	hub.Notify(ctx, 1)
	lister.add(order.Order{ID: 2, BusinessID: 1, CreatedAt: now.Add(time.Minute)})
	hub.Notify(ctx, 1)

	snapshot := receiveSnapshot(t, sub)
	assert.Len(t, snapshot, 2)
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	ctx := context.Background()

	lister := &fakeLister{}
	hub := NewHub(lister)
	defer hub.Close()

	sub := hub.Subscribe(ctx, 1)
	receiveSnapshot(t, sub)

	sub.Close()

	_, open := <-sub.Snapshots()
	assert.False(t, open, "snapshot channel should be closed after Close")

	// Idempotent, and notifying afterwards must not panic.
	sub.Close()
	hub.Notify(ctx, 1)
}

func TestSubscription_CloseAfterHubClose(t *testing.T) {
	lister := &fakeLister{}
	hub := NewHub(lister)

	sub := hub.Subscribe(context.Background(), 1)
	receiveSnapshot(t, sub)

	hub.Close()
	sub.Close()

	_, open := <-sub.Snapshots()
	assert.False(t, open)
}

func TestHub_ErrorsGoToHandlerAndSubscriptionSurvives(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	lister := &fakeLister{}
	var handlerErrs []error
	hub := NewHub(lister, WithErrorHandler(func(_ int64, err error) {
		handlerErrs = append(handlerErrs, err)
	}))
	defer hub.Close()

	sub := hub.Subscribe(ctx, 1)
	defer sub.Close()
	receiveSnapshot(t, sub)

	lister.mu.Lock()
	lister.err = errors.New("store unreachable")
	lister.mu.Unlock()
	hub.Notify(ctx, 1)

	require.Len(t, handlerErrs, 1)

	// The subscription keeps delivering once the store recovers.
	lister.mu.Lock()
	lister.err = nil
	lister.mu.Unlock()
	lister.add(order.Order{ID: 1, BusinessID: 1, CreatedAt: now})
	hub.Notify(ctx, 1)

	snapshot := receiveSnapshot(t, sub)
	assert.Len(t, snapshot, 1)
}
