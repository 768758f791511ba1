package livesync

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/brewline/queue/internal/service/models/order"
)

// orderLister is the slice of the order repository the hub needs.
type orderLister interface {
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

// ErrorHandler receives failures from snapshot recomputation. Failures never
// terminate a subscription; subscribers simply keep their last snapshot until
// the next successful refresh.
type ErrorHandler func(businessID int64, err error)

// Hub fans out full order-list snapshots to subscribers per business. Every
// order-change notification triggers a complete re-read and re-sort; there is
// no incremental diffing. Snapshots are delivered latest-wins: a slow
// consumer skips intermediate states but never observes a stale snapshot
// after a fresh one.
type Hub struct {
	mu      sync.Mutex
	lister  orderLister
	subs    map[int64]map[*Subscription]struct{}
	onError ErrorHandler
	closed  bool
}

// option is a function that configures the Hub.
type option func(*Hub)

// NewHub creates a new live sync hub.
func NewHub(lister orderLister, opts ...option) *Hub {
	h := &Hub{
		lister: lister,
		subs:   make(map[int64]map[*Subscription]struct{}),
		onError: func(businessID int64, err error) {
			slog.Error("Live sync snapshot refresh failed", "business_id", businessID, "error", err)
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// WithErrorHandler overrides the default error handler.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithErrorHandler(handler ErrorHandler) option {
	return func(h *Hub) {
		h.onError = handler
	}
}

// Subscription is a standing watch on one business's order list. Snapshots()
// yields the full, createdAt-descending order list after every change. The
// channel is closed when the subscription or the hub shuts down.
type Subscription struct {
	hub        *Hub
	businessID int64
	snapshots  chan []order.Order
	closeOnce  sync.Once
}

// Snapshots returns the snapshot delivery channel.
func (s *Subscription) Snapshots() <-chan []order.Order {
	return s.snapshots
}

// Close terminates delivery and releases the subscription. Safe to call
// multiple times and after the hub has shut down.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	s.hub.removeLocked(s)
	s.hub.mu.Unlock()

	// The once must not hold the hub lock: Hub.Close fires it while the
	// lock is already held.
	s.closeOnce.Do(func() {
		close(s.snapshots)
	})
}

// Subscribe registers a watch on the given business and primes it with the
// current snapshot.
func (h *Hub) Subscribe(ctx context.Context, businessID int64) *Subscription {
	sub := &Subscription{
		hub:        h,
		businessID: businessID,
		snapshots:  make(chan []order.Order, 1),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.snapshots)
		return sub
	}
	if h.subs[businessID] == nil {
		h.subs[businessID] = make(map[*Subscription]struct{})
	}
	h.subs[businessID][sub] = struct{}{}
	h.mu.Unlock()

	if snapshot, err := h.snapshot(ctx, businessID); err != nil {
		h.onError(businessID, err)
	} else {
		h.deliver(businessID, snapshot, sub)
	}

	return sub
}

// Notify recomputes the snapshot for a business and fans it out to every
// subscriber. Called by the order-events consumer on each underlying change.
func (h *Hub) Notify(ctx context.Context, businessID int64) {
	h.mu.Lock()
	hasSubs := len(h.subs[businessID]) > 0
	h.mu.Unlock()
	if !hasSubs {
		return
	}

	snapshot, err := h.snapshot(ctx, businessID)
	if err != nil {
		h.onError(businessID, err)
		return
	}

	h.deliver(businessID, snapshot)
}

// Close shuts down the hub and closes every subscription channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true

	for _, subs := range h.subs {
		for sub := range subs {
			sub.closeOnce.Do(func() {
				close(sub.snapshots)
			})
		}
	}
	h.subs = make(map[int64]map[*Subscription]struct{})
}

// snapshot re-reads the business's full order list and sorts it newest first.
// Sorting happens here rather than in the store query so the snapshot shape
// does not depend on store-side ordering.
func (h *Hub) snapshot(ctx context.Context, businessID int64) ([]order.Order, error) {
	orders, err := h.lister.Query(ctx, &order.QueryOrdersModel{
		BusinessIds: []int64{businessID},
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

// deliver pushes a snapshot to the given subscriptions, or to every
// subscriber of the business when none are specified. Full channels are
// drained first so the latest snapshot always wins.
func (h *Hub) deliver(businessID int64, snapshot []order.Order, only ...*Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	targets := only
	if len(targets) == 0 {
		for sub := range h.subs[businessID] {
			targets = append(targets, sub)
		}
	}

	for _, sub := range targets {
		if _, ok := h.subs[businessID][sub]; !ok {
			continue
		}
		select {
		case sub.snapshots <- snapshot:
		default:
			select {
			case <-sub.snapshots:
			default:
			}
			sub.snapshots <- snapshot
		}
	}
}

// removeLocked detaches a subscription. Caller holds h.mu.
func (h *Hub) removeLocked(s *Subscription) {
	subs := h.subs[s.businessID]
	delete(subs, s)
	if len(subs) == 0 {
		delete(h.subs, s.businessID)
	}
}
