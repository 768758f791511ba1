package pickup

import (
	"time"

	"github.com/brewline/queue/internal/service/models/order"
)

// DefaultInterval is the fixed per-order service time of the queue.
const DefaultInterval = 5 * time.Minute

// NextPickupTime computes the pickup slot for a new order given the current
// order list of the same business. The base is the pickup time of the
// latest-created pending order when that time is still in the future,
// otherwise now; the result is base + interval. Served orders never influence
// the schedule, so per-business pickup times are non-decreasing as long as
// submissions are serialized.
func NextPickupTime(orders []order.Order, now time.Time, interval time.Duration) time.Time {
	base := now
	if last, ok := latestPending(orders); ok && last.PickupTime.After(now) {
		base = last.PickupTime
	}

	return base.Add(interval)
}

// latestPending returns the pending order with the greatest creation time.
// The input list does not have to be sorted.
func latestPending(orders []order.Order) (order.Order, bool) {
	var last order.Order
	found := false
	for _, o := range orders {
		if o.Status != order.StatusPending {
			continue
		}
		if !found || o.CreatedAt.After(last.CreatedAt) {
			last = o
			found = true
		}
	}

	return last, found
}
