package pickup

import (
	"testing"
	"time"

	"github.com/brewline/queue/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func pendingOrder(id int64, createdAt, pickupTime time.Time) order.Order {
	return order.Order{
		ID:         id,
		BusinessID: 1,
		Status:     order.StatusPending,
		CreatedAt:  createdAt,
		PickupTime: pickupTime,
	}
}

func TestNextPickupTime(t *testing.T) {
	now := base

	tests := []struct {
		name     string
		orders   []order.Order
		expected time.Time
	}{
		{
			name:     "empty_queue_schedules_from_now",
			orders:   nil,
			expected: now.Add(5 * time.Minute),
		},
		{
			name: "latest_pending_in_future_extends_queue",
			orders: []order.Order{
				pendingOrder(1, now.Add(-2*time.Minute), now.Add(5*time.Minute)),
				pendingOrder(2, now.Add(-1*time.Minute), now.Add(10*time.Minute)),
			},
			expected: now.Add(15 * time.Minute),
		},
		{
			name: "latest_pending_in_past_schedules_from_now",
			orders: []order.Order{
				pendingOrder(1, now.Add(-time.Hour), now.Add(-55*time.Minute)),
			},
			expected: now.Add(5 * time.Minute),
		},
		{
			name: "served_orders_are_ignored",
			orders: []order.Order{
				{
					ID:         1,
					Status:     order.StatusServed,
					CreatedAt:  now.Add(-time.Minute),
					PickupTime: now.Add(30 * time.Minute),
				},
				pendingOrder(2, now.Add(-2*time.Minute), now.Add(10*time.Minute)),
			},
			expected: now.Add(15 * time.Minute),
		},
		{
			name: "latest_created_wins_over_latest_pickup_time",
			orders: []order.Order{
				pendingOrder(1, now.Add(-1*time.Minute), now.Add(7*time.Minute)),
				pendingOrder(2, now.Add(-3*time.Minute), now.Add(20*time.Minute)),
			},
			expected: now.Add(12 * time.Minute),
		},
		{
			name: "unsorted_input_is_handled",
			orders: []order.Order{
				pendingOrder(3, now.Add(-1*time.Minute), now.Add(15*time.Minute)),
				pendingOrder(1, now.Add(-5*time.Minute), now.Add(5*time.Minute)),
				pendingOrder(2, now.Add(-3*time.Minute), now.Add(10*time.Minute)),
			},
			expected: now.Add(20 * time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPickupTime(tt.orders, now, DefaultInterval)
			assert.True(t, got.Equal(tt.expected), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestNextPickupTime_SequentialSubmissionsAreMonotonic(t *testing.T) {
	now := base
	var orders []order.Order

	var prev time.Time
	for i := 0; i < 20; i++ {
		pickupTime := NextPickupTime(orders, now, DefaultInterval)
		if i > 0 {
			assert.False(t, pickupTime.Before(prev), "pickup time went backwards at submission %d", i)
		}
		prev = pickupTime

		orders = append(orders, pendingOrder(int64(i+1), now, pickupTime))
		now = now.Add(30 * time.Second)
	}
}

// Reproduces the reference scenario: interval 5m, now 10:00. A schedules at
// 10:05, B right after at 10:10; A is served, so C bases on B and lands at
// 10:15.
func TestNextPickupTime_ServedOrderIsSkippedMidQueue(t *testing.T) {
	now := base

	pickupA := NextPickupTime(nil, now, DefaultInterval)
	require.True(t, pickupA.Equal(now.Add(5*time.Minute)))
	a := pendingOrder(1, now, pickupA)

	pickupB := NextPickupTime([]order.Order{a}, now, DefaultInterval)
	require.True(t, pickupB.Equal(now.Add(10*time.Minute)))
	b := pendingOrder(2, now.Add(time.Second), pickupB)

	a.Status = order.StatusServed

	pickupC := NextPickupTime([]order.Order{a, b}, now, DefaultInterval)
	assert.True(t, pickupC.Equal(now.Add(15*time.Minute)))
}
