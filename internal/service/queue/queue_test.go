package queue

import (
	"testing"
	"time"

	"github.com/brewline/queue/internal/service/models/order"
	"github.com/stretchr/testify/assert"
)

func TestPartition(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	orders := []order.Order{
		{ID: 1, Status: order.StatusPending, CreatedAt: now},
		{ID: 2, Status: order.StatusServed, CreatedAt: now.Add(time.Minute)},
		{ID: 3, Status: order.StatusPending, CreatedAt: now.Add(2 * time.Minute)},
		{ID: 4, Status: order.StatusServed, CreatedAt: now.Add(3 * time.Minute)},
	}

	view := Partition(orders)

	assert.Len(t, view.Pending, 2)
	assert.Len(t, view.Served, 2)
	assert.Equal(t, int64(1), view.Pending[0].ID)
	assert.Equal(t, int64(3), view.Pending[1].ID)
	assert.Equal(t, int64(2), view.Served[0].ID)
	assert.Equal(t, int64(4), view.Served[1].ID)
}

func TestPartition_UnionAndDisjointness(t *testing.T) {
	orders := []order.Order{
		{ID: 1, Status: order.StatusServed},
		{ID: 2, Status: order.StatusPending},
		{ID: 3, Status: order.StatusServed},
	}

	view := Partition(orders)

	seen := make(map[int64]int)
	for _, o := range view.Pending {
		seen[o.ID]++
	}
	for _, o := range view.Served {
		seen[o.ID]++
	}

	assert.Len(t, seen, len(orders))
	for id, count := range seen {
		assert.Equal(t, 1, count, "order %d appeared in both partitions", id)
	}
}

func TestPartition_IsStableUnderRederivation(t *testing.T) {
	orders := []order.Order{
		{ID: 1, Status: order.StatusPending},
		{ID: 2, Status: order.StatusServed},
	}

	first := Partition(orders)
	second := Partition(orders)

	assert.Equal(t, first, second)
}

func TestPartition_Empty(t *testing.T) {
	view := Partition(nil)

	assert.Empty(t, view.Pending)
	assert.Empty(t, view.Served)
}
