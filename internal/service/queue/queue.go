package queue

import (
	"github.com/brewline/queue/internal/service/models/order"
)

// View is the admin panel's split of a business queue.
type View struct {
	Pending []order.Order `json:"pending"`
	Served  []order.Order `json:"served"`
}

// Partition splits orders into pending and served subsets, preserving the
// relative order of the input. The subsets are disjoint and together contain
// every input order.
func Partition(orders []order.Order) View {
	view := View{
		Pending: make([]order.Order, 0, len(orders)),
		Served:  make([]order.Order, 0),
	}
	for _, o := range orders {
		switch o.Status {
		case order.StatusServed:
			view.Served = append(view.Served, o)
		default:
			view.Pending = append(view.Pending, o)
		}
	}

	return view
}
