package event

import "time"

// Type identifies the kind of order mutation carried by an OrderChanged event.
type Type string

const (
	TypeOrderCreated Type = "order.created"
	TypeOrderServed  Type = "order.served"
)

// OrderChanged is published through the outbox whenever an order for a
// business is inserted or marked served. Consumers only need the business id
// to refresh their queue snapshot; the rest is carried for auditing.
type OrderChanged struct {
	Type       Type      `json:"type"`
	OrderID    int64     `json:"orderId"`
	BusinessID int64     `json:"businessId"`
	OccurredAt time.Time `json:"occurredAt"`
}
