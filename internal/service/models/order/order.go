package order

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/brewline/queue/internal/service/models/coffee"
)

// Status is the lifecycle state of an order. The only allowed transition is
// pending -> served; an order never goes back to pending and is never deleted.
type Status string

const (
	StatusPending Status = "pending"
	StatusServed  Status = "served"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusServed:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Order represents a customer order in a business queue. PickupTime is
// assigned once at creation and never recomputed; Status is the only field
// that changes afterwards.
type Order struct {
	ID                  int64       `json:"id"`
	BusinessID          int64       `json:"businessId"`
	Name                string      `json:"name"`
	CoffeeType          coffee.Type `json:"coffeeType"`
	Size                coffee.Size `json:"size"`
	SpecialInstructions string      `json:"specialInstructions,omitempty"`
	PickupTime          time.Time   `json:"pickupTime"`
	Status              Status      `json:"status"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}
