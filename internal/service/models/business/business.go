package business

import "time"

// Business represents a registered coffee shop. AdminID is the identity
// provider's stable user id of the owner. Businesses are never deleted, only
// deactivated via IsActive.
type Business struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	AdminID    string    `json:"adminId"`
	AdminEmail string    `json:"adminEmail"`
	CreatedAt  time.Time `json:"createdAt"`
	IsActive   bool      `json:"isActive"`
}
