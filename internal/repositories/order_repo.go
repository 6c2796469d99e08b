package repositories

import (
	"shopapi/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// GetAllByUser returns the user's orders newest-first, items loaded.
	GetAllByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	// CreateFromCart persists the order with its items and deletes every
	// line item of the given cart, all inside one transaction. Either the
	// order exists and the cart is empty, or neither happened. ErrNotFound
	// when the cart no longer holds one row per order item, i.e. a
	// concurrent checkout got there first.
	CreateFromCart(order *models.Order, cartID string) error
	UpdateStatus(id string, status string) error
}
