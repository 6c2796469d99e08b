package repositories

import (
	"shopapi/internal/models"
)

// CartRepository defines the interface for cart data access. Carts are
// created lazily and never deleted; line items come and go.
type CartRepository interface {
	// GetByUserID returns the user's cart with items and their products
	// loaded, or ErrNotFound if the user has never had a cart.
	GetByUserID(userID string) (*models.Cart, error)
	// GetOrCreate returns the user's cart, creating an empty one on first
	// access. Safe against concurrent first-access: the unique constraint
	// on user_id turns the losing insert into a re-read.
	GetOrCreate(userID string) (*models.Cart, error)
	// GetItem returns the line item for a product in a cart, or ErrNotFound.
	GetItem(cartID, productID string) (*models.CartItem, error)
	// SaveItem inserts or updates a line item.
	SaveItem(item *models.CartItem) error
	// RemoveItem deletes a line item only if it belongs to the given cart;
	// ErrNotFound otherwise, even when the item ID exists in another cart.
	RemoveItem(cartID, itemID string) error
}
