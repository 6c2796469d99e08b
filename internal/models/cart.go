package models

import "time"

// Cart is a user's shopping cart. There is at most one cart per user;
// the unique index on UserID makes concurrent first-access creation safe.
// A cart is never deleted, only emptied at checkout.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items     []CartItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
}

// Total is the live cart total, computed from current product prices.
// Distinct from an order total, which freezes prices at checkout.
// Items and their products must be loaded.
func (c *Cart) Total() float64 {
	var total float64
	for i := range c.Items {
		total += c.Items[i].Subtotal()
	}
	return total
}

// CartItem is a single product line in a cart. One line per product,
// enforced by the composite unique index.
type CartItem struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string   `json:"cart_id" gorm:"uniqueIndex:idx_cart_product;type:varchar(36)"`
	ProductID string   `json:"product_id" gorm:"uniqueIndex:idx_cart_product;type:varchar(36)"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `json:"quantity"`
}

// Subtotal is quantity times the product's current price.
func (i *CartItem) Subtotal() float64 {
	if i.Product == nil {
		return 0
	}
	return i.Product.Price * float64(i.Quantity)
}
