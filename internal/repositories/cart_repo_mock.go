package repositories

import (
	"fmt"
	"sync"

	"shopapi/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// Products lets it resolve line items to live product data the way the
// GORM implementation preloads them.
type MockCartRepository struct {
	carts map[string]models.Cart // keyed by cart ID
	items map[string]models.CartItem
	mu    sync.RWMutex

	Products *MockProductRepository
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository(products *MockProductRepository) *MockCartRepository {
	return &MockCartRepository{
		carts:    make(map[string]models.Cart),
		items:    make(map[string]models.CartItem),
		Products: products,
	}
}

// GetByUserID returns the user's cart with items and products attached.
func (r *MockCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cart := range r.carts {
		if cart.UserID == userID {
			return r.loadCart(cart), nil
		}
	}
	return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
}

// GetOrCreate returns the user's cart, creating an empty one if absent.
func (r *MockCartRepository) GetOrCreate(userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cart := range r.carts {
		if cart.UserID == userID {
			return r.loadCart(cart), nil
		}
	}
	cart := models.Cart{ID: uuid.New().String(), UserID: userID}
	r.carts[cart.ID] = cart
	return r.loadCart(cart), nil
}

// GetItem returns the line item for a product within a cart.
func (r *MockCartRepository) GetItem(cartID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.CartID == cartID && item.ProductID == productID {
			found := item
			return &found, nil
		}
	}
	return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
}

// SaveItem inserts or updates a line item.
func (r *MockCartRepository) SaveItem(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = *item
	return nil
}

// RemoveItem deletes a line item only when it belongs to the given cart.
func (r *MockCartRepository) RemoveItem(cartID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok || item.CartID != cartID {
		return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}
	delete(r.items, itemID)
	return nil
}

// clearItems drops every line item of a cart and reports how many rows
// went away. MockOrderRepository compares the count against the order's
// items to mirror the checkout transaction's stale-cart guard.
func (r *MockCartRepository) clearItems(cartID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, item := range r.items {
		if item.CartID == cartID {
			delete(r.items, id)
			removed++
		}
	}
	return removed
}

// loadCart attaches items and their products; callers hold the lock.
func (r *MockCartRepository) loadCart(cart models.Cart) *models.Cart {
	cart.Items = []models.CartItem{}
	for _, item := range r.items {
		if item.CartID != cart.ID {
			continue
		}
		if r.Products != nil {
			if product, err := r.Products.GetByID(item.ProductID); err == nil {
				item.Product = product
			}
		}
		cart.Items = append(cart.Items, item)
	}
	return &cart
}
