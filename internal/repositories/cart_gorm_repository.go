package repositories

import (
	"errors"
	"fmt"

	"shopapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUserID retrieves a user's cart with items and products loaded.
func (r *GORMCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Items.Product").
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// GetOrCreate returns the user's cart, creating an empty one if absent.
// Two concurrent first-requests may both attempt the insert; the unique
// index on user_id rejects the loser, which then reads the winner's row.
func (r *GORMCartRepository) GetOrCreate(userID string) (*models.Cart, error) {
	cart, err := r.GetByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	fresh := &models.Cart{ID: uuid.New().String(), UserID: userID}
	if createErr := r.db.Create(fresh).Error; createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			// Lost the creation race; the cart exists now.
			return r.GetByUserID(userID)
		}
		return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, createErr)
	}
	fresh.Items = []models.CartItem{}
	return fresh, nil
}

// GetItem retrieves the line item for a product within a cart.
func (r *GORMCartRepository) GetItem(cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item for product %s: %w", productID, err)
	}
	return &item, nil
}

// SaveItem inserts a new line item or updates an existing one.
func (r *GORMCartRepository) SaveItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Save(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("cart item: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

// RemoveItem deletes a line item scoped to the owning cart. The cart_id
// predicate is what prevents cross-user deletion.
func (r *GORMCartRepository) RemoveItem(cartID, itemID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ? AND cart_id = ?", itemID, cartID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}
	return nil
}
