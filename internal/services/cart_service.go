package services

import (
	"errors"
	"fmt"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// CartService handles business logic for the shopping cart.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// AddItem puts quantity units of a product into the user's cart. An
// existing line item for the product is incremented by quantity; a new
// line item starts at exactly quantity. Stock is not checked here; it is
// informational at the catalog level only.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.Cart, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	item, err := s.cartRepo.GetItem(cart.ID, product.ID)
	switch {
	case err == nil:
		item.Quantity += quantity
		if err := s.cartRepo.SaveItem(item); err != nil {
			return nil, err
		}
	case errors.Is(err, repositories.ErrNotFound):
		newItem := &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.SaveItem(newItem); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.cartRepo.GetByUserID(userID)
}

// RemoveItem deletes a line item from the user's cart. An item ID that
// exists but belongs to another user's cart is reported as not found.
func (s *CartService) RemoveItem(userID, itemID string) error {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}

	if err := s.cartRepo.RemoveItem(cart.ID, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	return nil
}
