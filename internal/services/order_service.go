package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/pkg/rabbitmq"

	"github.com/google/uuid"
)

// OrderService handles order listing and the checkout transition from
// cart to order.
type OrderService struct {
	orderRepo repositories.OrderRepository
	cartRepo  repositories.CartRepository
	mqClient  *rabbitmq.Client
}

// NewOrderService creates a new OrderService. mqClient may be nil, in
// which case order events are not published.
func NewOrderService(orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		mqClient:  mqClient,
	}
}

// GetUserOrders retrieves the user's orders, newest first.
func (s *OrderService) GetUserOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetAllByUser(userID)
}

// Checkout converts the user's cart into an order.
//
// Preconditions, first failure wins: the cart must exist, must contain
// at least one line item, and the shipping address must be non-blank.
// The transition itself runs inside one storage transaction: the order
// and its items are created with the product prices frozen at this
// instant, then every cart line item is deleted. The cart row survives,
// empty. Stock is never decremented. Two checkouts racing over the same
// cart cannot both succeed: the transaction must consume one cart row
// per order item or it rolls back, and the loser sees ErrCartEmpty.
func (s *OrderService) Checkout(userID, shippingAddress string) (*models.Order, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, ErrShippingAddressMissing
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	var total float64
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product == nil {
			return nil, fmt.Errorf("cart item %s: product %s is gone", item.ID, item.ProductID)
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price, // frozen snapshot
		})
		total += item.Product.Price * float64(item.Quantity)
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		TotalPrice:      total,
		ShippingAddress: shippingAddress,
		Items:           items,
	}

	if err := s.orderRepo.CreateFromCart(order, cart.ID); err != nil {
		// A concurrent checkout emptied the cart between our read and
		// the transaction. The loser sees an empty cart.
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishOrderCreated(order)

	return s.orderRepo.GetByID(order.ID)
}

// UpdateOrderStatus moves an order to a new lifecycle status.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	if !models.ValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// publishOrderCreated emits an order.created event. Publishing is best
// effort: a broker failure is logged and never fails the checkout, which
// has already committed.
func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.mqClient == nil {
		return
	}

	event := map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.TotalPrice,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	if err := s.mqClient.Publish(rabbitmq.OrderExchange, "order.created", body); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
	}
}
