package services_test

import (
	"testing"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"

	"github.com/stretchr/testify/assert"
)

type orderFixture struct {
	orderService *services.OrderService
	cartService  *services.CartService
	productRepo  *repositories.MockProductRepository
	orderRepo    *repositories.MockOrderRepository
	laptop       models.Product
	mouse        models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	productRepo := repositories.NewMockProductRepository()
	cartRepo := repositories.NewMockCartRepository(productRepo)
	orderRepo := repositories.NewMockOrderRepository()
	orderRepo.Carts = cartRepo

	laptop := models.Product{Name: "Laptop", Slug: "laptop", Price: 1200.00, Stock: 10, IsActive: true}
	mouse := models.Product{Name: "Mouse", Slug: "mouse", Price: 25.00, Stock: 50, IsActive: true}
	assert.NoError(t, productRepo.Create(&laptop))
	assert.NoError(t, productRepo.Create(&mouse))

	return &orderFixture{
		orderService: services.NewOrderService(orderRepo, cartRepo, nil),
		cartService:  services.NewCartService(cartRepo, productRepo),
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		laptop:       laptop,
		mouse:        mouse,
	}
}

func TestOrderService_Checkout(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.cartService.AddItem("user-1", f.laptop.ID, 1)
	assert.NoError(t, err)
	_, err = f.cartService.AddItem("user-1", f.mouse.ID, 2)
	assert.NoError(t, err)

	order, err := f.orderService.Checkout("user-1", "1 Main St, Springfield")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "1 Main St, Springfield", order.ShippingAddress)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 1200.00+2*25.00, order.TotalPrice)

	// The order total equals the sum of its item subtotals.
	var sum float64
	for i := range order.Items {
		sum += order.Items[i].Subtotal()
	}
	assert.Equal(t, order.TotalPrice, sum)

	// The cart survives, emptied.
	cart, err := f.cartService.GetCart("user-1")
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Exactly one order exists for the user.
	orders, err := f.orderService.GetUserOrders("user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestOrderService_Checkout_FreezesPrices(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.cartService.AddItem("user-1", f.laptop.ID, 2)
	assert.NoError(t, err)

	order, err := f.orderService.Checkout("user-1", "1 Main St")
	assert.NoError(t, err)
	assert.Equal(t, 2400.00, order.TotalPrice)

	// A later catalog price change must not touch the order.
	f.laptop.Price = 999.00
	assert.NoError(t, f.productRepo.Create(&f.laptop))

	stored, err := f.orderRepo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2400.00, stored.TotalPrice)
	assert.Equal(t, 1200.00, stored.Items[0].Price)
	assert.Equal(t, 2400.00, stored.Items[0].Subtotal())
}

func TestOrderService_Checkout_Preconditions(t *testing.T) {
	f := newOrderFixture(t)

	// No cart at all.
	_, err := f.orderService.Checkout("user-1", "1 Main St")
	assert.ErrorIs(t, err, services.ErrCartEmpty)

	// Cart exists but is empty.
	_, err = f.cartService.GetCart("user-1")
	assert.NoError(t, err)
	_, err = f.orderService.Checkout("user-1", "1 Main St")
	assert.ErrorIs(t, err, services.ErrCartEmpty)

	// Blank shipping address, checked after the cart.
	_, err = f.cartService.AddItem("user-1", f.laptop.ID, 1)
	assert.NoError(t, err)
	_, err = f.orderService.Checkout("user-1", "   ")
	assert.ErrorIs(t, err, services.ErrShippingAddressMissing)

	// None of the failures created an order or touched the cart.
	orders, err := f.orderService.GetUserOrders("user-1")
	assert.NoError(t, err)
	assert.Empty(t, orders)
	cart, err := f.cartService.GetCart("user-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestOrderService_Checkout_StaleCartReplay(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.cartService.AddItem("user-1", f.laptop.ID, 1)
	assert.NoError(t, err)
	cart, err := f.cartService.GetCart("user-1")
	assert.NoError(t, err)

	_, err = f.orderService.Checkout("user-1", "1 Main St")
	assert.NoError(t, err)

	// An order built from the pre-checkout cart read must be refused:
	// its cart items were already consumed by the first checkout.
	stale := &models.Order{
		UserID:          "user-1",
		Status:          models.OrderStatusPending,
		TotalPrice:      1200.00,
		ShippingAddress: "1 Main St",
		Items: []models.OrderItem{
			{ProductID: f.laptop.ID, Quantity: 1, Price: 1200.00},
		},
	}
	err = f.orderRepo.CreateFromCart(stale, cart.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	orders, err := f.orderService.GetUserOrders("user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderService_Checkout_DeactivatedProduct(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.cartService.AddItem("user-1", f.laptop.ID, 1)
	assert.NoError(t, err)

	// Deactivating the product between add and checkout leaves the cart
	// line without a resolvable product; checkout fails without minting
	// an order.
	f.laptop.IsActive = false
	assert.NoError(t, f.productRepo.Create(&f.laptop))

	_, err = f.orderService.Checkout("user-1", "1 Main St")
	assert.Error(t, err)

	orders, err := f.orderService.GetUserOrders("user-1")
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_GetUserOrders_NewestFirst(t *testing.T) {
	f := newOrderFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.cartService.AddItem("user-1", f.mouse.ID, 1)
		assert.NoError(t, err)
		_, err = f.orderService.Checkout("user-1", "1 Main St")
		assert.NoError(t, err)
	}

	orders, err := f.orderService.GetUserOrders("user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 3)
	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i-1].CreatedAt.Before(orders[i].CreatedAt))
	}

	// Other users see nothing.
	others, err := f.orderService.GetUserOrders("user-2")
	assert.NoError(t, err)
	assert.Empty(t, others)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.cartService.AddItem("user-1", f.mouse.ID, 1)
	assert.NoError(t, err)
	order, err := f.orderService.Checkout("user-1", "1 Main St")
	assert.NoError(t, err)

	assert.NoError(t, f.orderService.UpdateOrderStatus(order.ID, models.OrderStatusShipped))
	stored, err := f.orderRepo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, stored.Status)

	assert.ErrorIs(t, f.orderService.UpdateOrderStatus(order.ID, "teleported"), services.ErrInvalidOrderStatus)
	assert.ErrorIs(t, f.orderService.UpdateOrderStatus("no-such-order", models.OrderStatusShipped), services.ErrOrderNotFound)
}
