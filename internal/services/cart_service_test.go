package services_test

import (
	"testing"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"

	"github.com/stretchr/testify/assert"
)

func newCartFixture(t *testing.T) (*services.CartService, *repositories.MockProductRepository, *repositories.MockCartRepository, models.Product) {
	t.Helper()

	productRepo := repositories.NewMockProductRepository()
	cartRepo := repositories.NewMockCartRepository(productRepo)

	product := models.Product{Name: "Laptop", Slug: "laptop", Price: 1200.00, Stock: 10, IsActive: true}
	assert.NoError(t, productRepo.Create(&product))

	return services.NewCartService(cartRepo, productRepo), productRepo, cartRepo, product
}

func TestCartService_GetCart_CreatesLazily(t *testing.T) {
	cartService, _, _, _ := newCartFixture(t)

	cart, err := cartService.GetCart("user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, cart.ID)
	assert.Empty(t, cart.Items)

	// A second call returns the same cart, not a new one.
	again, err := cartService.GetCart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_AddItem(t *testing.T) {
	cartService, _, _, product := newCartFixture(t)

	// New line item starts at exactly the requested quantity.
	cart, err := cartService.AddItem("user-1", product.ID, 2)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// Adding the same product again increments the existing line item
	// instead of creating a second one.
	cart, err = cartService.AddItem("user-1", product.ID, 3)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	cartService, _, _, _ := newCartFixture(t)

	_, err := cartService.AddItem("user-1", "no-such-product", 1)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	// The failed add must not have created a line item.
	cart, err := cartService.GetCart("user-1")
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_Total_TracksLivePrices(t *testing.T) {
	cartService, productRepo, _, product := newCartFixture(t)

	mouse := models.Product{Name: "Mouse", Slug: "mouse", Price: 25.00, Stock: 50, IsActive: true}
	assert.NoError(t, productRepo.Create(&mouse))

	_, err := cartService.AddItem("user-1", product.ID, 1)
	assert.NoError(t, err)
	cart, err := cartService.AddItem("user-1", mouse.ID, 4)
	assert.NoError(t, err)
	assert.Equal(t, 1200.00+4*25.00, cart.Total())

	// The cart total follows the current catalog price.
	product.Price = 1000.00
	assert.NoError(t, productRepo.Create(&product))

	cart, err = cartService.GetCart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 1000.00+4*25.00, cart.Total())
}

func TestCartService_RemoveItem(t *testing.T) {
	cartService, _, _, product := newCartFixture(t)

	cart, err := cartService.AddItem("user-1", product.ID, 1)
	assert.NoError(t, err)
	itemID := cart.Items[0].ID

	assert.NoError(t, cartService.RemoveItem("user-1", itemID))

	cart, err = cartService.GetCart("user-1")
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Removing it again reports not found.
	assert.ErrorIs(t, cartService.RemoveItem("user-1", itemID), services.ErrCartItemNotFound)
}

func TestCartService_RemoveItem_OtherUsersItem(t *testing.T) {
	cartService, _, _, product := newCartFixture(t)

	cart, err := cartService.AddItem("user-1", product.ID, 1)
	assert.NoError(t, err)
	itemID := cart.Items[0].ID

	// user-2 has a cart of their own, but the item lives in user-1's.
	_, err = cartService.GetCart("user-2")
	assert.NoError(t, err)
	err = cartService.RemoveItem("user-2", itemID)
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)

	// user-1's cart is untouched.
	cart, err = cartService.GetCart("user-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}
