package services_test

import (
	"testing"

	"kitab/internal/models"
	"kitab/internal/repositories"
	"kitab/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newCartFixture(t *testing.T) (*services.CartService, *repositories.MockBookRepository) {
	t.Helper()
	bookRepo := repositories.NewMockBookRepository()
	cartRepo := repositories.NewMockCartRepository(bookRepo)
	userRepo := repositories.NewMockUserRepository()
	return services.NewCartService(cartRepo, bookRepo, userRepo), bookRepo
}

func seedBook(t *testing.T, repo *repositories.MockBookRepository, id string, price int64, stock int) {
	t.Helper()
	err := repo.Create(&models.Book{
		ID:            id,
		Title:         "Book " + id,
		Slug:          "book-" + id,
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
		IsActive:      true,
	})
	assert.NoError(t, err)
}

func TestCartService_GetCart_CreatesEmptyCart(t *testing.T) {
	service, _ := newCartFixture(t)

	cart, err := service.GetCart(services.Identity{DeviceID: "device-1"})
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.True(t, cart.TotalPrice.IsZero())

	// The same device resolves to the same cart.
	again, err := service.GetCart(services.Identity{DeviceID: "device-1"})
	assert.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_AddItem_MergesLines(t *testing.T) {
	service, bookRepo := newCartFixture(t)
	seedBook(t, bookRepo, "b1", 10, 10)
	id := services.Identity{DeviceID: "device-1"}

	cart, err := service.AddItem(id, "b1", 2)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// Adding the same book again increments the existing line.
	cart, err = service.AddItem(id, "b1", 3)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.TotalItems)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(50)), "got %s", cart.TotalPrice)
}

func TestCartService_AddItem_StockCeilingCoversCombinedQuantity(t *testing.T) {
	service, bookRepo := newCartFixture(t)
	seedBook(t, bookRepo, "b1", 10, 5)
	id := services.Identity{DeviceID: "device-1"}

	_, err := service.AddItem(id, "b1", 3)
	assert.NoError(t, err)

	// 3 already in the cart, stock is 5: another 3 would exceed the shelf.
	_, err = service.AddItem(id, "b1", 3)
	var oos *models.OutOfStockError
	assert.ErrorAs(t, err, &oos)
	assert.Equal(t, 5, oos.Available)

	// The failed add leaves the cart unchanged.
	cart, err := service.GetCart(id)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartService_AddItem_UnknownBook(t *testing.T) {
	service, _ := newCartFixture(t)

	_, err := service.AddItem(services.Identity{DeviceID: "device-1"}, "missing", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCartService_UpdateItem_ZeroRemovesLine(t *testing.T) {
	service, bookRepo := newCartFixture(t)
	seedBook(t, bookRepo, "b1", 10, 10)
	id := services.Identity{DeviceID: "device-1"}

	cart, err := service.AddItem(id, "b1", 2)
	assert.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = service.UpdateItem(id, itemID, 4)
	assert.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	cart, err = service.UpdateItem(id, itemID, 0)
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_UpdateItem_RespectsStock(t *testing.T) {
	service, bookRepo := newCartFixture(t)
	seedBook(t, bookRepo, "b1", 10, 4)
	id := services.Identity{DeviceID: "device-1"}

	cart, err := service.AddItem(id, "b1", 2)
	assert.NoError(t, err)

	_, err = service.UpdateItem(id, cart.Items[0].ID, 9)
	var oos *models.OutOfStockError
	assert.ErrorAs(t, err, &oos)
}

func TestCartService_RemoveItem_Idempotent(t *testing.T) {
	service, bookRepo := newCartFixture(t)
	seedBook(t, bookRepo, "b1", 10, 10)
	id := services.Identity{DeviceID: "device-1"}

	cart, err := service.AddItem(id, "b1", 1)
	assert.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = service.RemoveItem(id, itemID)
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Removing the same line again still succeeds.
	cart, err = service.RemoveItem(id, itemID)
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_ClearCart(t *testing.T) {
	service, bookRepo := newCartFixture(t)
	seedBook(t, bookRepo, "b1", 10, 10)
	seedBook(t, bookRepo, "b2", 7, 5)
	id := services.Identity{DeviceID: "device-1"}

	_, err := service.AddItem(id, "b1", 2)
	assert.NoError(t, err)
	cart, err := service.AddItem(id, "b2", 1)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 2)

	cart, err = service.ClearCart(id)
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.True(t, cart.TotalPrice.IsZero())

	// Clearing an already empty cart still succeeds.
	cart, err = service.ClearCart(id)
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_CartsAreScopedToIdentity(t *testing.T) {
	service, bookRepo := newCartFixture(t)
	seedBook(t, bookRepo, "b1", 10, 10)

	_, err := service.AddItem(services.Identity{DeviceID: "device-1"}, "b1", 2)
	assert.NoError(t, err)

	other, err := service.GetCart(services.Identity{DeviceID: "device-2"})
	assert.NoError(t, err)
	assert.Empty(t, other.Items)
}
