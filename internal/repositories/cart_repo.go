package repositories

import (
	"kitab/internal/models"
)

// CartRepository defines data access for carts and cart items.
type CartRepository interface {
	// GetOrCreateByUser returns the user's cart, creating it on first use.
	GetOrCreateByUser(userID string) (*models.Cart, error)
	// GetOrCreateByAnonymous returns the anonymous identity's cart, creating
	// it on first use.
	GetOrCreateByAnonymous(anonymousUserID string) (*models.Cart, error)
	// Reload returns the cart with items and their books preloaded.
	Reload(cartID string) (*models.Cart, error)

	GetItem(cartID, itemID string) (*models.CartItem, error)
	GetItemByBook(cartID, bookID string) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID string, quantity int) error
	// DeleteItem is idempotent; deleting an absent item is not an error.
	DeleteItem(itemID string) error
	// ClearItems removes every line from the cart.
	ClearItems(cartID string) error
}
