package repositories

import (
	"sort"
	"sync"
	"time"

	"kitab/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository. It
// resolves item books through a MockBookRepository so reloaded carts carry
// current prices, the way the GORM preload does.
type MockCartRepository struct {
	carts map[string]models.Cart
	items map[string]models.CartItem
	books *MockBookRepository
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository(books *MockBookRepository) *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
		items: make(map[string]models.CartItem),
		books: books,
	}
}

// GetOrCreateByUser returns or lazily creates the user's cart.
func (r *MockCartRepository) GetOrCreateByUser(userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.carts {
		if c.UserID != nil && *c.UserID == userID {
			return &c, nil
		}
	}
	cart := models.Cart{ID: uuid.New().String(), UserID: &userID}
	r.carts[cart.ID] = cart
	return &cart, nil
}

// GetOrCreateByAnonymous returns or lazily creates the anonymous cart.
func (r *MockCartRepository) GetOrCreateByAnonymous(anonymousUserID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.carts {
		if c.AnonymousUserID != nil && *c.AnonymousUserID == anonymousUserID {
			return &c, nil
		}
	}
	cart := models.Cart{ID: uuid.New().String(), AnonymousUserID: &anonymousUserID}
	r.carts[cart.ID] = cart
	return &cart, nil
}

// Reload returns the cart with items and their books attached.
func (r *MockCartRepository) Reload(cartID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cart.Items = nil
	for _, item := range r.items {
		if item.CartID != cartID {
			continue
		}
		if r.books != nil {
			if book, err := r.books.GetByID(item.BookID); err == nil {
				item.Book = book
			}
		}
		cart.Items = append(cart.Items, item)
	}
	sort.Slice(cart.Items, func(i, j int) bool {
		return cart.Items[i].AddedAt.Before(cart.Items[j].AddedAt)
	})
	return &cart, nil
}

// GetItem returns a cart item scoped to the cart.
func (r *MockCartRepository) GetItem(cartID, itemID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok || item.CartID != cartID {
		return nil, models.ErrNotFound
	}
	if r.books != nil {
		if book, err := r.books.GetByID(item.BookID); err == nil {
			item.Book = book
		}
	}
	return &item, nil
}

// GetItemByBook returns the line for a book in a cart, or ErrNotFound.
func (r *MockCartRepository) GetItemByBook(cartID, bookID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.CartID == cartID && item.BookID == bookID {
			return &item, nil
		}
	}
	return nil, models.ErrNotFound
}

// CreateItem adds a new line.
func (r *MockCartRepository) CreateItem(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	r.items[item.ID] = *item
	return nil
}

// UpdateItemQuantity sets the absolute quantity of a line.
func (r *MockCartRepository) UpdateItemQuantity(itemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok {
		return models.ErrNotFound
	}
	item.Quantity = quantity
	r.items[itemID] = item
	return nil
}

// DeleteItem removes a line; absent lines are ignored.
func (r *MockCartRepository) DeleteItem(itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, itemID)
	return nil
}

// ClearItems empties a cart. Also used by MockOrderRepository to simulate
// the placement transaction.
func (r *MockCartRepository) ClearItems(cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.CartID == cartID {
			delete(r.items, id)
		}
	}
	return nil
}
