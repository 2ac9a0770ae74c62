package repositories

import (
	"sort"
	"sync"
	"time"

	"kitab/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// mirrors the transactional behavior of the GORM implementation: Place checks
// every stock guard before applying any effect, so a failed guard leaves the
// books and the cart untouched.
type MockOrderRepository struct {
	orders  map[string]models.Order
	history map[string][]models.OrderStatusHistory
	books   *MockBookRepository
	carts   *MockCartRepository
	mu      sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(books *MockBookRepository, carts *MockCartRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:  make(map[string]models.Order),
		history: make(map[string][]models.OrderStatusHistory),
		books:   books,
		carts:   carts,
	}
}

// Place simulates the placement transaction.
func (r *MockOrderRepository) Place(order *models.Order, cartID string) error {
	// Guard every line first so nothing is applied on failure.
	for _, item := range order.Items {
		book, err := r.books.GetByID(item.BookID)
		if err != nil {
			return err
		}
		if book.StockQuantity < item.Quantity {
			return &models.OutOfStockError{BookTitle: book.Title, Available: book.StockQuantity}
		}
	}

	for i := range order.Items {
		book, err := r.books.GetByID(order.Items[i].BookID)
		if err != nil {
			return err
		}
		book.StockQuantity -= order.Items[i].Quantity
		book.SalesCount += order.Items[i].Quantity
		if err := r.books.Update(book); err != nil {
			return err
		}
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	r.mu.Lock()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	r.history[order.ID] = append(r.history[order.ID], models.OrderStatusHistory{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		Status:    models.OrderStatusPending,
		Notes:     "order created",
		CreatedBy: order.UserID,
		CreatedAt: time.Now(),
	})
	r.mu.Unlock()

	return r.carts.ClearItems(cartID)
}

// GetByID returns an order with its status history attached.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	order.StatusHistory = append([]models.OrderStatusHistory(nil), r.history[id]...)
	return &order, nil
}

// ListByOwner returns orders owned by a user or anonymous identity.
func (r *MockOrderRepository) ListByOwner(userID, anonymousUserID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, o := range r.orders {
		switch {
		case userID != "" && o.UserID != nil && *o.UserID == userID:
			orders = append(orders, o)
		case anonymousUserID != "" && o.AnonymousUserID != nil && *o.AnonymousUserID == anonymousUserID:
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// UpdateStatus transitions the order and appends a history entry.
func (r *MockOrderRepository) UpdateStatus(id, status, notes string, actorID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return models.ErrNotFound
	}
	order.Status = status
	now := time.Now()
	switch status {
	case models.OrderStatusShipped:
		order.ShippedAt = &now
	case models.OrderStatusDelivered:
		order.DeliveredAt = &now
	}
	order.UpdatedAt = now
	r.orders[id] = order
	r.history[id] = append(r.history[id], models.OrderStatusHistory{
		ID:        uuid.New().String(),
		OrderID:   id,
		Status:    status,
		Notes:     notes,
		CreatedBy: actorID,
		CreatedAt: now,
	})
	return nil
}
