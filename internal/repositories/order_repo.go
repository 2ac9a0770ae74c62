package repositories

import (
	"kitab/internal/models"
)

// OrderRepository defines data access for orders and their status history.
type OrderRepository interface {
	// Place persists the order, its pre-built lines and the initial status
	// history entry, decrements book stock with a guarded update, and empties
	// the source cart — all inside one transaction. A failed stock guard
	// surfaces as *models.OutOfStockError and rolls everything back.
	Place(order *models.Order, cartID string) error

	GetByID(id string) (*models.Order, error)
	ListByOwner(userID, anonymousUserID string) ([]models.Order, error)

	// UpdateStatus transitions the order and appends a history entry in one
	// transaction. shipped_at / delivered_at are stamped on those statuses.
	UpdateStatus(id, status, notes string, actorID *string) error
}
