package repositories

import (
	"errors"
	"fmt"
	"time"

	"kitab/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Place runs the whole cart-to-order conversion in one transaction. The stock
// decrement is a conditional update guarded on remaining stock, so two
// concurrent placements cannot oversell: the loser's update touches zero rows
// and the transaction rolls back.
func (r *GORMOrderRepository) Place(order *models.Order, cartID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if order.ID == "" {
			order.ID = uuid.New().String()
		}

		items := order.Items
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		history := models.OrderStatusHistory{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			Status:    models.OrderStatusPending,
			Notes:     "order created",
			CreatedBy: order.UserID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record order status: %w", err)
		}

		for i := range items {
			items[i].ID = uuid.New().String()
			items[i].OrderID = order.ID
			items[i].Book = nil
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			res := tx.Model(&models.Book{}).
				Where("id = ? AND stock_quantity >= ?", items[i].BookID, items[i].Quantity).
				Updates(map[string]interface{}{
					"stock_quantity": gorm.Expr("stock_quantity - ?", items[i].Quantity),
					"sales_count":    gorm.Expr("sales_count + ?", items[i].Quantity),
				})
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for book %s: %w", items[i].BookID, res.Error)
			}
			if res.RowsAffected == 0 {
				var book models.Book
				available := 0
				title := items[i].BookID
				if err := tx.Select("title", "stock_quantity").First(&book, "id = ?", items[i].BookID).Error; err == nil {
					available = book.StockQuantity
					title = book.Title
				}
				return &models.OutOfStockError{BookTitle: title, Available: available}
			}
		}

		if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
			return fmt.Errorf("failed to empty cart %s: %w", cartID, err)
		}

		order.Items = items
		return nil
	})
}

// GetByID returns an order with lines, books and status history preloaded.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items").
		Preload("Items.Book").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// ListByOwner returns the orders owned by a user or an anonymous identity,
// newest first.
func (r *GORMOrderRepository) ListByOwner(userID, anonymousUserID string) ([]models.Order, error) {
	q := r.db.Preload("Items").Preload("Items.Book").Order("created_at desc")
	switch {
	case userID != "":
		q = q.Where("user_id = ?", userID)
	case anonymousUserID != "":
		q = q.Where("anonymous_user_id = ?", anonymousUserID)
	default:
		return nil, nil
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus transitions the order and appends a history entry.
func (r *GORMOrderRepository) UpdateStatus(id, status, notes string, actorID *string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		now := time.Now()
		switch status {
		case models.OrderStatusShipped:
			updates["shipped_at"] = &now
		case models.OrderStatusDelivered:
			updates["delivered_at"] = &now
		}

		res := tx.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update order %s status: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}

		history := models.OrderStatusHistory{
			ID:        uuid.New().String(),
			OrderID:   id,
			Status:    status,
			Notes:     notes,
			CreatedBy: actorID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record order status: %w", err)
		}
		return nil
	})
}
