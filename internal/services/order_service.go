package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"kitab/internal/models"
	"kitab/internal/repositories"
	"kitab/pkg/mailer"
	"kitab/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceOrderRequest carries the checkout payload. The delivery fields are
// snapshotted onto the order; later address edits never change past orders.
type PlaceOrderRequest struct {
	DeliveryName    string `json:"delivery_name" validate:"required,max=200"`
	DeliveryPhone   string `json:"delivery_phone" validate:"required,max=20"`
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer online"`
	Notes           string `json:"notes"`
}

// OrderService handles business logic for order placement and lifecycle.
type OrderService struct {
	orderRepo repositories.OrderRepository
	cartRepo  repositories.CartRepository
	userRepo  repositories.UserRepository
	mqClient  *rabbitmq.Client
	mailPool  *mailer.Pool
}

// NewOrderService creates a new OrderService. mqClient and mailPool may be
// nil; event publishing and confirmation emails are then skipped.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	userRepo repositories.UserRepository,
	mqClient *rabbitmq.Client,
	mailPool *mailer.Pool,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		mqClient:  mqClient,
		mailPool:  mailPool,
	}
}

// newOrderNumber generates the human-readable unique order number.
func newOrderNumber() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return "KS" + token
}

// PlaceOrder converts the caller's cart into an order. The conversion — order
// row, initial status event, line snapshots, guarded stock decrements and
// cart emptying — happens atomically in the repository; any failure leaves no
// partial effects. Event publishing and the confirmation email run after the
// commit and are best-effort.
func (s *OrderService) PlaceOrder(id Identity, req PlaceOrderRequest) (*models.Order, error) {
	if req.DeliveryName == "" || req.DeliveryPhone == "" || req.DeliveryAddress == "" {
		return nil, models.ErrIncompleteDeliveryInfo
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cash"
	}
	if !models.PaymentMethods[req.PaymentMethod] {
		return nil, fmt.Errorf("invalid payment method: %s", req.PaymentMethod)
	}

	cart, err := resolveCart(s.cartRepo, s.userRepo, id)
	if err != nil {
		return nil, err
	}
	cart, err = s.cartRepo.Reload(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, models.ErrEmptyCart
	}

	userID, anonymousUserID, err := resolveOwner(s.userRepo, id)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		if line.Book == nil {
			return nil, fmt.Errorf("cart line %s references a missing book", line.ID)
		}
		// Unit price frozen at the moment of conversion.
		items = append(items, models.OrderItem{
			BookID:   line.BookID,
			Quantity: line.Quantity,
			Price:    line.Book.Price,
		})
		subtotal = subtotal.Add(line.Book.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		AnonymousUserID: anonymousUserID,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        subtotal,
		ShippingCost:    decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TotalAmount:     subtotal,
		DeliveryName:    req.DeliveryName,
		DeliveryPhone:   req.DeliveryPhone,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Items:           items,
	}

	if err := s.orderRepo.Place(order, cart.ID); err != nil {
		return nil, err
	}

	s.publishOrderCreated(order)
	s.sendConfirmation(order)

	return s.orderRepo.GetByID(order.ID)
}

// ListOrders returns the caller's orders, newest first.
func (s *OrderService) ListOrders(id Identity) ([]models.Order, error) {
	userID, anonymousUserID, err := resolveOwner(s.userRepo, id)
	if err != nil {
		return nil, err
	}
	uid, aid := "", ""
	if userID != nil {
		uid = *userID
	}
	if anonymousUserID != nil {
		aid = *anonymousUserID
	}
	return s.orderRepo.ListByOwner(uid, aid)
}

// GetOrder returns one of the caller's orders. Orders belonging to someone
// else surface as not found.
func (s *OrderService) GetOrder(id Identity, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !s.owns(id, order) {
		return nil, models.ErrNotFound
	}
	return order, nil
}

// UpdateStatus transitions an order and appends a status history entry. Only
// the order's owner may move it; anyone else sees not found, the same as
// GetOrder.
func (s *OrderService) UpdateStatus(orderID, status, notes string, actor Identity) error {
	if !models.OrderStatuses[status] {
		return fmt.Errorf("%w: %s", models.ErrInvalidOrderStatus, status)
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if !s.owns(actor, order) {
		return models.ErrNotFound
	}
	var actorID *string
	if actor.IsAuthenticated() {
		uid := actor.UserID
		actorID = &uid
	}
	if err := s.orderRepo.UpdateStatus(orderID, status, notes, actorID); err != nil {
		return err
	}

	if s.mqClient != nil {
		body, err := json.Marshal(map[string]interface{}{
			"orderID": orderID,
			"status":  status,
		})
		if err == nil {
			if err := s.mqClient.Publish("order.status_changed", body); err != nil {
				log.Printf("Warning: Failed to publish status change for order %s: %v", orderID, err)
			}
		}
	}
	return nil
}

func (s *OrderService) owns(id Identity, order *models.Order) bool {
	if id.IsAuthenticated() {
		return order.UserID != nil && *order.UserID == id.UserID
	}
	if order.AnonymousUserID == nil {
		return false
	}
	anon, err := s.userRepo.GetOrCreateAnonymous(id.DeviceID)
	if err != nil {
		return false
	}
	return *order.AnonymousUserID == anon.ID
}

func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"status":      order.Status,
		"total":       order.TotalAmount,
	})
	if err != nil {
		log.Printf("Failed to marshal order to JSON: %v", err)
		return
	}
	if err := s.mqClient.Publish("order.created", body); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %s: %v", order.OrderNumber, err)
	}
}

// sendConfirmation emails the buyer when we know an address. Guests check
// out without an email, so there is nothing to send for them.
func (s *OrderService) sendConfirmation(order *models.Order) {
	if s.mailPool == nil || order.UserID == nil {
		return
	}
	user, err := s.userRepo.GetByID(*order.UserID)
	if err != nil {
		log.Printf("Warning: Failed to load user for order confirmation %s: %v", order.OrderNumber, err)
		return
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour order %s has been received.\nTotal: %s\n\nThank you for shopping with us.",
		user.FullName(), order.OrderNumber, order.TotalAmount.StringFixed(2),
	)
	errs := s.mailPool.SendAll(mailer.Email{
		To:      user.Email,
		Subject: fmt.Sprintf("Order %s received", order.OrderNumber),
		Body:    body,
	})
	if errs[0] != nil {
		log.Printf("Warning: Failed to send confirmation for order %s: %v", order.OrderNumber, errs[0])
	}
}
