package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusReturned   = "returned"
)

// OrderStatuses enumerates every valid order status.
var OrderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusConfirmed:  true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
	OrderStatusReturned:   true,
}

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// PaymentMethods enumerates the accepted payment methods.
var PaymentMethods = map[string]bool{
	"cash":          true,
	"card":          true,
	"bank_transfer": true,
	"online":        true,
}

// Order is a placed order. Money fields and the delivery fields are snapshots
// taken at creation time; later catalog or address edits never change them.
type Order struct {
	ID              string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber     string  `json:"order_number" gorm:"uniqueIndex;type:varchar(20)"`
	UserID          *string `json:"user_id,omitempty" gorm:"type:varchar(36);index"`
	AnonymousUserID *string `json:"anonymous_user_id,omitempty" gorm:"type:varchar(36);index"`

	Status        string `json:"status" gorm:"type:varchar(20);default:pending"`
	PaymentStatus string `json:"payment_status" gorm:"type:varchar(20);default:pending"`
	PaymentMethod string `json:"payment_method" gorm:"type:varchar(20);default:cash"`

	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2)"`
	ShippingCost   decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(10,2);default:0"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(10,2);default:0"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2)"`

	DeliveryName    string `json:"delivery_name" gorm:"type:varchar(200)"`
	DeliveryPhone   string `json:"delivery_phone" gorm:"type:varchar(20)"`
	DeliveryAddress string `json:"delivery_address"`

	Notes      string `json:"notes"`
	AdminNotes string `json:"-"`

	Items         []OrderItem          `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// OrderItem is one order line. Price is the unit price frozen at the moment
// the cart was converted; catalog price changes never touch it.
type OrderItem struct {
	ID       string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID  string          `json:"-" gorm:"type:varchar(36);index"`
	BookID   string          `json:"book_id" gorm:"type:varchar(36)"`
	Book     *Book           `json:"book,omitempty" gorm:"foreignKey:BookID"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
}

// LineTotal is the frozen unit price times the quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistory is an append-only log entry recorded on every status
// change. Rows are never mutated or deleted.
type OrderStatusHistory struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string    `json:"-" gorm:"type:varchar(36);index"`
	Status    string    `json:"status" gorm:"type:varchar(20)"`
	Notes     string    `json:"notes"`
	CreatedBy *string   `json:"created_by,omitempty" gorm:"type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}
