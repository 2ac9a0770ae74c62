package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a shopping cart owned by exactly one identity: a registered user or
// an anonymous (device-scoped) identity. It is created lazily on first use
// and emptied, not deleted, when an order is placed.
type Cart struct {
	ID              string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          *string `json:"user_id,omitempty" gorm:"type:varchar(36);uniqueIndex"`
	AnonymousUserID *string `json:"anonymous_user_id,omitempty" gorm:"type:varchar(36);uniqueIndex"`

	Items []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived fields, filled by Recalculate.
	TotalPrice decimal.Decimal `json:"total_price" gorm:"-"`
	TotalItems int             `json:"total_items" gorm:"-"`
}

// CartItem is one (book, quantity) row. At most one row exists per
// (cart, book) pair; adding the same book again increments the quantity.
type CartItem struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID   string `json:"-" gorm:"type:varchar(36);index:idx_cart_book,unique"`
	BookID   string `json:"book_id" gorm:"type:varchar(36);index:idx_cart_book,unique"`
	Book     *Book  `json:"book,omitempty" gorm:"foreignKey:BookID"`
	Quantity int    `json:"quantity"`

	AddedAt time.Time `json:"added_at" gorm:"autoCreateTime"`

	// Derived, filled by Recalculate.
	TotalPrice decimal.Decimal `json:"total_price" gorm:"-"`
}

// LinePrice is quantity times the current book price. Zero when the book is
// not loaded.
func (i *CartItem) LinePrice() decimal.Decimal {
	if i.Book == nil {
		return decimal.Zero
	}
	return i.Book.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Recalculate fills the derived totals from the loaded items and their books.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	count := 0
	for idx := range c.Items {
		line := c.Items[idx].LinePrice()
		c.Items[idx].TotalPrice = line
		if c.Items[idx].Book != nil {
			c.Items[idx].Book.ComputeDerived()
		}
		total = total.Add(line)
		count += c.Items[idx].Quantity
	}
	c.TotalPrice = total
	c.TotalItems = count
}
