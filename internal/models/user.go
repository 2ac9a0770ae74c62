package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// User represents a registered customer.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	FirstName  string `json:"first_name" gorm:"type:varchar(100)"`
	LastName   string `json:"last_name" gorm:"type:varchar(100)"`
	Password   string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	gorm.Model        // CreatedAt, UpdatedAt, DeletedAt
}

// FullName falls back to the username when no name parts are set.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// AnonymousUser is a device-scoped identity that lets unauthenticated
// visitors hold a cart and post reviews without registering.
type AnonymousUser struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DeviceID     string    `json:"device_id" gorm:"uniqueIndex;type:varchar(255)"`
	DisplayName  string    `json:"display_name" gorm:"type:varchar(100)"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity" gorm:"autoUpdateTime"`
}

// AnonymousDisplayName builds the generated name for a fresh anonymous
// identity from a short token.
func AnonymousDisplayName(token string) string {
	return fmt.Sprintf("User %s", token)
}

// Address is a saved delivery address belonging to a registered user.
type Address struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string `json:"-" gorm:"type:varchar(36);index"`
	Title       string `json:"title" gorm:"type:varchar(100)" validate:"required,max=100"`
	AddressType string `json:"address_type" gorm:"type:varchar(10);default:home" validate:"omitempty,oneof=home work other"`

	FullAddress string `json:"full_address" validate:"required"`
	City        string `json:"city" gorm:"type:varchar(100)" validate:"required,max=100"`
	District    string `json:"district" gorm:"type:varchar(100)"`
	PostalCode  string `json:"postal_code" gorm:"type:varchar(10)"`
	Phone       string `json:"phone" gorm:"type:varchar(20)"`

	IsDefault bool `json:"is_default" gorm:"default:false"`
	IsActive  bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
}
