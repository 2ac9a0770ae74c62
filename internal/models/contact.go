package models

import "time"

// Contact message statuses.
const (
	ContactStatusPending = "pending"
	ContactStatusSent    = "sent"
	ContactStatusReplied = "replied"
	ContactStatusFailed  = "failed"
)

// ContactMessage is a message submitted through the contact form. Guests
// supply name and email; for authenticated senders both come from the user
// record instead.
type ContactMessage struct {
	ID     string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name   string  `json:"name,omitempty" gorm:"type:varchar(100)"`
	Email  string  `json:"email,omitempty" gorm:"type:varchar(255)"`
	UserID *string `json:"user_id,omitempty" gorm:"type:varchar(36);index"`
	User   *User   `json:"-" gorm:"foreignKey:UserID"`

	Subject string `json:"subject" gorm:"type:varchar(200)" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
	Status  string `json:"status" gorm:"type:varchar(20);default:pending"`

	AutoReplySent bool       `json:"auto_reply_sent" gorm:"default:false"`
	AutoReplyDate *time.Time `json:"auto_reply_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SenderName returns the guest name or the user's display name.
func (m *ContactMessage) SenderName() string {
	if m.User != nil {
		return m.User.FullName()
	}
	return m.Name
}

// SenderEmail returns the guest email or the user's email.
func (m *ContactMessage) SenderEmail() string {
	if m.User != nil {
		return m.User.Email
	}
	return m.Email
}
