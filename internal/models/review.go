package models

import "time"

// BookReview is a rating plus comment attached to a book. It belongs to
// either a registered user or an anonymous identity, never both.
type BookReview struct {
	ID              string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BookID          string  `json:"book_id" gorm:"type:varchar(36);index"`
	UserID          *string `json:"user_id,omitempty" gorm:"type:varchar(36);index"`
	AnonymousUserID *string `json:"anonymous_user_id,omitempty" gorm:"type:varchar(36);index"`

	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string    `json:"comment" validate:"required"`
	CreatedAt time.Time `json:"created_at"`

	User          *User          `json:"-" gorm:"foreignKey:UserID"`
	AnonymousUser *AnonymousUser `json:"-" gorm:"foreignKey:AnonymousUserID"`

	// Display name of the reviewer, filled on read.
	UserName string `json:"user_name" gorm:"-"`
}

// ReviewerName resolves the display name from whichever owner is set.
func (r *BookReview) ReviewerName() string {
	if r.User != nil {
		return r.User.Username
	}
	if r.AnonymousUser != nil {
		return r.AnonymousUser.DisplayName
	}
	return "Anonymous"
}
