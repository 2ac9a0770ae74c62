package repositories

import "kitab/internal/models"

// ContactRepository defines data access for contact messages.
type ContactRepository interface {
	Create(message *models.ContactMessage) error
	Save(message *models.ContactMessage) error
}
