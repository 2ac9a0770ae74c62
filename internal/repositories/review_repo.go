package repositories

import "kitab/internal/models"

// ReviewRepository defines data access for book reviews.
type ReviewRepository interface {
	Create(review *models.BookReview) error
	ListByBook(bookID string) ([]models.BookReview, error)
}
