package repositories

import (
	"sync"

	"kitab/internal/models"

	"github.com/google/uuid"
)

// MockReviewRepository is an in-memory implementation of ReviewRepository.
type MockReviewRepository struct {
	reviews map[string]models.BookReview
	mu      sync.RWMutex
}

// NewMockReviewRepository creates a new instance of MockReviewRepository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[string]models.BookReview),
	}
}

// Create adds a new review.
func (r *MockReviewRepository) Create(review *models.BookReview) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	r.reviews[review.ID] = *review
	return nil
}

// ListByBook returns a book's reviews.
func (r *MockReviewRepository) ListByBook(bookID string) ([]models.BookReview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reviews []models.BookReview
	for _, rev := range r.reviews {
		if rev.BookID == bookID {
			reviews = append(reviews, rev)
		}
	}
	return reviews, nil
}
