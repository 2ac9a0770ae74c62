package repositories

import (
	"fmt"

	"kitab/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Create creates a new review.
func (r *GORMReviewRepository) Create(review *models.BookReview) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListByBook returns a book's reviews with their owners preloaded, newest
// first.
func (r *GORMReviewRepository) ListByBook(bookID string) ([]models.BookReview, error) {
	var reviews []models.BookReview
	err := r.db.
		Preload("User").
		Preload("AnonymousUser").
		Where("book_id = ?", bookID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for book %s: %w", bookID, err)
	}
	return reviews, nil
}
