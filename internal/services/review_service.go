package services

import (
	"kitab/internal/models"
	"kitab/internal/repositories"
)

// ReviewService handles business logic for book reviews.
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	bookRepo   repositories.BookRepository
	userRepo   repositories.UserRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, bookRepo repositories.BookRepository, userRepo repositories.UserRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
	}
}

// CreateReview attaches a review to a book. The owner is the authenticated
// user or the device-scoped anonymous identity, never both.
func (s *ReviewService) CreateReview(id Identity, bookID string, rating int, comment string) (*models.BookReview, error) {
	if rating < 1 || rating > 5 {
		return nil, models.ErrRatingOutOfRange
	}

	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}

	review := &models.BookReview{
		BookID:  book.ID,
		Rating:  rating,
		Comment: comment,
	}
	if id.IsAuthenticated() {
		user, err := s.userRepo.GetByID(id.UserID)
		if err != nil {
			return nil, err
		}
		review.UserID = &user.ID
		review.UserName = user.Username
	} else {
		anon, err := s.userRepo.GetOrCreateAnonymous(id.DeviceID)
		if err != nil {
			return nil, err
		}
		review.AnonymousUserID = &anon.ID
		review.UserName = anon.DisplayName
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns a book's reviews with reviewer names resolved.
func (s *ReviewService) ListReviews(bookID string) ([]models.BookReview, error) {
	reviews, err := s.reviewRepo.ListByBook(bookID)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].UserName = reviews[i].ReviewerName()
	}
	return reviews, nil
}
