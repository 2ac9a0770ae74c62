package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"

	"kitab/internal/models"
	"kitab/internal/repositories"
	"kitab/pkg/imagestore"

	"github.com/google/uuid"
)

// CatalogService handles business logic for browsing the book catalog.
type CatalogService struct {
	bookRepo repositories.BookRepository
	images   imagestore.Store
}

// NewCatalogService creates a new CatalogService. images may be nil when no
// upload backend is configured.
func NewCatalogService(bookRepo repositories.BookRepository, images imagestore.Store) *CatalogService {
	return &CatalogService{
		bookRepo: bookRepo,
		images:   images,
	}
}

// ListBooks returns active books matching the filter, with derived fields
// computed.
func (s *CatalogService) ListBooks(filter repositories.BookFilter) ([]models.Book, error) {
	books, err := s.bookRepo.List(filter)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].ComputeDerived()
	}
	return books, nil
}

// GetBook returns the detail view for a slug and bumps the view counter as a
// side effect.
func (s *CatalogService) GetBook(slug string) (*models.Book, error) {
	book, err := s.bookRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if err := s.bookRepo.IncrementViews(book.ID); err != nil {
		// A lost view count never blocks the detail page.
		log.Printf("Warning: failed to count view for book %s: %v", book.ID, err)
	} else {
		book.ViewsCount++
	}
	book.ComputeDerived()
	for i := range book.Reviews {
		book.Reviews[i].UserName = book.Reviews[i].ReviewerName()
	}
	return book, nil
}

// FeaturedBooks lists active books flagged as featured.
func (s *CatalogService) FeaturedBooks() ([]models.Book, error) {
	flag := true
	return s.ListBooks(repositories.BookFilter{IsFeatured: &flag})
}

// BestsellerBooks lists active books flagged as bestsellers.
func (s *CatalogService) BestsellerBooks() ([]models.Book, error) {
	flag := true
	return s.ListBooks(repositories.BookFilter{IsBestseller: &flag})
}

// NewBooks lists active books flagged as new arrivals.
func (s *CatalogService) NewBooks() ([]models.Book, error) {
	flag := true
	return s.ListBooks(repositories.BookFilter{IsNew: &flag})
}

// Stats returns catalog-wide counters.
func (s *CatalogService) Stats() (*models.BookStats, error) {
	return s.bookRepo.Stats()
}

// Categories lists active categories.
func (s *CatalogService) Categories() ([]models.Category, error) {
	return s.bookRepo.Categories()
}

// Banners lists active storefront banners.
func (s *CatalogService) Banners() ([]models.Banner, error) {
	return s.bookRepo.Banners()
}

// SetCoverImage uploads a new cover and persists its URL. This is an explicit
// post-write step invoked by the caller, not an implicit save hook, so the
// side effect stays visible in the call graph.
func (s *CatalogService) SetCoverImage(ctx context.Context, bookID, filename string, r io.Reader, contentType string) (*models.Book, error) {
	if s.images == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}

	name := uuid.New().String() + path.Ext(filename)
	url, err := s.images.Upload(ctx, "books/covers", name, r, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload cover for book %s: %w", bookID, err)
	}

	book.CoverImageURL = url
	if err := s.bookRepo.Update(book); err != nil {
		return nil, err
	}
	book.ComputeDerived()
	return book, nil
}
