package repositories

import (
	"errors"
	"fmt"

	"kitab/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ordering expressions accepted by the book listing. Anything else falls back
// to newest-first.
var bookOrderings = map[string]string{
	"price":        "price asc",
	"-price":       "price desc",
	"created_at":   "created_at asc",
	"-created_at":  "created_at desc",
	"sales_count":  "sales_count asc",
	"-sales_count": "sales_count desc",
	"views_count":  "views_count asc",
	"-views_count": "views_count desc",
}

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

// List retrieves active books matching the filter, with authors, category
// and reviews preloaded.
func (r *GORMBookRepository) List(filter BookFilter) ([]models.Book, error) {
	q := r.db.Model(&models.Book{}).
		Where("books.is_active = ?", true).
		Preload("Authors").
		Preload("Category").
		Preload("Reviews")

	if filter.CategoryID != "" {
		q = q.Where("books.category_id = ?", filter.CategoryID)
	}
	if filter.MinPrice != nil {
		q = q.Where("books.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("books.price <= ?", *filter.MaxPrice)
	}
	if filter.Language != "" {
		q = q.Where("books.language = ?", filter.Language)
	}
	if filter.IsFeatured != nil {
		q = q.Where("books.is_featured = ?", *filter.IsFeatured)
	}
	if filter.IsBestseller != nil {
		q = q.Where("books.is_bestseller = ?", *filter.IsBestseller)
	}
	if filter.IsNew != nil {
		q = q.Where("books.is_new = ?", *filter.IsNew)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Joins("LEFT JOIN book_authors ON book_authors.book_id = books.id").
			Joins("LEFT JOIN authors ON authors.id = book_authors.author_id").
			Where("books.title LIKE ? OR authors.name LIKE ? OR books.description LIKE ?", like, like, like).
			Distinct("books.*")
	}

	order, ok := bookOrderings[filter.Ordering]
	if !ok {
		order = "created_at desc"
	}
	q = q.Order(order)

	var books []models.Book
	if err := q.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// GetBySlug retrieves one active book by its slug with all relations
// preloaded for the detail view.
func (r *GORMBookRepository) GetBySlug(slug string) (*models.Book, error) {
	var book models.Book
	err := r.db.
		Preload("Authors").
		Preload("Category").
		Preload("Publisher").
		Preload("Reviews").
		Preload("Reviews.User").
		Preload("Reviews.AnonymousUser").
		First(&book, "slug = ? AND is_active = ?", slug, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book by slug %s: %w", slug, err)
	}
	return &book, nil
}

// GetByID retrieves one active book by its ID.
func (r *GORMBookRepository) GetByID(id string) (*models.Book, error) {
	var book models.Book
	err := r.db.Preload("Reviews").First(&book, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	return &book, nil
}

// Create creates a new book.
func (r *GORMBookRepository) Create(book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Update saves an existing book.
func (r *GORMBookRepository) Update(book *models.Book) error {
	res := r.db.Save(book)
	if res.Error != nil {
		return fmt.Errorf("failed to update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter without touching updated_at.
func (r *GORMBookRepository) IncrementViews(id string) error {
	err := r.db.Model(&models.Book{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment views for book %s: %w", id, err)
	}
	return nil
}

// Stats counts active books per storefront flag.
func (r *GORMBookRepository) Stats() (*models.BookStats, error) {
	var stats models.BookStats
	base := r.db.Model(&models.Book{}).Where("is_active = ?", true)
	if err := base.Session(&gorm.Session{}).Count(&stats.TotalBooks).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("is_featured = ?", true).Count(&stats.FeaturedBooks).Error; err != nil {
		return nil, fmt.Errorf("failed to count featured books: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("is_bestseller = ?", true).Count(&stats.Bestsellers).Error; err != nil {
		return nil, fmt.Errorf("failed to count bestsellers: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("is_new = ?", true).Count(&stats.NewBooks).Error; err != nil {
		return nil, fmt.Errorf("failed to count new books: %w", err)
	}
	return &stats, nil
}

// Categories retrieves all active categories ordered by name.
func (r *GORMBookRepository) Categories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("is_active = ?", true).Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Banners retrieves all active banners, newest first.
func (r *GORMBookRepository) Banners() ([]models.Banner, error) {
	var banners []models.Banner
	if err := r.db.Where("is_active = ?", true).Order("created_at desc").Find(&banners).Error; err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return banners, nil
}
