package repositories

import (
	"kitab/internal/models"

	"github.com/shopspring/decimal"
)

// BookFilter narrows and orders a book listing. Zero values mean "no filter".
type BookFilter struct {
	CategoryID   string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Language     string
	IsFeatured   *bool
	IsBestseller *bool
	IsNew        *bool
	Search       string
	Ordering     string
}

// BookRepository defines data access for the catalog: books, categories and
// banners.
type BookRepository interface {
	List(filter BookFilter) ([]models.Book, error)
	GetBySlug(slug string) (*models.Book, error)
	GetByID(id string) (*models.Book, error)
	Create(book *models.Book) error
	Update(book *models.Book) error
	IncrementViews(id string) error
	Stats() (*models.BookStats, error)
	Categories() ([]models.Category, error)
	Banners() ([]models.Banner, error)
}
