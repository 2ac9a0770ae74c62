package repositories

import (
	"sort"
	"strings"
	"sync"

	"kitab/internal/models"

	"github.com/google/uuid"
)

// MockBookRepository is an in-memory implementation of BookRepository.
type MockBookRepository struct {
	books      map[string]models.Book
	categories map[string]models.Category
	banners    map[string]models.Banner
	mu         sync.RWMutex
}

// NewMockBookRepository creates a new instance of MockBookRepository.
func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		books:      make(map[string]models.Book),
		categories: make(map[string]models.Category),
		banners:    make(map[string]models.Banner),
	}
}

func bookMatches(b *models.Book, f BookFilter) bool {
	if !b.IsActive {
		return false
	}
	if f.CategoryID != "" && b.CategoryID != f.CategoryID {
		return false
	}
	if f.MinPrice != nil && b.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && b.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Language != "" && b.Language != f.Language {
		return false
	}
	if f.IsFeatured != nil && b.IsFeatured != *f.IsFeatured {
		return false
	}
	if f.IsBestseller != nil && b.IsBestseller != *f.IsBestseller {
		return false
	}
	if f.IsNew != nil && b.IsNew != *f.IsNew {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Description), needle)
		for _, a := range b.Authors {
			hit = hit || strings.Contains(strings.ToLower(a.Name), needle)
		}
		if !hit {
			return false
		}
	}
	return true
}

// List returns active books matching the filter.
func (r *MockBookRepository) List(filter BookFilter) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]models.Book, 0, len(r.books))
	for _, b := range r.books {
		if bookMatches(&b, filter) {
			books = append(books, b)
		}
	}
	sort.Slice(books, func(i, j int) bool {
		switch filter.Ordering {
		case "price":
			return books[i].Price.LessThan(books[j].Price)
		case "-price":
			return books[j].Price.LessThan(books[i].Price)
		case "sales_count":
			return books[i].SalesCount < books[j].SalesCount
		case "-sales_count":
			return books[j].SalesCount < books[i].SalesCount
		default:
			return books[i].CreatedAt.After(books[j].CreatedAt)
		}
	})
	return books, nil
}

// GetBySlug returns an active book by slug.
func (r *MockBookRepository) GetBySlug(slug string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.books {
		if b.Slug == slug && b.IsActive {
			return &b, nil
		}
	}
	return nil, models.ErrNotFound
}

// GetByID returns an active book by ID.
func (r *MockBookRepository) GetByID(id string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok || !b.IsActive {
		return nil, models.ErrNotFound
	}
	return &b, nil
}

// Create adds a new book.
func (r *MockBookRepository) Create(book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	r.books[book.ID] = *book
	return nil
}

// Update modifies an existing book.
func (r *MockBookRepository) Update(book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[book.ID]; !ok {
		return models.ErrNotFound
	}
	r.books[book.ID] = *book
	return nil
}

// IncrementViews bumps the view counter.
func (r *MockBookRepository) IncrementViews(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return models.ErrNotFound
	}
	b.ViewsCount++
	r.books[id] = b
	return nil
}

// Stats counts active books per flag.
func (r *MockBookRepository) Stats() (*models.BookStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats models.BookStats
	for _, b := range r.books {
		if !b.IsActive {
			continue
		}
		stats.TotalBooks++
		if b.IsFeatured {
			stats.FeaturedBooks++
		}
		if b.IsBestseller {
			stats.Bestsellers++
		}
		if b.IsNew {
			stats.NewBooks++
		}
	}
	return &stats, nil
}

// Categories returns all active categories.
func (r *MockBookRepository) Categories() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if c.IsActive {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// Banners returns all active banners.
func (r *MockBookRepository) Banners() ([]models.Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	banners := make([]models.Banner, 0, len(r.banners))
	for _, b := range r.banners {
		if b.IsActive {
			banners = append(banners, b)
		}
	}
	return banners, nil
}

// AddCategory seeds a category into the mock.
func (r *MockBookRepository) AddCategory(c models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.categories[c.ID] = c
}

// AddBanner seeds a banner into the mock.
func (r *MockBookRepository) AddBanner(b models.Banner) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	r.banners[b.ID] = b
}
