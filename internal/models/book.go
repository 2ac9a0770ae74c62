package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Languages a book can be published in.
var BookLanguages = map[string]bool{
	"az":    true,
	"tr":    true,
	"en":    true,
	"ru":    true,
	"ar":    true,
	"fa":    true,
	"other": true,
}

// Category groups books for browsing.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

// Author of one or more books.
type Author struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string     `json:"name" gorm:"type:varchar(200)" validate:"required,min=1,max=200"`
	Biography   string     `json:"biography"`
	BirthDate   *time.Time `json:"birth_date"`
	DeathDate   *time.Time `json:"death_date"`
	PhotoURL    string     `json:"photo_url"`
	Nationality string     `json:"nationality" gorm:"type:varchar(100)"`
}

// Publisher of books.
type Publisher struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name    string `json:"name" gorm:"type:varchar(200)" validate:"required,min=1,max=200"`
	Address string `json:"address"`
	Phone   string `json:"phone" gorm:"type:varchar(20)"`
	Email   string `json:"email" gorm:"type:varchar(255)" validate:"omitempty,email"`
	Website string `json:"website" validate:"omitempty,url"`
}

// Book is a catalog item. Price fields use decimal(10,2); OriginalPrice is the
// pre-discount price and is optional.
type Book struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string    `json:"title" gorm:"type:varchar(300)" validate:"required,min=1,max=300"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;type:varchar(300)" validate:"required"`
	Authors     []Author  `json:"authors" gorm:"many2many:book_authors"`
	CategoryID  string    `json:"category_id" gorm:"type:varchar(36);index"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	PublisherID string    `json:"publisher_id" gorm:"type:varchar(36);index"`
	Publisher   *Publisher `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`

	ISBN            string     `json:"isbn,omitempty" gorm:"type:varchar(13);index"`
	Description     string     `json:"description"`
	Language        string     `json:"language" gorm:"type:varchar(10);default:az"`
	Pages           int        `json:"pages" validate:"gte=0"`
	PublicationDate *time.Time `json:"publication_date"`

	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(10,2)"`
	OriginalPrice decimal.NullDecimal `json:"original_price" gorm:"type:decimal(10,2)"`
	StockQuantity int                 `json:"stock_quantity" gorm:"default:0" validate:"gte=0"`

	CoverImageURL string `json:"cover_image_url"`
	BackImageURL  string `json:"back_image_url"`

	IsActive     bool `json:"is_active" gorm:"default:true"`
	IsFeatured   bool `json:"is_featured" gorm:"default:false"`
	IsBestseller bool `json:"is_bestseller" gorm:"default:false"`
	IsNew        bool `json:"is_new" gorm:"default:false"`

	ViewsCount int `json:"views_count" gorm:"default:0"`
	SalesCount int `json:"sales_count" gorm:"default:0"`

	Reviews []BookReview `json:"reviews,omitempty" gorm:"foreignKey:BookID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived fields, filled by ComputeDerived before serialization.
	AverageRating      float64 `json:"average_rating" gorm:"-"`
	ReviewsCount       int     `json:"reviews_count" gorm:"-"`
	DiscountPercentage int     `json:"discount_percentage" gorm:"-"`
}

// DiscountPercent returns the discount relative to the original price,
// rounded down. It is 0 when there is no original price or the original is
// not greater than the current price.
func (b *Book) DiscountPercent() int {
	if !b.OriginalPrice.Valid {
		return 0
	}
	orig := b.OriginalPrice.Decimal
	if !orig.GreaterThan(b.Price) || orig.IsZero() {
		return 0
	}
	pct := orig.Sub(b.Price).Div(orig).Mul(decimal.NewFromInt(100))
	return int(pct.IntPart())
}

// AvgRating returns the mean of the loaded review ratings, or 0 when there
// are none.
func (b *Book) AvgRating() float64 {
	if len(b.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range b.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(b.Reviews))
}

// ComputeDerived fills the read-only derived fields from the loaded reviews
// and price columns. Call it before handing the book to a serializer.
func (b *Book) ComputeDerived() {
	b.AverageRating = b.AvgRating()
	b.ReviewsCount = len(b.Reviews)
	b.DiscountPercentage = b.DiscountPercent()
}

// Banner is a promotional slot shown on the storefront.
type Banner struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title     string    `json:"title" gorm:"type:varchar(200)"`
	Subtitle  string    `json:"subtitle" gorm:"type:varchar(300)"`
	ImageURL  string    `json:"image_url"`
	Link      string    `json:"link"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}

// BookStats is the aggregate returned by the catalog stats endpoint.
type BookStats struct {
	TotalBooks    int64 `json:"total_books"`
	FeaturedBooks int64 `json:"featured_books"`
	Bestsellers   int64 `json:"bestsellers"`
	NewBooks      int64 `json:"new_books"`
}
