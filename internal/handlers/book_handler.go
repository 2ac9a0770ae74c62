package handlers

import (
	"log"
	"strconv"

	"kitab/internal/repositories"
	"kitab/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// BookHandler handles HTTP requests for the catalog and book reviews.
type BookHandler struct {
	catalog  *services.CatalogService
	reviews  *services.ReviewService
	validate *validator.Validate
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(catalog *services.CatalogService, reviews *services.ReviewService) *BookHandler {
	return &BookHandler{
		catalog:  catalog,
		reviews:  reviews,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *BookHandler) RegisterRoutes(router fiber.Router) {
	bookRoutes := router.Group("/books")
	bookRoutes.Get("/", h.HandleListBooks)
	bookRoutes.Get("/featured", h.HandleFeaturedBooks)
	bookRoutes.Get("/bestsellers", h.HandleBestsellerBooks)
	bookRoutes.Get("/new", h.HandleNewBooks)
	bookRoutes.Get("/stats", h.HandleStats)
	bookRoutes.Get("/:slug", h.HandleGetBook)
	bookRoutes.Get("/:id/reviews", h.HandleListReviews)
	bookRoutes.Post("/:id/reviews", h.HandleCreateReview)
	bookRoutes.Post("/:id/cover", h.HandleUploadCover)

	router.Get("/categories", h.HandleListCategories)
	router.Get("/banners", h.HandleListBanners)
}

// parseBookFilter reads the listing filters from the query string. Unparsable
// values are ignored rather than rejected.
func parseBookFilter(c *fiber.Ctx) repositories.BookFilter {
	filter := repositories.BookFilter{
		CategoryID: c.Query("category"),
		Language:   c.Query("language"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
	}

	if raw := c.Query("min_price"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &v
		}
	}
	for query, target := range map[string]**bool{
		"is_featured":   &filter.IsFeatured,
		"is_bestseller": &filter.IsBestseller,
		"is_new":        &filter.IsNew,
	} {
		if raw := c.Query(query); raw != "" {
			if v, err := strconv.ParseBool(raw); err == nil {
				*target = &v
			}
		}
	}
	return filter
}

// HandleListBooks retrieves the filtered, ordered book listing.
func (h *BookHandler) HandleListBooks(c *fiber.Ctx) error {
	books, err := h.catalog.ListBooks(parseBookFilter(c))
	if err != nil {
		return respondError(c, "Could not retrieve books", err)
	}
	return c.JSON(books)
}

// HandleGetBook retrieves a single book by its slug and counts the view.
func (h *BookHandler) HandleGetBook(c *fiber.Ctx) error {
	book, err := h.catalog.GetBook(c.Params("slug"))
	if err != nil {
		return respondError(c, "Could not retrieve book", err)
	}
	return c.JSON(book)
}

// HandleFeaturedBooks retrieves the featured shelf.
func (h *BookHandler) HandleFeaturedBooks(c *fiber.Ctx) error {
	books, err := h.catalog.FeaturedBooks()
	if err != nil {
		return respondError(c, "Could not retrieve featured books", err)
	}
	return c.JSON(books)
}

// HandleBestsellerBooks retrieves the bestseller shelf.
func (h *BookHandler) HandleBestsellerBooks(c *fiber.Ctx) error {
	books, err := h.catalog.BestsellerBooks()
	if err != nil {
		return respondError(c, "Could not retrieve bestsellers", err)
	}
	return c.JSON(books)
}

// HandleNewBooks retrieves the new arrivals shelf.
func (h *BookHandler) HandleNewBooks(c *fiber.Ctx) error {
	books, err := h.catalog.NewBooks()
	if err != nil {
		return respondError(c, "Could not retrieve new books", err)
	}
	return c.JSON(books)
}

// HandleStats retrieves catalog-wide counters.
func (h *BookHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.catalog.Stats()
	if err != nil {
		return respondError(c, "Could not retrieve catalog stats", err)
	}
	return c.JSON(stats)
}

// HandleListCategories retrieves the active categories.
func (h *BookHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.Categories()
	if err != nil {
		return respondError(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleListBanners retrieves the active promotional banners.
func (h *BookHandler) HandleListBanners(c *fiber.Ctx) error {
	banners, err := h.catalog.Banners()
	if err != nil {
		return respondError(c, "Could not retrieve banners", err)
	}
	return c.JSON(banners)
}

// ReviewRequest represents the request body for posting a review.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// HandleCreateReview attaches a review to a book for the current caller.
func (h *BookHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	review, err := h.reviews.CreateReview(callerIdentity(c), c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, "Could not create review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleListReviews retrieves the reviews of a book, newest first.
func (h *BookHandler) HandleListReviews(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListReviews(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve reviews", err)
	}
	return c.JSON(reviews)
}

// HandleUploadCover stores a new cover image for a book.
func (h *BookHandler) HandleUploadCover(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("cover")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A 'cover' file field is required",
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, "Could not read uploaded file", err)
	}
	defer file.Close()

	book, err := h.catalog.SetCoverImage(c.Context(), c.Params("id"), fileHeader.Filename, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return respondError(c, "Could not store cover image", err)
	}
	return c.JSON(book)
}
