package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"kitab/internal/handlers"
	"kitab/internal/middleware"
	"kitab/internal/models"
	"kitab/internal/repositories"
	"kitab/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// setupApp wires a Fiber app over the in-memory repositories.
func setupApp() (*fiber.App, error) {
	jwtSecret := "test_jwt_secret"

	bookRepo := repositories.NewMockBookRepository()
	cartRepo := repositories.NewMockCartRepository(bookRepo)
	userRepo := repositories.NewMockUserRepository()
	orderRepo := repositories.NewMockOrderRepository(bookRepo, cartRepo)
	reviewRepo := repositories.NewMockReviewRepository()

	authService := services.NewAuthService(userRepo, jwtSecret)
	catalogService := services.NewCatalogService(bookRepo, nil)
	reviewService := services.NewReviewService(reviewRepo, bookRepo, userRepo)
	cartService := services.NewCartService(cartRepo, bookRepo, userRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, userRepo, nil, nil)

	authRequired := middleware.AuthRequired(authService)
	bookHandler := handlers.NewBookHandler(catalogService, reviewService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService, authRequired)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	apiV1.Use(middleware.AuthOptional(authService))

	bookHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1)

	seedCatalog(bookRepo)
	return app, nil
}

func seedCatalog(repo *repositories.MockBookRepository) {
	books := []models.Book{
		{ID: "b1", Title: "Ali and Nino", Slug: "ali-and-nino", Price: decimal.NewFromInt(15), StockQuantity: 5, IsActive: true, IsFeatured: true},
		{ID: "b2", Title: "The Orphan", Slug: "the-orphan", Price: decimal.NewFromInt(9), StockQuantity: 2, IsActive: true},
	}
	for i := range books {
		if err := repo.Create(&books[i]); err != nil {
			log.Printf("Failed to seed book %s: %v", books[i].Title, err)
		}
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func doJSON(app *fiber.App, method, target, deviceID string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if deviceID != "" {
		req.Header.Set("X-Device-Id", deviceID)
	}
	return app.Test(req, -1)
}

func doAuthJSON(app *fiber.App, method, target, token string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	return app.Test(req, -1)
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestBookListingAndDetail(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	resp, err := doJSON(app, http.MethodGet, "/api/v1/books/", "", nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var books []models.Book
	decodeBody(t, resp, &books)
	assert.Len(t, books, 2)

	resp, err = doJSON(app, http.MethodGet, "/api/v1/books/featured", "", nil)
	assert.NoError(t, err)
	var featured []models.Book
	decodeBody(t, resp, &featured)
	assert.Len(t, featured, 1)
	assert.Equal(t, "Ali and Nino", featured[0].Title)

	resp, err = doJSON(app, http.MethodGet, "/api/v1/books/ali-and-nino", "", nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var book models.Book
	decodeBody(t, resp, &book)
	assert.Equal(t, "b1", book.ID)
	assert.Equal(t, 1, book.ViewsCount)

	resp, err = doJSON(app, http.MethodGet, "/api/v1/books/no-such-book", "", nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartFlowWithDeviceHeader(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	resp, err := doJSON(app, http.MethodPost, "/api/v1/cart/add", "device-1", map[string]interface{}{
		"book_id": "b1", "quantity": 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cart models.Cart
	decodeBody(t, resp, &cart)
	assert.Equal(t, 2, cart.TotalItems)

	// The same device sees the same cart.
	resp, err = doJSON(app, http.MethodGet, "/api/v1/cart/", "device-1", nil)
	assert.NoError(t, err)
	var again models.Cart
	decodeBody(t, resp, &again)
	assert.Equal(t, cart.ID, again.ID)
	assert.Equal(t, 2, again.TotalItems)

	// Exceeding stock is a 400 with the shortage reported.
	resp, err = doJSON(app, http.MethodPost, "/api/v1/cart/add", "device-1", map[string]interface{}{
		"book_id": "b1", "quantity": 4,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartClearEndpoint(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	_, err = doJSON(app, http.MethodPost, "/api/v1/cart/add", "device-1", map[string]interface{}{
		"book_id": "b1", "quantity": 2,
	})
	assert.NoError(t, err)
	_, err = doJSON(app, http.MethodPost, "/api/v1/cart/add", "device-1", map[string]interface{}{
		"book_id": "b2", "quantity": 1,
	})
	assert.NoError(t, err)

	resp, err := doJSON(app, http.MethodDelete, "/api/v1/cart/clear", "device-1", nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cart models.Cart
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)

	// The cart stays empty on the next read.
	resp, err = doJSON(app, http.MethodGet, "/api/v1/cart/", "device-1", nil)
	assert.NoError(t, err)
	var again models.Cart
	decodeBody(t, resp, &again)
	assert.Equal(t, 0, again.TotalItems)
}

func TestMissingDeviceHeaderMintsFreshIdentityPerRequest(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	// Without a device header every request gets a brand-new identity, so
	// consecutive cart reads return different carts.
	resp, err := doJSON(app, http.MethodGet, "/api/v1/cart/", "", nil)
	assert.NoError(t, err)
	var first models.Cart
	decodeBody(t, resp, &first)

	resp, err = doJSON(app, http.MethodGet, "/api/v1/cart/", "", nil)
	assert.NoError(t, err)
	var second models.Cart
	decodeBody(t, resp, &second)

	assert.NotEqual(t, first.ID, second.ID)

	// Which also means an added item is unreachable on the next request.
	resp, err = doJSON(app, http.MethodPost, "/api/v1/cart/add", "", map[string]interface{}{
		"book_id": "b1", "quantity": 1,
	})
	assert.NoError(t, err)
	var afterAdd models.Cart
	decodeBody(t, resp, &afterAdd)
	assert.Equal(t, 1, afterAdd.TotalItems)

	resp, err = doJSON(app, http.MethodGet, "/api/v1/cart/", "", nil)
	assert.NoError(t, err)
	var lost models.Cart
	decodeBody(t, resp, &lost)
	assert.Equal(t, 0, lost.TotalItems)
}

func TestOrderPlacementFlow(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	_, err = doJSON(app, http.MethodPost, "/api/v1/cart/add", "device-1", map[string]interface{}{
		"book_id": "b1", "quantity": 2,
	})
	assert.NoError(t, err)

	resp, err := doJSON(app, http.MethodPost, "/api/v1/orders/", "device-1", map[string]interface{}{
		"delivery_name":    "Leyla Aliyeva",
		"delivery_phone":   "+994501234567",
		"delivery_address": "28 May St 5, Baku",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 1)

	// Placing again with the now-empty cart is a 400.
	resp, err = doJSON(app, http.MethodPost, "/api/v1/orders/", "device-1", map[string]interface{}{
		"delivery_name":    "Leyla Aliyeva",
		"delivery_phone":   "+994501234567",
		"delivery_address": "28 May St 5, Baku",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The order list shows the placed order for the same device.
	resp, err = doJSON(app, http.MethodGet, "/api/v1/orders/", "device-1", nil)
	assert.NoError(t, err)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	assert.Len(t, orders, 1)

	// A different device cannot see it.
	resp, err = doJSON(app, http.MethodGet, "/api/v1/orders/"+order.ID, "device-2", nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrderValidationErrors(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	_, err = doJSON(app, http.MethodPost, "/api/v1/cart/add", "device-1", map[string]interface{}{
		"book_id": "b1", "quantity": 1,
	})
	assert.NoError(t, err)

	// Missing delivery fields fail request validation.
	resp, err := doJSON(app, http.MethodPost, "/api/v1/orders/", "device-1", map[string]interface{}{
		"delivery_name": "Leyla Aliyeva",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReviewEndpoints(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	resp, err := doJSON(app, http.MethodPost, "/api/v1/books/b1/reviews", "device-1", map[string]interface{}{
		"rating": 5, "comment": "brilliant",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var review models.BookReview
	decodeBody(t, resp, &review)
	assert.Equal(t, 5, review.Rating)
	assert.NotEmpty(t, review.UserName)

	resp, err = doJSON(app, http.MethodPost, "/api/v1/books/b1/reviews", "device-1", map[string]interface{}{
		"rating": 9, "comment": "off the scale",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = doJSON(app, http.MethodGet, "/api/v1/books/b1/reviews", "", nil)
	assert.NoError(t, err)
	var reviews []models.BookReview
	decodeBody(t, resp, &reviews)
	assert.Len(t, reviews, 1)
}

func TestAuthRegisterLoginAndProtectedRoutes(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	resp, err := doJSON(app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate registration conflicts.
	resp, err = doJSON(app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, err = doJSON(app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	assert.NotEmpty(t, login.Token)

	// The profile route requires the token.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", login.Token))
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var profile models.User
	decodeBody(t, resp, &profile)
	assert.Equal(t, "testuser", profile.Username)
	assert.Empty(t, profile.Password)
}

func TestProfileAndAddressManagement(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	resp, err := doJSON(app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "leyla",
		"email":    "leyla@example.com",
		"password": "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = doJSON(app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "leyla",
		"password": "password123",
	})
	assert.NoError(t, err)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)

	// Partial profile update leaves untouched fields alone.
	resp, err = doAuthJSON(app, http.MethodPut, "/api/v1/auth/me", login.Token, map[string]string{
		"first_name": "Leyla",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var profile models.User
	decodeBody(t, resp, &profile)
	assert.Equal(t, "Leyla", profile.FirstName)
	assert.Equal(t, "leyla@example.com", profile.Email)

	resp, err = doAuthJSON(app, http.MethodPost, "/api/v1/auth/addresses", login.Token, map[string]interface{}{
		"title":        "Home",
		"full_address": "28 May St 5",
		"city":         "Baku",
		"is_default":   true,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var address models.Address
	decodeBody(t, resp, &address)

	resp, err = doAuthJSON(app, http.MethodPut, "/api/v1/auth/addresses/"+address.ID, login.Token, map[string]interface{}{
		"title":        "Home",
		"full_address": "Nizami St 2",
		"city":         "Baku",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Address
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Nizami St 2", updated.FullAddress)

	resp, err = doAuthJSON(app, http.MethodDelete, "/api/v1/auth/addresses/"+address.ID, login.Token, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The soft-deleted address no longer lists.
	resp, err = doAuthJSON(app, http.MethodGet, "/api/v1/auth/addresses", login.Token, nil)
	assert.NoError(t, err)
	var addresses []models.Address
	decodeBody(t, resp, &addresses)
	assert.Empty(t, addresses)

	// Deleting it again is a 404.
	resp, err = doAuthJSON(app, http.MethodDelete, "/api/v1/auth/addresses/"+address.ID, login.Token, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
