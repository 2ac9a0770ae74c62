package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"kitab/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func errBody(t *testing.T, app *fiber.App, path string) (int, map[string]string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	assert.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	var body map[string]string
	assert.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestRespondErrorMapping(t *testing.T) {
	app := fiber.New()
	app.Get("/missing", func(c *fiber.Ctx) error {
		return respondError(c, "Could not retrieve book", models.ErrNotFound)
	})
	app.Get("/stock", func(c *fiber.Ctx) error {
		return respondError(c, "Could not add item to cart",
			&models.OutOfStockError{BookTitle: "Ali and Nino", Available: 2})
	})

	status, body := errBody(t, app, "/missing")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Could not retrieve book", body["message"])

	status, body = errBody(t, app, "/stock")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "Ali and Nino")
}

// Unexpected errors must not leak their wrapped chain to the client. The
// repository layer wraps driver errors with identifying detail, and that
// detail belongs in the server log only.
func TestRespondErrorHidesInternalDetail(t *testing.T) {
	wrapped := fmt.Errorf("failed to get cart for user u-1: %w",
		fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused"))

	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, "Could not retrieve cart", wrapped)
	})

	status, body := errBody(t, app, "/boom")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Could not retrieve cart", body["message"])
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, body["error"], "u-1")
	assert.NotContains(t, body["error"], "connection refused")
}
