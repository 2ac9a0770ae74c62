package handlers

import (
	"errors"
	"log"

	"kitab/internal/models"
	"kitab/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// deviceHeader carries the anonymous device token. Clients that never send it
// get a fresh token minted per request, so every such call sees a brand-new
// empty cart.
const deviceHeader = "X-Device-Id"

// callerIdentity builds the caller's identity from the auth middleware locals
// and the device header.
func callerIdentity(c *fiber.Ctx) services.Identity {
	var id services.Identity
	if userID, ok := c.Locals("user_id").(string); ok {
		id.UserID = userID
	}
	id.DeviceID = c.Get(deviceHeader)
	if id.DeviceID == "" {
		id.DeviceID = uuid.New().String()
	}
	return id
}

// respondError translates service errors into HTTP responses. Business rule
// violations map to 400, unknown resources to 404, everything else is a 500.
func respondError(c *fiber.Ctx, message string, err error) error {
	var oos *models.OutOfStockError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.As(err, &oos),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrIncompleteDeliveryInfo),
		errors.Is(err, models.ErrRatingOutOfRange),
		errors.Is(err, models.ErrInvalidOrderStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
	// Unexpected failures are logged server-side; the body never carries the
	// wrapped error chain.
	log.Printf("%s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   "internal server error",
	})
}
