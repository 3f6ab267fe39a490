package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/luxentra/internal/services"
)

// NotificationHandler proxies confirmation email dispatch to the email
// provider, returning the provider's response body and status.
type NotificationHandler struct {
	email *services.EmailService
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(email *services.EmailService) *NotificationHandler {
	return &NotificationHandler{email: email}
}

// SendOrderConfirmation renders and dispatches the confirmation email.
func (h *NotificationHandler) SendOrderConfirmation(c *fiber.Ctx) error {
	var req services.OrderConfirmation
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.OrderNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and orderNumber are required")
	}

	result, err := h.email.Send(req)
	if err != nil {
		if result != nil {
			// Pass the provider's failure through unchanged.
			c.Set("Content-Type", "application/json")
			return c.Status(result.StatusCode).Send(result.Body)
		}
		return err
	}

	c.Set("Content-Type", "application/json")
	return c.Status(result.StatusCode).Send(result.Body)
}
