package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/luxentra/internal/middleware"
	"github.com/example/luxentra/internal/services"
)

// OrderPlacer turns a cart into a pending order plus checkout session.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, in services.PlaceOrderInput) (*services.CheckoutResult, error)
}

// CheckoutHandler manages the checkout submission.
type CheckoutHandler struct {
	checkout OrderPlacer
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(checkout OrderPlacer) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// PlaceOrder creates exactly one pending order from the current cart and
// returns the checkout token for the payment step. An empty cart sends the
// user back to the shop; a creation failure persists nothing.
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req services.PlaceOrderInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.checkout.PlaceOrder(c.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":  false,
				"error":    err.Error(),
				"redirect": "/shop",
			})
		case errors.Is(err, services.ErrMissingFields):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			return err
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}
