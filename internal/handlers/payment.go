package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/luxentra/internal/models"
	"github.com/example/luxentra/internal/repository"
	"github.com/example/luxentra/internal/services"
)

// PaymentProcessor drives the payment step of the order state machine.
type PaymentProcessor interface {
	Methods() []services.PaymentMethodInfo
	Session(ctx context.Context, token string) (*services.PaymentSession, error)
	FinalizeCashOnDelivery(ctx context.Context, token string) (*services.CODReceipt, error)
	StartGatewayPayment(ctx context.Context, token string) error
	VerifyPayment(ctx context.Context, in services.VerifyPaymentInput) (*models.Order, error)
}

// PaymentHandler manages payment endpoints.
type PaymentHandler struct {
	payments PaymentProcessor
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments PaymentProcessor) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// checkoutToken reads the checkout token from the X-Checkout-Token header,
// falling back to the token query parameter.
func checkoutToken(c *fiber.Ctx) string {
	if token := c.Get("X-Checkout-Token"); token != "" {
		return token
	}
	return c.Query("token")
}

// Methods lists the selectable payment methods.
func (h *PaymentHandler) Methods(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.payments.Methods()})
}

// Session resolves the checkout token into the pinned order and frozen bill
// summary. An invalid handle sends the client back to checkout — the server
// never reconstructs it.
func (h *PaymentHandler) Session(c *fiber.Ctx) error {
	session, err := h.payments.Session(c.Context(), checkoutToken(c))
	if err != nil {
		return paymentError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": session})
}

// FinalizeCashOnDelivery confirms a cash-on-delivery order. On failure the
// session and cart are left untouched so the same submission can be retried.
func (h *PaymentHandler) FinalizeCashOnDelivery(c *fiber.Ctx) error {
	receipt, err := h.payments.FinalizeCashOnDelivery(c.Context(), checkoutToken(c))
	if err != nil {
		return paymentError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order_id":     receipt.OrderID,
			"order_number": receipt.OrderNumber,
			"redirect":     "/order-success/" + receipt.OrderNumber,
		},
	})
}

// StartGatewayPayment begins the hosted gateway hand-off.
func (h *PaymentHandler) StartGatewayPayment(c *fiber.Ctx) error {
	if err := h.payments.StartGatewayPayment(c.Context(), checkoutToken(c)); err != nil {
		return paymentError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Verify is the server-side payment verification function. All errors are
// converted into the structured {success:false, error} contract; no raw
// error ever reaches the caller.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req services.VerifyPaymentInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	order, err := h.payments.VerifyPayment(c.Context(), req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Order not found",
			})
		case errors.Is(err, services.ErrAlreadyProcessed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Order already processed",
			})
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   verr.Reason,
			})
		default:
			log.Printf("[Payment] verify failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "internal error",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orderId": order.ID,
	})
}

func paymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSessionInvalid):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":  false,
			"error":    err.Error(),
			"redirect": "/checkout",
		})
	case errors.Is(err, services.ErrAlreadyProcessed):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrGatewayPending):
		return fiber.NewError(fiber.StatusNotImplemented, err.Error())
	default:
		return err
	}
}
