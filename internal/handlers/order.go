package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/luxentra/internal/middleware"
	"github.com/example/luxentra/internal/models"
	"github.com/example/luxentra/internal/utils"
)

// OrderHandler serves the customer-facing order projections.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

// ListOrders returns orders for the authenticated user.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("user_id = ?", userID).Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("order_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// trackingSteps is the customer-visible order lifecycle in display order.
var trackingSteps = []string{
	models.OrderStatusPending,
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

// TrackOrder returns the public status timeline for an order number.
func (h *OrderHandler) TrackOrder(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")
	if orderNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "order number is required")
	}

	var order models.Order
	if err := h.db.First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	type timelineStep struct {
		Status  string `json:"status"`
		Reached bool   `json:"reached"`
		Current bool   `json:"current"`
	}

	timeline := make([]timelineStep, 0, len(trackingSteps))
	if order.OrderStatus == models.OrderStatusCancelled {
		timeline = append(timeline, timelineStep{
			Status:  models.OrderStatusCancelled,
			Reached: true,
			Current: true,
		})
	} else {
		reached := true
		for _, step := range trackingSteps {
			current := step == order.OrderStatus
			timeline = append(timeline, timelineStep{
				Status:  step,
				Reached: reached,
				Current: current,
			})
			if current {
				reached = false
			}
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order_number":    order.OrderNumber,
			"order_status":    order.OrderStatus,
			"payment_status":  order.PaymentStatus,
			"tracking_number": order.TrackingNumber,
			"tracking_url":    order.TrackingURL,
			"placed_at":       order.PlacedAt,
			"updated_at":      order.UpdatedAt,
			"timeline":        timeline,
		},
	})
}
