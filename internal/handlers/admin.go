package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/luxentra/internal/models"
	"github.com/example/luxentra/internal/utils"
)

// AdminHandler manages the order dashboard endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate order statistics.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}

	var byOrderStatus []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("order_status as status, count(*) as count").
		Group("order_status").
		Scan(&byOrderStatus).Error; err != nil {
		return err
	}

	var byPaymentStatus []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("payment_status as status, count(*) as count").
		Group("payment_status").
		Scan(&byPaymentStatus).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range byOrderStatus {
		ordersByStatus[sc.Status] = sc.Count
	}

	ordersByPayment := make(map[string]int64)
	for _, sc := range byPaymentStatus {
		ordersByPayment[sc.Status] = sc.Count
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("order_status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var todayRevenue float64
	startOfDay := time.Now().Truncate(24 * time.Hour)
	if err := h.db.Model(&models.Order{}).
		Where("order_status != ? AND placed_at >= ?", models.OrderStatusCancelled, startOfDay).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&todayRevenue).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_orders":      totalOrders,
			"orders_by_status":  ordersByStatus,
			"orders_by_payment": ordersByPayment,
			"total_revenue":     totalRevenue,
			"today_revenue":     todayRevenue,
		},
	})
}

// ListOrders returns all orders with optional status and payment filters.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("order_status = ?", status)
	}
	if payment := c.Query("payment_status"); payment != "" {
		query = query.Where("payment_status = ?", payment)
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

type updateOrderRequest struct {
	OrderStatus    string `json:"order_status"`
	PaymentStatus  string `json:"payment_status"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url"`
}

var validOrderStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

var validPaymentStatuses = map[string]bool{
	models.PaymentStatusPending:   true,
	models.PaymentStatusCompleted: true,
	models.PaymentStatusFailed:    true,
}

// UpdateOrder applies a manual status override. Overrides are deliberately
// last-write-wins: the admin dashboard is trusted to resolve disputes.
func (h *AdminHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]any{}
	if req.OrderStatus != "" {
		if !validOrderStatuses[req.OrderStatus] {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order status")
		}
		updates["order_status"] = req.OrderStatus
	}
	if req.PaymentStatus != "" {
		if !validPaymentStatuses[req.PaymentStatus] {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment status")
		}
		updates["payment_status"] = req.PaymentStatus
	}
	if req.TrackingNumber != "" {
		updates["tracking_number"] = req.TrackingNumber
	}
	if req.TrackingURL != "" {
		updates["tracking_url"] = req.TrackingURL
	}

	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	res := h.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
