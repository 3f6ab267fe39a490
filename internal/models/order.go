package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment status values for an order.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Order status values, in rough lifecycle order.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is the durable representation of one purchase.
type Order struct {
	BaseModel
	UserID         *uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	User           *User       `json:"user,omitempty"`
	OrderNumber    string      `gorm:"uniqueIndex" json:"order_number"`
	FullName       string      `json:"full_name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Address        string      `json:"address"`
	City           string      `json:"city"`
	PostalCode     string      `json:"postal_code"`
	Country        string      `json:"country"`
	Subtotal       float64     `json:"subtotal"`
	Discount       float64     `json:"discount"`
	ShippingCharge float64     `json:"shipping_charge"`
	Tax            float64     `json:"tax"`
	TotalAmount    float64     `json:"total_amount"`
	PaymentMethod  string      `json:"payment_method"`
	PaymentStatus  string      `gorm:"index" json:"payment_status"`
	OrderStatus    string      `gorm:"index" json:"order_status"`
	TrackingNumber string      `json:"tracking_number"`
	TrackingURL    string      `json:"tracking_url"`
	PlacedAt       time.Time   `json:"placed_at"`
	Items          []OrderItem `json:"items,omitempty"`
}

// OrderItem is a purchased line, read-only after creation.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID   int       `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
}
