package models

import (
	"time"

	"github.com/google/uuid"
)

// BillSummary is the frozen price breakdown computed at checkout time. The
// payment step always renders these values and never recomputes them from
// the live cart.
type BillSummary struct {
	SubTotal       float64 `json:"sub_total"`
	Discount       float64 `json:"discount"`
	ShippingCharge float64 `json:"shipping_charge"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
}

// CheckoutSession bridges checkout and payment. It pins one order id and the
// frozen bill summary; the signed checkout token references this row. A
// missing or invalid session sends the client back to checkout — the session
// is never reconstructed from the order record.
type CheckoutSession struct {
	BaseModel
	OrderID     uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	BillSummary []byte     `gorm:"type:jsonb" json:"bill_summary"`
	ExpiresAt   time.Time  `json:"expires_at"`
	ConsumedAt  *time.Time `json:"consumed_at"`
}
