package models

import (
	"github.com/google/uuid"
)

// CartItem is one line of a user's cart. Identity for merge purposes is
// (user_id, product_id, selected_size, selected_color): adding the same
// combination again increases quantity instead of inserting a second row.
type CartItem struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_cart_identity" json:"user_id"`
	ProductID     int       `gorm:"uniqueIndex:idx_cart_identity" json:"product_id"`
	Name          string    `json:"name"`
	UnitPrice     float64   `json:"unit_price"`
	Image         string    `json:"image"`
	SelectedSize  string    `gorm:"uniqueIndex:idx_cart_identity" json:"selected_size"`
	SelectedColor string    `gorm:"uniqueIndex:idx_cart_identity" json:"selected_color"`
	Quantity      int       `json:"quantity"`
}

// SameIdentity reports whether two cart lines refer to the same purchasable
// variant.
func (i CartItem) SameIdentity(other CartItem) bool {
	return i.ProductID == other.ProductID &&
		i.SelectedSize == other.SelectedSize &&
		i.SelectedColor == other.SelectedColor
}

// LineTotal returns unit price times quantity.
func (i CartItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
