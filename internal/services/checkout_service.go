package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/luxentra/internal/models"
	"github.com/example/luxentra/internal/repository"
	"github.com/example/luxentra/internal/utils"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no cart
	// lines; the client sends the user back to the shop.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingFields is returned when required shipping or contact
	// fields are blank.
	ErrMissingFields = errors.New("missing required fields")
)

// Pricing holds the checkout pricing rules.
type Pricing struct {
	ShippingCharge        float64
	FreeShippingThreshold float64
	TaxRate               float64
	CouponCode            string
	CouponPercent         float64
}

// PlaceOrderInput carries the user-entered shipping and contact fields.
type PlaceOrderInput struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	CouponCode string `json:"coupon_code"`
}

// CheckoutResult is returned to the client after a successful checkout
// submission. The token is the only way to reach the payment step.
type CheckoutResult struct {
	OrderID     uuid.UUID          `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	Token       string             `json:"checkout_token"`
	Bill        models.BillSummary `json:"bill_summary"`
}

// CheckoutService turns a cart into a pending order plus a checkout session.
type CheckoutService struct {
	orders    repository.OrderRepository
	sessions  repository.SessionRepository
	carts     repository.CartRepository
	pricing   Pricing
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewCheckoutService(
	orders repository.OrderRepository,
	sessions repository.SessionRepository,
	carts repository.CartRepository,
	pricing Pricing,
	jwtSecret string,
	tokenTTL time.Duration,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		sessions:  sessions,
		carts:     carts,
		pricing:   pricing,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// PlaceOrder creates exactly one pending order and its checkout session.
// The bill summary is computed here once and frozen into the session; later
// cart mutations cannot change what the payment step charges.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, in PlaceOrderInput) (*CheckoutResult, error) {
	if err := validateShipping(in); err != nil {
		return nil, err
	}

	items, err := s.carts.ItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	bill := s.ComputeBill(items, in.CouponCode)

	order := models.Order{
		UserID:         &userID,
		OrderNumber:    generateOrderNumber(),
		FullName:       in.FullName,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		City:           in.City,
		PostalCode:     in.PostalCode,
		Country:        in.Country,
		Subtotal:       bill.SubTotal,
		Discount:       bill.Discount,
		ShippingCharge: bill.ShippingCharge,
		Tax:            bill.Tax,
		TotalAmount:    bill.Total,
		PaymentStatus:  models.PaymentStatusPending,
		OrderStatus:    models.OrderStatusPending,
		PlacedAt:       s.now(),
	}

	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice,
		})
	}

	if err := s.orders.CreateWithItems(ctx, &order); err != nil {
		return nil, err
	}

	billRaw, err := json.Marshal(bill)
	if err != nil {
		return nil, err
	}

	session := models.CheckoutSession{
		OrderID:     order.ID,
		UserID:      &userID,
		BillSummary: billRaw,
		ExpiresAt:   s.now().Add(s.tokenTTL),
	}

	if err := s.sessions.Create(ctx, &session); err != nil {
		// The order stays behind as an abandoned pending row; the user
		// has to restart checkout.
		log.Printf("[Checkout] session create failed, order %s left pending: %v", order.ID, err)
		return nil, err
	}

	token, err := utils.GenerateCheckoutToken(s.jwtSecret, session.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Token:       token,
		Bill:        bill,
	}, nil
}

// ComputeBill derives the bill summary from cart lines and an optional
// coupon. total = sub_total - discount + shipping + tax.
func (s *CheckoutService) ComputeBill(items []models.CartItem, couponCode string) models.BillSummary {
	var bill models.BillSummary
	for _, item := range items {
		bill.SubTotal += item.LineTotal()
	}

	if couponCode != "" && s.pricing.CouponCode != "" &&
		strings.EqualFold(couponCode, s.pricing.CouponCode) {
		bill.Discount = bill.SubTotal * s.pricing.CouponPercent / 100
	}

	bill.ShippingCharge = s.pricing.ShippingCharge
	if s.pricing.FreeShippingThreshold > 0 && bill.SubTotal >= s.pricing.FreeShippingThreshold {
		bill.ShippingCharge = 0
	}

	bill.Tax = bill.SubTotal * s.pricing.TaxRate / 100
	bill.Total = bill.SubTotal - bill.Discount + bill.ShippingCharge + bill.Tax
	return bill
}

func validateShipping(in PlaceOrderInput) error {
	required := []string{in.FullName, in.Email, in.Phone, in.Address, in.City, in.PostalCode, in.Country}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return ErrMissingFields
		}
	}
	return nil
}

func generateOrderNumber() string {
	return fmt.Sprintf("LUX-%d", time.Now().UnixNano()%1000000000)
}
