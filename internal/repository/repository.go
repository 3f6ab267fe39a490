package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/example/luxentra/internal/models"
)

var (
	// ErrOrderNotFound is returned when no order matches the lookup.
	ErrOrderNotFound = errors.New("order not found")
	// ErrSessionNotFound is returned when no checkout session matches.
	ErrSessionNotFound = errors.New("checkout session not found")
)

// CartRepository persists cart lines per user.
type CartRepository interface {
	ItemsByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Save(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// OrderRepository persists orders and performs the guarded status
// transitions of the payment pipeline. All transition methods are single
// conditional updates: the bool result reports whether a row actually
// changed, which is the only duplicate-settlement guard in the system.
type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *models.Order) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)

	// FinalizeCashOnDelivery moves a fresh order to processing, leaving
	// payment_status pending until collection.
	FinalizeCashOnDelivery(ctx context.Context, id uuid.UUID) (bool, error)
	// SettlePayment marks a pending order as paid and processing.
	SettlePayment(ctx context.Context, id uuid.UUID, paymentMethod string) (bool, error)
	// FailPayment marks a pending order as failed and cancelled.
	FailPayment(ctx context.Context, id uuid.UUID, paymentMethod string) (bool, error)
}

// SessionRepository persists checkout sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.CheckoutSession) error
	ByID(ctx context.Context, id uuid.UUID) (*models.CheckoutSession, error)
	// Consume marks the session used; consuming twice is a no-op.
	Consume(ctx context.Context, id uuid.UUID) error
	// ConsumeByOrder marks any open session for the order as used.
	ConsumeByOrder(ctx context.Context, orderID uuid.UUID) error
}
