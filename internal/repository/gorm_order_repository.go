package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/luxentra/internal/models"
)

// GormOrderRepository implements OrderRepository on Postgres.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	// gorm creates the associated items in the same transaction.
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) ByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) ByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FinalizeCashOnDelivery(ctx context.Context, id uuid.UUID) (bool, error) {
	// COD keeps payment_status pending until collection, so the guard has
	// to cover order_status as well or a replay would finalize twice.
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ? AND order_status = ?",
			id, models.PaymentStatusPending, models.OrderStatusPending).
		Updates(map[string]any{
			"order_status":   models.OrderStatusProcessing,
			"payment_method": "Cash On Delivery",
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormOrderRepository) SettlePayment(ctx context.Context, id uuid.UUID, paymentMethod string) (bool, error) {
	return r.transition(ctx, id, map[string]any{
		"payment_status": models.PaymentStatusCompleted,
		"order_status":   models.OrderStatusProcessing,
		"payment_method": paymentMethod,
	})
}

func (r *GormOrderRepository) FailPayment(ctx context.Context, id uuid.UUID, paymentMethod string) (bool, error) {
	return r.transition(ctx, id, map[string]any{
		"payment_status": models.PaymentStatusFailed,
		"order_status":   models.OrderStatusCancelled,
		"payment_method": paymentMethod,
	})
}

// transition applies updates with a payment_status=pending guard in one
// conditional UPDATE. The affected-row count is the race guard: two
// concurrent callers cannot both win.
func (r *GormOrderRepository) transition(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, models.PaymentStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
