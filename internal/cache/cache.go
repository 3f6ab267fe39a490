package cache

import (
	"context"
	"errors"

	"github.com/example/luxentra/internal/models"
)

// ErrCacheMiss is returned when no cart is cached for the user.
var ErrCacheMiss = errors.New("cart not found in cache")

// CartCache caches the full cart per user.
type CartCache interface {
	Get(ctx context.Context, userID string) ([]models.CartItem, error)
	Set(ctx context.Context, userID string, items []models.CartItem) error
	Delete(ctx context.Context, userID string) error
}
