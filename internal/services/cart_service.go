package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/example/luxentra/internal/cache"
	"github.com/example/luxentra/internal/catalog"
	"github.com/example/luxentra/internal/models"
	"github.com/example/luxentra/internal/repository"
)

var (
	// ErrProductNotFound is returned when a cart mutation references an
	// unknown product id.
	ErrProductNotFound = errors.New("product not found")
	// ErrCartItemNotFound is returned when the referenced cart line does
	// not exist.
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrInvalidQuantity is returned for non-positive add quantities.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// CartView is a cart read model with the running subtotal.
type CartView struct {
	Items    []models.CartItem `json:"items"`
	SubTotal float64           `json:"sub_total"`
	Count    int               `json:"count"`
}

// CartService owns the per-user cart. Prices, names and images are always
// snapshotted from the catalog so a client cannot set its own price.
type CartService struct {
	repo    repository.CartRepository
	cache   cache.CartCache
	catalog *catalog.Catalog
	events  *CartBroadcaster
	sfg     singleflight.Group // prevents cache stampede
}

func NewCartService(repo repository.CartRepository, c cache.CartCache, cat *catalog.Catalog, events *CartBroadcaster) *CartService {
	return &CartService{repo: repo, cache: c, catalog: cat, events: events}
}

// GetCart returns the user's cart, served from cache when possible.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	v, err, _ := s.sfg.Do(userID.String(), func() (interface{}, error) {
		if s.cache != nil {
			items, err := s.cache.Get(ctx, userID.String())
			if err == nil {
				return items, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				log.Printf("[Cart] cache get error: %v", err)
			}
		}

		items, err := s.repo.ItemsByUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			go func() {
				if err := s.cache.Set(context.Background(), userID.String(), items); err != nil {
					log.Printf("[Cart] cache set error: %v", err)
				}
			}()
		}

		return items, nil
	})
	if err != nil {
		return nil, err
	}

	return buildCartView(v.([]models.CartItem)), nil
}

// AddItemInput identifies the product variant and quantity to add.
type AddItemInput struct {
	ProductID     int    `json:"product_id"`
	SelectedSize  string `json:"selected_size"`
	SelectedColor string `json:"selected_color"`
	Quantity      int    `json:"quantity"`
}

// AddItem merges the given variant into the cart. Adding the same
// (product, size, color) twice yields one line with the summed quantity.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, in AddItemInput) (*CartView, error) {
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, ok := s.catalog.Get(in.ProductID)
	if !ok {
		return nil, ErrProductNotFound
	}

	items, err := s.repo.ItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := models.CartItem{
		UserID:        userID,
		ProductID:     in.ProductID,
		Name:          product.Name,
		UnitPrice:     product.Price,
		Image:         product.Image,
		SelectedSize:  in.SelectedSize,
		SelectedColor: in.SelectedColor,
		Quantity:      in.Quantity,
	}

	for i := range items {
		if items[i].SameIdentity(line) {
			items[i].Quantity += in.Quantity
			line = items[i]
			break
		}
	}

	if err := s.repo.Save(ctx, &line); err != nil {
		return nil, err
	}

	return s.afterMutation(ctx, userID, CartEventAdded)
}

// UpdateQuantity sets the quantity of one cart line. A value of zero or
// below removes the line: quantity is never persisted under 1.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartView, error) {
	items, err := s.repo.ItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var found *models.CartItem
	for i := range items {
		if items[i].ID == itemID {
			found = &items[i]
			break
		}
	}
	if found == nil {
		return nil, ErrCartItemNotFound
	}

	if quantity <= 0 {
		if err := s.repo.Delete(ctx, found.ID); err != nil {
			return nil, err
		}
		return s.afterMutation(ctx, userID, CartEventRemoved)
	}

	found.Quantity = quantity
	if err := s.repo.Save(ctx, found); err != nil {
		return nil, err
	}

	return s.afterMutation(ctx, userID, CartEventUpdated)
}

// RemoveItem deletes one cart line.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartView, error) {
	items, err := s.repo.ItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == itemID {
			if err := s.repo.Delete(ctx, itemID); err != nil {
				return nil, err
			}
			return s.afterMutation(ctx, userID, CartEventRemoved)
		}
	}

	return nil, ErrCartItemNotFound
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	_, err := s.afterMutation(ctx, userID, CartEventCleared)
	return err
}

func (s *CartService) afterMutation(ctx context.Context, userID uuid.UUID, action string) (*CartView, error) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, userID.String()); err != nil {
			log.Printf("[Cart] cache invalidate error: %v", err)
		}
	}

	items, err := s.repo.ItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := buildCartView(items)
	if s.events != nil {
		s.events.Publish(CartEvent{UserID: userID.String(), Action: action, Count: view.Count})
	}
	return view, nil
}

func buildCartView(items []models.CartItem) *CartView {
	view := &CartView{Items: items}
	if view.Items == nil {
		view.Items = []models.CartItem{}
	}
	for _, item := range items {
		view.SubTotal += item.LineTotal()
		view.Count += item.Quantity
	}
	return view
}
