package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/luxentra/internal/cache"
	"github.com/example/luxentra/internal/catalog"
	"github.com/example/luxentra/internal/models"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Product{
		{ID: 1, Name: "Classic Oxford Shirt", Price: 850, Image: "/images/products/oxford-shirt.jpg", Sizes: []string{"S", "M", "L"}},
		{ID: 7, Name: "Denim Trucker Jacket", Price: 500, Image: "/images/products/trucker-jacket.jpg", Sizes: []string{"S", "M", "L"}},
	})
}

type cartFixture struct {
	repo   *mockCartRepo
	cache  *mockCache
	events *CartBroadcaster
	svc    *CartService
	userID uuid.UUID
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	repo := &mockCartRepo{}
	c := newMockCache()
	events := NewCartBroadcaster()
	return &cartFixture{
		repo:   repo,
		cache:  c,
		events: events,
		svc:    NewCartService(repo, c, testCatalog(), events),
		userID: uuid.New(),
	}
}

func TestAddItemMergesSameVariant(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 1, SelectedSize: "M", SelectedColor: "white", Quantity: 1})
	require.NoError(t, err)

	view, err := f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 1, SelectedSize: "M", SelectedColor: "white", Quantity: 2})
	require.NoError(t, err)

	require.Len(t, view.Items, 1, "same variant must merge into one line")
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 3, view.Count)
	assert.Equal(t, 850.0*3, view.SubTotal)
	assert.Equal(t, 1, f.repo.count())
}

func TestAddItemDistinctVariantsStaySeparate(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 1, SelectedSize: "M", SelectedColor: "white", Quantity: 1})
	require.NoError(t, err)

	view, err := f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 1, SelectedSize: "L", SelectedColor: "white", Quantity: 1})
	require.NoError(t, err)

	assert.Len(t, view.Items, 2)
	assert.Equal(t, 2, view.Count)
}

func TestAddItemSnapshotsCatalogPrice(t *testing.T) {
	f := newCartFixture(t)

	view, err := f.svc.AddItem(context.Background(), f.userID, AddItemInput{ProductID: 7, SelectedSize: "L", SelectedColor: "indigo", Quantity: 1})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "Denim Trucker Jacket", view.Items[0].Name)
	assert.Equal(t, 500.0, view.Items[0].UnitPrice)
	assert.Equal(t, "/images/products/trucker-jacket.jpg", view.Items[0].Image)
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.AddItem(context.Background(), f.userID, AddItemInput{ProductID: 999, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.AddItem(context.Background(), f.userID, AddItemInput{ProductID: 1, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.svc.AddItem(context.Background(), f.userID, AddItemInput{ProductID: 1, Quantity: -2})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateQuantity(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	view, err := f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 1, SelectedSize: "M", Quantity: 2})
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = f.svc.UpdateQuantity(ctx, f.userID, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, 850.0*5, view.SubTotal)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	view, err := f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 1, SelectedSize: "M", Quantity: 2})
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = f.svc.UpdateQuantity(ctx, f.userID, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, f.repo.count())
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.UpdateQuantity(context.Background(), f.userID, uuid.New(), 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	view, err := f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 1, SelectedSize: "M", Quantity: 1})
	require.NoError(t, err)

	view, err = f.svc.RemoveItem(ctx, f.userID, view.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = f.svc.RemoveItem(ctx, f.userID, uuid.New())
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestClearEmptiesCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 1, SelectedSize: "M", Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 7, SelectedSize: "L", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, f.svc.Clear(ctx, f.userID))
	assert.Equal(t, 0, f.repo.count())

	view, err := f.svc.GetCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.Count)
}

func TestGetCartServesFromCache(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	cached := []models.CartItem{{
		BaseModel: models.BaseModel{ID: uuid.New()},
		UserID:    f.userID,
		ProductID: 1,
		Name:      "Classic Oxford Shirt",
		UnitPrice: 850,
		Quantity:  2,
	}}
	require.NoError(t, f.cache.Set(ctx, f.userID.String(), cached))

	// Repo errors would surface if the cache were bypassed.
	f.repo.err = assert.AnError

	view, err := f.svc.GetCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, 1700.0, view.SubTotal)
}

func TestMutationInvalidatesCache(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Set(ctx, f.userID.String(), []models.CartItem{}))

	_, err := f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 1, SelectedSize: "M", Quantity: 1})
	require.NoError(t, err)

	_, err = f.cache.Get(ctx, f.userID.String())
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestCartServiceWorksWithoutCache(t *testing.T) {
	repo := &mockCartRepo{}
	svc := NewCartService(repo, nil, testCatalog(), nil)
	userID := uuid.New()

	view, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: 1, SelectedSize: "S", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)

	view, err = svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
}

func TestMutationsPublishCartEvents(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	ch, cancel := f.events.Subscribe()
	defer cancel()

	view, err := f.svc.AddItem(ctx, f.userID, AddItemInput{ProductID: 1, SelectedSize: "M", Quantity: 2})
	require.NoError(t, err)

	event := receiveEvent(t, ch)
	assert.Equal(t, f.userID.String(), event.UserID)
	assert.Equal(t, CartEventAdded, event.Action)
	assert.Equal(t, 2, event.Count)

	_, err = f.svc.RemoveItem(ctx, f.userID, view.Items[0].ID)
	require.NoError(t, err)

	event = receiveEvent(t, ch)
	assert.Equal(t, CartEventRemoved, event.Action)
	assert.Equal(t, 0, event.Count)
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	b := NewCartBroadcaster()
	ch, cancel := b.Subscribe()
	cancel()

	// Publishing after cancel must not panic and the channel is closed.
	b.Publish(CartEvent{Action: CartEventAdded})

	_, open := <-ch
	assert.False(t, open)
}

func receiveEvent(t *testing.T, ch <-chan CartEvent) CartEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("no cart event received")
		return CartEvent{}
	}
}
