package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/luxentra/internal/cache"
	"github.com/example/luxentra/internal/models"
	"github.com/example/luxentra/internal/repository"
)

type mockCartRepo struct {
	m     sync.Mutex
	items []models.CartItem
	err   error
}

func (m *mockCartRepo) ItemsByUser(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.CartItem
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockCartRepo) Save(_ context.Context, item *models.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = *item
			return nil
		}
	}
	m.items = append(m.items, *item)
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, itemID uuid.UUID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, item := range m.items {
		if item.ID == itemID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	kept := m.items[:0]
	for _, item := range m.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	m.items = kept
	return nil
}

func (m *mockCartRepo) count() int {
	m.m.Lock()
	defer m.m.Unlock()
	return len(m.items)
}

type mockOrderRepo struct {
	m         sync.Mutex
	orders    map[uuid.UUID]*models.Order
	createErr error
	transErr  error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepo) CreateWithItems(_ context.Context, order *models.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	m.orders[order.ID] = &stored
	return nil
}

func (m *mockOrderRepo) ByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepo) ByOrderNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, order := range m.orders {
		if order.OrderNumber == orderNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) FinalizeCashOnDelivery(_ context.Context, id uuid.UUID) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.transErr != nil {
		return false, m.transErr
	}
	order, ok := m.orders[id]
	if !ok || order.PaymentStatus != models.PaymentStatusPending ||
		order.OrderStatus != models.OrderStatusPending {
		return false, nil
	}
	order.OrderStatus = models.OrderStatusProcessing
	order.PaymentMethod = "Cash On Delivery"
	return true, nil
}

func (m *mockOrderRepo) SettlePayment(_ context.Context, id uuid.UUID, paymentMethod string) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.transErr != nil {
		return false, m.transErr
	}
	order, ok := m.orders[id]
	if !ok || order.PaymentStatus != models.PaymentStatusPending {
		return false, nil
	}
	order.PaymentStatus = models.PaymentStatusCompleted
	order.OrderStatus = models.OrderStatusProcessing
	order.PaymentMethod = paymentMethod
	return true, nil
}

func (m *mockOrderRepo) FailPayment(_ context.Context, id uuid.UUID, paymentMethod string) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.transErr != nil {
		return false, m.transErr
	}
	order, ok := m.orders[id]
	if !ok || order.PaymentStatus != models.PaymentStatusPending {
		return false, nil
	}
	order.PaymentStatus = models.PaymentStatusFailed
	order.OrderStatus = models.OrderStatusCancelled
	order.PaymentMethod = paymentMethod
	return true, nil
}

func (m *mockOrderRepo) get(id uuid.UUID) *models.Order {
	m.m.Lock()
	defer m.m.Unlock()
	order := m.orders[id]
	if order == nil {
		return nil
	}
	copied := *order
	return &copied
}

type mockSessionRepo struct {
	m        sync.Mutex
	sessions map[uuid.UUID]*models.CheckoutSession
	err      error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[uuid.UUID]*models.CheckoutSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *models.CheckoutSession) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	stored := *session
	m.sessions[session.ID] = &stored
	return nil
}

func (m *mockSessionRepo) ByID(_ context.Context, id uuid.UUID) (*models.CheckoutSession, error) {
	m.m.Lock()
	defer m.m.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *mockSessionRepo) Consume(_ context.Context, id uuid.UUID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if session, ok := m.sessions[id]; ok && session.ConsumedAt == nil {
		now := time.Now()
		session.ConsumedAt = &now
	}
	return nil
}

func (m *mockSessionRepo) ConsumeByOrder(_ context.Context, orderID uuid.UUID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, session := range m.sessions {
		if session.OrderID == orderID && session.ConsumedAt == nil {
			now := time.Now()
			session.ConsumedAt = &now
		}
	}
	return nil
}

func (m *mockSessionRepo) get(id uuid.UUID) *models.CheckoutSession {
	m.m.Lock()
	defer m.m.Unlock()
	session := m.sessions[id]
	if session == nil {
		return nil
	}
	copied := *session
	return &copied
}

type mockCache struct {
	m     sync.Mutex
	carts map[string][]models.CartItem
}

func newMockCache() *mockCache {
	return &mockCache{carts: make(map[string][]models.CartItem)}
}

func (m *mockCache) Get(_ context.Context, userID string) ([]models.CartItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	items, ok := m.carts[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return items, nil
}

func (m *mockCache) Set(_ context.Context, userID string, items []models.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.carts[userID] = items
	return nil
}

func (m *mockCache) Delete(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, userID)
	return nil
}

type mockMailer struct {
	m     sync.Mutex
	sent  []OrderConfirmation
	err   error
	calls chan struct{}
}

func newMockMailer() *mockMailer {
	return &mockMailer{calls: make(chan struct{}, 16)}
}

func (m *mockMailer) SendOrderConfirmation(conf OrderConfirmation) error {
	m.m.Lock()
	m.sent = append(m.sent, conf)
	m.m.Unlock()
	m.calls <- struct{}{}
	return m.err
}

type mockAdminNotifier struct {
	m        sync.Mutex
	orders   []OrderNotification
	payments []PaymentNotification
}

func (m *mockAdminNotifier) NotifyNewOrder(n OrderNotification) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.orders = append(m.orders, n)
	return nil
}

func (m *mockAdminNotifier) NotifyPaymentReceived(n PaymentNotification) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.payments = append(m.payments, n)
	return nil
}
