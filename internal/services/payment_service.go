package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/luxentra/internal/models"
	"github.com/example/luxentra/internal/repository"
	"github.com/example/luxentra/internal/utils"
)

var (
	// ErrSessionInvalid means the checkout token is missing, corrupt,
	// expired or already consumed. The client must restart checkout; the
	// session is never reconstructed from the order record.
	ErrSessionInvalid = errors.New("checkout session is invalid")
	// ErrAlreadyProcessed means the order has already left the pending
	// state. This is the sole replay and duplicate-payment guard.
	ErrAlreadyProcessed = errors.New("Order already processed")
	// ErrGatewayPending marks the hosted gateway hand-off as not yet
	// integrated. The order is left untouched.
	ErrGatewayPending = errors.New("hosted gateway integration pending")
)

// CartClearer empties a user's cart after durable finalization.
type CartClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ConfirmationMailer dispatches the order confirmation email.
type ConfirmationMailer interface {
	SendOrderConfirmation(conf OrderConfirmation) error
}

// AdminNotifier pings the admin channel about order activity.
type AdminNotifier interface {
	NotifyNewOrder(n OrderNotification) error
	NotifyPaymentReceived(n PaymentNotification) error
}

// PaymentMethodInfo describes one selectable payment method.
type PaymentMethodInfo struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Default bool   `json:"default"`
	Enabled bool   `json:"enabled"`
}

// PaymentSession is the payment page's read model: the pinned order and the
// frozen bill summary, never recomputed from the live cart.
type PaymentSession struct {
	SessionID   uuid.UUID          `json:"session_id"`
	OrderID     uuid.UUID          `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	Bill        models.BillSummary `json:"bill_summary"`
}

// CODReceipt is returned after a cash-on-delivery finalize.
type CODReceipt struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// VerifyPaymentInput is the verification function's request contract.
type VerifyPaymentInput struct {
	OrderID        string         `json:"orderId"`
	PaymentMethod  string         `json:"paymentMethod"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
}

// PaymentService drives the payment step of the order state machine.
type PaymentService struct {
	orders    repository.OrderRepository
	sessions  repository.SessionRepository
	carts     CartClearer
	mailer    ConfirmationMailer
	admin     AdminNotifier
	jwtSecret string
	now       func() time.Time
}

func NewPaymentService(
	orders repository.OrderRepository,
	sessions repository.SessionRepository,
	carts CartClearer,
	mailer ConfirmationMailer,
	admin AdminNotifier,
	jwtSecret string,
) *PaymentService {
	return &PaymentService{
		orders:    orders,
		sessions:  sessions,
		carts:     carts,
		mailer:    mailer,
		admin:     admin,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// Methods lists the selectable payment methods, COD first as the default.
func (s *PaymentService) Methods() []PaymentMethodInfo {
	return []PaymentMethodInfo{
		{ID: "cod", Label: "Cash On Delivery", Default: true, Enabled: true},
		{ID: PaymentMethodCard, Label: methodLabels[PaymentMethodCard], Enabled: true},
		{ID: PaymentMethodPayPal, Label: methodLabels[PaymentMethodPayPal], Enabled: true},
		{ID: PaymentMethodBanking, Label: methodLabels[PaymentMethodBanking], Enabled: true},
		{ID: "gateway", Label: "Hosted Gateway", Enabled: false},
	}
}

// Session resolves a checkout token into the payment page read model.
func (s *PaymentService) Session(ctx context.Context, token string) (*PaymentSession, error) {
	session, err := s.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.ByID(ctx, session.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}

	var bill models.BillSummary
	if err := json.Unmarshal(session.BillSummary, &bill); err != nil {
		return nil, ErrSessionInvalid
	}

	return &PaymentSession{
		SessionID:   session.ID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Bill:        bill,
	}, nil
}

// FinalizeCashOnDelivery moves the pinned order to processing with a single
// conditional update. Only after that update succeeds are the session and
// cart cleared; on any failure both are left untouched so the exact same
// submission can be retried.
func (s *PaymentService) FinalizeCashOnDelivery(ctx context.Context, token string) (*CODReceipt, error) {
	session, err := s.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	ok, err := s.orders.FinalizeCashOnDelivery(ctx, session.OrderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyProcessed
	}

	if err := s.sessions.Consume(ctx, session.ID); err != nil {
		log.Printf("[Payment] session consume failed for order %s: %v", session.OrderID, err)
	}

	if session.UserID != nil && s.carts != nil {
		if err := s.carts.Clear(ctx, *session.UserID); err != nil {
			log.Printf("[Payment] cart clear failed for user %s: %v", session.UserID, err)
		}
	}

	order, err := s.orders.ByID(ctx, session.OrderID)
	if err != nil {
		return nil, err
	}

	s.notifyConfirmed(order)

	return &CODReceipt{OrderID: order.ID, OrderNumber: order.OrderNumber}, nil
}

// StartGatewayPayment would hand off to the hosted gateway redirect. The
// integration is pending: the caller gets a visible error and the order is
// left untouched. The gateway is expected to call back into VerifyPayment.
func (s *PaymentService) StartGatewayPayment(ctx context.Context, token string) error {
	if _, err := s.resolveSession(ctx, token); err != nil {
		return err
	}
	return ErrGatewayPending
}

// VerifyPayment validates method-specific payment details and settles the
// order. The precondition (order exists, payment_status=pending) and the
// terminal transition are each single conditional updates; the affected-row
// check is what prevents double settlement under races.
func (s *PaymentService) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*models.Order, error) {
	orderID, err := uuid.Parse(in.OrderID)
	if err != nil {
		return nil, repository.ErrOrderNotFound
	}

	order, err := s.orders.ByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus != models.PaymentStatusPending {
		return nil, ErrAlreadyProcessed
	}

	label, verr := validatePaymentDetails(in.PaymentMethod, in.PaymentDetails, s.now())
	if verr != nil {
		if label != "" {
			if _, err := s.orders.FailPayment(ctx, orderID, label); err != nil {
				log.Printf("[Payment] fail transition error for order %s: %v", orderID, err)
			}
		}
		return nil, verr
	}

	ok, err := s.orders.SettlePayment(ctx, orderID, label)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against a concurrent verification call.
		return nil, ErrAlreadyProcessed
	}

	if err := s.sessions.ConsumeByOrder(ctx, orderID); err != nil {
		log.Printf("[Payment] session consume failed for order %s: %v", orderID, err)
	}

	if order.UserID != nil && s.carts != nil {
		if err := s.carts.Clear(ctx, *order.UserID); err != nil {
			log.Printf("[Payment] cart clear failed for user %s: %v", order.UserID, err)
		}
	}

	settled, err := s.orders.ByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.notifyConfirmed(settled)

	return settled, nil
}

// notifyConfirmed dispatches the confirmation email and admin ping. Both are
// best-effort side effects after the state transition: their results are
// logged, never surfaced to the caller.
func (s *PaymentService) notifyConfirmed(order *models.Order) {
	conf := OrderConfirmation{
		Email:        order.Email,
		OrderNumber:  order.OrderNumber,
		CustomerName: order.FullName,
		OrderTotal:   order.TotalAmount,
	}
	for _, item := range order.Items {
		conf.Items = append(conf.Items, ConfirmationItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	mailer := s.mailer
	admin := s.admin

	go func() {
		if mailer != nil {
			if err := mailer.SendOrderConfirmation(conf); err != nil {
				log.Printf("[Payment] confirmation email failed for order %s: %v", order.OrderNumber, err)
			}
		}
		if admin != nil {
			if order.PaymentStatus == models.PaymentStatusCompleted {
				if err := admin.NotifyPaymentReceived(PaymentNotification{
					OrderNumber:   order.OrderNumber,
					PaymentMethod: order.PaymentMethod,
					Amount:        order.TotalAmount,
				}); err != nil {
					log.Printf("[Payment] admin payment notification failed: %v", err)
				}
			} else {
				if err := admin.NotifyNewOrder(OrderNotification{
					OrderNumber:   order.OrderNumber,
					CustomerName:  order.FullName,
					Phone:         order.Phone,
					TotalAmount:   order.TotalAmount,
					PaymentMethod: order.PaymentMethod,
					Status:        order.OrderStatus,
				}); err != nil {
					log.Printf("[Payment] admin order notification failed: %v", err)
				}
			}
		}
	}()
}

func (s *PaymentService) resolveSession(ctx context.Context, token string) (*models.CheckoutSession, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}

	sessionID, err := utils.ParseCheckoutToken(s.jwtSecret, token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	session, err := s.sessions.ByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}

	if session.ConsumedAt != nil || s.now().After(session.ExpiresAt) {
		return nil, ErrSessionInvalid
	}

	return session, nil
}
