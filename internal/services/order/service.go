package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"
	"food-ordering-system/internal/services/billing"
	"food-ordering-system/internal/services/notification"
	"food-ordering-system/internal/services/payment"
)

var (
	// ErrStoreUnavailable marks a failed bill insert. The whole order
	// placement fails on it; the already-confirmed payment is not
	// compensated.
	ErrStoreUnavailable = errors.New("order store unavailable")

	// ErrPaymentRefused marks an authorizer that answered but refused.
	ErrPaymentRefused = errors.New("payment failed")

	// ErrNotFound marks a lookup for an order that does not exist.
	ErrNotFound = errors.New("order not found")
)

// BillStore persists and retrieves bills.
type BillStore interface {
	InsertBill(ctx context.Context, bill *models.Bill) error
	GetBill(ctx context.Context, id int64) (*models.Bill, error)
}

// EventPublisher announces placed orders to interested consumers.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, msg *models.OrderPlacedMessage) error
}

// Service sequences order placement: payment authorization, bill
// composition, persistence, then best-effort notification. Transitions
// are strictly sequential; persistence failure fails the call, while
// notification failure is recorded and swallowed.
type Service struct {
	store           BillStore
	authorizer      payment.Authorizer
	dispatcher      notification.Dispatcher
	publisher       EventPublisher
	logger          *logger.Logger
	billingEmail    string
	dispatchTimeout time.Duration

	dispatches       atomic.Int64
	dispatchFailures atomic.Int64
	inflight         sync.WaitGroup
}

// NewService creates the order orchestrator. publisher may be nil when
// no message broker is configured.
func NewService(store BillStore, authorizer payment.Authorizer, dispatcher notification.Dispatcher,
	publisher EventPublisher, log *logger.Logger, billingEmail string) *Service {
	return &Service{
		store:           store,
		authorizer:      authorizer,
		dispatcher:      dispatcher,
		publisher:       publisher,
		logger:          log,
		billingEmail:    billingEmail,
		dispatchTimeout: 10 * time.Second,
	}
}

// PlaceOrder runs one order through the full placement sequence and
// returns the caller-visible result.
func (s *Service) PlaceOrder(ctx context.Context, req *models.OrderRequest, requestID string) (*models.OrderResult, error) {
	if err := ValidateOrderRequest(req); err != nil {
		return nil, err
	}

	total := req.Total()
	confirmation, err := s.authorizer.Authorize(ctx, total, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, payment.ErrUnavailable) {
			return nil, fmt.Errorf("authorizing payment: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentRefused, err)
	}

	bill := billing.Compose(req, confirmation, time.Now())

	insertCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.store.InsertBill(insertCtx, bill); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("order_placed", "Order persisted", requestID, map[string]interface{}{
		"order_id":     bill.ID,
		"restaurant":   bill.Restaurant,
		"total_amount": bill.TotalAmount,
	})

	s.dispatchReceipt(bill, requestID)
	s.publishOrderPlaced(bill, requestID)

	return &models.OrderResult{
		Message: "Order Placed",
		OrderID: bill.ID,
		Bill:    bill.ReceiptText,
	}, nil
}

// GetOrder returns a previously persisted bill.
func (s *Service) GetOrder(ctx context.Context, id int64) (*models.Bill, error) {
	return s.store.GetBill(ctx, id)
}

// dispatchReceipt sends the receipt without blocking the caller's
// success path. The outcome is logged and counted, never surfaced.
func (s *Service) dispatchReceipt(bill *models.Bill, requestID string) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()

		s.dispatches.Add(1)
		if err := s.dispatcher.Send(ctx, s.billingEmail, bill.ReceiptText); err != nil {
			s.dispatchFailures.Add(1)
			s.logger.Error("notification_failed", "Failed to send receipt", requestID, err, map[string]interface{}{
				"order_id":  bill.ID,
				"recipient": s.billingEmail,
			})
			return
		}

		s.logger.Debug("notification_sent", "Receipt dispatched", requestID, map[string]interface{}{
			"order_id":  bill.ID,
			"recipient": s.billingEmail,
		})
	}()
}

// publishOrderPlaced emits the order-placed event, best effort.
func (s *Service) publishOrderPlaced(bill *models.Bill, requestID string) {
	if s.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.publisher.PublishOrderPlaced(ctx, models.NewOrderPlacedMessage(bill)); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order-placed event", requestID, err, map[string]interface{}{
			"order_id": bill.ID,
		})
	}
}

// DispatchStats reports how many receipt dispatches were attempted and
// how many failed since start.
func (s *Service) DispatchStats() (attempts, failures int64) {
	return s.dispatches.Load(), s.dispatchFailures.Load()
}

// Wait blocks until in-flight receipt dispatches finish. Used on
// shutdown and in tests.
func (s *Service) Wait() {
	s.inflight.Wait()
}
