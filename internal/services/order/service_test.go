package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"
	"food-ordering-system/internal/services/payment"
)

type fakeStore struct {
	mu       sync.Mutex
	bills    map[int64]*models.Bill
	inserts  int
	insertFn func(*models.Bill) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{bills: make(map[int64]*models.Bill)}
}

func (s *fakeStore) InsertBill(_ context.Context, bill *models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertFn != nil {
		if err := s.insertFn(bill); err != nil {
			return err
		}
	}
	s.bills[bill.ID] = bill
	return nil
}

func (s *fakeStore) GetBill(_ context.Context, id int64) (*models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bill, ok := s.bills[id]
	if !ok {
		return nil, ErrNotFound
	}
	return bill, nil
}

type fakeDispatcher struct {
	mu    sync.Mutex
	sends []string
	err   error
}

func (d *fakeDispatcher) Send(_ context.Context, recipient, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sends = append(d.sends, recipient)
	return nil
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sends)
}

type fakeAuthorizer struct {
	calls int
	err   error
}

func (a *fakeAuthorizer) Authorize(_ context.Context, amount float64, method string) (string, error) {
	a.calls++
	if a.err != nil {
		return "", a.err
	}
	return payment.Confirmation(amount, payment.ParseMethod(method)), nil
}

func newTestService(store BillStore, auth payment.Authorizer, dispatcher *fakeDispatcher) *Service {
	return NewService(store, auth, dispatcher, nil, logger.New("order-test"), "billing@example.com")
}

func orderRequest() *models.OrderRequest {
	return &models.OrderRequest{
		UserDetails: models.UserDetails{
			Username: "alice",
			Email:    "alice@example.com",
			Phone:    "9876543210",
		},
		RestaurantName: "Spice Villa",
		Items: []models.OrderItem{
			{Name: "Burger", Price: 5.0, Quantity: 2},
		},
		DeliveryCharge: 2.0,
		PaymentMethod:  "gpay",
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	store := newFakeStore()
	dispatcher := &fakeDispatcher{}
	svc := newTestService(store, &fakeAuthorizer{}, dispatcher)

	result, err := svc.PlaceOrder(context.Background(), orderRequest(), "req_test")
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, "Order Placed", result.Message)
	assert.NotZero(t, result.OrderID)
	assert.Contains(t, result.Bill, "TOTAL: ₹12.00")
	assert.Contains(t, result.Bill, "Paid ₹12.00 via Google Pay")

	stored, err := store.GetBill(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, result.Bill, stored.ReceiptText)
	assert.Equal(t, 12.0, stored.TotalAmount)

	assert.Equal(t, 1, dispatcher.count())
	assert.Equal(t, "billing@example.com", dispatcher.sends[0])

	attempts, failures := svc.DispatchStats()
	assert.Equal(t, int64(1), attempts)
	assert.Equal(t, int64(0), failures)
}

func TestPlaceOrder_ValidationFailureHasNoSideEffects(t *testing.T) {
	store := newFakeStore()
	auth := &fakeAuthorizer{}
	dispatcher := &fakeDispatcher{}
	svc := newTestService(store, auth, dispatcher)

	req := orderRequest()
	req.Items = nil

	_, err := svc.PlaceOrder(context.Background(), req, "req_test")
	svc.Wait()

	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, auth.calls)
	assert.Equal(t, 0, store.inserts)
	assert.Equal(t, 0, dispatcher.count())
}

func TestPlaceOrder_StoreFailureFailsTheOrder(t *testing.T) {
	store := newFakeStore()
	store.insertFn = func(*models.Bill) error { return errors.New("connection refused") }
	dispatcher := &fakeDispatcher{}
	svc := newTestService(store, &fakeAuthorizer{}, dispatcher)

	_, err := svc.PlaceOrder(context.Background(), orderRequest(), "req_test")
	svc.Wait()

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 0, dispatcher.count())

	attempts, _ := svc.DispatchStats()
	assert.Equal(t, int64(0), attempts)
}

func TestPlaceOrder_AuthorizerUnavailable(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeAuthorizer{err: payment.ErrUnavailable}, &fakeDispatcher{})

	_, err := svc.PlaceOrder(context.Background(), orderRequest(), "req_test")
	svc.Wait()

	assert.ErrorIs(t, err, payment.ErrUnavailable)
	assert.Equal(t, 0, store.inserts)
}

func TestPlaceOrder_AuthorizerRefusal(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeAuthorizer{err: errors.New("card declined")}, &fakeDispatcher{})

	_, err := svc.PlaceOrder(context.Background(), orderRequest(), "req_test")
	svc.Wait()

	assert.ErrorIs(t, err, ErrPaymentRefused)
	assert.Equal(t, 0, store.inserts)
}

func TestPlaceOrder_NotificationFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	dispatcher := &fakeDispatcher{err: errors.New("smtp timeout")}
	svc := newTestService(store, &fakeAuthorizer{}, dispatcher)

	result, err := svc.PlaceOrder(context.Background(), orderRequest(), "req_test")
	require.NoError(t, err)
	svc.Wait()

	assert.NotZero(t, result.OrderID)

	attempts, failures := svc.DispatchStats()
	assert.Equal(t, int64(1), attempts)
	assert.Equal(t, int64(1), failures)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeAuthorizer{}, &fakeDispatcher{})

	_, err := svc.GetOrder(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
