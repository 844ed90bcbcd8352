package payment

import (
	"context"
	"sync"
	"time"

	"constructo/internal/events"
	"constructo/internal/models"
	"constructo/internal/store"
)

type fakePayments struct {
	mu        sync.Mutex
	byRef     map[string]*models.Payment
	insertErr error
	inserts   int
	markCalls int
}

func newFakePayments() *fakePayments {
	return &fakePayments{byRef: map[string]*models.Payment{}}
}

func (f *fakePayments) InsertPayment(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, ok := f.byRef[p.RazorpayOrderID]; ok {
		return store.ErrDuplicate
	}
	f.inserts++
	cp := *p
	f.byRef[p.RazorpayOrderID] = &cp
	return nil
}

func (f *fakePayments) FindPaymentByProviderRef(_ context.Context, ref string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byRef[ref]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayments) MarkPaid(_ context.Context, ref, paymentID, signature string, paidAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	p, ok := f.byRef[ref]
	if !ok || p.Status != models.PaymentStatusCreated {
		return false, nil
	}
	p.Status = models.PaymentStatusPaid
	p.RazorpayPaymentID = paymentID
	p.RazorpaySignature = signature
	p.PaidAt = &paidAt
	return true, nil
}

func (f *fakePayments) get(ref string) *models.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byRef[ref]
}

type fakeOrders struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newFakeOrders(orders ...*models.Order) *fakeOrders {
	f := &fakeOrders{orders: map[string]*models.Order{}}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrders) FindOrder(_ context.Context, id, userID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ConfirmOrder(_ context.Context, id, userID, paymentRef string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.UserID != userID || o.Status != models.OrderStatusPending {
		return false, nil
	}
	o.Status = models.OrderStatusConfirmed
	o.PaymentMethod = models.PaymentMethodRazorpay
	o.RazorpayPaymentID = paymentRef
	return true, nil
}

func (f *fakeOrders) get(id string) *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id]
}

func pendingOrder(id, userID string) *models.Order {
	return &models.Order{
		ID:            id,
		UserID:        userID,
		PaymentMethod: models.PaymentMethodRazorpay,
		Status:        models.OrderStatusPending,
		Total:         1897,
	}
}

type countingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *countingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *countingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}
