package checkout

import (
	"context"
	"errors"
	"sync"

	"constructo/internal/events"
	"constructo/internal/idempotency"
	"constructo/internal/models"
	"constructo/internal/store"
)

type fakeCatalog struct {
	products map[string]*models.Product
	err      error
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

type fakeCarts struct {
	mu         sync.Mutex
	carts      map[string]*models.Cart
	clearErrs  []error
	clearCalls int
	// onClear runs before the compare-and-swap, simulating a concurrent edit.
	onClear func(c *models.Cart)
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: map[string]*models.Cart{}}
}

func (f *fakeCarts) put(userID string, items ...models.CartItem) {
	f.carts[userID] = &models.Cart{ID: "cart-" + userID, UserID: userID, Items: items, Version: 1}
}

func (f *fakeCarts) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp, nil
}

func (f *fakeCarts) ClearCart(_ context.Context, userID string, version int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	if len(f.clearErrs) > 0 {
		err := f.clearErrs[0]
		f.clearErrs = f.clearErrs[1:]
		if err != nil {
			return err
		}
	}
	c, ok := f.carts[userID]
	if !ok {
		return store.ErrVersionConflict
	}
	if f.onClear != nil {
		f.onClear(c)
	}
	if c.Version != version {
		return store.ErrVersionConflict
	}
	c.Items = nil
	c.Version++
	return nil
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[string]*models.Order
	insertErr error
	inserts   int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[string]*models.Order{}}
}

func (f *fakeOrders) InsertOrder(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserts++
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrders) FindOrder(ctx context.Context, id, userID string) (*models.Order, error) {
	o, err := f.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) FindOrderByID(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) CancelOrder(_ context.Context, id, userID, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.UserID != userID {
		return false, nil
	}
	if o.Status != models.OrderStatusPending && o.Status != models.OrderStatusConfirmed {
		return false, nil
	}
	o.Status = models.OrderStatusCancelled
	o.CancelReason = reason
	return true, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, from, to models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return store.ErrVersionConflict
	}
	o.Status = to
	return nil
}

func (f *fakeOrders) only() *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		return o
	}
	return nil
}

type fakeKeeper struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeKeeper() *fakeKeeper {
	return &fakeKeeper{entries: map[string]string{}}
}

func (f *fakeKeeper) Reserve(_ context.Context, scope, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[scope+":"+key]
	if !ok {
		f.entries[scope+":"+key] = ""
		return "", nil
	}
	if v == "" {
		return "", idempotency.ErrInProgress
	}
	return v, nil
}

func (f *fakeKeeper) Complete(_ context.Context, scope, key, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[scope+":"+key] = orderID
	return nil
}

func (f *fakeKeeper) Release(_ context.Context, scope, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entries[scope+":"+key] == "" {
		delete(f.entries, scope+":"+key)
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errStoreDown = errors.New("store unavailable")
