package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	cartdom "posbilling/internal/domain/cart"
	common "posbilling/internal/domain/common"
	invoicedom "posbilling/internal/domain/invoice"
	productdom "posbilling/internal/domain/product"
)

// ---- product repository ----

type stockUpdate struct {
	ProductID string
	Stock     int
}

type fakeProductRepo struct {
	mu       sync.RWMutex
	products map[string]productdom.Product
	order    []string

	listErr   error
	getErr    map[string]error
	updateErr map[string]error

	listCalls int
	updates   []stockUpdate
}

func newFakeProductRepo(ps ...productdom.Product) *fakeProductRepo {
	r := &fakeProductRepo{
		products:  map[string]productdom.Product{},
		getErr:    map[string]error{},
		updateErr: map[string]error{},
	}
	for _, p := range ps {
		r.products[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *fakeProductRepo) ListByTenant(_ context.Context, _ string) ([]productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]productdom.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, _ string, id string) (productdom.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.getErr[id]; err != nil {
		return productdom.Product{}, err
	}
	p, ok := r.products[id]
	if !ok {
		return productdom.Product{}, common.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) UpdateStockQuantity(_ context.Context, _ string, id string, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErr[id]; err != nil {
		return err
	}
	p, ok := r.products[id]
	if !ok {
		return common.ErrNotFound
	}
	p.StockQuantity = stock
	r.products[id] = p
	r.updates = append(r.updates, stockUpdate{ProductID: id, Stock: stock})
	return nil
}

func (r *fakeProductRepo) stock(id string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.products[id].StockQuantity
}

// ---- invoice repository ----

type fakeInvoiceRepo struct {
	mu        sync.Mutex
	created   []invoicedom.Invoice
	createErr error
}

func (r *fakeInvoiceRepo) Create(_ context.Context, _ string, inv invoicedom.Invoice) (invoicedom.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return invoicedom.Invoice{}, r.createErr
	}
	inv.ID = fmt.Sprintf("inv-%d", len(r.created)+1)
	r.created = append(r.created, inv)
	return inv, nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, _ string, id string) (invoicedom.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.created {
		if inv.ID == id {
			return inv, nil
		}
	}
	return invoicedom.Invoice{}, common.ErrNotFound
}

func (r *fakeInvoiceRepo) ListRecent(_ context.Context, _ string, limit int) ([]invoicedom.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []invoicedom.Invoice{}
	for i := len(r.created) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.created[i])
	}
	return out, nil
}

// ---- session store ----

type fakeSessionStore struct {
	mu sync.Mutex
	m  map[string]cartdom.Session

	saveErr error
	deleted []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{m: map[string]cartdom.Session{}}
}

func (s *fakeSessionStore) Get(_ context.Context, id string) (*cartdom.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	v.Cart.Lines = append([]cartdom.CartLine{}, v.Cart.Lines...)
	return &v, nil
}

func (s *fakeSessionStore) Save(_ context.Context, sess *cartdom.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	v := *sess
	v.Cart.Lines = append([]cartdom.CartLine{}, sess.Cart.Lines...)
	s.m[sess.ID] = v
	return nil
}

func (s *fakeSessionStore) failSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

func (s *fakeSessionStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[id]
	return ok
}

func (s *fakeSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	delete(s.m, id)
	return nil
}

// ---- misc ----

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type prefixResolver struct{}

func (prefixResolver) Resolve(_ context.Context, raw string) string {
	if raw == "" {
		return ""
	}
	return "https://cdn.test/" + raw
}

type fakeLedger struct {
	recorded []string
	err      error
}

func (l *fakeLedger) Record(_ context.Context, _ string, inv invoicedom.Invoice) error {
	l.recorded = append(l.recorded, inv.ID)
	return l.err
}

type fakeNotifier struct {
	sent []string
}

func (n *fakeNotifier) NotifyInvoiceCreated(_ context.Context, to string, _ invoicedom.Invoice) error {
	n.sent = append(n.sent, to)
	return nil
}

var errBoom = errors.New("boom")
