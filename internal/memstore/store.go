// AngelaMos | 2026
// store.go

// Package memstore keeps every table in process memory behind the same
// repository interfaces the Postgres implementations satisfy. It backs
// handler and workflow tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/shopfront/storefront-api/internal/cart"
	"github.com/shopfront/storefront-api/internal/catalog"
	"github.com/shopfront/storefront-api/internal/order"
	"github.com/shopfront/storefront-api/internal/user"
)

// Operation names accepted by FailOn.
const (
	OpCreateOrder      = "orders.create"
	OpCreateOrderItems = "orders.create_items"
	OpClearCart        = "carts.clear"
)

type state struct {
	users      map[int64]user.User
	products   map[int64]catalog.Product
	carts      map[int64]cart.Cart
	cartItems  []cart.Item
	orders     map[int64]order.Order
	orderItems []order.Item

	seq map[string]int64
}

func newState() state {
	return state{
		users:    map[int64]user.User{},
		products: map[int64]catalog.Product{},
		carts:    map[int64]cart.Cart{},
		orders:   map[int64]order.Order{},
		seq:      map[string]int64{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.carts {
		c.carts[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	c.cartItems = append([]cart.Item(nil), s.cartItems...)
	c.orderItems = append([]order.Item(nil), s.orderItems...)
	return c
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data state
	now  func() time.Time

	failures map[string]error
}

func New() *Store {
	return &Store{
		data:     newState(),
		now:      func() time.Time { return time.Now().UTC() },
		failures: map[string]error{},
	}
}

// FailOn makes the named operation return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) failure(op string) error {
	return s.failures[op]
}

func (s *Store) Users() user.Repository       { return &userRepo{s: s} }
func (s *Store) Products() catalog.Repository { return &productRepo{s: s} }
func (s *Store) Carts() cart.Repository       { return &cartRepo{s: s} }
func (s *Store) Orders() order.Repository     { return &orderRepo{s: s} }

// TxManager serialises transactions and restores the pre-transaction
// snapshot when fn fails or panics.
func (s *Store) TxManager() order.TxManager { return &txManager{s: s} }

type txManager struct {
	s *Store
}

func (m *txManager) WithinTx(ctx context.Context, fn func(tx order.Tx) error) (err error) {
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.Lock()
	saved := m.s.data.clone()
	m.s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			m.s.restore(saved)
			panic(p)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fn(m.s); err != nil {
		m.s.restore(saved)
		return err
	}
	return nil
}

func (s *Store) restore(saved state) {
	s.mu.Lock()
	s.data = saved
	s.mu.Unlock()
}

var _ order.Tx = (*Store)(nil)
