// AngelaMos | 2026
// carts.go

package memstore

import (
	"context"
	"fmt"

	"github.com/shopfront/storefront-api/internal/cart"
	"github.com/shopfront/storefront-api/internal/core"
)

type cartRepo struct {
	s *Store
}

func (r *cartRepo) GetByUserID(_ context.Context, userID int64) (*cart.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.cartFor(userID)
	if !ok {
		return nil, fmt.Errorf("get cart: %w", core.ErrNotFound)
	}
	return &c, nil
}

// LockByUserID needs no row lock here; WithinTx already serialises.
func (r *cartRepo) LockByUserID(ctx context.Context, userID int64) (*cart.Cart, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *cartRepo) GetOrCreate(_ context.Context, userID int64) (*cart.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c, ok := r.s.cartFor(userID); ok {
		return &c, nil
	}

	c := cart.Cart{
		ID:        r.s.data.next("carts"),
		UserID:    userID,
		CreatedAt: r.s.now(),
	}
	r.s.data.carts[c.ID] = c
	return &c, nil
}

func (r *cartRepo) AddItem(_ context.Context, cartID, productID int64, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, it := range r.s.data.cartItems {
		if it.CartID == cartID && it.ProductID == productID {
			if it.Quantity+quantity > cart.MaxLineQuantity {
				return cart.ErrQuantityLimit
			}
			r.s.data.cartItems[i].Quantity += quantity
			return nil
		}
	}

	r.s.data.cartItems = append(r.s.data.cartItems, cart.Item{
		ID:        r.s.data.next("cart_items"),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	})
	return nil
}

func (r *cartRepo) DeleteItem(_ context.Context, cartID, productID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, it := range r.s.data.cartItems {
		if it.CartID == cartID && it.ProductID == productID {
			r.s.data.cartItems = append(r.s.data.cartItems[:i], r.s.data.cartItems[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete cart item: %w", core.ErrNotFound)
}

func (r *cartRepo) ClearItems(_ context.Context, cartID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.failure(OpClearCart); err != nil {
		return err
	}

	kept := r.s.data.cartItems[:0:0]
	for _, it := range r.s.data.cartItems {
		if it.CartID != cartID {
			kept = append(kept, it)
		}
	}
	r.s.data.cartItems = kept
	return nil
}

func (r *cartRepo) ListLines(_ context.Context, cartID int64) ([]cart.Line, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lines := []cart.Line{}
	for _, it := range r.s.data.cartItems {
		if it.CartID != cartID {
			continue
		}
		p, ok := r.s.live(it.ProductID)
		if !ok {
			continue
		}
		lines = append(lines, cart.Line{
			ProductID: it.ProductID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			Price:     p.Price,
		})
	}
	return lines, nil
}

// cartFor must be called with mu held.
func (s *Store) cartFor(userID int64) (cart.Cart, bool) {
	for _, c := range s.data.carts {
		if c.UserID == userID {
			return c, true
		}
	}
	return cart.Cart{}, false
}
