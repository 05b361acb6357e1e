// AngelaMos | 2026
// catalog.go

package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopfront/storefront-api/internal/catalog"
	"github.com/shopfront/storefront-api/internal/core"
)

type productRepo struct {
	s *Store
}

func (r *productRepo) Create(_ context.Context, p *catalog.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	p.ID = r.s.data.next("products")
	p.CreatedAt = now
	p.UpdatedAt = now
	r.s.data.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*catalog.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.live(id)
	if !ok {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	return &p, nil
}

func (r *productRepo) List(context.Context) ([]catalog.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	products := []catalog.Product{}
	for _, p := range r.s.data.products {
		if p.DeletedAt == nil {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *productRepo) Update(_ context.Context, p *catalog.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.live(p.ID)
	if !ok {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}

	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	existing.Stock = p.Stock
	existing.UpdatedAt = r.s.now()
	r.s.data.products[p.ID] = existing
	return nil
}

func (r *productRepo) SoftDelete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.live(id)
	if !ok {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	now := r.s.now()
	p.DeletedAt = &now
	p.UpdatedAt = now
	r.s.data.products[id] = p
	return nil
}

func (r *productRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, p := range r.s.data.products {
		if p.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

// live must be called with mu held.
func (s *Store) live(id int64) (catalog.Product, bool) {
	p, ok := s.data.products[id]
	if !ok || p.DeletedAt != nil {
		return catalog.Product{}, false
	}
	return p, true
}
