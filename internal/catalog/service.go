// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopfront/storefront-api/internal/core"
)

var (
	ErrMissingFields = fmt.Errorf("name and price are required fields: %w", core.ErrInvalidInput)
	ErrNoData        = fmt.Errorf("no data provided: %w", core.ErrInvalidInput)
	ErrNegativePrice = fmt.Errorf("price must not be negative: %w", core.ErrInvalidInput)
	ErrEmptyName     = fmt.Errorf("name must not be empty: %w", core.ErrInvalidInput)
)

type Service struct {
	repo  Repository
	cache ListCache
}

// NewService wires the catalog. cache may be nil.
func NewService(repo Repository, cache ListCache) *Service {
	if cache == nil {
		cache = noopListCache{}
	}
	return &Service{repo: repo, cache: cache}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	if products, ok := s.cache.Get(ctx); ok {
		return products, nil
	}

	generation, cacheable := s.cache.Generation(ctx)

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.cache.Set(ctx, generation, products)
	}
	return products, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req ProductRequest) (*Product, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Price == nil {
		return nil, ErrMissingFields
	}

	if req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	product := &Product{
		Name:        strings.TrimSpace(*req.Name),
		Description: req.Description,
		Price:       req.Price.Round(2),
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return product, nil
}

// Update applies only the supplied fields. An unknown id is reported before
// the payload is inspected.
func (s *Service) Update(
	ctx context.Context,
	id int64,
	req ProductRequest,
) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.empty() {
		return nil, ErrNoData
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
		product.Price = req.Price.Round(2)
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

type seedProduct struct {
	name  string
	desc  string
	price string
	stock int
}

var seedProducts = []seedProduct{
	{"Laptop", "High performance laptop", "999.99", 10},
	{"Smartphone", "Latest model smartphone", "599.99", 20},
	{"Headphones", "Noise cancelling headphones", "199.99", 30},
}

// Seed inserts a starter catalog into an empty store and reports how many
// products it created.
func (s *Service) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, sp := range seedProducts {
		desc := sp.desc
		p := &Product{
			Name:        sp.name,
			Description: &desc,
			Price:       decimal.RequireFromString(sp.price),
			Stock:       sp.stock,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return 0, fmt.Errorf("seed %s: %w", sp.name, err)
		}
	}

	s.cache.Invalidate(ctx)
	return len(seedProducts), nil
}
