// AngelaMos | 2026
// service.go

package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopfront/storefront-api/internal/catalog"
	"github.com/shopfront/storefront-api/internal/core"
)

var (
	ErrCartNotFound    = fmt.Errorf("cart not found: %w", core.ErrNotFound)
	ErrItemNotFound    = fmt.Errorf("item not found in cart: %w", core.ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product not found: %w", core.ErrNotFound)
	ErrInvalidQuantity = fmt.Errorf("quantity must be a positive integer: %w", core.ErrInvalidInput)
	ErrQuantityLimit   = fmt.Errorf("quantity exceeds %d per item: %w", MaxLineQuantity, core.ErrInvalidInput)
)

// ProductFinder is the slice of the catalog the cart needs.
type ProductFinder interface {
	GetByID(ctx context.Context, id int64) (*catalog.Product, error)
}

type Service struct {
	repo     Repository
	products ProductFinder
}

func NewService(repo Repository, products ProductFinder) *Service {
	return &Service{repo: repo, products: products}
}

// AddItem merges quantity into the user's cart, creating the cart on first
// use. Unknown products are rejected, as is a line that would grow past
// MaxLineQuantity.
func (s *Service) AddItem(
	ctx context.Context,
	userID, productID int64,
	quantity int,
) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > MaxLineQuantity {
		return ErrQuantityLimit
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("lookup product: %w", err)
	}

	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	return s.repo.AddItem(ctx, c.ID, productID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID int64) error {
	c, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrCartNotFound
		}
		return err
	}

	if err := s.repo.DeleteItem(ctx, c.ID, productID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	return nil
}

// GetCart never fails for a user without a cart; it returns no lines.
func (s *Service) GetCart(ctx context.Context, userID int64) ([]Line, error) {
	c, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return []Line{}, nil
		}
		return nil, err
	}

	return s.repo.ListLines(ctx, c.ID)
}

func (s *Service) ClearCart(ctx context.Context, userID int64) error {
	c, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.repo.ClearItems(ctx, c.ID)
}
