// AngelaMos | 2026
// repository.go

package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopfront/storefront-api/internal/core"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID int64) (*Cart, error)
	// LockByUserID is GetByUserID holding a row lock until the surrounding
	// transaction ends.
	LockByUserID(ctx context.Context, userID int64) (*Cart, error)
	GetOrCreate(ctx context.Context, userID int64) (*Cart, error)
	AddItem(ctx context.Context, cartID, productID int64, quantity int) error
	DeleteItem(ctx context.Context, cartID, productID int64) error
	ClearItems(ctx context.Context, cartID int64) error
	ListLines(ctx context.Context, cartID int64) ([]Line, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID int64) (*Cart, error) {
	return r.get(ctx, `SELECT id, user_id, created_at FROM carts WHERE user_id = $1`, userID)
}

func (r *repository) LockByUserID(ctx context.Context, userID int64) (*Cart, error) {
	return r.get(ctx, `SELECT id, user_id, created_at FROM carts WHERE user_id = $1 FOR UPDATE`, userID)
}

func (r *repository) get(ctx context.Context, query string, userID int64) (*Cart, error) {
	var c Cart
	err := r.db.GetContext(ctx, &c, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get cart: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

// GetOrCreate relies on the unique user_id constraint so concurrent first
// adds converge on one cart.
func (r *repository) GetOrCreate(ctx context.Context, userID int64) (*Cart, error) {
	query := `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at`

	var c Cart
	if err := r.db.GetContext(ctx, &c, query, userID); err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	return &c, nil
}

// AddItem inserts a line or increments the existing one for the same
// product. A merge that would pass MaxLineQuantity touches no row and
// returns ErrQuantityLimit.
func (r *repository) AddItem(
	ctx context.Context,
	cartID, productID int64,
	quantity int,
) error {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		WHERE cart_items.quantity + EXCLUDED.quantity <= $4`

	result, err := r.db.ExecContext(ctx, query, cartID, productID, quantity, MaxLineQuantity)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	if rows == 0 {
		return ErrQuantityLimit
	}
	return nil
}

func (r *repository) DeleteItem(ctx context.Context, cartID, productID int64) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	result, err := r.db.ExecContext(ctx, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete cart item: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ClearItems(ctx context.Context, cartID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// ListLines returns items whose product is still in the catalog, in the
// order they were first added.
func (r *repository) ListLines(ctx context.Context, cartID int64) ([]Line, error) {
	query := `
		SELECT ci.product_id, p.name, ci.quantity, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id AND p.deleted_at IS NULL
		WHERE ci.cart_id = $1
		ORDER BY ci.id`

	lines := []Line{}
	if err := r.db.SelectContext(ctx, &lines, query, cartID); err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	return lines, nil
}
