// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shopfront/storefront-api/internal/core"
)

// Repository has no update or delete paths. Orders are append-only.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	CreateItems(ctx context.Context, items []Item) error
	ListByUser(ctx context.Context, userID int64) ([]Summary, error)
	GetForUser(ctx context.Context, id, userID int64) (*Order, error)
	ListItems(ctx context.Context, orderID int64) ([]ItemDetail, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *Order) error {
	query := `
		INSERT INTO orders (user_id, total)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, order.UserID, order.Total).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *repository) CreateItems(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES (:order_id, :product_id, :quantity, :price)`

	if _, err := sqlx.NamedExecContext(ctx, r.db, query, items); err != nil {
		return fmt.Errorf("create order items: %w", err)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Summary, error) {
	query := `
		SELECT o.id, o.total, o.created_at, COUNT(oi.id) AS items_count
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE o.user_id = $1
		GROUP BY o.id
		ORDER BY o.created_at DESC, o.id DESC`

	summaries := []Summary{}
	if err := r.db.SelectContext(ctx, &summaries, query, userID); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return summaries, nil
}

// GetForUser treats an order owned by someone else the same as a missing
// one.
func (r *repository) GetForUser(ctx context.Context, id, userID int64) (*Order, error) {
	query := `
		SELECT id, user_id, total, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2`

	var o Order
	err := r.db.GetContext(ctx, &o, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// ListItems joins products regardless of deleted_at so history survives
// catalog removals.
func (r *repository) ListItems(ctx context.Context, orderID int64) ([]ItemDetail, error) {
	query := `
		SELECT oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	items := []ItemDetail{}
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM orders`); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
