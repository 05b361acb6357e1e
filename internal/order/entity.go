// AngelaMos | 2026
// entity.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is immutable once written. Total is fixed at placement time.
type Order struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	Total     decimal.Decimal `db:"total"`
	CreatedAt time.Time       `db:"created_at"`
}

// Item carries the product price as it was when the order was placed.
type Item struct {
	OrderID   int64           `db:"order_id"`
	ProductID int64           `db:"product_id"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}

type Summary struct {
	ID         int64           `db:"id"`
	Total      decimal.Decimal `db:"total"`
	CreatedAt  time.Time       `db:"created_at"`
	ItemsCount int             `db:"items_count"`
}

type ItemDetail struct {
	ProductID int64           `db:"product_id"`
	Name      string          `db:"name"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}

type Detail struct {
	Order
	Items []ItemDetail
}
