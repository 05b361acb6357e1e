// AngelaMos | 2026
// entity.go

package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single cart line, including
// quantities merged by repeated adds.
const MaxLineQuantity = 10000

// Cart is the per-user staging area. It is created on first add and never
// deleted, only emptied.
type Cart struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Item struct {
	ID        int64 `db:"id"`
	CartID    int64 `db:"cart_id"`
	ProductID int64 `db:"product_id"`
	Quantity  int   `db:"quantity"`
}

// Line is a cart item joined with the product's current name and price.
type Line struct {
	ProductID int64           `db:"product_id"`
	Name      string          `db:"name"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}
