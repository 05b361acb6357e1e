// AngelaMos | 2026
// tx.go

package order

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shopfront/storefront-api/internal/cart"
	"github.com/shopfront/storefront-api/internal/core"
)

// Tx exposes the repositories bound to one open transaction.
type Tx interface {
	Carts() cart.Repository
	Orders() Repository
}

// TxManager commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

type sqlTxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) TxManager {
	return &sqlTxManager{db: db}
}

func (m *sqlTxManager) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return core.InTx(ctx, m.db, func(tx *sqlx.Tx) error {
		return fn(&sqlTx{
			carts:  cart.NewRepository(tx),
			orders: NewRepository(tx),
		})
	})
}

type sqlTx struct {
	carts  cart.Repository
	orders Repository
}

func (t *sqlTx) Carts() cart.Repository { return t.carts }

func (t *sqlTx) Orders() Repository { return t.orders }
