// AngelaMos | 2026
// money.go

package core

import (
	"github.com/shopspring/decimal"
)

// Prices and totals leave the API as JSON numbers, not strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// LineTotal is price times quantity at the two-place scale of the store.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
