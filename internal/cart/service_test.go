// AngelaMos | 2026
// service_test.go

package cart_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/cart"
	"github.com/shopfront/storefront-api/internal/catalog"
	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/memstore"
)

func setup(t *testing.T) (*cart.Service, *catalog.Service, int64) {
	t.Helper()

	store := memstore.New()
	products := catalog.NewService(store.Products(), nil)

	name, price := "Mug", decimal.RequireFromString("7.00")
	p, err := products.Create(context.Background(), catalog.ProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)

	return cart.NewService(store.Carts(), products), products, p.ID
}

func TestGetCartWithoutCartIsEmpty(t *testing.T) {
	svc, _, _ := setup(t)

	lines, err := svc.GetCart(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestAddItemMergesQuantity(t *testing.T) {
	ctx := context.Background()
	svc, _, productID := setup(t)

	require.NoError(t, svc.AddItem(ctx, 1, productID, 2))
	require.NoError(t, svc.AddItem(ctx, 1, productID, 5))

	lines, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
	assert.Equal(t, "Mug", lines[0].Name)
	assert.True(t, decimal.RequireFromString("7").Equal(lines[0].Price))
}

func TestAddItemValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, productID := setup(t)

	for _, q := range []int{0, -3} {
		err := svc.AddItem(ctx, 1, productID, q)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	}

	err := svc.AddItem(ctx, 1, productID+100, 1)
	assert.ErrorIs(t, err, cart.ErrProductNotFound)
}

func TestAddItemEnforcesLineLimit(t *testing.T) {
	ctx := context.Background()
	svc, _, productID := setup(t)

	err := svc.AddItem(ctx, 1, productID, cart.MaxLineQuantity+1)
	assert.ErrorIs(t, err, cart.ErrQuantityLimit)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	require.NoError(t, svc.AddItem(ctx, 1, productID, cart.MaxLineQuantity-1))
	require.NoError(t, svc.AddItem(ctx, 1, productID, 1))

	err = svc.AddItem(ctx, 1, productID, 1)
	assert.ErrorIs(t, err, cart.ErrQuantityLimit)

	lines, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, cart.MaxLineQuantity, lines[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	svc, _, productID := setup(t)

	assert.ErrorIs(t, svc.RemoveItem(ctx, 1, productID), cart.ErrCartNotFound)

	require.NoError(t, svc.AddItem(ctx, 1, productID, 1))
	assert.ErrorIs(t, svc.RemoveItem(ctx, 1, productID+1), cart.ErrItemNotFound)

	require.NoError(t, svc.RemoveItem(ctx, 1, productID))
	lines, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)

	assert.ErrorIs(t, svc.RemoveItem(ctx, 1, productID), cart.ErrItemNotFound)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	svc, _, productID := setup(t)

	require.NoError(t, svc.ClearCart(ctx, 9))

	require.NoError(t, svc.AddItem(ctx, 1, productID, 1))
	require.NoError(t, svc.AddItem(ctx, 2, productID, 1))
	require.NoError(t, svc.ClearCart(ctx, 1))

	mine, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := svc.GetCart(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestDeletedProductsDropOutOfCart(t *testing.T) {
	ctx := context.Background()
	svc, products, productID := setup(t)

	require.NoError(t, svc.AddItem(ctx, 1, productID, 1))
	require.NoError(t, products.Delete(ctx, productID))

	lines, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
