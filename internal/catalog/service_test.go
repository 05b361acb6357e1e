// AngelaMos | 2026
// service_test.go

package catalog_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/catalog"
	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/memstore"
)

var listKey = core.RedisKey("catalog", "products")

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (*catalog.Service, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := memstore.New()
	return catalog.NewService(store.Products(), catalog.NewRedisListCache(rdb, time.Minute)), mr
}

func TestCreateRequiresNameAndPrice(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  catalog.ProductRequest
		want error
	}{
		{"no name", catalog.ProductRequest{Price: ptr(decimal.NewFromInt(1))}, catalog.ErrMissingFields},
		{"blank name", catalog.ProductRequest{Name: ptr("  "), Price: ptr(decimal.NewFromInt(1))}, catalog.ErrMissingFields},
		{"no price", catalog.ProductRequest{Name: ptr("Cup")}, catalog.ErrMissingFields},
		{"negative price", catalog.ProductRequest{Name: ptr("Cup"), Price: ptr(decimal.NewFromInt(-1))}, catalog.ErrNegativePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, core.ErrInvalidInput)
		})
	}
}

func TestCreateDefaultsStockAndRoundsPrice(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.Create(context.Background(), catalog.ProductRequest{
		Name:  ptr(" Cup "),
		Price: ptr(decimal.RequireFromString("3.456")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cup", p.Name)
	assert.Zero(t, p.Stock)
	assert.Nil(t, p.Description)
	assert.True(t, decimal.RequireFromString("3.46").Equal(p.Price))
}

func TestUpdateIsPartial(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, catalog.ProductRequest{
		Name:        ptr("Cup"),
		Description: ptr("ceramic"),
		Price:       ptr(decimal.NewFromInt(4)),
		Stock:       ptr(10),
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, catalog.ProductRequest{Stock: ptr(3)})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cup", got.Name)
	assert.Equal(t, "ceramic", *got.Description)
	assert.True(t, decimal.NewFromInt(4).Equal(got.Price))
	assert.Equal(t, 3, got.Stock)
}

func TestUpdateChecksExistenceBeforePayload(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, 404, catalog.ProductRequest{})
	assert.ErrorIs(t, err, core.ErrNotFound)

	p, err := svc.Create(ctx, catalog.ProductRequest{Name: ptr("Cup"), Price: ptr(decimal.NewFromInt(1))})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, catalog.ProductRequest{})
	assert.ErrorIs(t, err, catalog.ErrNoData)

	_, err = svc.Update(ctx, p.ID, catalog.ProductRequest{Name: ptr("")})
	assert.ErrorIs(t, err, catalog.ErrEmptyName)
}

func TestDeleteHidesProduct(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, catalog.ProductRequest{Name: ptr("Cup"), Price: ptr(decimal.NewFromInt(1))})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), core.ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListIsCachedUntilMutation(t *testing.T) {
	svc, mr := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, catalog.ProductRequest{Name: ptr("Cup"), Price: ptr(decimal.NewFromInt(1))})
	require.NoError(t, err)
	assert.False(t, mr.Exists(listKey))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(listKey))

	cached, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, list[0].ID, cached[0].ID)
	assert.True(t, list[0].Price.Equal(cached[0].Price))

	_, err = svc.Create(ctx, catalog.ProductRequest{Name: ptr("Plate"), Price: ptr(decimal.NewFromInt(2))})
	require.NoError(t, err)
	assert.False(t, mr.Exists(listKey))

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// pausingRepo holds its first List call after the rows are read until
// resume is closed.
type pausingRepo struct {
	catalog.Repository
	once   sync.Once
	read   chan struct{}
	resume chan struct{}
}

func (r *pausingRepo) List(ctx context.Context) ([]catalog.Product, error) {
	products, err := r.Repository.List(ctx)
	r.once.Do(func() {
		close(r.read)
		<-r.resume
	})
	return products, err
}

func TestListReadRacingUpdateDoesNotCacheStaleRows(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &pausingRepo{
		Repository: memstore.New().Products(),
		read:       make(chan struct{}),
		resume:     make(chan struct{}),
	}
	svc := catalog.NewService(repo, catalog.NewRedisListCache(rdb, 5*time.Minute))
	ctx := context.Background()

	p, err := svc.Create(ctx, catalog.ProductRequest{Name: ptr("Cup"), Price: ptr(decimal.NewFromInt(7))})
	require.NoError(t, err)

	done := make(chan []catalog.Product)
	go func() {
		list, listErr := svc.List(ctx)
		assert.NoError(t, listErr)
		done <- list
	}()

	<-repo.read
	_, err = svc.Update(ctx, p.ID, catalog.ProductRequest{Price: ptr(decimal.RequireFromString("99.00"))})
	require.NoError(t, err)
	close(repo.resume)

	stale := <-done
	require.Len(t, stale, 1)
	assert.True(t, stale[0].Price.Equal(decimal.NewFromInt(7)))
	assert.False(t, mr.Exists(listKey))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Price.Equal(decimal.RequireFromString("99.00")), "got %s", list[0].Price)

	cached, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.True(t, cached[0].Price.Equal(decimal.RequireFromString("99.00")))
}

func TestListReadRacingDeleteDoesNotCacheDeletedProduct(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &pausingRepo{
		Repository: memstore.New().Products(),
		read:       make(chan struct{}),
		resume:     make(chan struct{}),
	}
	svc := catalog.NewService(repo, catalog.NewRedisListCache(rdb, 5*time.Minute))
	ctx := context.Background()

	p, err := svc.Create(ctx, catalog.ProductRequest{Name: ptr("Cup"), Price: ptr(decimal.NewFromInt(7))})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, listErr := svc.List(ctx)
		assert.NoError(t, listErr)
	}()

	<-repo.read
	require.NoError(t, svc.Delete(ctx, p.ID))
	close(repo.resume)
	<-done

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListSurvivesRedisOutage(t *testing.T) {
	svc, mr := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, catalog.ProductRequest{Name: ptr("Cup"), Price: ptr(decimal.NewFromInt(1))})
	require.NoError(t, err)

	mr.Close()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSeedOnlyFillsEmptyCatalog(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	n, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
