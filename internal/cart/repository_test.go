// AngelaMos | 2026
// repository_test.go

package cart

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return NewRepository(sqlx.NewDb(raw, "pgx")), mock
}

func TestGetOrCreateUpserts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}).AddRow(int64(9), int64(4), time.Now()))

	c, err := repo.GetOrCreate(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(9), c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemIncrementsOnConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("quantity = cart_items.quantity + EXCLUDED.quantity")).
		WithArgs(int64(9), int64(3), 2, MaxLineQuantity).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddItem(context.Background(), 9, 3, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemRejectsMergePastLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("WHERE cart_items.quantity + EXCLUDED.quantity <= $4")).
		WithArgs(int64(9), int64(3), 5000, MaxLineQuantity).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AddItem(context.Background(), 9, 3, 5000)
	assert.ErrorIs(t, err, ErrQuantityLimit)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteItemMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2")).
		WithArgs(int64(9), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteItem(context.Background(), 9, 3)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockByUserIDUsesRowLock(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}))

	_, err := repo.LockByUserID(context.Background(), 4)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
