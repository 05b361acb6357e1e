// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
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

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username, email, password_hash, is_admin)")).
		WithArgs("alice", "a@x.com", "hash", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	u := &User{Username: "alice", Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, now, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &User{Username: "bob", Email: "a@x.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	var uv *core.UniqueViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "users_email_key", uv.Constraint)
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryGetByUsername(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "is_admin", "created_at", "updated_at",
	}).AddRow(int64(3), "carol", "c@x.com", "h", true, now, now)

	mock.ExpectQuery("SELECT .* FROM users WHERE username = \\$1").
		WithArgs("carol").
		WillReturnRows(rows)

	u, err := repo.GetByUsername(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.True(t, u.IsAdmin)
}

func TestRepositorySetAdminMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(9), true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetAdmin(context.Background(), 9, true)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
