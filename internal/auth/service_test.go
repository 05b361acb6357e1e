// AngelaMos | 2026
// service_test.go

package auth_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/auth"
	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/memstore"
	"github.com/shopfront/storefront-api/internal/user"
)

var fastParams = core.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type fixture struct {
	svc   *auth.Service
	users user.Repository
	mr    *miniredis.Miniredis
}

func newFixture(t *testing.T, params core.Argon2Params) *fixture {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:    filepath.Join(dir, "private.pem"),
		PublicKeyPath:     filepath.Join(dir, "public.pem"),
		AccessTokenExpire: 15 * time.Minute,
		Issuer:            "storefront-test",
		Audience:          "storefront-test",
	}
	require.NoError(t, auth.GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))
	jwtManager, err := auth.NewJWTManager(cfg)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := memstore.New().Users()
	svc := auth.NewService(
		jwtManager,
		user.NewService(users),
		core.NewPasswordHasher(params),
		auth.NewRedisRevocationStore(rdb),
	)

	return &fixture{svc: svc, users: users, mr: mr}
}

func register(t *testing.T, svc *auth.Service, username, email string) *auth.UserInfo {
	t.Helper()
	u, err := svc.Register(context.Background(), auth.RegisterRequest{
		Username: username, Email: email, Password: "pw",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	f := newFixture(t, fastParams)
	info := register(t, f.svc, "alice", "A@X.com")

	stored, err := f.users.GetByID(context.Background(), info.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))
	assert.Equal(t, "a@x.com", stored.Email)
	assert.False(t, stored.IsAdmin)
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t, fastParams)
	register(t, f.svc, "alice", "a@x.com")

	_, err := f.svc.Register(context.Background(), auth.RegisterRequest{
		Username: "alice", Email: "fresh@x.com", Password: "pw",
	})
	assert.ErrorIs(t, err, auth.ErrUsernameExists)

	_, err = f.svc.Register(context.Background(), auth.RegisterRequest{
		Username: "fresh", Email: "A@x.com", Password: "pw",
	})
	assert.ErrorIs(t, err, auth.ErrEmailExists)

	_, err = f.svc.Register(context.Background(), auth.RegisterRequest{
		Username: "alice", Email: "a@x.com", Password: "pw",
	})
	assert.ErrorIs(t, err, auth.ErrUsernameExists)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	f := newFixture(t, fastParams)
	info := register(t, f.svc, "alice", "a@x.com")

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 900, resp.ExpiresIn)

	claims, err := f.svc.VerifyAccessToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t, fastParams)
	register(t, f.svc, "alice", "a@x.com")

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "nope"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{Username: "ghost", Password: "pw"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginRehashesOutdatedHash(t *testing.T) {
	f := newFixture(t, fastParams)
	info := register(t, f.svc, "alice", "a@x.com")

	old, err := core.NewPasswordHasher(core.Argon2Params{Time: 2, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}).Hash("pw")
	require.NoError(t, err)
	require.NoError(t, f.users.UpdatePassword(context.Background(), info.ID, old))

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	stored, err := f.users.GetByID(context.Background(), info.ID)
	require.NoError(t, err)
	assert.NotEqual(t, old, stored.PasswordHash)
	assert.Contains(t, stored.PasswordHash, "t=1")
}

func TestLogoutRevokesUntilExpiry(t *testing.T) {
	f := newFixture(t, fastParams)
	register(t, f.svc, "alice", "a@x.com")

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	claims, err := f.svc.VerifyAccessToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(context.Background(), claims))

	_, err = f.svc.VerifyAccessToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	key := core.RedisKey("revoked", claims.TokenID)
	require.True(t, f.mr.Exists(key))
	assert.LessOrEqual(t, f.mr.TTL(key), 15*time.Minute)

	f.mr.FastForward(16 * time.Minute)
	assert.False(t, f.mr.Exists(key))
}
