// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
}

// UserProvider is the credential store as seen from this package.
type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(
		ctx context.Context,
		username, email, passwordHash string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type Service struct {
	jwt          *JWTManager
	userProvider UserProvider
	hasher       *core.PasswordHasher
	revocations  RevocationStore
}

func NewService(
	jwt *JWTManager,
	userProvider UserProvider,
	hasher *core.PasswordHasher,
	revocations RevocationStore,
) *Service {
	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
		hasher:       hasher,
		revocations:  revocations,
	}
}

// Register creates a user. Username collisions are checked before email
// collisions so each produces its own error.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*UserInfo, error) {
	taken, err := s.userProvider.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameExists
	}

	taken, err = s.userProvider.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailExists
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, req.Username, req.Email, passwordHash)
	if err != nil {
		return nil, duplicateOrWrap(err)
	}

	return user, nil
}

// duplicateOrWrap maps a unique violation that slipped past the existence
// checks, e.g. from a concurrent registration.
func duplicateOrWrap(err error) error {
	var uv *core.UniqueViolation
	if errors.As(err, &uv) {
		if strings.Contains(uv.Constraint, "email") {
			return ErrEmailExists
		}
		return ErrUsernameExists
	}
	if errors.Is(err, core.ErrDuplicateKey) {
		return ErrUsernameExists
	}
	return fmt.Errorf("create user: %w", err)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*TokenResponse, error) {
	user, err := s.userProvider.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // equalize timing for unknown usernames
			_, _, _ = s.hasher.VerifyTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := s.hasher.VerifyTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	issued, err := s.jwt.CreateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: issued.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwt.TTL() / time.Second),
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	return s.revocations.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt))
}

// VerifyAccessToken parses the token and rejects it if it was logged out.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

var _ middleware.TokenVerifier = (*Service)(nil)
