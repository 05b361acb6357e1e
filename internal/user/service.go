// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopfront/storefront-api/internal/auth"
	"github.com/shopfront/storefront-api/internal/middleware"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UsernameExists(
	ctx context.Context,
	username string,
) (bool, error) {
	return s.repo.ExistsByUsername(ctx, username)
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, normalizeEmail(email))
}

func (s *Service) Create(
	ctx context.Context,
	username, email, passwordHash string,
) (*auth.UserInfo, error) {
	user := &User{
		Username:     username,
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// ResolveCaller reads the current admin flag for userID. Token contents
// never decide privilege.
func (s *Service) ResolveCaller(
	ctx context.Context,
	userID int64,
) (middleware.Caller, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return middleware.Caller{}, err
	}

	return middleware.Caller{ID: user.ID, IsAdmin: user.IsAdmin}, nil
}

func (s *Service) GetMe(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) SetAdmin(
	ctx context.Context,
	userID int64,
	isAdmin bool,
) (*User, error) {
	if err := s.repo.SetAdmin(ctx, userID, isAdmin); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, userID)
}

// Promote grants the admin flag by username. It bootstraps the first
// administrator from the command line.
func (s *Service) Promote(ctx context.Context, username string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("promote %q: %w", username, err)
	}

	return s.SetAdmin(ctx, user.ID, true)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}

var (
	_ auth.UserProvider         = (*Service)(nil)
	_ middleware.CallerResolver = (*Service)(nil)
)
