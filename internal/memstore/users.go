// AngelaMos | 2026
// users.go

package memstore

import (
	"context"
	"fmt"

	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/user"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.data.users {
		if existing.Username == u.Username {
			return fmt.Errorf("create user: %w", &core.UniqueViolation{Constraint: "users_username_key"})
		}
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", &core.UniqueViolation{Constraint: "users_email_key"})
		}
	}

	now := r.s.now()
	u.ID = r.s.data.next("users")
	u.CreatedAt = now
	u.UpdatedAt = now
	r.s.data.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.data.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (r *userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *userRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.data.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	return r.update(id, func(u *user.User) { u.PasswordHash = passwordHash })
}

func (r *userRepo) SetAdmin(_ context.Context, id int64, isAdmin bool) error {
	return r.update(id, func(u *user.User) { u.IsAdmin = isAdmin })
}

func (r *userRepo) update(id int64, apply func(*user.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	apply(&u)
	u.UpdatedAt = r.s.now()
	r.s.data.users[id] = u
	return nil
}

func (r *userRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.data.users)), nil
}
