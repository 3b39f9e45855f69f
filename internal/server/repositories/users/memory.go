package users

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streamhive/streamhive/internal/common"
	"github.com/streamhive/streamhive/internal/server/models"
)

// MemoryRepository is an in-process Repository used by unit tests. It enforces
// the same uniqueness and not-found semantics as the Postgres implementation.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.UserName == user.UserName || existing.Email == user.Email {
			return nil, common.ErrDuplicateKey
		}
	}

	stored := cloneUser(user)
	stored.ID = uuid.NewString()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[stored.ID] = stored

	return cloneUser(stored), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.UserName == username || user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	return r.update(id, func(u *models.User) error {
		if token == nil {
			u.RefreshToken = sql.NullString{}
		} else {
			u.RefreshToken = sql.NullString{String: *token, Valid: true}
		}
		return nil
	})
}

func (r *MemoryRepository) UpdatePassword(ctx context.Context, id string, verifier string) error {
	return r.update(id, func(u *models.User) error {
		u.Password = verifier
		return nil
	})
}

func (r *MemoryRepository) UpdateAccount(ctx context.Context, id, fullName, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	for otherID, other := range r.users {
		if otherID != id && other.Email == email {
			return common.ErrDuplicateKey
		}
	}
	user.FullName = fullName
	user.Email = email
	user.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	return r.update(id, func(u *models.User) error {
		u.Avatar = url
		return nil
	})
}

func (r *MemoryRepository) UpdateCoverImage(ctx context.Context, id, url string) error {
	return r.update(id, func(u *models.User) error {
		u.CoverImage = url
		return nil
	})
}

func (r *MemoryRepository) update(id string, fn func(u *models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	if err := fn(user); err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	user.UpdatedAt = time.Now()
	return nil
}
