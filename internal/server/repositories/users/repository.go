package users

import (
	"context"

	"github.com/streamhive/streamhive/internal/server/models"
)

// Repository is the identity store contract. Implementations must enforce the
// uniqueness of username and email: Create and UpdateAccount return
// common.ErrDuplicateKey on violation, and lookups return common.ErrNotFound
// when no record matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)

	UpdateRefreshToken(ctx context.Context, id string, token *string) error
	UpdatePassword(ctx context.Context, id string, verifier string) error
	UpdateAccount(ctx context.Context, id, fullName, email string) error
	UpdateAvatar(ctx context.Context, id, url string) error
	UpdateCoverImage(ctx context.Context, id, url string) error
}
