// Package users provides the identity repository: PostgreSQL-backed storage
// for user records, with the unique-index enforcement that makes concurrent
// duplicate registrations safe.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/streamhive/streamhive/internal/common"
	"github.com/streamhive/streamhive/internal/dbx"
	"github.com/streamhive/streamhive/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, full_name, password, avatar, cover_image, refresh_token, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.UserName, &user.Email, &user.FullName, &user.Password,
		&user.Avatar, &user.CoverImage, &user.RefreshToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// translateConstraint maps a Postgres unique violation onto the duplicate-key
// sentinel. A lost duplicate-check-then-insert race surfaces here, not as a
// generic failure.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return common.ErrDuplicateKey
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, full_name, password, avatar, cover_image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.FullName, user.Password, user.Avatar, user.CoverImage).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateConstraint(err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByUsernameOrEmail returns the record matching either value. Callers pass
// the same string twice to look up by a single login identifier.
func (r *PostgresRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2`
	return scanUser(r.db.QueryRowContext(ctx, query, username, email))
}

// UpdateRefreshToken replaces the stored refresh token; nil clears it.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, token)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, verifier string) error {
	query := `UPDATE users SET password = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, verifier)
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, id, fullName, email string) error {
	query := `UPDATE users SET full_name = $2, email = $3, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, fullName, email)
	if err != nil {
		return translateConstraint(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	query := `UPDATE users SET avatar = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, url)
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id, url string) error {
	query := `UPDATE users SET cover_image = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, url)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
