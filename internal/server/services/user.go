// Package services contains the server-side business logic. This file
// implements UserService: the registration workflow (validation, duplicate
// check, dual-asset upload with rollback, record creation) and the session
// workflow (login, logout, refresh-token rotation), plus account maintenance.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"strings"

	"github.com/streamhive/streamhive/internal/common"
	"github.com/streamhive/streamhive/internal/cryptox"
	"github.com/streamhive/streamhive/internal/dbx"
	"github.com/streamhive/streamhive/internal/logging"
	"github.com/streamhive/streamhive/internal/server/auth"
	"github.com/streamhive/streamhive/internal/server/models"
	"github.com/streamhive/streamhive/internal/server/repositories/repomanager"
	"github.com/streamhive/streamhive/internal/server/storage"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// PendingUploads holds the local paths of the multipart files the transport
// accepted for the current request. An empty slot means the client sent no
// file under that name.
type PendingUploads struct {
	Avatar     string
	CoverImage string
}

// RegisterInput carries the registration form fields plus the accepted uploads.
type RegisterInput struct {
	FullName string
	UserName string
	Email    string
	Password string
	Uploads  PendingUploads
}

// UserService orchestrates the account workflows over the identity repository,
// the token issuer, and the asset store gateway.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.Manager
	assets      storage.Gateway
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.Manager, assets storage.Gateway, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		assets:      assets,
		logger:      logger.With("component", "user_service"),
	}
}

// Register validates the input, uploads both profile images, and creates the
// identity record. Steps run cheapest-first so a validation or duplicate
// failure costs no network calls. Every asset uploaded by this invocation is
// deleted again if a later step fails.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.UserView, error) {
	fullName := strings.TrimSpace(in.FullName)
	username := strings.ToLower(strings.TrimSpace(in.UserName))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if fullName == "" || username == "" || email == "" || strings.TrimSpace(in.Password) == "" {
		return nil, common.NewValidation("all fields are required")
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByUsernameOrEmail(ctx, username, email)
	if err == nil {
		return nil, common.NewConflict("user with this username or email already exists")
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error(ctx, "duplicate check failed", "op", "register", "error", err.Error())
		return nil, common.NewPersistence("error checking for existing user", err)
	}

	if in.Uploads.Avatar == "" {
		return nil, common.NewValidation("avatar file is missing")
	}
	if in.Uploads.CoverImage == "" {
		return nil, common.NewValidation("cover image file is missing")
	}

	avatar, err := s.assets.Upload(ctx, in.Uploads.Avatar)
	if err != nil {
		s.logger.Error(ctx, "avatar upload failed", "op", "register", "username", username, "error", err.Error())
		return nil, common.NewUpload("error uploading avatar", err)
	}

	coverImage, err := s.assets.Upload(ctx, in.Uploads.CoverImage)
	if err != nil {
		s.logger.Error(ctx, "cover image upload failed", "op", "register", "username", username, "error", err.Error())
		s.rollbackUploads(ctx, avatar)
		return nil, common.NewUpload("error uploading cover image", err)
	}

	verifier, err := cryptox.HashPassword(in.Password)
	if err != nil {
		s.rollbackUploads(ctx, avatar, coverImage)
		return nil, common.NewPersistence("error hashing credential", err)
	}

	created, err := repo.Create(ctx, &models.User{
		UserName:   username,
		Email:      email,
		FullName:   fullName,
		Password:   verifier,
		Avatar:     avatar.URL,
		CoverImage: coverImage.URL,
	})
	if err != nil {
		s.rollbackUploads(ctx, avatar, coverImage)
		if errors.Is(err, common.ErrDuplicateKey) {
			// lost the duplicate-check-then-insert race; the unique index is
			// the authoritative arbiter
			return nil, common.NewConflict("user with this username or email already exists")
		}
		s.logger.Error(ctx, "user creation failed", "op", "register", "username", username, "error", err.Error())
		return nil, common.NewPersistence("error creating user", err)
	}

	fresh, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		s.rollbackUploads(ctx, avatar, coverImage)
		s.logger.Error(ctx, "created user re-read failed", "op", "register", "user_id", created.ID, "error", err.Error())
		return nil, common.NewPersistence("user was not created successfully", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", fresh.ID, "username", username)
	return fresh.View(), nil
}

// rollbackUploads deletes the remote assets uploaded by the current invocation
// only. Deletion failures are logged, never surfaced: the original error must
// not be masked, at the accepted cost of a transiently orphaned asset.
func (s *UserService) rollbackUploads(ctx context.Context, uploaded ...*storage.UploadResult) {
	for _, res := range uploaded {
		if res == nil {
			continue
		}
		if err := s.assets.Delete(ctx, res.RemoteID); err != nil {
			s.logger.Error(ctx, "asset rollback failed, orphan may remain", "remote_id", res.RemoteID, "error", err.Error())
		}
	}
}

// Login verifies the credentials and mints a fresh token pair, persisting the
// new refresh token as the identity's single live one. identifier matches
// either the username or the email.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*models.UserView, *TokenPair, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, nil, common.NewValidation("username or email and password are required")
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByUsernameOrEmail(ctx, identifier, identifier)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.NewNotFound("user does not exist")
		}
		s.logger.Error(ctx, "user lookup failed", "op", "login", "error", err.Error())
		return nil, nil, common.NewPersistence("error searching for user", err)
	}

	if !cryptox.PasswordMatches(password, user.Password) {
		s.logger.Warn(ctx, "credential mismatch", "op", "login", "user_id", user.ID)
		return nil, nil, common.NewAuth("invalid credentials")
	}

	pair, err := s.issueTokenPair(ctx, user.ID, repo)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return user.View(), pair, nil
}

// Logout invalidates all previously issued refresh tokens for userID by
// clearing the stored value. There is no token blocklist; the store-equality
// check is the sole server-side invalidation mechanism.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateRefreshToken(ctx, userID, nil); err != nil {
		s.logger.Error(ctx, "clearing refresh token failed", "op", "logout", "user_id", userID, "error", err.Error())
		return common.NewPersistence("error logging out", err)
	}
	s.logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// RefreshTokens rotates the token pair. The incoming token must pass
// cryptographic verification and byte-equal the value stored on the identity
// record; a stale or reused token fails the equality check even while its
// signature is still valid. On success the old refresh token is permanently
// superseded.
func (s *UserService) RefreshTokens(ctx context.Context, incoming string) (*TokenPair, error) {
	if incoming == "" {
		return nil, common.NewAuth("refresh token is missing")
	}

	userID, err := s.tokens.Verify(incoming, auth.KindRefresh)
	if err != nil {
		return nil, common.NewAuth("invalid refresh token")
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.NewAuth("invalid refresh token")
			}
			return common.NewPersistence("error searching for user", err)
		}

		if !user.RefreshToken.Valid ||
			subtle.ConstantTimeCompare([]byte(user.RefreshToken.String), []byte(incoming)) != 1 {
			s.logger.Warn(ctx, "stale refresh token presented", "user_id", userID)
			return common.NewAuth("refresh token is expired or already used")
		}

		pair, err = s.issueTokenPair(ctx, userID, repo)
		return err
	})
	if err != nil {
		var classified *common.Error
		if errors.As(err, &classified) {
			return nil, err
		}
		s.logger.Error(ctx, "refresh rotation failed", "op", "refresh", "user_id", userID, "error", err.Error())
		return nil, common.NewPersistence("error rotating tokens", err)
	}

	s.logger.Info(ctx, "tokens rotated", "user_id", userID)
	return pair, nil
}

// CurrentUser returns the public view of the authenticated identity.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.UserView, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.View(), nil
}

// ChangePassword verifies the old credential before storing a verifier for the
// new one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || strings.TrimSpace(newPassword) == "" {
		return common.NewValidation("old and new passwords are required")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if !cryptox.PasswordMatches(oldPassword, user.Password) {
		s.logger.Warn(ctx, "credential mismatch", "op", "change_password", "user_id", userID)
		return common.NewAuth("invalid old password")
	}

	verifier, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return common.NewPersistence("error hashing credential", err)
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdatePassword(ctx, userID, verifier); err != nil {
		s.logger.Error(ctx, "password update failed", "op", "change_password", "user_id", userID, "error", err.Error())
		return common.NewPersistence("error updating password", err)
	}
	s.logger.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// UpdateAccount changes the display name and contact address.
func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.UserView, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, common.NewValidation("full name and email are required")
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateAccount(ctx, userID, fullName, email); err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateKey):
			return nil, common.NewConflict("email is already in use")
		case errors.Is(err, common.ErrNotFound):
			return nil, common.NewNotFound("user does not exist")
		}
		s.logger.Error(ctx, "account update failed", "op", "update_account", "user_id", userID, "error", err.Error())
		return nil, common.NewPersistence("error updating account", err)
	}

	return s.CurrentUser(ctx, userID)
}

// UpdateAvatar uploads a replacement primary image and persists its URL. The
// replaced remote asset is left in place; gateway deletion is reserved for
// compensation.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*models.UserView, error) {
	return s.updateImage(ctx, userID, localPath, "avatar",
		s.repomanager.Users(s.db).UpdateAvatar)
}

// UpdateCoverImage uploads a replacement secondary image and persists its URL.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.UserView, error) {
	return s.updateImage(ctx, userID, localPath, "cover image",
		s.repomanager.Users(s.db).UpdateCoverImage)
}

func (s *UserService) updateImage(ctx context.Context, userID, localPath, label string,
	persist func(ctx context.Context, id, url string) error) (*models.UserView, error) {

	if localPath == "" {
		return nil, common.NewValidation(label + " file is missing")
	}

	uploaded, err := s.assets.Upload(ctx, localPath)
	if err != nil {
		s.logger.Error(ctx, "image upload failed", "op", "update_image", "user_id", userID, "error", err.Error())
		return nil, common.NewUpload("error uploading "+label, err)
	}

	if err := persist(ctx, userID, uploaded.URL); err != nil {
		s.rollbackUploads(ctx, uploaded)
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewNotFound("user does not exist")
		}
		s.logger.Error(ctx, "image update failed", "op", "update_image", "user_id", userID, "error", err.Error())
		return nil, common.NewPersistence("error updating "+label, err)
	}

	return s.CurrentUser(ctx, userID)
}

// --- helpers below ---

func (s *UserService) getUser(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewNotFound("user does not exist")
		}
		s.logger.Error(ctx, "user lookup failed", "user_id", userID, "error", err.Error())
		return nil, common.NewPersistence("error searching for user", err)
	}
	return user, nil
}

func (s *UserService) issueTokenPair(ctx context.Context, userID string, repo interface {
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
}) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, common.NewPersistence("error issuing access token", err)
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, common.NewPersistence("error issuing refresh token", err)
	}
	if err := repo.UpdateRefreshToken(ctx, userID, &refresh); err != nil {
		return nil, common.NewPersistence("error persisting refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
