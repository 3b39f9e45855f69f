// Package httpapi exposes the account workflows over HTTP. Handlers translate
// between the wire shapes (multipart forms, JSON bodies, cookies) and the
// service layer, and map classified errors onto status codes exactly once.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/streamhive/streamhive/internal/common"
	"github.com/streamhive/streamhive/internal/filex"
	"github.com/streamhive/streamhive/internal/logging"
	"github.com/streamhive/streamhive/internal/server/config"
	"github.com/streamhive/streamhive/internal/server/models"
	"github.com/streamhive/streamhive/internal/server/services"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

type Handler struct {
	users  *services.UserService
	cfg    *config.Config
	logger logging.Logger
}

func NewHandler(users *services.UserService, cfg *config.Config, logger logging.Logger) *Handler {
	return &Handler{
		users:  users,
		cfg:    cfg,
		logger: logger.With("component", "httpapi"),
	}
}

func (h *Handler) Healthcheck(c *gin.Context) {
	respond(c, http.StatusOK, "ok", gin.H{"status": "ok"})
}

// Register accepts the multipart registration form. Both image files are
// spooled to the scratch directory before the workflow runs; any scratch file
// the upload gateway did not consume is removed when the handler returns.
func (h *Handler) Register(c *gin.Context) {
	in := services.RegisterInput{
		FullName: c.PostForm("fullName"),
		UserName: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	var err error
	in.Uploads.Avatar, err = h.spoolUpload(c, "avatar")
	if err != nil {
		respondError(c, common.NewValidation("could not read avatar file"))
		return
	}
	in.Uploads.CoverImage, err = h.spoolUpload(c, "coverImage")
	if err != nil {
		respondError(c, common.NewValidation("could not read cover image file"))
		return
	}
	defer func() {
		_ = filex.RemoveIfExists(in.Uploads.Avatar)
		_ = filex.RemoveIfExists(in.Uploads.CoverImage)
	}()

	view, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "user registered successfully", view)
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, common.NewValidation("invalid request body"))
		return
	}

	identifier := input.Username
	if identifier == "" {
		identifier = input.Email
	}

	view, pair, err := h.users.Login(c.Request.Context(), identifier, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	respond(c, http.StatusOK, "user logged in successfully", gin.H{
		"user":         view,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	h.clearAuthCookies(c)
	respond(c, http.StatusOK, "user logged out successfully", nil)
}

// Refresh rotates the token pair. The incoming refresh token is read from the
// cookie when present, falling back to the JSON body for non-cookie clients.
func (h *Handler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(refreshCookieName)
	if token == "" {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		// body is optional; a missing token fails in the service
		_ = c.ShouldBindJSON(&input)
		token = input.RefreshToken
	}

	pair, err := h.users.RefreshTokens(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	respond(c, http.StatusOK, "tokens refreshed successfully", gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) Current(c *gin.Context) {
	view, err := h.users.CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "current user fetched successfully", view)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var input struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, common.NewValidation("invalid request body"))
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), currentUserID(c), input.OldPassword, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "password changed successfully", nil)
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	var input struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, common.NewValidation("invalid request body"))
		return
	}

	view, err := h.users.UpdateAccount(c.Request.Context(), currentUserID(c), input.FullName, input.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "account updated successfully", view)
}

func (h *Handler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.users.UpdateAvatar)
}

func (h *Handler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.users.UpdateCoverImage)
}

func (h *Handler) updateImage(c *gin.Context, field string,
	update func(ctx context.Context, userID, localPath string) (*models.UserView, error)) {

	localPath, err := h.spoolUpload(c, field)
	if err != nil {
		respondError(c, common.NewValidation("could not read "+field+" file"))
		return
	}
	if localPath == "" {
		respondError(c, common.NewValidation(field+" file is missing"))
		return
	}
	defer func() { _ = filex.RemoveIfExists(localPath) }()

	view, err := update(c.Request.Context(), currentUserID(c), localPath)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, field+" updated successfully", view)
}

// spoolUpload saves the named multipart file into the scratch directory under
// a random name and returns the local path. A request without that file part
// returns an empty path and no error.
func (h *Handler) spoolUpload(c *gin.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}

	dir, err := filex.EnsureDir(h.cfg.UploadTempDir)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(dir, uuid.NewString()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (h *Handler) setAuthCookies(c *gin.Context, pair *services.TokenPair) {
	secure := h.cfg.IsProduction()
	c.SetCookie(accessCookieName, pair.AccessToken,
		int(h.cfg.AccessTokenValidityDuration.Seconds()), "/", "", secure, true)
	c.SetCookie(refreshCookieName, pair.RefreshToken,
		int(h.cfg.RefreshTokenValidityDuration.Seconds()), "/", "", secure, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	secure := h.cfg.IsProduction()
	c.SetCookie(accessCookieName, "", -1, "/", "", secure, true)
	c.SetCookie(refreshCookieName, "", -1, "/", "", secure, true)
}
