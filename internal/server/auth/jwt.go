// Package auth issues and verifies the signed bearer tokens that govern
// session continuation. Two token kinds exist: short-lived access tokens and
// long-lived refresh tokens, each signed with its own secret so compromise of
// one does not compromise the other. Verification is stateless; the
// store-equality check for refresh tokens lives in the session workflow.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/streamhive/streamhive/internal/common"
)

// Kind selects which secret and lifetime a token is issued or verified with.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims includes the registered claims plus the user's stable identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// Manager signs and verifies both token kinds with HS256.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess mints a short-lived access token naming userID.
func (m *Manager) IssueAccess(userID string) (string, error) {
	return m.issue(userID, m.accessSecret, m.accessTTL)
}

// IssueRefresh mints a long-lived refresh token naming userID.
func (m *Manager) IssueRefresh(userID string) (string, error) {
	return m.issue(userID, m.refreshSecret, m.refreshTTL)
}

func (m *Manager) issue(userID string, secret []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// unique ID so two tokens minted within the same second still
			// differ; rotation relies on the old and new values being distinct
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
	})
	return token.SignedString(secret)
}

// Verify checks signature, shape, and expiry of tokenString against the
// secret of the given kind and returns the user ID it names. Expired tokens
// yield common.ErrTokenExpired; every other failure yields
// common.ErrInvalidToken.
func (m *Manager) Verify(tokenString string, kind Kind) (string, error) {
	secret := m.accessSecret
	if kind == KindRefresh {
		secret = m.refreshSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
