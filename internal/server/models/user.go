// Package models holds the persisted entities of the account server.
package models

import (
	"database/sql"
	"time"
)

// User is the persisted identity record. UserName and Email are stored
// case-normalized (lowercase) and are each globally unique. Password holds the
// bcrypt verifier, never the plaintext. RefreshToken holds the single refresh
// token currently considered live for this identity; NULL means none.
type User struct {
	ID           string
	UserName     string
	Email        string
	FullName     string
	Password     string
	Avatar       string
	CoverImage   string
	RefreshToken sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the client-facing projection of a User. It never carries the
// credential verifier or the stored refresh token.
type UserView struct {
	ID         string    `json:"id"`
	UserName   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// View strips the sensitive fields from u.
func (u *User) View() *UserView {
	return &UserView{
		ID:         u.ID,
		UserName:   u.UserName,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
