// Package cryptox implements the one-way credential transform used to store
// and verify user passwords.
package cryptox

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt verifier for plaintext. Hashing the
// same plaintext twice yields different verifiers; both verify successfully.
func HashPassword(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PasswordMatches reports whether plaintext corresponds to verifier. It never
// returns an error on mismatch; bcrypt's compare runs over the full digest
// regardless of where the mismatch occurs.
func PasswordMatches(plaintext, verifier string) bool {
	return bcrypt.CompareHashAndPassword([]byte(verifier), []byte(plaintext)) == nil
}
