// Package auth checks dashboard login credentials.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("username or password is incorrect")

// Authenticator verifies a username and password pair. Implementations
// return ErrInvalidCredentials for a wrong pair and other errors for
// failures of the check itself.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) error
}

// StaticAuthenticator accepts a single configured username and password.
type StaticAuthenticator struct {
	username [sha256.Size]byte
	password [sha256.Size]byte
}

func NewStatic(username, password string) *StaticAuthenticator {
	return &StaticAuthenticator{
		username: sha256.Sum256([]byte(username)),
		password: sha256.Sum256([]byte(password)),
	}
}

// Authenticate compares SHA-256 digests in constant time.
func (a *StaticAuthenticator) Authenticate(_ context.Context, username, password string) error {
	u := sha256.Sum256([]byte(username))
	p := sha256.Sum256([]byte(password))
	userOK := subtle.ConstantTimeCompare(u[:], a.username[:])
	passOK := subtle.ConstantTimeCompare(p[:], a.password[:])
	if userOK&passOK != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// BcryptAuthenticator checks the password against a bcrypt hash.
type BcryptAuthenticator struct {
	username [sha256.Size]byte
	hash     []byte
}

func NewBcrypt(username, hash string) (*BcryptAuthenticator, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	return &BcryptAuthenticator{username: sha256.Sum256([]byte(username)), hash: []byte(hash)}, nil
}

func (a *BcryptAuthenticator) Authenticate(_ context.Context, username, password string) error {
	u := sha256.Sum256([]byte(username))
	// the hash is compared whatever the username
	err := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if subtle.ConstantTimeCompare(u[:], a.username[:]) != 1 {
		return ErrInvalidCredentials
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("compare password: %w", err)
	}
}

// HashPassword returns a bcrypt hash suitable for AUTH_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// New picks the bcrypt authenticator when a hash is configured.
func New(username, password, passwordHash string) (Authenticator, error) {
	if passwordHash != "" {
		return NewBcrypt(username, passwordHash)
	}
	if password == "" {
		return nil, errors.New("no password configured")
	}
	return NewStatic(username, password), nil
}
