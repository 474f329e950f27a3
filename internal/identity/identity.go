// Package identity is the port to the hosted authentication collaborator:
// email/password sign-up and sign-in, and bearer-token verification for the
// HTTP middleware.
package identity

import (
	"context"
	"errors"
)

var (
	ErrInvalidEmail      = errors.New("identity: please enter a valid email address")
	ErrInvalidCredential = errors.New("identity: invalid email or password")
	ErrEmailInUse        = errors.New("identity: an account with this email already exists")
	ErrWeakPassword      = errors.New("identity: password must be at least 6 characters")
	ErrInvalidToken      = errors.New("identity: invalid or expired session token")
)

// Session is an authenticated user session as returned by the provider.
type Session struct {
	UserID       string
	Email        string
	IDToken      string
	RefreshToken string
}

// Service is the identity collaborator contract.
type Service interface {
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	// VerifyToken returns the user id for a valid ID token.
	VerifyToken(ctx context.Context, idToken string) (string, error)
}
