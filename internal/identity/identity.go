// Package identity verifies sign-in credentials. It answers "who is this?"
// only; whether that person may use the dashboard is decided by the account
// record.
package identity

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("credentials are required")
)

// Credentials carries whatever the configured provider understands.
type Credentials struct {
	IDToken  string `json:"idToken,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// Identity is a verified sign-in.
type Identity struct {
	Email       string
	DisplayName string
	PhotoURL    string
}

type Provider interface {
	Verify(ctx context.Context, creds Credentials) (*Identity, error)
}
