package identity

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/fitness-admin/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashingFailed = errors.New("failed to hash password")

// LocalProvider checks an email and password against the bcrypt hash stored
// on the account record.
type LocalProvider struct {
	accounts repository.AccountRepository
}

func NewLocalProvider(accounts repository.AccountRepository) *LocalProvider {
	return &LocalProvider{accounts: accounts}
}

func (p *LocalProvider) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}
	account, err := p.accounts.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{
		Email:       account.Email,
		DisplayName: account.DisplayName,
		PhotoURL:    account.PhotoURL,
	}, nil
}

// HashPassword returns the bcrypt hash stored on an account record.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}
