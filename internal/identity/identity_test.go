package identity

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository/memory"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenProvider(t *testing.T) {
	p, err := NewTokenProvider("s3cret", "https://id.example.com", "fitness-admin")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		tok, err := p.Sign(Identity{Email: "Coach@Example.com", DisplayName: "Coach"}, time.Minute)
		require.NoError(t, err)
		id, err := p.Verify(ctx, Credentials{IDToken: tok})
		require.NoError(t, err)
		assert.Equal(t, "coach@example.com", id.Email)
		assert.Equal(t, "Coach", id.DisplayName)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := p.Sign(Identity{Email: "a@b.c"}, -time.Minute)
		require.NoError(t, err)
		_, err = p.Verify(ctx, Credentials{IDToken: tok})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewTokenProvider("other", "https://id.example.com", "fitness-admin")
		tok, _ := other.Sign(Identity{Email: "a@b.c"}, time.Minute)
		_, err := p.Verify(ctx, Credentials{IDToken: tok})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other, _ := NewTokenProvider("s3cret", "https://id.example.com", "mobile-app")
		tok, _ := other.Sign(Identity{Email: "a@b.c"}, time.Minute)
		_, err := p.Verify(ctx, Credentials{IDToken: tok})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("no email claim", func(t *testing.T) {
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Issuer:    "https://id.example.com",
			Audience:  jwt.ClaimStrings{"fitness-admin"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}).SignedString([]byte("s3cret"))
		_, err := p.Verify(ctx, Credentials{IDToken: tok})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := p.Verify(ctx, Credentials{})
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})
}

func TestLocalProvider(t *testing.T) {
	ctx := context.Background()
	accounts := memory.NewStore().Repositories().Accounts
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, &domain.Account{Email: "admin@example.com", PasswordHash: hash, IsAdmin: true, IsActive: true}))
	require.NoError(t, accounts.Create(ctx, &domain.Account{Email: "nopw@example.com", IsAdmin: true, IsActive: true}))

	p := NewLocalProvider(accounts)

	id, err := p.Verify(ctx, Credentials{Email: "ADMIN@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", id.Email)

	_, err = p.Verify(ctx, Credentials{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.Verify(ctx, Credentials{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.Verify(ctx, Credentials{Email: "nopw@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
