package service

import (
	"alcyxob/fitness-admin/internal/confirm"
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/identity"
	"alcyxob/fitness-admin/internal/notify"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func seedAccount(t *testing.T, h *harness, a domain.Account) {
	t.Helper()
	require.NoError(t, h.repos.Accounts.Create(context.Background(), &a))
}

func newTestAuth(t *testing.T, h *harness) (AuthService, *identity.TokenProvider) {
	t.Helper()
	provider, err := identity.NewTokenProvider("idp-secret", "https://idp.example.com", "fitness-admin")
	require.NoError(t, err)
	return NewAuthService(provider, h.repos.Accounts, h.queue, zaptest.NewLogger(t), "session-secret", time.Hour), provider
}

func idToken(t *testing.T, p *identity.TokenProvider, email string) identity.Credentials {
	t.Helper()
	tok, err := p.Sign(identity.Identity{Email: email, DisplayName: "Coach"}, time.Minute)
	require.NoError(t, err)
	return identity.Credentials{IDToken: tok}
}

func TestSignIn(t *testing.T) {
	h := newHarness(t)
	auth, provider := newTestAuth(t, h)
	ctx := context.Background()

	seedAccount(t, h, domain.Account{Email: "admin@example.com", DisplayName: "Ada", IsAdmin: true, IsActive: true})
	seedAccount(t, h, domain.Account{Email: "member@example.com", IsAdmin: false, IsActive: true})
	seedAccount(t, h, domain.Account{Email: "former@example.com", IsAdmin: true, IsActive: false})

	tests := []struct {
		name    string
		email   string
		wantErr error
		message string
	}{
		{"unknown account", "stranger@example.com", ErrAccessDenied, "Access denied. Admin access only. Contact an administrator for access."},
		{"not an admin", "member@example.com", ErrNotAdmin, "Admin access required. Please use the mobile app instead."},
		{"deactivated", "former@example.com", ErrAccountInactive, "Your account has been deactivated. Contact an administrator for access."},
		{"admin", "Admin@Example.com", nil, "Welcome back, Ada!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, account, err := auth.SignIn(ctx, idToken(t, provider, tt.email))
			msg := h.lastMessage(t)
			assert.Equal(t, tt.message, msg.Message)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Equal(t, notify.LevelError, msg.Level)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, account.LastLoginAt)

			email, err := auth.ParseSession(token)
			require.NoError(t, err)
			assert.Equal(t, "admin@example.com", email)

			stored, err := h.repos.Accounts.GetByEmail(ctx, email)
			require.NoError(t, err)
			assert.NotNil(t, stored.LastLoginAt)
		})
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	h := newHarness(t)
	auth, _ := newTestAuth(t, h)

	other, err := identity.NewTokenProvider("wrong-secret", "https://idp.example.com", "fitness-admin")
	require.NoError(t, err)
	forged, err := other.Sign(identity.Identity{Email: "admin@example.com"}, time.Minute)
	require.NoError(t, err)

	_, _, err = auth.SignIn(context.Background(), identity.Credentials{IDToken: forged})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = auth.SignIn(context.Background(), identity.Credentials{})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Equal(t, "Failed to sign in. Please try again.", h.lastMessage(t).Message)
}

func TestAuthorizeSeesRevokedAccess(t *testing.T) {
	h := newHarness(t)
	auth, provider := newTestAuth(t, h)
	accounts := NewAccountService(h.repos.Accounts, h.queue, zaptest.NewLogger(t))
	ctx := context.Background()

	seedAccount(t, h, domain.Account{Email: "root@example.com", IsAdmin: true, IsActive: true})
	seedAccount(t, h, domain.Account{Email: "admin@example.com", IsAdmin: true, IsActive: true})
	token, _, err := auth.SignIn(ctx, idToken(t, provider, "admin@example.com"))
	require.NoError(t, err)
	email, err := auth.ParseSession(token)
	require.NoError(t, err)

	_, err = auth.Authorize(ctx, email)
	require.NoError(t, err)

	no := false
	_, err = accounts.Update(ctx, "root@example.com", email, AccountUpdate{IsAdmin: &no})
	require.NoError(t, err)
	_, err = auth.Authorize(ctx, email)
	assert.ErrorIs(t, err, ErrNotAdmin)

	require.NoError(t, accounts.Delete(ctx, "root@example.com", email, confirm.Static(true)))
	_, err = auth.Authorize(ctx, email)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestParseSessionRejectsForeignTokens(t *testing.T) {
	h := newHarness(t)
	auth, provider := newTestAuth(t, h)

	// An identity provider token is not a session token.
	creds := idToken(t, provider, "admin@example.com")
	_, err := auth.ParseSession(creds.IDToken)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = auth.ParseSession("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestAccountSelfProtection(t *testing.T) {
	h := newHarness(t)
	accounts := NewAccountService(h.repos.Accounts, h.queue, zaptest.NewLogger(t))
	ctx := context.Background()
	seedAccount(t, h, domain.Account{Email: "admin@example.com", IsAdmin: true, IsActive: true})

	no := false
	_, err := accounts.Update(ctx, "admin@example.com", " ADMIN@example.com", AccountUpdate{IsAdmin: &no})
	assert.ErrorIs(t, err, ErrSelfModification)
	err = accounts.Delete(ctx, "Admin@Example.com", "admin@example.com", confirm.Static(true))
	assert.ErrorIs(t, err, ErrSelfModification)

	stored, err := accounts.Get(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)
}

func TestAccountCreate(t *testing.T) {
	h := newHarness(t)
	accounts := NewAccountService(h.repos.Accounts, h.queue, zaptest.NewLogger(t))
	local := identity.NewLocalProvider(h.repos.Accounts)
	ctx := context.Background()

	a, err := accounts.Create(ctx, "admin@example.com", NewAccount{Email: " New@Example.com ", IsAdmin: true, Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", a.Email)
	assert.True(t, a.IsActive)

	id, err := local.Verify(ctx, identity.Credentials{Email: "new@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", id.Email)

	_, err = accounts.Create(ctx, "admin@example.com", NewAccount{Email: "new@example.com"})
	assert.ErrorIs(t, err, ErrAccountExists)
	_, err = accounts.Create(ctx, "admin@example.com", NewAccount{Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = accounts.Delete(ctx, "admin@example.com", "new@example.com", confirm.Static(false))
	assert.ErrorIs(t, err, ErrCancelled)
}
