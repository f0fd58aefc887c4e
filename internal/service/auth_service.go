package service

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/identity"
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const sessionIssuer = "fitness-admin"

var ErrInvalidSession = errors.New("invalid or expired session token")

// AuthService is the admin-only boundary: it turns a verified identity into a
// dashboard session and re-checks the account on every request.
type AuthService interface {
	SignIn(ctx context.Context, creds identity.Credentials) (token string, account *domain.Account, err error)
	// ParseSession validates a session token and returns the email it was
	// issued to.
	ParseSession(token string) (string, error)
	// Authorize loads the account behind a session and applies the same
	// checks as sign-in, so revoked access takes effect immediately.
	Authorize(ctx context.Context, email string) (*domain.Account, error)
}

// sessionClaims is the payload of a dashboard session token.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	provider      identity.Provider
	accounts      repository.AccountRepository
	notifier      notify.Notifier
	log           *zap.Logger
	jwtSecret     []byte
	jwtExpiration time.Duration
	now           func() time.Time
}

func NewAuthService(provider identity.Provider, accounts repository.AccountRepository, notifier notify.Notifier, log *zap.Logger, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		provider:      provider,
		accounts:      accounts,
		notifier:      notifier,
		log:           log.Named("auth"),
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

func (s *authService) SignIn(ctx context.Context, creds identity.Credentials) (string, *domain.Account, error) {
	token, account, err := s.signIn(ctx, creds)
	if err != nil {
		s.log.Info("sign-in refused", zap.Error(err))
		s.notifier.Error(SignInMessage(err))
		return "", nil, err
	}
	name := account.DisplayName
	if name == "" {
		name = account.Email
	}
	s.notifier.Success(fmt.Sprintf("Welcome back, %s!", name))
	return token, account, nil
}

func (s *authService) signIn(ctx context.Context, creds identity.Credentials) (string, *domain.Account, error) {
	id, err := s.provider.Verify(ctx, creds)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) || errors.Is(err, identity.ErrMissingCredentials) {
			return "", nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
		}
		return "", nil, fmt.Errorf("verify identity: %w", err)
	}

	account, err := s.Authorize(ctx, id.Email)
	if err != nil {
		return "", nil, err
	}

	now := s.now().UTC()
	if err := s.accounts.TouchLastLogin(ctx, account.Email, now); err != nil {
		// Not worth refusing the sign-in over.
		s.log.Warn("failed to update last login", zap.String("email", account.Email), zap.Error(err))
	} else {
		account.LastLoginAt = &now
	}

	token, err := s.issue(account.Email)
	if err != nil {
		s.log.Error("failed to sign session token", zap.Error(err))
		return "", nil, ErrTokenGeneration
	}
	account.PasswordHash = ""
	return token, account, nil
}

func (s *authService) Authorize(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !account.IsAdmin {
		return nil, ErrNotAdmin
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	return account, nil
}

func (s *authService) issue(email string) (string, error) {
	now := s.now()
	claims := &sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authService) ParseSession(tokenString string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !claims.VerifyIssuer(sessionIssuer, true) || claims.Email == "" {
		return "", ErrInvalidSession
	}
	return claims.Email, nil
}

// SignInMessage is the text shown to a user whose sign-in failed.
func SignInMessage(err error) string {
	switch {
	case errors.Is(err, ErrAccessDenied):
		return "Access denied. Admin access only. Contact an administrator for access."
	case errors.Is(err, ErrNotAdmin):
		return "Admin access required. Please use the mobile app instead."
	case errors.Is(err, ErrAccountInactive):
		return "Your account has been deactivated. Contact an administrator for access."
	case errors.Is(err, ErrCancelled):
		return "Sign-in cancelled"
	default:
		return "Failed to sign in. Please try again."
	}
}
