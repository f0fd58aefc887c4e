package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitness-admin/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

// idTokenClaims is the payload of an identity provider ID token.
type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// TokenProvider accepts HS256 ID tokens issued by the external identity
// provider with a shared secret.
type TokenProvider struct {
	secret   []byte
	issuer   string
	audience string
}

func NewTokenProvider(secret, issuer, audience string) (*TokenProvider, error) {
	if secret == "" {
		return nil, errors.New("identity secret cannot be empty")
	}
	return &TokenProvider{secret: []byte(secret), issuer: issuer, audience: audience}, nil
}

func (p *TokenProvider) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	if creds.IDToken == "" {
		return nil, ErrMissingCredentials
	}
	claims := &idTokenClaims{}
	token, err := jwt.ParseWithClaims(creds.IDToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if p.issuer != "" && !claims.VerifyIssuer(p.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidCredentials)
	}
	if p.audience != "" && !claims.VerifyAudience(p.audience, true) {
		return nil, fmt.Errorf("%w: unexpected audience", ErrInvalidCredentials)
	}
	email := domain.NormalizeEmail(claims.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", ErrInvalidCredentials)
	}
	return &Identity{Email: email, DisplayName: claims.Name, PhotoURL: claims.Picture}, nil
}

// Sign issues an ID token the provider accepts. Used by tests and local
// development in place of the real identity provider.
func (p *TokenProvider) Sign(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := idTokenClaims{
		Email:         id.Email,
		EmailVerified: true,
		Name:          id.DisplayName,
		Picture:       id.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if p.audience != "" {
		claims.Audience = jwt.ClaimStrings{p.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
