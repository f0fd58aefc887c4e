package domain

import (
	"strings"
	"time"
)

// Account is a dashboard user record, keyed by email.
type Account struct {
	Email        string     `bson:"_id" json:"email"`
	DisplayName  string     `bson:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL     string     `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	IsAdmin      bool       `bson:"isAdmin" json:"isAdmin"`
	IsActive     bool       `bson:"isActive" json:"isActive"`
	PasswordHash string     `bson:"passwordHash,omitempty" json:"-"` // Only used by the local identity provider
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	LastLoginAt  *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
}

// CanUseDashboard reports whether the record grants dashboard access.
func (a *Account) CanUseDashboard() bool {
	return a.IsAdmin && a.IsActive
}

// NormalizeEmail is applied to every email before it is used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
