package service

import "errors"

// --- Error Definitions ---
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrCancelled          = errors.New("action cancelled")
	ErrPlanNotFound       = errors.New("workout plan not found")
	ErrSessionNotFound    = errors.New("editing session not found or expired")
	ErrGlobalWorkoutInUse = errors.New("global workout is referenced by workout plans")
	ErrGlobalWorkoutFound = errors.New("a global workout with this name already exists")
	ErrGlobalWorkoutGone  = errors.New("global workout not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrSelfModification   = errors.New("you cannot modify or delete your own account")

	ErrAccessDenied         = errors.New("access denied: no account for this identity")
	ErrNotAdmin             = errors.New("admin access required")
	ErrAccountInactive      = errors.New("account is deactivated")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid credentials")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)
