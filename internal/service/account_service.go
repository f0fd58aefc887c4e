package service

import (
	"alcyxob/fitness-admin/internal/confirm"
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/identity"
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// NewAccount is a provisioned dashboard account. Password is only needed
// with the local identity provider.
type NewAccount struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
	IsActive    *bool  `json:"isActive"`
	Password    string `json:"password,omitempty"`
}

// AccountUpdate changes selected fields; nil fields are left alone.
type AccountUpdate struct {
	DisplayName *string `json:"displayName"`
	IsAdmin     *bool   `json:"isAdmin"`
	IsActive    *bool   `json:"isActive"`
	Password    *string `json:"password,omitempty"`
}

// AccountService manages dashboard accounts. Every mutation names the
// acting admin; an admin can never change or remove their own record.
type AccountService interface {
	List(ctx context.Context) ([]domain.Account, error)
	Get(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, actor string, in NewAccount) (*domain.Account, error)
	Update(ctx context.Context, actor, email string, in AccountUpdate) (*domain.Account, error)
	Delete(ctx context.Context, actor, email string, confirmer confirm.Confirmer) error
}

type accountService struct {
	accounts repository.AccountRepository
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewAccountService(accounts repository.AccountRepository, notifier notify.Notifier, log *zap.Logger) AccountService {
	return &accountService{
		accounts: accounts,
		notifier: notifier,
		log:      log.Named("accounts"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *accountService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		s.notifier.Error("Failed to fetch users")
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) Get(ctx context.Context, email string) (*domain.Account, error) {
	a, err := s.accounts.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *accountService) Create(ctx context.Context, actor string, in NewAccount) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	a := &domain.Account{
		Email:       email,
		DisplayName: strings.TrimSpace(in.DisplayName),
		IsAdmin:     in.IsAdmin,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}
	if in.Password != "" {
		hash, err := identity.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		a.PasswordHash = hash
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		s.notifier.Error("Failed to create user")
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.log.Info("account created", zap.String("email", email), zap.Bool("isAdmin", a.IsAdmin), zap.String("by", actor))
	s.notifier.Success("User created successfully")
	return a, nil
}

func (s *accountService) Update(ctx context.Context, actor, email string, in AccountUpdate) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == domain.NormalizeEmail(actor) {
		return nil, ErrSelfModification
	}
	a, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if in.DisplayName != nil {
		a.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.IsAdmin != nil {
		a.IsAdmin = *in.IsAdmin
	}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}
	if in.Password != nil {
		hash, err := identity.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		a.PasswordHash = hash
	}
	if err := s.accounts.Update(ctx, a); err != nil {
		s.notifier.Error("Failed to update user")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	s.log.Info("account updated",
		zap.String("email", email),
		zap.Bool("isAdmin", a.IsAdmin),
		zap.Bool("isActive", a.IsActive),
		zap.String("by", actor))
	s.notifier.Success("User updated successfully")
	return a, nil
}

func (s *accountService) Delete(ctx context.Context, actor, email string, confirmer confirm.Confirmer) error {
	email = domain.NormalizeEmail(email)
	if email == domain.NormalizeEmail(actor) {
		return ErrSelfModification
	}
	if _, err := s.Get(ctx, email); err != nil {
		return err
	}
	ok, err := confirmer.Confirm(ctx, confirm.Request{
		Title:       "Delete User",
		Message:     fmt.Sprintf("Are you sure you want to delete %s? They will lose dashboard access.", email),
		ConfirmText: "Delete",
		Destructive: true,
	})
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return ErrCancelled
	}
	if err := s.accounts.Delete(ctx, email); err != nil {
		s.notifier.Error("Failed to delete user")
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.Info("account deleted", zap.String("email", email), zap.String("by", actor))
	s.notifier.Success("User deleted successfully")
	return nil
}
