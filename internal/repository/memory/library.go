package memory

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

type globalWorkoutRepository struct{ s *Store }

func (r *globalWorkoutRepository) Create(ctx context.Context, workout *domain.GlobalWorkout) (string, error) {
	if workout.ID == "" || workout.Name == "" {
		return "", errors.New("global workout ID and name are required")
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.globalWorkouts[workout.ID]; ok {
		return "", repository.ErrDuplicate
	}
	workout.CreatedAt = s.now()
	workout.UpdatedAt = workout.CreatedAt
	s.globalWorkouts[workout.ID] = cloneGlobal(*workout)
	return workout.ID, nil
}

func (r *globalWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.GlobalWorkout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.globalWorkouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneGlobal(g)
	return &out, nil
}

func (r *globalWorkoutRepository) List(ctx context.Context, activeOnly bool) ([]domain.GlobalWorkout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.GlobalWorkout, 0, len(r.s.globalWorkouts))
	for _, g := range r.s.globalWorkouts {
		if activeOnly && !g.IsActive {
			continue
		}
		out = append(out, cloneGlobal(g))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *globalWorkoutRepository) Update(ctx context.Context, workout *domain.GlobalWorkout) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.globalWorkouts[workout.ID]
	if !ok {
		return repository.ErrNotFound
	}
	workout.CreatedAt = prev.CreatedAt
	workout.UpdatedAt = s.now()
	s.globalWorkouts[workout.ID] = cloneGlobal(*workout)
	return nil
}

func (r *globalWorkoutRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.globalWorkouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.globalWorkouts, id)
	return nil
}

func cloneGlobal(g domain.GlobalWorkout) domain.GlobalWorkout {
	g.MuscleGroups = append([]string(nil), g.MuscleGroups...)
	g.Equipment = append([]string(nil), g.Equipment...)
	g.SearchKeywords = append([]string(nil), g.SearchKeywords...)
	return g
}

type accountRepository struct{ s *Store }

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	account.Email = domain.NormalizeEmail(account.Email)
	if account.Email == "" {
		return errors.New("account email is required")
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.Email]; ok {
		return repository.ErrDuplicate
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = s.now()
	}
	s.accounts[account.Email] = *account
	return nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[domain.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return strings.Compare(out[i].Email, out[j].Email) < 0
	})
	return out, nil
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := domain.NormalizeEmail(account.Email)
	a, ok := r.s.accounts[key]
	if !ok {
		return repository.ErrNotFound
	}
	a.DisplayName = account.DisplayName
	a.PhotoURL = account.PhotoURL
	a.IsAdmin = account.IsAdmin
	a.IsActive = account.IsActive
	if account.PasswordHash != "" {
		a.PasswordHash = account.PasswordHash
	}
	r.s.accounts[key] = a
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := domain.NormalizeEmail(email)
	if _, ok := r.s.accounts[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.accounts, key)
	return nil
}

func (r *accountRepository) TouchLastLogin(ctx context.Context, email string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := domain.NormalizeEmail(email)
	a, ok := r.s.accounts[key]
	if !ok {
		return repository.ErrNotFound
	}
	at = at.UTC()
	a.LastLoginAt = &at
	r.s.accounts[key] = a
	return nil
}
