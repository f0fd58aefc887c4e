// Package memory is an in-process implementation of the repository
// interfaces. It backs the "memory" database driver and the service tests.
package memory

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds every collection behind a single lock.
type Store struct {
	mu  sync.RWMutex
	seq int64

	plans          map[string]*planDoc
	weeks          map[string]*weekDoc
	days           map[string]*dayDoc
	workouts       map[string]*workoutDoc
	globalWorkouts map[string]domain.GlobalWorkout
	accounts       map[string]domain.Account

	now func() time.Time
}

// seq preserves insertion order for documents created within the same clock tick.
type planDoc struct {
	domain.Plan
	seq int64
}

type weekDoc struct {
	domain.Week
	seq int64
}

type dayDoc struct {
	domain.Day
	seq int64
}

// workoutDoc carries the denormalized fields older documents may still hold.
type workoutDoc struct {
	domain.PlanWorkout
	legacy domain.LegacyWorkout
	seq    int64
}

func NewStore() *Store {
	return &Store{
		plans:          make(map[string]*planDoc),
		weeks:          make(map[string]*weekDoc),
		days:           make(map[string]*dayDoc),
		workouts:       make(map[string]*workoutDoc),
		globalWorkouts: make(map[string]domain.GlobalWorkout),
		accounts:       make(map[string]domain.Account),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Plans:          &planRepository{s},
		Weeks:          &weekRepository{s},
		Days:           &dayRepository{s},
		Workouts:       &workoutRepository{s},
		GlobalWorkouts: &globalWorkoutRepository{s},
		Accounts:       &accountRepository{s},
	}
}

// SeedLegacyWorkout inserts a workout document in the pre-migration shape:
// display fields inline and, usually, no reference.
func (s *Store) SeedLegacyWorkout(planID, weekID, dayID string, order int, cfg domain.WorkoutConfig, legacy domain.LegacyWorkout) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := legacy.ID
	if id == "" {
		id = uuid.NewString()
	}
	legacy.ID = id
	now := s.now()
	s.workouts[id] = &workoutDoc{
		PlanWorkout: domain.PlanWorkout{
			ID:              id,
			PlanID:          planID,
			WeekID:          weekID,
			DayID:           dayID,
			GlobalWorkoutID: legacy.GlobalWorkoutID,
			Order:           order,
			Config:          cfg,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		legacy: legacy,
		seq:    s.next(),
	}
	return id
}

// Counts reports how many documents each plan-side collection holds.
func (s *Store) Counts() (plans, weeks, days, workouts int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plans), len(s.weeks), len(s.days), len(s.workouts)
}

// Legacy returns the raw form of a workout document.
func (s *Store) Legacy(id string) (domain.LegacyWorkout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workouts[id]
	if !ok {
		return domain.LegacyWorkout{}, false
	}
	return w.raw(), true
}

func (w *workoutDoc) raw() domain.LegacyWorkout {
	l := w.legacy
	l.ID = w.ID
	l.GlobalWorkoutID = w.GlobalWorkoutID
	l.MuscleGroups = append([]string(nil), l.MuscleGroups...)
	l.Equipment = append([]string(nil), l.Equipment...)
	return l
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func newID() string {
	return uuid.NewString()
}

func sortBySeq[T any](docs []T, less func(a, b T) bool) {
	sort.SliceStable(docs, func(i, j int) bool { return less(docs[i], docs[j]) })
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
