package memory

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
)

type workoutRepository struct{ s *Store }

func (r *workoutRepository) Create(ctx context.Context, workout *domain.PlanWorkout) (string, error) {
	if workout.PlanID == "" || workout.WeekID == "" || workout.DayID == "" || workout.GlobalWorkoutID == "" {
		return "", errors.New("workout requires planId, weekId, dayId and globalWorkoutId")
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	workout.ID = newID()
	workout.CreatedAt = s.now()
	workout.UpdatedAt = workout.CreatedAt
	s.workouts[workout.ID] = &workoutDoc{PlanWorkout: *workout, seq: s.next()}
	return workout.ID, nil
}

func (r *workoutRepository) ListByDay(ctx context.Context, dayID string) ([]domain.PlanWorkout, error) {
	docs := r.byDay(dayID)
	sortBySeq(docs, func(a, b *workoutDoc) bool {
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.seq < b.seq
	})
	out := make([]domain.PlanWorkout, len(docs))
	for i, d := range docs {
		out[i] = d.PlanWorkout
	}
	return out, nil
}

// byDay copies the documents of a day, in insertion order.
func (r *workoutRepository) byDay(dayID string) []*workoutDoc {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var docs []*workoutDoc
	for _, w := range r.s.workouts {
		if w.DayID == dayID {
			cp := *w
			docs = append(docs, &cp)
		}
	}
	sortBySeq(docs, func(a, b *workoutDoc) bool { return a.seq < b.seq })
	return docs
}

func (r *workoutRepository) Update(ctx context.Context, workout *domain.PlanWorkout) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[workout.ID]
	if !ok {
		return repository.ErrNotFound
	}
	workout.UpdatedAt = s.now()
	w.GlobalWorkoutID = workout.GlobalWorkoutID
	w.Order = workout.Order
	w.Config = workout.Config
	w.UpdatedAt = workout.UpdatedAt
	return nil
}

func (r *workoutRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.workouts, id)
	return nil
}

func (r *workoutRepository) DeleteByPlan(ctx context.Context, planID string) (int64, error) {
	return r.deleteWhere(func(w *workoutDoc) bool { return w.PlanID == planID }), nil
}

func (r *workoutRepository) DeleteByDay(ctx context.Context, dayID string) (int64, error) {
	return r.deleteWhere(func(w *workoutDoc) bool { return w.DayID == dayID }), nil
}

func (r *workoutRepository) deleteWhere(match func(*workoutDoc) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, w := range r.s.workouts {
		if match(w) {
			delete(r.s.workouts, id)
			n++
		}
	}
	return n
}

func (r *workoutRepository) DistinctDayIDs(ctx context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0, len(r.s.workouts))
	for _, w := range r.s.workouts {
		ids = append(ids, w.DayID)
	}
	return distinct(ids), nil
}

func (r *workoutRepository) PlanIDsReferencing(ctx context.Context, globalWorkoutID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for _, w := range r.s.workouts {
		if w.GlobalWorkoutID == globalWorkoutID {
			ids = append(ids, w.PlanID)
		}
	}
	return distinct(ids), nil
}

func (r *workoutRepository) EachLegacyByDay(ctx context.Context, dayID string, fn func(domain.LegacyWorkout) error) error {
	for _, w := range r.byDay(dayID) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(w.raw()); err != nil {
			return err
		}
	}
	return nil
}

func (r *workoutRepository) SetReference(ctx context.Context, id, globalWorkoutID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[id]
	if !ok {
		return repository.ErrNotFound
	}
	w.GlobalWorkoutID = globalWorkoutID
	w.legacy = domain.LegacyWorkout{}
	w.UpdatedAt = s.now()
	return nil
}
