package memory

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
)

type dayRepository struct{ s *Store }

func (r *dayRepository) Create(ctx context.Context, day *domain.Day) (string, error) {
	if day.PlanID == "" || day.WeekID == "" {
		return "", errors.New("day requires planId and weekId")
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	day.ID = newID()
	day.CreatedAt = s.now()
	day.UpdatedAt = day.CreatedAt
	s.days[day.ID] = &dayDoc{Day: *day, seq: s.next()}
	return day.ID, nil
}

func (r *dayRepository) GetByID(ctx context.Context, id string) (*domain.Day, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.days[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := d.Day
	return &out, nil
}

func (r *dayRepository) ListByWeek(ctx context.Context, weekID string) ([]domain.Day, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var docs []*dayDoc
	for _, d := range r.s.days {
		if d.WeekID == weekID {
			docs = append(docs, d)
		}
	}
	sortBySeq(docs, func(a, b *dayDoc) bool {
		if a.DayNumber != b.DayNumber {
			return a.DayNumber < b.DayNumber
		}
		return a.seq < b.seq
	})
	out := make([]domain.Day, len(docs))
	for i, d := range docs {
		out[i] = d.Day
	}
	return out, nil
}

func (r *dayRepository) Update(ctx context.Context, day *domain.Day) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.days[day.ID]
	if !ok {
		return repository.ErrNotFound
	}
	day.UpdatedAt = s.now()
	d.Name = day.Name
	d.DayNumber = day.DayNumber
	d.UpdatedAt = day.UpdatedAt
	return nil
}

func (r *dayRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.days[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.days, id)
	return nil
}

func (r *dayRepository) DeleteByPlan(ctx context.Context, planID string) (int64, error) {
	return r.deleteWhere(func(d *dayDoc) bool { return d.PlanID == planID }), nil
}

func (r *dayRepository) DeleteByWeek(ctx context.Context, weekID string) (int64, error) {
	return r.deleteWhere(func(d *dayDoc) bool { return d.WeekID == weekID }), nil
}

func (r *dayRepository) deleteWhere(match func(*dayDoc) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, d := range r.s.days {
		if match(d) {
			delete(r.s.days, id)
			n++
		}
	}
	return n
}

func (r *dayRepository) DistinctWeekIDs(ctx context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0, len(r.s.days))
	for _, d := range r.s.days {
		ids = append(ids, d.WeekID)
	}
	return distinct(ids), nil
}
