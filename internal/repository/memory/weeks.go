package memory

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
)

type weekRepository struct{ s *Store }

func (r *weekRepository) Create(ctx context.Context, week *domain.Week) (string, error) {
	if week.PlanID == "" {
		return "", errors.New("week requires planId")
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	week.ID = newID()
	week.CreatedAt = s.now()
	week.UpdatedAt = week.CreatedAt
	s.weeks[week.ID] = &weekDoc{Week: *week, seq: s.next()}
	return week.ID, nil
}

func (r *weekRepository) GetByID(ctx context.Context, id string) (*domain.Week, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.weeks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := w.Week
	return &out, nil
}

func (r *weekRepository) ListByPlan(ctx context.Context, planID string) ([]domain.Week, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var docs []*weekDoc
	for _, w := range r.s.weeks {
		if w.PlanID == planID {
			docs = append(docs, w)
		}
	}
	sortBySeq(docs, func(a, b *weekDoc) bool {
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.seq < b.seq
	})
	out := make([]domain.Week, len(docs))
	for i, d := range docs {
		out[i] = d.Week
	}
	return out, nil
}

func (r *weekRepository) Update(ctx context.Context, week *domain.Week) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.weeks[week.ID]
	if !ok {
		return repository.ErrNotFound
	}
	week.UpdatedAt = s.now()
	w.Number = week.Number
	w.UpdatedAt = week.UpdatedAt
	return nil
}

func (r *weekRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.weeks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.weeks, id)
	return nil
}

func (r *weekRepository) DeleteByPlan(ctx context.Context, planID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, w := range r.s.weeks {
		if w.PlanID == planID {
			delete(r.s.weeks, id)
			n++
		}
	}
	return n, nil
}

func (r *weekRepository) DistinctPlanIDs(ctx context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0, len(r.s.weeks))
	for _, w := range r.s.weeks {
		ids = append(ids, w.PlanID)
	}
	return distinct(ids), nil
}
