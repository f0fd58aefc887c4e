package memory

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
)

type planRepository struct{ s *Store }

func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) (string, error) {
	if plan.Name == "" {
		return "", errors.New("plan name is required")
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	plan.ID = newID()
	plan.CreatedAt = s.now()
	plan.UpdatedAt = plan.CreatedAt
	s.plans[plan.ID] = &planDoc{Plan: *plan, seq: s.next()}
	return plan.ID, nil
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := p.Plan
	return &out, nil
}

func (r *planRepository) List(ctx context.Context) ([]domain.Plan, error) {
	docs := r.sorted()
	sortBySeq(docs, func(a, b *planDoc) bool {
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]domain.Plan, len(docs))
	for i, d := range docs {
		out[i] = d.Plan
	}
	return out, nil
}

func (r *planRepository) sorted() []*planDoc {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	docs := make([]*planDoc, 0, len(r.s.plans))
	for _, p := range r.s.plans {
		cp := *p
		docs = append(docs, &cp)
	}
	sortBySeq(docs, func(a, b *planDoc) bool { return a.seq < b.seq })
	return docs
}

func (r *planRepository) Update(ctx context.Context, plan *domain.Plan) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	plan.UpdatedAt = s.now()
	p.Name = plan.Name
	p.Description = plan.Description
	p.WeekCount = plan.WeekCount
	p.UpdatedAt = plan.UpdatedAt
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.plans, id)
	return nil
}

// Each walks a point-in-time copy so fn may write to the store.
func (r *planRepository) Each(ctx context.Context, fn func(domain.Plan) error) error {
	for _, d := range r.sorted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(d.Plan); err != nil {
			return err
		}
	}
	return nil
}
