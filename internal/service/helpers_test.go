package service

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/plantree"
	"alcyxob/fitness-admin/internal/repository"
	"alcyxob/fitness-admin/internal/repository/memory"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// writeCounts tallies store mutations.
type writeCounts struct {
	Creates int
	Updates int
	Deletes int
}

func (c writeCounts) total() int { return c.Creates + c.Updates + c.Deletes }

// counting wraps a repository set and counts every write. fail, when set, is
// consulted before each write and may refuse it.
type counting struct {
	mu     sync.Mutex
	counts writeCounts
	fail   func(op string) error
}

func (c *counting) write(op string, kind func(*writeCounts)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		if err := c.fail(op); err != nil {
			return err
		}
	}
	kind(&c.counts)
	return nil
}

func (c *counting) snapshot() writeCounts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}

func (c *counting) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = writeCounts{}
	c.fail = nil
}

func (c *counting) failOn(fn func(op string) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = fn
}

func created(w *writeCounts) { w.Creates++ }
func updated(w *writeCounts) { w.Updates++ }
func deleted(w *writeCounts) { w.Deletes++ }

func (c *counting) wrap(r repository.Repositories) repository.Repositories {
	return repository.Repositories{
		Plans:          countingPlans{r.Plans, c},
		Weeks:          countingWeeks{r.Weeks, c},
		Days:           countingDays{r.Days, c},
		Workouts:       countingWorkouts{r.Workouts, c},
		GlobalWorkouts: r.GlobalWorkouts,
		Accounts:       r.Accounts,
	}
}

type countingPlans struct {
	repository.PlanRepository
	c *counting
}

func (r countingPlans) Create(ctx context.Context, p *domain.Plan) (string, error) {
	if err := r.c.write("plans.create", created); err != nil {
		return "", err
	}
	return r.PlanRepository.Create(ctx, p)
}

func (r countingPlans) Update(ctx context.Context, p *domain.Plan) error {
	if err := r.c.write("plans.update", updated); err != nil {
		return err
	}
	return r.PlanRepository.Update(ctx, p)
}

func (r countingPlans) Delete(ctx context.Context, id string) error {
	if err := r.c.write("plans.delete", deleted); err != nil {
		return err
	}
	return r.PlanRepository.Delete(ctx, id)
}

type countingWeeks struct {
	repository.WeekRepository
	c *counting
}

func (r countingWeeks) Create(ctx context.Context, w *domain.Week) (string, error) {
	if err := r.c.write("weeks.create", created); err != nil {
		return "", err
	}
	return r.WeekRepository.Create(ctx, w)
}

func (r countingWeeks) Update(ctx context.Context, w *domain.Week) error {
	if err := r.c.write("weeks.update", updated); err != nil {
		return err
	}
	return r.WeekRepository.Update(ctx, w)
}

func (r countingWeeks) Delete(ctx context.Context, id string) error {
	if err := r.c.write("weeks.delete", deleted); err != nil {
		return err
	}
	return r.WeekRepository.Delete(ctx, id)
}

type countingDays struct {
	repository.DayRepository
	c *counting
}

func (r countingDays) Create(ctx context.Context, d *domain.Day) (string, error) {
	if err := r.c.write("days.create", created); err != nil {
		return "", err
	}
	return r.DayRepository.Create(ctx, d)
}

func (r countingDays) Update(ctx context.Context, d *domain.Day) error {
	if err := r.c.write("days.update", updated); err != nil {
		return err
	}
	return r.DayRepository.Update(ctx, d)
}

func (r countingDays) Delete(ctx context.Context, id string) error {
	if err := r.c.write("days.delete", deleted); err != nil {
		return err
	}
	return r.DayRepository.Delete(ctx, id)
}

type countingWorkouts struct {
	repository.WorkoutRepository
	c *counting
}

func (r countingWorkouts) Create(ctx context.Context, k *domain.PlanWorkout) (string, error) {
	if err := r.c.write("workouts.create", created); err != nil {
		return "", err
	}
	return r.WorkoutRepository.Create(ctx, k)
}

func (r countingWorkouts) Update(ctx context.Context, k *domain.PlanWorkout) error {
	if err := r.c.write("workouts.update", updated); err != nil {
		return err
	}
	return r.WorkoutRepository.Update(ctx, k)
}

func (r countingWorkouts) Delete(ctx context.Context, id string) error {
	if err := r.c.write("workouts.delete", deleted); err != nil {
		return err
	}
	return r.WorkoutRepository.Delete(ctx, id)
}

func (r countingWorkouts) SetReference(ctx context.Context, id, globalWorkoutID string) error {
	if err := r.c.write("workouts.setReference", updated); err != nil {
		return err
	}
	return r.WorkoutRepository.SetReference(ctx, id, globalWorkoutID)
}

type harness struct {
	store   *memory.Store
	counter *counting
	repos   repository.Repositories
	queue   *notify.Queue
	plans   PlanService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	counter := &counting{}
	repos := counter.wrap(store.Repositories())
	queue := notify.NewQueue()
	h := &harness{
		store:   store,
		counter: counter,
		repos:   repos,
		queue:   queue,
		plans:   NewPlanService(repos, queue, zaptest.NewLogger(t)),
	}
	h.seedLibrary(t)
	return h
}

func (h *harness) seedLibrary(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, g := range []domain.GlobalWorkout{
		{ID: "bench-press", Name: "Bench Press", Type: domain.WorkoutTypeWeight, MuscleGroups: []string{"Chest"}, Equipment: []string{"Barbell"}, IsActive: true},
		{ID: "squat", Name: "Squat", Type: domain.WorkoutTypeWeight, MuscleGroups: []string{"Legs"}, Equipment: []string{"Barbell"}, IsActive: true},
		{ID: "plank", Name: "Plank", Type: domain.WorkoutTypeTimer, MuscleGroups: []string{"Core"}, IsActive: true},
	} {
		g := g
		_, err := h.repos.GlobalWorkouts.Create(ctx, &g)
		require.NoError(t, err)
	}
}

// lastMessage returns the newest pending notification.
func (h *harness) lastMessage(t *testing.T) notify.Notification {
	t.Helper()
	pending := h.queue.Pending()
	require.NotEmpty(t, pending)
	return pending[len(pending)-1]
}

// buildPlan returns an unsaved plan: each week holds one day with one Weight
// and one Timer workout.
func buildPlan(t *testing.T, weeks int) *plantree.Tree {
	t.Helper()
	tree := plantree.New("Strength Block", "Four days a week")
	for i := 0; i < weeks; i++ {
		week := tree.AddWeek()
		day, err := tree.AddDay(week.ID, "Push")
		require.NoError(t, err)
		_, err = tree.AddWorkout(day.ID, "bench-press",
			domain.WorkoutDisplay{Name: "Bench Press", Type: domain.WorkoutTypeWeight},
			domain.DefaultConfig(domain.WorkoutTypeWeight))
		require.NoError(t, err)
		_, err = tree.AddWorkout(day.ID, "plank",
			domain.WorkoutDisplay{Name: "Plank", Type: domain.WorkoutTypeTimer},
			domain.DefaultConfig(domain.WorkoutTypeTimer))
		require.NoError(t, err)
	}
	return tree
}

// savePlan saves tree from scratch and returns the snapshot an editor would
// keep afterwards, with the write counter reset.
func (h *harness) savePlan(t *testing.T, tree *plantree.Tree) *plantree.Tree {
	t.Helper()
	_, err := h.plans.Save(context.Background(), tree, nil)
	require.NoError(t, err)
	h.counter.reset()
	h.queue.Drain()
	return tree.Clone()
}
