package service

import (
	"alcyxob/fitness-admin/internal/confirm"
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/plantree"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveNewPlanCreatesEveryNode(t *testing.T) {
	h := newHarness(t)
	tree := buildPlan(t, 2)

	result, err := h.plans.Save(context.Background(), tree, nil)
	require.NoError(t, err)

	// plan + 2 weeks + 2 days + 4 workouts
	assert.Equal(t, 9, result.Created)
	assert.Zero(t, result.Updated)
	assert.Zero(t, result.Deleted)
	assert.False(t, tree.IsNew())
	assert.Equal(t, tree.PlanID, result.PlanID)
	for _, w := range tree.Weeks() {
		assert.False(t, plantree.IsTemporary(w.ID))
		for _, d := range tree.Days(w.ID) {
			assert.False(t, plantree.IsTemporary(d.ID))
			for _, k := range tree.Workouts(d.ID) {
				assert.False(t, plantree.IsTemporary(k.ID))
			}
		}
	}

	plans, weeks, days, workouts := h.store.Counts()
	assert.Equal(t, []int{1, 2, 2, 4}, []int{plans, weeks, days, workouts})

	msg := h.lastMessage(t)
	assert.Equal(t, notify.LevelSuccess, msg.Level)
	assert.Equal(t, "Plan saved successfully!", msg.Message)
}

func TestSaveWithoutChangesWritesNothing(t *testing.T) {
	h := newHarness(t)
	tree := buildPlan(t, 2)
	snapshot := h.savePlan(t, tree)

	result, err := h.plans.Save(context.Background(), tree, snapshot)
	require.NoError(t, err)
	assert.Zero(t, result.Writes())
	assert.Zero(t, h.counter.snapshot().total())
}

func TestSaveIgnoresDisplayOnlyChanges(t *testing.T) {
	h := newHarness(t)
	tree := buildPlan(t, 1)
	snapshot := h.savePlan(t, tree)

	day := tree.Days(tree.WeekIDs[0])[0]
	k := tree.Workouts(day.ID)[0]
	require.NoError(t, tree.SetWorkoutDisplay(k.ID, domain.WorkoutDisplay{
		Name: "Barbell Bench Press",
		Type: domain.WorkoutTypeWeight,
	}))

	_, err := h.plans.Save(context.Background(), tree, snapshot)
	require.NoError(t, err)
	assert.Zero(t, h.counter.snapshot().total())
}

func TestSaveWritesOnlyChangedNodes(t *testing.T) {
	h := newHarness(t)
	tree := buildPlan(t, 2)
	snapshot := h.savePlan(t, tree)
	ctx := context.Background()

	day := tree.Days(tree.WeekIDs[1])[0]
	k := tree.Workouts(day.ID)[0]
	cfg := k.Config
	cfg.TargetReps = "8-10"
	require.NoError(t, tree.EditWorkout(k.ID, cfg))
	require.NoError(t, tree.RenameDay(day.ID, "Heavy Push"))

	result, err := h.plans.Save(ctx, tree, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, writeCounts{Updates: 2}, h.counter.snapshot())

	stored, err := h.repos.Workouts.ListByDay(ctx, day.ID)
	require.NoError(t, err)
	assert.Equal(t, "8-10", stored[0].Config.TargetReps)
}

func TestSaveWeekNumberChange(t *testing.T) {
	h := newHarness(t)
	tree := buildPlan(t, 2)
	snapshot := h.savePlan(t, tree)

	require.NoError(t, tree.SetWeekNumber(tree.WeekIDs[0], 7))
	_, err := h.plans.Save(context.Background(), tree, snapshot)
	require.NoError(t, err)
	assert.Equal(t, writeCounts{Updates: 1}, h.counter.snapshot())

	week, err := h.repos.Weeks.GetByID(context.Background(), tree.WeekIDs[0])
	require.NoError(t, err)
	assert.Equal(t, 7, week.Number)
}

func TestSaveRemovedWeekLeavesItsDescendants(t *testing.T) {
	h := newHarness(t)
	tree := buildPlan(t, 2)
	snapshot := h.savePlan(t, tree)

	removed := tree.WeekIDs[1]
	require.NoError(t, tree.DeleteWeek(removed))

	result, err := h.plans.Save(context.Background(), tree, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	// The plan's week count changed.
	assert.Equal(t, 1, result.Updated)

	_, weeks, days, workouts := h.store.Counts()
	assert.Equal(t, 1, weeks)
	assert.Equal(t, 2, days)
	assert.Equal(t, 4, workouts)
}

func TestSaveRemovedWorkoutAndReorder(t *testing.T) {
	h := newHarness(t)
	tree := buildPlan(t, 1)
	day := tree.Days(tree.WeekIDs[0])[0]
	_, err := tree.AddWorkout(day.ID, "squat",
		domain.WorkoutDisplay{Name: "Squat", Type: domain.WorkoutTypeWeight},
		domain.DefaultConfig(domain.WorkoutTypeWeight))
	require.NoError(t, err)
	snapshot := h.savePlan(t, tree)
	ctx := context.Background()

	first := tree.Workouts(day.ID)[0].ID
	require.NoError(t, tree.DeleteWorkout(first))
	require.NoError(t, tree.RestampOrder(day.ID))

	result, err := h.plans.Save(ctx, tree, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 2, result.Updated)

	stored, err := h.repos.Workouts.ListByDay(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, []string{"plank", "squat"}, []string{stored[0].GlobalWorkoutID, stored[1].GlobalWorkoutID})
	assert.Equal(t, []int{1, 2}, []int{stored[0].Order, stored[1].Order})
}

func TestSaveRetryAfterPartialFailure(t *testing.T) {
	h := newHarness(t)
	tree := buildPlan(t, 1)
	ctx := context.Background()

	creates := 0
	h.counter.failOn(func(op string) error {
		if op == "workouts.create" {
			creates++
			if creates == 2 {
				return errors.New("connection reset")
			}
		}
		return nil
	})
	result, err := h.plans.Save(ctx, tree, nil)
	require.Error(t, err)
	assert.Equal(t, 4, result.Created)
	msg := h.lastMessage(t)
	assert.Equal(t, notify.LevelError, msg.Level)

	// The store ids assigned so far are already on the tree.
	assert.False(t, tree.IsNew())
	assert.False(t, plantree.IsTemporary(tree.WeekIDs[0]))

	h.counter.reset()
	result, err = h.plans.Save(ctx, tree, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated) // plan header, nothing to compare against
	assert.Zero(t, result.Deleted)

	plans, weeks, days, workouts := h.store.Counts()
	assert.Equal(t, []int{1, 1, 1, 2}, []int{plans, weeks, days, workouts})
}

func TestSaveRequiresName(t *testing.T) {
	h := newHarness(t)
	tree := buildPlan(t, 1)
	tree.SetPlanFields("  ", "")

	_, err := h.plans.Save(context.Background(), tree, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, h.counter.snapshot().total())
}

func TestLoadRoundTrip(t *testing.T) {
	h := newHarness(t)
	tree := buildPlan(t, 2)
	h.savePlan(t, tree)

	loaded, err := h.plans.Load(context.Background(), tree.PlanID)
	require.NoError(t, err)

	type node struct {
		ID, Parent, Ref string
		Order           int
		Name            string
	}
	flatten := func(tr *plantree.Tree) []node {
		var out []node
		for _, w := range tr.Weeks() {
			out = append(out, node{ID: w.ID, Order: w.Number})
			for _, d := range tr.Days(w.ID) {
				out = append(out, node{ID: d.ID, Parent: w.ID, Name: d.Name})
				for _, k := range tr.Workouts(d.ID) {
					out = append(out, node{ID: k.ID, Parent: d.ID, Ref: k.GlobalWorkoutID, Order: k.Order, Name: k.Display.Name})
				}
			}
		}
		return out
	}
	if diff := cmp.Diff(flatten(tree), flatten(loaded)); diff != "" {
		t.Errorf("loaded tree mismatch (-saved +loaded):\n%s", diff)
	}
	assert.True(t, plantree.Diff(loaded, tree).Empty())
}

func TestLoadMissingPlan(t *testing.T) {
	h := newHarness(t)
	_, err := h.plans.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestListSummaries(t *testing.T) {
	h := newHarness(t)
	h.savePlan(t, buildPlan(t, 3))

	plans, err := h.plans.List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Strength Block", plans[0].Name)
	assert.Equal(t, 3, plans[0].TotalWeeks)
}

func TestDeletePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		h := newHarness(t)
		tree := buildPlan(t, 1)
		h.savePlan(t, tree)
		_, err := h.plans.Delete(ctx, tree.PlanID, true, confirm.Static(false))
		assert.ErrorIs(t, err, ErrCancelled)
		plans, _, _, _ := h.store.Counts()
		assert.Equal(t, 1, plans)
	})

	t.Run("plan only", func(t *testing.T) {
		h := newHarness(t)
		tree := buildPlan(t, 2)
		h.savePlan(t, tree)
		_, err := h.plans.Delete(ctx, tree.PlanID, false, confirm.Static(true))
		require.NoError(t, err)
		plans, weeks, days, workouts := h.store.Counts()
		assert.Equal(t, []int{0, 2, 2, 4}, []int{plans, weeks, days, workouts})
	})

	t.Run("cascade", func(t *testing.T) {
		h := newHarness(t)
		tree := buildPlan(t, 2)
		h.savePlan(t, tree)
		result, err := h.plans.Delete(ctx, tree.PlanID, true, confirm.Static(true))
		require.NoError(t, err)
		assert.Equal(t, &DeleteResult{PlanID: tree.PlanID, Weeks: 2, Days: 2, Workouts: 4}, result)
		plans, weeks, days, workouts := h.store.Counts()
		assert.Equal(t, []int{0, 0, 0, 0}, []int{plans, weeks, days, workouts})
	})
}
