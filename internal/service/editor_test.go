package service

import (
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/planio"
	"alcyxob/fitness-admin/internal/plantree"
	"alcyxob/fitness-admin/internal/storage"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const admin = "coach@example.com"

func newTestEditor(t *testing.T, h *harness, opts ...EditorOption) Editor {
	t.Helper()
	return NewEditor(h.plans, h.queue, zaptest.NewLogger(t), opts...)
}

func exportOf(s *Session) *planio.Document {
	var doc *planio.Document
	s.View(func(tree *plantree.Tree, _ *plantree.Changes) {
		doc = planio.Export(tree)
	})
	return doc
}

func TestEditorSaveAdvancesSnapshot(t *testing.T) {
	h := newHarness(t)
	e := newTestEditor(t, h)
	ctx := context.Background()

	s, err := e.OpenNew(admin, "Hypertrophy", "")
	require.NoError(t, err)
	require.NoError(t, e.Edit(s.ID, admin, func(tree *plantree.Tree) error {
		week := tree.AddWeek()
		_, err := tree.AddDay(week.ID, "")
		return err
	}))

	result, err := e.Save(ctx, s.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, result.PlanID, s.PlanID)

	s.View(func(_ *plantree.Tree, c *plantree.Changes) {
		assert.True(t, c.Empty())
	})

	h.counter.reset()
	result, err = e.Save(ctx, s.ID, admin)
	require.NoError(t, err)
	assert.Zero(t, result.Writes())
}

func TestEditorFailedSaveKeepsSnapshot(t *testing.T) {
	h := newHarness(t)
	e := newTestEditor(t, h)
	ctx := context.Background()

	tree := buildPlan(t, 1)
	h.savePlan(t, tree)
	s, err := e.Open(ctx, admin, tree.PlanID)
	require.NoError(t, err)

	require.NoError(t, e.Edit(s.ID, admin, func(tree *plantree.Tree) error {
		return tree.RenameDay(tree.Days(tree.WeekIDs[0])[0].ID, "Upper")
	}))
	h.counter.failOn(func(op string) error {
		if op == "days.update" {
			return assert.AnError
		}
		return nil
	})
	_, err = e.Save(ctx, s.ID, admin)
	require.ErrorIs(t, err, assert.AnError)
	s.View(func(_ *plantree.Tree, c *plantree.Changes) {
		assert.False(t, c.Empty())
	})

	h.counter.reset()
	result, err := e.Save(ctx, s.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
}

func TestEditorSessionsBelongToTheirOwner(t *testing.T) {
	h := newHarness(t)
	e := newTestEditor(t, h)

	s, err := e.OpenNew(admin, "Plan", "")
	require.NoError(t, err)

	_, err = e.Get(s.ID, "someone@example.com")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, e.Discard(s.ID, "someone@example.com"), ErrSessionNotFound)

	require.NoError(t, e.Discard(s.ID, admin))
	_, err = e.Get(s.ID, admin)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEditorSweepDropsIdleSessions(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	e := newTestEditor(t, h, WithSessionTTL(time.Hour), WithEditorClock(func() time.Time { return now }))

	idle, err := e.OpenNew(admin, "Idle", "")
	require.NoError(t, err)
	now = now.Add(45 * time.Minute)
	busy, err := e.OpenNew(admin, "Busy", "")
	require.NoError(t, err)

	assert.Equal(t, 1, e.Sweep(context.Background(), now.Add(30*time.Minute)))
	_, err = e.Get(idle.ID, admin)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = e.Get(busy.ID, admin)
	assert.NoError(t, err)
}

func TestEditorImportRejectionLeavesTreeUnchanged(t *testing.T) {
	h := newHarness(t)
	e := newTestEditor(t, h)
	ctx := context.Background()

	tree := buildPlan(t, 1)
	h.savePlan(t, tree)
	s, err := e.Open(ctx, admin, tree.PlanID)
	require.NoError(t, err)
	before := exportOf(s)

	bad := `{"name": "Imported", "weeks": [{"number": 1, "days": [{"name": "Day 1", "workouts": [
		{"name": "Plank", "type": "Timer", "muscleGroups": [], "equipment": [], "config": {"numSets": 3}}
	]}]}]}`
	err = e.Import(ctx, s.ID, admin, "plan.json", strings.NewReader(bad))
	var verr *planio.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Week 1, Day 1, Plank: Timer workouts require workoutDuration (number)", verr.Error())

	if diff := cmp.Diff(before, exportOf(s)); diff != "" {
		t.Errorf("tree changed after rejected import (-before +after):\n%s", diff)
	}
	msg := h.lastMessage(t)
	assert.Equal(t, notify.LevelError, msg.Level)
	assert.Contains(t, msg.Message, "Timer workouts require workoutDuration")

	err = e.Import(ctx, s.ID, admin, "plan.txt", strings.NewReader("{}"))
	assert.ErrorIs(t, err, planio.ErrNotJSON)
}

func TestEditorImportReplacesPlanOnSave(t *testing.T) {
	h := newHarness(t)
	e := newTestEditor(t, h)
	ctx := context.Background()

	tree := buildPlan(t, 2)
	h.savePlan(t, tree)
	s, err := e.Open(ctx, admin, tree.PlanID)
	require.NoError(t, err)

	file := `{"name": "Imported", "weeks": [{"number": 1, "days": [{"name": "Legs", "workouts": [
		{"name": "squat", "type": "Weight", "muscleGroups": [], "equipment": [], "config": {"numSets": 5, "targetReps": 5, "baseWeight": 60, "restTimer": 120}}
	]}]}]}`
	require.NoError(t, e.Import(ctx, s.ID, admin, "plan.json", strings.NewReader(file)))
	assert.Equal(t, tree.PlanID, s.PlanID)

	s.View(func(tr *plantree.Tree, c *plantree.Changes) {
		assert.Equal(t, "Imported", tr.Name)
		assert.Equal(t, plantree.Added, c.Plan)
		k := tr.Workouts(tr.Days(tr.WeekIDs[0])[0].ID)[0]
		assert.Equal(t, "squat", k.GlobalWorkoutID)
		assert.Equal(t, "5", k.Config.TargetReps)
	})

	h.counter.reset()
	result, err := e.Save(ctx, s.ID, admin)
	require.NoError(t, err)
	// plan update; both old weeks removed; one week, day and workout created
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, 3, result.Created)

	loaded, err := h.plans.Load(ctx, tree.PlanID)
	require.NoError(t, err)
	assert.Equal(t, "Imported", loaded.Name)
	assert.Len(t, loaded.WeekIDs, 1)
}

func TestEditorExport(t *testing.T) {
	h := newHarness(t)
	files := storage.NewMemoryStorage()
	e := newTestEditor(t, h, WithExportStorage(files, "exports/", time.Minute))
	ctx := context.Background()

	tree := buildPlan(t, 1)
	h.savePlan(t, tree)
	s, err := e.Open(ctx, admin, tree.PlanID)
	require.NoError(t, err)

	out, err := e.Export(ctx, s.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "Strength Block.json", out.FileName)
	assert.True(t, strings.HasPrefix(out.ObjectKey, "exports/"+tree.PlanID+"/"))
	assert.NotEmpty(t, out.DownloadURL)
	assert.Contains(t, string(out.Data), "\n  \"name\": \"Strength Block\"")

	doc, err := planio.Parse(out.Data)
	require.NoError(t, err)
	assert.Len(t, doc.Weeks, 1)
}

func TestEditorDeletesOldExports(t *testing.T) {
	h := newHarness(t)
	files := storage.NewMemoryStorage()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	e := newTestEditor(t, h,
		WithExportStorage(files, "exports/", 15*time.Minute),
		WithSessionTTL(time.Hour),
		WithEditorClock(func() time.Time { return now }))
	ctx := context.Background()

	s, err := e.OpenNew(admin, "Plan", "")
	require.NoError(t, err)
	first, err := e.Export(ctx, s.ID, admin)
	require.NoError(t, err)
	now = now.Add(time.Second)
	second, err := e.Export(ctx, s.ID, admin)
	require.NoError(t, err)
	require.NotEqual(t, first.ObjectKey, second.ObjectKey)

	e.Sweep(ctx, now.Add(time.Minute))
	_, ok := files.Object(first.ObjectKey)
	assert.True(t, ok, "a superseded link stays valid until it expires")

	e.Sweep(ctx, now.Add(15*time.Minute))
	_, ok = files.Object(first.ObjectKey)
	assert.False(t, ok)
	_, ok = files.Object(second.ObjectKey)
	assert.True(t, ok, "the latest export lives as long as its session")

	require.NoError(t, e.Discard(s.ID, admin))
	e.Sweep(ctx, now.Add(15*time.Minute))
	_, ok = files.Object(second.ObjectKey)
	assert.False(t, ok)
}
