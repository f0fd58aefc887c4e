package plantree

import (
	"testing"

	"alcyxob/fitness-admin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightCfg(reps string) domain.WorkoutConfig {
	cfg := domain.DefaultConfig(domain.WorkoutTypeWeight)
	cfg.TargetReps = reps
	return cfg
}

func weightDisplay(name string) domain.WorkoutDisplay {
	return domain.WorkoutDisplay{Name: name, Type: domain.WorkoutTypeWeight}
}

// sampleTree builds one week with a single day holding n weight workouts.
func sampleTree(t *testing.T, n int) (*Tree, *DayNode) {
	t.Helper()
	tree := New("Strength", "base block")
	w := tree.AddWeek()
	d, err := tree.AddDay(w.ID, "Push")
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, err := tree.AddWorkout(d.ID, "gw-"+string(rune('a'+i)), weightDisplay("W"+string(rune('A'+i))), weightCfg("10"))
		require.NoError(t, err)
	}
	return tree, d
}

func TestAddWeek(t *testing.T) {
	tree := New("p", "")
	w1 := tree.AddWeek()
	w2 := tree.AddWeek()

	assert.Equal(t, 1, w1.Number)
	assert.Equal(t, 2, w2.Number)
	assert.Equal(t, w2, tree.ActiveWeek())
	assert.True(t, IsTemporary(w1.ID))
}

func TestCopyWeek(t *testing.T) {
	tree, day := sampleTree(t, 2)
	src := tree.ActiveWeek()

	cp, err := tree.CopyWeek()
	require.NoError(t, err)

	assert.Equal(t, 2, cp.Number)
	assert.Equal(t, src, tree.ActiveWeek(), "copy keeps the active week")
	require.Len(t, cp.DayIDs, 1)

	copied, ok := tree.Day(cp.DayIDs[0])
	require.True(t, ok)
	assert.Equal(t, "Push", copied.Name, "day names are not suffixed")
	assert.NotEqual(t, day.ID, copied.ID)

	orig := tree.Workouts(day.ID)
	dup := tree.Workouts(copied.ID)
	require.Len(t, dup, len(orig))
	for i := range orig {
		assert.NotEqual(t, orig[i].ID, dup[i].ID)
		assert.Equal(t, orig[i].GlobalWorkoutID, dup[i].GlobalWorkoutID)
		assert.Equal(t, orig[i].Config, dup[i].Config)
		assert.Equal(t, copied.ID, dup[i].DayID)
	}

	t.Run("no weeks", func(t *testing.T) {
		_, err := New("empty", "").CopyWeek()
		assert.ErrorIs(t, err, ErrNoActiveWeek)
	})
}

func TestDeleteWeek(t *testing.T) {
	t.Run("last week is refused", func(t *testing.T) {
		tree, _ := sampleTree(t, 1)
		err := tree.DeleteWeek(tree.WeekIDs[0])
		assert.ErrorIs(t, err, ErrLastWeek)
		weeks, days, workouts := tree.Counts()
		assert.Equal(t, []int{1, 1, 1}, []int{weeks, days, workouts})
	})

	t.Run("removes descendants and selects previous week", func(t *testing.T) {
		tree, _ := sampleTree(t, 2)
		_, err := tree.CopyWeek()
		require.NoError(t, err)
		tree.AddWeek()
		require.NoError(t, tree.SelectWeek(1))

		doomed := tree.WeekIDs[1]
		require.NoError(t, tree.DeleteWeek(doomed))

		_, ok := tree.Week(doomed)
		assert.False(t, ok)
		assert.Equal(t, 0, tree.ActiveIndex())
		weeks, days, workouts := tree.Counts()
		assert.Equal(t, []int{2, 1, 2}, []int{weeks, days, workouts})
	})

	t.Run("first week selects index zero", func(t *testing.T) {
		tree, _ := sampleTree(t, 1)
		tree.AddWeek()
		require.NoError(t, tree.SelectWeek(0))
		require.NoError(t, tree.DeleteWeek(tree.WeekIDs[0]))
		assert.Equal(t, 0, tree.ActiveIndex())
		assert.Len(t, tree.WeekIDs, 1)
	})

	t.Run("deleting before the active week keeps it selected", func(t *testing.T) {
		tree, _ := sampleTree(t, 1)
		last := tree.AddWeek()
		require.NoError(t, tree.DeleteWeek(tree.WeekIDs[0]))
		assert.Equal(t, last, tree.ActiveWeek())
	})
}

func TestAddDayDefaultName(t *testing.T) {
	tree := New("p", "")
	w := tree.AddWeek()
	d1, err := tree.AddDay(w.ID, "")
	require.NoError(t, err)
	d2, err := tree.AddDay(w.ID, "  ")
	require.NoError(t, err)
	assert.Equal(t, "Day 1", d1.Name)
	assert.Equal(t, "Day 2", d2.Name)

	_, err = tree.AddDay("nope", "x")
	assert.ErrorIs(t, err, ErrWeekNotFound)
}

func TestCopyAndDeleteDay(t *testing.T) {
	tree, day := sampleTree(t, 3)
	cp, err := tree.CopyDay(day.ID)
	require.NoError(t, err)
	assert.Equal(t, day.Name, cp.Name)
	assert.Equal(t, []string{day.ID, cp.ID}, tree.ActiveWeek().DayIDs)

	require.NoError(t, tree.DeleteDay(day.ID))
	_, days, workouts := tree.Counts()
	assert.Equal(t, 1, days)
	assert.Equal(t, 3, workouts)
}

func TestMoveWorkoutRestampsOrder(t *testing.T) {
	tree, day := sampleTree(t, 4)
	before := append([]string(nil), day.WorkoutIDs...)

	require.NoError(t, tree.MoveWorkout(day.ID, 2, 0))

	assert.Equal(t, []string{before[2], before[0], before[1], before[3]}, day.WorkoutIDs)
	for i, k := range tree.Workouts(day.ID) {
		assert.Equal(t, i+1, k.Order)
	}

	t.Run("out of range", func(t *testing.T) {
		assert.ErrorIs(t, tree.MoveWorkout(day.ID, 0, 4), ErrIndexOutOfRange)
		assert.ErrorIs(t, tree.MoveWorkout(day.ID, -1, 0), ErrIndexOutOfRange)
	})

	t.Run("move down", func(t *testing.T) {
		ids := append([]string(nil), day.WorkoutIDs...)
		require.NoError(t, tree.MoveWorkout(day.ID, 0, 3))
		assert.Equal(t, []string{ids[1], ids[2], ids[3], ids[0]}, day.WorkoutIDs)
	})
}

func TestDeleteWorkoutLeavesOrderStale(t *testing.T) {
	tree, day := sampleTree(t, 3)
	require.NoError(t, tree.DeleteWorkout(day.WorkoutIDs[0]))

	var orders []int
	for _, k := range tree.Workouts(day.ID) {
		orders = append(orders, k.Order)
	}
	assert.Equal(t, []int{2, 3}, orders)

	require.NoError(t, tree.RestampOrder(day.ID))
	orders = orders[:0]
	for _, k := range tree.Workouts(day.ID) {
		orders = append(orders, k.Order)
	}
	assert.Equal(t, []int{1, 2}, orders)
}

func TestBulkEditTargetReps(t *testing.T) {
	tree := New("p", "")
	w := tree.AddWeek()
	d, _ := tree.AddDay(w.ID, "A")
	a, _ := tree.AddWorkout(d.ID, "bench", weightDisplay("Bench"), weightCfg("10"))
	b, _ := tree.AddWorkout(d.ID, "squat", weightDisplay("Squat"), weightCfg("8-10"))
	c, _ := tree.AddWorkout(d.ID, "row", weightDisplay("Row"), weightCfg("12"))
	timer, _ := tree.AddWorkout(d.ID, "plank",
		domain.WorkoutDisplay{Name: "Plank", Type: domain.WorkoutTypeTimer},
		domain.WorkoutConfig{NumSets: 3, TargetReps: "10", WorkoutDurationSeconds: 60})

	values, err := tree.TargetRepsValues(w.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "12", "8-10"}, values)

	n, err := tree.BulkEditTargetReps(w.ID, map[string]string{
		"10":   "6-8",
		"8-10": "   ",
		"12":   "",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "6-8", a.Config.TargetReps)
	assert.Equal(t, "8-10", b.Config.TargetReps)
	assert.Equal(t, "12", c.Config.TargetReps)
	assert.Equal(t, "10", timer.Config.TargetReps, "timer workouts are not touched")
}

func TestKindFallsBackToConfig(t *testing.T) {
	k := &WorkoutNode{Config: domain.DefaultConfig(domain.WorkoutTypeTimer)}
	assert.Equal(t, domain.WorkoutTypeTimer, k.Kind())
	k.Config = domain.DefaultConfig(domain.WorkoutTypeWeight)
	assert.Equal(t, domain.WorkoutTypeWeight, k.Kind())

	k.Config = domain.WorkoutConfig{NumSets: 3}
	assert.Equal(t, domain.WorkoutTypeTimer, k.Kind(), "a timer without a duration is still a timer")
	k.Config = domain.WorkoutConfig{NumSets: 3, BaseWeight: 20}
	assert.Equal(t, domain.WorkoutTypeWeight, k.Kind())
}

func TestSetWorkoutReference(t *testing.T) {
	tree, day := sampleTree(t, 2)
	first, second := day.WorkoutIDs[0], day.WorkoutIDs[1]

	require.NoError(t, tree.SetWorkoutReference(first, "gw-z", weightDisplay("Row")))
	k, _ := tree.Workout(first)
	assert.Equal(t, "gw-z", k.GlobalWorkoutID)
	assert.Equal(t, weightCfg("10"), k.Config, "same type keeps the config")

	timer := domain.WorkoutDisplay{Name: "Plank", Type: domain.WorkoutTypeTimer}
	require.NoError(t, tree.SetWorkoutReference(second, "plank", timer))
	k, _ = tree.Workout(second)
	assert.Equal(t, domain.WorkoutTypeTimer, k.Kind())
	assert.Equal(t, domain.DefaultConfig(domain.WorkoutTypeTimer), k.Config)

	assert.ErrorIs(t, tree.SetWorkoutReference("nope", "plank", timer), ErrWorkoutNotFound)
}
