package plantree

import (
	"fmt"
	"sort"
	"strings"

	"alcyxob/fitness-admin/internal/domain"
)

// SetPlanFields updates the plan's own fields.
func (t *Tree) SetPlanFields(name, description string) {
	t.Name = name
	t.Description = description
}

// ActiveIndex returns the index of the week currently being edited.
func (t *Tree) ActiveIndex() int {
	return t.active
}

// ActiveWeek returns the week currently being edited, or nil for a plan with
// no weeks.
func (t *Tree) ActiveWeek() *WeekNode {
	if len(t.WeekIDs) == 0 {
		return nil
	}
	if t.active >= len(t.WeekIDs) {
		t.active = len(t.WeekIDs) - 1
	}
	return t.weeks[t.WeekIDs[t.active]]
}

func (t *Tree) SelectWeek(index int) error {
	if index < 0 || index >= len(t.WeekIDs) {
		return ErrIndexOutOfRange
	}
	t.active = index
	return nil
}

// AddWeek appends an empty week numbered after the current count and makes it
// the active week.
func (t *Tree) AddWeek() *WeekNode {
	w, _ := t.AttachWeek(NewID(), len(t.WeekIDs)+1)
	t.active = len(t.WeekIDs) - 1
	return w
}

// CopyWeek appends a duplicate of the active week with fresh identities.
// Day names are kept as they are. The active week does not change.
func (t *Tree) CopyWeek() (*WeekNode, error) {
	src := t.ActiveWeek()
	if src == nil {
		return nil, ErrNoActiveWeek
	}
	dst, _ := t.AttachWeek(NewID(), len(t.WeekIDs)+1)
	for _, dayID := range src.DayIDs {
		if _, err := t.copyDayInto(t.days[dayID], dst.ID); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// DeleteWeek removes a week with its days and workouts. The last remaining
// week cannot be deleted.
func (t *Tree) DeleteWeek(weekID string) error {
	w, ok := t.weeks[weekID]
	if !ok {
		return ErrWeekNotFound
	}
	if len(t.WeekIDs) <= 1 {
		return ErrLastWeek
	}
	idx := indexOf(t.WeekIDs, weekID)
	for _, dayID := range w.DayIDs {
		t.dropDay(dayID)
	}
	delete(t.weeks, weekID)
	t.WeekIDs = removeID(t.WeekIDs, weekID)

	switch {
	case t.active == idx:
		t.active = max(0, idx-1)
	case t.active > idx:
		t.active--
	}
	return nil
}

func (t *Tree) SetWeekNumber(weekID string, number int) error {
	w, ok := t.weeks[weekID]
	if !ok {
		return ErrWeekNotFound
	}
	w.Number = number
	return nil
}

// AddDay appends a day to a week. An empty name becomes "Day N".
func (t *Tree) AddDay(weekID, name string) (*DayNode, error) {
	w, ok := t.weeks[weekID]
	if !ok {
		return nil, ErrWeekNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Day %d", len(w.DayIDs)+1)
	}
	return t.AttachDay(weekID, NewID(), name)
}

// CopyDay appends a duplicate of a day, with its workouts, to the same week.
func (t *Tree) CopyDay(dayID string) (*DayNode, error) {
	d, ok := t.days[dayID]
	if !ok {
		return nil, ErrDayNotFound
	}
	return t.copyDayInto(d, d.WeekID)
}

func (t *Tree) copyDayInto(src *DayNode, weekID string) (*DayNode, error) {
	dst, err := t.AttachDay(weekID, NewID(), src.Name)
	if err != nil {
		return nil, err
	}
	for _, workoutID := range src.WorkoutIDs {
		n := *t.workouts[workoutID]
		n.ID = NewID()
		n.DayID = dst.ID
		if _, err := t.AttachWorkout(n); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func (t *Tree) RenameDay(dayID, name string) error {
	d, ok := t.days[dayID]
	if !ok {
		return ErrDayNotFound
	}
	d.Name = name
	return nil
}

// DeleteDay removes a day and its workouts.
func (t *Tree) DeleteDay(dayID string) error {
	d, ok := t.days[dayID]
	if !ok {
		return ErrDayNotFound
	}
	w := t.weeks[d.WeekID]
	w.DayIDs = removeID(w.DayIDs, dayID)
	t.dropDay(dayID)
	return nil
}

func (t *Tree) dropDay(dayID string) {
	for _, workoutID := range t.days[dayID].WorkoutIDs {
		delete(t.workouts, workoutID)
	}
	delete(t.days, dayID)
}

// AddWorkout appends a workout referencing a library entry. The order field
// is set to the new position.
func (t *Tree) AddWorkout(dayID, globalWorkoutID string, display domain.WorkoutDisplay, cfg domain.WorkoutConfig) (*WorkoutNode, error) {
	d, ok := t.days[dayID]
	if !ok {
		return nil, ErrDayNotFound
	}
	return t.AttachWorkout(WorkoutNode{
		ID:              NewID(),
		DayID:           dayID,
		GlobalWorkoutID: globalWorkoutID,
		Order:           len(d.WorkoutIDs) + 1,
		Config:          cfg,
		Display:         display,
	})
}

func (t *Tree) EditWorkout(workoutID string, cfg domain.WorkoutConfig) error {
	k, ok := t.workouts[workoutID]
	if !ok {
		return ErrWorkoutNotFound
	}
	k.Config = cfg
	return nil
}

// SetWorkoutReference points a workout at a different library entry. When
// the entry is of another type the config is reset to that type's defaults.
func (t *Tree) SetWorkoutReference(workoutID, globalWorkoutID string, display domain.WorkoutDisplay) error {
	k, ok := t.workouts[workoutID]
	if !ok {
		return ErrWorkoutNotFound
	}
	if display.Type != "" && display.Type != k.Kind() {
		k.Config = domain.DefaultConfig(display.Type)
	}
	k.GlobalWorkoutID = globalWorkoutID
	k.Display = cloneDisplay(display)
	return nil
}

// SetWorkoutDisplay replaces the resolved display values only.
func (t *Tree) SetWorkoutDisplay(workoutID string, display domain.WorkoutDisplay) error {
	k, ok := t.workouts[workoutID]
	if !ok {
		return ErrWorkoutNotFound
	}
	k.Display = cloneDisplay(display)
	return nil
}

// DeleteWorkout removes a workout. Order fields of the remaining workouts are
// left as they are.
func (t *Tree) DeleteWorkout(workoutID string) error {
	k, ok := t.workouts[workoutID]
	if !ok {
		return ErrWorkoutNotFound
	}
	d := t.days[k.DayID]
	d.WorkoutIDs = removeID(d.WorkoutIDs, workoutID)
	delete(t.workouts, workoutID)
	return nil
}

// MoveWorkout moves the workout at index from to index to within a day and
// re-stamps every order field with its 1-based position.
func (t *Tree) MoveWorkout(dayID string, from, to int) error {
	d, ok := t.days[dayID]
	if !ok {
		return ErrDayNotFound
	}
	n := len(d.WorkoutIDs)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	id := d.WorkoutIDs[from]
	ids := append(d.WorkoutIDs[:from:from], d.WorkoutIDs[from+1:]...)
	ids = append(ids[:to], append([]string{id}, ids[to:]...)...)
	d.WorkoutIDs = ids
	return t.RestampOrder(dayID)
}

// RestampOrder sets each workout's order to its 1-based position in the day.
func (t *Tree) RestampOrder(dayID string) error {
	d, ok := t.days[dayID]
	if !ok {
		return ErrDayNotFound
	}
	for i, id := range d.WorkoutIDs {
		t.workouts[id].Order = i + 1
	}
	return nil
}

// TargetRepsValues returns the distinct target reps of the Weight workouts in
// a week, sorted.
func (t *Tree) TargetRepsValues(weekID string) ([]string, error) {
	if _, ok := t.weeks[weekID]; !ok {
		return nil, ErrWeekNotFound
	}
	seen := make(map[string]struct{})
	t.eachWeightWorkout(weekID, func(k *WorkoutNode) {
		if k.Config.TargetReps != "" {
			seen[k.Config.TargetReps] = struct{}{}
		}
	})
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// BulkEditTargetReps rewrites the target reps of every Weight workout in a
// week whose current value is a key of replacements. Blank replacement
// values leave that key alone. It returns the number of workouts changed.
func (t *Tree) BulkEditTargetReps(weekID string, replacements map[string]string) (int, error) {
	if _, ok := t.weeks[weekID]; !ok {
		return 0, ErrWeekNotFound
	}
	changed := 0
	t.eachWeightWorkout(weekID, func(k *WorkoutNode) {
		next, ok := replacements[k.Config.TargetReps]
		if !ok {
			return
		}
		next = strings.TrimSpace(next)
		if next == "" || next == k.Config.TargetReps {
			return
		}
		k.Config.TargetReps = next
		changed++
	})
	return changed, nil
}

func (t *Tree) eachWeightWorkout(weekID string, fn func(*WorkoutNode)) {
	for _, dayID := range t.weeks[weekID].DayIDs {
		for _, id := range t.days[dayID].WorkoutIDs {
			if k := t.workouts[id]; k.Kind() == domain.WorkoutTypeWeight {
				fn(k)
			}
		}
	}
}
