// Package plantree holds the in-memory copy of a workout plan while it is
// being edited.
//
// Nodes live in flat maps keyed by identity; parents keep the ordered list of
// their children's identities and children keep their parent's identity. The
// change detector relies on this to match nodes by identity with a map lookup.
package plantree

import (
	"errors"
	"strings"

	"alcyxob/fitness-admin/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrLastWeek        = errors.New("cannot delete the last week")
	ErrWeekNotFound    = errors.New("week not found in plan")
	ErrDayNotFound     = errors.New("day not found in plan")
	ErrWorkoutNotFound = errors.New("workout not found in plan")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDuplicateID     = errors.New("identity already used in plan")
	ErrNoActiveWeek    = errors.New("plan has no weeks")
)

const tempPrefix = "tmp_"

// NewID returns a fresh client-side identity. It stays in use until the store
// assigns a permanent one on first save.
func NewID() string {
	return tempPrefix + uuid.NewString()
}

// IsTemporary reports whether id was generated client-side and has not been
// persisted yet.
func IsTemporary(id string) bool {
	return id == "" || strings.HasPrefix(id, tempPrefix)
}

type WeekNode struct {
	ID     string
	Number int
	DayIDs []string
}

type DayNode struct {
	ID         string
	WeekID     string
	Name       string
	WorkoutIDs []string
}

// WorkoutNode is a plan-local workout. Display is filled from the library at
// read time and is not part of what gets saved.
type WorkoutNode struct {
	ID              string
	DayID           string
	GlobalWorkoutID string
	Order           int
	Config          domain.WorkoutConfig
	Display         domain.WorkoutDisplay
}

// Kind returns the workout type, falling back to the shape of the config when
// the reference has not been resolved. Only Weight workouts carry target
// reps, a base weight or a rest timer.
func (w *WorkoutNode) Kind() domain.WorkoutType {
	if w.Display.Type != "" {
		return w.Display.Type
	}
	c := w.Config
	if c.TargetReps == "" && c.BaseWeight == 0 && c.RestTimerSeconds == 0 {
		return domain.WorkoutTypeTimer
	}
	return domain.WorkoutTypeWeight
}

// Tree is one plan with its weeks, days and workouts.
type Tree struct {
	PlanID      string
	Name        string
	Description string
	WeekIDs     []string

	weeks    map[string]*WeekNode
	days     map[string]*DayNode
	workouts map[string]*WorkoutNode

	active int
}

// New returns an empty, unsaved plan.
func New(name, description string) *Tree {
	t := newTree()
	t.PlanID = NewID()
	t.Name = name
	t.Description = description
	return t
}

// FromPlan starts a tree for a plan read from the store; weeks, days and
// workouts are attached afterwards in display order.
func FromPlan(p domain.Plan) *Tree {
	t := newTree()
	t.PlanID = p.ID
	t.Name = p.Name
	t.Description = p.Description
	return t
}

func newTree() *Tree {
	return &Tree{
		weeks:    make(map[string]*WeekNode),
		days:     make(map[string]*DayNode),
		workouts: make(map[string]*WorkoutNode),
	}
}

// IsNew reports whether the plan itself has never been saved.
func (t *Tree) IsNew() bool {
	return IsTemporary(t.PlanID)
}

func (t *Tree) Week(id string) (*WeekNode, bool) {
	w, ok := t.weeks[id]
	return w, ok
}

func (t *Tree) Day(id string) (*DayNode, bool) {
	d, ok := t.days[id]
	return d, ok
}

func (t *Tree) Workout(id string) (*WorkoutNode, bool) {
	w, ok := t.workouts[id]
	return w, ok
}

// Weeks returns the weeks in display order.
func (t *Tree) Weeks() []*WeekNode {
	out := make([]*WeekNode, 0, len(t.WeekIDs))
	for _, id := range t.WeekIDs {
		out = append(out, t.weeks[id])
	}
	return out
}

// Days returns the days of a week in display order.
func (t *Tree) Days(weekID string) []*DayNode {
	w, ok := t.weeks[weekID]
	if !ok {
		return nil
	}
	out := make([]*DayNode, 0, len(w.DayIDs))
	for _, id := range w.DayIDs {
		out = append(out, t.days[id])
	}
	return out
}

// Workouts returns the workouts of a day in display order.
func (t *Tree) Workouts(dayID string) []*WorkoutNode {
	d, ok := t.days[dayID]
	if !ok {
		return nil
	}
	out := make([]*WorkoutNode, 0, len(d.WorkoutIDs))
	for _, id := range d.WorkoutIDs {
		out = append(out, t.workouts[id])
	}
	return out
}

// Counts returns the number of weeks, days and workouts in the tree.
func (t *Tree) Counts() (weeks, days, workouts int) {
	return len(t.weeks), len(t.days), len(t.workouts)
}

// WeekOf returns the week a day belongs to.
func (t *Tree) WeekOf(dayID string) (*WeekNode, bool) {
	d, ok := t.days[dayID]
	if !ok {
		return nil, false
	}
	return t.Week(d.WeekID)
}

// AttachWeek appends a week with the given identity.
func (t *Tree) AttachWeek(id string, number int) (*WeekNode, error) {
	if t.used(id) {
		return nil, ErrDuplicateID
	}
	w := &WeekNode{ID: id, Number: number}
	t.weeks[id] = w
	t.WeekIDs = append(t.WeekIDs, id)
	return w, nil
}

// AttachDay appends a day with the given identity to a week.
func (t *Tree) AttachDay(weekID, id, name string) (*DayNode, error) {
	w, ok := t.weeks[weekID]
	if !ok {
		return nil, ErrWeekNotFound
	}
	if t.used(id) {
		return nil, ErrDuplicateID
	}
	d := &DayNode{ID: id, WeekID: weekID, Name: name}
	t.days[id] = d
	w.DayIDs = append(w.DayIDs, id)
	return d, nil
}

// AttachWorkout appends a copy of n to the day named by n.DayID.
func (t *Tree) AttachWorkout(n WorkoutNode) (*WorkoutNode, error) {
	d, ok := t.days[n.DayID]
	if !ok {
		return nil, ErrDayNotFound
	}
	if t.used(n.ID) {
		return nil, ErrDuplicateID
	}
	w := n
	w.Display = cloneDisplay(n.Display)
	t.workouts[w.ID] = &w
	d.WorkoutIDs = append(d.WorkoutIDs, w.ID)
	return &w, nil
}

func (t *Tree) used(id string) bool {
	if id == "" {
		return true
	}
	_, w := t.weeks[id]
	_, d := t.days[id]
	_, k := t.workouts[id]
	return w || d || k
}

// Clone returns a deep copy; edits to either tree never show in the other.
func (t *Tree) Clone() *Tree {
	c := newTree()
	c.PlanID = t.PlanID
	c.Name = t.Name
	c.Description = t.Description
	c.WeekIDs = append([]string(nil), t.WeekIDs...)
	c.active = t.active
	for id, w := range t.weeks {
		cw := *w
		cw.DayIDs = append([]string(nil), w.DayIDs...)
		c.weeks[id] = &cw
	}
	for id, d := range t.days {
		cd := *d
		cd.WorkoutIDs = append([]string(nil), d.WorkoutIDs...)
		c.days[id] = &cd
	}
	for id, k := range t.workouts {
		ck := *k
		ck.Display = cloneDisplay(k.Display)
		c.workouts[id] = &ck
	}
	return c
}

func cloneDisplay(d domain.WorkoutDisplay) domain.WorkoutDisplay {
	d.MuscleGroups = append([]string(nil), d.MuscleGroups...)
	d.Equipment = append([]string(nil), d.Equipment...)
	return d
}

// RekeyPlan replaces the plan identity, typically after the store created it.
func (t *Tree) RekeyPlan(id string) {
	t.PlanID = id
}

// RekeyWeek swaps a week's identity and fixes every reference to it.
func (t *Tree) RekeyWeek(oldID, newID string) error {
	w, ok := t.weeks[oldID]
	if !ok {
		return ErrWeekNotFound
	}
	if oldID == newID {
		return nil
	}
	if t.used(newID) {
		return ErrDuplicateID
	}
	delete(t.weeks, oldID)
	w.ID = newID
	t.weeks[newID] = w
	replaceID(t.WeekIDs, oldID, newID)
	for _, dayID := range w.DayIDs {
		t.days[dayID].WeekID = newID
	}
	return nil
}

// RekeyDay swaps a day's identity and fixes every reference to it.
func (t *Tree) RekeyDay(oldID, newID string) error {
	d, ok := t.days[oldID]
	if !ok {
		return ErrDayNotFound
	}
	if oldID == newID {
		return nil
	}
	if t.used(newID) {
		return ErrDuplicateID
	}
	delete(t.days, oldID)
	d.ID = newID
	t.days[newID] = d
	replaceID(t.weeks[d.WeekID].DayIDs, oldID, newID)
	for _, workoutID := range d.WorkoutIDs {
		t.workouts[workoutID].DayID = newID
	}
	return nil
}

// RekeyWorkout swaps a workout's identity.
func (t *Tree) RekeyWorkout(oldID, newID string) error {
	k, ok := t.workouts[oldID]
	if !ok {
		return ErrWorkoutNotFound
	}
	if oldID == newID {
		return nil
	}
	if t.used(newID) {
		return ErrDuplicateID
	}
	delete(t.workouts, oldID)
	k.ID = newID
	t.workouts[newID] = k
	replaceID(t.days[k.DayID].WorkoutIDs, oldID, newID)
	return nil
}

func replaceID(ids []string, oldID, newID string) {
	for i, id := range ids {
		if id == oldID {
			ids[i] = newID
			return
		}
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
