package plantree

// Status is the outcome of comparing one node against the snapshot.
type Status int

const (
	Unchanged Status = iota
	Added
	Changed
)

func (s Status) String() string {
	switch s {
	case Added:
		return "new"
	case Changed:
		return "changed"
	default:
		return "unchanged"
	}
}

// Changes is the result of Diff. Every node of the local tree has an entry in
// the status map of its level; snapshot nodes missing locally are listed as
// removed.
type Changes struct {
	Plan     Status
	Weeks    map[string]Status
	Days     map[string]Status
	Workouts map[string]Status

	RemovedWeeks    []string
	RemovedDays     []string
	RemovedWorkouts []string
}

// Empty reports whether nothing differs from the snapshot.
func (c *Changes) Empty() bool {
	if c.Plan != Unchanged || len(c.RemovedWeeks)+len(c.RemovedDays)+len(c.RemovedWorkouts) > 0 {
		return false
	}
	for _, m := range []map[string]Status{c.Weeks, c.Days, c.Workouts} {
		for _, s := range m {
			if s != Unchanged {
				return false
			}
		}
	}
	return true
}

// Diff compares local against snapshot, matching nodes by identity. A nil
// snapshot marks every local node as new.
func Diff(local, snapshot *Tree) *Changes {
	c := &Changes{
		Weeks:    make(map[string]Status, len(local.weeks)),
		Days:     make(map[string]Status, len(local.days)),
		Workouts: make(map[string]Status, len(local.workouts)),
	}
	if snapshot == nil {
		c.Plan = Added
		for id := range local.weeks {
			c.Weeks[id] = Added
		}
		for id := range local.days {
			c.Days[id] = Added
		}
		for id := range local.workouts {
			c.Workouts[id] = Added
		}
		return c
	}

	switch {
	case local.IsNew() || local.PlanID != snapshot.PlanID:
		c.Plan = Added
	case !PlanFieldsEqual(local, snapshot):
		c.Plan = Changed
	}

	for id, w := range local.weeks {
		sw, ok := snapshot.weeks[id]
		switch {
		case !ok:
			c.Weeks[id] = Added
		case !WeekEqual(local, w, snapshot, sw):
			c.Weeks[id] = Changed
		default:
			c.Weeks[id] = Unchanged
		}
	}
	for id, d := range local.days {
		sd, ok := snapshot.days[id]
		switch {
		case !ok:
			c.Days[id] = Added
		case !DayEqual(local, d, snapshot, sd):
			c.Days[id] = Changed
		default:
			c.Days[id] = Unchanged
		}
	}
	for id, k := range local.workouts {
		sk, ok := snapshot.workouts[id]
		switch {
		case !ok:
			c.Workouts[id] = Added
		case !WorkoutEqual(k, sk):
			c.Workouts[id] = Changed
		default:
			c.Workouts[id] = Unchanged
		}
	}

	c.RemovedWeeks = missing(snapshot.WeekIDs, local.weeks)
	for _, sw := range snapshot.Weeks() {
		c.RemovedDays = append(c.RemovedDays, missing(sw.DayIDs, local.days)...)
		for _, dayID := range sw.DayIDs {
			c.RemovedWorkouts = append(c.RemovedWorkouts, missing(snapshot.days[dayID].WorkoutIDs, local.workouts)...)
		}
	}
	return c
}

func missing[T any](ids []string, present map[string]T) []string {
	var out []string
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// PlanFieldsEqual compares the plan's own fields: name, description and
// week count.
func PlanFieldsEqual(a, b *Tree) bool {
	return a.Name == b.Name &&
		a.Description == b.Description &&
		len(a.WeekIDs) == len(b.WeekIDs)
}

// WorkoutEqual compares the persisted fields of two workouts. Display values
// are derived from the library and never take part.
func WorkoutEqual(a, b *WorkoutNode) bool {
	return a.GlobalWorkoutID == b.GlobalWorkoutID &&
		a.Order == b.Order &&
		a.Config == b.Config
}

// DayEqual reports whether a local day matches its snapshot counterpart: same
// name, same number of workouts, and every local workout present in the
// snapshot day and equal to it.
func DayEqual(local *Tree, a *DayNode, snapshot *Tree, b *DayNode) bool {
	if a.Name != b.Name || len(a.WorkoutIDs) != len(b.WorkoutIDs) {
		return false
	}
	inSnapshot := make(map[string]struct{}, len(b.WorkoutIDs))
	for _, id := range b.WorkoutIDs {
		inSnapshot[id] = struct{}{}
	}
	for _, id := range a.WorkoutIDs {
		if _, ok := inSnapshot[id]; !ok {
			return false
		}
		if !WorkoutEqual(local.workouts[id], snapshot.workouts[id]) {
			return false
		}
	}
	return true
}

// WeekEqual applies the same matching rule one level up.
func WeekEqual(local *Tree, a *WeekNode, snapshot *Tree, b *WeekNode) bool {
	if a.Number != b.Number || len(a.DayIDs) != len(b.DayIDs) {
		return false
	}
	inSnapshot := make(map[string]struct{}, len(b.DayIDs))
	for _, id := range b.DayIDs {
		inSnapshot[id] = struct{}{}
	}
	for _, id := range a.DayIDs {
		if _, ok := inSnapshot[id]; !ok {
			return false
		}
		if !DayEqual(local, local.days[id], snapshot, snapshot.days[id]) {
			return false
		}
	}
	return true
}
