// internal/domain/global_workout.go
package domain

import (
	"regexp"
	"strings"
	"time"
)

// GlobalWorkout is an entry of the shared exercise library. Plan workouts
// reference it by ID.
type GlobalWorkout struct {
	ID             string      `bson:"_id,omitempty" json:"id"`
	Name           string      `bson:"name" json:"name"`
	Type           WorkoutType `bson:"type" json:"type"`
	MuscleGroups   []string    `bson:"muscleGroups" json:"muscleGroups"`
	Equipment      []string    `bson:"equipment" json:"equipment"`
	SearchKeywords []string    `bson:"searchKeywords,omitempty" json:"searchKeywords,omitempty"` // Lowercased extra terms for search
	IsActive       bool        `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// Display returns the read-time fields a plan workout borrows from the library.
func (g *GlobalWorkout) Display() WorkoutDisplay {
	return WorkoutDisplay{
		Name:         g.Name,
		Type:         g.Type,
		MuscleGroups: append([]string(nil), g.MuscleGroups...),
		Equipment:    append([]string(nil), g.Equipment...),
	}
}

// WorkoutDisplay is the resolved, never persisted, view of a referenced
// GlobalWorkout.
type WorkoutDisplay struct {
	Name         string      `json:"name"`
	Type         WorkoutType `json:"type"`
	MuscleGroups []string    `json:"muscleGroups"`
	Equipment    []string    `json:"equipment"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9-]`)

// Slug turns a workout name into the library ID format: "Pull Ups" -> "pull-ups".
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), "-")
	return slugStrip.ReplaceAllString(s, "")
}

// WorkoutIndex looks library entries up by ID or by case-insensitive name.
// When two entries share a name the later one wins.
type WorkoutIndex struct {
	byID   map[string]*GlobalWorkout
	byName map[string]*GlobalWorkout
}

func NewWorkoutIndex(workouts []GlobalWorkout) *WorkoutIndex {
	x := &WorkoutIndex{
		byID:   make(map[string]*GlobalWorkout, len(workouts)),
		byName: make(map[string]*GlobalWorkout, len(workouts)),
	}
	for i := range workouts {
		g := &workouts[i]
		x.byID[g.ID] = g
		if g.Name != "" {
			x.byName[strings.ToLower(g.Name)] = g
		}
	}
	return x
}

func (x *WorkoutIndex) ByID(id string) (*GlobalWorkout, bool) {
	g, ok := x.byID[id]
	return g, ok
}

func (x *WorkoutIndex) ByName(name string) (*GlobalWorkout, bool) {
	g, ok := x.byName[strings.ToLower(name)]
	return g, ok
}

func (x *WorkoutIndex) Len() int {
	return len(x.byID)
}
