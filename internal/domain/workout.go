package domain

import (
	"errors"
	"strings"
	"time"
)

// WorkoutType decides which configuration fields a workout uses.
type WorkoutType string

const (
	WorkoutTypeWeight WorkoutType = "Weight"
	WorkoutTypeTimer  WorkoutType = "Timer"
)

// ParseWorkoutType accepts the canonical tags and the lowercase spelling used
// by older library documents.
func ParseWorkoutType(s string) (WorkoutType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weight":
		return WorkoutTypeWeight, true
	case "timer":
		return WorkoutTypeTimer, true
	}
	return "", false
}

// WorkoutConfig holds the per-plan settings of a workout. Weight workouts use
// NumSets, TargetReps, BaseWeight and RestTimerSeconds; Timer workouts use
// NumSets and WorkoutDurationSeconds.
type WorkoutConfig struct {
	NumSets                int     `bson:"numSets" json:"numSets"`
	TargetReps             string  `bson:"targetReps,omitempty" json:"targetReps,omitempty"` // Free-form, e.g. "10-12"
	BaseWeight             float64 `bson:"baseWeight,omitempty" json:"baseWeight,omitempty"`
	RestTimerSeconds       int     `bson:"restTimerSeconds,omitempty" json:"restTimerSeconds,omitempty"`
	WorkoutDurationSeconds int     `bson:"workoutDurationSeconds,omitempty" json:"workoutDurationSeconds,omitempty"`
}

// DefaultConfig returns the settings a freshly added workout starts with.
func DefaultConfig(t WorkoutType) WorkoutConfig {
	if t == WorkoutTypeTimer {
		return WorkoutConfig{NumSets: 3, WorkoutDurationSeconds: 60}
	}
	return WorkoutConfig{NumSets: 4, BaseWeight: 10, TargetReps: "12", RestTimerSeconds: 45}
}

// Check reports the first setting a workout of type t cannot be saved or
// exported with.
func (c WorkoutConfig) Check(t WorkoutType) error {
	switch {
	case c.NumSets < 1:
		return errors.New("numSets must be at least 1")
	case c.BaseWeight < 0 || c.RestTimerSeconds < 0 || c.WorkoutDurationSeconds < 0:
		return errors.New("baseWeight, restTimerSeconds and workoutDurationSeconds cannot be negative")
	case t == WorkoutTypeWeight && strings.TrimSpace(c.TargetReps) == "":
		return errors.New("Weight workouts need targetReps")
	case t == WorkoutTypeTimer && c.WorkoutDurationSeconds < 1:
		return errors.New("Timer workouts need a workoutDurationSeconds")
	}
	return nil
}

// PlanWorkout is a workout placed in a Day. It only stores a reference to the
// GlobalWorkout; name, type, muscle groups and equipment are resolved when the
// plan is read and are never written back on this document.
type PlanWorkout struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	PlanID          string        `bson:"planId" json:"planId"`
	WeekID          string        `bson:"weekId" json:"weekId"`
	DayID           string        `bson:"dayId" json:"dayId"`
	GlobalWorkoutID string        `bson:"globalWorkoutId" json:"globalWorkoutId"`
	Order           int           `bson:"order" json:"order"`
	Config          WorkoutConfig `bson:",inline" json:"config"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// LegacyWorkout is a workout document as the migration sees it: possibly still
// carrying the denormalized display fields instead of a reference.
type LegacyWorkout struct {
	ID              string   `bson:"_id" json:"id"`
	GlobalWorkoutID string   `bson:"globalWorkoutId,omitempty" json:"globalWorkoutId,omitempty"`
	Name            string   `bson:"name,omitempty" json:"name,omitempty"`
	Type            string   `bson:"type,omitempty" json:"type,omitempty"`
	MuscleGroups    []string `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`
	Equipment       []string `bson:"equipment,omitempty" json:"equipment,omitempty"`
}
