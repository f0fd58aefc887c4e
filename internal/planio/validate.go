package planio

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"alcyxob/fitness-admin/internal/domain"
)

var (
	ErrFileTooLarge = errors.New("file is too large")
	ErrNotJSON      = errors.New("only .json files are accepted")
)

// ValidationError is the first problem found in an imported file. Path
// locates it, e.g. "Week 2, Day 1, Bench Press".
type ValidationError struct {
	Path    string
	Problem string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Problem
	}
	return e.Path + ": " + e.Problem
}

func invalid(path, format string, args ...any) error {
	return &ValidationError{Path: path, Problem: fmt.Sprintf(format, args...)}
}

// Validate checks a decoded JSON value against the plan layout and returns
// the first violation. Positions in paths are 1-based.
func Validate(v any) error {
	plan, ok := v.(map[string]any)
	if !ok {
		return invalid("", "Invalid plan file: expected a JSON object")
	}
	if name, ok := plan["name"].(string); !ok || strings.TrimSpace(name) == "" {
		return invalid("Plan", "name is required (non-empty string)")
	}
	weeks, ok := plan["weeks"].([]any)
	if !ok {
		return invalid("Plan", "weeks must be an array")
	}
	for wi, wv := range weeks {
		if err := validateWeek(wi+1, wv); err != nil {
			return err
		}
	}
	return nil
}

func validateWeek(pos int, v any) error {
	path := fmt.Sprintf("Week %d", pos)
	week, ok := v.(map[string]any)
	if !ok {
		return invalid(path, "must be an object")
	}
	if !isNumber(week["number"]) {
		return invalid(path, "number is required (number)")
	}
	if !isInteger(week["number"]) {
		return invalid(path, "number must be a whole number")
	}
	if !inRange(week["number"]) {
		return invalid(path, "number is out of range")
	}
	days, ok := week["days"].([]any)
	if !ok {
		return invalid(path, "days must be an array")
	}
	for di, dv := range days {
		if err := validateDay(fmt.Sprintf("%s, Day %d", path, di+1), dv); err != nil {
			return err
		}
	}
	return nil
}

func validateDay(path string, v any) error {
	day, ok := v.(map[string]any)
	if !ok {
		return invalid(path, "must be an object")
	}
	if name, ok := day["name"].(string); !ok || strings.TrimSpace(name) == "" {
		return invalid(path, "name is required (non-empty string)")
	}
	workouts, ok := day["workouts"].([]any)
	if !ok {
		return invalid(path, "workouts must be an array")
	}
	for ki, kv := range workouts {
		if err := validateWorkout(path, ki+1, kv); err != nil {
			return err
		}
	}
	return nil
}

func validateWorkout(dayPath string, pos int, v any) error {
	workout, ok := v.(map[string]any)
	if !ok {
		return invalid(fmt.Sprintf("%s, Workout %d", dayPath, pos), "must be an object")
	}
	name, nameOK := workout["name"].(string)
	path := fmt.Sprintf("%s, Workout %d", dayPath, pos)
	if nameOK && strings.TrimSpace(name) != "" {
		path = dayPath + ", " + name
	}
	if !nameOK {
		return invalid(path, "name is required (string)")
	}

	kind, _ := workout["type"].(string)
	switch domain.WorkoutType(kind) {
	case domain.WorkoutTypeWeight, domain.WorkoutTypeTimer:
	default:
		return invalid(path, "type must be %q or %q", domain.WorkoutTypeWeight, domain.WorkoutTypeTimer)
	}
	if _, ok := workout["muscleGroups"].([]any); !ok {
		return invalid(path, "muscleGroups must be an array")
	}
	if _, ok := workout["equipment"].([]any); !ok {
		return invalid(path, "equipment must be an array")
	}

	if order, present := workout["order"]; present && order != nil {
		if !isInteger(order) {
			return invalid(path, "order must be a whole number")
		}
		if !inRange(order) {
			return invalid(path, "order is out of range")
		}
	}

	cfg, ok := workout["config"].(map[string]any)
	if !ok {
		return invalid(path, "config is required (object)")
	}
	for _, field := range []string{"numSets", "baseWeight", "restTimer", "workoutDuration"} {
		val, present := cfg[field]
		if !present || val == nil {
			continue
		}
		if !isNumber(val) {
			return invalid(path, "config.%s must be a number", field)
		}
		if field == "baseWeight" {
			continue
		}
		if !isInteger(val) {
			return invalid(path, "config.%s must be a whole number", field)
		}
		if !inRange(val) {
			return invalid(path, "config.%s is out of range", field)
		}
	}

	switch domain.WorkoutType(kind) {
	case domain.WorkoutTypeWeight:
		switch reps := cfg["targetReps"].(type) {
		case string:
			if strings.TrimSpace(reps) == "" {
				return invalid(path, "Weight workouts require targetReps")
			}
		case float64:
		default:
			return invalid(path, "Weight workouts require targetReps")
		}
	case domain.WorkoutTypeTimer:
		if !isNumber(cfg["workoutDuration"]) {
			return invalid(path, "Timer workouts require workoutDuration (number)")
		}
	}
	return nil
}

func isNumber(v any) bool {
	_, ok := v.(float64)
	return ok
}

func isInteger(v any) bool {
	f, ok := v.(float64)
	return ok && f == math.Trunc(f)
}

// inRange keeps whole numbers inside int32 so decoding into int fields
// cannot fail on any platform.
func inRange(v any) bool {
	f, ok := v.(float64)
	return ok && f >= math.MinInt32 && f <= math.MaxInt32
}
