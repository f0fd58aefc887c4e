// Package planio converts a plan tree to and from the JSON file format the
// dashboard exports, validating imported files before they are used.
package planio

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Document is the exported file layout.
type Document struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Weeks       []WeekDoc `json:"weeks"`
}

type WeekDoc struct {
	ID     string   `json:"id,omitempty"`
	Number int      `json:"number"`
	Days   []DayDoc `json:"days"`
}

type DayDoc struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name"`
	Workouts []WorkoutDoc `json:"workouts"`
}

// WorkoutDoc carries the display fields so the file is readable on its own;
// they are replaced from the library on import.
type WorkoutDoc struct {
	ID              string    `json:"id,omitempty"`
	GlobalWorkoutID string    `json:"globalWorkoutId,omitempty"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	MuscleGroups    []string  `json:"muscleGroups"`
	Equipment       []string  `json:"equipment"`
	Order           int       `json:"order,omitempty"`
	Config          ConfigDoc `json:"config"`
}

type ConfigDoc struct {
	NumSets         int     `json:"numSets"`
	TargetReps      Reps    `json:"targetReps,omitempty"`
	BaseWeight      float64 `json:"baseWeight,omitempty"`
	RestTimer       int     `json:"restTimer,omitempty"`
	WorkoutDuration int     `json:"workoutDuration,omitempty"`
}

// Reps is a free-form target reps value. Files written by older tools hold a
// plain number, so both JSON strings and numbers are accepted.
type Reps string

func (r *Reps) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Reps(s)
		return nil
	}
	if string(data) == "null" {
		*r = ""
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*r = Reps(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// FileName is the download name for a plan export.
func FileName(planName string) string {
	name := strings.TrimSpace(planName)
	if name == "" {
		name = "workout-plan"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\n', '\r':
			return '_'
		}
		return r
	}, name)
	return name + ".json"
}
