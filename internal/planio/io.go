package planio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/plantree"
)

// DefaultMaxBytes is the import size ceiling when none is configured.
const DefaultMaxBytes int64 = 1 << 20

// CheckFile rejects a whole file before it is read: wrong extension or more
// than maxBytes.
func CheckFile(filename string, size, maxBytes int64) error {
	if !strings.EqualFold(filepath.Ext(filename), ".json") {
		return ErrNotJSON
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrFileTooLarge, size, maxBytes)
	}
	return nil
}

// Read loads and validates an uploaded file.
func Read(filename string, r io.Reader, maxBytes int64) (*Document, error) {
	if err := CheckFile(filename, 0, maxBytes); err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, maxBytes)
	}
	return Parse(data)
}

// Parse validates raw JSON and decodes it. The first violation is returned as
// a *ValidationError.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Problem: "Invalid JSON: " + err.Error()}
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Problem: "Invalid plan file: " + err.Error()}
	}
	return &doc, nil
}

// Export converts a tree to its file layout. Workouts are written in display
// order with their display values as resolved at load time.
func Export(t *plantree.Tree) *Document {
	doc := &Document{
		ID:          t.PlanID,
		Name:        t.Name,
		Description: t.Description,
		Weeks:       []WeekDoc{},
	}
	for _, w := range t.Weeks() {
		wd := WeekDoc{ID: w.ID, Number: w.Number, Days: []DayDoc{}}
		for _, d := range t.Days(w.ID) {
			dd := DayDoc{ID: d.ID, Name: d.Name, Workouts: []WorkoutDoc{}}
			for _, k := range t.Workouts(d.ID) {
				dd.Workouts = append(dd.Workouts, exportWorkout(k))
			}
			wd.Days = append(wd.Days, dd)
		}
		doc.Weeks = append(doc.Weeks, wd)
	}
	return doc
}

func exportWorkout(k *plantree.WorkoutNode) WorkoutDoc {
	return WorkoutDoc{
		ID:              k.ID,
		GlobalWorkoutID: k.GlobalWorkoutID,
		Name:            k.Display.Name,
		Type:            string(k.Kind()),
		MuscleGroups:    nonNil(k.Display.MuscleGroups),
		Equipment:       nonNil(k.Display.Equipment),
		Order:           k.Order,
		Config: ConfigDoc{
			NumSets:         k.Config.NumSets,
			TargetReps:      Reps(k.Config.TargetReps),
			BaseWeight:      k.Config.BaseWeight,
			RestTimer:       k.Config.RestTimerSeconds,
			WorkoutDuration: k.Config.WorkoutDurationSeconds,
		},
	}
}

// Marshal renders a document as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build turns a validated document into a fresh tree. Every node gets a new
// identity; the plan keeps planID when one is given. Workouts are linked to
// the library by reference id, falling back to a case-insensitive name match.
func Build(doc *Document, planID string, library *domain.WorkoutIndex) (*plantree.Tree, error) {
	t := plantree.New(doc.Name, doc.Description)
	if planID != "" {
		t.RekeyPlan(planID)
	}
	for wi, wd := range doc.Weeks {
		week, err := t.AttachWeek(plantree.NewID(), wd.Number)
		if err != nil {
			return nil, err
		}
		for di, dd := range wd.Days {
			day, err := t.AttachDay(week.ID, plantree.NewID(), dd.Name)
			if err != nil {
				return nil, err
			}
			for ki, kd := range dd.Workouts {
				ref, ok := resolve(kd, library)
				if !ok {
					path := fmt.Sprintf("Week %d, Day %d, %s", wi+1, di+1, workoutLabel(kd, ki+1))
					return nil, invalid(path, "no library workout named %q", kd.Name)
				}
				order := kd.Order
				if order <= 0 {
					order = ki + 1
				}
				if _, err := t.AttachWorkout(plantree.WorkoutNode{
					ID:              plantree.NewID(),
					DayID:           day.ID,
					GlobalWorkoutID: ref.ID,
					Order:           order,
					Config:          configFromDoc(kd.Config),
					Display:         ref.Display(),
				}); err != nil {
					return nil, err
				}
			}
		}
	}
	return t, nil
}

func resolve(kd WorkoutDoc, library *domain.WorkoutIndex) (*domain.GlobalWorkout, bool) {
	if kd.GlobalWorkoutID != "" {
		if g, ok := library.ByID(kd.GlobalWorkoutID); ok {
			return g, true
		}
	}
	return library.ByName(kd.Name)
}

func workoutLabel(kd WorkoutDoc, pos int) string {
	if strings.TrimSpace(kd.Name) != "" {
		return kd.Name
	}
	return fmt.Sprintf("Workout %d", pos)
}

func configFromDoc(c ConfigDoc) domain.WorkoutConfig {
	return domain.WorkoutConfig{
		NumSets:                c.NumSets,
		TargetReps:             string(c.TargetReps),
		BaseWeight:             c.BaseWeight,
		RestTimerSeconds:       c.RestTimer,
		WorkoutDurationSeconds: c.WorkoutDuration,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
