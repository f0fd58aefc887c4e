package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/plantree"
	"alcyxob/fitness-admin/internal/service"
)

// SessionResponse is the working copy of a plan as the editor shows it. Each
// node carries its status against what the store last held.
type SessionResponse struct {
	ID          string         `json:"id"`
	PlanID      string         `json:"planId"`
	IsNew       bool           `json:"isNew"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ActiveWeek  int            `json:"activeWeek"`
	Status      string         `json:"status"`
	Unsaved     bool           `json:"unsaved"`
	Weeks       []WeekResponse `json:"weeks"`
	Removed     RemovedCounts  `json:"removed"`
}

type WeekResponse struct {
	ID     string        `json:"id"`
	Number int           `json:"number"`
	Status string        `json:"status"`
	Days   []DayResponse `json:"days"`
}

type DayResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Status   string            `json:"status"`
	Workouts []WorkoutResponse `json:"workouts"`
}

type WorkoutResponse struct {
	ID              string                `json:"id"`
	GlobalWorkoutID string                `json:"globalWorkoutId"`
	Order           int                   `json:"order"`
	Config          domain.WorkoutConfig  `json:"config"`
	Display         domain.WorkoutDisplay `json:"display"`
	Status          string                `json:"status"`
}

type RemovedCounts struct {
	Weeks    int `json:"weeks"`
	Days     int `json:"days"`
	Workouts int `json:"workouts"`
}

// MapSessionToResponse renders a session under its lock.
func MapSessionToResponse(s *service.Session) SessionResponse {
	var out SessionResponse
	s.View(func(tree *plantree.Tree, changes *plantree.Changes) {
		out = SessionResponse{
			ID:          s.ID,
			PlanID:      tree.PlanID,
			IsNew:       tree.IsNew(),
			Name:        tree.Name,
			Description: tree.Description,
			ActiveWeek:  tree.ActiveIndex(),
			Status:      changes.Plan.String(),
			Unsaved:     !changes.Empty(),
			Weeks:       make([]WeekResponse, 0, len(tree.WeekIDs)),
			Removed: RemovedCounts{
				Weeks:    len(changes.RemovedWeeks),
				Days:     len(changes.RemovedDays),
				Workouts: len(changes.RemovedWorkouts),
			},
		}
		for _, w := range tree.Weeks() {
			week := WeekResponse{ID: w.ID, Number: w.Number, Status: changes.Weeks[w.ID].String(), Days: []DayResponse{}}
			for _, d := range tree.Days(w.ID) {
				day := DayResponse{ID: d.ID, Name: d.Name, Status: changes.Days[d.ID].String(), Workouts: []WorkoutResponse{}}
				for _, k := range tree.Workouts(d.ID) {
					day.Workouts = append(day.Workouts, WorkoutResponse{
						ID:              k.ID,
						GlobalWorkoutID: k.GlobalWorkoutID,
						Order:           k.Order,
						Config:          k.Config,
						Display:         k.Display,
						Status:          changes.Workouts[k.ID].String(),
					})
				}
				week.Days = append(week.Days, day)
			}
			out.Weeks = append(out.Weeks, week)
		}
	})
	return out
}
