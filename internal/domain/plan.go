// internal/domain/plan.go
package domain

import (
	"time"
)

// Plan is the root document of a workout plan. Weeks, days and workouts live
// in their own collections and point back at their parent.
type Plan struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	WeekCount   int       `bson:"weekCount" json:"weekCount"` // Kept on the plan so list screens don't walk the weeks
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Week belongs to exactly one Plan. Number is user-editable and not guaranteed
// unique or contiguous.
type Week struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	PlanID    string    `bson:"planId" json:"planId"`
	Number    int       `bson:"weekNumber" json:"weekNumber"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Day belongs to exactly one Week. DayNumber only drives the load order.
type Day struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	PlanID    string    `bson:"planId" json:"planId"`
	WeekID    string    `bson:"weekId" json:"weekId"`
	Name      string    `bson:"name" json:"name"`
	DayNumber int       `bson:"dayNumber" json:"dayNumber"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PlanSummary is what the plan list shows.
type PlanSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TotalWeeks  int       `json:"totalWeeks"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
