package planio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlan = `{
  "name": "Hypertrophy",
  "description": "8 weeks",
  "weeks": [
    {"number": 1, "days": [
      {"name": "Push", "workouts": [
        {"name": "Bench Press", "type": "Weight", "muscleGroups": ["Chest"], "equipment": ["Barbell"],
         "config": {"numSets": 4, "targetReps": "8-10", "baseWeight": 60, "restTimer": 90}}
      ]}
    ]},
    {"number": 2, "days": [
      {"name": "Conditioning", "workouts": [
        {"name": "Plank", "type": "Timer", "muscleGroups": [], "equipment": [],
         "config": {"numSets": 3, "workoutDuration": 45}}
      ]}
    ]}
  ]
}`

func TestParseValid(t *testing.T) {
	doc, err := Parse([]byte(validPlan))
	require.NoError(t, err)
	assert.Equal(t, "Hypertrophy", doc.Name)
	require.Len(t, doc.Weeks, 2)
	assert.Equal(t, Reps("8-10"), doc.Weeks[0].Days[0].Workouts[0].Config.TargetReps)
	assert.Equal(t, 45, doc.Weeks[1].Days[0].Workouts[0].Config.WorkoutDuration)
}

func TestParseNumericTargetReps(t *testing.T) {
	doc, err := Parse([]byte(`{"name":"p","weeks":[{"number":1,"days":[{"name":"A","workouts":[
		{"name":"Squat","type":"Weight","muscleGroups":[],"equipment":[],"config":{"numSets":3,"targetReps":12}}]}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, Reps("12"), doc.Weeks[0].Days[0].Workouts[0].Config.TargetReps)
}

func TestValidateReportsFirstFailureWithPath(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "not an object",
			json: `[]`,
			want: "Invalid plan file: expected a JSON object",
		},
		{
			name: "missing name",
			json: `{"weeks": []}`,
			want: "Plan: name is required (non-empty string)",
		},
		{
			name: "weeks not array",
			json: `{"name": "p", "weeks": {}}`,
			want: "Plan: weeks must be an array",
		},
		{
			name: "week number missing",
			json: `{"name": "p", "weeks": [{"days": []}]}`,
			want: "Week 1: number is required (number)",
		},
		{
			name: "day without name",
			json: `{"name": "p", "weeks": [{"number": 1, "days": [{"name": "", "workouts": []}]}]}`,
			want: "Week 1, Day 1: name is required (non-empty string)",
		},
		{
			name: "unknown type",
			json: `{"name": "p", "weeks": [{"number": 1, "days": [{"name": "A", "workouts": [
				{"name": "Row", "type": "weight", "muscleGroups": [], "equipment": [], "config": {}}]}]}]}`,
			want: `Week 1, Day 1, Row: type must be "Weight" or "Timer"`,
		},
		{
			name: "timer without duration",
			json: `{"name": "p", "weeks": [
				{"number": 1, "days": [{"name": "A", "workouts": []}]},
				{"number": 2, "days": [{"name": "B", "workouts": [
					{"name": "Bench Press", "type": "Timer", "muscleGroups": [], "equipment": [], "config": {"numSets": 3}},
					{"name": "Later", "type": "Bogus"}]}]}]}`,
			want: "Week 2, Day 1, Bench Press: Timer workouts require workoutDuration (number)",
		},
		{
			name: "weight without reps uses position when unnamed",
			json: `{"name": "p", "weeks": [{"number": 1, "days": [{"name": "A", "workouts": [
				{"name": "", "type": "Weight", "muscleGroups": [], "equipment": [], "config": {"numSets": 3}}]}]}]}`,
			want: "Week 1, Day 1, Workout 1: Weight workouts require targetReps",
		},
		{
			name: "equipment not array",
			json: `{"name": "p", "weeks": [{"number": 1, "days": [{"name": "A", "workouts": [
				{"name": "Dip", "type": "Weight", "muscleGroups": [], "equipment": "none", "config": {"targetReps": "8"}}]}]}]}`,
			want: "Week 1, Day 1, Dip: equipment must be an array",
		},
		{
			name: "fractional sets",
			json: `{"name": "p", "weeks": [{"number": 1, "days": [{"name": "A", "workouts": [
				{"name": "Dip", "type": "Weight", "muscleGroups": [], "equipment": [], "config": {"numSets": 2.5, "targetReps": "8"}}]}]}]}`,
			want: "Week 1, Day 1, Dip: config.numSets must be a whole number",
		},
		{
			name: "huge week number",
			json: `{"name": "p", "weeks": [{"number": 1e300, "days": []}]}`,
			want: "Week 1: number is out of range",
		},
		{
			name: "huge rest timer",
			json: `{"name": "p", "weeks": [{"number": 1, "days": [{"name": "A", "workouts": [
				{"name": "Dip", "type": "Weight", "muscleGroups": [], "equipment": [], "config": {"numSets": 3, "restTimer": 1e300, "targetReps": "8"}}]}]}]}`,
			want: "Week 1, Day 1, Dip: config.restTimer is out of range",
		},
		{
			name: "huge order",
			json: `{"name": "p", "weeks": [{"number": 1, "days": [{"name": "A", "workouts": [
				{"name": "Dip", "type": "Weight", "muscleGroups": [], "equipment": [], "order": 1e300, "config": {"numSets": 3, "targetReps": "8"}}]}]}]}`,
			want: "Week 1, Day 1, Dip: order is out of range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Error())
		})
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"name":`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "Invalid JSON")
}
