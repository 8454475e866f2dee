package analysis

import (
	"reflect"
	"testing"

	"github.com/iafilius/FitTrack/src/types"
)

func TestWeeklyWindowTakesMostRecentChronological(t *testing.T) {
	var logs []types.ActivityLog
	for i := 10; i >= 1; i-- { // most recent first
		logs = append(logs, types.ActivityLog{Date: "2025-03-" + twoDigits(i), Steps: i})
	}
	w := WeeklyWindow(logs, WeekDays)
	if len(w) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(w))
	}
	if w[0].Steps != 4 || w[6].Steps != 10 {
		t.Fatalf("window should run from day 4 to day 10, got %d..%d", w[0].Steps, w[6].Steps)
	}
	if logs[0].Steps != 10 {
		t.Fatalf("input must not be modified")
	}
}

func TestWeeklyWindowShortAndEmpty(t *testing.T) {
	if w := WeeklyWindow(nil, 7); w != nil {
		t.Fatalf("expected nil for empty input, got %v", w)
	}
	logs := []types.ActivityLog{{Steps: 2}, {Steps: 1}}
	w := WeeklyWindow(logs, 7)
	if len(w) != 2 || w[0].Steps != 1 || w[1].Steps != 2 {
		t.Fatalf("unexpected short window: %+v", w)
	}
}

func TestWorkoutTypeCountsFirstSeenOrder(t *testing.T) {
	ws := []types.WorkoutLog{
		{WorkoutType: "Cardio"}, {WorkoutType: "Strength"}, {WorkoutType: ""},
		{WorkoutType: "Cardio"}, {WorkoutType: " Yoga "}, {WorkoutType: "Strength"}, {WorkoutType: "Cardio"},
	}
	got := WorkoutTypeCounts(ws)
	want := []TypeCount{{"Cardio", 3}, {"Strength", 2}, {"Yoga", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if WorkoutTypeCounts(nil) != nil {
		t.Fatalf("expected nil counts for no workouts")
	}
}

func TestDateLabel(t *testing.T) {
	cases := map[string]string{
		"2025-03-07":          "Mar 7",
		"2025-12-31T10:00:00": "Dec 31",
		"yesterday":           "yesterday",
		"":                    "",
	}
	for in, want := range cases {
		if got := DateLabel(in); got != want {
			t.Fatalf("DateLabel(%q) = %q want %q", in, got, want)
		}
	}
}

func TestSeriesAndLabels(t *testing.T) {
	logs := []types.ActivityLog{{Date: "2025-01-01", Calories: 1500}, {Date: "2025-01-02", Calories: 1800}}
	if got := Series(logs, func(l types.ActivityLog) float64 { return float64(l.Calories) }); !reflect.DeepEqual(got, []float64{1500, 1800}) {
		t.Fatalf("series: %v", got)
	}
	if got := Labels(logs); !reflect.DeepEqual(got, []string{"Jan 1", "Jan 2"}) {
		t.Fatalf("labels: %v", got)
	}
}

func twoDigits(i int) string {
	if i < 10 {
		return "0" + string(rune('0'+i))
	}
	return "1" + string(rune('0'+i-10))
}
