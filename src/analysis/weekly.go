package analysis

import (
	"strings"
	"time"

	"github.com/iafilius/FitTrack/src/types"
)

// WeekDays is the size of the analytics window.
const WeekDays = 7

// WeeklyWindow takes the first n entries of logs (most recent first, as the
// server returns them) and returns them oldest first. The input is not modified.
func WeeklyWindow(logs []types.ActivityLog, n int) []types.ActivityLog {
	if n <= 0 || len(logs) == 0 {
		return nil
	}
	if n > len(logs) {
		n = len(logs)
	}
	out := make([]types.ActivityLog, n)
	for i := 0; i < n; i++ {
		out[i] = logs[n-1-i]
	}
	return out
}

// TypeCount is how many workouts share one type.
type TypeCount struct {
	Type  string
	Count int
}

// WorkoutTypeCounts counts workouts per non-empty type, in first-seen order.
func WorkoutTypeCounts(workouts []types.WorkoutLog) []TypeCount {
	idx := map[string]int{}
	var out []TypeCount
	for _, w := range workouts {
		t := strings.TrimSpace(w.WorkoutType)
		if t == "" {
			continue
		}
		if i, ok := idx[t]; ok {
			out[i].Count++
			continue
		}
		idx[t] = len(out)
		out = append(out, TypeCount{Type: t, Count: 1})
	}
	return out
}

// DateLabel shortens an ISO date for chart axes ("2025-03-07" -> "Mar 7").
// Anything that does not parse is returned unchanged.
func DateLabel(date string) string {
	d := strings.TrimSpace(date)
	if len(d) > 10 {
		d = d[:10]
	}
	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}

// Series extracts one numeric column from activity logs.
func Series(logs []types.ActivityLog, pick func(types.ActivityLog) float64) []float64 {
	out := make([]float64, len(logs))
	for i, l := range logs {
		out[i] = pick(l)
	}
	return out
}

// Labels returns DateLabel for every log.
func Labels(logs []types.ActivityLog) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = DateLabel(l.Date)
	}
	return out
}
