package analysis

import (
	"math"
	"strconv"

	"github.com/iafilius/FitTrack/src/types"
)

// NoGoalsHint is shown under the raw sums when no goal is set.
const NoGoalsHint = "Set your goals to track progress!"

// Metric identifies one tracked quantity.
type Metric string

const (
	MetricSteps    Metric = "Steps"
	MetricCalories Metric = "Calories"
	MetricProtein  Metric = "Protein"
	MetricCarbs    Metric = "Carbs"
	MetricFats     Metric = "Fats"
)

// Metrics lists the tracked quantities in display order.
var Metrics = []Metric{MetricSteps, MetricCalories, MetricProtein, MetricCarbs, MetricFats}

// Fractional reports whether a metric is measured in grams with decimals.
func (m Metric) Fractional() bool {
	return m == MetricProtein || m == MetricCarbs || m == MetricFats
}

// MetricRow is one line of the progress view.
type MetricRow struct {
	Metric    Metric
	Current   float64
	Goal      float64 // 0 when unset
	Remaining float64 // max(0, Goal-Current), rounded per metric
	HasGoals  bool    // whether the snapshot had any goal at all
}

// ProgressReport is what a front end needs to draw the progress view.
type ProgressReport struct {
	Date     string
	Sum      types.Sums
	Goals    *types.Goals
	HasGoals bool
	Rows     []MetricRow
}

// HasGoals reports whether g is present and at least one goal is non-zero.
func HasGoals(g *types.Goals) bool {
	if g == nil {
		return false
	}
	return intSet(g.Steps) || intSet(g.Calories) || floatSet(g.Protein) || floatSet(g.Carbs) || floatSet(g.Fats)
}

func intSet(v *int) bool       { return v != nil && *v != 0 }
func floatSet(v *float64) bool { return v != nil && *v != 0 }

func intOr0(v *int) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}

func floatOr0(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Summarize turns a progress snapshot into display rows. Remaining values are
// only computed when the snapshot has goals.
func Summarize(p types.Progress) ProgressReport {
	r := ProgressReport{Date: p.Date, Sum: p.Sum, Goals: p.Goals, HasGoals: HasGoals(p.Goals)}
	var goals [5]float64
	if p.Goals != nil {
		goals = [5]float64{intOr0(p.Goals.Steps), intOr0(p.Goals.Calories), floatOr0(p.Goals.Protein), floatOr0(p.Goals.Carbs), floatOr0(p.Goals.Fats)}
	}
	current := [5]float64{float64(p.Sum.Steps), float64(p.Sum.Calories), p.Sum.Protein, p.Sum.Carbohydrates, p.Sum.Fats}
	for i, m := range Metrics {
		row := MetricRow{Metric: m, Current: current[i], HasGoals: r.HasGoals}
		if r.HasGoals {
			row.Goal = goals[i]
			row.Remaining = Remaining(m, goals[i], current[i])
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

// Remaining returns max(0, goal-current), rounded to an integer for steps and
// calories and to one decimal for gram metrics.
func Remaining(m Metric, goal, current float64) float64 {
	left := math.Max(0, goal-current)
	if m.Fractional() {
		return math.Round(left*10) / 10
	}
	return math.Round(left)
}

// FormatNumber prints v the shortest way (4000, 50.5).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RemainingText formats the remaining amount: "6000" or "30.0g".
func (r MetricRow) RemainingText() string {
	if r.Metric.Fractional() {
		return strconv.FormatFloat(r.Remaining, 'f', 1, 64) + "g"
	}
	return strconv.FormatFloat(r.Remaining, 'f', 0, 64)
}

// Text is the value column of the progress view:
// "4000 / 10000 (6000 left)", "50g / 80g (30.0g left)" or just "50g" without goals.
func (r MetricRow) Text() string {
	unit := ""
	if r.Metric.Fractional() {
		unit = "g"
	}
	cur := FormatNumber(r.Current) + unit
	if !r.HasGoals {
		return cur
	}
	return cur + " / " + FormatNumber(r.Goal) + unit + " (" + r.RemainingText() + " left)"
}

// MacroTotal is protein + carbohydrates + fats in grams.
func MacroTotal(s types.Sums) float64 {
	return s.Protein + s.Carbohydrates + s.Fats
}
