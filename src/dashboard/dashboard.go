// Package dashboard implements the commands of the authenticated region:
// loading progress, logging activities and workouts, setting goals, listing
// history and drawing the weekly analytics.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iafilius/FitTrack/src/analysis"
	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/types"
	"github.com/iafilius/FitTrack/src/views"
)

// Display texts.
const (
	MsgLoadingProgress = "Loading your progress..."
	MsgLoadingActivity = "Loading activity logs..."
	MsgLoadingWorkouts = "Loading workout logs..."
	MsgProgressFailed  = "Failed to load progress. Please try refreshing or logging in again."
	MsgActivityFailed  = "Failed to load activity logs. Please try again."
	MsgWorkoutsFailed  = "Failed to load workout logs. Please try again."
	MsgNoActivityLogs  = "No activity logs found. Start logging your activities!"
	MsgNoWorkoutLogs   = "No workout logs found. Start logging your workouts!"
	MsgNoAnalytics     = "No data available for analytics. Start logging activities!"

	MsgActivityLogged = "Activity logged successfully!"
	MsgWorkoutLogged  = "Workout logged successfully!"
	MsgGoalsSaved     = "Goals saved successfully!"
)

// Display is the text side of the authenticated region. Implementations must
// be safe to call from any goroutine.
type Display interface {
	ShowProgress(rep analysis.ProgressReport)
	// ShowProgressText replaces the progress view with a single line;
	// failed marks it as an error.
	ShowProgressText(msg string, failed bool)
	ShowActivityLogs(logs []types.ActivityLog)
	ShowActivityText(msg string, failed bool)
	ShowWorkoutLogs(logs []types.WorkoutLog)
	ShowWorkoutText(msg string, failed bool)
	ResetForm(f Form)
	// Clear empties the log lists and puts the progress view back into its
	// loading state.
	Clear()
}

// Dashboard runs the commands against one client and one renderer.
type Dashboard struct {
	client   *apiclient.Client
	renderer *views.Renderer
	display  Display

	mu   sync.RWMutex
	date string
}

// New builds a dashboard.
func New(client *apiclient.Client, renderer *views.Renderer, display Display) *Dashboard {
	return &Dashboard{client: client, renderer: renderer, display: display}
}

// Renderer exposes the chart renderer.
func (d *Dashboard) Renderer() *views.Renderer { return d.renderer }

// SetDate pins the progress view to date (YYYY-MM-DD); empty means the
// server's today.
func (d *Dashboard) SetDate(date string) error {
	date, err := checkDate(date)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.date = date
	d.mu.Unlock()
	return nil
}

// Date returns the pinned progress date.
func (d *Dashboard) Date() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.date
}

func (d *Dashboard) reject(err error) error {
	d.client.Notify(apiclient.Failure(err.Error()))
	return err
}

// LoadProgress fetches the snapshot, shows it and redraws the progress and
// macro charts once the layout is ready.
func (d *Dashboard) LoadProgress(ctx context.Context) error {
	defer apiclient.TimeTrack(time.Now(), "LoadProgress")
	p, err := d.client.Progress(ctx, d.Date(), false)
	if err != nil {
		d.display.ShowProgressText(MsgProgressFailed, true)
		return err
	}
	rep := analysis.Summarize(*p)
	d.display.ShowProgress(rep)
	if err := d.renderer.RenderProgress(ctx, rep); err != nil {
		return fmt.Errorf("progress chart: %w", err)
	}
	if err := d.renderer.RenderMacros(ctx, p.Sum); err != nil {
		return fmt.Errorf("macro chart: %w", err)
	}
	return nil
}

// LogActivity posts the activity form, then resets it and refreshes progress.
func (d *Dashboard) LogActivity(ctx context.Context, f ActivityForm) error {
	req, err := f.Request()
	if err != nil {
		return d.reject(err)
	}
	if _, err := d.client.AddLog(ctx, req); err != nil {
		return err
	}
	d.client.Notify(apiclient.Success(MsgActivityLogged))
	d.display.ResetForm(FormActivity)
	return d.LoadProgress(ctx)
}

// LogWorkout posts the workout form and resets it.
func (d *Dashboard) LogWorkout(ctx context.Context, f WorkoutForm) error {
	req, err := f.Request()
	if err != nil {
		return d.reject(err)
	}
	if _, err := d.client.AddWorkout(ctx, req); err != nil {
		return err
	}
	d.client.Notify(apiclient.Success(MsgWorkoutLogged))
	d.display.ResetForm(FormWorkout)
	return nil
}

// SetGoals posts the goals form and refreshes progress. The form is kept so
// the user sees the values just saved.
func (d *Dashboard) SetGoals(ctx context.Context, f GoalsForm) error {
	req, err := f.Request()
	if err != nil {
		return d.reject(err)
	}
	if _, err := d.client.SetGoals(ctx, req); err != nil {
		return err
	}
	d.client.Notify(apiclient.Success(MsgGoalsSaved))
	return d.LoadProgress(ctx)
}

// LoadActivityLogs lists every activity entry, most recent first.
func (d *Dashboard) LoadActivityLogs(ctx context.Context) error {
	d.display.ShowActivityText(MsgLoadingActivity, false)
	logs, err := d.client.Logs(ctx)
	if err != nil {
		d.display.ShowActivityText(MsgActivityFailed, true)
		return err
	}
	if len(logs) == 0 {
		d.display.ShowActivityText(MsgNoActivityLogs, false)
		return nil
	}
	d.display.ShowActivityLogs(logs)
	return nil
}

// LoadWorkoutLogs lists every workout entry.
func (d *Dashboard) LoadWorkoutLogs(ctx context.Context) error {
	d.display.ShowWorkoutText(MsgLoadingWorkouts, false)
	logs, err := d.client.WorkoutLogs(ctx)
	if err != nil {
		d.display.ShowWorkoutText(MsgWorkoutsFailed, true)
		return err
	}
	if len(logs) == 0 {
		d.display.ShowWorkoutText(MsgNoWorkoutLogs, false)
		return nil
	}
	d.display.ShowWorkoutLogs(logs)
	return nil
}

// LoadAnalytics draws the weekly charts from the seven most recent entries
// and the workout frequency chart. The two halves fail independently; the
// first error is returned. A 401 ends the load: the session is already torn
// down and its charts released, so nothing is drawn and nothing more is fetched.
func (d *Dashboard) LoadAnalytics(ctx context.Context) error {
	weeklyErr := d.loadWeekly(ctx)
	if apiclient.IsUnauthorized(weeklyErr) {
		return weeklyErr
	}
	workoutErr := d.loadWorkoutFrequency(ctx)
	if weeklyErr != nil {
		return weeklyErr
	}
	return workoutErr
}

func (d *Dashboard) loadWeekly(ctx context.Context) error {
	logs, err := d.client.Logs(ctx)
	if apiclient.IsUnauthorized(err) {
		return err
	}
	if err != nil {
		if cerr := d.renderer.ClearAnalytics(ctx); cerr != nil {
			apiclient.Debugf("clear analytics: %v", cerr)
		}
		return err
	}
	if len(logs) == 0 {
		d.client.Notify(apiclient.Failure(MsgNoAnalytics))
		return d.renderer.ClearAnalytics(ctx)
	}
	return d.renderer.RenderWeekly(ctx, analysis.WeeklyWindow(logs, analysis.WeekDays))
}

func (d *Dashboard) loadWorkoutFrequency(ctx context.Context) error {
	workouts, err := d.client.WorkoutLogs(ctx)
	if apiclient.IsUnauthorized(err) {
		return err
	}
	if err != nil {
		if perr := d.renderer.Placeholder(ctx, views.RegionWorkoutFrequency, views.MsgWorkoutFailure); perr != nil {
			apiclient.Debugf("workout placeholder: %v", perr)
		}
		return err
	}
	return d.renderer.RenderWorkoutFrequency(ctx, workouts)
}

// Reset wipes everything the authenticated region shows: chart handles,
// forms and rendered text.
func (d *Dashboard) Reset() {
	d.renderer.ReleaseAll()
	for _, f := range Forms {
		d.display.ResetForm(f)
	}
	d.display.Clear()
}

// ActivityLines formats one activity entry for a list view.
func ActivityLines(l types.ActivityLog) []string {
	out := []string{
		l.Date,
		fmt.Sprintf("Steps: %d | Calories: %d", l.Steps, l.Calories),
		fmt.Sprintf("Macros: P: %sg, C: %sg, F: %sg",
			analysis.FormatNumber(l.Protein), analysis.FormatNumber(l.Carbohydrates), analysis.FormatNumber(l.Fats)),
	}
	if strings.TrimSpace(l.WorkoutType) != "" {
		out = append(out, "Activity: "+l.WorkoutType)
	}
	if strings.TrimSpace(l.Notes) != "" {
		out = append(out, "Notes: "+l.Notes)
	}
	return out
}

// WorkoutLines formats one workout entry for a list view.
func WorkoutLines(w types.WorkoutLog) []string {
	out := []string{
		w.Date,
		"Workout: " + w.WorkoutType,
		"Exercise: " + w.Exercise,
		fmt.Sprintf("Sets/Reps: %d x %d", w.Sets, w.Reps),
	}
	if strings.TrimSpace(w.Notes) != "" {
		out = append(out, "Notes: "+w.Notes)
	}
	return out
}
