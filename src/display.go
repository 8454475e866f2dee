package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/iafilius/FitTrack/src/analysis"
	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/dashboard"
	"github.com/iafilius/FitTrack/src/types"
)

var (
	accent = lipgloss.Color("#667EEA")
	muted  = lipgloss.Color("#6C757D")
	good   = lipgloss.Color("#28A745")
	bad    = lipgloss.Color("#DC3545")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle   = lipgloss.NewStyle().Width(10).Bold(true)
	hintStyle    = lipgloss.NewStyle().Italic(true).Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(good)
	errorStyle   = lipgloss.NewStyle().Foreground(bad)
	entryStyle   = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(accent).
			PaddingLeft(1)
)

// textDisplay prints the app to a terminal. It plays every front-end role:
// session view, dashboard display and notifier.
type textDisplay struct {
	mu             sync.Mutex
	out, errOut    io.Writer
	progressFailed bool
}

func newTextDisplay(out, errOut io.Writer) *textDisplay {
	return &textDisplay{out: out, errOut: errOut}
}

func (d *textDisplay) println(w io.Writer, s string) {
	d.mu.Lock()
	fmt.Fprintln(w, s)
	d.mu.Unlock()
}

// Notify implements apiclient.Notifier.
func (d *textDisplay) Notify(n apiclient.Notification) {
	if n.Kind == apiclient.KindError {
		d.println(d.errOut, errorStyle.Render("✗ "+n.Text))
		return
	}
	d.println(d.out, successStyle.Render("✓ "+n.Text))
}

// session.View

func (d *textDisplay) ShowAuth()                {}
func (d *textDisplay) ShowApp(greeting string)  { d.println(d.out, headerStyle.Render(greeting)) }
func (d *textDisplay) ShowLoginTab(user string) { apiclient.Debugf("signup done; log in as %s next", user) }
func (d *textDisplay) ResetLoginForm()          {}
func (d *textDisplay) ResetSignupForm()         {}

// dashboard.Display

func (d *textDisplay) ShowProgress(rep analysis.ProgressReport) {
	d.mu.Lock()
	d.progressFailed = false
	d.mu.Unlock()
	d.println(d.out, renderProgress(rep))
}

func (d *textDisplay) ShowProgressText(msg string, failed bool) {
	d.mu.Lock()
	d.progressFailed = failed
	d.mu.Unlock()
	d.text(msg, failed)
}

func (d *textDisplay) ShowActivityLogs(logs []types.ActivityLog) {
	blocks := make([]string, len(logs))
	for i, l := range logs {
		blocks[i] = renderEntry(dashboard.ActivityLines(l))
	}
	d.println(d.out, lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func (d *textDisplay) ShowWorkoutLogs(logs []types.WorkoutLog) {
	blocks := make([]string, len(logs))
	for i, w := range logs {
		blocks[i] = renderEntry(dashboard.WorkoutLines(w))
	}
	d.println(d.out, lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func (d *textDisplay) ShowActivityText(msg string, failed bool) { d.text(msg, failed) }
func (d *textDisplay) ShowWorkoutText(msg string, failed bool)  { d.text(msg, failed) }
func (d *textDisplay) ResetForm(dashboard.Form)                 {}
func (d *textDisplay) Clear()                                   {}

func (d *textDisplay) text(msg string, failed bool) {
	if failed {
		d.println(d.errOut, errorStyle.Render(msg))
		return
	}
	d.println(d.out, hintStyle.Render(msg))
}

// progressErr reports whether the last progress load failed.
func (d *textDisplay) progressErr() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.progressFailed {
		return errors.New(dashboard.MsgProgressFailed)
	}
	return nil
}

func renderProgress(rep analysis.ProgressReport) string {
	lines := []string{headerStyle.Render(fmt.Sprintf("Today (%s)", rep.Date))}
	for _, row := range rep.Rows {
		lines = append(lines, labelStyle.Render(string(row.Metric)+":")+" "+row.Text())
	}
	if !rep.HasGoals {
		lines = append(lines, hintStyle.Render(analysis.NoGoalsHint))
	}
	return strings.Join(lines, "\n")
}

func renderEntry(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	lines[0] = headerStyle.Render(lines[0])
	return entryStyle.Render(strings.Join(lines, "\n"))
}
