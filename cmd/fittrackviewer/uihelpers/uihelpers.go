// Package uihelpers holds the layout arithmetic of the viewer, kept free of
// Fyne so it can be tested headlessly.
package uihelpers

import (
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/iafilius/FitTrack/src/analysis"
)

// ChartGridColumns returns how many chart surfaces fit side by side in the
// analytics tab for a window width.
func ChartGridColumns(winW float32) int {
	const twoColumnBreakpoint = 1100
	if winW < twoColumnBreakpoint {
		return 1
	}
	return 2
}

// ChartRawWidth is the width a chart should be rendered at when cols charts
// share a row of winW pixels. Padding between columns is subtracted.
func ChartRawWidth(winW float32, cols int) int {
	const pad = 24
	if cols < 1 {
		cols = 1
	}
	w := (winW - float32(cols+1)*pad) / float32(cols)
	if w < 0 {
		return 0
	}
	return int(w)
}

// ComputeMiniChartHeight sizes the macro donut next to the progress bars:
// half the full chart height, clamped to [180, 360].
func ComputeMiniChartHeight(fullChartHeight int) int {
	h := fullChartHeight / 2
	if h < 180 {
		h = 180
	}
	if h > 360 {
		h = 360
	}
	return h
}

// ProgressFraction is how far current is towards goal, clamped to [0, 1].
// A row without a goal reports 0.
func ProgressFraction(row analysis.MetricRow) float64 {
	if !row.HasGoals || row.Goal <= 0 || math.IsNaN(row.Current) {
		return 0
	}
	f := row.Current / row.Goal
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Truncate shortens s to at most n runes, keeping the tail behind an
// ellipsis so the most specific part stays visible.
func Truncate(s string, n int) string {
	if n <= 1 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return "…" + string(r[len(r)-(n-1):])
}

// NormalizeServer cleans a server origin typed by the user: surrounding
// space and trailing slashes go, and a bare host:port gets http://.
// An empty input yields fallback.
func NormalizeServer(raw, fallback string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	s = strings.TrimRight(s, "/")
	if u, err := url.Parse(s); err != nil || u.Host == "" {
		return fallback
	}
	return s
}

// VisibleNotifications returns the newest max entries of a notification
// stack (oldest first), so a burst of errors cannot push the forms off screen.
func VisibleNotifications[T any](stack []T, max int) []T {
	if max <= 0 {
		return nil
	}
	if len(stack) <= max {
		return stack
	}
	return stack[len(stack)-max:]
}
