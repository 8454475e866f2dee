package views

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/FitTrack/src/analysis"
	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/types"
)

// Surface is where a region's image is shown.
type Surface interface {
	Show(img image.Image)
	Clear()
}

var (
	colorCurrent  = drawing.Color{R: 102, G: 126, B: 234, A: 255}
	colorGoal     = drawing.Color{R: 118, G: 75, B: 162, A: 255}
	colorProtein  = drawing.Color{R: 255, G: 99, B: 132, A: 255}
	colorCarbs    = drawing.Color{R: 54, G: 162, B: 235, A: 255}
	colorFats     = drawing.Color{R: 255, G: 205, B: 86, A: 255}
	workoutColors = []drawing.Color{
		{R: 255, G: 99, B: 132, A: 255},
		{R: 54, G: 162, B: 235, A: 255},
		{R: 255, G: 205, B: 86, A: 255},
		{R: 75, G: 192, B: 192, A: 255},
		{R: 153, G: 102, B: 255, A: 255},
		{R: 255, G: 159, B: 64, A: 255},
	}
)

// chartHandle is the live output of one region: either a rendered chart or
// a placeholder message.
type chartHandle struct {
	region  Region
	img     image.Image
	message string
	surface Surface
}

func (h *chartHandle) Region() Region { return h.region }

func (h *chartHandle) Release() {
	if h.surface != nil {
		h.surface.Clear()
	}
}

// Renderer draws every chart region. It owns the handle registry and waits
// on the layout gate before drawing.
type Renderer struct {
	reg  *Registry
	gate *LayoutGate

	mu       sync.Mutex
	surfaces map[Region]Surface
	width    int
	height   int
	last     map[Region]*chartHandle
}

// NewRenderer returns a renderer with the default 800px chart width.
// A nil gate is treated as always ready.
func NewRenderer(gate *LayoutGate) *Renderer {
	if gate == nil {
		gate = NewLayoutGate()
		gate.MarkReady()
	}
	w, h := ChartDimensions(800)
	return &Renderer{
		reg:      NewRegistry(),
		gate:     gate,
		surfaces: map[Region]Surface{},
		width:    w,
		height:   h,
		last:     map[Region]*chartHandle{},
	}
}

// Registry exposes the handle registry.
func (r *Renderer) Registry() *Registry { return r.reg }

// Gate returns the layout gate charts wait on.
func (r *Renderer) Gate() *LayoutGate { return r.gate }

// Bind attaches a surface to a region. Unbound regions still render; the
// image is only kept in memory.
func (r *Renderer) Bind(region Region, s Surface) {
	r.mu.Lock()
	r.surfaces[region] = s
	r.mu.Unlock()
}

// SetWidth resizes subsequent charts from a raw surface width.
func (r *Renderer) SetWidth(rawW int) {
	w, h := ChartDimensions(rawW)
	r.mu.Lock()
	r.width, r.height = w, h
	r.mu.Unlock()
}

// Size returns the current chart size.
func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Snapshot returns the image currently shown for region and, when it is a
// placeholder, its message.
func (r *Renderer) Snapshot(region Region) (image.Image, string, bool) {
	r.mu.Lock()
	h, ok := r.last[region]
	r.mu.Unlock()
	if !ok || !r.reg.Live(region) {
		return nil, "", false
	}
	return h.img, h.message, true
}

// RenderProgress draws Current vs Goal bars for the five metrics, or the
// no-goals placeholder.
func (r *Renderer) RenderProgress(ctx context.Context, rep analysis.ProgressReport) error {
	if !rep.HasGoals {
		return r.Placeholder(ctx, RegionProgress, MsgNoGoals)
	}
	return r.draw(ctx, RegionProgress, func(w, h int) (image.Image, error) {
		bars := progressBars(rep)
		vals := make([]float64, len(bars))
		for i, b := range bars {
			vals[i] = b.Value
		}
		barW, spacing := barGeometry(w, len(bars))
		bc := chart.BarChart{
			Title:      "Current vs Goals",
			Width:      w,
			Height:     h,
			BarWidth:   barW,
			BarSpacing: spacing,
			Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
			YAxis:      valueAxis(maxOf(vals)),
			Bars:       bars,
		}
		return toImage(bc)
	})
}

// progressBars pairs each metric's current bar with its goal bar. BarChart
// has no legend, so both labels name the metric and the series.
func progressBars(rep analysis.ProgressReport) []chart.Value {
	bars := make([]chart.Value, 0, 2*len(rep.Rows))
	for _, row := range rep.Rows {
		name := string(row.Metric)
		unit := ""
		if row.Metric.Fractional() {
			unit = " (g)"
		}
		bars = append(bars,
			chart.Value{Label: name + unit, Value: row.Current, Style: barStyle(colorCurrent)},
			chart.Value{Label: name + " goal" + unit, Value: row.Goal, Style: barStyle(colorGoal)},
		)
	}
	return bars
}

// RenderMacros draws the protein / carbohydrates / fats donut.
func (r *Renderer) RenderMacros(ctx context.Context, sum types.Sums) error {
	if analysis.MacroTotal(sum) <= 0 {
		return r.Placeholder(ctx, RegionMacros, MsgNoMacros)
	}
	return r.draw(ctx, RegionMacros, func(w, h int) (image.Image, error) {
		var values []chart.Value
		add := func(label string, v float64, c drawing.Color) {
			if v > 0 {
				values = append(values, chart.Value{Label: label, Value: v, Style: chart.Style{FillColor: c, StrokeColor: drawing.ColorWhite, StrokeWidth: 2}})
			}
		}
		add("Protein", sum.Protein, colorProtein)
		add("Carbohydrates", sum.Carbohydrates, colorCarbs)
		add("Fats", sum.Fats, colorFats)
		dc := chart.DonutChart{
			Title:  "Today's Macros",
			Width:  h,
			Height: h,
			Values: values,
		}
		return toImage(dc)
	})
}

// RenderWeekly draws the three weekly charts from a chronological window.
// Each region falls back to its own placeholder when window is empty.
func (r *Renderer) RenderWeekly(ctx context.Context, window []types.ActivityLog) error {
	if len(window) == 0 {
		if err := r.Placeholder(ctx, RegionWeeklySteps, MsgNoSteps); err != nil {
			return err
		}
		if err := r.Placeholder(ctx, RegionWeeklyCalories, MsgNoCalories); err != nil {
			return err
		}
		return r.Placeholder(ctx, RegionWeeklyMacros, MsgNoMacroData)
	}
	labels := analysis.Labels(window)
	xs := indexes(len(window))
	steps := analysis.Series(window, func(l types.ActivityLog) float64 { return float64(l.Steps) })
	calories := analysis.Series(window, func(l types.ActivityLog) float64 { return float64(l.Calories) })
	protein := analysis.Series(window, func(l types.ActivityLog) float64 { return l.Protein })
	carbs := analysis.Series(window, func(l types.ActivityLog) float64 { return l.Carbohydrates })
	fats := analysis.Series(window, func(l types.ActivityLog) float64 { return l.Fats })

	err := r.draw(ctx, RegionWeeklySteps, func(w, h int) (image.Image, error) {
		ch := chart.Chart{
			Title:      "Daily Steps",
			Width:      w,
			Height:     h,
			Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
			XAxis:      indexAxis(labels),
			YAxis:      valueAxis(maxOf(steps)),
			Series:     []chart.Series{lineSeries("Daily Steps", xs, steps, colorCurrent)},
		}
		return toImage(ch)
	})
	if err != nil {
		return err
	}

	err = r.draw(ctx, RegionWeeklyCalories, func(w, h int) (image.Image, error) {
		bars := make([]chart.Value, len(calories))
		for i, v := range calories {
			bars[i] = chart.Value{Label: labels[i], Value: v, Style: barStyle(colorGoal)}
		}
		barW, spacing := barGeometry(w, len(bars))
		bc := chart.BarChart{
			Title:      "Daily Calories",
			Width:      w,
			Height:     h,
			BarWidth:   barW,
			BarSpacing: spacing,
			Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
			YAxis:      valueAxis(maxOf(calories)),
			Bars:       bars,
		}
		return toImage(bc)
	})
	if err != nil {
		return err
	}

	return r.draw(ctx, RegionWeeklyMacros, func(w, h int) (image.Image, error) {
		ch := chart.Chart{
			Title:      "Daily Macros (g)",
			Width:      w,
			Height:     h,
			Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
			XAxis:      indexAxis(labels),
			YAxis:      valueAxis(maxOf(protein, carbs, fats)),
			Series: []chart.Series{
				lineSeries("Protein", xs, protein, colorProtein),
				lineSeries("Carbs", xs, carbs, colorCarbs),
				lineSeries("Fats", xs, fats, colorFats),
			},
		}
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
		return toImage(ch)
	})
}

// RenderWorkoutFrequency draws a pie of workout counts per type.
func (r *Renderer) RenderWorkoutFrequency(ctx context.Context, workouts []types.WorkoutLog) error {
	counts := analysis.WorkoutTypeCounts(workouts)
	if len(counts) == 0 {
		return r.Placeholder(ctx, RegionWorkoutFrequency, MsgNoWorkouts)
	}
	return r.draw(ctx, RegionWorkoutFrequency, func(w, h int) (image.Image, error) {
		values := make([]chart.Value, len(counts))
		for i, c := range counts {
			values[i] = chart.Value{
				Label: c.Type,
				Value: float64(c.Count),
				Style: chart.Style{FillColor: workoutColors[i%len(workoutColors)], StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
			}
		}
		pc := chart.PieChart{
			Title:  "Workout Frequency",
			Width:  h,
			Height: h,
			Values: values,
		}
		return toImage(pc)
	})
}

// ClearAnalytics releases the weekly charts and shows "No data available"
// in each of them.
func (r *Renderer) ClearAnalytics(ctx context.Context) error {
	for _, region := range AnalyticsRegions {
		if err := r.Placeholder(ctx, region, MsgNoData); err != nil {
			return err
		}
	}
	return nil
}

// Placeholder replaces region's content with a text message.
func (r *Renderer) Placeholder(ctx context.Context, region Region, msg string) error {
	if err := r.gate.Wait(ctx); err != nil {
		return err
	}
	w, h := r.Size()
	return r.replace(region, placeholder(w, h, msg), msg)
}

// ReleaseAll drops every chart handle and clears the bound surfaces.
func (r *Renderer) ReleaseAll() {
	r.reg.ReleaseAll()
	r.mu.Lock()
	r.last = map[Region]*chartHandle{}
	r.mu.Unlock()
}

// draw waits for layout, renders with build and swaps the region's handle.
// A go-chart failure falls back to the generic placeholder so the surface
// still updates.
func (r *Renderer) draw(ctx context.Context, region Region, build func(w, h int) (image.Image, error)) error {
	if err := r.gate.Wait(ctx); err != nil {
		return err
	}
	w, h := r.Size()
	img, err := build(w, h)
	if err != nil {
		apiclient.Warnf("%s render error: %v; showing placeholder", region, err)
		return r.replace(region, placeholder(w, h, MsgNoData), MsgNoData)
	}
	return r.replace(region, img, "")
}

func (r *Renderer) replace(region Region, img image.Image, msg string) error {
	r.mu.Lock()
	surface := r.surfaces[region]
	r.mu.Unlock()
	return r.reg.Replace(region, func() (Handle, error) {
		h := &chartHandle{region: region, img: img, message: msg, surface: surface}
		if surface != nil {
			surface.Show(img)
		}
		r.mu.Lock()
		r.last[region] = h
		r.mu.Unlock()
		return h, nil
	})
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// toImage renders a go-chart chart to PNG and decodes it back.
func toImage(c renderable) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

func barStyle(c drawing.Color) chart.Style {
	return chart.Style{FillColor: c.WithAlpha(160), StrokeColor: c, StrokeWidth: 2}
}

func lineSeries(name string, xs, ys []float64, c drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: c,
			StrokeWidth: 2,
			DotColor:    c,
			DotWidth:    3,
		},
	}
}

// barGeometry splits the usable width between n bars and their gaps.
func barGeometry(width, n int) (int, int) {
	if n <= 0 {
		return 40, 20
	}
	slot := (width - 120) / n
	if slot < 6 {
		slot = 6
	}
	barW := slot * 2 / 3
	return barW, slot - barW
}
