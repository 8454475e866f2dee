package views

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// ChartDimensions clamps a raw surface width to a usable chart size.
// Width never drops below 480; height follows at roughly 40% of width,
// clamped to [240, 480].
func ChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 480 {
		w = 480
	}
	h := int(float32(w) * 0.4)
	if h < 240 {
		h = 240
	}
	if h > 480 {
		h = 480
	}
	return w, h
}

// NumericTicks returns up to n tick positions spanning [min,max] using the
// 1, 2, 2.5, 5 x 10^k step pattern.
func NumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		if diff := math.Abs(count - float64(n)); diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var out []float64
	for v := start; v <= end+bestStep*0.5; v += bestStep {
		out = append(out, round6(v))
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

// FormatTick prints an axis value compactly: integers from 100 up, then
// progressively more decimals.
func FormatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 100 || av == 0:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	default:
		return strconv.FormatFloat(v, 'f', 3, 64)
	}
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// valueAxis builds a zero-based y axis that always has a non-empty range,
// since go-chart refuses to render a zero-height domain.
func valueAxis(max float64) chart.YAxis {
	if max <= 0 || math.IsNaN(max) {
		max = 1
	}
	ticks := NumericTicks(0, max, 6)
	top := ticks[len(ticks)-1]
	if top < max {
		top = max
	}
	ct := make([]chart.Tick, 0, len(ticks))
	for _, v := range ticks {
		ct = append(ct, chart.Tick{Value: v, Label: FormatTick(v)})
	}
	return chart.YAxis{
		Range: &chart.ContinuousRange{Min: 0, Max: top},
		Ticks: ct,
	}
}

// indexAxis labels positions 0..len(labels)-1. go-chart derives the x range
// from the ticks, so unlabeled ticks half a step outside the data keep a
// single point from collapsing the domain.
func indexAxis(labels []string) chart.XAxis {
	n := len(labels)
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, l := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
	}
	ticks = append(ticks, chart.Tick{Value: float64(n) - 0.5})
	return chart.XAxis{Ticks: ticks}
}

func maxOf(vals ...[]float64) float64 {
	m := 0.0
	for _, vs := range vals {
		for _, v := range vs {
			if v > m {
				m = v
			}
		}
	}
	return m
}

func indexes(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
