package views

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder messages drawn instead of a chart.
const (
	MsgNoGoals        = "Set goals to see progress chart"
	MsgNoMacros       = "Log some food to see macro breakdown"
	MsgNoSteps        = "No steps data available"
	MsgNoCalories     = "No calorie data available"
	MsgNoMacroData    = "No macro data available"
	MsgNoWorkouts     = "No workout data available"
	MsgNoData         = "No data available"
	MsgWorkoutFailure = "Failed to load workout data"
)

var (
	placeholderBg   = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	placeholderText = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 255}
)

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBg), image.Point{}, draw.Src)
	return img
}

// placeholder draws text centred on a blank w x h image.
func placeholder(w, h int, text string) image.Image {
	img := blank(w, h)
	text = strings.TrimSpace(text)
	if text == "" {
		return img
	}
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(placeholderText), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := (w - tw) / 2
	if x < 4 {
		x = 4
	}
	y := h/2 + face.Metrics().Ascent.Ceil()/2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return img
}
