package main

import (
	"image"
	"image/color"
	"image/png"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"

	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/views"
)

// chartSurface shows one chart region in a canvas.Image. Show and Clear may
// be called from any goroutine.
type chartSurface struct {
	img *canvas.Image
}

func newChartSurface(minW, minH float32) *chartSurface {
	img := canvas.NewImageFromImage(blank(100, 60))
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(minW, minH))
	return &chartSurface{img: img}
}

func (s *chartSurface) Show(img image.Image) {
	fyne.Do(func() {
		s.img.Image = img
		s.img.Refresh()
	})
}

func (s *chartSurface) Clear() {
	fyne.Do(func() {
		s.img.Image = blank(100, 60)
		s.img.Refresh()
	})
}

func (s *chartSurface) object() fyne.CanvasObject { return s.img }

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{R: 248, G: 249, B: 250, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	return img
}

// exportChartPNG saves the live image of region through a save dialog.
func exportChartPNG(st *uiState, region views.Region) {
	img, _, ok := st.renderer.Snapshot(region)
	if !ok || img == nil {
		dialog.ShowInformation("Export", "No chart to export.", st.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img); err != nil {
			apiclient.Warnf("export %s: %v", region, err)
			dialog.ShowError(err, st.window)
		}
	}, st.window)
	fs.SetFileName(string(region) + ".png")
	fs.Show()
}
