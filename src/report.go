package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/views"
)

// reportSink collects the outcome of every PNG write of one report run.
type reportSink struct {
	mu  sync.Mutex
	err error
}

func (k *reportSink) fail(err error) {
	k.mu.Lock()
	if k.err == nil {
		k.err = err
	}
	k.mu.Unlock()
}

// Err returns the first write failure, if any.
func (k *reportSink) Err() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.err
}

// fileSurface writes a region's image to one PNG file.
type fileSurface struct {
	path string
	sink *reportSink
}

func (s fileSurface) Show(img image.Image) {
	if err := writePNG(s.path, img); err != nil {
		apiclient.Warnf("report: %v", err)
		s.sink.fail(err)
		return
	}
	apiclient.Infof("wrote %s", s.path)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Clear keeps the file: a report outlives the session that drew it, and a
// replacement chart overwrites it in Show.
func (s fileSurface) Clear() {
	apiclient.Debugf("report: released %s", s.path)
}

// reportPath is <dir>/<region>.png.
func reportPath(dir string, region views.Region) string {
	return filepath.Join(dir, string(region)+".png")
}

// bindReportSurfaces creates dir and binds every chart region to a PNG file
// in it. The returned sink reports whether the writes succeeded.
func bindReportSurfaces(r *views.Renderer, dir string) (*reportSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	sink := &reportSink{}
	for _, region := range views.AllRegions {
		r.Bind(region, fileSurface{path: reportPath(dir, region), sink: sink})
	}
	return sink, nil
}
