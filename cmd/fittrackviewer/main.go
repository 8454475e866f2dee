// FitTrack desktop client.
//
// The window starts in the login / signup region. A silent progress probe at
// startup reuses a live server session when there is one. Network calls run
// off the UI goroutine; widget updates go back through fyne.Do.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"github.com/iafilius/FitTrack/cmd/fittrackviewer/uihelpers"
	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/dashboard"
	"github.com/iafilius/FitTrack/src/session"
	"github.com/iafilius/FitTrack/src/views"
)

const (
	prefLastServer   = "lastServer"
	prefLastUsername = "lastUsername"
	prefSelectedTab  = "selectedTabIndex"
	prefDarkTheme    = "darkTheme"

	minSurfaceWidth = 320
)

// variantTheme pins the default theme to one variant.
type variantTheme struct {
	variant fyne.ThemeVariant
}

func (t *variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, t.variant)
}
func (t *variantTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (t *variantTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (t *variantTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func applyTheme(a fyne.App, dark bool) {
	v := theme.VariantLight
	if dark {
		v = theme.VariantDark
	}
	a.Settings().SetTheme(&variantTheme{variant: v})
}

func main() {
	var serverFlag, logLevel, journalPath string
	flag.StringVar(&serverFlag, "server", "", "FitTrack server origin (default: last used, then "+apiclient.DefaultServer+")")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.StringVar(&journalPath, "journal", "", "Append one JSON line per API call to this file (empty disables)")
	flag.Parse()
	if err := apiclient.SetLogLevel(logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	a := app.NewWithID("io.fittrack.viewer")
	prefs := a.Preferences()
	applyTheme(a, prefs.BoolWithFallback(prefDarkTheme, false))
	server := serverFlag
	if server == "" {
		server = prefs.StringWithFallback(prefLastServer, "")
	}
	server = uihelpers.NormalizeServer(server, apiclient.DefaultServer)

	notes := newNotificationArea()
	opts := []apiclient.Option{apiclient.WithNotifier(notes)}
	var journal *apiclient.Journal
	if journalPath != "" {
		j, err := apiclient.OpenJournal(journalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "journal: %v\n", err)
			os.Exit(2)
		}
		journal = j
		opts = append(opts, apiclient.WithJournal(j))
	}
	client, err := apiclient.New(server, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := a.NewWindow("FitTrack")
	w.Resize(fyne.NewSize(1100, 800))

	renderer := views.NewRenderer(views.NewLayoutGate())
	st := &uiState{app: a, window: w, ctx: ctx, server: server, renderer: renderer, notes: notes}
	st.ctl = session.NewController(client, st)
	st.dash = dashboard.New(client, renderer, st)
	st.ctl.Attach(st.dash)

	w.SetContent(st.build())
	buildMenus(st)

	done := make(chan struct{})
	w.SetOnClosed(func() {
		close(done)
		cancel()
		renderer.ReleaseAll()
		journal.Close()
	})
	go watchWidth(st, done)
	go st.ctl.Probe(ctx)

	w.ShowAndRun()
}

// watchWidth polls the canvas width and re-sizes future chart renders when
// it changes. Surfaces scale the rendered image to fit.
func watchWidth(st *uiState, done <-chan struct{}) {
	t := time.NewTicker(300 * time.Millisecond)
	defer t.Stop()
	prevW := float32(-1)
	for {
		select {
		case <-done:
			return
		case <-t.C:
			c := st.window.Canvas()
			if c == nil {
				continue
			}
			if curW := c.Size().Width; curW != prevW {
				prevW = curW
				resizeCharts(st, curW)
			}
		}
	}
}

func resizeCharts(st *uiState, winW float32) {
	cols := uihelpers.ChartGridColumns(winW)
	st.renderer.SetWidth(uihelpers.ChartRawWidth(winW, cols))
	_, ch := st.renderer.Size()
	mini := uihelpers.ComputeMiniChartHeight(ch)
	fyne.Do(func() {
		for region, s := range st.surfaces {
			h := ch
			if region == views.RegionMacros || region == views.RegionProgress {
				h = mini
			}
			s.img.SetMinSize(fyne.NewSize(minSurfaceWidth, float32(h)))
		}
	})
}

func buildMenus(st *uiState) {
	var exports []*fyne.MenuItem
	for _, region := range views.AllRegions {
		region := region
		exports = append(exports, fyne.NewMenuItem("Export "+string(region)+"…", func() { exportChartPNG(st, region) }))
	}
	fileMenu := fyne.NewMenu("File", append(exports,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Logout", func() { go func() { _ = st.ctl.Logout(st.ctx) }() }),
		fyne.NewMenuItem("Quit", func() { st.window.Close() }),
	)...)
	dark := fyne.NewMenuItem("Dark Theme", nil)
	dark.Checked = st.app.Preferences().BoolWithFallback(prefDarkTheme, false)
	dark.Action = func() {
		dark.Checked = !dark.Checked
		st.app.Preferences().SetBool(prefDarkTheme, dark.Checked)
		applyTheme(st.app, dark.Checked)
	}
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reload", func() { go reload(st) }),
		dark,
	)
	st.window.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu))

	if canv := st.window.Canvas(); canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { go reload(st) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { st.window.Close() })
		}
	}
}

// reload refreshes the data of the authenticated region.
func reload(st *uiState) {
	if !st.ctl.Authenticated() {
		return
	}
	_ = st.dash.LoadProgress(st.ctx)
	_ = st.dash.LoadAnalytics(st.ctx)
}
