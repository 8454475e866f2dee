package main

import (
	"image/color"
	"sync"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/FitTrack/cmd/fittrackviewer/uihelpers"
	"github.com/iafilius/FitTrack/src/apiclient"
)

const maxVisibleNotifications = 4

var (
	successBG = color.NRGBA{R: 212, G: 237, B: 218, A: 255}
	errorBG   = color.NRGBA{R: 248, G: 215, B: 218, A: 255}
)

type toast struct {
	id  uint64
	obj fyne.CanvasObject
}

// notificationArea stacks transient messages above the content. Each one
// removes itself after its TTL or when its close button is pressed.
type notificationArea struct {
	box *fyne.Container

	mu     sync.Mutex
	nextID uint64
	stack  []toast
}

func newNotificationArea() *notificationArea {
	return &notificationArea{box: container.NewVBox()}
}

// Notify implements apiclient.Notifier.
func (a *notificationArea) Notify(n apiclient.Notification) {
	a.mu.Lock()
	a.nextID++
	id := a.nextID
	a.mu.Unlock()

	bg := successBG
	if n.Kind == apiclient.KindError {
		bg = errorBG
	}
	fyne.Do(func() {
		label := widget.NewLabel(n.Text)
		label.Wrapping = fyne.TextWrapWord
		closeBtn := widget.NewButton("×", func() { a.dismiss(id) })
		closeBtn.Importance = widget.LowImportance
		obj := container.NewStack(canvas.NewRectangle(bg), container.NewBorder(nil, nil, nil, closeBtn, label))
		a.mu.Lock()
		a.stack = append(a.stack, toast{id: id, obj: obj})
		a.mu.Unlock()
		a.refresh()
	})
	if n.TTL > 0 {
		time.AfterFunc(n.TTL, func() { fyne.Do(func() { a.dismiss(id) }) })
	}
}

func (a *notificationArea) dismiss(id uint64) {
	a.mu.Lock()
	for i, t := range a.stack {
		if t.id == id {
			a.stack = append(a.stack[:i], a.stack[i+1:]...)
			break
		}
	}
	a.mu.Unlock()
	a.refresh()
}

// refresh must run on the UI goroutine.
func (a *notificationArea) refresh() {
	a.mu.Lock()
	visible := uihelpers.VisibleNotifications(a.stack, maxVisibleNotifications)
	objs := make([]fyne.CanvasObject, len(visible))
	for i, t := range visible {
		objs[i] = t.obj
	}
	a.mu.Unlock()
	a.box.Objects = objs
	a.box.Refresh()
}
