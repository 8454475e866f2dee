package views

import (
	"context"
	"sync"
)

// LayoutGate is closed until the front end reports that its chart surfaces
// have been laid out. Renders wait on it instead of sleeping for a fixed delay.
type LayoutGate struct {
	mu    sync.Mutex
	ready chan struct{}
	open  bool
}

// NewLayoutGate returns a gate in the not-ready state.
func NewLayoutGate() *LayoutGate {
	return &LayoutGate{ready: make(chan struct{})}
}

// MarkReady opens the gate. Extra calls are no-ops.
func (g *LayoutGate) MarkReady() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.open {
		g.open = true
		close(g.ready)
	}
}

// Reset closes the gate again, e.g. when the views are hidden on logout.
func (g *LayoutGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open {
		g.open = false
		g.ready = make(chan struct{})
	}
}

// Ready reports whether the gate is open.
func (g *LayoutGate) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

// Wait blocks until the gate opens or ctx is done.
func (g *LayoutGate) Wait(ctx context.Context) error {
	g.mu.Lock()
	ch := g.ready
	g.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
