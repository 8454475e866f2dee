// Package views renders chart regions from fetched records.
//
// Each chart region owns at most one live Handle at a time. Handles are kept
// in a Registry that always releases the previous handle of a region before a
// new one is built, so rendering resources are never leaked or doubled.
package views

import "sync"

// Region identifies a chart area of the UI.
type Region string

const (
	RegionProgress         Region = "progress-chart"
	RegionMacros           Region = "macro-chart"
	RegionWeeklySteps      Region = "weekly-steps-chart"
	RegionWeeklyCalories   Region = "weekly-calories-chart"
	RegionWeeklyMacros     Region = "weekly-macro-chart"
	RegionWorkoutFrequency Region = "workout-frequency-chart"
)

// AllRegions lists every chart region.
var AllRegions = []Region{
	RegionProgress, RegionMacros,
	RegionWeeklySteps, RegionWeeklyCalories, RegionWeeklyMacros,
	RegionWorkoutFrequency,
}

// AnalyticsRegions are the weekly charts cleared together.
var AnalyticsRegions = []Region{RegionWeeklySteps, RegionWeeklyCalories, RegionWeeklyMacros}

// Handle is a live chart resource bound to one region.
type Handle interface {
	Region() Region
	Release()
}

// Registry maps regions to their live handle.
type Registry struct {
	mu      sync.Mutex
	handles map[Region]Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: map[Region]Handle{}}
}

// Replace releases the current handle of region (if any) and then calls build.
// A nil handle from build leaves the region empty. The registry lock is held
// for the whole exchange so two replacements of the same region cannot
// interleave.
func (r *Registry) Replace(region Region, build func() (Handle, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.handles[region]; ok {
		delete(r.handles, region)
		old.Release()
	}
	h, err := build()
	if err != nil {
		if h != nil {
			h.Release()
		}
		return err
	}
	if h != nil {
		r.handles[region] = h
	}
	return nil
}

// Release drops the handle of region, if any.
func (r *Registry) Release(region Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.handles[region]; ok {
		delete(r.handles, region)
		h.Release()
	}
}

// ReleaseAll drops every live handle.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for region, h := range r.handles {
		delete(r.handles, region)
		h.Release()
	}
}

// Live reports whether region currently holds a handle.
func (r *Registry) Live(region Region) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[region]
	return ok
}

// Count returns the number of live handles.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
