package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID identifies a toggleable view option.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayMagnify OverlayID = "magnify"
	OverlayAxes    OverlayID = "axes"
	OverlayInfo    OverlayID = "info"
	OverlayEvents  OverlayID = "events"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // Keyboard key to toggle (0 = no key)
	KeyLabel  string // Key label for display
	Exclusive []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates an empty registry.
func NewOverlayRegistry() *OverlayRegistry {
	return &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
}

// DefaultOverlays registers the options available to a presentation.
// Magnify and axes only exist in the orbit view; the event view can show the
// unfiltered render instead of events.
func DefaultOverlays(orbit, events bool) *OverlayRegistry {
	r := NewOverlayRegistry()
	if orbit {
		r.Register(OverlayDescriptor{ID: OverlayMagnify, Name: "Magnify", Key: rl.KeyM, KeyLabel: "M"})
		r.Register(OverlayDescriptor{ID: OverlayAxes, Name: "Axes", Key: rl.KeyA, KeyLabel: "A"})
	}
	if events {
		r.Register(OverlayDescriptor{ID: OverlayEvents, Name: "Events", Key: rl.KeyE, KeyLabel: "E"})
		r.SetEnabled(OverlayEvents, true)
	}
	r.Register(OverlayDescriptor{ID: OverlayInfo, Name: "Info", Key: rl.KeyI, KeyLabel: "I"})
	return r
}

// Register adds an overlay to the registry, initially disabled.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	if _, ok := r.byID[desc.ID]; !ok {
		r.descriptors = append(r.descriptors, desc)
	}
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled sets an overlay's state. Enabling turns off its exclusive peers.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Has reports whether an overlay is registered.
func (r *OverlayRegistry) Has(id OverlayID) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeys toggles overlays whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
