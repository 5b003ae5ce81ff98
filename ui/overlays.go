package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayFood      OverlayID = "food"
	OverlaySighted   OverlayID = "sighted"
	OverlayKillSites OverlayID = "kill_sites"
	OverlayGridLines OverlayID = "grid_lines"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display
	Category    string      // Grouping (e.g., "world", "debug")
	Default     bool        // Enabled at startup
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayFood,
		Name:        "Food",
		Description: "Draw food-bearing cells",
		Key:         rl.KeyF,
		KeyLabel:    "F",
		Category:    "world",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlaySighted,
		Name:        "Brains",
		Description: "Outline organisms that steer with a brain",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "world",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayKillSites,
		Name:        "Kill Sites",
		Description: "Mark killer activations waiting for the next tick",
		Key:         rl.KeyK,
		KeyLabel:    "K",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayGridLines,
		Name:        "Grid Lines",
		Description: "Draw the world grid",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
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

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// Categories returns the distinct categories in registration order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	seen := make(map[string]bool)
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// ByCategory returns the overlays in a category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			out = append(out, desc)
		}
	}
	return out
}
