package scene

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant is returned by VariantByName for unrecognized names.
var ErrUnknownVariant = errors.New("scene: unknown variant")

// Variant selects how a scene is presented.
type Variant struct {
	Name                   string
	HasEventFilter         bool // Post-process frames through the event camera
	IsInteractiveOrbitView bool // Free orbit camera around Earth with hover and toggles
	Autoplay               bool // Start playing on the first tick
	FirstPerson            bool // Camera rides the observing body
}

// Presentation variants.
var (
	Orbit = Variant{Name: "orbit", IsInteractiveOrbitView: true, Autoplay: true}
	View  = Variant{Name: "view", FirstPerson: true}
	Event = Variant{Name: "event", FirstPerson: true, HasEventFilter: true}
)

// Variants lists the presets in display order.
func Variants() []Variant {
	return []Variant{Orbit, View, Event}
}

// VariantByName returns the preset with the given name.
func VariantByName(name string) (Variant, error) {
	for _, v := range Variants() {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}
