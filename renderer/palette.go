package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/satview/components"
)

// Scene colors.
var (
	ColorSpace     = rl.Color{R: 0, G: 0, B: 0, A: 255}
	ColorEarth     = rl.Color{R: 40, G: 80, B: 160, A: 255}
	ColorEquator   = rl.Color{R: 90, G: 140, B: 210, A: 255}
	ColorMeridian  = rl.Color{R: 230, G: 70, B: 60, A: 255}
	ColorSun       = rl.Color{R: 255, G: 230, B: 140, A: 255}
	ColorHighlight = rl.Color{R: 255, G: 255, B: 0, A: 255}
	ColorTrail     = rl.Color{R: 255, G: 255, B: 0, A: 160}
)

// KindColor returns the display color of a body category.
func KindColor(k components.Kind) rl.Color {
	switch k {
	case components.KindDebris:
		return rl.Color{R: 255, G: 0, B: 0, A: 255}
	case components.KindPayload:
		return rl.Color{R: 0, G: 110, B: 255, A: 255}
	case components.KindRocketBody:
		return rl.Color{R: 255, G: 165, B: 0, A: 255}
	case components.KindUnknown:
		return rl.Color{R: 0, G: 200, B: 0, A: 255}
	}
	return rl.White
}

// axisColors are forward, up and the third axis.
var axisColors = [3]rl.Color{
	{R: 255, G: 60, B: 60, A: 255},
	{R: 60, G: 255, B: 60, A: 255},
	{R: 60, G: 120, B: 255, A: 255},
}

// dim halves the brightness of c.
func dim(c rl.Color) rl.Color {
	return rl.Color{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}
