package ui

import (
	"fmt"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/satview/renderer"
	"github.com/pthm-cable/satview/scene"
)

// InfoData is what the info panel shows.
type InfoData struct {
	Frame   *scene.Frame
	Hovered *scene.BodyPose
	FPS     int32
	Variant string
}

// InfoSections describes the info panel layout.
func InfoSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID:    "playback",
			Title: "Playback",
			Fields: []FieldDescriptor{
				{ID: "variant", Label: "View", Widget: WidgetText, TextGetter: func(d any) string { return d.(*InfoData).Variant }},
				{ID: "epoch", Label: "Epoch", Widget: WidgetText, TextGetter: func(d any) string { return d.(*InfoData).Frame.EpochLabel }},
				{ID: "step", Label: "Step", Widget: WidgetText, TextGetter: func(d any) string {
					f := d.(*InfoData).Frame
					return fmt.Sprintf("%d + %.2f", f.Step, f.T)
				}},
				{ID: "speed", Label: "Speed", Widget: WidgetText, Format: "x%.0f", Getter: func(d any) float32 { return float32(d.(*InfoData).Frame.Speed) }},
				{ID: "progress", Label: "Progress", Widget: WidgetBar, Getter: func(d any) float32 { return float32(d.(*InfoData).Frame.Progress) }},
				{ID: "fps", Label: "FPS", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(d.(*InfoData).FPS) }},
			},
		},
		{
			ID:      "body",
			Title:   "Body",
			Visible: func(d any) bool { return d.(*InfoData).Hovered != nil },
			Fields: []FieldDescriptor{
				{ID: "name", Label: "Name", Widget: WidgetText, TextGetter: func(d any) string { return d.(*InfoData).Hovered.Name }},
				{ID: "id", Label: "NORAD", Widget: WidgetText, TextGetter: func(d any) string { return strconv.Itoa(d.(*InfoData).Hovered.ID) }},
				{ID: "kind", Label: "Type", Widget: WidgetText, TextGetter: func(d any) string { return d.(*InfoData).Hovered.Kind.String() }},
				{ID: "color", Label: "Color", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color { return renderer.KindColor(d.(*InfoData).Hovered.Kind) }},
				{ID: "radius", Label: "Radius", Widget: WidgetText, Format: "%.0f km", Getter: func(d any) float32 {
					return float32(r3.Norm(d.(*InfoData).Hovered.Position))
				}},
			},
		},
	}
}

// InfoPanel draws the descriptor-driven info panel.
type InfoPanel struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewInfoPanel creates an info panel at (x, y).
func NewInfoPanel(x, y, width int32) *InfoPanel {
	return &InfoPanel{renderer: NewRenderer(), sections: InfoSections(), x: x, y: y, width: width}
}

// Draw renders the panel.
func (p *InfoPanel) Draw(data *InfoData) {
	r := p.renderer
	h := r.Theme.Padding * 2
	for _, sd := range p.sections {
		h += r.SectionHeight(sd, data)
	}
	r.DrawPanel(p.x, p.y, p.width, h)

	y := p.y + r.Theme.Padding
	for _, sd := range p.sections {
		y = r.DrawSection(p.x+r.Theme.Padding, y, sd, data, p.width-2*r.Theme.Padding)
	}
}
