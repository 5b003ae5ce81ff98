package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lifeengine/components"
)

// InspectorData holds all the data needed to render the inspector panel.
type InspectorData struct {
	ID          int
	X, Y        int
	Anatomy     components.Anatomy
	Energy      int
	Lifetime    int
	MaxLifetime int
	Satiety     float64
	MaxSatiety  float64
	Age         int
	Meals       int
	Children    int
	Activations [][]float64 // Hidden layer outputs, nil without a brain
}

// Inspector renders the selected organism.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	x := ins.x + padding
	contentWidth := ins.width - padding*2

	r.DrawPanel(ins.x, ins.y, ins.width, ins.height(data, contentWidth))

	y := ins.y + padding
	y = ins.drawPreview(x, y, contentWidth, 80, data.Anatomy)
	y = r.DrawSpacer(y, 6)

	rl.DrawText(fmt.Sprintf("Organism #%d", data.ID), x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	y = r.DrawSectionHeader(x, y, "Stats")
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("%d, %d", data.X, data.Y))
	y = r.DrawLabelValue(x, y, "Cells", fmt.Sprintf("%d", len(data.Anatomy)))
	y = r.DrawLabelValue(x, y, "Energy", fmt.Sprintf("%d", data.Energy))
	y = r.DrawLabelValue(x, y, "Age", fmt.Sprintf("%d", data.Age))
	y = r.DrawLabelValue(x, y, "Meals", fmt.Sprintf("%d", data.Meals))
	y = r.DrawLabelValue(x, y, "Children", fmt.Sprintf("%d", data.Children))
	y = r.DrawBar(x, y, "Lifetime", float32(data.Lifetime), float32(data.MaxLifetime), contentWidth)
	y = r.DrawBar(x, y, "Satiety", float32(data.Satiety), float32(data.MaxSatiety), contentWidth)
	y = r.DrawSpacer(y, 6)

	if data.Activations != nil || data.Anatomy.Count(components.Eye) > 0 {
		y = ins.drawBrain(x, y, data, contentWidth)
	}

	y = r.DrawSectionHeader(x, y, "Anatomy")
	y = r.DrawWrapped(x, y, data.Anatomy.Encode(), contentWidth, r.Theme.ValueColor)

	return y
}

func (ins *Inspector) height(data InspectorData, contentWidth int32) int32 {
	r := ins.renderer
	lines := WrapText(data.Anatomy.Encode(), contentWidth, func(s string) int32 {
		return rl.MeasureText(s, r.Theme.FontSize)
	})
	h := r.Theme.Padding*2 + 80 + 6 + r.Theme.LineHeight + 4
	h += (r.Theme.LineHeight+2)*2 + r.Theme.LineHeight*8 + 6
	h += r.Theme.LineHeight * int32(len(lines))
	if data.Activations != nil || data.Anatomy.Count(components.Eye) > 0 {
		h += r.Theme.LineHeight + 2 + r.Theme.LineHeight*int32(2+len(data.Activations)) + 6
	}
	return h
}

func (ins *Inspector) drawBrain(x, y int32, data InspectorData, width int32) int32 {
	r := ins.renderer

	y = r.DrawSectionHeader(x, y, "Brain")
	if data.Activations == nil {
		rl.DrawText("No Mover: eyes unused", x, y, r.Theme.FontSize, r.Theme.LabelColor)
		return y + r.Theme.LineHeight*2 + 6
	}

	y = r.DrawLabelValue(x, y, "Eyes", fmt.Sprintf("%d", data.Anatomy.Count(components.Eye)))
	y = r.DrawLabelValue(x, y, "Hidden", fmt.Sprintf("%d", len(data.Activations)))

	// One strip per hidden layer, brighter cells are closer to +1
	for i, layer := range data.Activations {
		rl.DrawText(fmt.Sprintf("L%d", i+1), x, y, r.Theme.FontSize, r.Theme.LabelColor)
		if n := int32(len(layer)); n > 0 {
			stripX := x + 24
			cw := (width - 24) / n
			for j, v := range layer {
				shade := uint8(clamp01((v+1)/2) * 255)
				rl.DrawRectangle(stripX+int32(j)*cw, y+1, cw-1, r.Theme.BarHeight, rl.Color{R: shade, G: shade, B: 80, A: 255})
			}
		}
		y += r.Theme.LineHeight
	}
	return y + 6
}

// drawPreview renders the anatomy scaled to fit the preview box.
func (ins *Inspector) drawPreview(x, y, width, height int32, anatomy components.Anatomy) int32 {
	rl.DrawRectangle(x, y, width, height, rl.Color{R: 25, G: 30, B: 35, A: 255})
	rl.DrawRectangleLinesEx(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}, 1, rl.Color{R: 50, G: 60, B: 70, A: 255})

	if len(anatomy) == 0 {
		return y + height
	}

	b := anatomy.Bounds()
	padding := float32(10)
	availWidth := float32(width) - padding*2
	availHeight := float32(height) - padding*2

	cellSize := availWidth / float32(b.Width())
	if s := availHeight / float32(b.Height()); s < cellSize {
		cellSize = s
	}
	if cellSize > 20 {
		cellSize = 20
	}

	offsetX := float32(x) + padding + (availWidth-float32(b.Width())*cellSize)/2
	offsetY := float32(y) + padding + (availHeight-float32(b.Height())*cellSize)/2
	gap := cellSize * 0.1

	for _, p := range anatomy {
		cx := offsetX + float32(p.DX-b.MinDX)*cellSize
		cy := offsetY + float32(p.DY-b.MinDY)*cellSize
		rl.DrawRectangle(int32(cx+gap), int32(cy+gap), int32(cellSize-gap*2), int32(cellSize-gap*2), CellColor(p.Cell))
		if p.Cell.Kind == components.Eye {
			drawFacing(cx, cy, cellSize, p.Cell.Facing)
		}
	}

	return y + height
}

// drawFacing marks the edge an eye looks through.
func drawFacing(cx, cy, size float32, facing components.Direction) {
	dx, dy := facing.Delta()
	mid := size / 2
	ex := cx + mid + float32(dx)*mid*0.8
	ey := cy + mid + float32(dy)*mid*0.8
	rl.DrawLineV(rl.Vector2{X: cx + mid, Y: cy + mid}, rl.Vector2{X: ex, Y: ey}, rl.Black)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
