// Package ui draws the side menu, the organism inspector and overlay controls.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lifeengine/components"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	ButtonHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		ButtonHeight:   24,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// Grid colors
var (
	EmptyColor = rl.DarkGray
	FoodColor  = rl.Blue
)

// cellColors maps each Kind to its draw color. Index matches the Kind constants.
var cellColors = [...]rl.Color{
	components.Empty:    rl.DarkGray,
	components.Body:     rl.White,
	components.Mouth:    rl.Orange,
	components.Producer: rl.Green,
	components.Mover:    rl.LightGray,
	components.Killer:   rl.Red,
	components.Armor:    rl.Yellow,
	components.Eye:      rl.Purple,
	components.Brain:    rl.Pink,
}

// CellColor returns the draw color for a cell.
func CellColor(c components.Cell) rl.Color {
	if int(c.Kind) < len(cellColors) {
		return cellColors[c.Kind]
	}
	return rl.Magenta
}
