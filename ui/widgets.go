package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for value/limit, colored by fill level.
func (r *Renderer) DrawBar(x, y int32, label string, value, limit float32, width int32) int32 {
	frac := float32(0)
	if limit > 0 {
		frac = value / limit
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth
	rl.DrawRectangle(barX, y+1, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFillHigh
	switch {
	case frac < 0.25:
		fill = r.Theme.BarFillLow
	case frac < 0.5:
		fill = r.Theme.BarFillMedium
	}
	rl.DrawRectangle(barX, y+1, int32(float32(barWidth)*frac), r.Theme.BarHeight, fill)

	return y + r.Theme.LineHeight
}

// DrawSpacer returns y advanced by amount.
func (r *Renderer) DrawSpacer(y int32, amount int32) int32 {
	return y + amount
}

// DrawWrapped draws text broken into lines that fit width, splitting after
// commas where possible. Returns the new Y position.
func (r *Renderer) DrawWrapped(x, y int32, text string, width int32, color rl.Color) int32 {
	for _, line := range WrapText(text, width, func(s string) int32 {
		return rl.MeasureText(s, r.Theme.FontSize)
	}) {
		rl.DrawText(line, x, y, r.Theme.FontSize, color)
		y += r.Theme.LineHeight
	}
	return y
}

// WrapText splits text into lines no wider than width according to measure.
// Breaks prefer the position after a comma; a single token wider than width
// gets a line of its own.
func WrapText(text string, width int32, measure func(string) int32) []string {
	if text == "" {
		return nil
	}

	tokens := strings.SplitAfter(text, ",")
	var lines []string
	var cur strings.Builder
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if cur.Len() > 0 && measure(cur.String()+tok) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		cur.WriteString(tok)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
