package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MenuData holds everything the side menu shows.
type MenuData struct {
	Tick        int
	Population  int
	Births      int
	AgeDeaths   int
	Hunger      int // Includes contact kills with lifetime left
	Kills       int
	Reseeds     int
	BestSpecies string
	BestSuccess int
	Speed       int
	FPS         int32
	Paused      bool
	ShowFood    bool
}

// MenuActions reports which menu buttons were pressed this frame.
type MenuActions struct {
	TogglePause bool
	SpeedDown   bool
	SpeedUp     bool
	ToggleFood  bool
	Reset       bool
}

// Menu renders the side menu to the right of the grid.
type Menu struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewMenu creates a menu occupying the given screen rectangle.
func NewMenu(x, y, width, height int32) *Menu {
	return &Menu{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// Draw renders the menu and returns the button presses along with the Y
// position below the last drawn element.
func (m *Menu) Draw(data MenuData) (MenuActions, int32) {
	r := m.renderer
	padding := r.Theme.Padding
	x := m.x + padding
	contentWidth := m.width - padding*2

	r.DrawPanel(m.x, m.y, m.width, m.height)

	y := m.y + padding
	rl.DrawText("Life Engine", x, y, 20, rl.White)
	y += 26

	status := "Running"
	statusColor := rl.Green
	if data.Paused {
		status = "PAUSED"
		statusColor = rl.Yellow
	}
	rl.DrawText(status, x, y, r.Theme.HeaderFontSize, statusColor)
	y += r.Theme.LineHeight + 4

	y = r.DrawSectionHeader(x, y, "Simulation")
	y = r.DrawLabelValue(x, y, "Tick", count(data.Tick))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx", data.Speed))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawSpacer(y, 6)

	y = r.DrawSectionHeader(x, y, "Population")
	y = r.DrawLabelValue(x, y, "Alive", count(data.Population))
	y = r.DrawLabelValue(x, y, "Births", count(data.Births))
	y = r.DrawLabelValue(x, y, "Old age", count(data.AgeDeaths))
	y = r.DrawLabelValue(x, y, "Hunger", count(data.Hunger))
	y = r.DrawLabelValue(x, y, "Killed", count(data.Kills))
	y = r.DrawLabelValue(x, y, "Reseeds", count(data.Reseeds))
	y = r.DrawSpacer(y, 6)

	y = r.DrawSectionHeader(x, y, "Best species")
	y = r.DrawLabelValue(x, y, "Success", count(data.BestSuccess))
	best := data.BestSpecies
	if best == "" {
		best = "none yet"
	}
	y = r.DrawWrapped(x, y, best, contentWidth, r.Theme.ValueColor)
	y = r.DrawSpacer(y, 8)

	var actions MenuActions
	bh := float32(r.Theme.ButtonHeight)
	half := float32(contentWidth-4) / 2

	pauseLabel := "Pause"
	if data.Paused {
		pauseLabel = "Resume"
	}
	actions.TogglePause = gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(contentWidth), Height: bh}, pauseLabel)
	y += r.Theme.ButtonHeight + 4

	actions.SpeedDown = gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: bh}, "Speed -")
	actions.SpeedUp = gui.Button(rl.Rectangle{X: float32(x) + half + 4, Y: float32(y), Width: half, Height: bh}, "Speed +")
	y += r.Theme.ButtonHeight + 4

	foodLabel := "Hide food"
	if !data.ShowFood {
		foodLabel = "Show food"
	}
	actions.ToggleFood = gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: bh}, foodLabel)
	actions.Reset = gui.Button(rl.Rectangle{X: float32(x) + half + 4, Y: float32(y), Width: half, Height: bh}, "Reset")
	y += r.Theme.ButtonHeight + 8

	return actions, y
}

// DrawControls renders the key legend along the bottom of the menu.
func (m *Menu) DrawControls(controls string) {
	r := m.renderer
	lines := WrapText(controls, m.width-r.Theme.Padding*2, func(s string) int32 {
		return rl.MeasureText(s, r.Theme.FontSize)
	})
	y := m.y + m.height - int32(len(lines))*r.Theme.LineHeight - r.Theme.Padding
	for _, line := range lines {
		rl.DrawText(line, m.x+r.Theme.Padding, y, r.Theme.FontSize, rl.Gray)
		y += r.Theme.LineHeight
	}
}

// count formats a counter with thousands separators.
func count(n int) string {
	return humanize.Comma(int64(n))
}
