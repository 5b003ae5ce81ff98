package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lifeengine/systems"
	"github.com/pthm-cable/lifeengine/ui"
)

// handleSelection selects the organism under a left click inside the grid.
// A right click clears the selection.
func (g *Game) handleSelection() {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.selection = false
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	if !g.overGrid(mouse) {
		return // Menu clicks are handled by raygui
	}

	cx, cy := g.screenToCell(mouse.X, mouse.Y)
	if org := organismAt(g.manager.Organisms(), cx, cy); org != nil {
		g.selected = org.ID
		g.selection = true
	} else {
		g.selection = false
	}
}

// screenToCell converts a pixel position to grid coordinates through the camera.
func (g *Game) screenToCell(px, py float32) (int, int) {
	size := float32(g.cfg.Screen.CellSize)
	wx, wy := g.cam.ScreenToWorld(px, py)
	return int(wx / size), int(wy / size)
}

// organismAt returns the organism with a cell at (x, y), or nil.
func organismAt(organisms []*systems.Organism, x, y int) *systems.Organism {
	for _, org := range organisms {
		if org.Anatomy.Occupies(x-org.X, y-org.Y) {
			return org
		}
	}
	return nil
}

// findOrganism returns the live organism with the given id, or nil.
func findOrganism(organisms []*systems.Organism, id int) *systems.Organism {
	for _, org := range organisms {
		if org.ID == id {
			return org
		}
	}
	return nil
}

// selectedInspectorData builds the inspector view for the selected organism.
// Returns false when nothing is selected or the organism has died.
func (g *Game) selectedInspectorData() (ui.InspectorData, bool) {
	if !g.selection {
		return ui.InspectorData{}, false
	}
	org := findOrganism(g.manager.Organisms(), g.selected)
	if org == nil {
		g.selection = false
		return ui.InspectorData{}, false
	}

	data := ui.InspectorData{
		ID:          org.ID,
		X:           org.X,
		Y:           org.Y,
		Anatomy:     org.Anatomy,
		Energy:      org.Energy,
		Lifetime:    org.Lifetime,
		MaxLifetime: org.Cells() * g.cfg.Organism.LifetimeMultiplier,
		Satiety:     org.Satiety,
		MaxSatiety:  g.cfg.Organism.InitialSatiety,
		Age:         org.Age,
		Meals:       org.Meals,
		Children:    org.Children,
	}
	if org.Brain != nil {
		data.Activations = org.Brain.Activations()
	}
	return data, true
}
