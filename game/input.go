package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lifeengine/ui"
)

// Camera controls.
const (
	zoomStep = 0.1 // Zoom change per wheel notch
	panSpeed = 8   // Screen pixels per frame for arrow keys
)

// Update handles input, then runs stepsPerUpdate ticks unless paused.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	g.UpdateHeadless()
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps per update with < > (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.changeSpeed(-1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.changeSpeed(1)
	}

	if rl.IsKeyPressed(rl.KeyR) {
		g.Reset()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyZero) {
		g.cam.Reset()
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		g.overlays.HandleKeyPress(key)
	}

	g.handleCamera()
	g.handleSelection()
}

// handleCamera zooms with the mouse wheel over the grid and pans with a
// middle-button drag or the arrow keys.
func (g *Game) handleCamera() {
	mouse := rl.GetMousePosition()
	if g.overGrid(mouse) {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			g.cam.ZoomAt(mouse.X, mouse.Y, 1+wheel*zoomStep)
		}
	}

	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		g.cam.Pan(-d.X, -d.Y)
	}

	var dx, dy float32
	if rl.IsKeyDown(rl.KeyLeft) {
		dx -= panSpeed
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dx += panSpeed
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= panSpeed
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += panSpeed
	}
	if dx != 0 || dy != 0 {
		g.cam.Pan(dx, dy)
	}
}

// overGrid reports whether a screen position lies over the grid area.
func (g *Game) overGrid(p rl.Vector2) bool {
	return p.X >= 0 && p.Y >= 0 &&
		p.X < float32(g.cfg.Derived.GridPixelsW) && p.Y < float32(g.cfg.Derived.GridPixelsH)
}

// applyMenu applies the buttons pressed in the side menu.
func (g *Game) applyMenu(a ui.MenuActions) {
	if a.TogglePause {
		g.paused = !g.paused
	}
	if a.SpeedDown {
		g.changeSpeed(-1)
	}
	if a.SpeedUp {
		g.changeSpeed(1)
	}
	if a.ToggleFood {
		g.overlays.Toggle(ui.OverlayFood)
	}
	if a.Reset {
		g.Reset()
	}
}

func (g *Game) changeSpeed(delta int) {
	g.stepsPerUpdate = min(max(g.stepsPerUpdate+delta, MinSpeed), MaxSpeed)
}
