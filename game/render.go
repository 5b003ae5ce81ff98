package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lifeengine/components"
	"github.com/pthm-cable/lifeengine/ui"
)

// controlsHelp is the key legend shown at the bottom of the menu.
const controlsHelp = "Space: pause, < >: speed, R: reset, H: overlays, F/B/K/G: toggle, click: inspect, wheel/arrows: zoom/pan, 0: fit"

// Draw renders the grid, overlays, menu and inspector.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	snap := g.manager.Snapshot()
	data, selected := g.selectedInspectorData()

	rl.BeginScissorMode(0, 0, g.cfg.Derived.GridPixelsW, g.cfg.Derived.GridPixelsH)
	rl.BeginMode2D(g.camera2D())
	g.drawGrid(&snap)
	if selected {
		drawFootprintBox(data.X, data.Y, data.Anatomy, int32(g.cfg.Screen.CellSize), rl.Yellow)
	}
	rl.EndMode2D()
	rl.EndScissorMode()

	if selected {
		g.inspector.Draw(data)
	}

	actions, y := g.menu.Draw(ui.MenuData{
		Tick:        g.tick,
		Population:  snap.Data.Population,
		Births:      snap.Data.Births,
		AgeDeaths:   snap.Data.AgeDeaths,
		Hunger:      snap.Data.HungerDeaths,
		Kills:       snap.Data.KillDeaths,
		Reseeds:     snap.Data.Reseeds,
		BestSpecies: snap.Data.BestSpecies,
		BestSuccess: snap.Data.BestSuccess,
		Speed:       g.stepsPerUpdate,
		FPS:         rl.GetFPS(),
		Paused:      g.paused,
		ShowFood:    g.overlays.IsEnabled(ui.OverlayFood),
	})
	g.controls.SetPosition(g.cfg.Derived.GridPixelsW, y)
	g.controls.Draw(g.overlays)
	g.menu.DrawControls(controlsHelp)

	rl.EndDrawing()

	// Applied after EndDrawing so the frame shows a consistent state
	g.applyMenu(actions)
}

// camera2D converts the grid camera to raylib's camera.
func (g *Game) camera2D() rl.Camera2D {
	return rl.Camera2D{
		Offset: rl.NewVector2(g.cam.ViewportW/2, g.cam.ViewportH/2),
		Target: rl.NewVector2(g.cam.X, g.cam.Y),
		Zoom:   g.cam.Zoom,
	}
}

// visibleCells returns the half-open cell range covered by the camera view.
func (g *Game) visibleCells(w, h int) (x0, y0, x1, y1 int) {
	size := float32(g.cfg.Screen.CellSize)
	minX, minY, maxX, maxY := g.cam.VisibleWorldBounds()
	x0 = max(int(minX/size), 0)
	y0 = max(int(minY/size), 0)
	x1 = min(int(maxX/size)+1, w)
	y1 = min(int(maxY/size)+1, h)
	return
}

// drawGrid draws empty space, food and every visible organism cell in world
// coordinates. The caller sets up the camera.
func (g *Game) drawGrid(s *Snapshot) {
	size := int32(g.cfg.Screen.CellSize)
	x0, y0, x1, y1 := g.visibleCells(s.Width, s.Height)

	rl.DrawRectangle(0, 0, int32(s.Width)*size, int32(s.Height)*size, ui.EmptyColor)

	if g.overlays.IsEnabled(ui.OverlayFood) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				if s.FoodAt(x, y) {
					rl.DrawRectangle(int32(x)*size, int32(y)*size, size, size, ui.FoodColor)
				}
			}
		}
	}

	for _, org := range s.Organisms {
		for _, p := range org.Anatomy {
			x, y := org.X+p.DX, org.Y+p.DY
			if x < x0 || y < y0 || x >= x1 || y >= y1 {
				continue
			}
			rl.DrawRectangle(int32(x)*size, int32(y)*size, size, size, ui.CellColor(p.Cell))
		}
	}

	if g.overlays.IsEnabled(ui.OverlaySighted) {
		for _, org := range s.Organisms {
			if org.Sighted {
				drawFootprintBox(org.X, org.Y, org.Anatomy, size, rl.SkyBlue)
			}
		}
	}

	if g.overlays.IsEnabled(ui.OverlayKillSites) {
		for _, k := range s.Kills {
			cx := int32(k.X)*size + size/2
			cy := int32(k.Y)*size + size/2
			rl.DrawCircleLines(cx, cy, float32(size), rl.Red)
		}
	}

	// Lines only once cells are large enough on screen
	if g.overlays.IsEnabled(ui.OverlayGridLines) && float32(size)*g.cam.Zoom >= 4 {
		lineColor := rl.Color{R: 60, G: 60, B: 60, A: 255}
		w, h := int32(s.Width)*size, int32(s.Height)*size
		for x := int32(0); x <= w; x += size {
			rl.DrawLine(x, 0, x, h, lineColor)
		}
		for y := int32(0); y <= h; y += size {
			rl.DrawLine(0, y, w, y, lineColor)
		}
	}
}

// drawFootprintBox outlines the bounding box of an anatomy placed at (x, y).
func drawFootprintBox(x, y int, anatomy components.Anatomy, size int32, color rl.Color) {
	b := anatomy.Bounds()
	rl.DrawRectangleLines(
		int32(x+b.MinDX)*size-1,
		int32(y+b.MinDY)*size-1,
		int32(b.Width())*size+2,
		int32(b.Height())*size+2,
		color,
	)
}
