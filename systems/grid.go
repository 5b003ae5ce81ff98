// Package systems implements the world grid and the organisms living on it.
package systems

import (
	"math/rand"

	"github.com/pthm-cable/lifeengine/components"
	"github.com/pthm-cable/lifeengine/config"
)

// Eye readings. These are the only values an eye ever reports.
const (
	EyeFood     = 0.5  // First thing on the ray is food
	EyeOrganism = -1.0 // First thing on the ray is an organism cell
	EyeNothing  = 0.1  // Ray ran out of range or left the grid
)

// KillEvent is a pending kill recorded by a Killer cell. It is resolved on the
// next occupancy rebuild.
type KillEvent struct {
	X, Y     int
	KillerID int
}

// Grid holds the world-wide spatial state: the food bitmap, the occupancy map
// rebuilt every tick from the live population, and the pending kill queue.
// Organisms change food and the kill queue through Grid methods only.
type Grid struct {
	W, H int

	// Food presence per world cell, row-major
	Food []bool
	// Cell type occupying each world cell, rebuilt by RebuildOccupancy
	Organs []components.Cell

	pendingKills []KillEvent
	cfg          *config.Config
}

// NewGrid creates an empty grid sized from the world config.
func NewGrid(cfg *config.Config) *Grid {
	w, h := cfg.World.Width, cfg.World.Height
	return &Grid{
		W:      w,
		H:      h,
		Food:   make([]bool, w*h),
		Organs: make([]components.Cell, w*h),
		cfg:    cfg,
	}
}

// InBounds reports whether (x, y) is inside the world.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

func (g *Grid) idx(x, y int) int {
	return y*g.W + x
}

// HasFood reports whether (x, y) holds food. Out of bounds holds none.
func (g *Grid) HasFood(x, y int) bool {
	return g.InBounds(x, y) && g.Food[g.idx(x, y)]
}

// SetFood sets or clears food at (x, y). Out of bounds is ignored.
func (g *Grid) SetFood(x, y int, present bool) {
	if g.InBounds(x, y) {
		g.Food[g.idx(x, y)] = present
	}
}

// CellAt returns the occupancy at (x, y). Out of bounds reads as Empty.
func (g *Grid) CellAt(x, y int) components.Cell {
	if !g.InBounds(x, y) {
		return components.Cell{}
	}
	return g.Organs[g.idx(x, y)]
}

// FoodCount returns the number of food-bearing cells.
func (g *Grid) FoodCount() int {
	n := 0
	for _, f := range g.Food {
		if f {
			n++
		}
	}
	return n
}

// ClearFood removes all food.
func (g *Grid) ClearFood() {
	clear(g.Food)
}

// PendingKills returns a copy of the kill events waiting for the next rebuild.
func (g *Grid) PendingKills() []KillEvent {
	return append([]KillEvent(nil), g.pendingKills...)
}

// RebuildOccupancy redraws the occupancy map from the population and resolves
// pending kills against it. A non-Armor cell orthogonally next to a kill site
// owned by another organism marks its organism killed; removal is left to the
// caller. Must run exactly once per tick before organisms act.
func (g *Grid) RebuildOccupancy(organisms []*Organism) {
	clear(g.Organs)

	for _, org := range organisms {
		for _, p := range org.Anatomy {
			x, y := org.X+p.DX, org.Y+p.DY

			if p.Cell.Kind != components.Armor && !org.Killed {
				for _, k := range g.pendingKills {
					if k.KillerID != org.ID && killReaches(k, x, y) {
						org.kill(CauseKilled)
						break
					}
				}
			}

			if g.InBounds(x, y) {
				g.Organs[g.idx(x, y)] = p.Cell
			}
		}
	}

	g.pendingKills = g.pendingKills[:0]
}

// killReaches reports whether a kill site touches (x, y). Sites within one
// cell of the top or left edge only reach right and down.
func killReaches(k KillEvent, x, y int) bool {
	if k.X <= 1 || k.Y <= 1 {
		return (x == k.X+1 && y == k.Y) ||
			(x == k.X && y == k.Y+1)
	}
	return (x == k.X+1 && y == k.Y) ||
		(x == k.X-1 && y == k.Y) ||
		(x == k.X && y == k.Y+1) ||
		(x == k.X && y == k.Y-1)
}

// ScatterFood marks each world cell food-bearing with the scatter probability.
func (g *Grid) ScatterFood(rng *rand.Rand) {
	p := g.cfg.Food.ScatterProbability
	for i := range g.Food {
		if rng.Float64() < p {
			g.Food[i] = true
		}
	}
}

// ProduceFood drops food on one of the four diagonal neighbours of (x, y),
// clamped to the grid, with the producer probability.
func (g *Grid) ProduceFood(x, y int, rng *rand.Rand) {
	if rng.Float64() >= g.cfg.Food.ProducerRate {
		return
	}

	fy := clampInt(y+randomSign(rng), 0, g.H-1)
	fx := clampInt(x+randomSign(rng), 0, g.W-1)
	g.Food[g.idx(fx, fy)] = true
}

func randomSign(rng *rand.Rand) int {
	if rng.Float64() < 0.5 {
		return 1
	}
	return -1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsCellEmpty reports whether (x, y) is inside the world, unoccupied and
// free of food.
func (g *Grid) IsCellEmpty(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	i := g.idx(x, y)
	return g.Organs[i].IsEmpty() && !g.Food[i]
}

// mouthReach is the order a mouth looks for food: self, +x, -x, +y, -y.
var mouthReach = [5][2]int{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// MouthEat clears the first food cell found around (x, y) in mouthReach
// order and reports whether it found one.
func (g *Grid) MouthEat(x, y int) bool {
	for _, d := range mouthReach {
		fx, fy := x+d[0], y+d[1]
		if g.HasFood(fx, fy) {
			g.Food[g.idx(fx, fy)] = false
			return true
		}
	}
	return false
}

// KillerActivates queues a kill at (x, y) on behalf of organism id.
func (g *Grid) KillerActivates(x, y, id int) {
	g.pendingKills = append(g.pendingKills, KillEvent{X: x, Y: y, KillerID: id})
}

// EyeData casts a ray from (x, y) toward dir, one cell at a time, up to the
// configured eye distance. It returns EyeFood or EyeOrganism for the first
// hit and EyeNothing if the ray runs out or leaves the grid.
func (g *Grid) EyeData(x, y int, dir components.Direction) float64 {
	dx, dy := dir.Delta()
	if dx == 0 && dy == 0 {
		return EyeNothing
	}

	for step := 1; step <= g.cfg.Sensors.EyeDistance; step++ {
		cx, cy := x+dx*step, y+dy*step
		if !g.InBounds(cx, cy) {
			break
		}
		i := g.idx(cx, cy)
		if g.Food[i] {
			return EyeFood
		}
		if !g.Organs[i].IsEmpty() {
			return EyeOrganism
		}
	}
	return EyeNothing
}

// CheckSpawn reports whether every cell of org lands inside the world on an
// empty cell.
func (g *Grid) CheckSpawn(org *Organism) bool {
	for _, p := range org.Anatomy {
		if !g.IsCellEmpty(org.X+p.DX, org.Y+p.DY) {
			return false
		}
	}
	return true
}

// MakeRemains turns each in-bounds cell of a dead organism into food with the
// drop probability.
func (g *Grid) MakeRemains(org *Organism, rng *rand.Rand) {
	p := g.cfg.Food.DropProbability
	for _, part := range org.Anatomy {
		x, y := org.X+part.DX, org.Y+part.DY
		if !g.InBounds(x, y) {
			continue
		}
		if rng.Float64() < p {
			g.Food[g.idx(x, y)] = true
		}
	}
}
