package systems

import (
	"math/rand"

	"github.com/pthm-cable/lifeengine/components"
	"github.com/pthm-cable/lifeengine/config"
	"github.com/pthm-cable/lifeengine/neural"
)

// DeathCause records why an organism was killed.
type DeathCause uint8

const (
	CauseAlive      DeathCause = iota // Still alive
	CauseAge                          // Lifetime ran out
	CauseStarvation                   // Satiety ran out
	CauseKilled                       // Touched a foreign Killer cell
)

// String returns the display name for a DeathCause.
func (c DeathCause) String() string {
	names := []string{"Alive", "Age", "Starvation", "Killed"}
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// Organism is an anatomy anchored at a world position plus its life counters
// and, for sighted movers, a brain.
type Organism struct {
	X, Y    int
	Anatomy components.Anatomy
	ID      int

	Energy   int     // Meals eaten and not yet spent on reproduction
	Lifetime int     // Ticks left before dying of age
	Satiety  float64 // Starvation reserve
	Killed   bool
	Cause    DeathCause

	Brain *neural.Brain // nil unless the anatomy has an Eye and a Mover

	// Lifetime statistics
	Age      int
	Meals    int
	Children int

	bounds  components.Bounds
	eyeData []float64
	cfg     *config.Config
}

// NewOrganism creates an organism at (x, y). The anatomy is used as given.
func NewOrganism(x, y int, anatomy components.Anatomy, id int, cfg *config.Config, rng *rand.Rand) *Organism {
	o := &Organism{
		X:        x,
		Y:        y,
		Anatomy:  anatomy,
		ID:       id,
		Lifetime: len(anatomy) * cfg.Organism.LifetimeMultiplier,
		Satiety:  cfg.Organism.InitialSatiety,
		cfg:      cfg,
	}
	o.bounds = anatomy.Bounds()
	o.Brain = o.deriveBrain(nil, rng)
	return o
}

// Cells returns the number of cells in the anatomy.
func (o *Organism) Cells() int {
	return len(o.Anatomy)
}

// Bounds returns the cached anatomy extents.
func (o *Organism) Bounds() components.Bounds {
	return o.bounds
}

// EyeData returns the eye readings gathered during the last Update.
func (o *Organism) EyeData() []float64 {
	return o.eyeData
}

// Encode returns the anatomy encoding, used as the species name.
func (o *Organism) Encode() string {
	return o.Anatomy.Encode()
}

func (o *Organism) kill(cause DeathCause) {
	o.Killed = true
	o.Cause = cause
}

// deriveBrain builds the brain the current anatomy calls for: one input per
// Eye and one hidden layer per Brain cell, or none without an Eye and a
// Mover. A parent brain is reused as the mutation baseline when given.
func (o *Organism) deriveBrain(parent *neural.Brain, rng *rand.Rand) *neural.Brain {
	eyes := o.Anatomy.Count(components.Eye)
	if eyes == 0 || o.Anatomy.Count(components.Mover) == 0 {
		return nil
	}
	layers := o.Anatomy.Count(components.Brain)

	if parent != nil {
		return parent.ChildBrain(eyes, layers, rng)
	}
	return neural.NewBrain(eyes, layers, neural.ParamsFromConfig(o.cfg), rng)
}

// Update runs one tick of behavior and reports whether the organism is still
// alive. Cells act in anatomy order; movement waits until every cell acted.
func (o *Organism) Update(grid *Grid, rng *rand.Rand) bool {
	if o.Killed {
		return false
	}

	o.Age++
	o.Lifetime--
	o.Satiety -= o.cfg.Organism.HungerRate * float64(len(o.Anatomy))
	if o.Lifetime <= 0 {
		o.kill(CauseAge)
		return false
	}
	if o.Satiety <= 0 {
		o.kill(CauseStarvation)
		return false
	}

	o.eyeData = o.eyeData[:0]
	willMove := false

	for _, p := range o.Anatomy {
		x, y := o.X+p.DX, o.Y+p.DY
		switch p.Cell.Kind {
		case components.Mouth:
			if grid.MouthEat(x, y) {
				o.Energy++
				o.Satiety += o.cfg.Food.Benefit
				o.Meals++
			}
		case components.Producer:
			grid.ProduceFood(x, y, rng)
		case components.Mover:
			willMove = true
		case components.Killer:
			grid.KillerActivates(x, y, o.ID)
		case components.Eye:
			o.eyeData = append(o.eyeData, grid.EyeData(x, y, p.Cell.Facing))
		}
	}

	if willMove {
		if o.Brain != nil {
			o.MoveDir(o.Brain.ProcessInput(o.eyeData), grid)
		} else {
			o.randomAction(grid, rng)
		}
	}

	return true
}

// randomAction is how brainless movers get around: half the time a quarter
// turn, otherwise a step in a random direction.
func (o *Organism) randomAction(grid *Grid, rng *rand.Rand) {
	if rng.Float64() < 0.5 {
		o.Rotate(rng.Float64() < 0.5, grid)
		return
	}
	o.MoveDir(components.Cardinals[rng.Intn(len(components.Cardinals))], grid)
}

// MoveDir tries to step one cell in dir.
func (o *Organism) MoveDir(dir components.Direction, grid *Grid) bool {
	dx, dy := dir.Delta()
	if dx == 0 && dy == 0 {
		return false
	}
	return o.MoveOrg(o.X+dx, o.Y+dy, grid)
}

// MoveOrg re-anchors the organism at (x, y) if every cell fits there.
// Nothing changes when the move is rejected.
func (o *Organism) MoveOrg(x, y int, grid *Grid) bool {
	b := o.bounds
	if x+b.MinDX < 0 || y+b.MinDY < 0 || x+b.MaxDX >= grid.W || y+b.MaxDY >= grid.H {
		return false
	}

	for _, p := range o.Anatomy {
		if !o.canOccupy(grid, x+p.DX, y+p.DY) {
			return false
		}
	}

	o.X, o.Y = x, y
	return true
}

// Rotate turns the anatomy a quarter turn about its centroid if every turned
// cell fits. Nothing changes when the turn is rejected.
func (o *Organism) Rotate(clockwise bool, grid *Grid) bool {
	rotated := o.Anatomy.Rotated(clockwise)
	for _, p := range rotated {
		if !o.canOccupy(grid, o.X+p.DX, o.Y+p.DY) {
			return false
		}
	}

	o.Anatomy = rotated
	o.bounds = rotated.Bounds()
	return true
}

// canOccupy reports whether a cell may move to world (x, y). The organism's
// own current footprint does not block it.
func (o *Organism) canOccupy(grid *Grid, x, y int) bool {
	if !grid.InBounds(x, y) {
		return false
	}
	if grid.IsCellEmpty(x, y) {
		return true
	}
	return o.Anatomy.Occupies(x-o.X, y-o.Y)
}

// CanReproduce reports whether the organism has banked enough energy.
func (o *Organism) CanReproduce() bool {
	return float64(o.Energy) >= float64(len(o.Anatomy))*o.cfg.Reproduction.CostMultiplier
}

// ConsumeReproductionEnergy pays for one reproduction attempt.
func (o *Organism) ConsumeReproductionEnergy() {
	o.Energy -= len(o.Anatomy)
}

// Child returns a mutated copy placed on the parent's anchor. Counters start
// fresh and the brain is rederived for the mutated anatomy.
func (o *Organism) Child(id int, rng *rand.Rand) *Organism {
	anatomy := o.Anatomy.Clone()
	child := &Organism{
		X:        o.X,
		Y:        o.Y,
		Anatomy:  anatomy,
		ID:       id,
		Lifetime: len(anatomy) * o.cfg.Organism.LifetimeMultiplier,
		Satiety:  o.cfg.Organism.InitialSatiety,
		cfg:      o.cfg,
	}

	child.Mutate(rng)
	child.bounds = child.Anatomy.Bounds()
	child.Brain = child.deriveBrain(o.Brain, rng)

	o.Children++
	return child
}

// Mutate applies at most one structural change with the mutation rate:
// retype a cell, remove a cell, or add a cell next to an existing one.
// A removal that would split the anatomy is reverted. It reports whether
// the anatomy changed.
func (o *Organism) Mutate(rng *rand.Rand) bool {
	if rng.Float64() >= o.cfg.Mutation.Rate || len(o.Anatomy) == 0 {
		return false
	}

	changed := false
	switch rng.Intn(3) {
	case 0:
		i := rng.Intn(len(o.Anatomy))
		o.Anatomy[i].Cell = components.RandomCell(rng)
		changed = true
	case 1:
		changed = o.removeCell(rng)
	case 2:
		changed = o.addCell(rng)
	}

	if changed {
		o.bounds = o.Anatomy.Bounds()
	}
	return changed
}

func (o *Organism) removeCell(rng *rand.Rand) bool {
	if len(o.Anatomy) <= 1 {
		return false
	}

	i := rng.Intn(len(o.Anatomy))
	candidate := make(components.Anatomy, 0, len(o.Anatomy)-1)
	candidate = append(candidate, o.Anatomy[:i]...)
	candidate = append(candidate, o.Anatomy[i+1:]...)
	if !candidate.Connected() {
		return false
	}

	o.Anatomy = candidate
	o.Lifetime -= o.cfg.Organism.LifetimeMultiplier
	return true
}

func (o *Organism) addCell(rng *rand.Rand) bool {
	base := o.Anatomy[rng.Intn(len(o.Anatomy))]

	for _, k := range rng.Perm(len(components.Cardinals)) {
		dx, dy := components.Cardinals[k].Delta()
		nx, ny := base.DX+dx, base.DY+dy
		if o.Anatomy.Occupies(nx, ny) {
			continue
		}
		o.Anatomy = append(o.Anatomy, components.Part{DX: nx, DY: ny, Cell: components.RandomCell(rng)})
		o.Lifetime += o.cfg.Organism.LifetimeMultiplier
		return true
	}
	return false
}

// RandomOffset shifts the organism one anatomy span, plus up to SpawnJitter
// extra cells, in a random cardinal direction.
func (o *Organism) RandomOffset(rng *rand.Rand) {
	dir := components.Cardinals[rng.Intn(len(components.Cardinals))]
	dx, dy := dir.Delta()
	gap := rng.Intn(o.cfg.Reproduction.SpawnJitter + 1)

	o.X += dx * (o.bounds.Width() + gap)
	o.Y += dy * (o.bounds.Height() + gap)
}
