package game

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/lifeengine/components"
	"github.com/pthm-cable/lifeengine/config"
	"github.com/pthm-cable/lifeengine/systems"
	"github.com/pthm-cable/lifeengine/telemetry"
)

// SimData holds the summary counters shown in the menu and exported to telemetry.
type SimData struct {
	Frame       int
	Population  int
	BestSpecies string // Anatomy encoding with the most successful reproductions
	BestSuccess int

	// Cumulative deaths. Contact deaths happen before lifetime runs out, so
	// they count as hunger deaths too; KillDeaths breaks them out.
	HungerDeaths int
	AgeDeaths    int
	KillDeaths   int

	Births  int
	Reseeds int

	// Last tick only
	TickBirths int
	TickDeaths int
}

// PhaseTimer receives phase boundaries during a tick.
type PhaseTimer interface {
	StartPhase(phase string)
}

// OrganismManager owns the population, the shared grid and the random
// stream, and drives the tick pipeline.
type OrganismManager struct {
	cfg  *config.Config
	rng  *rand.Rand
	grid *systems.Grid

	// Population in insertion order
	organisms []*systems.Organism
	nextID    int

	// Successful reproductions keyed by parent anatomy encoding; only grows
	success map[string]int

	// Organisms culled during the last tick
	deaths []telemetry.LifetimeStats

	data  SimData
	timer PhaseTimer
}

// DefaultAnatomy returns the minimal organism used for (re)seeding.
func DefaultAnatomy() components.Anatomy {
	return components.Anatomy{
		{DX: -1, DY: -1, Cell: components.NewCell(components.Mover)},
		{DX: 0, DY: 0, Cell: components.NewCell(components.Mouth)},
		{DX: 1, DY: 1, Cell: components.NewCell(components.Producer)},
	}
}

// NewOrganismManager creates a manager and seeds the initial population.
func NewOrganismManager(cfg *config.Config) *OrganismManager {
	m := &OrganismManager{cfg: cfg}
	m.Init()
	return m
}

// Init resets the manager to a fresh run: the random stream restarts from
// the configured seed, the grid is cleared and the population reseeded.
func (m *OrganismManager) Init() {
	m.rng = rand.New(rand.NewSource(m.cfg.Simulation.Seed))
	m.grid = systems.NewGrid(m.cfg)
	m.organisms = nil
	m.nextID = 0
	m.success = make(map[string]int)
	m.deaths = m.deaths[:0]
	m.data = SimData{}

	m.seedPopulation()
	m.data.Population = len(m.organisms)
}

// SetPhaseTimer installs a timer notified at each pipeline phase. nil disables it.
func (m *OrganismManager) SetPhaseTimer(t PhaseTimer) {
	m.timer = t
}

func (m *OrganismManager) phase(name string) {
	if m.timer != nil {
		m.timer.StartPhase(name)
	}
}

// seedPopulation scatters food and places reseed_count default organisms at
// random positions at least spawn_margin from the edges.
func (m *OrganismManager) seedPopulation() {
	m.grid.ScatterFood(m.rng)

	margin := m.cfg.Population.SpawnMargin
	w, h := m.grid.W-2*margin, m.grid.H-2*margin
	for i := 0; i < m.cfg.Population.ReseedCount; i++ {
		x := margin + m.rng.Intn(w)
		y := margin + m.rng.Intn(h)
		m.organisms = append(m.organisms, systems.NewOrganism(x, y, DefaultAnatomy(), m.assignID(), m.cfg, m.rng))
	}
}

func (m *OrganismManager) assignID() int {
	id := m.nextID
	m.nextID++
	return id
}

// Update advances the simulation by one tick.
func (m *OrganismManager) Update() {
	m.data.TickBirths = 0
	m.data.TickDeaths = 0
	m.deaths = m.deaths[:0]

	// Occupancy and kills reflect the population as of the start of the tick
	m.phase(telemetry.PhaseOccupancy)
	m.grid.RebuildOccupancy(m.organisms)

	m.phase(telemetry.PhaseCull)
	m.cull()

	m.phase(telemetry.PhaseBehavior)
	var children []*systems.Organism
	for _, org := range m.organisms {
		if !org.Update(m.grid, m.rng) {
			continue
		}
		if !org.CanReproduce() {
			continue
		}

		child := org.Child(m.assignID(), m.rng)
		child.RandomOffset(m.rng)
		if m.grid.CheckSpawn(child) {
			children = append(children, child)
			m.recordSuccess(org.Encode())
		}
		org.ConsumeReproductionEnergy()
	}

	m.phase(telemetry.PhaseSpawn)
	m.organisms = append(m.organisms, children...)
	m.data.TickBirths = len(children)
	m.data.Births += len(children)

	m.phase(telemetry.PhaseReseed)
	if len(m.organisms) == 0 {
		m.seedPopulation()
		m.data.Reseeds++
		slog.Debug("population extinct, reseeding",
			"frame", m.data.Frame,
			"reseeds", m.data.Reseeds,
		)
	}

	m.data.Frame++
	m.data.Population = len(m.organisms)
}

// cull removes killed organisms, leaving remains and counting the deaths.
func (m *OrganismManager) cull() {
	alive := m.organisms[:0]
	for _, org := range m.organisms {
		if !org.Killed {
			alive = append(alive, org)
			continue
		}

		if org.Lifetime <= 0 {
			m.data.AgeDeaths++
		} else {
			m.data.HungerDeaths++
		}
		if org.Cause == systems.CauseKilled {
			m.data.KillDeaths++
		}
		m.data.TickDeaths++
		m.deaths = append(m.deaths, telemetry.LifetimeStats{
			ID:       org.ID,
			Age:      org.Age,
			Cells:    org.Cells(),
			Meals:    org.Meals,
			Children: org.Children,
			Killed:   org.Cause == systems.CauseKilled,
		})
		m.grid.MakeRemains(org, m.rng)
	}
	clear(m.organisms[len(alive):])
	m.organisms = alive
}

// recordSuccess counts a reproduction for a parent anatomy and keeps the
// best species current. Ties go to the lexicographically smaller encoding.
func (m *OrganismManager) recordSuccess(encoding string) {
	m.success[encoding]++
	n := m.success[encoding]

	if n > m.data.BestSuccess || (n == m.data.BestSuccess && encoding < m.data.BestSpecies) {
		m.data.BestSpecies = encoding
		m.data.BestSuccess = n
	}
}

// Stats returns the current summary counters.
func (m *OrganismManager) Stats() SimData {
	return m.data
}

// TickDeaths returns the lifetimes of organisms culled during the last tick.
// The slice is reused by the next Update.
func (m *OrganismManager) TickDeaths() []telemetry.LifetimeStats {
	return m.deaths
}

// Success returns the number of successful reproductions recorded for an
// anatomy encoding.
func (m *OrganismManager) Success(encoding string) int {
	return m.success[encoding]
}

// Organisms returns the live population in iteration order. Callers must not
// modify it.
func (m *OrganismManager) Organisms() []*systems.Organism {
	return m.organisms
}

// Grid returns the shared grid. Callers must not modify it.
func (m *OrganismManager) Grid() *systems.Grid {
	return m.grid
}

// Population returns the number of live organisms.
func (m *OrganismManager) Population() int {
	return len(m.organisms)
}
