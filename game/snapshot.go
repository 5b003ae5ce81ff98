package game

import (
	"github.com/pthm-cable/lifeengine/components"
	"github.com/pthm-cable/lifeengine/systems"
	"github.com/pthm-cable/lifeengine/telemetry"
)

// OrganismView is a read-only copy of one organism for drawing and inspection.
type OrganismView struct {
	ID       int
	X, Y     int
	Anatomy  components.Anatomy
	Energy   int
	Lifetime int
	Satiety  float64
	Sighted  bool // Has a brain
}

// Snapshot is a read-only copy of the world state the renderer needs.
type Snapshot struct {
	Width, Height int
	Food          []bool
	Kills         []systems.KillEvent // Queued for the next tick
	Organisms     []OrganismView
	Data          SimData
}

// Snapshot copies the food layer, pending kills, the population and the counters.
func (m *OrganismManager) Snapshot() Snapshot {
	s := Snapshot{
		Width:     m.grid.W,
		Height:    m.grid.H,
		Food:      append([]bool(nil), m.grid.Food...),
		Kills:     m.grid.PendingKills(),
		Organisms: make([]OrganismView, len(m.organisms)),
		Data:      m.data,
	}
	for i, org := range m.organisms {
		s.Organisms[i] = OrganismView{
			ID:       org.ID,
			X:        org.X,
			Y:        org.Y,
			Anatomy:  org.Anatomy.Clone(),
			Energy:   org.Energy,
			Lifetime: org.Lifetime,
			Satiety:  org.Satiety,
			Sighted:  org.Brain != nil,
		}
	}
	return s
}

// FoodAt reports whether (x, y) held food when the snapshot was taken.
func (s *Snapshot) FoodAt(x, y int) bool {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return false
	}
	return s.Food[y*s.Width+x]
}

// Sample summarizes the population for a telemetry window.
func (m *OrganismManager) Sample() telemetry.Sample {
	s := telemetry.Sample{
		Population:  len(m.organisms),
		Food:        m.grid.FoodCount(),
		Sizes:       make([]float64, len(m.organisms)),
		Energies:    make([]float64, len(m.organisms)),
		BestSpecies: m.data.BestSpecies,
		BestSuccess: m.data.BestSuccess,
	}

	species := make(map[string]struct{})
	for i, org := range m.organisms {
		s.Sizes[i] = float64(org.Cells())
		s.Energies[i] = float64(org.Energy)
		if org.Brain != nil {
			s.Sighted++
		}
		species[org.Encode()] = struct{}{}
	}
	s.Species = len(species)
	return s
}
