package game

import (
	"testing"

	"github.com/pthm-cable/lifeengine/components"
	"github.com/pthm-cable/lifeengine/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Width = 60
	cfg.World.Height = 60
	cfg.Recompute()
	return cfg
}

func TestNewOrganismManager(t *testing.T) {
	cfg := testConfig()
	m := NewOrganismManager(cfg)

	if got := m.Population(); got != cfg.Population.ReseedCount {
		t.Fatalf("Population() = %d, want %d", got, cfg.Population.ReseedCount)
	}

	margin := cfg.Population.SpawnMargin
	seen := make(map[int]bool)
	for i, org := range m.Organisms() {
		if org.ID != i {
			t.Errorf("organism %d has ID %d, want %d", i, org.ID, i)
		}
		if seen[org.ID] {
			t.Errorf("duplicate ID %d", org.ID)
		}
		seen[org.ID] = true

		if org.X < margin || org.X >= cfg.World.Width-margin || org.Y < margin || org.Y >= cfg.World.Height-margin {
			t.Errorf("organism %d at (%d, %d) outside spawn margin %d", org.ID, org.X, org.Y, margin)
		}
		if got, want := org.Encode(), DefaultAnatomy().Encode(); got != want {
			t.Errorf("organism %d anatomy = %q, want %q", org.ID, got, want)
		}
	}

	if m.Grid().FoodCount() == 0 {
		t.Error("expected food scattered on init")
	}
}

func TestManagerReseedAfterStarvation(t *testing.T) {
	cfg := testConfig()
	cfg.Organism.HungerRate = 10 // Everyone starves on the first tick
	m := NewOrganismManager(cfg)

	m.Update()
	if got := m.Population(); got != cfg.Population.ReseedCount {
		t.Fatalf("after tick 1: population = %d, want %d (removal waits a tick)", got, cfg.Population.ReseedCount)
	}
	for _, org := range m.Organisms() {
		if !org.Killed {
			t.Fatalf("organism %d survived starvation", org.ID)
		}
	}

	m.Update()
	s := m.Stats()
	if s.HungerDeaths != cfg.Population.ReseedCount {
		t.Errorf("HungerDeaths = %d, want %d", s.HungerDeaths, cfg.Population.ReseedCount)
	}
	if s.AgeDeaths != 0 {
		t.Errorf("AgeDeaths = %d, want 0", s.AgeDeaths)
	}
	if s.Reseeds != 1 {
		t.Errorf("Reseeds = %d, want 1", s.Reseeds)
	}
	if s.Population != cfg.Population.ReseedCount {
		t.Errorf("Population = %d, want %d", s.Population, cfg.Population.ReseedCount)
	}
	if s.Frame != 2 {
		t.Errorf("Frame = %d, want 2", s.Frame)
	}

	deaths := m.TickDeaths()
	if len(deaths) != cfg.Population.ReseedCount {
		t.Fatalf("len(TickDeaths()) = %d, want %d", len(deaths), cfg.Population.ReseedCount)
	}
	for _, d := range deaths {
		if d.Cells != 3 || d.Killed {
			t.Errorf("death record %+v, want 3 cells and not killed", d)
		}
	}

	// Reseeded organisms continue the id sequence
	if got := m.Organisms()[0].ID; got != cfg.Population.ReseedCount {
		t.Errorf("first reseeded ID = %d, want %d", got, cfg.Population.ReseedCount)
	}
}

func TestManagerAgeDeaths(t *testing.T) {
	cfg := testConfig()
	cfg.Organism.HungerRate = 0
	cfg.Organism.LifetimeMultiplier = 1 // Default anatomy lives 3 ticks
	m := NewOrganismManager(cfg)

	for i := 0; i < 4; i++ {
		m.Update()
	}

	s := m.Stats()
	if s.AgeDeaths != cfg.Population.ReseedCount {
		t.Errorf("AgeDeaths = %d, want %d", s.AgeDeaths, cfg.Population.ReseedCount)
	}
	if s.HungerDeaths != 0 {
		t.Errorf("HungerDeaths = %d, want 0", s.HungerDeaths)
	}
	if s.Reseeds != 1 {
		t.Errorf("Reseeds = %d, want 1", s.Reseeds)
	}
}

func TestManagerDeterminism(t *testing.T) {
	cfg := testConfig()
	a := NewOrganismManager(cfg)
	b := NewOrganismManager(cfg)

	for i := 0; i < 200; i++ {
		a.Update()
		b.Update()
	}

	if a.Stats() != b.Stats() {
		t.Fatalf("stats diverged: %+v vs %+v", a.Stats(), b.Stats())
	}
	oa, ob := a.Organisms(), b.Organisms()
	for i := range oa {
		if oa[i].ID != ob[i].ID || oa[i].X != ob[i].X || oa[i].Y != ob[i].Y || oa[i].Encode() != ob[i].Encode() {
			t.Fatalf("organism %d diverged", i)
		}
	}
}

func TestManagerInitResets(t *testing.T) {
	cfg := testConfig()
	m := NewOrganismManager(cfg)
	fresh := NewOrganismManager(cfg)

	for i := 0; i < 100; i++ {
		m.Update()
	}
	m.Init()

	if m.Stats() != fresh.Stats() {
		t.Errorf("Stats() after Init = %+v, want %+v", m.Stats(), fresh.Stats())
	}
	if m.Grid().FoodCount() != fresh.Grid().FoodCount() {
		t.Errorf("FoodCount() after Init = %d, want %d", m.Grid().FoodCount(), fresh.Grid().FoodCount())
	}
	for i, org := range m.Organisms() {
		want := fresh.Organisms()[i]
		if org.ID != want.ID || org.X != want.X || org.Y != want.Y {
			t.Errorf("organism %d = (%d, %d, %d), want (%d, %d, %d)", i, org.ID, org.X, org.Y, want.ID, want.X, want.Y)
		}
	}
}

func TestManagerSuccessKeyedByParent(t *testing.T) {
	cfg := testConfig()
	cfg.Mutation.Rate = 0
	cfg.Food.ProducerRate = 0
	cfg.Reproduction.CostMultiplier = 0 // Everyone tries to reproduce
	m := NewOrganismManager(cfg)

	m.Update()

	s := m.Stats()
	if s.Births == 0 {
		t.Fatal("expected births with free reproduction")
	}
	if s.TickBirths != s.Births {
		t.Errorf("TickBirths = %d, want %d", s.TickBirths, s.Births)
	}

	// Parents may have turned before reproducing, so collect every
	// orientation of the seed anatomy
	encodings := make(map[string]bool)
	frontier := []string{DefaultAnatomy().Encode()}
	for len(frontier) > 0 {
		enc := frontier[0]
		frontier = frontier[1:]
		if encodings[enc] {
			continue
		}
		encodings[enc] = true
		a := components.DecodeAnatomy(enc)
		frontier = append(frontier, a.Rotated(true).Encode(), a.Rotated(false).Encode())
	}

	total := 0
	for enc := range encodings {
		total += m.Success(enc)
	}
	if total != s.Births {
		t.Errorf("success over seed orientations = %d, want %d", total, s.Births)
	}
	if got := m.Success(s.BestSpecies); got != s.BestSuccess {
		t.Errorf("Success(best) = %d, want %d", got, s.BestSuccess)
	}
}

func TestRecordSuccessTieBreak(t *testing.T) {
	m := NewOrganismManager(testConfig())

	steps := []struct {
		encoding    string
		wantBest    string
		wantSuccess int
	}{
		{"b", "b", 1},
		{"a", "a", 1}, // Tie goes to the smaller encoding
		{"c", "a", 1},
		{"c", "c", 2},
		{"b", "b", 2},
	}

	for i, st := range steps {
		m.recordSuccess(st.encoding)
		s := m.Stats()
		if s.BestSpecies != st.wantBest || s.BestSuccess != st.wantSuccess {
			t.Errorf("step %d: best = %q/%d, want %q/%d", i, s.BestSpecies, s.BestSuccess, st.wantBest, st.wantSuccess)
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	m := NewOrganismManager(testConfig())
	snap := m.Snapshot()

	if len(snap.Organisms) != m.Population() {
		t.Fatalf("len(Organisms) = %d, want %d", len(snap.Organisms), m.Population())
	}

	snap.Organisms[0].Anatomy[0].DX = 99
	snap.Food[0] = !snap.Food[0]
	if m.Organisms()[0].Anatomy[0].DX == 99 {
		t.Error("snapshot anatomy aliases the organism")
	}
	if m.Grid().Food[0] == snap.Food[0] {
		t.Error("snapshot food aliases the grid")
	}
}

func TestSample(t *testing.T) {
	cfg := testConfig()
	m := NewOrganismManager(cfg)
	s := m.Sample()

	if s.Population != cfg.Population.ReseedCount {
		t.Errorf("Population = %d, want %d", s.Population, cfg.Population.ReseedCount)
	}
	if s.Species != 1 {
		t.Errorf("Species = %d, want 1", s.Species)
	}
	if s.Sighted != 0 {
		t.Errorf("Sighted = %d, want 0", s.Sighted)
	}
	if len(s.Sizes) != s.Population || s.Sizes[0] != 3 {
		t.Errorf("Sizes = %v, want %d entries of 3", s.Sizes, s.Population)
	}
	if s.Food != m.Grid().FoodCount() {
		t.Errorf("Food = %d, want %d", s.Food, m.Grid().FoodCount())
	}
}

func BenchmarkManagerUpdate(b *testing.B) {
	m := NewOrganismManager(config.Default())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Update()
	}
}
