package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/lifeengine/components"
	"github.com/pthm-cable/lifeengine/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Food.ProducerRate = 0
	cfg.Mutation.Rate = 0
	return cfg
}

func single(kind components.Kind) components.Anatomy {
	return components.Anatomy{{DX: 0, DY: 0, Cell: components.NewCell(kind)}}
}

func TestRebuildOccupancyWritesCells(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(42))
	g := NewGrid(cfg)

	org := NewOrganism(5, 5, components.Anatomy{
		{DX: 0, DY: 0, Cell: components.NewCell(components.Mouth)},
		{DX: 1, DY: 1, Cell: components.NewEye(components.Up)},
	}, 1, cfg, rng)

	g.RebuildOccupancy([]*Organism{org})

	if got := g.CellAt(5, 5); got.Kind != components.Mouth {
		t.Errorf("CellAt(5,5) = %v, want Mouth", got)
	}
	if got := g.CellAt(6, 6); got != components.NewEye(components.Up) {
		t.Errorf("CellAt(6,6) = %v, want Eye(Up)", got)
	}

	// Occupancy is a pure function of the population
	g.RebuildOccupancy(nil)
	if !g.CellAt(5, 5).IsEmpty() {
		t.Error("occupancy not cleared on rebuild")
	}
}

func TestKillResolution(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(42))
	g := NewGrid(cfg)

	killer := NewOrganism(9, 10, components.Anatomy{
		{DX: 0, DY: 0, Cell: components.NewCell(components.Body)},
		{DX: 1, DY: 0, Cell: components.NewCell(components.Killer)},
	}, 1, cfg, rng)
	victim := NewOrganism(11, 10, single(components.Body), 2, cfg, rng)

	g.KillerActivates(10, 10, 1)
	g.RebuildOccupancy([]*Organism{killer, victim})

	if !victim.Killed {
		t.Error("organism 2 next to the kill site should be killed")
	}
	if victim.Cause != CauseKilled {
		t.Errorf("victim cause = %v, want Killed", victim.Cause)
	}
	if killer.Killed {
		t.Error("organism 1 must not be killed by its own killer")
	}
	if len(g.PendingKills()) != 0 {
		t.Error("pending kills not cleared after rebuild")
	}

	// Kills resolve once
	victim.Killed = false
	g.RebuildOccupancy([]*Organism{killer, victim})
	if victim.Killed {
		t.Error("kill resolved twice")
	}
}

func TestKillSparesArmorAndDiagonals(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(42))
	g := NewGrid(cfg)

	armored := NewOrganism(11, 10, single(components.Armor), 2, cfg, rng)
	diagonal := NewOrganism(11, 11, single(components.Body), 3, cfg, rng)

	g.KillerActivates(10, 10, 1)
	g.RebuildOccupancy([]*Organism{armored, diagonal})

	if armored.Killed {
		t.Error("Armor cell should be immune")
	}
	if diagonal.Killed {
		t.Error("diagonal neighbour should not be killed")
	}
}

func TestKillNearOriginOnlyReachesRightAndDown(t *testing.T) {
	tests := []struct {
		name   string
		x, y   int
		killed bool
	}{
		{"right", 2, 5, true},
		{"down", 1, 6, true},
		{"left", 0, 5, false},
		{"up", 1, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			g := NewGrid(cfg)
			org := NewOrganism(tt.x, tt.y, single(components.Body), 2, cfg, rand.New(rand.NewSource(1)))

			g.KillerActivates(1, 5, 1)
			g.RebuildOccupancy([]*Organism{org})

			if org.Killed != tt.killed {
				t.Errorf("killed = %v, want %v", org.Killed, tt.killed)
			}
		})
	}
}

func TestMouthEatPriority(t *testing.T) {
	tests := []struct {
		name    string
		food    [][2]int
		cleared [2]int
	}{
		{"self first", [][2]int{{5, 5}, {6, 5}}, [2]int{5, 5}},
		{"+x before -x", [][2]int{{4, 5}, {6, 5}}, [2]int{6, 5}},
		{"-x before +y", [][2]int{{4, 5}, {5, 6}}, [2]int{4, 5}},
		{"+y before -y", [][2]int{{5, 4}, {5, 6}}, [2]int{5, 6}},
		{"-y last", [][2]int{{5, 4}}, [2]int{5, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(testConfig())
			for _, f := range tt.food {
				g.SetFood(f[0], f[1], true)
			}

			if !g.MouthEat(5, 5) {
				t.Fatal("MouthEat returned false with food in reach")
			}
			if g.HasFood(tt.cleared[0], tt.cleared[1]) {
				t.Errorf("food at %v not cleared", tt.cleared)
			}
			if got := g.FoodCount(); got != len(tt.food)-1 {
				t.Errorf("FoodCount = %d, want %d", got, len(tt.food)-1)
			}
		})
	}
}

func TestMouthEatNothingInReach(t *testing.T) {
	g := NewGrid(testConfig())
	g.SetFood(6, 6, true) // diagonal, out of reach

	if g.MouthEat(5, 5) {
		t.Error("MouthEat returned true without food in reach")
	}
	if !g.HasFood(6, 6) {
		t.Error("MouthEat cleared food out of reach")
	}
	// Edge of the world must not panic
	if g.MouthEat(0, 0) || g.MouthEat(g.W-1, g.H-1) {
		t.Error("MouthEat found food on an empty edge")
	}
}

func TestEyeData(t *testing.T) {
	cfg := testConfig()
	cfg.Sensors.EyeDistance = 5
	rng := rand.New(rand.NewSource(42))

	g := NewGrid(cfg)
	g.SetFood(10, 7, true)  // 3 up from (10,10)
	g.SetFood(10, 12, true) // 2 down, behind an organism at (10,11)
	g.SetFood(16, 10, true) // 6 right, beyond eye distance
	other := NewOrganism(10, 11, single(components.Body), 2, cfg, rng)
	g.RebuildOccupancy([]*Organism{other})

	tests := []struct {
		name string
		x, y int
		dir  components.Direction
		want float64
	}{
		{"food", 10, 10, components.Up, EyeFood},
		{"organism blocks food", 10, 10, components.Down, EyeOrganism},
		{"beyond distance", 10, 10, components.Right, EyeNothing},
		{"leaves grid", 1, 10, components.Left, EyeNothing},
		{"no direction", 10, 10, components.None, EyeNothing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.EyeData(tt.x, tt.y, tt.dir); got != tt.want {
				t.Errorf("EyeData = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEyeDataOnlyKnownValues(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(42))
	g := NewGrid(cfg)
	g.ScatterFood(rng)

	for i := 0; i < 500; i++ {
		x, y := rng.Intn(g.W), rng.Intn(g.H)
		v := g.EyeData(x, y, components.Cardinals[rng.Intn(4)])
		if v != EyeFood && v != EyeOrganism && v != EyeNothing {
			t.Fatalf("EyeData(%d,%d) = %v", x, y, v)
		}
	}
}

func TestProduceFood(t *testing.T) {
	cfg := testConfig()
	cfg.Food.ProducerRate = 1
	rng := rand.New(rand.NewSource(42))

	g := NewGrid(cfg)
	g.ProduceFood(5, 5, rng)

	if g.FoodCount() != 1 {
		t.Fatalf("FoodCount = %d, want 1", g.FoodCount())
	}
	found := false
	for _, d := range [][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		if g.HasFood(5+d[0], 5+d[1]) {
			found = true
		}
	}
	if !found {
		t.Error("food was not placed diagonally")
	}

	// Corners clamp into the grid
	g.ClearFood()
	for i := 0; i < 20; i++ {
		g.ProduceFood(0, 0, rng)
	}
	if g.FoodCount() == 0 {
		t.Error("no food produced at the corner")
	}
}

func TestProduceFoodRateZero(t *testing.T) {
	g := NewGrid(testConfig())
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		g.ProduceFood(5, 5, rng)
	}
	if g.FoodCount() != 0 {
		t.Errorf("FoodCount = %d, want 0", g.FoodCount())
	}
}

func TestIsCellEmpty(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	g.SetFood(3, 3, true)
	org := NewOrganism(4, 4, single(components.Body), 1, cfg, rand.New(rand.NewSource(1)))
	g.RebuildOccupancy([]*Organism{org})

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"empty", 5, 5, true},
		{"food", 3, 3, false},
		{"occupied", 4, 4, false},
		{"negative", -1, 0, false},
		{"past edge", g.W, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsCellEmpty(tt.x, tt.y); got != tt.want {
				t.Errorf("IsCellEmpty(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestCheckSpawn(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(42))
	g := NewGrid(cfg)
	anatomy := components.Anatomy{
		{DX: -1, DY: -1, Cell: components.NewCell(components.Mover)},
		{DX: 0, DY: 0, Cell: components.NewCell(components.Mouth)},
	}

	if !g.CheckSpawn(NewOrganism(10, 10, anatomy, 1, cfg, rng)) {
		t.Error("spawn on empty grid rejected")
	}
	if g.CheckSpawn(NewOrganism(0, 0, anatomy, 1, cfg, rng)) {
		t.Error("spawn hanging off the grid accepted")
	}
	g.SetFood(9, 9, true)
	if g.CheckSpawn(NewOrganism(10, 10, anatomy, 1, cfg, rng)) {
		t.Error("spawn onto food accepted")
	}
}

func TestMakeRemains(t *testing.T) {
	cfg := testConfig()
	cfg.Food.DropProbability = 1
	rng := rand.New(rand.NewSource(42))
	g := NewGrid(cfg)
	org := NewOrganism(0, 0, components.Anatomy{
		{DX: 0, DY: 0, Cell: components.NewCell(components.Body)},
		{DX: 1, DY: 0, Cell: components.NewCell(components.Body)},
		{DX: -1, DY: 0, Cell: components.NewCell(components.Body)}, // off-grid
	}, 1, cfg, rng)

	g.MakeRemains(org, rng)

	if g.FoodCount() != 2 {
		t.Errorf("FoodCount = %d, want 2", g.FoodCount())
	}
}

func TestScatterFood(t *testing.T) {
	cfg := testConfig()
	cfg.Food.ScatterProbability = 0.1
	g := NewGrid(cfg)
	g.ScatterFood(rand.New(rand.NewSource(42)))

	n := g.FoodCount()
	if n < 700 || n > 1300 {
		t.Errorf("FoodCount = %d, want about 1000", n)
	}
}
