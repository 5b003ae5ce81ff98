// Package game runs the organism simulation and ties it to telemetry, output
// files and the raylib front end.
package game

import (
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pthm-cable/lifeengine/camera"
	"github.com/pthm-cable/lifeengine/config"
	"github.com/pthm-cable/lifeengine/telemetry"
	"github.com/pthm-cable/lifeengine/ui"
)

// Speed limits for steps per update.
const (
	MinSpeed = 1
	MaxSpeed = 10
)

// Options configures a Game.
type Options struct {
	Seed           int64  // Overrides simulation.seed when non-zero
	LogStats       bool   // Log window stats and bookmarks via slog
	OutputDir      string // Directory for CSV logs and the config snapshot (empty = disabled)
	Headless       bool   // Skip all UI setup
	StepsPerUpdate int    // Ticks per Update call
}

// Game holds the simulation and everything observing it.
type Game struct {
	cfg     *config.Config
	runID   string
	manager *OrganismManager

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	synced           SimData // Counters already handed to the collector
	statsCallback    func(telemetry.WindowStats)

	// State
	tick           int // Ticks since start, not reset by Reset
	paused         bool
	stepsPerUpdate int
	headless       bool

	// UI
	cam       *camera.Camera
	overlays  *ui.OverlayRegistry
	menu      *ui.Menu
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	selected  int
	selection bool
}

// NewGame creates a headless game with default options.
func NewGame(cfg *config.Config) *Game {
	return NewGameWithOptions(cfg, Options{Headless: true})
}

// NewGameWithOptions creates a game. The configuration is copied; a non-zero
// opts.Seed replaces simulation.seed in the copy.
func NewGameWithOptions(cfg *config.Config, opts Options) *Game {
	cfg = cfg.Clone()
	if opts.Seed != 0 {
		cfg.Simulation.Seed = opts.Seed
	}

	steps := opts.StepsPerUpdate
	if steps < MinSpeed {
		steps = MinSpeed
	}

	g := &Game{
		cfg:              cfg,
		runID:            uuid.NewString(),
		manager:          NewOrganismManager(cfg),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		stepsPerUpdate:   steps,
		headless:         opts.Headless,
	}
	g.collector = telemetry.NewCollector(g.runID, cfg.Telemetry.StatsWindow)
	g.manager.SetPhaseTimer(g.perfCollector)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !opts.Headless {
		g.initUI()
	}

	slog.Info("run started",
		"run_id", g.runID,
		"seed", cfg.Simulation.Seed,
		"world", cfg.World.Width*cfg.World.Height,
		"population", g.manager.Population(),
		"output_dir", opts.OutputDir,
	)

	return g
}

func (g *Game) initUI() {
	gridW := g.cfg.Derived.GridPixelsW
	gridH := g.cfg.Derived.GridPixelsH
	menuW := int32(g.cfg.Screen.MenuWidth)

	g.cam = camera.New(float32(gridW), float32(gridH), float32(gridW), float32(gridH))

	g.overlays = ui.NewOverlayRegistry()
	g.menu = ui.NewMenu(gridW, 0, menuW, g.cfg.Derived.WindowHeight)
	g.controls = ui.NewControlsPanel(gridW, 0, menuW)
	g.inspector = ui.NewInspector(10, 10, 240)
}

// SetStatsCallback registers a function called with every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// RunID returns the id stamped on this run's output rows.
func (g *Game) RunID() string {
	return g.runID
}

// Tick returns the number of ticks simulated since the game was created.
func (g *Game) Tick() int {
	return g.tick
}

// Manager exposes the simulation.
func (g *Game) Manager() *OrganismManager {
	return g.manager
}

// UpdateHeadless runs stepsPerUpdate ticks without touching input or UI.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs one tick and feeds its counters to telemetry.
func (g *Game) step() {
	g.perfCollector.StartTick()
	g.manager.Update()
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.syncCounters()
	g.flushTelemetry()
	g.perfCollector.EndTick()
}

// syncCounters forwards the manager's counter deltas since the last call.
func (g *Game) syncCounters() {
	d := g.manager.Stats()
	prev := g.synced

	if n := d.Births - prev.Births; n > 0 {
		g.collector.RecordBirths(n)
	}
	g.collector.RecordDeaths(
		d.AgeDeaths-prev.AgeDeaths,
		d.HungerDeaths-prev.HungerDeaths,
		d.KillDeaths-prev.KillDeaths,
	)
	for i := prev.Reseeds; i < d.Reseeds; i++ {
		g.collector.RecordReseed()
	}
	for _, l := range g.manager.TickDeaths() {
		g.collector.RecordLifetime(l)
	}

	g.synced = d
}

// Reset restarts the simulation from the configured seed. Telemetry keeps
// running so windows stay contiguous.
func (g *Game) Reset() {
	g.manager.Init()
	g.synced = SimData{}
	g.selection = false
	slog.Info("simulation reset", "run_id", g.runID, "tick", g.tick)
}

// Unload flushes outputs and saves the best anatomy. The best anatomy goes
// to the output directory when one is set, otherwise the working directory.
func (g *Game) Unload() {
	best := g.manager.Stats().BestSpecies

	if g.outputManager != nil {
		if err := g.outputManager.WriteBestAnatomy(best); err != nil {
			slog.Error("failed to write best anatomy", "error", err)
		}
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output files", "error", err)
		}
	} else if err := telemetry.WriteBestAnatomy(filepath.Join(".", telemetry.BestAnatomyFile), best); err != nil {
		slog.Error("failed to write best anatomy", "error", err)
	}

	slog.Info("run finished",
		"run_id", g.runID,
		"ticks", g.tick,
		"best_success", g.manager.Stats().BestSuccess,
		"best_species", best,
	)
}
