package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lifeengine/config"
	"github.com/pthm-cable/lifeengine/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		// Headless mode - no raylib window
		g := game.NewGameWithOptions(cfg, opts)
		defer g.Unload()

		slog.Info("starting headless simulation",
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		// Stop cleanly on Ctrl+C so outputs are flushed
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		for ctx.Err() == nil {
			g.UpdateHeadless()

			if *maxTicks > 0 && g.Tick() >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
		slog.Info("interrupted", "tick", g.Tick())
		return
	}

	// Graphical mode
	rl.InitWindow(cfg.Derived.WindowWidth, cfg.Derived.WindowHeight, "Life Engine")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(cfg, opts)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && g.Tick() >= *maxTicks {
			break
		}
	}
}
