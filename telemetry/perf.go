package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step.
const (
	PhaseOccupancy = "occupancy"
	PhaseCull      = "cull"
	PhaseBehavior  = "behavior"
	PhaseSpawn     = "spawn"
	PhaseReseed    = "reseed"
	PhaseTelemetry = "telemetry"
)

// phases lists the phases in pipeline order.
var phases = []string{
	PhaseOccupancy, PhaseCull, PhaseBehavior,
	PhaseSpawn, PhaseReseed, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Average duration and share of tick time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return out
	}

	// Ring buffer order does not matter for any of these
	ticks := make([]float64, p.sampleCount)
	phaseSum := make(map[string]time.Duration)
	for i, s := range p.samples[:p.sampleCount] {
		ticks[i] = float64(s.TickDuration)
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}
	sort.Float64s(ticks)

	avg := stat.Mean(ticks, nil)
	out.AvgTickDuration = time.Duration(avg)
	out.MinTickDuration = time.Duration(floats.Min(ticks))
	out.MaxTickDuration = time.Duration(floats.Max(ticks))
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))

	n := time.Duration(p.sampleCount)
	for phase, sum := range phaseSum {
		out.PhaseAvg[phase] = sum / n
		if avg > 0 {
			out.PhasePct[phase] = float64(sum/n) / avg * 100
		}
	}
	if avg > 0 {
		out.TicksPerSecond = float64(time.Second) / avg
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	RunID        string  `csv:"run_id"`
	WindowEnd    int     `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	OccupancyPct float64 `csv:"occupancy_pct"`
	CullPct      float64 `csv:"cull_pct"`
	BehaviorPct  float64 `csv:"behavior_pct"`
	SpawnPct     float64 `csv:"spawn_pct"`
	ReseedPct    float64 `csv:"reseed_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(runID string, windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:        runID,
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		OccupancyPct: s.PhasePct[PhaseOccupancy],
		CullPct:      s.PhasePct[PhaseCull],
		BehaviorPct:  s.PhasePct[PhaseBehavior],
		SpawnPct:     s.PhasePct[PhaseSpawn],
		ReseedPct:    s.PhasePct[PhaseReseed],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
