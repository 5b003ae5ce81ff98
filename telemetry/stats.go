// Package telemetry aggregates window statistics, bookmarks and timing, and
// writes them to CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	RunID           string `csv:"run_id"`
	WindowStartTick int    `csv:"-"`
	WindowEndTick   int    `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`
	Sighted    int `csv:"sighted"` // Organisms with a brain
	Species    int `csv:"species"` // Distinct anatomies alive
	Food       int `csv:"food"`

	// Events during window
	Births       int `csv:"births"`
	AgeDeaths    int `csv:"age_deaths"`
	HungerDeaths int `csv:"hunger_deaths"` // Includes contact deaths
	KillDeaths   int `csv:"kill_deaths"`
	Reseeds      int `csv:"reseeds"`

	// Body size distribution (cells per organism, sampled at window end)
	SizeMean float64 `csv:"size_mean"`
	SizeStd  float64 `csv:"size_std"`
	SizeP10  float64 `csv:"size_p10"`
	SizeP50  float64 `csv:"size_p50"`
	SizeP90  float64 `csv:"size_p90"`

	// Banked energy distribution
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Age at death of organisms that died during the window
	LifespanMean     float64 `csv:"lifespan_mean"`
	LifespanP50      float64 `csv:"lifespan_p50"`
	LifespanP90      float64 `csv:"lifespan_p90"`
	ChildrenPerDeath float64 `csv:"children_per_death"`

	// Most successful lineage so far
	BestSuccess int    `csv:"best_success"`
	BestSpecies string `csv:"best_species"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summarize computes mean, sample standard deviation and percentiles.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n > 1 {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	} else {
		d.Mean = values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("population", s.Population),
		slog.Int("sighted", s.Sighted),
		slog.Int("species", s.Species),
		slog.Int("food", s.Food),
		slog.Int("births", s.Births),
		slog.Int("age_deaths", s.AgeDeaths),
		slog.Int("hunger_deaths", s.HungerDeaths),
		slog.Int("kill_deaths", s.KillDeaths),
		slog.Int("reseeds", s.Reseeds),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_std", s.SizeStd),
		slog.Float64("size_p50", s.SizeP50),
		slog.Float64("size_p90", s.SizeP90),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("lifespan_mean", s.LifespanMean),
		slog.Float64("lifespan_p90", s.LifespanP90),
		slog.Float64("children_per_death", s.ChildrenPerDeath),
		slog.Int("best_success", s.BestSuccess),
		slog.String("best_species", s.BestSpecies),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
