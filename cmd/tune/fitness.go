package main

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/lifeengine/config"
	"github.com/pthm-cable/lifeengine/game"
)

// Score weights.
const (
	weightPopulation = 10.0
	weightExtinction = 20.0
	weightStability  = 5.0
)

// TrialResult is one evaluated parameter set. It doubles as a results.csv row.
type TrialResult struct {
	Trial                  int     `csv:"trial"`
	ProducerRate           float64 `csv:"producer_rate"`
	MutationRate           float64 `csv:"mutation_rate"`
	FoodBenefit            float64 `csv:"food_benefit"`
	LifetimeMultiplier     int     `csv:"lifetime_multiplier"`
	ReproductionMultiplier float64 `csv:"reproduction_multiplier"`
	AvgPopulation          float64 `csv:"avg_population"`
	ExtinctionRate         float64 `csv:"extinction_rate"`
	GrowthStability        float64 `csv:"growth_stability"`
	Score                  float64 `csv:"score"`
}

// Values returns the parameters in ParamVector order.
func (r TrialResult) Values() []float64 {
	return []float64{
		r.ProducerRate,
		r.MutationRate,
		r.FoodBenefit,
		float64(r.LifetimeMultiplier),
		r.ReproductionMultiplier,
	}
}

// Metrics summarizes a population history.
type Metrics struct {
	AvgPopulation   float64
	ExtinctionRate  float64 // Extinctions per tick
	GrowthStability float64 // Mean absolute tick-to-tick change, lower is smoother
}

// Score combines the metrics; higher is better.
func (m Metrics) Score() float64 {
	return m.AvgPopulation*weightPopulation - m.ExtinctionRate*weightExtinction - m.GrowthStability*weightStability
}

// ComputeMetrics derives Metrics from the per-tick population history.
// Stability divides by the number of ticks, not the number of steps.
func ComputeMetrics(history []float64, extinctions int) Metrics {
	if len(history) == 0 {
		return Metrics{}
	}

	n := float64(len(history))
	var changes []float64
	if len(history) > 1 {
		changes = make([]float64, len(history)-1)
		floats.SubTo(changes, history[1:], history[:len(history)-1])
		for i, c := range changes {
			changes[i] = math.Abs(c)
		}
	}

	return Metrics{
		AvgPopulation:   stat.Mean(history, nil),
		ExtinctionRate:  float64(extinctions) / n,
		GrowthStability: floats.Sum(changes) / n,
	}
}

// Evaluator runs headless simulations for parameter sets.
type Evaluator struct {
	params *ParamVector
	base   *config.Config
	ticks  int
	seed   int64
}

// NewEvaluator creates an evaluator. Every trial uses the same seed so
// parameter sets are compared on the same random stream.
func NewEvaluator(params *ParamVector, base *config.Config, ticks int, seed int64) *Evaluator {
	return &Evaluator{params: params, base: base, ticks: ticks, seed: seed}
}

// Run simulates one parameter set. It is safe to call concurrently.
func (e *Evaluator) Run(trial int, values []float64) TrialResult {
	cfg := e.base.Clone()
	e.params.ApplyToConfig(cfg, values)
	cfg.Simulation.Seed = e.seed
	cfg.Recompute()

	m := game.NewOrganismManager(cfg)
	history := make([]float64, 0, e.ticks)
	extinctions := 0

	for i := 0; i < e.ticks; i++ {
		before := m.Stats().Reseeds
		m.Update()

		// Reseeding happens within the tick; an extinction tick records zero
		if m.Stats().Reseeds > before {
			extinctions++
			history = append(history, 0)
			continue
		}
		history = append(history, float64(m.Population()))
	}

	metrics := ComputeMetrics(history, extinctions)
	applied := e.params.ExtractFromConfig(cfg)
	result := TrialResult{
		Trial:                  trial,
		ProducerRate:           applied[0],
		MutationRate:           applied[1],
		FoodBenefit:            applied[2],
		LifetimeMultiplier:     cfg.Organism.LifetimeMultiplier,
		ReproductionMultiplier: applied[4],
		AvgPopulation:          metrics.AvgPopulation,
		ExtinctionRate:         metrics.ExtinctionRate,
		GrowthStability:        metrics.GrowthStability,
		Score:                  metrics.Score(),
	}

	slog.Info("trial",
		"trial", trial,
		"producer_rate", result.ProducerRate,
		"mutation_rate", result.MutationRate,
		"food_benefit", result.FoodBenefit,
		"lifetime_multiplier", result.LifetimeMultiplier,
		"reproduction_multiplier", result.ReproductionMultiplier,
		"avg_population", metrics.AvgPopulation,
		"extinction_rate", metrics.ExtinctionRate,
		"growth_stability", metrics.GrowthStability,
		"score", result.Score,
	)

	return result
}
