package main

import (
	"math"

	"github.com/pthm-cable/lifeengine/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name   string    // Human-readable name
	Path   string    // Config path for logging
	Min    float64   // Lower bound for continuous search
	Max    float64   // Upper bound for continuous search
	Values []float64 // Grid search candidates
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard search space.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "producer_rate", Path: "food.producer_rate", Min: 0.05, Max: 0.1, Values: []float64{0.05, 0.07, 0.1}},
			{Name: "mutation_rate", Path: "mutation.rate", Min: 0.4, Max: 0.8, Values: []float64{0.4, 0.6, 0.8}},
			{Name: "food_benefit", Path: "food.benefit", Min: 0.15, Max: 0.25, Values: []float64{0.15, 0.18, 0.25}},
			{Name: "lifetime_multiplier", Path: "organism.lifetime_multiplier", Min: 28, Max: 40, Values: []float64{28, 32, 40}},
			{Name: "reproduction_multiplier", Path: "reproduction.cost_multiplier", Min: 1.5, Max: 2.2, Values: []float64{1.5, 1.85, 2.2}},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Grid returns every combination of the grid candidates, varying the last
// parameter fastest.
func (pv *ParamVector) Grid() [][]float64 {
	combos := [][]float64{{}}
	for _, spec := range pv.Specs {
		next := make([][]float64, 0, len(combos)*len(spec.Values))
		for _, prefix := range combos {
			for _, v := range spec.Values {
				combo := make([]float64, len(prefix), len(pv.Specs))
				copy(combo, prefix)
				next = append(next, append(combo, v))
			}
		}
		combos = next
	}
	return combos
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Min(math.Max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Food.ProducerRate = clamped[0]
	cfg.Mutation.Rate = clamped[1]
	cfg.Food.Benefit = clamped[2]
	cfg.Organism.LifetimeMultiplier = int(math.Round(clamped[3]))
	cfg.Reproduction.CostMultiplier = clamped[4]
}

// ExtractFromConfig extracts current parameter values from a Config.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Food.ProducerRate,
		cfg.Mutation.Rate,
		cfg.Food.Benefit,
		float64(cfg.Organism.LifetimeMultiplier),
		cfg.Reproduction.CostMultiplier,
	}
}
