package neural

import "github.com/pthm-cable/lifeengine/config"

// NumOutputs is the size of the output layer: one neuron per cardinal direction.
const NumOutputs = 4

// Params holds the brain settings shared by every organism in a run.
type Params struct {
	HiddenWidth  int     // Neurons per hidden layer
	InitRange    float64 // Fresh weights are uniform in [-InitRange, InitRange)
	MutationRate float64 // Chance a child brain gets its weights perturbed
	WeightRange  float64 // Perturbation is uniform in [-WeightRange, WeightRange)
}

// ParamsFromConfig extracts brain settings from the run configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		HiddenWidth:  cfg.Neural.HiddenWidth,
		InitRange:    cfg.Neural.InitRange,
		MutationRate: cfg.Mutation.Rate,
		WeightRange:  cfg.Mutation.WeightRange,
	}
}

// DefaultParams returns brain settings from the embedded default config.
func DefaultParams() Params {
	return ParamsFromConfig(config.Default())
}
