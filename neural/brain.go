// Package neural provides the feed-forward brains that steer sighted movers.
package neural

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/lifeengine/components"
)

// Brain maps eye readings to a movement direction.
//
// Weights[0] maps inputs to the first hidden layer, Weights[i] maps hidden
// layer i to i+1, and the last matrix maps the final hidden layer to the four
// outputs. With no hidden layers a single matrix maps inputs straight to the
// outputs. Each matrix has one row per neuron of the layer it feeds and one
// column per neuron of the layer before it.
type Brain struct {
	Input   *mat.VecDense   // Last eye readings
	Hidden  []*mat.VecDense // Activations per hidden layer
	Weights []*mat.Dense    // len(Hidden)+1 layer transitions

	params Params
}

// NewBrain creates a brain with freshly randomized weights.
func NewBrain(numInputs, numHidden int, p Params, rng *rand.Rand) *Brain {
	numInputs = max(numInputs, 1)
	numHidden = max(numHidden, 0)

	b := &Brain{
		Input:  mat.NewVecDense(numInputs, nil),
		params: p,
	}

	prev := numInputs
	for i := 0; i < numHidden; i++ {
		b.Weights = append(b.Weights, randomDense(p.HiddenWidth, prev, p.InitRange, rng))
		b.Hidden = append(b.Hidden, mat.NewVecDense(p.HiddenWidth, nil))
		prev = p.HiddenWidth
	}
	b.Weights = append(b.Weights, randomDense(NumOutputs, prev, p.InitRange, rng))

	b.mustValidate()
	return b
}

// randomDense returns an r x c matrix with entries uniform in [-scale, scale).
func randomDense(r, c int, scale float64, rng *rand.Rand) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * scale
	}
	return mat.NewDense(r, c, data)
}

// NumInputs returns the size of the input layer.
func (b *Brain) NumInputs() int {
	return b.Input.Len()
}

// NumHiddenLayers returns the number of hidden layers.
func (b *Brain) NumHiddenLayers() int {
	return len(b.Hidden)
}

// ProcessInput runs eye readings through the network and returns the
// direction whose output neuron is largest. Ties go to the earlier output.
// Readings beyond the input size are ignored; missing ones read as zero.
func (b *Brain) ProcessInput(eyeData []float64) components.Direction {
	input := mat.NewVecDense(b.NumInputs(), nil)
	for i := 0; i < input.Len() && i < len(eyeData); i++ {
		input.SetVec(i, eyeData[i])
	}
	b.Input = input

	var act mat.Vector = input
	for l, w := range b.Weights {
		rows, _ := w.Dims()
		out := mat.NewVecDense(rows, nil)
		out.MulVec(w, act)
		for i := 0; i < rows; i++ {
			out.SetVec(i, math.Tanh(out.AtVec(i)))
		}
		if l < len(b.Hidden) {
			b.Hidden[l] = out
		}
		act = out
	}

	outputs := act.(*mat.VecDense).RawVector().Data
	return components.Cardinals[floats.MaxIdx(outputs)]
}

// Activations returns copies of the hidden layer activations from the last
// ProcessInput call.
func (b *Brain) Activations() [][]float64 {
	out := make([][]float64, len(b.Hidden))
	for i, h := range b.Hidden {
		out[i] = make([]float64, h.Len())
		copy(out[i], h.RawVector().Data)
	}
	return out
}

// Mutate perturbs every weight with probability MutationRate, then moves the
// hidden layer count one step toward target. Growing inserts a random
// hidden-to-hidden layer right after the input layer; shrinking drops the
// last hidden layer.
func (b *Brain) Mutate(target int, rng *rand.Rand) {
	if rng.Float64() < b.params.MutationRate {
		delta := b.params.WeightRange
		for _, w := range b.Weights {
			w.Apply(func(_, _ int, v float64) float64 {
				return v + (rng.Float64()*2-1)*delta
			}, w)
		}
	}

	switch {
	case target > b.NumHiddenLayers():
		b.growLayer(rng)
	case target < b.NumHiddenLayers():
		b.shrinkLayer(rng)
	}

	b.mustValidate()
}

func (b *Brain) growLayer(rng *rand.Rand) {
	width, scale := b.params.HiddenWidth, b.params.InitRange

	if len(b.Hidden) == 0 {
		// Split the direct input->output layer around a new hidden layer
		b.Weights = []*mat.Dense{
			randomDense(width, b.NumInputs(), scale, rng),
			randomDense(NumOutputs, width, scale, rng),
		}
		b.Hidden = []*mat.VecDense{mat.NewVecDense(width, nil)}
		return
	}

	layer := randomDense(width, width, scale, rng)
	b.Weights = append(b.Weights[:1], append([]*mat.Dense{layer}, b.Weights[1:]...)...)
	b.Hidden = append(b.Hidden, mat.NewVecDense(width, nil))
}

func (b *Brain) shrinkLayer(rng *rand.Rand) {
	last := len(b.Hidden) - 1

	if last == 0 {
		b.Weights = []*mat.Dense{randomDense(NumOutputs, b.NumInputs(), b.params.InitRange, rng)}
		b.Hidden = nil
		return
	}

	// Weights[last] feeds the last hidden layer. Every hidden layer has the
	// same width, so the output layer still lines up once it is gone.
	b.Weights = append(b.Weights[:last], b.Weights[last+1:]...)
	b.Hidden = b.Hidden[:last]
}

// ResizeInputs changes the input layer size, keeping the weights of inputs
// that still exist and randomizing new ones.
func (b *Brain) ResizeInputs(n int, rng *rand.Rand) {
	n = max(n, 1)
	if n == b.NumInputs() {
		return
	}

	old := b.Weights[0]
	rows, cols := old.Dims()
	resized := randomDense(rows, n, b.params.InitRange, rng)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols && j < n; j++ {
			resized.Set(i, j, old.At(i, j))
		}
	}
	b.Weights[0] = resized
	b.Input = mat.NewVecDense(n, nil)

	b.mustValidate()
}

// Clone creates a deep copy of the brain.
func (b *Brain) Clone() *Brain {
	clone := &Brain{
		Input:   mat.VecDenseCopyOf(b.Input),
		Hidden:  make([]*mat.VecDense, len(b.Hidden)),
		Weights: make([]*mat.Dense, len(b.Weights)),
		params:  b.params,
	}
	for i, h := range b.Hidden {
		clone.Hidden[i] = mat.VecDenseCopyOf(h)
	}
	for i, w := range b.Weights {
		clone.Weights[i] = mat.DenseCopyOf(w)
	}
	return clone
}

// ChildBrain returns an independent copy sized for numInputs eyes and
// mutated toward numHidden hidden layers.
func (b *Brain) ChildBrain(numInputs, numHidden int, rng *rand.Rand) *Brain {
	child := b.Clone()
	child.ResizeInputs(numInputs, rng)
	child.Mutate(numHidden, rng)
	return child
}

// Validate checks that the layer list and matrix shapes line up.
func (b *Brain) Validate() error {
	if len(b.Weights) != len(b.Hidden)+1 {
		return fmt.Errorf("brain has %d weight layers for %d hidden layers", len(b.Weights), len(b.Hidden))
	}

	prev := b.NumInputs()
	for i, w := range b.Weights {
		rows, cols := w.Dims()
		if cols != prev {
			return fmt.Errorf("layer %d has %d columns, want %d", i, cols, prev)
		}
		want := NumOutputs
		if i < len(b.Hidden) {
			want = b.Hidden[i].Len()
		}
		if rows != want {
			return fmt.Errorf("layer %d has %d rows, want %d", i, rows, want)
		}
		prev = rows
	}
	return nil
}

func (b *Brain) mustValidate() {
	if err := b.Validate(); err != nil {
		panic(fmt.Sprintf("neural: %v", err))
	}
}
