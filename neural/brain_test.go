package neural

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/lifeengine/components"
)

func testParams() Params {
	return Params{HiddenWidth: 5, InitRange: 1.0, MutationRate: 1.0, WeightRange: 0.25}
}

func TestNewBrainDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for hidden := 0; hidden <= 3; hidden++ {
		b := NewBrain(3, hidden, testParams(), rng)

		if len(b.Weights) != hidden+1 {
			t.Errorf("hidden=%d: %d weight layers, want %d", hidden, len(b.Weights), hidden+1)
		}
		if err := b.Validate(); err != nil {
			t.Errorf("hidden=%d: %v", hidden, err)
		}
		rows, cols := b.Weights[len(b.Weights)-1].Dims()
		if rows != NumOutputs {
			t.Errorf("hidden=%d: output layer has %d rows, want %d", hidden, rows, NumOutputs)
		}
		if hidden == 0 && cols != 3 {
			t.Errorf("direct layer has %d columns, want 3", cols)
		}
	}
}

func TestProcessInputAlwaysCardinal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for hidden := 0; hidden <= 3; hidden++ {
		b := NewBrain(4, hidden, testParams(), rng)
		for i := 0; i < 20; i++ {
			eyes := []float64{0.1, 0.5, -1.0, 0.1}
			eyes[rng.Intn(4)] = 0.5
			d := b.ProcessInput(eyes)
			if d == components.None || d > components.Right {
				t.Fatalf("hidden=%d: got direction %v", hidden, d)
			}
		}
		if got := len(b.Activations()); got != hidden {
			t.Errorf("hidden=%d: %d activation vectors", hidden, got)
		}
	}
}

func TestProcessInputPicksLargestOutput(t *testing.T) {
	b := NewBrain(1, 0, testParams(), rand.New(rand.NewSource(1)))
	// Output k gets weight w[k]; with input 1 the largest weight wins.
	b.Weights[0] = mat.NewDense(NumOutputs, 1, []float64{0.1, 0.2, 0.9, 0.3})

	if got := b.ProcessInput([]float64{1}); got != components.Left {
		t.Errorf("ProcessInput = %v, want Left", got)
	}

	// Ties go to the earlier output
	b.Weights[0] = mat.NewDense(NumOutputs, 1, []float64{0.5, 0.5, 0.5, 0.5})
	if got := b.ProcessInput([]float64{1}); got != components.Up {
		t.Errorf("ProcessInput on tie = %v, want Up", got)
	}
}

func TestProcessInputMismatchedLength(t *testing.T) {
	b := NewBrain(3, 1, testParams(), rand.New(rand.NewSource(42)))

	// Neither too few nor too many readings may panic
	b.ProcessInput([]float64{0.5})
	b.ProcessInput([]float64{0.5, 0.1, -1, 0.5, 0.5})
	b.ProcessInput(nil)

	if b.Input.Len() != 3 {
		t.Errorf("input size = %d, want 3", b.Input.Len())
	}
}

func TestMutateChangesWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := NewBrain(2, 1, testParams(), rng)
	before := b.Weights[0].At(0, 0)

	b.Mutate(1, rng)

	after := b.Weights[0].At(0, 0)
	if before == after {
		t.Error("Mutate did not change weights")
	}
	if d := after - before; d < -0.25 || d >= 0.25 {
		t.Errorf("weight moved by %v, want within [-0.25, 0.25)", d)
	}
}

func TestMutateChangesOneLayerAtATime(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := testParams()
	p.MutationRate = 0
	b := NewBrain(2, 0, p, rng)

	steps := []int{1, 2, 3, 3}
	for i, want := range steps {
		b.Mutate(3, rng)
		if b.NumHiddenLayers() != want {
			t.Fatalf("grow step %d: %d hidden layers, want %d", i, b.NumHiddenLayers(), want)
		}
		if err := b.Validate(); err != nil {
			t.Fatalf("grow step %d: %v", i, err)
		}
	}

	for want := 2; want >= 0; want-- {
		b.Mutate(0, rng)
		if b.NumHiddenLayers() != want {
			t.Fatalf("shrink: %d hidden layers, want %d", b.NumHiddenLayers(), want)
		}
		if err := b.Validate(); err != nil {
			t.Fatalf("shrink to %d: %v", want, err)
		}
		b.ProcessInput([]float64{0.5, -1})
	}
}

func TestGrowKeepsInputAndOutputLayers(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := testParams()
	p.MutationRate = 0
	b := NewBrain(2, 1, p, rng)
	first := mat.DenseCopyOf(b.Weights[0])
	last := mat.DenseCopyOf(b.Weights[1])

	b.Mutate(2, rng)

	if !mat.Equal(first, b.Weights[0]) {
		t.Error("input layer changed when growing")
	}
	if !mat.Equal(last, b.Weights[2]) {
		t.Error("output layer changed when growing")
	}
}

func TestResizeInputsKeepsOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := NewBrain(2, 1, testParams(), rng)
	w00 := b.Weights[0].At(0, 0)
	w01 := b.Weights[0].At(0, 1)

	b.ResizeInputs(4, rng)
	if _, cols := b.Weights[0].Dims(); cols != 4 {
		t.Fatalf("cols = %d, want 4", cols)
	}
	if b.Weights[0].At(0, 0) != w00 || b.Weights[0].At(0, 1) != w01 {
		t.Error("existing input weights were not preserved")
	}

	b.ResizeInputs(1, rng)
	if err := b.Validate(); err != nil {
		t.Fatal(err)
	}
	if b.Weights[0].At(0, 0) != w00 {
		t.Error("first input weight lost when shrinking")
	}
}

func TestChildBrainIsIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	parent := NewBrain(2, 1, testParams(), rng)
	before := mat.DenseCopyOf(parent.Weights[0])

	child := parent.ChildBrain(3, 2, rng)

	if !mat.Equal(before, parent.Weights[0]) {
		t.Error("ChildBrain modified the parent")
	}
	if child.NumHiddenLayers() != 2 || child.NumInputs() != 3 {
		t.Errorf("child shape = %d inputs, %d hidden; want 3, 2", child.NumInputs(), child.NumHiddenLayers())
	}
	child.Weights[0].Set(0, 0, 999)
	if parent.Weights[0].At(0, 0) == 999 {
		t.Error("child shares weights with parent")
	}
}

func TestValidateDetectsMismatch(t *testing.T) {
	b := NewBrain(2, 1, testParams(), rand.New(rand.NewSource(42)))
	b.Weights = b.Weights[:1]

	if err := b.Validate(); err == nil {
		t.Error("expected error for missing output layer")
	}
}

func BenchmarkProcessInput(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	brain := NewBrain(4, 2, testParams(), rng)
	eyes := []float64{0.1, 0.5, -1, 0.1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		brain.ProcessInput(eyes)
	}
}
