package nn

import (
	"math"
	"math/rand"
	"testing"
)

func mustNew(t *testing.T, arch []int, activation string, seed int64) *Network {
	t.Helper()
	net, err := New(arch, activation, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("New(%v, %q): %v", arch, activation, err)
	}
	return net
}

func flatWeights(n *Network) []float64 {
	var out []float64
	for _, l := range n.layers {
		for _, row := range l.weights {
			out = append(out, row...)
		}
	}
	return out
}

func setAllWeights(n *Network, v float64) {
	for _, l := range n.layers {
		for _, row := range l.weights {
			for i := range row {
				row[i] = v
			}
		}
	}
}

func TestEvaluateBiasAsymmetry(t *testing.T) {
	net := mustNew(t, []int{2, 2, 1}, "relu", 1)

	// First layer dots whole rows against [1, a, b]; the output layer
	// reads its bias from column 0 and stays linear.
	net.layers[0].weights[0] = []float64{0.5, 1, 0}
	net.layers[0].weights[1] = []float64{0, 0, 1}
	net.layers[1].weights[0] = []float64{0.25, 2, 3}

	out := net.Evaluate([]float64{1, 2})
	if len(out) != 1 {
		t.Fatalf("expected 1 output, got %d", len(out))
	}
	// h0 = relu(0.5 + 1*1) = 1.5, h1 = relu(2) = 2, out = 0.25 + 2*1.5 + 3*2
	want := 9.25
	if math.Abs(out[0]-want) > 1e-12 {
		t.Fatalf("Evaluate = %v, want %v", out[0], want)
	}
}

func TestEvaluateInteriorLayerActivated(t *testing.T) {
	net := mustNew(t, []int{1, 1, 1, 1}, "relu", 1)

	net.layers[0].weights[0] = []float64{0, 1}  // h0 = relu(a)
	net.layers[1].weights[0] = []float64{1, -2} // h1 = relu(1 - 2*h0)
	net.layers[2].weights[0] = []float64{0, 1}  // out = h1 (linear)

	out := net.Evaluate([]float64{1})
	// Without the interior activation the output would be -1.
	if out[0] != 0 {
		t.Fatalf("Evaluate = %v, want 0", out[0])
	}
}

func TestEvaluateSingleLayerAppliesActivation(t *testing.T) {
	net := mustNew(t, []int{1, 1}, "relu", 1)
	net.layers[0].weights[0] = []float64{0, -1}

	out := net.Evaluate([]float64{1})
	// A single layer takes the first-layer path, so the output is
	// activated rather than linear.
	if out[0] != 0 {
		t.Fatalf("Evaluate = %v, want relu(-1) = 0", out[0])
	}
}

func TestEvaluateDoesNotShareOutputBuffer(t *testing.T) {
	net := mustNew(t, []int{2, 2, 1}, "tanh", 3)
	a := net.Evaluate([]float64{0, 0})
	b := net.Evaluate([]float64{1, 1})
	a[0] = 999
	if b[0] == 999 {
		t.Fatal("Evaluate returned a shared buffer")
	}
}

func TestNewWeightsInRange(t *testing.T) {
	net := mustNew(t, []int{3, 5, 2}, "tanh", 7)
	for _, w := range flatWeights(net) {
		if w < -1 || w >= 1 {
			t.Fatalf("initial weight %v outside [-1, 1)", w)
		}
	}
}

func TestNewUnknownActivation(t *testing.T) {
	_, err := New([]int{2, 1}, "softplus", rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected error for unknown activation")
	}
}

func TestRecombineAllFromFitterParent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	a := mustNew(t, []int{2, 3, 1}, "tanh", 1)
	b := mustNew(t, []int{2, 3, 1}, "tanh", 2)

	// ratio = 1: no uniform draw in [0, 1) exceeds it, so every weight
	// must come from parent a.
	child := NewFromParents(a, b, 1.0, 0.0, rng)

	aw, cw := flatWeights(a), flatWeights(child)
	for i := range aw {
		if cw[i] != aw[i] {
			t.Fatalf("weight %d = %v, want parent a's %v", i, cw[i], aw[i])
		}
	}
	if child.Fitness() != 0 {
		t.Fatalf("child fitness = %v, want unset", child.Fitness())
	}
	if child.Activation() != a.Activation() {
		t.Fatalf("child activation %q, want %q", child.Activation(), a.Activation())
	}
}

func TestRecombineEqualFitnessMixesEvenly(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	a := mustNew(t, []int{30, 40, 10}, "tanh", 1)
	b := mustNew(t, []int{30, 40, 10}, "tanh", 2)
	setAllWeights(a, 0)
	setAllWeights(b, 1)

	child := NewFromParents(a, b, 2.0, 2.0, rng)

	ones, total := 0, 0
	for _, w := range flatWeights(child) {
		if w == 1 {
			ones++
		}
		total++
	}
	frac := float64(ones) / float64(total)
	if frac < 0.4 || frac > 0.6 {
		t.Fatalf("parent b fraction = %.3f over %d weights, want ~0.5", frac, total)
	}
}

func TestMutateZeroIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	net := mustNew(t, []int{3, 4, 2}, "tanh", 1)
	before := flatWeights(net)

	net.Mutate(0, rng)

	after := flatWeights(net)
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("weight %d changed from %v to %v", i, before[i], after[i])
		}
	}
}

func TestMutateFullTouchesEveryWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	net := mustNew(t, []int{3, 4, 2}, "tanh", 1)
	setAllWeights(net, 0.5)

	net.Mutate(1, rng)

	for i, w := range flatWeights(net) {
		if w == 0.5 {
			t.Fatalf("weight %d unchanged", i)
		}
		if w < 0 || w > 1 {
			t.Fatalf("weight %d = %v outside [0, 1]", i, w)
		}
	}
}

func TestMutateClampsIntoUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	net := mustNew(t, []int{4, 6, 3}, "tanh", 1)
	for i := 0; i < 50; i++ {
		net.Mutate(1, rng)
	}
	for _, w := range flatWeights(net) {
		if w < 0 || w > 1 {
			t.Fatalf("weight %v escaped [0, 1]", w)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	net := mustNew(t, []int{2, 3, 1}, "tanh", 1)
	net.SetFitness(4)

	clone := net.Clone()
	if clone.ID() != net.ID() {
		t.Fatal("clone should keep the original's identity")
	}
	if clone.Fitness() != 4 {
		t.Fatalf("clone fitness = %v, want 4", clone.Fitness())
	}

	before := flatWeights(clone)
	net.Mutate(1, rng)
	after := flatWeights(clone)
	for i := range before {
		if after[i] != before[i] {
			t.Fatal("mutating the original changed the clone")
		}
	}
}

func TestNumWeights(t *testing.T) {
	net := mustNew(t, []int{2, 2, 1}, "tanh", 1)
	// 2*(2+1) + 1*(2+1)
	if got := net.NumWeights(); got != 9 {
		t.Fatalf("NumWeights = %d, want 9", got)
	}
	if got := net.NumLayers(); got != 2 {
		t.Fatalf("NumLayers = %d, want 2", got)
	}
}
