package nn

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/gofrs/uuid"
)

// layer is one fully-connected layer. The weight matrix has one row per
// neuron; each row is one column wider than the layer's input so that
// column 0 can carry the neuron's bias.
type layer struct {
	sums    []float64   // pre-activation scratch
	outs    []float64   // post-activation scratch
	weights [][]float64 // rows = neurons, cols = input width + 1
}

func newLayer(neurons, inputs int, rng *rand.Rand) layer {
	l := layer{
		sums:    make([]float64, neurons),
		outs:    make([]float64, neurons),
		weights: make([][]float64, neurons),
	}
	for i := range l.weights {
		row := make([]float64, inputs+1)
		for j := range row {
			row[j] = 2*rng.Float64() - 1
		}
		l.weights[i] = row
	}
	return l
}

func (l layer) clone() layer {
	c := layer{
		sums:    make([]float64, len(l.sums)),
		outs:    make([]float64, len(l.outs)),
		weights: make([][]float64, len(l.weights)),
	}
	copy(c.sums, l.sums)
	copy(c.outs, l.outs)
	for i, row := range l.weights {
		c.weights[i] = make([]float64, len(row))
		copy(c.weights[i], row)
	}
	return c
}

// Network is a fixed-topology feedforward network whose weights are the
// genome evolved by the ga package. It carries its last computed fitness,
// which is only authoritative right after a ranking pass.
type Network struct {
	layers     []layer
	activation string
	act        ActivationFunc
	fitness    float64
	id         uuid.UUID
}

// New builds a randomly initialized network. The architecture lists layer
// widths starting with the input size; every weight starts uniform in
// [-1, 1). The caller validates the architecture (see ga.Builder).
func New(architecture []int, activation string, rng *rand.Rand) (*Network, error) {
	act, err := ActivationByName(activation)
	if err != nil {
		return nil, err
	}
	n := &Network{
		layers:     make([]layer, 0, len(architecture)-1),
		activation: activation,
		act:        act,
		id:         uuid.Must(uuid.NewV4()),
	}
	for i := 1; i < len(architecture); i++ {
		n.layers = append(n.layers, newLayer(architecture[i], architecture[i-1], rng))
	}
	return n, nil
}

// NewFromParents builds a child by weighted recombination. Topology and
// activation come from parent a. Each weight keeps a's value with
// probability fitA/(fitA+fitB) and takes b's otherwise, so the fitter
// parent contributes more genes. The caller guarantees fitA+fitB != 0.
// The child's fitness is left unset until it is re-evaluated.
func NewFromParents(a, b *Network, fitA, fitB float64, rng *rand.Rand) *Network {
	child := &Network{
		layers:     make([]layer, len(a.layers)),
		activation: a.activation,
		act:        a.act,
		id:         uuid.Must(uuid.NewV4()),
	}
	ratio := fitA / (fitA + fitB)
	for li := range a.layers {
		cl := a.layers[li].clone()
		bw := b.layers[li].weights
		for i := range cl.weights {
			for j := range cl.weights[i] {
				if rng.Float64() > ratio {
					cl.weights[i][j] = bw[i][j]
				}
			}
		}
		child.layers[li] = cl
	}
	return child
}

// Evaluate runs one forward pass and returns a copy of the output layer.
//
// A constant 1.0 bias is prepended to the input, so the first layer dots
// entire weight rows against the bias-prefixed vector. Later layers read
// their bias from column 0 and dot the remaining columns with the previous
// layer's outputs. The final layer is linear. This bias asymmetry between
// the first and later layers is part of the numerical contract.
//
// The input length must match the declared input width; that is the
// caller's responsibility and is not checked here.
func (n *Network) Evaluate(input []float64) []float64 {
	x := make([]float64, 0, len(input)+1)
	x = append(x, 1.0)
	x = append(x, input...)

	last := len(n.layers) - 1
	for j := range n.layers {
		l := &n.layers[j]
		if j == 0 {
			for i, row := range l.weights {
				sum := 0.0
				for k, w := range row {
					sum += w * x[k]
				}
				l.sums[i] = sum
				// A single-layer network takes this path too, so its
				// output stays activated rather than linear.
				l.outs[i] = n.act(sum)
			}
			continue
		}
		prev := n.layers[j-1].outs
		for i, row := range l.weights {
			sum := row[0]
			for k, v := range prev {
				sum += row[k+1] * v
			}
			l.sums[i] = sum
			if j == last {
				l.outs[i] = sum
			} else {
				l.outs[i] = n.act(sum)
			}
		}
	}

	out := make([]float64, len(n.layers[last].outs))
	copy(out, n.layers[last].outs)
	return out
}

// Mutate perturbs each weight independently with the given probability by
// 0.1 times a standard normal sample, clamping the result into [0, 1].
func (n *Network) Mutate(frequency float64, rng *rand.Rand) {
	for li := range n.layers {
		for _, row := range n.layers[li].weights {
			for wi := range row {
				if rng.Float64() < frequency {
					w := row[wi] + 0.1*rng.NormFloat64()
					if w < 0 {
						w = 0
					} else if w > 1 {
						w = 1
					}
					row[wi] = w
				}
			}
		}
	}
}

// Clone makes a deep copy sharing nothing with the receiver.
func (n *Network) Clone() *Network {
	c := &Network{
		layers:     make([]layer, len(n.layers)),
		activation: n.activation,
		act:        n.act,
		fitness:    n.fitness,
		id:         n.id,
	}
	for i := range n.layers {
		c.layers[i] = n.layers[i].clone()
	}
	return c
}

// Fitness returns the cached fitness score.
func (n *Network) Fitness() float64 { return n.fitness }

// SetFitness records a freshly computed fitness score.
func (n *Network) SetFitness(f float64) { n.fitness = f }

// ID returns the network's identity tag.
func (n *Network) ID() uuid.UUID { return n.id }

// Activation returns the name of the configured activation function.
func (n *Network) Activation() string { return n.activation }

// NumLayers returns the number of weight layers.
func (n *Network) NumLayers() int { return len(n.layers) }

// NumWeights returns the total weight count including biases.
func (n *Network) NumWeights() int {
	total := 0
	for _, l := range n.layers {
		for _, row := range l.weights {
			total += len(row)
		}
	}
	return total
}

// String renders the fitness and every weight row, one layer at a time.
func (n *Network) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "id: %s\nfitness: %g\n", n.id, n.fitness)
	for _, l := range n.layers {
		sb.WriteString("layer\n")
		for _, row := range l.weights {
			parts := make([]string, len(row))
			for i, w := range row {
				parts[i] = fmt.Sprintf("%.4f", w)
			}
			fmt.Fprintf(&sb, "[%s]\n", strings.Join(parts, ", "))
		}
	}
	return sb.String()
}
