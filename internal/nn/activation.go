package nn

import (
	"fmt"
	"math"
)

// ActivationFunc maps a neuron's pre-activation sum to its output.
type ActivationFunc func(float64) float64

// DefaultActivation is used when a network is built without an explicit choice.
const DefaultActivation = "tanh"

var activations = map[string]ActivationFunc{
	"sigmoid": func(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) },
	"tanh":    math.Tanh,
	"relu": func(x float64) float64 {
		if x > 0 {
			return x
		}
		return 0
	},
}

// ActivationByName looks up a registered activation function.
func ActivationByName(name string) (ActivationFunc, error) {
	fn, ok := activations[name]
	if !ok {
		return nil, fmt.Errorf("unknown activation %q", name)
	}
	return fn, nil
}
