package fitness

import (
	"fmt"
	"io"
	"math"

	"evoflow/internal/nn"
)

// truthCase is one boolean input pair and its expected output.
type truthCase struct {
	in   []float64
	want float64
}

var xorCases = []truthCase{
	{in: []float64{0, 0}, want: 0},
	{in: []float64{0, 1}, want: 1},
	{in: []float64{1, 0}, want: 1},
	{in: []float64{1, 1}, want: 0},
}

var nandCases = []truthCase{
	{in: []float64{0, 0}, want: 1},
	{in: []float64{0, 1}, want: 1},
	{in: []float64{1, 0}, want: 1},
	{in: []float64{1, 1}, want: 0},
}

// truthTableObjective scores +1 for every case whose rounded output
// matches and -1 otherwise, so a four-case table scores in
// {-4, -2, 0, 2, 4}.
func truthTableObjective(name string, cases []truthCase) Objective {
	return Objective{
		Name: name,
		Score: func(net *nn.Network) float64 {
			score := 0.0
			for _, c := range cases {
				out := net.Evaluate(c.in)[0]
				if math.Round(out) == c.want {
					score++
				} else {
					score--
				}
			}
			return score
		},
		Report: func(w io.Writer, net *nn.Network) {
			for _, c := range cases {
				out := net.Evaluate(c.in)[0]
				fmt.Fprintf(w, "%g, %g -> %g : want %g\n", c.in[0], c.in[1], out, c.want)
			}
		},
	}
}
