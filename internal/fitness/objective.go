// Package fitness provides the built-in training objectives used by the
// command front ends. Objectives are looked up by name so configs can
// select one without the caller wiring functions by hand.
package fitness

import (
	"fmt"
	"io"
	"sort"

	"evoflow/internal/ga"
	"evoflow/internal/nn"
)

// Objective bundles a fitness function with a human-readable probe used
// by the extract command.
type Objective struct {
	Name  string
	Score ga.FitnessFunc
	// Report evaluates the genome on the objective's cases and writes
	// one line per case.
	Report func(w io.Writer, net *nn.Network)
}

var objectives = map[string]Objective{
	"xor":  truthTableObjective("xor", xorCases),
	"nand": truthTableObjective("nand", nandCases),
}

// ByName looks up a registered objective.
func ByName(name string) (Objective, error) {
	obj, ok := objectives[name]
	if !ok {
		return Objective{}, fmt.Errorf("unknown objective %q (have %v)", name, Names())
	}
	return obj, nil
}

// Names returns the registered objective names, sorted.
func Names() []string {
	names := make([]string, 0, len(objectives))
	for name := range objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
