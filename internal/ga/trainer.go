package ga

import (
	"math/rand"

	"evoflow/internal/nn"
)

// Trainer drives a fixed-size population through rank/replace/mutate
// generations. It owns the population array exclusively: all replacement
// targets are slot indices resolved from a ranking snapshot taken before
// any write, so crossover and copy writes never overlap.
type Trainer struct {
	population []*nn.Network
	fitnessFn  FitnessFunc
	strategies []Strategy

	survivalRate  float64
	crossoverRate float64
	mutationRate  float64
	eliteRate     float64

	rng     *rand.Rand
	workers int
}

// Train runs the given number of generations back to back. Each
// generation depends on the previous one's final population, so the steps
// are strictly sequential.
func (t *Trainer) Train(generations int) {
	for g := 0; g < generations; g++ {
		t.Step()
	}
}

// Step advances one generation: rank the population, overwrite the
// lowest-fitness slots with crossover children and elite copies, then
// mutate everyone.
func (t *Trainer) Step() {
	ranked := Rank(t.population, t.fitnessFn, t.workers)

	dead := int(float64(len(ranked)) * (1.0 - t.survivalRate))
	deadSlots := ranked[:dead]
	crossCount := int(float64(dead) * t.crossoverRate)
	crossSlots, copySlots := deadSlots[:crossCount], deadSlots[crossCount:]

	t.replaceFromCrossover(ranked, crossSlots)
	t.replaceFromCopy(ranked, copySlots)

	for _, net := range t.population {
		net.Mutate(t.mutationRate, t.rng)
	}
}

// replaceFromCrossover splits the crossover slots across the configured
// strategies in proportion to their weights, in configuration order. Each
// strategy's share is floored independently against the full slot count,
// so rounding can leave a residue of trailing slots past the cursor;
// those keep their current genome until the mutation pass.
func (t *Trainer) replaceFromCrossover(ranked []FitnessPair, slots []FitnessPair) {
	if len(slots) == 0 || len(t.strategies) == 0 {
		return
	}
	total := 0
	for _, s := range t.strategies {
		total += s.Weight
	}
	cursor := 0
	for _, s := range t.strategies {
		share := len(slots) * s.Weight / total
		if share == 0 {
			continue
		}
		assigned := slots[cursor : cursor+share]
		cursor += share
		for _, fam := range s.CreateOffspring(t.rng, ranked, assigned) {
			t.materialize(fam)
		}
	}
}

// materialize builds the child for one resolved family, scores it, and
// writes it into its slot. Parent fitness comes from the family, not the
// population, so earlier writes in the same phase cannot skew the blend.
func (t *Trainer) materialize(fam CrossoverFamily) {
	child := nn.NewFromParents(
		t.population[fam.ParentASlot],
		t.population[fam.ParentBSlot],
		fam.ParentAFitness,
		fam.ParentBFitness,
		t.rng,
	)
	child.SetFitness(t.fitnessFn(child))
	t.population[fam.ChildSlot] = child
}

// replaceFromCopy refills the remaining dead slots with mutated clones of
// elite genomes, cycling a cursor down from the top of the ranking.
func (t *Trainer) replaceFromCopy(ranked []FitnessPair, slots []FitnessPair) {
	if len(slots) == 0 {
		return
	}
	window := eliteWindow(len(ranked), t.eliteRate)
	i := 1
	for _, slot := range slots {
		parent := ranked[len(ranked)-i]
		i++
		if i > window {
			i = 1
		}
		clone := t.population[parent.Index].Clone()
		clone.Mutate(t.mutationRate, t.rng)
		t.population[slot.Index] = clone
	}
}

// ExtractBest returns a clone of the genome with the highest cached
// fitness. Scores are authoritative as of the last ranking plus any
// children evaluated during that generation's replacement.
func (t *Trainer) ExtractBest() *nn.Network {
	best := t.population[0]
	for _, net := range t.population[1:] {
		if net.Fitness() > best.Fitness() {
			best = net
		}
	}
	return best.Clone()
}

// Population exposes the genomes for display and metrics. Callers must
// not replace or reorder slots.
func (t *Trainer) Population() []*nn.Network {
	return t.population
}

// Genome returns the genome at the given slot, or false when the slot is
// out of range.
func (t *Trainer) Genome(i int) (*nn.Network, bool) {
	if i < 0 || i >= len(t.population) {
		return nil, false
	}
	return t.population[i], true
}

// Size returns the population size.
func (t *Trainer) Size() int {
	return len(t.population)
}
