package ga

import (
	"math"
	"sort"
	"sync"

	"evoflow/internal/nn"
)

// FitnessFunc scores one genome; higher is better. It may call Evaluate
// on the genome any number of times. RouletteStrategy additionally
// requires scores to be non-negative.
type FitnessFunc func(*nn.Network) float64

// FitnessPair ties a fitness score to a population slot. Ordering is by
// fitness alone; identity is by slot index.
type FitnessPair struct {
	Fitness float64
	Index   int
}

// Rank applies fn to every genome, caching the score on each, and returns
// one pair per slot sorted ascending by fitness: index 0 is the worst
// genome, the tail is the best. NaN scores sort below everything so the
// order stays total and deterministic.
//
// Evaluation fans out across at most workers goroutines; slots are
// independent, so only the sort itself is sequential.
func Rank(pop []*nn.Network, fn FitnessFunc, workers int) []FitnessPair {
	pairs := make([]FitnessPair, len(pop))
	if workers <= 1 {
		for i, net := range pop {
			score := fn(net)
			net.SetFitness(score)
			pairs[i] = FitnessPair{Fitness: score, Index: i}
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, workers)
		for i, net := range pop {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, net *nn.Network) {
				defer wg.Done()
				defer func() { <-sem }()
				score := fn(net)
				net.SetFitness(score)
				pairs[i] = FitnessPair{Fitness: score, Index: i}
			}(i, net)
		}
		wg.Wait()
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return lessFitness(pairs[i].Fitness, pairs[j].Fitness)
	})
	return pairs
}

func lessFitness(a, b float64) bool {
	if math.IsNaN(a) {
		return !math.IsNaN(b)
	}
	if math.IsNaN(b) {
		return false
	}
	return a < b
}
