package ga

import (
	"fmt"
	"math/rand"
)

// StrategyKind enumerates the parent selection strategies. The set is
// closed, so strategy dispatch is an exhaustive switch rather than an
// interface.
type StrategyKind int

const (
	// Tournament runs two independent fixed-length tournaments over the
	// whole pool, one per parent.
	Tournament StrategyKind = iota
	// PrimeParent draws both parents uniformly from the elite window at
	// the top of the ranked pool.
	PrimeParent
	// Roulette draws parents proportionally to the pool's fitness mass.
	Roulette
)

func (k StrategyKind) String() string {
	switch k {
	case Tournament:
		return "tournament"
	case PrimeParent:
		return "prime_parent"
	case Roulette:
		return "roulette"
	}
	return fmt.Sprintf("StrategyKind(%d)", int(k))
}

// Strategy is one configured parent selection strategy. Weight sets its
// share of the crossover slots relative to the other configured
// strategies; Rounds and Rate are the Tournament and PrimeParent knobs.
type Strategy struct {
	Kind   StrategyKind
	Weight int
	Rounds int
	Rate   float64
}

// CrossoverFamily is a resolved parent assignment for one child slot.
// Parent fitness values are snapshotted from the ranking that produced
// the pool, so later replacement writes never leak into recombination.
type CrossoverFamily struct {
	ChildSlot      int
	ParentASlot    int
	ParentBSlot    int
	ParentAFitness float64
	ParentBFitness float64
}

func family(childSlot int, a, b FitnessPair) CrossoverFamily {
	return CrossoverFamily{
		ChildSlot:      childSlot,
		ParentASlot:    a.Index,
		ParentBSlot:    b.Index,
		ParentAFitness: a.Fitness,
		ParentBFitness: b.Fitness,
	}
}

// CreateOffspring picks a parent pair from pool for every target slot and
// returns one family per target, in target order. The pool must be sorted
// ascending by fitness and is never restricted to survivors.
func (s Strategy) CreateOffspring(rng *rand.Rand, pool []FitnessPair, targets []FitnessPair) []CrossoverFamily {
	switch s.Kind {
	case Tournament:
		return s.tournamentOffspring(rng, pool, targets)
	case PrimeParent:
		return s.primeParentOffspring(rng, pool, targets)
	case Roulette:
		return s.rouletteOffspring(rng, pool, targets)
	}
	panic(fmt.Sprintf("ga: unknown strategy kind %d", int(s.Kind)))
}

func (s Strategy) tournamentOffspring(rng *rand.Rand, pool []FitnessPair, targets []FitnessPair) []CrossoverFamily {
	families := make([]CrossoverFamily, 0, len(targets))
	for _, target := range targets {
		a := s.runTournament(rng, pool)
		b := s.runTournament(rng, pool)
		families = append(families, family(target.Index, pool[a], pool[b]))
	}
	return families
}

// runTournament draws an initial candidate and then Rounds-1 challengers,
// keeping whichever has the higher fitness. The two parent tournaments
// are independent, so a slot can win both.
func (s Strategy) runTournament(rng *rand.Rand, pool []FitnessPair) int {
	best := rng.Intn(len(pool))
	for r := 1; r < s.Rounds; r++ {
		challenger := rng.Intn(len(pool))
		if pool[challenger].Fitness > pool[best].Fitness {
			best = challenger
		}
	}
	return best
}

func (s Strategy) primeParentOffspring(rng *rand.Rand, pool []FitnessPair, targets []FitnessPair) []CrossoverFamily {
	window := eliteWindow(len(pool), s.Rate)
	low := len(pool) - window
	families := make([]CrossoverFamily, 0, len(targets))
	for _, target := range targets {
		ai := low + rng.Intn(window)
		bi := low + rng.Intn(window)
		// A singleton window cannot yield distinct parents; allow equal
		// ones there instead of redrawing forever.
		for window > 1 && bi == ai {
			bi = low + rng.Intn(window)
		}
		families = append(families, family(target.Index, pool[ai], pool[bi]))
	}
	return families
}

// eliteWindow returns how many of the top-ranked slots count as elite.
func eliteWindow(poolSize int, rate float64) int {
	w := int(float64(poolSize) * rate)
	if w < 1 {
		w = 1
	}
	if w > poolSize {
		w = poolSize
	}
	return w
}

func (s Strategy) rouletteOffspring(rng *rand.Rand, pool []FitnessPair, targets []FitnessPair) []CrossoverFamily {
	sum := 0.0
	for _, p := range pool {
		sum += p.Fitness
	}
	families := make([]CrossoverFamily, 0, len(targets))
	for _, target := range targets {
		a := rouletteDraw(rng, sum, len(pool))
		b := rouletteDraw(rng, sum, len(pool))
		families = append(families, family(target.Index, pool[a], pool[b]))
	}
	return families
}

// rouletteDraw scales a uniform draw in [0, sum) by the pool size and
// truncates it into an index. The scaling over- or undershoots whenever
// the fitness mass strays from 1, so the result is clamped into the pool;
// proportionality still assumes non-negative fitness.
func rouletteDraw(rng *rand.Rand, sum float64, poolSize int) int {
	i := int(rng.Float64() * sum * float64(poolSize))
	if i < 0 {
		i = 0
	}
	if i >= poolSize {
		i = poolSize - 1
	}
	return i
}
