package ga

import (
	"fmt"
	"math/rand"
	"time"

	"evoflow/internal/nn"
)

// VariableNotSetError reports a required builder field that was never
// provided.
type VariableNotSetError struct {
	Field string
}

func (e *VariableNotSetError) Error() string {
	return fmt.Sprintf("variable not set: %s", e.Field)
}

// ValidationError reports a provided parameter outside its documented
// bounds.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Reason)
}

// Builder assembles a Trainer, validating every parameter before any
// population is spawned. Construction is the only place configuration is
// checked; a built Trainer assumes its invariants hold.
type Builder struct {
	populationSize    int
	populationSizeSet bool
	architecture      []int
	activation        string
	fitnessFn         FitnessFunc
	survivalRate      float64
	crossoverRate     float64
	mutationRate      float64
	eliteRate         float64
	eliteRateSet      bool
	strategies        []Strategy
	rng               *rand.Rand
	workers           int
}

// NewBuilder returns a Builder with every field unset.
func NewBuilder() *Builder {
	return &Builder{}
}

// PopulationSize sets how many genomes the trainer keeps; must be > 1.
func (b *Builder) PopulationSize(n int) *Builder {
	b.populationSize = n
	b.populationSizeSet = true
	return b
}

// Architecture sets the layer widths, input first. Every width must be
// positive and at least input and output are required.
func (b *Builder) Architecture(widths ...int) *Builder {
	b.architecture = widths
	return b
}

// Activation selects the hidden-layer activation function by name.
// Defaults to nn.DefaultActivation.
func (b *Builder) Activation(name string) *Builder {
	b.activation = name
	return b
}

// FitnessFunction sets the objective used to score genomes.
func (b *Builder) FitnessFunction(fn FitnessFunc) *Builder {
	b.fitnessFn = fn
	return b
}

// SurvivalRate sets the fraction of the population exempt from
// replacement each generation; must be in [0, 1]. Defaults to 0.
func (b *Builder) SurvivalRate(rate float64) *Builder {
	b.survivalRate = rate
	return b
}

// CrossoverRate sets the fraction of replaced slots filled by crossover
// rather than elite copies; must be in [0, 1]. Defaults to 0.
func (b *Builder) CrossoverRate(rate float64) *Builder {
	b.crossoverRate = rate
	return b
}

// MutationRate sets the per-weight mutation probability; must be in
// [0, 1]. Defaults to 0.
func (b *Builder) MutationRate(rate float64) *Builder {
	b.mutationRate = rate
	return b
}

// EliteRate sets the elite window fraction used by the copy phase; must
// be in [0, 1]. Defaults to 0.1.
func (b *Builder) EliteRate(rate float64) *Builder {
	b.eliteRate = rate
	b.eliteRateSet = true
	return b
}

// AddStrategy registers a parent selection strategy. Strategies are
// deduplicated by kind: a later entry overwrites an earlier one of the
// same kind in place, keeping the original position.
func (b *Builder) AddStrategy(s Strategy) *Builder {
	for i, existing := range b.strategies {
		if existing.Kind == s.Kind {
			b.strategies[i] = s
			return b
		}
	}
	b.strategies = append(b.strategies, s)
	return b
}

// Rand sets the random source for spawning, selection, and mutation.
// Defaults to a time-seeded source.
func (b *Builder) Rand(rng *rand.Rand) *Builder {
	b.rng = rng
	return b
}

// Workers bounds the fitness evaluation fan-out during ranking. Values
// below 2 keep evaluation sequential.
func (b *Builder) Workers(n int) *Builder {
	b.workers = n
	return b
}

// Build validates the configuration and constructs the trainer with its
// population spawned and pre-evaluated. Failures are typed: a
// *VariableNotSetError for missing required fields, a *ValidationError
// for out-of-range parameters.
func (b *Builder) Build() (*Trainer, error) {
	if !b.populationSizeSet {
		return nil, &VariableNotSetError{Field: "population_size"}
	}
	if b.architecture == nil {
		return nil, &VariableNotSetError{Field: "architecture"}
	}
	if b.fitnessFn == nil {
		return nil, &VariableNotSetError{Field: "fitness_function"}
	}

	if b.populationSize <= 1 {
		return nil, &ValidationError{Reason: "population_size must be greater than 1"}
	}
	if len(b.architecture) < 2 {
		return nil, &ValidationError{Reason: "architecture needs at least input and output widths"}
	}
	for _, w := range b.architecture {
		if w <= 0 {
			return nil, &ValidationError{Reason: "architecture cannot contain zero-width layers"}
		}
	}
	if err := checkRate("survival_rate", b.survivalRate); err != nil {
		return nil, err
	}
	if err := checkRate("crossover_rate", b.crossoverRate); err != nil {
		return nil, err
	}
	if err := checkRate("mutation_rate", b.mutationRate); err != nil {
		return nil, err
	}
	eliteRate := b.eliteRate
	if !b.eliteRateSet {
		eliteRate = 0.1
	}
	if err := checkRate("elite_rate", eliteRate); err != nil {
		return nil, err
	}

	totalWeight := 0
	for _, s := range b.strategies {
		if s.Weight < 0 {
			return nil, &ValidationError{Reason: fmt.Sprintf("%s strategy weight must not be negative", s.Kind)}
		}
		switch s.Kind {
		case Tournament:
			if s.Rounds < 1 {
				return nil, &ValidationError{Reason: "tournament rounds must be at least 1"}
			}
		case PrimeParent:
			if s.Rate < 0 || s.Rate > 1 {
				return nil, &ValidationError{Reason: "prime_parent rate must be between 0.0 and 1.0"}
			}
		case Roulette:
		default:
			return nil, &ValidationError{Reason: fmt.Sprintf("unknown strategy kind %d", int(s.Kind))}
		}
		totalWeight += s.Weight
	}
	if len(b.strategies) > 0 && totalWeight == 0 {
		return nil, &ValidationError{Reason: "strategy weights must sum to a positive value"}
	}

	activation := b.activation
	if activation == "" {
		activation = nn.DefaultActivation
	}
	if _, err := nn.ActivationByName(activation); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	crossoverRate := b.crossoverRate
	if len(b.strategies) == 0 {
		// Without strategies every replaced slot goes to the copy phase.
		crossoverRate = 0
	}

	rng := b.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	t := &Trainer{
		population:    make([]*nn.Network, b.populationSize),
		fitnessFn:     b.fitnessFn,
		strategies:    append([]Strategy(nil), b.strategies...),
		survivalRate:  b.survivalRate,
		crossoverRate: crossoverRate,
		mutationRate:  b.mutationRate,
		eliteRate:     eliteRate,
		rng:           rng,
		workers:       b.workers,
	}
	for i := range t.population {
		net, err := nn.New(b.architecture, activation, rng)
		if err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
		net.SetFitness(b.fitnessFn(net))
		t.population[i] = net
	}
	return t, nil
}

func checkRate(name string, rate float64) error {
	if rate < 0 || rate > 1 {
		return &ValidationError{Reason: fmt.Sprintf("%s must be between 0.0 and 1.0", name)}
	}
	return nil
}
