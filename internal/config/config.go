package config

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"evoflow/internal/fitness"
	"evoflow/internal/ga"
	"evoflow/internal/nn"
)

// Config is the root configuration structure
type Config struct {
	Seed    int64         `yaml:"seed"`
	NN      NNConfig      `yaml:"nn"`
	GA      GAConfig      `yaml:"ga"`
	Fitness FitnessConfig `yaml:"fitness"`
	Eval    EvalConfig    `yaml:"eval"`
	Logging LogConfig     `yaml:"logging"`
}

// NNConfig defines the network topology
type NNConfig struct {
	Architecture []int  `yaml:"architecture"` // layer widths, input first
	Activation   string `yaml:"activation"`   // sigmoid|tanh|relu
}

// GAConfig defines the generation pipeline parameters
type GAConfig struct {
	Population    int              `yaml:"population"`
	SurvivalRate  float64          `yaml:"survival_rate"`
	CrossoverRate float64          `yaml:"crossover_rate"`
	MutationRate  float64          `yaml:"mutation_rate"`
	EliteRate     float64          `yaml:"elite_rate"`
	Strategies    []StrategyConfig `yaml:"strategies"`
}

// StrategyConfig selects one parent selection strategy
type StrategyConfig struct {
	Type   string  `yaml:"type"`   // tournament|prime_parent|roulette
	Weight int     `yaml:"weight"` // share relative to the other strategies
	Rounds int     `yaml:"rounds"` // tournament only
	Rate   float64 `yaml:"rate"`   // prime_parent only
}

// FitnessConfig selects the training objective
type FitnessConfig struct {
	Objective string `yaml:"objective"`
}

// EvalConfig defines evaluation parameters
type EvalConfig struct {
	Workers int `yaml:"workers"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	EveryGenSummary bool   `yaml:"every_gen_summary"`
	CSVPath         string `yaml:"csv_path"`
	JSONPath        string `yaml:"json_path"`
}

// Load reads a YAML config file and returns a Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if len(cfg.NN.Architecture) == 0 {
		cfg.NN.Architecture = []int{2, 2, 1}
	}
	if cfg.NN.Activation == "" {
		cfg.NN.Activation = nn.DefaultActivation
	}
	if cfg.GA.Population == 0 {
		cfg.GA.Population = 200
	}
	if cfg.GA.SurvivalRate == 0 {
		cfg.GA.SurvivalRate = 0.6
	}
	if cfg.GA.CrossoverRate == 0 {
		cfg.GA.CrossoverRate = 0.9
	}
	if cfg.GA.MutationRate == 0 {
		cfg.GA.MutationRate = 0.05
	}
	if cfg.GA.EliteRate == 0 {
		cfg.GA.EliteRate = 0.1
	}
	if len(cfg.GA.Strategies) == 0 {
		cfg.GA.Strategies = []StrategyConfig{
			{Type: "prime_parent", Weight: 1, Rate: 0.2},
		}
	}
	if cfg.Fitness.Objective == "" {
		cfg.Fitness.Objective = "xor"
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/run.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/run.jsonl"
	}
}

// Strategy maps the file entry onto a ga.Strategy.
func (sc StrategyConfig) Strategy() (ga.Strategy, error) {
	s := ga.Strategy{Weight: sc.Weight, Rounds: sc.Rounds, Rate: sc.Rate}
	switch sc.Type {
	case "tournament":
		s.Kind = ga.Tournament
	case "prime_parent":
		s.Kind = ga.PrimeParent
	case "roulette":
		s.Kind = ga.Roulette
	default:
		return ga.Strategy{}, fmt.Errorf("unknown strategy type %q", sc.Type)
	}
	return s, nil
}

// Build resolves the objective and maps the config onto a ga.Builder, so
// file mistakes surface as the builder's typed validation failures.
func Build(cfg *Config) (*ga.Trainer, fitness.Objective, error) {
	obj, err := fitness.ByName(cfg.Fitness.Objective)
	if err != nil {
		return nil, fitness.Objective{}, err
	}

	b := ga.NewBuilder().
		PopulationSize(cfg.GA.Population).
		Architecture(cfg.NN.Architecture...).
		Activation(cfg.NN.Activation).
		FitnessFunction(obj.Score).
		SurvivalRate(cfg.GA.SurvivalRate).
		CrossoverRate(cfg.GA.CrossoverRate).
		MutationRate(cfg.GA.MutationRate).
		EliteRate(cfg.GA.EliteRate).
		Rand(rand.New(rand.NewSource(cfg.Seed))).
		Workers(cfg.Eval.Workers)

	for _, sc := range cfg.GA.Strategies {
		s, err := sc.Strategy()
		if err != nil {
			return nil, fitness.Objective{}, err
		}
		b.AddStrategy(s)
	}

	trainer, err := b.Build()
	if err != nil {
		return nil, fitness.Objective{}, err
	}
	return trainer, obj, nil
}
