package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"evoflow/internal/config"
	"evoflow/internal/logging"
)

func main() {
	configPath := flag.String("config", "configs/xor.yaml", "path to config file")
	generations := flag.Int("generations", 200, "number of generations to run")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	trainer, obj, err := config.Build(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building trainer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("evoflow trainer - objective: %s\n", obj.Name)
	fmt.Printf("Config: %s\n", *configPath)
	fmt.Printf("Architecture: %v (%s), Population: %d, Seed: %d\n",
		cfg.NN.Architecture, cfg.NN.Activation, cfg.GA.Population, cfg.Seed)
	fmt.Println("---")

	logger, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	startTime := time.Now()

	for gen := 1; gen <= *generations; gen++ {
		trainer.Step()
		if cfg.Logging.EveryGenSummary || gen%10 == 0 || gen == *generations {
			logger.LogGeneration(gen, trainer.Population())
		}
	}

	fmt.Printf("---\nFinished %d generations in %s\n", *generations, time.Since(startTime).Round(time.Millisecond))

	best := trainer.ExtractBest()
	fmt.Printf("Best fitness: %.2f\n", best.Fitness())
	obj.Report(os.Stdout, best)
}
