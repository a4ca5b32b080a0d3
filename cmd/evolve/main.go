package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gosuri/uitable"

	"evoflow/internal/config"
	"evoflow/internal/fitness"
	"evoflow/internal/ga"
	"evoflow/internal/nn"
)

func main() {
	configPath := flag.String("config", "configs/xor.yaml", "path to config file")
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

	fmt.Printf("evoflow - objective: %s\n", obj.Name)
	fmt.Printf("Architecture: %v (%s), Population: %d\n",
		cfg.NN.Architecture, cfg.NN.Activation, cfg.GA.Population)
	fmt.Println("Commands: train <n> | display [i] | extract | exit")

	repl(trainer, obj)
}

func repl(trainer *ga.Trainer, obj fitness.Objective) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "e":
			fmt.Println("Exiting...")
			return

		case "train", "t":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "train requires a number of generations")
				continue
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 0 {
				fmt.Fprintf(os.Stderr, "could not parse %q as a generation count\n", parts[1])
				continue
			}
			trainer.Train(n)
			fmt.Printf("Trained %d generations, best fitness %.2f\n", n, trainer.ExtractBest().Fitness())

		case "display", "d":
			if len(parts) < 2 {
				displayPopulation(trainer)
				continue
			}
			i, err := strconv.Atoi(parts[1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not parse %q as a slot index\n", parts[1])
				continue
			}
			net, ok := trainer.Genome(i)
			if !ok {
				fmt.Fprintf(os.Stderr, "no genome at slot %d\n", i)
				continue
			}
			fmt.Print(net.String())

		case "extract", "ex":
			best := trainer.ExtractBest()
			fmt.Printf("Extracting best (fitness %.2f)\n", best.Fitness())
			obj.Report(os.Stdout, best)

		default:
			fmt.Printf("Unknown command %q\n", parts[0])
		}
	}
}

func displayPopulation(trainer *ga.Trainer) {
	table := uitable.New()
	table.AddRow("SLOT", "ID", "FITNESS", "LAYERS", "WEIGHTS")
	for i, net := range trainer.Population() {
		table.AddRow(i, shortID(net), fmt.Sprintf("%.2f", net.Fitness()), net.NumLayers(), net.NumWeights())
	}
	fmt.Println(table)
}

func shortID(net *nn.Network) string {
	id := net.ID().String()
	return id[:8]
}
