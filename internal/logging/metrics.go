package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"evoflow/internal/nn"
)

// Logger writes per-generation training metrics as CSV rows, JSON lines,
// and console summaries.
type Logger struct {
	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	initialized bool
}

// NewLogger creates a new logger and ensures the output directories exist
func NewLogger(csvPath, jsonPath string) (*Logger, error) {
	l := &Logger{
		csvPath:  csvPath,
		jsonPath: jsonPath,
	}

	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	return l, nil
}

// Init opens the log files and writes the CSV header
func (l *Logger) Init() error {
	var err error

	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	header := []string{
		"generation", "best_fitness", "mean_fitness", "std_fitness", "worst_fitness", "best_id",
	}
	if err := l.csvWriter.Write(header); err != nil {
		return err
	}

	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	l.initialized = true
	return nil
}

// Close closes all log files
func (l *Logger) Close() {
	if l.csvWriter != nil {
		l.csvWriter.Flush()
	}
	if l.csvFile != nil {
		l.csvFile.Close()
	}
	if l.jsonFile != nil {
		l.jsonFile.Close()
	}
}

// GenerationSummary holds per-generation statistics
type GenerationSummary struct {
	Generation   int     `json:"generation"`
	BestFitness  float64 `json:"best_fitness"`
	MeanFitness  float64 `json:"mean_fitness"`
	StdFitness   float64 `json:"std_fitness"`
	WorstFitness float64 `json:"worst_fitness"`
	BestID       string  `json:"best_id"`
}

// Summarize computes the fitness statistics of a population from the
// genomes' cached scores.
func Summarize(gen int, pop []*nn.Network) GenerationSummary {
	scores := make([]float64, len(pop))
	best := pop[0]
	worst := pop[0]
	for i, net := range pop {
		scores[i] = net.Fitness()
		if net.Fitness() > best.Fitness() {
			best = net
		}
		if net.Fitness() < worst.Fitness() {
			worst = net
		}
	}

	return GenerationSummary{
		Generation:   gen,
		BestFitness:  best.Fitness(),
		MeanFitness:  stat.Mean(scores, nil),
		StdFitness:   stat.StdDev(scores, nil),
		WorstFitness: worst.Fitness(),
		BestID:       best.ID().String(),
	}
}

// LogGeneration writes one generation summary to every sink
func (l *Logger) LogGeneration(gen int, pop []*nn.Network) {
	if !l.initialized || len(pop) == 0 {
		return
	}

	summary := Summarize(gen, pop)

	row := []string{
		strconv.Itoa(gen),
		fmt.Sprintf("%.4f", summary.BestFitness),
		fmt.Sprintf("%.4f", summary.MeanFitness),
		fmt.Sprintf("%.4f", summary.StdFitness),
		fmt.Sprintf("%.4f", summary.WorstFitness),
		summary.BestID,
	}
	l.csvWriter.Write(row)
	l.csvWriter.Flush()

	jsonLine, _ := json.Marshal(summary)
	l.jsonFile.WriteString(string(jsonLine) + "\n")

	fmt.Printf("Gen %4d | Best: %8.2f | Mean: %8.2f | Std: %6.2f | Worst: %8.2f\n",
		gen, summary.BestFitness, summary.MeanFitness, summary.StdFitness, summary.WorstFitness)
}
