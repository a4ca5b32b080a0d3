package logging

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"evoflow/internal/nn"
)

func testPopulation(t *testing.T, fitnesses ...float64) []*nn.Network {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	pop := make([]*nn.Network, len(fitnesses))
	for i, f := range fitnesses {
		net, err := nn.New([]int{2, 1}, "tanh", rng)
		if err != nil {
			t.Fatalf("nn.New: %v", err)
		}
		net.SetFitness(f)
		pop[i] = net
	}
	return pop
}

func TestSummarize(t *testing.T) {
	pop := testPopulation(t, 1, 2, 3)
	summary := Summarize(5, pop)

	if summary.Generation != 5 {
		t.Fatalf("generation %d, want 5", summary.Generation)
	}
	if summary.BestFitness != 3 || summary.WorstFitness != 1 {
		t.Fatalf("best/worst = %v/%v, want 3/1", summary.BestFitness, summary.WorstFitness)
	}
	if summary.MeanFitness != 2 {
		t.Fatalf("mean %v, want 2", summary.MeanFitness)
	}
	if math.Abs(summary.StdFitness-1) > 1e-12 {
		t.Fatalf("std %v, want 1", summary.StdFitness)
	}
	if summary.BestID != pop[2].ID().String() {
		t.Fatalf("best id %q, want %q", summary.BestID, pop[2].ID())
	}
}

func TestLoggerWritesAllSinks(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "run.csv")
	jsonPath := filepath.Join(dir, "run.jsonl")

	logger, err := NewLogger(csvPath, jsonPath)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if err := logger.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	pop := testPopulation(t, -2, 0, 4)
	logger.LogGeneration(1, pop)
	logger.LogGeneration(2, pop)
	logger.Close()

	csvFile, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("opening csv: %v", err)
	}
	defer csvFile.Close()
	rows, err := csv.NewReader(csvFile).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("%d csv rows, want header plus 2", len(rows))
	}
	if rows[0][0] != "generation" || rows[1][0] != "1" || rows[2][0] != "2" {
		t.Fatalf("unexpected csv contents: %v", rows)
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("reading jsonl: %v", err)
	}
	lines := bytes.Split(bytes.TrimRight(jsonData, "\n"), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("%d jsonl lines, want 2", len(lines))
	}
	var summary GenerationSummary
	if err := json.Unmarshal(lines[0], &summary); err != nil {
		t.Fatalf("parsing jsonl: %v", err)
	}
	if summary.Generation != 1 || summary.BestFitness != 4 {
		t.Fatalf("jsonl summary %+v, want generation 1 best 4", summary)
	}
}

func TestLogGenerationBeforeInitIsIgnored(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.jsonl"))
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	// Must not panic on the nil writers.
	logger.LogGeneration(1, testPopulation(t, 1, 2))
}
