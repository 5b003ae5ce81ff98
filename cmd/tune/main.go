// Package main searches simulation parameters for a large, steady population
// that rarely goes extinct. It runs either an exhaustive grid search or
// CMA-ES over the same parameters.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/lifeengine/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	method := flag.String("method", "grid", "Search method: grid or cmaes")
	ticks := flag.Int("ticks", 500, "Ticks simulated per trial")
	seed := flag.Int64("seed", 42, "RNG seed shared by all trials")
	maxEvals := flag.Int("max-evals", 100, "Maximum evaluations for cmaes")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	workers := flag.Int("workers", runtime.NumCPU(), "Concurrent trials for grid search")
	outputDir := flag.String("output", ".", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	params := NewParamVector()
	evaluator := NewEvaluator(params, baseCfg, *ticks, *seed)
	start := time.Now()

	var results []TrialResult
	switch *method {
	case "grid":
		results = runGrid(evaluator, params, *workers)
	case "cmaes":
		results = runCMAES(evaluator, params, *maxEvals, *population)
	default:
		slog.Error("unknown method", "method", *method)
		os.Exit(2)
	}
	if len(results) == 0 {
		slog.Error("no trials completed")
		os.Exit(1)
	}

	sortResults(results)
	best := results[0]

	slog.Info("search complete",
		"method", *method,
		"trials", len(results),
		"elapsed", time.Since(start).Round(time.Second).String(),
		"best_score", best.Score,
		"producer_rate", best.ProducerRate,
		"mutation_rate", best.MutationRate,
		"food_benefit", best.FoodBenefit,
		"lifetime_multiplier", best.LifetimeMultiplier,
		"reproduction_multiplier", best.ReproductionMultiplier,
	)

	if err := writeOutputs(*outputDir, baseCfg, params, results); err != nil {
		slog.Error("failed to write results", "error", err)
		os.Exit(1)
	}
}

// runGrid evaluates every grid combination with a pool of workers.
func runGrid(e *Evaluator, params *ParamVector, workers int) []TrialResult {
	combos := params.Grid()
	results := make([]TrialResult, len(combos))

	slog.Info("starting grid search", "trials", len(combos), "workers", workers)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < max(workers, 1); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.Run(i, combos[i])
			}
		}()
	}
	for i := range combos {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// runCMAES minimizes the negated score over normalized parameters.
func runCMAES(e *Evaluator, params *ParamVector, maxEvals, population int) []TrialResult {
	var results []TrialResult

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			r := e.Run(len(results), params.Denormalize(x))
			results = append(results, r)
			return -r.Score
		},
	}

	dim := params.Dim()
	if population == 0 {
		population = 4 + 3*dim/2
	}

	defaults := make([]float64, dim)
	for i, spec := range params.Specs {
		defaults[i] = spec.Values[len(spec.Values)/2]
	}

	slog.Info("starting CMA-ES", "dim", dim, "population", population, "max_evals", maxEvals)

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // Sequential so results needs no locking
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   population,
	}
	if _, err := optimize.Minimize(problem, params.Normalize(defaults), settings, method); err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	return results
}

// sortResults orders results by descending score; equal scores keep trial order.
func sortResults(results []TrialResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// writeOutputs saves results.csv, best_config.yaml and best_hyperparams.txt.
func writeOutputs(dir string, base *config.Config, params *ParamVector, results []TrialResult) error {
	f, err := os.Create(filepath.Join(dir, "results.csv"))
	if err != nil {
		return fmt.Errorf("creating results.csv: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&results, f); err != nil {
		return fmt.Errorf("writing results.csv: %w", err)
	}

	best := results[0]
	bestCfg := base.Clone()
	params.ApplyToConfig(bestCfg, best.Values())
	bestCfg.Recompute()
	if err := bestCfg.WriteYAML(filepath.Join(dir, "best_config.yaml")); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, "best_hyperparams.txt"), []byte(formatBest(best)), 0644); err != nil {
		return fmt.Errorf("writing best_hyperparams.txt: %w", err)
	}
	return nil
}

// formatBest renders the best parameter set as human-readable text.
func formatBest(r TrialResult) string {
	var b strings.Builder
	fmt.Fprintln(&b, "Best Hyperparameters:")
	fmt.Fprintf(&b, "Producer Rate: %g\n", r.ProducerRate)
	fmt.Fprintf(&b, "Mutation Rate: %g\n", r.MutationRate)
	fmt.Fprintf(&b, "Food Benefit: %g\n", r.FoodBenefit)
	fmt.Fprintf(&b, "Lifetime Multiplier: %d\n", r.LifetimeMultiplier)
	fmt.Fprintf(&b, "Reproduction Multiplier: %g\n", r.ReproductionMultiplier)
	return b.String()
}
