package experiment

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/presilience-net/resilience-core/pkg/config"
	"github.com/presilience-net/resilience-core/pkg/graph"
	"github.com/presilience-net/resilience-core/pkg/logger"
	"github.com/presilience-net/resilience-core/pkg/models"
	"github.com/presilience-net/resilience-core/pkg/utils"
)

// Compare runs the same growth trajectory under each spec and ranks the
// outcomes by final score, best first. Every spec evaluates on its own clone
// with its own random stream derived up front from opts.Rand, so the result
// does not depend on scheduling or on opts.Workers.
//
// When some strategies fail, the comparison covers the ones that succeeded
// and the first error is returned alongside it.
func Compare(ctx context.Context, g *graph.Graph, specs []config.GrowthSpec, opts Options) (*models.Comparison, error) {
	if g == nil {
		return nil, fmt.Errorf("graph must not be nil")
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no growth strategies provided")
	}

	log := opts.Logger
	if log == nil {
		log = logger.Default
	}

	parent := opts.Rand
	if parent == nil {
		parent = utils.Default()
	}
	streams := make([]*utils.RandSource, len(specs))
	for i := range specs {
		streams[i] = parent.Child()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(specs) {
		workers = len(specs)
	}

	log.Info("strategy comparison started",
		"strategies", len(specs), "workers", workers)

	results := make([]*models.RunResult, len(specs))
	errs := make([]error, len(specs))

	if workers == 1 {
		for i, spec := range specs {
			results[i], errs[i] = runSpec(ctx, g, spec, opts, streams[i])
		}
	} else {
		semaphore := make(chan struct{}, workers)
		var wg sync.WaitGroup
		for i, spec := range specs {
			wg.Add(1)
			go func(idx int, sp config.GrowthSpec, rng *utils.RandSource) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()
				results[idx], errs[idx] = runSpec(ctx, g, sp, opts, rng)
			}(i, spec, streams[i])
		}
		wg.Wait()
	}

	comparison := Rank(results)
	for i, err := range errs {
		if err != nil {
			return comparison, fmt.Errorf("strategy %q: %w", strategyName(specs[i]), err)
		}
	}

	log.Info("strategy comparison completed", "best", comparison.Best)
	return comparison, nil
}

// RunExperiment runs a full experiment spec against a seed network: one
// trajectory per named strategy, all streams derived from exp.Seed, ranked
// by final score.
func RunExperiment(ctx context.Context, g *graph.Graph, exp *config.Experiment) (*models.Comparison, error) {
	if exp == nil {
		return nil, fmt.Errorf("experiment must not be nil")
	}
	opts := Options{
		Estimation: exp.Estimation,
		Evaluation: exp.Evaluation,
		Workers:    exp.Workers,
		Rand:       utils.NewRandSource(exp.Seed),
	}
	if exp.Output != nil {
		opts.IncludeCurves = exp.Output.IncludeCurves
	}
	return Compare(ctx, g, exp.Strategies, opts)
}

// Rank orders results best first by final score. NaN scores rank last and
// nil entries are skipped. Best is empty when nothing ranked.
func Rank(results []*models.RunResult) *models.Comparison {
	ranking := make([]*models.RunResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			ranking = append(ranking, r)
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return scoreBetter(ranking[i].FinalScore, ranking[j].FinalScore)
	})

	comparison := &models.Comparison{Ranking: ranking}
	if len(ranking) > 0 {
		comparison.Best = ranking[0].Strategy
	}
	return comparison
}

// runSpec executes one spec on its own runner and stream.
func runSpec(ctx context.Context, g *graph.Graph, spec config.GrowthSpec, opts Options, rng *utils.RandSource) (*models.RunResult, error) {
	o := opts
	o.Rand = rng
	return NewRunner(o).Run(ctx, g, spec)
}

// scoreBetter orders a before b, treating NaN as worst.
func scoreBetter(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}
