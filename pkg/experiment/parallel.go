package experiment

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/presilience-net/resilience-core/pkg/graph"
	"github.com/presilience-net/resilience-core/pkg/resilience"
	"github.com/presilience-net/resilience-core/pkg/utils"
)

// ParallelCurve splits a resilience sweep's repeats across workers. Each
// worker sweeps its own clone of g with its own random stream derived from
// opts.Rand, and the worker curves combine by repeats-weighted elementwise
// mean. The result matches the sequential evaluator in expectation; the
// exact draws differ.
//
// Worker streams derive from opts.Rand in a fixed order, so a fixed seed
// reproduces the same curve for the same worker count. workers < 1 selects
// one worker per CPU; workers above the repeat count are capped.
func ParallelCurve(ctx context.Context, g *graph.Graph, workers int, opts resilience.Options) (resilience.Curve, error) {
	if g == nil {
		return resilience.Curve{}, fmt.Errorf("graph must not be nil")
	}
	repeats := opts.Repeats
	if repeats == 0 {
		repeats = resilience.DefaultRepeats
	}
	if repeats < 1 {
		return resilience.Curve{}, fmt.Errorf("repeats must be at least 1, got %d", repeats)
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > repeats {
		workers = repeats
	}

	parent := opts.Rand
	if parent == nil {
		parent = utils.Default()
	}

	// Shares and streams are assigned before any goroutine starts, so the
	// outcome does not depend on scheduling.
	shares := make([]int, workers)
	streams := make([]*utils.RandSource, workers)
	for i := range shares {
		shares[i] = repeats / workers
		if i < repeats%workers {
			shares[i]++
		}
		streams[i] = parent.Child()
	}

	curves := make([]resilience.Curve, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			wopts := opts
			wopts.Repeats = shares[idx]
			wopts.Rand = streams[idx]
			ev := resilience.NewEvaluator(wopts)
			curves[idx], errs[idx] = ev.Curve(g.Clone())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return resilience.Curve{}, fmt.Errorf("sweep worker %d: %w", i, err)
		}
	}

	rate := len(curves[0].Fractions)
	mean := make([]float64, rate)
	stdv := make([]float64, rate)
	for w, c := range curves {
		weight := float64(shares[w])
		for i := range mean {
			mean[i] += weight * c.Mean[i]
			stdv[i] += weight * c.Stdv[i]
		}
	}
	for i := range mean {
		mean[i] /= float64(repeats)
		stdv[i] /= float64(repeats)
	}

	return resilience.Curve{Fractions: curves[0].Fractions, Mean: mean, Stdv: stdv}, nil
}

// ParallelScore reduces a parallel sweep to the scalar resilience score.
func ParallelScore(ctx context.Context, g *graph.Graph, workers int, opts resilience.Options) (float64, error) {
	c, err := ParallelCurve(ctx, g, workers, opts)
	if err != nil {
		return 0, err
	}
	return resilience.ScoreFromCurve(c), nil
}
