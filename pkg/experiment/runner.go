// Package experiment drives grow-then-evaluate workflows. A Runner grows a
// network one node at a time under a single attachment strategy and scores
// the network after every addition; Compare runs several strategies on the
// same seed network and ranks the outcomes; RunStore tracks run lifecycles
// for embedding applications.
//
// The core packages stay single-threaded. All parallelism lives here, and
// every worker operates on its own graph clone and its own random stream, so
// results are reproducible for a fixed seed regardless of worker count.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/presilience-net/resilience-core/internal/metrics"
	"github.com/presilience-net/resilience-core/pkg/config"
	"github.com/presilience-net/resilience-core/pkg/graph"
	"github.com/presilience-net/resilience-core/pkg/growth"
	"github.com/presilience-net/resilience-core/pkg/logger"
	"github.com/presilience-net/resilience-core/pkg/models"
	"github.com/presilience-net/resilience-core/pkg/resilience"
	"github.com/presilience-net/resilience-core/pkg/utils"
)

// Options configures a Runner.
type Options struct {
	// Estimation overrides for the entropy estimator. Nil selects the
	// estimator defaults.
	Estimation *config.Estimation

	// Evaluation overrides for the resilience sweep. Nil selects the
	// evaluator defaults.
	Evaluation *config.Evaluation

	// IncludeCurves attaches the mean entropy curve to every trajectory
	// point.
	IncludeCurves bool

	// StopOnPlateau ends a trajectory early once the score flattens out.
	StopOnPlateau bool

	// Plateau overrides the plateau detection settings. Nil selects
	// DefaultPlateauConfig.
	Plateau *PlateauConfig

	// Workers bounds concurrent strategy evaluations in Compare. Zero or one
	// runs strategies sequentially. Individual runs are always sequential.
	Workers int

	// Rand is the random stream for growth and estimation draws. Nil selects
	// the process-wide default source.
	Rand *utils.RandSource

	// Logger used for run lifecycle events. Nil selects the package default.
	Logger *slog.Logger
}

// Runner executes one growth trajectory at a time. It works on a clone of
// the input graph, so the caller's network is never mutated. A Runner is safe
// for sequential reuse; for concurrent strategy evaluation use Compare.
type Runner struct {
	eval      *resilience.Evaluator
	include   bool
	stop      bool
	plateau   PlateauConfig
	rng       *utils.RandSource
	log       *slog.Logger
	collector *metrics.Collector
}

// NewRunner builds a Runner from options.
func NewRunner(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = logger.Default
	}
	plateau := DefaultPlateauConfig()
	if opts.Plateau != nil {
		plateau = opts.Plateau.normalized()
	}
	collector := metrics.NewCollector()
	collector.Start()

	return &Runner{
		eval:      resilience.NewEvaluator(evaluatorOptions(opts, log)),
		include:   opts.IncludeCurves,
		stop:      opts.StopOnPlateau,
		plateau:   plateau,
		rng:       opts.Rand,
		log:       log,
		collector: collector,
	}
}

// evaluatorOptions maps the config sections onto resilience options.
func evaluatorOptions(opts Options, log *slog.Logger) resilience.Options {
	ro := resilience.Options{Rand: opts.Rand, Logger: log}
	if est := opts.Estimation; est != nil {
		ro.Trials = est.Trials
		ro.Policy = est.Removal
		ro.WantStdv = est.WantStdv
	}
	if ev := opts.Evaluation; ev != nil {
		ro.Rate = ev.Rate
		ro.Repeats = ev.Repeats
	}
	return ro
}

// Run grows a clone of g under spec, scoring the network after every
// addition. The returned trajectory always starts with the step-0 baseline.
// Run stops early when ctx is canceled (the context error is returned) or,
// with StopOnPlateau, when the score flattens out (not an error; the result
// covers the steps that ran).
func (r *Runner) Run(ctx context.Context, g *graph.Graph, spec config.GrowthSpec) (*models.RunResult, error) {
	if g == nil {
		return nil, fmt.Errorf("graph must not be nil")
	}
	if spec.Steps < 0 {
		return nil, fmt.Errorf("steps must be non-negative, got %d", spec.Steps)
	}
	// Reject unknown methods before the baseline sweep burns any time.
	if _, err := growth.NewAttachmentStrategy(spec.Method, growth.DefaultAlpha); err != nil {
		return nil, err
	}

	name := strategyName(spec)
	work := g.Clone()
	counter := work.NumNodes()

	r.log.Info("growth run started",
		"strategy", name, "method", spec.Method,
		"steps", spec.Steps, "edges_per_node", spec.EdgesPerNode)

	baseline, err := r.evaluate(work, 0)
	if err != nil {
		return nil, fmt.Errorf("baseline evaluation: %w", err)
	}
	metrics.RecordScore(r.collector, name, baseline.Score)

	trajectory := []models.TrajectoryPoint{baseline}
	scores := []float64{baseline.Score}

	for step := 1; step <= spec.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		started := time.Now()
		id := nextNodeID(work, &counter, spec.Method)
		_, err := growth.AddNode(work, spec.EdgesPerNode, id, growth.Options{
			Method: spec.Method,
			Alpha:  spec.Alpha,
			Rand:   r.rng,
			Logger: r.log,
		})
		if err != nil {
			return nil, fmt.Errorf("growth step %d: %w", step, err)
		}

		point, err := r.evaluate(work, step)
		if err != nil {
			return nil, fmt.Errorf("evaluation at step %d: %w", step, err)
		}
		trajectory = append(trajectory, point)
		scores = append(scores, point.Score)

		metrics.RecordScore(r.collector, name, point.Score)
		metrics.RecordStepDuration(r.collector, name, step, time.Since(started).Seconds()*1000)

		if r.stop {
			if ok, reason := Plateaued(scores, r.plateau); ok {
				r.log.Info("growth run stopped early",
					"strategy", name, "step", step, "reason", reason)
				break
			}
		}
	}

	steps := len(trajectory) - 1
	result := &models.RunResult{
		Strategy:      name,
		BaselineScore: baseline.Score,
		FinalScore:    scores[len(scores)-1],
		Improvement:   scores[len(scores)-1] - baseline.Score,
		Trend:         TrendOf(scores),
		PlateauStep:   PlateauStep(scores, r.plateau),
		Steps:         steps,
		Trajectory:    trajectory,
	}

	r.collector.RecordNow(metrics.MetricNodesAdded, float64(steps), metrics.StrategyLabels(name))
	r.collector.RecordNow(metrics.MetricEdgesAdded, float64(steps*spec.EdgesPerNode), metrics.StrategyLabels(name))

	r.log.Info("growth run completed",
		"strategy", name, "steps", steps,
		"baseline_score", result.BaselineScore,
		"final_score", result.FinalScore,
		"trend", string(result.Trend))

	return result, nil
}

// Metrics summarizes the samples recorded across this runner's runs: scores
// per strategy, step durations, node and edge totals.
func (r *Runner) Metrics() *models.MetricsSummary {
	return r.collector.Summary()
}

// evaluate sweeps the current network into one trajectory point.
func (r *Runner) evaluate(g *graph.Graph, step int) (models.TrajectoryPoint, error) {
	c, err := r.eval.Curve(g)
	if err != nil {
		return models.TrajectoryPoint{}, err
	}
	point := models.TrajectoryPoint{
		Step:  step,
		Nodes: g.NumNodes(),
		Edges: g.NumEdges(),
		Score: resilience.ScoreFromCurve(c),
	}
	if r.include {
		point.Curve = c.Mean
	}
	return point, nil
}

// strategyName labels a spec for results and logs.
func strategyName(spec config.GrowthSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	if spec.Method != "" {
		return spec.Method
	}
	return growth.MethodRandom
}

// nextNodeID returns the first counter-derived ID still free in g,
// accounting for the prefix bio_smart growth applies.
func nextNodeID(g *graph.Graph, counter *int, method string) graph.NodeID {
	for {
		id := graph.NodeID(strconv.Itoa(*counter))
		*counter++
		final := id
		if method == growth.MethodBioSmart {
			final = growth.BioSmartPrefix + id
		}
		if !g.HasNode(final) {
			return id
		}
	}
}
