// Package resilience sweeps the entropy estimator across a grid of removal
// fractions and reduces the sweep to a resilience profile or a single score.
//
// The profile is the entropy curve over fractions 0..1; the score is
// 1 - sum(curve)/rate, so a network whose entropy stays low under heavy
// removal (large intact components persist) scores closer to 1.
package resilience

import (
	"fmt"
	"log/slog"

	"github.com/presilience-net/resilience-core/pkg/entropy"
	"github.com/presilience-net/resilience-core/pkg/graph"
	"github.com/presilience-net/resilience-core/pkg/logger"
	"github.com/presilience-net/resilience-core/pkg/utils"
)

// Defaults applied when the corresponding Options field is zero.
const (
	DefaultRepeats = 2
	DefaultRate    = 51
)

// Options configures an Evaluator.
type Options struct {
	// Repeats is how many times the whole sweep runs before elementwise
	// averaging (ntimes). Zero selects DefaultRepeats.
	Repeats int

	// Rate is the number of grid points spanning [0, 1] inclusive. Zero
	// selects DefaultRate.
	Rate int

	// Trials is the per-grid-point trial count handed to the entropy
	// estimator (niter). Zero selects entropy.DefaultTrials.
	Trials int

	// Policy selects the removal policy by name; unrecognized names warn
	// and fall back to random removal.
	Policy string

	// WantStdv requests per-point standard deviations alongside the means.
	WantStdv bool

	// Rand is the random stream for all draws. Nil selects the process-wide
	// default source.
	Rand *utils.RandSource

	// Logger used for sweep diagnostics. Nil selects the package default.
	Logger *slog.Logger
}

// QuickOptions returns low-cost settings for interactive exploration.
func QuickOptions() Options {
	return Options{Repeats: 1, Rate: 11, Trials: 10}
}

// DefaultOptions returns the standard settings.
func DefaultOptions() Options {
	return Options{Repeats: DefaultRepeats, Rate: DefaultRate, Trials: entropy.DefaultTrials}
}

// ThoroughOptions returns high-precision settings for final measurements.
func ThoroughOptions() Options {
	return Options{Repeats: 5, Rate: 101, Trials: 200, WantStdv: true}
}

// Curve is a resilience profile: entropy statistics per removal fraction.
// All three slices share the evaluator's Rate length. Stdv entries are NaN
// when deviations were not requested or not defined.
type Curve struct {
	Fractions []float64
	Mean      []float64
	Stdv      []float64
}

// Evaluator runs fraction sweeps against graphs. Like the estimator it
// wraps, it draws from a single random stream and is not safe for concurrent
// use; parallel evaluation lives in the experiment package.
type Evaluator struct {
	repeats int
	rate    int
	est     *entropy.Estimator
	log     *slog.Logger
}

// NewEvaluator builds an evaluator from options.
func NewEvaluator(opts Options) *Evaluator {
	repeats := opts.Repeats
	if repeats == 0 {
		repeats = DefaultRepeats
	}
	rate := opts.Rate
	if rate == 0 {
		rate = DefaultRate
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default
	}

	est := entropy.NewEstimator(entropy.Options{
		Trials:   opts.Trials,
		WantStdv: opts.WantStdv,
		Policy:   opts.Policy,
		Rand:     opts.Rand,
		Logger:   log,
	})

	return &Evaluator{
		repeats: repeats,
		rate:    rate,
		est:     est,
		log:     log,
	}
}

// Curve sweeps the removal fraction over the evaluator's grid, repeating the
// sweep and averaging elementwise. Degenerate estimates (a single-node graph
// yields NaN) flow into the curve unchanged; only invalid arguments error.
func (e *Evaluator) Curve(g *graph.Graph) (Curve, error) {
	if e.rate < 1 {
		return Curve{}, fmt.Errorf("rate must be at least 1, got %d", e.rate)
	}
	if e.repeats < 1 {
		return Curve{}, fmt.Errorf("repeats must be at least 1, got %d", e.repeats)
	}

	fractions := utils.Linspace(0, 1, e.rate)
	meanSum := make([]float64, e.rate)
	stdvSum := make([]float64, e.rate)

	e.log.Debug("resilience sweep started",
		"rate", e.rate, "repeats", e.repeats)

	for rep := 0; rep < e.repeats; rep++ {
		for i, f := range fractions {
			res, err := e.est.Estimate(g, f)
			if err != nil {
				return Curve{}, fmt.Errorf("estimate at fraction %v: %w", f, err)
			}
			meanSum[i] += res.Mean
			stdvSum[i] += res.Stdv
		}
	}

	mean := make([]float64, e.rate)
	stdv := make([]float64, e.rate)
	for i := range mean {
		mean[i] = meanSum[i] / float64(e.repeats)
		stdv[i] = stdvSum[i] / float64(e.repeats)
	}

	return Curve{Fractions: fractions, Mean: mean, Stdv: stdv}, nil
}

// Score reduces the curve to the scalar 1 - sum(curve)/rate. Higher means
// the entropy stays low across removal fractions, i.e. more resilient.
func (e *Evaluator) Score(g *graph.Graph) (float64, error) {
	c, err := e.Curve(g)
	if err != nil {
		return 0, err
	}
	return ScoreFromCurve(c), nil
}

// ScoreFromCurve computes the scalar score for an already computed curve.
func ScoreFromCurve(c Curve) float64 {
	return 1 - utils.Sum(c.Mean)/float64(len(c.Mean))
}

// Rate returns the evaluator's grid resolution.
func (e *Evaluator) Rate() int {
	return e.rate
}

// Repeats returns the evaluator's outer repetition count.
func (e *Evaluator) Repeats() int {
	return e.repeats
}
