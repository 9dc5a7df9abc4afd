package metrics

import "strconv"

// Metric names recorded by the experiment runner.
const (
	MetricResilienceScore = "resilience_score"
	MetricEntropyMean     = "entropy_mean"
	MetricStepDurationMS  = "step_duration_ms"
	MetricNodesAdded      = "nodes_added"
	MetricEdgesAdded      = "edges_added"
)

// RecordScore records a resilience score for a strategy.
func RecordScore(c *Collector, strategy string, score float64) {
	c.RecordNow(MetricResilienceScore, score, StrategyLabels(strategy))
}

// RecordStepDuration records how long one growth step took, in milliseconds.
func RecordStepDuration(c *Collector, strategy string, step int, durationMS float64) {
	c.RecordNow(MetricStepDurationMS, durationMS, StepLabels(strategy, step))
}

// StrategyLabels creates a label set for a growth strategy.
func StrategyLabels(strategy string) map[string]string {
	return map[string]string{
		"strategy": strategy,
	}
}

// StepLabels creates a label set for one step of a strategy's trajectory.
func StepLabels(strategy string, step int) map[string]string {
	return map[string]string{
		"strategy": strategy,
		"step":     strconv.Itoa(step),
	}
}
