package models

import (
	"time"
)

// RunStatus represents the status of an experiment run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCanceled  RunStatus = "canceled"
)

// IsTerminal reports whether the status is final.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCanceled:
		return true
	}
	return false
}

// Run represents a growth experiment run tracked by the run store
type Run struct {
	ID        string                 `json:"id"`
	Status    RunStatus              `json:"status"`
	Strategy  string                 `json:"strategy"`
	Config    map[string]interface{} `json:"config,omitempty"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time,omitempty"`
	Duration  time.Duration          `json:"duration,omitempty"`
	Result    *RunResult             `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Start marks the run as running and stamps the start time.
func (r *Run) Start() {
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed and attaches its result.
func (r *Run) Complete(result *RunResult) {
	r.Status = RunStatusCompleted
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Result = result
}

// Fail marks the run as failed and records the error message.
func (r *Run) Fail(err error) {
	r.Status = RunStatusFailed
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	if err != nil {
		r.Error = err.Error()
	}
}

// Cancel marks the run as canceled.
func (r *Run) Cancel() {
	r.Status = RunStatusCanceled
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// TrajectoryPoint is the evaluation of the network after one growth step.
// Step 0 is the baseline before any node is added.
type TrajectoryPoint struct {
	Step  int       `json:"step"`
	Nodes int       `json:"nodes"`
	Edges int       `json:"edges"`
	Score float64   `json:"score"`
	Curve []float64 `json:"curve,omitempty"`
}

// Trend classifies how the resilience score moves across a trajectory
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDegrading Trend = "degrading"
	TrendStable    Trend = "stable"
)

// RunResult contains the outcome of a growth experiment
type RunResult struct {
	Strategy      string  `json:"strategy"`
	BaselineScore float64 `json:"baseline_score"`
	FinalScore    float64 `json:"final_score"`
	Improvement   float64 `json:"improvement"`
	Trend         Trend   `json:"trend,omitempty"`

	// PlateauStep is the step at which the score trajectory flattened out,
	// or -1 when it never did.
	PlateauStep int `json:"plateau_step"`

	Steps      int               `json:"steps"`
	Trajectory []TrajectoryPoint `json:"trajectory,omitempty"`
}

// Comparison ranks the results of several strategies on the same network
type Comparison struct {
	Best    string       `json:"best"`
	Ranking []*RunResult `json:"ranking"`
}

// MetricPoint represents a single recorded sample
type MetricPoint struct {
	Timestamp time.Time         `json:"timestamp"`
	Name      string            `json:"name"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// MetricsSummary represents a summary of collected samples
type MetricsSummary struct {
	StartTime    time.Time               `json:"start_time"`
	EndTime      time.Time               `json:"end_time"`
	Duration     time.Duration           `json:"duration"`
	Metrics      map[string][]float64    `json:"metrics"` // metric name -> values
	Aggregations map[string]*Aggregation `json:"aggregations,omitempty"`
}

// Aggregation represents aggregated statistics for a metric
type Aggregation struct {
	Count  int64   `json:"count"`
	Sum    float64 `json:"sum"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}
