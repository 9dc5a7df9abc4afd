package metrics

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestCollectorRecordAndValues(t *testing.T) {
	c := NewCollector()

	labels := StrategyLabels("degree")
	c.RecordNow(MetricResilienceScore, 0.5, labels)
	c.RecordNow(MetricResilienceScore, 0.6, labels)
	c.RecordNow(MetricResilienceScore, 0.7, labels)

	values := c.Values(MetricResilienceScore, labels)
	if len(values) != 3 {
		t.Fatalf("Expected 3 values, got %d", len(values))
	}
	want := []float64{0.5, 0.6, 0.7}
	for i, v := range values {
		if v != want[i] {
			t.Errorf("Value %d: expected %v, got %v", i, want[i], v)
		}
	}

	if got := c.Values("never_recorded", nil); got != nil {
		t.Errorf("Expected nil for unknown metric, got %v", got)
	}
}

func TestCollectorLabelSeparation(t *testing.T) {
	c := NewCollector()

	c.RecordNow(MetricResilienceScore, 0.1, StrategyLabels("random"))
	c.RecordNow(MetricResilienceScore, 0.9, StrategyLabels("degree"))
	c.RecordNow(MetricResilienceScore, 0.5, nil)

	random := c.Values(MetricResilienceScore, StrategyLabels("random"))
	degree := c.Values(MetricResilienceScore, StrategyLabels("degree"))
	unlabeled := c.Values(MetricResilienceScore, nil)

	if len(random) != 1 || random[0] != 0.1 {
		t.Errorf("Expected random series [0.1], got %v", random)
	}
	if len(degree) != 1 || degree[0] != 0.9 {
		t.Errorf("Expected degree series [0.9], got %v", degree)
	}
	if len(unlabeled) != 1 || unlabeled[0] != 0.5 {
		t.Errorf("Expected unlabeled series [0.5], got %v", unlabeled)
	}
}

func TestCollectorAggregation(t *testing.T) {
	c := NewCollector()
	for i := 1; i <= 10; i++ {
		c.RecordNow(MetricStepDurationMS, float64(i), nil)
	}

	agg := c.Aggregation(MetricStepDurationMS, nil)
	if agg == nil {
		t.Fatal("Expected aggregation, got nil")
	}
	if agg.Count != 10 {
		t.Errorf("Expected count 10, got %d", agg.Count)
	}
	if agg.Sum != 55 {
		t.Errorf("Expected sum 55, got %v", agg.Sum)
	}
	if agg.Min != 1 || agg.Max != 10 {
		t.Errorf("Expected min 1 and max 10, got %v and %v", agg.Min, agg.Max)
	}
	if agg.Mean != 5.5 {
		t.Errorf("Expected mean 5.5, got %v", agg.Mean)
	}
	if want := math.Sqrt(8.25); math.Abs(agg.StdDev-want) > 1e-9 {
		t.Errorf("Expected stddev %v, got %v", want, agg.StdDev)
	}
	if agg.P50 != 5.5 {
		t.Errorf("Expected p50 5.5, got %v", agg.P50)
	}
	if math.Abs(agg.P95-9.55) > 1e-9 {
		t.Errorf("Expected p95 9.55, got %v", agg.P95)
	}
}

func TestCollectorAggregationCaching(t *testing.T) {
	c := NewCollector()
	c.RecordNow(MetricEntropyMean, 0.4, nil)

	first := c.Aggregation(MetricEntropyMean, nil)
	second := c.Aggregation(MetricEntropyMean, nil)
	if first != second {
		t.Error("Expected cached aggregation to be reused")
	}

	// A new sample must invalidate the cache.
	c.RecordNow(MetricEntropyMean, 0.6, nil)
	third := c.Aggregation(MetricEntropyMean, nil)
	if third.Count != 2 {
		t.Errorf("Expected recomputed aggregation with count 2, got %d", third.Count)
	}
}

func TestCollectorAggregationEmpty(t *testing.T) {
	c := NewCollector()
	if agg := c.Aggregation(MetricResilienceScore, nil); agg != nil {
		t.Errorf("Expected nil aggregation for empty series, got %+v", agg)
	}
}

func TestCollectorSummary(t *testing.T) {
	c := NewCollector()
	c.Start()
	c.RecordNow(MetricResilienceScore, 0.3, StrategyLabels("random"))
	c.RecordNow(MetricResilienceScore, 0.7, StrategyLabels("degree"))
	c.RecordNow(MetricStepDurationMS, 12.5, nil)
	c.Stop()

	summary := c.Summary()
	if len(summary.Metrics[MetricResilienceScore]) != 2 {
		t.Errorf("Expected 2 score samples across labels, got %d",
			len(summary.Metrics[MetricResilienceScore]))
	}
	if len(summary.Metrics[MetricStepDurationMS]) != 1 {
		t.Errorf("Expected 1 duration sample, got %d",
			len(summary.Metrics[MetricStepDurationMS]))
	}
	if summary.Aggregations[MetricResilienceScore] == nil {
		t.Error("Expected score aggregation in summary")
	}
	if summary.Duration < 0 {
		t.Errorf("Expected non-negative duration, got %v", summary.Duration)
	}
}

func TestCollectorMetricNames(t *testing.T) {
	c := NewCollector()
	c.RecordNow(MetricStepDurationMS, 1, nil)
	c.RecordNow(MetricEntropyMean, 0.5, nil)

	names := c.MetricNames()
	if len(names) != 2 {
		t.Fatalf("Expected 2 metric names, got %d", len(names))
	}
	if names[0] != MetricEntropyMean || names[1] != MetricStepDurationMS {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestCollectorClear(t *testing.T) {
	c := NewCollector()
	c.RecordNow(MetricResilienceScore, 0.5, nil)
	c.Clear()

	if values := c.Values(MetricResilienceScore, nil); values != nil {
		t.Errorf("Expected no values after clear, got %v", values)
	}
	if names := c.MetricNames(); len(names) != 0 {
		t.Errorf("Expected no metric names after clear, got %v", names)
	}
}

func TestCollectorConcurrentRecord(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	numGoroutines := 100
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Record(MetricResilienceScore, float64(n), time.Now(), nil)
		}(i)
	}
	wg.Wait()

	agg := c.Aggregation(MetricResilienceScore, nil)
	if agg == nil || agg.Count != int64(numGoroutines) {
		t.Fatalf("Expected %d samples, got %+v", numGoroutines, agg)
	}
}

func TestRecordHelpers(t *testing.T) {
	c := NewCollector()
	RecordScore(c, "bio_smart", 0.8)
	RecordStepDuration(c, "bio_smart", 3, 42.0)

	if values := c.Values(MetricResilienceScore, StrategyLabels("bio_smart")); len(values) != 1 {
		t.Errorf("Expected 1 score sample, got %v", values)
	}
	durations := c.Values(MetricStepDurationMS, StepLabels("bio_smart", 3))
	if len(durations) != 1 || durations[0] != 42.0 {
		t.Errorf("Expected step duration [42], got %v", durations)
	}
}
