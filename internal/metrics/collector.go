// Package metrics collects numeric samples produced while experiments run,
// keyed by metric name and label set, and reduces them to aggregated
// statistics.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/presilience-net/resilience-core/pkg/models"
	"github.com/presilience-net/resilience-core/pkg/utils"
)

// Collector accumulates samples during an experiment. Safe for concurrent
// use; parallel workers record into the same collector.
type Collector struct {
	mu sync.RWMutex

	startTime time.Time
	endTime   time.Time

	// metric name -> label key -> samples
	series map[string]map[string][]models.MetricPoint

	// cached aggregations, invalidated on Clear
	aggregations map[string]map[string]*models.Aggregation
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		startTime:    time.Now(),
		series:       make(map[string]map[string][]models.MetricPoint),
		aggregations: make(map[string]map[string]*models.Aggregation),
	}
}

// Start marks the beginning of sample collection.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()
}

// Stop marks the end of sample collection.
func (c *Collector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endTime = time.Now()
}

// Record stores a sample at a specific timestamp.
func (c *Collector) Record(name string, value float64, timestamp time.Time, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := labelKey(labels)
	if c.series[name] == nil {
		c.series[name] = make(map[string][]models.MetricPoint)
	}
	c.series[name][key] = append(c.series[name][key], models.MetricPoint{
		Timestamp: timestamp,
		Name:      name,
		Value:     value,
		Labels:    copyLabels(labels),
	})

	// A new sample invalidates any cached aggregation for this series.
	if c.aggregations[name] != nil {
		delete(c.aggregations[name], key)
	}
}

// RecordNow stores a sample at the current time.
func (c *Collector) RecordNow(name string, value float64, labels map[string]string) {
	c.Record(name, value, time.Now(), labels)
}

// Values returns the raw sample values for a metric and label set, in
// recording order.
func (c *Collector) Values(name string, labels map[string]string) []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	points := c.points(name, labelKey(labels))
	if len(points) == 0 {
		return nil
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}

// Aggregation computes aggregated statistics for a metric and label set,
// caching the result until the series changes. Returns nil when the series
// is empty.
func (c *Collector) Aggregation(name string, labels map[string]string) *models.Aggregation {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := labelKey(labels)
	if agg, ok := c.aggregations[name][key]; ok {
		return agg
	}

	points := c.points(name, key)
	if len(points) == 0 {
		return nil
	}
	agg := aggregate(points)
	if c.aggregations[name] == nil {
		c.aggregations[name] = make(map[string]*models.Aggregation)
	}
	c.aggregations[name][key] = agg
	return agg
}

// Summary reduces everything collected so far: all values per metric name
// across label sets, plus the unlabeled aggregation per metric.
func (c *Collector) Summary() *models.MetricsSummary {
	c.mu.RLock()
	endTime := c.endTime
	if endTime.IsZero() {
		endTime = time.Now()
	}
	summary := &models.MetricsSummary{
		StartTime:    c.startTime,
		EndTime:      endTime,
		Duration:     endTime.Sub(c.startTime),
		Metrics:      make(map[string][]float64),
		Aggregations: make(map[string]*models.Aggregation),
	}
	for name, byLabel := range c.series {
		var values []float64
		for _, points := range byLabel {
			for _, p := range points {
				values = append(values, p.Value)
			}
		}
		summary.Metrics[name] = values
	}
	c.mu.RUnlock()

	for name, values := range summary.Metrics {
		if len(values) > 0 {
			summary.Aggregations[name] = aggregateValues(values)
		}
	}
	return summary
}

// MetricNames returns the names of all metrics recorded so far, sorted.
func (c *Collector) MetricNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.series))
	for name := range c.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear drops all samples and cached aggregations.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.series = make(map[string]map[string][]models.MetricPoint)
	c.aggregations = make(map[string]map[string]*models.Aggregation)
	c.startTime = time.Now()
	c.endTime = time.Time{}
}

// points returns samples without locking; the caller holds the lock.
func (c *Collector) points(name, key string) []models.MetricPoint {
	if c.series[name] == nil {
		return nil
	}
	return c.series[name][key]
}

// labelKey builds a stable map key from a label set.
func labelKey(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := ""
	for _, k := range keys {
		key += k + "=" + labels[k] + ","
	}
	return key
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}

func aggregate(points []models.MetricPoint) *models.Aggregation {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return aggregateValues(values)
}

func aggregateValues(values []float64) *models.Aggregation {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return &models.Aggregation{
		Count:  int64(len(sorted)),
		Sum:    utils.Sum(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   utils.Mean(sorted),
		StdDev: utils.StdDev(sorted),
		P50:    utils.P50(sorted),
		P95:    utils.P95(sorted),
		P99:    utils.P99(sorted),
	}
}
