package utils

import (
	"errors"
	"fmt"
)

// ErrInsufficientPopulation is returned when a sample without replacement
// asks for more items than the population can supply.
var ErrInsufficientPopulation = errors.New("sample size exceeds population")

// WeightedSampleWithoutReplacement selects k distinct indexes from weights,
// each draw proportional to the remaining items' weights. Items with zero
// weight are never selected, so the effective population is the number of
// positive-weight entries. Weights need not be normalized.
func (r *RandSource) WeightedSampleWithoutReplacement(weights []float64, k int) ([]int, error) {
	if k < 0 {
		return nil, fmt.Errorf("sample size must be non-negative, got %d", k)
	}
	if k > len(weights) {
		return nil, fmt.Errorf("%w: requested %d from %d items", ErrInsufficientPopulation, k, len(weights))
	}

	total := 0.0
	positive := 0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("weight at index %d is negative: %v", i, w)
		}
		if w > 0 {
			total += w
			positive++
		}
	}
	if k > positive {
		return nil, fmt.Errorf("%w: requested %d but only %d items have positive weight",
			ErrInsufficientPopulation, k, positive)
	}
	if k == 0 {
		return []int{}, nil
	}

	remaining := make([]float64, len(weights))
	copy(remaining, weights)

	selected := make([]int, 0, k)
	for len(selected) < k {
		target := r.Float64() * total
		idx := -1
		cum := 0.0
		for i, w := range remaining {
			if w <= 0 {
				continue
			}
			cum += w
			idx = i
			if target < cum {
				break
			}
		}
		// Rounding in the cumulative walk can leave target just past the
		// final positive entry; idx then holds that entry.
		selected = append(selected, idx)
		total -= remaining[idx]
		remaining[idx] = 0
	}

	return selected, nil
}

// WeightedSampleWithoutReplacement samples from the default source.
func WeightedSampleWithoutReplacement(weights []float64, k int) ([]int, error) {
	return defaultRand.WeightedSampleWithoutReplacement(weights, k)
}
