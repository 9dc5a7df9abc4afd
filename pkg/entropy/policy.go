package entropy

import (
	"fmt"

	"github.com/presilience-net/resilience-core/pkg/utils"
)

// Removal policy names accepted by NewRemovalPolicy.
const (
	PolicyRandom = "random"
)

// RemovalPolicy decides which nodes fail during one removal trial.
type RemovalPolicy interface {
	// Name returns the policy's selector name.
	Name() string

	// MarkRemovals marks nodes for removal in place and returns how many it
	// marked. removed has one entry per node, arrives zeroed, and follows the
	// graph's node order.
	MarkRemovals(removed []bool, fraction float64, rng *utils.RandSource) int
}

// RandomRemoval fails each node independently with probability fraction.
// The realized removal count varies from trial to trial.
type RandomRemoval struct{}

// Name returns the policy name
func (RandomRemoval) Name() string {
	return PolicyRandom
}

// MarkRemovals draws one Bernoulli variable per node.
func (RandomRemoval) MarkRemovals(removed []bool, fraction float64, rng *utils.RandSource) int {
	count := 0
	for i := range removed {
		if rng.BernoulliBool(fraction) {
			removed[i] = true
			count++
		}
	}
	return count
}

// UnknownRemovalPolicyError is returned when a removal policy name is not recognized
type UnknownRemovalPolicyError struct {
	Policy string
}

func (e *UnknownRemovalPolicyError) Error() string {
	return fmt.Sprintf("unknown removal policy: %s", e.Policy)
}

// NewRemovalPolicy creates a removal policy from its selector name. The
// empty string selects random removal.
func NewRemovalPolicy(name string) (RemovalPolicy, error) {
	switch name {
	case "", PolicyRandom:
		return RandomRemoval{}, nil
	default:
		return nil, &UnknownRemovalPolicyError{Policy: name}
	}
}
