package sim

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/inference-sim/resampling/sim/dist"
)

// ZeroDensityPolicy decides what happens to a drawn value whose source density
// is zero, where the importance weight target/source is undefined.
type ZeroDensityPolicy string

const (
	// ZeroDensitySkip keeps the item with weight zero and counts it as skipped.
	ZeroDensitySkip ZeroDensityPolicy = "skip"
	// ZeroDensityReject aborts population generation with ErrZeroSourceDensity.
	ZeroDensityReject ZeroDensityPolicy = "reject"
)

var validZeroDensityPolicies = map[ZeroDensityPolicy]bool{
	ZeroDensitySkip:   true,
	ZeroDensityReject: true,
	"":                true, // empty defaults to skip
}

// IsValidZeroDensityPolicy returns true if the given string is a recognized policy.
func IsValidZeroDensityPolicy(policy string) bool {
	return validZeroDensityPolicies[ZeroDensityPolicy(policy)]
}

// Item is one population member together with its importance weight.
type Item struct {
	Value         float64
	SourceDensity float64
	TargetDensity float64
	Weight        float64 // TargetDensity / SourceDensity; 0 when Skipped
	Skipped       bool    // source density was zero under ZeroDensitySkip
}

// Population is the fixed item sequence every resampling trial walks over.
// It is never modified after NewPopulation returns.
type Population struct {
	Items     []Item
	WeightSum float64
	Skipped   int
}

// Len returns the number of items, including skipped ones.
func (p *Population) Len() int {
	return len(p.Items)
}

// Values returns the raw drawn values in generation order.
func (p *Population) Values() []float64 {
	values := make([]float64, len(p.Items))
	for i := range p.Items {
		values[i] = p.Items[i].Value
	}
	return values
}

// ComputeWeight returns the importance weight targetDensity/sourceDensity.
// A zero source density yields ErrZeroSourceDensity; negative or non-finite
// densities yield ErrInvalidWeight.
func ComputeWeight(sourceDensity, targetDensity float64) (float64, error) {
	if !isFiniteNonNegative(sourceDensity) || !isFiniteNonNegative(targetDensity) {
		return 0, errors.Wrapf(ErrInvalidWeight, "densities source=%v target=%v", sourceDensity, targetDensity)
	}
	if sourceDensity == 0 {
		return 0, ErrZeroSourceDensity
	}
	w := targetDensity / sourceDensity
	if math.IsInf(w, 0) {
		return 0, errors.Wrapf(ErrInvalidWeight, "weight overflows: target=%v source=%v", targetDensity, sourceDensity)
	}
	return w, nil
}

// NewPopulation draws size values from source using rng and weights each one by
// target(x)/source(x).
func NewPopulation(source, target dist.Distribution, size int, rng *rand.Rand, policy ZeroDensityPolicy) (*Population, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrEmptyPopulation, "population size %d", size)
	}
	if policy == "" {
		policy = ZeroDensitySkip
	}
	if !validZeroDensityPolicies[policy] {
		return nil, errors.Errorf("unknown zero-density policy %q; valid: skip, reject", policy)
	}

	pop := &Population{Items: make([]Item, size)}
	for i := range pop.Items {
		x := source.Sample(rng)
		item := Item{
			Value:         x,
			SourceDensity: source.PDF(x),
			TargetDensity: target.PDF(x),
		}
		w, err := ComputeWeight(item.SourceDensity, item.TargetDensity)
		switch {
		case errors.Is(err, ErrZeroSourceDensity) && policy == ZeroDensitySkip:
			item.Skipped = true
			pop.Skipped++
		case err != nil:
			return nil, errors.Wrapf(err, "item %d (x=%v)", i, x)
		default:
			item.Weight = w
			pop.WeightSum += w
		}
		pop.Items[i] = item
	}

	if pop.Skipped > 0 {
		logrus.Warnf("%d of %d population values have zero %s density and were skipped",
			pop.Skipped, size, source.Name())
	}
	if pop.WeightSum == 0 {
		return nil, errors.Wrapf(ErrZeroWeightSum, "%s has no mass where %s was sampled", target.Name(), source.Name())
	}
	return pop, nil
}

func isFiniteNonNegative(x float64) bool {
	return x >= 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}
