package sim

import "github.com/pkg/errors"

// Validation failures. Callers match them with errors.Is; returned errors wrap
// them with the offending index or value.
var (
	// ErrEmptyPopulation is returned when there is nothing to resample from.
	ErrEmptyPopulation = errors.New("population is empty")

	// ErrZeroWeightSum is returned when every item carries zero weight, leaving
	// the reservoir chance ratio undefined.
	ErrZeroWeightSum = errors.New("population weight sum is zero")

	// ErrZeroSourceDensity is returned under ZeroDensityReject when a drawn value
	// has zero density under the source distribution.
	ErrZeroSourceDensity = errors.New("source density is zero at a sampled value")

	// ErrInvalidWeight is returned for negative, NaN or infinite densities and weights.
	ErrInvalidWeight = errors.New("invalid importance weight")

	// ErrNoDensityMass is returned when a density is zero at every bucket center.
	ErrNoDensityMass = errors.New("density has no mass over the histogram range")
)
