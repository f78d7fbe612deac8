package sim

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// DefaultBuckets is the bucket count used when none is configured.
const DefaultBuckets = 50

// Bucket is one equal-width bin of a Histogram.
type Bucket struct {
	Center   float64 // midpoint of the bin
	Density  float64 // density evaluated at Center
	Mass     float64 // expected probability, renormalized over [Min, Max]
	Expected int     // int(Mass * Total)
	Actual   int     // observed count
}

// Histogram compares observed values against a density over the observed range.
type Histogram struct {
	Min, Max float64
	Width    float64 // bin width; 0 when Min == Max
	Total    int     // number of binned values
	Coverage float64 // density mass inside [Min, Max], midpoint rule
	Buckets  []Bucket
}

// BucketIndex maps x to floor(n*(x-min)/(max-min)) clamped to [0, n-1], so the
// maximum value lands in the last bucket.
func BucketIndex(x, min, max float64, n int) int {
	if max <= min {
		return 0
	}
	idx := int(math.Floor(float64(n) * (x - min) / (max - min)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// BuildHistogram bins values into equal-width buckets spanning their min and
// max, and derives the expected count per bucket from density evaluated at the
// bucket centers, renormalized so the bucket masses sum to one.
func BuildHistogram(values []float64, buckets int, density func(float64) float64) (*Histogram, error) {
	if len(values) == 0 {
		return nil, errors.New("cannot build a histogram of zero values")
	}
	if buckets < 1 {
		return nil, errors.Errorf("bucket count must be at least 1, got %d", buckets)
	}

	lo, hi := floats.Min(values), floats.Max(values)
	h := &Histogram{
		Min:     lo,
		Max:     hi,
		Width:   (hi - lo) / float64(buckets),
		Total:   len(values),
		Buckets: make([]Bucket, buckets),
	}
	for _, x := range values {
		h.Buckets[BucketIndex(x, lo, hi, buckets)].Actual++
	}

	if hi == lo {
		// All values coincide: a point mass, with no density mass to compare against.
		for i := range h.Buckets {
			h.Buckets[i].Center = lo
		}
		h.Buckets[0].Mass = 1
		h.Buckets[0].Expected = h.Total
		return h, nil
	}

	masses := make([]float64, buckets)
	for i := range h.Buckets {
		c := lo + (float64(i)+0.5)*h.Width
		d := density(c)
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, errors.Wrapf(ErrInvalidWeight, "density at %v is %v", c, d)
		}
		h.Buckets[i].Center = c
		h.Buckets[i].Density = d
		masses[i] = d / float64(buckets)
	}
	total := floats.Sum(masses)
	if total == 0 {
		return nil, errors.Wrapf(ErrNoDensityMass, "range [%v, %v]", lo, hi)
	}
	h.Coverage = total * float64(buckets) * h.Width
	floats.Scale(1/total, masses)
	for i := range h.Buckets {
		h.Buckets[i].Mass = masses[i]
		h.Buckets[i].Expected = int(masses[i] * float64(h.Total))
	}
	return h, nil
}

// ActualSum returns the total observed count across buckets.
func (h *Histogram) ActualSum() int {
	n := 0
	for _, b := range h.Buckets {
		n += b.Actual
	}
	return n
}

// MassSum returns the sum of the expected bucket masses.
func (h *Histogram) MassSum() float64 {
	sum := 0.0
	for _, b := range h.Buckets {
		sum += b.Mass
	}
	return sum
}
