package sim

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultAlpha is the significance level for the chi-squared critical value.
	DefaultAlpha = 0.001

	// DefaultTolerance is the largest total-variation distance still counted
	// as converged.
	DefaultTolerance = 0.08

	// minExpectedCount is the smallest expected count a bucket may have before
	// it is pooled with the other sparse buckets for the chi-squared statistic.
	minExpectedCount = 5.0
)

// Fit summarizes how well a histogram's observed counts follow its density.
type Fit struct {
	// ChiSquared is Pearson's statistic against the range-renormalized masses.
	// It is informational: renormalization hides mass outside the observed range.
	ChiSquared       float64
	Critical         float64
	DegreesOfFreedom int

	// Distance is the total-variation distance between the empirical bucket
	// distribution and the density, including the density mass that falls
	// outside [Min, Max].
	Distance float64
	Coverage float64

	// MaxDeviation is the largest |actual-expected| over all buckets, as a
	// fraction of the total count.
	MaxDeviation float64

	Converged bool
}

// ChiSquaredPasses reports whether the chi-squared statistic is within the critical value.
func (f Fit) ChiSquaredPasses() bool {
	return f.DegreesOfFreedom > 0 && f.ChiSquared <= f.Critical
}

// Assess computes the fit of h. The verdict is Distance <= tolerance.
func Assess(h *Histogram, alpha, tolerance float64) Fit {
	n := float64(h.Total)
	fit := Fit{Coverage: h.Coverage}
	if n == 0 {
		return fit
	}

	fit.ChiSquared, fit.DegreesOfFreedom = chiSquared(h)
	if fit.DegreesOfFreedom > 0 {
		fit.Critical = distuv.ChiSquared{K: float64(fit.DegreesOfFreedom)}.Quantile(1 - alpha)
	}

	abs := 0.0
	for _, b := range h.Buckets {
		abs += math.Abs(float64(b.Actual)/n - b.Density*h.Width)
		dev := math.Abs(float64(b.Actual-b.Expected)) / n
		if dev > fit.MaxDeviation {
			fit.MaxDeviation = dev
		}
	}
	outside := math.Max(0, 1-h.Coverage)
	fit.Distance = 0.5 * (abs + outside)
	fit.Converged = fit.Distance <= tolerance
	return fit
}

// chiSquared returns Pearson's statistic and its degrees of freedom. Buckets
// expecting fewer than minExpectedCount values are pooled into one cell.
func chiSquared(h *Histogram) (float64, int) {
	n := float64(h.Total)
	stat := 0.0
	cells := 0
	pooledExpected, pooledActual := 0.0, 0.0
	for _, b := range h.Buckets {
		expected := b.Mass * n
		actual := float64(b.Actual)
		if expected < minExpectedCount {
			pooledExpected += expected
			pooledActual += actual
			continue
		}
		stat += (actual - expected) * (actual - expected) / expected
		cells++
	}
	if pooledExpected > 0 {
		stat += (pooledActual - pooledExpected) * (pooledActual - pooledExpected) / pooledExpected
		cells++
	}
	return stat, cells - 1
}
