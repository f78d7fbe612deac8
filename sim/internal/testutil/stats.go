// Package testutil provides shared statistical assertion helpers used across
// the sim/ test packages.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// ChiSquared returns Pearson's statistic for observed counts against the
// expected probabilities, which are normalized to sum to one. Cells with zero
// probability must have zero observations.
func ChiSquared(observed []int, probs []float64) float64 {
	total := 0
	for _, o := range observed {
		total += o
	}
	norm := floats.Sum(probs)
	stat := 0.0
	for i, o := range observed {
		expected := probs[i] / norm * float64(total)
		if expected == 0 {
			if o != 0 {
				return math.Inf(1)
			}
			continue
		}
		d := float64(o) - expected
		stat += d * d / expected
	}
	return stat
}

// ChiSquaredCritical returns the 1-alpha quantile of the chi-squared
// distribution with df degrees of freedom.
func ChiSquaredCritical(df int, alpha float64) float64 {
	return distuv.ChiSquared{K: float64(df)}.Quantile(1.0 - alpha)
}

// AssertChiSquaredFit fails the test when observed counts reject the expected
// probabilities at significance alpha.
func AssertChiSquaredFit(t *testing.T, name string, observed []int, probs []float64, alpha float64) {
	t.Helper()
	df := 0
	for _, p := range probs {
		if p > 0 {
			df++
		}
	}
	df--
	if df < 1 {
		t.Fatalf("%s: need at least two cells with positive probability", name)
	}
	stat := ChiSquared(observed, probs)
	if critical := ChiSquaredCritical(df, alpha); stat > critical {
		t.Errorf("%s: chi-squared %.3f exceeds critical value %.3f (df=%d, alpha=%v)", name, stat, critical, df, alpha)
	}
}
