// Package dist holds the density/sampler pairs that experiments resample between.
// Each variant is a plain value carrying its parameters; experiments pick them at
// runtime through a DistSpec.
package dist

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

//go:generate mockgen -source distribution.go -destination distribution_mock.go -package dist

// Distribution pairs a probability density with a sampler for the same law.
type Distribution interface {
	// Name returns a short human-readable description including parameters.
	Name() string
	// PDF returns the density at x; zero outside the support.
	PDF(x float64) float64
	// Sample draws one value, consuming entropy only from rng.
	Sample(rng *rand.Rand) float64
}

// Uniform is the uniform law on [Min, Max].
type Uniform struct {
	Min, Max float64
}

func (u Uniform) Name() string {
	return fmt.Sprintf("uniform(%g, %g)", u.Min, u.Max)
}

func (u Uniform) PDF(x float64) float64 {
	return distuv.Uniform{Min: u.Min, Max: u.Max}.Prob(x)
}

func (u Uniform) Sample(rng *rand.Rand) float64 {
	return distuv.Uniform{Min: u.Min, Max: u.Max, Src: rng}.Rand()
}

// Gaussian is the zero-mean normal law with standard deviation Sigma.
type Gaussian struct {
	Sigma float64
}

func (g Gaussian) Name() string {
	return fmt.Sprintf("gaussian(sigma=%g)", g.Sigma)
}

func (g Gaussian) PDF(x float64) float64 {
	return distuv.Normal{Mu: 0, Sigma: g.Sigma}.Prob(x)
}

func (g Gaussian) Sample(rng *rand.Rand) float64 {
	return distuv.Normal{Mu: 0, Sigma: g.Sigma, Src: rng}.Rand()
}

// XSquared has density 3x² on [0, 1].
// Sampled by inverting its CDF x³: a uniform u maps to cbrt(u).
type XSquared struct{}

func (XSquared) Name() string {
	return "x-squared[0, 1]"
}

func (XSquared) PDF(x float64) float64 {
	if x < 0 || x > 1 {
		return 0
	}
	return 3 * x * x
}

func (XSquared) Sample(rng *rand.Rand) float64 {
	return math.Cbrt(rng.Float64())
}

// Exponential is the exponential law with rate Rate on [0, ∞).
type Exponential struct {
	Rate float64
}

func (e Exponential) Name() string {
	return fmt.Sprintf("exponential(rate=%g)", e.Rate)
}

func (e Exponential) PDF(x float64) float64 {
	return distuv.Exponential{Rate: e.Rate}.Prob(x)
}

func (e Exponential) Sample(rng *rand.Rand) float64 {
	return distuv.Exponential{Rate: e.Rate, Src: rng}.Rand()
}
