package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_BuildsEachType(t *testing.T) {
	tests := []struct {
		spec DistSpec
		want Distribution
	}{
		{DistSpec{Type: "uniform", Params: map[string]float64{"min": -1, "max": 1}}, Uniform{Min: -1, Max: 1}},
		{DistSpec{Type: "gaussian", Params: map[string]float64{"sigma": 0.1}}, Gaussian{Sigma: 0.1}},
		{DistSpec{Type: "xsquared"}, XSquared{}},
		{DistSpec{Type: "exponential", Params: map[string]float64{"rate": 3}}, Exponential{Rate: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Type, func(t *testing.T) {
			got, err := New(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_InvalidSpecs_ReturnError(t *testing.T) {
	tests := []struct {
		name string
		spec DistSpec
	}{
		{"unknown type", DistSpec{Type: "cauchy"}},
		{"missing max", DistSpec{Type: "uniform", Params: map[string]float64{"min": 0}}},
		{"inverted range", DistSpec{Type: "uniform", Params: map[string]float64{"min": 1, "max": -1}}},
		{"empty range", DistSpec{Type: "uniform", Params: map[string]float64{"min": 1, "max": 1}}},
		{"zero sigma", DistSpec{Type: "gaussian", Params: map[string]float64{"sigma": 0}}},
		{"NaN sigma", DistSpec{Type: "gaussian", Params: map[string]float64{"sigma": math.NaN()}}},
		{"negative rate", DistSpec{Type: "exponential", Params: map[string]float64{"rate": -1}}},
		{"infinite param", DistSpec{Type: "uniform", Params: map[string]float64{"min": math.Inf(-1), "max": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestParseDistSpec(t *testing.T) {
	tests := []struct {
		in   string
		want DistSpec
	}{
		{"uniform:min=-1,max=1", DistSpec{Type: "uniform", Params: map[string]float64{"min": -1, "max": 1}}},
		{"gaussian:sigma=0.1", DistSpec{Type: "gaussian", Params: map[string]float64{"sigma": 0.1}}},
		{" Gaussian : sigma = 2 ", DistSpec{Type: "gaussian", Params: map[string]float64{"sigma": 2}}},
		{"xsquared", DistSpec{Type: "xsquared"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDistSpec(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDistSpec_Malformed(t *testing.T) {
	for _, in := range []string{"", "uniform:min", "uniform:min=a,max=1", "gaussian", "nope:x=1"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDistSpec(in)
			assert.Error(t, err)
		})
	}
}

func TestDistSpec_StringRoundTrips(t *testing.T) {
	spec := DistSpec{Type: "uniform", Params: map[string]float64{"max": 0.3, "min": -0.1}}
	assert.Equal(t, "uniform:max=0.3,min=-0.1", spec.String())
	parsed, err := ParseDistSpec(spec.String())
	require.NoError(t, err)
	assert.Equal(t, spec, parsed)
}

func TestValidTypes_Sorted(t *testing.T) {
	assert.Equal(t, []string{"exponential", "gaussian", "uniform", "xsquared"}, ValidTypes())
	assert.True(t, IsValidType("gaussian"))
	assert.False(t, IsValidType("GAUSSIAN"))
}
