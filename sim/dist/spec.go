package dist

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Distribution type names accepted in a DistSpec.
const (
	TypeUniform     = "uniform"
	TypeGaussian    = "gaussian"
	TypeXSquared    = "xsquared"
	TypeExponential = "exponential"
)

// requiredParams lists the parameters each distribution type needs.
var requiredParams = map[string][]string{
	TypeUniform:     {"min", "max"},
	TypeGaussian:    {"sigma"},
	TypeXSquared:    {},
	TypeExponential: {"rate"},
}

// DistSpec parameterizes a distribution in YAML or on the command line.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// String renders the spec in the form accepted by ParseDistSpec.
func (s DistSpec) String() string {
	if len(s.Params) == 0 {
		return s.Type
	}
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.FormatFloat(s.Params[k], 'g', -1, 64))
	}
	return s.Type + ":" + strings.Join(parts, ",")
}

// IsValidType reports whether name is a known distribution type.
func IsValidType(name string) bool {
	_, ok := requiredParams[name]
	return ok
}

// ValidTypes returns the known distribution type names, sorted.
func ValidTypes() []string {
	names := make([]string, 0, len(requiredParams))
	for name := range requiredParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return errors.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// Validate checks the type, the presence of required parameters, and that all
// parameter values are finite.
func (s DistSpec) Validate() error {
	required, ok := requiredParams[s.Type]
	if !ok {
		return errors.Errorf("unknown distribution type %q; valid: %s", s.Type, strings.Join(ValidTypes(), ", "))
	}
	if err := requireParam(s.Params, required...); err != nil {
		return errors.Wrap(err, s.Type)
	}
	for name, val := range s.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return errors.Errorf("%s.params.%s must be a finite number, got %f", s.Type, name, val)
		}
	}
	return nil
}

// New creates a Distribution from a DistSpec.
func New(spec DistSpec) (Distribution, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch spec.Type {
	case TypeUniform:
		lo, hi := spec.Params["min"], spec.Params["max"]
		if lo >= hi {
			return nil, errors.Errorf("uniform: min (%g) must be less than max (%g)", lo, hi)
		}
		return Uniform{Min: lo, Max: hi}, nil

	case TypeGaussian:
		sigma := spec.Params["sigma"]
		if sigma <= 0 {
			return nil, errors.Errorf("gaussian: sigma must be positive, got %g", sigma)
		}
		return Gaussian{Sigma: sigma}, nil

	case TypeXSquared:
		return XSquared{}, nil

	case TypeExponential:
		rate := spec.Params["rate"]
		if rate <= 0 {
			return nil, errors.Errorf("exponential: rate must be positive, got %g", rate)
		}
		return Exponential{Rate: rate}, nil
	}
	return nil, errors.Errorf("unknown distribution type %q", spec.Type)
}

// ParseDistSpec parses the compact command-line form "type:key=value,key=value",
// e.g. "uniform:min=-1,max=1" or "xsquared".
func ParseDistSpec(text string) (DistSpec, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return DistSpec{}, errors.New("empty distribution spec")
	}
	name, rest, _ := strings.Cut(text, ":")
	spec := DistSpec{Type: strings.ToLower(strings.TrimSpace(name))}
	if rest == "" {
		return spec, spec.Validate()
	}
	spec.Params = make(map[string]float64)
	for _, field := range strings.Split(rest, ",") {
		key, raw, ok := strings.Cut(field, "=")
		if !ok {
			return DistSpec{}, errors.Errorf("distribution parameter %q is not key=value", field)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return DistSpec{}, errors.Wrapf(err, "distribution parameter %q", strings.TrimSpace(key))
		}
		spec.Params[strings.TrimSpace(key)] = val
	}
	return spec, spec.Validate()
}
