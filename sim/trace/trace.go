package trace

// TraceLevel controls which records a RunTrace keeps.
type TraceLevel string

const (
	// TraceLevelNone disables recording.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEnd keeps only the end (resampled) phase of each experiment.
	TraceLevelEnd TraceLevel = "end"
	// TraceLevelPhases keeps both start and end phases.
	TraceLevelPhases TraceLevel = "phases"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEnd:    true,
	TraceLevelPhases: true,
	"":               true, // empty defaults to phases
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// RunTrace collects experiment records during a suite run.
type RunTrace struct {
	Config      TraceConfig
	Experiments []ExperimentRecord
	Failures    []FailureRecord
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace(config TraceConfig) *RunTrace {
	if config.Level == "" {
		config.Level = TraceLevelPhases
	}
	return &RunTrace{
		Config:      config,
		Experiments: make([]ExperimentRecord, 0),
		Failures:    make([]FailureRecord, 0),
	}
}

// Record appends an experiment record if the trace level keeps its phase.
func (rt *RunTrace) Record(record ExperimentRecord) {
	switch rt.Config.Level {
	case TraceLevelNone:
		return
	case TraceLevelEnd:
		if record.Phase != PhaseEnd {
			return
		}
	}
	rt.Experiments = append(rt.Experiments, record)
}

// RecordFailure appends a failed experiment. Failures are kept at every level
// except TraceLevelNone.
func (rt *RunTrace) RecordFailure(label string, err error) {
	if rt.Config.Level == TraceLevelNone || err == nil {
		return
	}
	rt.Failures = append(rt.Failures, FailureRecord{Label: label, Err: err.Error()})
}
