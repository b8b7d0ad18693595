package core

// Phase selects which wave of an experiment a job belongs to.
type Phase string

const (
	// PhaseGenerate runs the framework from scratch and produces artifacts.
	PhaseGenerate Phase = "generate"

	// PhaseLoad reuses artifacts produced by an earlier generate-phase job.
	PhaseLoad Phase = "load"

	// PhaseBoth marks axes and methods that apply in every phase.
	// It is never the phase of a run or of a concrete job.
	PhaseBoth Phase = "both"
)

// ParsePhase converts a string into a run phase.
// Only "generate" and "load" are valid run phases.
func ParsePhase(s string) (Phase, error) {
	switch Phase(s) {
	case PhaseGenerate:
		return PhaseGenerate, nil
	case PhaseLoad:
		return PhaseLoad, nil
	}
	return "", ErrUnknownPhase
}

// AppliesTo reports whether an axis or method gated on p participates in a
// run with the given phase.
func (p Phase) AppliesTo(run Phase) bool {
	return p == PhaseBoth || p == "" || p == run
}

// Method describes one learning-approach variant of the experiment grid.
type Method struct {
	// Name is the approach name passed to the framework.
	Name string

	// Base names the generate-phase method whose artifacts a load-phase
	// variant consumes. Empty means the method is its own producer.
	Base string

	// Flags are extra framework flags specific to this method.
	Flags map[string]string

	// Phase gates the method to a single phase. Defaults to PhaseBoth.
	Phase Phase
}

// BaseName returns the producing method's name.
func (m Method) BaseName() string {
	if m.Base != "" {
		return m.Base
	}
	return m.Name
}

// JobSpec is one concrete assignment of values to all grid axes plus a
// phase tag. Specs are created by the grid expander and treated as
// immutable afterwards; the orchestrator works on copies.
type JobSpec struct {
	// Env is the environment name (e.g. "cover", "blocks").
	Env string

	// Method is the approach name passed to the framework.
	Method string

	// MethodBase is the producing method used for dependency resolution.
	// Empty means Method is its own producer.
	MethodBase string

	// Seed is the random seed for this run.
	Seed int

	// NumTrainTasks is the offline dataset size for this run.
	NumTrainTasks int

	// Phase tags the spec as a generate or load job.
	Phase Phase

	// Flags are extra framework flags inherited from the method descriptor.
	Flags map[string]string

	// DependsOn holds the producing job's identity for load-phase specs.
	// Set by the orchestrator after dependency resolution.
	DependsOn string

	// Comment is a free-form operator note. It never contributes to the
	// job identity.
	Comment string
}

// BaseMethod returns the method whose generate-phase job produces the
// artifacts this spec would consume.
func (s *JobSpec) BaseMethod() string {
	if s.MethodBase != "" {
		return s.MethodBase
	}
	return s.Method
}
