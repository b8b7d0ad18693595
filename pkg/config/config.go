// Package config loads experiment grid definitions from YAML files.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ronuchit/predicators/pkg/core"
	"github.com/ronuchit/predicators/pkg/grid"
)

// Method is the YAML form of a method descriptor.
type Method struct {
	Name  string            `yaml:"name"`
	Base  string            `yaml:"base,omitempty"`
	Phase string            `yaml:"phase,omitempty"`
	Flags map[string]string `yaml:"flags,omitempty"`
}

// Axis is the YAML form of an extra flag axis.
type Axis struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
	Phase  string   `yaml:"phase,omitempty"`
}

// Experiment describes one grid of cluster runs.
type Experiment struct {
	// Label is a free-form operator note; it never reaches job identities.
	Label string `yaml:"label,omitempty"`

	StartSeed int `yaml:"start_seed"`
	NumSeeds  int `yaml:"num_seeds"`

	Envs          []string `yaml:"envs"`
	NumTrainTasks []int    `yaml:"num_train_tasks,omitempty"`

	Methods []Method `yaml:"methods"`

	// Axes are additional framework-flag dimensions beyond the built-in
	// seed/env/method/sample-size axes.
	Axes []Axis `yaml:"axes,omitempty"`
}

// Parse decodes and validates a single experiment config payload.
func Parse(data []byte) (*Experiment, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("launch: experiment config is empty")
	}
	var exp Experiment
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("launch: decode experiment config: %w", err)
	}
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	return &exp, nil
}

// Load reads a YAML experiment config from disk.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("launch: read %s: %w", path, err)
	}
	exp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("launch: %s: %w", path, err)
	}
	return exp, nil
}

// Validate checks the structural invariants the grid cannot express:
// a positive seed count, at least one environment and method, unique
// method names, and parseable phase gates.
func (e *Experiment) Validate() error {
	if e.NumSeeds < 1 {
		return fmt.Errorf("launch: num_seeds must be at least 1, got %d", e.NumSeeds)
	}
	if len(e.Envs) == 0 {
		return fmt.Errorf("%w: %q", core.ErrMissingAxis, grid.AxisEnv)
	}
	if len(e.Methods) == 0 {
		return fmt.Errorf("%w: %q", core.ErrMissingAxis, grid.AxisMethod)
	}
	names := make(map[string]bool, len(e.Methods))
	for _, m := range e.Methods {
		if m.Name == "" {
			return fmt.Errorf("launch: method with empty name")
		}
		if names[m.Name] {
			return fmt.Errorf("%w: method %q", core.ErrDuplicateAxisValue, m.Name)
		}
		names[m.Name] = true
		if _, err := parseGate(m.Phase); err != nil {
			return fmt.Errorf("launch: method %q: %w", m.Name, err)
		}
		// The producing method must be part of the same config so the
		// generate wave can actually be launched from it.
		if m.Base != "" && !declares(e.Methods, m.Base) {
			return fmt.Errorf("launch: method %q: base %q not declared", m.Name, m.Base)
		}
	}
	for _, a := range e.Axes {
		if _, err := parseGate(a.Phase); err != nil {
			return fmt.Errorf("launch: axis %q: %w", a.Name, err)
		}
	}
	return nil
}

// Grid assembles the validated experiment into an expandable grid.
func (e *Experiment) Grid() (*grid.Grid, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	methods := make([]core.Method, len(e.Methods))
	for i, m := range e.Methods {
		gate, _ := parseGate(m.Phase)
		methods[i] = core.Method{
			Name:  m.Name,
			Base:  m.Base,
			Flags: m.Flags,
			Phase: gate,
		}
	}

	g := grid.New(
		grid.Seeds(e.StartSeed, e.NumSeeds),
		grid.Envs(e.Envs...),
		grid.TrainTasks(e.NumTrainTasks...),
		methods,
	)
	for _, a := range e.Axes {
		gate, _ := parseGate(a.Phase)
		g.Axes = append(g.Axes, grid.Axis{Name: a.Name, Values: a.Values, Phase: gate})
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func parseGate(s string) (core.Phase, error) {
	switch core.Phase(s) {
	case "", core.PhaseBoth:
		return core.PhaseBoth, nil
	case core.PhaseGenerate:
		return core.PhaseGenerate, nil
	case core.PhaseLoad:
		return core.PhaseLoad, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownPhase, s)
}

func declares(methods []Method, name string) bool {
	for _, m := range methods {
		if m.Name == name {
			return true
		}
	}
	return false
}
