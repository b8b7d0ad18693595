package grid

import (
	"fmt"
	"strconv"

	"github.com/ronuchit/predicators/pkg/core"
	"github.com/ronuchit/predicators/pkg/validate"
)

// Well-known axis names. Values of these axes populate the corresponding
// JobSpec fields; any other axis becomes a framework flag.
const (
	AxisSeed          = "seed"
	AxisEnv           = "env"
	AxisMethod        = "method"
	AxisNumTrainTasks = "num_train_tasks"
)

// Axis is one named dimension of the experiment grid: an ordered sequence
// of discrete values, optionally gated to a single phase.
type Axis struct {
	Name   string
	Values []string

	// Phase gates the axis to a single run phase. Defaults to PhaseBoth.
	Phase core.Phase
}

// Seeds builds the seed axis from a start seed and a count.
func Seeds(start, count int) Axis {
	count = validate.ClampSeedCount(count)
	values := make([]string, count)
	for i := range values {
		values[i] = strconv.Itoa(start + i)
	}
	return Axis{Name: AxisSeed, Values: values}
}

// Envs builds the environment axis.
func Envs(names ...string) Axis {
	return Axis{Name: AxisEnv, Values: names}
}

// TrainTasks builds the sample-size axis.
func TrainTasks(sizes ...int) Axis {
	values := make([]string, len(sizes))
	for i, n := range sizes {
		values[i] = strconv.Itoa(n)
	}
	return Axis{Name: AxisNumTrainTasks, Values: values}
}

// MethodAxis builds the method axis from descriptors, preserving order.
func MethodAxis(methods []core.Method) Axis {
	values := make([]string, len(methods))
	for i, m := range methods {
		values[i] = m.Name
	}
	return Axis{Name: AxisMethod, Values: values}
}

// Grid is an ordered sequence of axes combined by full cartesian product.
type Grid struct {
	// Axes in declared nesting order; the first axis varies slowest.
	Axes []Axis

	// Methods holds the descriptors for values of the method axis.
	Methods []core.Method
}

// New assembles a grid in the conventional nesting order: seed outermost,
// then environment, sample size, and method innermost.
func New(seeds, envs, trainTasks Axis, methods []core.Method) *Grid {
	axes := []Axis{seeds, envs}
	if len(trainTasks.Values) > 0 {
		axes = append(axes, trainTasks)
	}
	axes = append(axes, MethodAxis(methods))
	return &Grid{Axes: axes, Methods: methods}
}

// Validate checks the grid's structural invariants: at least one axis, no
// empty axis, unique axis names, unique values within each axis, the
// required seed/env/method axes present, integer values on numeric axes,
// and a descriptor for every method value.
func (g *Grid) Validate() error {
	if len(g.Axes) == 0 {
		return core.ErrEmptyGrid
	}
	seen := make(map[string]bool, len(g.Axes))
	for _, axis := range g.Axes {
		if axis.Name == "" || len(axis.Values) == 0 {
			return fmt.Errorf("%w: %q", core.ErrEmptyAxis, axis.Name)
		}
		if seen[axis.Name] {
			return fmt.Errorf("%w: %q", core.ErrDuplicateAxis, axis.Name)
		}
		seen[axis.Name] = true

		values := make(map[string]bool, len(axis.Values))
		for _, v := range axis.Values {
			if err := validate.FieldValue(axis.Name, v); err != nil {
				return err
			}
			if values[v] {
				return fmt.Errorf("%w: axis %q value %q", core.ErrDuplicateAxisValue, axis.Name, v)
			}
			values[v] = true
			if axis.Name == AxisSeed || axis.Name == AxisNumTrainTasks {
				if _, err := strconv.Atoi(v); err != nil {
					return fmt.Errorf("%w: axis %q value %q", core.ErrNonNumericValue, axis.Name, v)
				}
			}
		}
	}
	for _, required := range []string{AxisSeed, AxisEnv, AxisMethod} {
		if !seen[required] {
			return fmt.Errorf("%w: %q", core.ErrMissingAxis, required)
		}
	}
	descriptors := g.descriptorIndex()
	for _, axis := range g.Axes {
		if axis.Name != AxisMethod {
			continue
		}
		for _, v := range axis.Values {
			if _, ok := descriptors[v]; !ok {
				return fmt.Errorf("%w: %q", core.ErrUnknownMethod, v)
			}
		}
	}
	return nil
}

func (g *Grid) descriptorIndex() map[string]core.Method {
	index := make(map[string]core.Method, len(g.Methods))
	for _, m := range g.Methods {
		index[m.Name] = m
	}
	return index
}

// Expand validates the grid and returns a restartable cursor over the job
// specs for the given run phase. Re-invoking with the same grid and phase
// yields the same sequence.
func (g *Grid) Expand(phase core.Phase) (*Cursor, error) {
	if phase != core.PhaseGenerate && phase != core.PhaseLoad {
		return nil, core.ErrUnknownPhase
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	descriptors := g.descriptorIndex()

	// Effective axes for this phase: gated axes are dropped wholesale, and
	// the method axis keeps only values whose descriptor applies.
	var axes []Axis
	for _, axis := range g.Axes {
		if !axis.Phase.AppliesTo(phase) {
			continue
		}
		if axis.Name == AxisMethod {
			var kept []string
			for _, v := range axis.Values {
				if descriptors[v].Phase.AppliesTo(phase) {
					kept = append(kept, v)
				}
			}
			axis = Axis{Name: axis.Name, Values: kept, Phase: axis.Phase}
		}
		axes = append(axes, axis)
	}

	return &Cursor{
		axes:        axes,
		phase:       phase,
		descriptors: descriptors,
	}, nil
}

// Size returns the number of specs a cursor for the given phase would
// produce.
func (g *Grid) Size(phase core.Phase) (int, error) {
	cursor, err := g.Expand(phase)
	if err != nil {
		return 0, err
	}
	n := 1
	for _, axis := range cursor.axes {
		n *= len(axis.Values)
	}
	return n, nil
}

// Cursor lazily walks the cartesian product of a grid's effective axes.
// It has no side effects and is restartable via Reset.
type Cursor struct {
	axes        []Axis
	phase       core.Phase
	descriptors map[string]core.Method
	indices     []int
	done        bool
	started     bool
}

// Next returns the next job spec in nested declaration order. The second
// return value is false once the product is exhausted.
func (c *Cursor) Next() (*core.JobSpec, bool) {
	if c.done {
		return nil, false
	}
	if !c.started {
		c.started = true
		c.indices = make([]int, len(c.axes))
		for _, axis := range c.axes {
			if len(axis.Values) == 0 {
				c.done = true
				return nil, false
			}
		}
	} else if !c.advance() {
		c.done = true
		return nil, false
	}
	return c.spec(), true
}

// Reset rewinds the cursor to the start of the sequence.
func (c *Cursor) Reset() {
	c.indices = nil
	c.done = false
	c.started = false
}

// advance increments the innermost axis first, carrying outward.
func (c *Cursor) advance() bool {
	for i := len(c.indices) - 1; i >= 0; i-- {
		c.indices[i]++
		if c.indices[i] < len(c.axes[i].Values) {
			return true
		}
		c.indices[i] = 0
	}
	return false
}

func (c *Cursor) spec() *core.JobSpec {
	spec := &core.JobSpec{Phase: c.phase}
	for i, axis := range c.axes {
		value := axis.Values[c.indices[i]]
		switch axis.Name {
		case AxisSeed:
			spec.Seed, _ = strconv.Atoi(value)
		case AxisEnv:
			spec.Env = value
		case AxisNumTrainTasks:
			spec.NumTrainTasks, _ = strconv.Atoi(value)
		case AxisMethod:
			m := c.descriptors[value]
			spec.Method = m.Name
			if m.BaseName() != m.Name {
				spec.MethodBase = m.BaseName()
			}
			if len(m.Flags) > 0 {
				if spec.Flags == nil {
					spec.Flags = make(map[string]string, len(m.Flags))
				}
				for k, v := range m.Flags {
					spec.Flags[k] = v
				}
			}
		default:
			if spec.Flags == nil {
				spec.Flags = make(map[string]string)
			}
			spec.Flags[axis.Name] = value
		}
	}
	return spec
}
