package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronuchit/predicators/pkg/core"
)

func testGrid() *Grid {
	return New(
		Seeds(456, 2),
		Envs("cover", "blocks"),
		TrainTasks(1000),
		[]core.Method{{Name: "direct_bc"}, {Name: "gnn"}},
	)
}

func collect(t *testing.T, c *Cursor) []*core.JobSpec {
	t.Helper()
	var specs []*core.JobSpec
	for {
		spec, ok := c.Next()
		if !ok {
			return specs
		}
		specs = append(specs, spec)
	}
}

func TestExpand_ProductSize(t *testing.T) {
	cursor, err := testGrid().Expand(core.PhaseGenerate)
	require.NoError(t, err)

	specs := collect(t, cursor)
	assert.Len(t, specs, 2*2*1*2)
}

func TestExpand_UniqueTuples(t *testing.T) {
	cursor, err := testGrid().Expand(core.PhaseGenerate)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, spec := range collect(t, cursor) {
		key := fmt.Sprintf("%s|%s|%d|%d", spec.Env, spec.Method, spec.Seed, spec.NumTrainTasks)
		assert.False(t, seen[key], "duplicate tuple %s", key)
		seen[key] = true
	}
	assert.Len(t, seen, 8)
}

func TestExpand_NestedOrder(t *testing.T) {
	// Seed is the outermost axis so it varies slowest.
	cursor, err := testGrid().Expand(core.PhaseGenerate)
	require.NoError(t, err)

	specs := collect(t, cursor)
	require.Len(t, specs, 8)
	for _, spec := range specs[:4] {
		assert.Equal(t, 456, spec.Seed)
	}
	for _, spec := range specs[4:] {
		assert.Equal(t, 457, spec.Seed)
	}
	// Environment varies slower than method within one seed.
	assert.Equal(t, "cover", specs[0].Env)
	assert.Equal(t, "direct_bc", specs[0].Method)
	assert.Equal(t, "cover", specs[1].Env)
	assert.Equal(t, "gnn", specs[1].Method)
	assert.Equal(t, "blocks", specs[2].Env)
}

func TestExpand_Restartable(t *testing.T) {
	g := testGrid()

	first, err := g.Expand(core.PhaseGenerate)
	require.NoError(t, err)
	second, err := g.Expand(core.PhaseGenerate)
	require.NoError(t, err)

	assert.Equal(t, collect(t, first), collect(t, second))

	first.Reset()
	assert.Len(t, collect(t, first), 8)
}

func TestExpand_PhaseGatedAxis(t *testing.T) {
	g := testGrid()
	g.Axes = append(g.Axes, Axis{
		Name:   "feasibility_num_datapoints",
		Values: []string{"50", "100"},
		Phase:  core.PhaseLoad,
	})

	generate, err := g.Expand(core.PhaseGenerate)
	require.NoError(t, err)
	for _, spec := range collect(t, generate) {
		assert.NotContains(t, spec.Flags, "feasibility_num_datapoints")
	}

	load, err := g.Expand(core.PhaseLoad)
	require.NoError(t, err)
	specs := collect(t, load)
	assert.Len(t, specs, 8*2)
	for _, spec := range specs {
		assert.Contains(t, spec.Flags, "feasibility_num_datapoints")
	}
}

func TestExpand_PhaseGatedMethod(t *testing.T) {
	methods := []core.Method{
		{Name: "direct_bc", Phase: core.PhaseGenerate},
		{Name: "direct_bc_load", Base: "direct_bc", Phase: core.PhaseLoad},
	}
	g := New(Seeds(456, 1), Envs("cover"), TrainTasks(1000), methods)

	generate, err := g.Expand(core.PhaseGenerate)
	require.NoError(t, err)
	specs := collect(t, generate)
	require.Len(t, specs, 1)
	assert.Equal(t, "direct_bc", specs[0].Method)
	assert.Empty(t, specs[0].MethodBase)

	load, err := g.Expand(core.PhaseLoad)
	require.NoError(t, err)
	specs = collect(t, load)
	require.Len(t, specs, 1)
	assert.Equal(t, "direct_bc_load", specs[0].Method)
	assert.Equal(t, "direct_bc", specs[0].MethodBase)
}

func TestExpand_MethodFlags(t *testing.T) {
	methods := []core.Method{{
		Name:  "direct_bc",
		Flags: map[string]string{"feasibility_learning_strategy": "backtracking"},
	}}
	g := New(Seeds(456, 1), Envs("cover"), TrainTasks(500), methods)

	cursor, err := g.Expand(core.PhaseGenerate)
	require.NoError(t, err)
	specs := collect(t, cursor)
	require.Len(t, specs, 1)
	assert.Equal(t, "backtracking", specs[0].Flags["feasibility_learning_strategy"])
	assert.Equal(t, 500, specs[0].NumTrainTasks)
}

func TestExpand_EmptyGrid(t *testing.T) {
	g := &Grid{}
	_, err := g.Expand(core.PhaseGenerate)
	assert.ErrorIs(t, err, core.ErrEmptyGrid)
}

func TestExpand_EmptyAxis(t *testing.T) {
	g := testGrid()
	g.Axes = append(g.Axes, Axis{Name: "horizon"})
	_, err := g.Expand(core.PhaseGenerate)
	assert.ErrorIs(t, err, core.ErrEmptyAxis)
}

func TestExpand_DuplicateAxisValue(t *testing.T) {
	g := New(Seeds(456, 1), Envs("cover", "cover"), TrainTasks(1000),
		[]core.Method{{Name: "direct_bc"}})
	_, err := g.Expand(core.PhaseGenerate)
	assert.ErrorIs(t, err, core.ErrDuplicateAxisValue)
}

func TestExpand_DuplicateAxisName(t *testing.T) {
	g := testGrid()
	g.Axes = append(g.Axes, Axis{Name: AxisEnv, Values: []string{"painting"}})
	_, err := g.Expand(core.PhaseGenerate)
	assert.ErrorIs(t, err, core.ErrDuplicateAxis)
}

func TestExpand_MissingRequiredAxis(t *testing.T) {
	g := &Grid{
		Axes:    []Axis{Envs("cover"), MethodAxis([]core.Method{{Name: "direct_bc"}})},
		Methods: []core.Method{{Name: "direct_bc"}},
	}
	_, err := g.Expand(core.PhaseGenerate)
	assert.ErrorIs(t, err, core.ErrMissingAxis)
}

func TestExpand_UnknownMethod(t *testing.T) {
	g := testGrid()
	g.Methods = g.Methods[:1] // drop the descriptor for "gnn"
	_, err := g.Expand(core.PhaseGenerate)
	assert.ErrorIs(t, err, core.ErrUnknownMethod)
}

func TestExpand_SeparatorInValue(t *testing.T) {
	g := New(Seeds(456, 1), Envs("cover__large"), TrainTasks(1000),
		[]core.Method{{Name: "direct_bc"}})
	_, err := g.Expand(core.PhaseGenerate)

	var identityErr *core.IdentityError
	require.ErrorAs(t, err, &identityErr)
	assert.ErrorIs(t, err, core.ErrSeparatorInField)
}

func TestExpand_UnknownPhase(t *testing.T) {
	_, err := testGrid().Expand(core.PhaseBoth)
	assert.ErrorIs(t, err, core.ErrUnknownPhase)
}

func TestSize(t *testing.T) {
	n, err := testGrid().Size(core.PhaseGenerate)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}
