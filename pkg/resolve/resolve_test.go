package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronuchit/predicators/pkg/core"
)

// mockStore implements core.Store for testing.
type mockStore struct {
	accepted map[string]bool
	writes   int
}

func newMockStore(accepted ...string) *mockStore {
	m := &mockStore{accepted: make(map[string]bool)}
	for _, id := range accepted {
		m.accepted[id] = true
	}
	return m
}

func (m *mockStore) Migrate(ctx context.Context) error { return nil }

func (m *mockStore) Exists(ctx context.Context, identity string) (bool, error) {
	return m.accepted[identity], nil
}

func (m *mockStore) Record(ctx context.Context, rec *core.SubmissionRecord) error {
	m.writes++
	return nil
}

func (m *mockStore) Get(ctx context.Context, identity string) (*core.SubmissionRecord, error) {
	return nil, nil
}

func (m *mockStore) ListByOutcome(ctx context.Context, outcome core.Outcome, limit int) ([]*core.SubmissionRecord, error) {
	return nil, nil
}

func loadSpec() *core.JobSpec {
	return &core.JobSpec{
		Env:           "cover",
		Method:        "direct_bc",
		Seed:          456,
		NumTrainTasks: 1000,
		Phase:         core.PhaseLoad,
	}
}

func TestResolve_FindsProducer(t *testing.T) {
	store := newMockStore("cover__direct_bc__456__1000")
	r := New(store)

	producer, err := r.Resolve(context.Background(), loadSpec())
	require.NoError(t, err)
	assert.Equal(t, "cover__direct_bc__456__1000", producer)
}

func TestResolve_MissingDependency(t *testing.T) {
	r := New(newMockStore())

	_, err := r.Resolve(context.Background(), loadSpec())
	var missing *core.DependencyNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "cover__direct_bc__456__1000", missing.Identity)
}

func TestResolve_BaseMethod(t *testing.T) {
	store := newMockStore("cover__direct_bc__456__1000")
	r := New(store)

	spec := loadSpec()
	spec.Method = "direct_bc_finetune"
	spec.MethodBase = "direct_bc"

	producer, err := r.Resolve(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "cover__direct_bc__456__1000", producer)
}

func TestResolve_NeverWrites(t *testing.T) {
	store := newMockStore("cover__direct_bc__456__1000")
	r := New(store)

	_, err := r.Resolve(context.Background(), loadSpec())
	require.NoError(t, err)
	_, _ = r.Resolve(context.Background(), &core.JobSpec{
		Env: "blocks", Method: "direct_bc", Seed: 1, Phase: core.PhaseLoad,
	})
	assert.Zero(t, store.writes)
}

func TestResolve_InvalidField(t *testing.T) {
	r := New(newMockStore())
	spec := loadSpec()
	spec.Env = "cover__big"

	_, err := r.Resolve(context.Background(), spec)
	assert.ErrorIs(t, err, core.ErrSeparatorInField)
}
