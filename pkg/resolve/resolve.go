// Package resolve maps load-phase job specs to the artifacts they consume.
package resolve

import (
	"context"

	"github.com/ronuchit/predicators/pkg/core"
	"github.com/ronuchit/predicators/pkg/identity"
)

// Resolver computes, for a load-phase spec, the producing job's identity
// and checks the record store for evidence that the artifact exists.
// Resolution is read-only: the store is never mutated.
type Resolver struct {
	store core.Store
}

// New creates a resolver backed by the given record store.
func New(store core.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the artifact reference a load-phase spec depends on.
// It fails with *core.DependencyNotFoundError when no accepted submission
// record exists for the producing identity; callers must surface that
// before submitting anything for the spec.
func (r *Resolver) Resolve(ctx context.Context, spec *core.JobSpec) (string, error) {
	producer, err := identity.Producer(spec)
	if err != nil {
		return "", err
	}
	ok, err := r.store.Exists(ctx, producer)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &core.DependencyNotFoundError{Identity: producer}
	}
	return producer, nil
}
