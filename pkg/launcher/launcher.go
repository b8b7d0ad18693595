package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ronuchit/predicators/pkg/core"
	"github.com/ronuchit/predicators/pkg/grid"
	"github.com/ronuchit/predicators/pkg/identity"
	"github.com/ronuchit/predicators/pkg/resolve"
)

// Launcher orchestrates one experiment run: grid expansion, dependency
// resolution, idempotency checks, and submission.
type Launcher struct {
	grid     *grid.Grid
	store    core.Store
	backend  core.Backend
	resolver *resolve.Resolver
	logger   *slog.Logger

	onOutcome []func(context.Context, *core.SubmissionRecord)
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) { l.logger = logger }
}

// OnOutcome registers a hook invoked after every per-job outcome.
func OnOutcome(fn func(context.Context, *core.SubmissionRecord)) Option {
	return func(l *Launcher) { l.onOutcome = append(l.onOutcome, fn) }
}

// dryRunBackend is implemented by backends that print submissions instead
// of executing them. Dry-run results must not claim identities in the
// record store, or a later real run would skip every job.
type dryRunBackend interface {
	DryRunEnabled() bool
}

// New creates a launcher for the given grid, record store, and backend.
func New(g *grid.Grid, store core.Store, backend core.Backend, opts ...Option) *Launcher {
	l := &Launcher{
		grid:     g,
		store:    store,
		backend:  backend,
		resolver: resolve.New(store),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run expands the grid for the given phase and submits every job it
// produces, returning one submission record per spec. An invalid grid is
// fatal: nothing is submitted and the error is returned immediately. All
// other failures are per-job: the offending spec gets a failure record and
// the rest of the run proceeds. Already-accepted submissions are never
// rolled back.
//
// A record store read or write error aborts the run, returning the records
// accumulated so far: without the store neither idempotency nor dependency
// checks can be trusted.
func (l *Launcher) Run(ctx context.Context, phase core.Phase) ([]*core.SubmissionRecord, error) {
	cursor, err := l.grid.Expand(phase)
	if err != nil {
		return nil, err
	}

	size, _ := l.grid.Size(phase)
	l.logger.Info("starting run", "phase", phase, "jobs", size)

	var records []*core.SubmissionRecord
	for {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		spec, ok := cursor.Next()
		if !ok {
			break
		}
		rec, err := l.consider(ctx, spec)
		if rec != nil {
			records = append(records, rec)
			for _, hook := range l.onOutcome {
				hook(ctx, rec)
			}
		}
		if err != nil {
			return records, err
		}
	}

	l.logger.Info("run finished", "phase", phase, "outcomes", summarize(records))
	return records, nil
}

// consider handles a single spec. A non-nil error aborts the whole run and
// is reserved for record store failures; every per-job failure is folded
// into the returned record instead.
func (l *Launcher) consider(ctx context.Context, spec *core.JobSpec) (*core.SubmissionRecord, error) {
	id, err := identity.ForSpec(spec)
	if err != nil {
		// Identity underivable: nothing to key a stored record on.
		l.logger.Error("rejecting spec", "env", spec.Env, "method", spec.Method, "seed", spec.Seed, "error", err)
		return &core.SubmissionRecord{
			Outcome: core.OutcomeSubmissionFailed,
			Reason:  err.Error(),
			Env:     spec.Env,
			Method:  spec.Method,
			Seed:    spec.Seed,
			Phase:   spec.Phase,
		}, nil
	}

	rec := &core.SubmissionRecord{
		Identity: id,
		Env:      spec.Env,
		Method:   spec.Method,
		Seed:     spec.Seed,
		Phase:    spec.Phase,
	}

	// Load-phase specs must resolve their producing artifact before
	// anything is handed to the backend.
	if spec.Phase == core.PhaseLoad {
		producer, err := l.resolver.Resolve(ctx, spec)
		var missing *core.DependencyNotFoundError
		switch {
		case errors.As(err, &missing):
			l.logger.Warn("dependency not found", "job", id, "producer", missing.Identity)
			rec.Outcome = core.OutcomeDependencyNotFound
			rec.Reason = missing.Identity
			return rec, l.record(ctx, rec)
		case err != nil:
			var identityErr *core.IdentityError
			if errors.As(err, &identityErr) {
				rec.Outcome = core.OutcomeSubmissionFailed
				rec.Reason = err.Error()
				return rec, l.record(ctx, rec)
			}
			return nil, fmt.Errorf("launch: resolving %s: %w", id, err)
		}
		submitSpec := *spec
		submitSpec.DependsOn = producer
		spec = &submitSpec
	}

	// At-most-once: an accepted record means the job (and its artifact
	// name) is already claimed.
	existing, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("launch: idempotency check for %s: %w", id, err)
	}
	if existing.Accepted() {
		l.logger.Info("skipping already-submitted job", "job", id, "handle", existing.Handle)
		rec.Outcome = core.OutcomeSkipped
		rec.Handle = existing.Handle
		return rec, nil
	}

	handle, err := l.backend.Submit(ctx, spec, id)
	if err != nil {
		if core.IsTransient(err) {
			l.logger.Warn("scheduler unavailable", "job", id, "error", err)
		} else {
			l.logger.Error("submission rejected", "job", id, "error", err)
		}
		rec.Outcome = core.OutcomeSubmissionFailed
		rec.Reason = err.Error()
		return rec, l.record(ctx, rec)
	}

	if dr, ok := l.backend.(dryRunBackend); ok && dr.DryRunEnabled() {
		l.logger.Info("dry-run job", "job", id, "dependency", spec.DependsOn)
		rec.Outcome = core.OutcomeDryRun
		rec.Handle = handle
		return rec, nil
	}

	l.logger.Info("submitted job", "job", id, "handle", handle, "dependency", spec.DependsOn)
	rec.Outcome = core.OutcomeSubmitted
	rec.Handle = handle
	return rec, l.record(ctx, rec)
}

func (l *Launcher) record(ctx context.Context, rec *core.SubmissionRecord) error {
	if err := l.store.Record(ctx, rec); err != nil {
		return fmt.Errorf("launch: recording %s: %w", rec.Identity, err)
	}
	return nil
}

func summarize(records []*core.SubmissionRecord) map[core.Outcome]int {
	counts := make(map[core.Outcome]int)
	for _, rec := range records {
		counts[rec.Outcome]++
	}
	return counts
}
