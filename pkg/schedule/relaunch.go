package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ronuchit/predicators/pkg/core"
)

// Runner is the subset of the launcher a Relauncher drives.
type Runner interface {
	Run(ctx context.Context, phase core.Phase) ([]*core.SubmissionRecord, error)
}

// Relauncher re-invokes a launch on a schedule. Because the launcher skips
// identities with an accepted submission record, each pass retries only
// jobs that previously failed. The relauncher stops once a pass produces
// no transient failures, or when the context is cancelled.
type Relauncher struct {
	runner   Runner
	schedule Schedule
	phase    core.Phase
	logger   *slog.Logger

	// now and sleep are swapped out in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// RelauncherOption configures a Relauncher.
type RelauncherOption func(*Relauncher)

// RelaunchLogger sets the logger. Defaults to slog.Default().
func RelaunchLogger(logger *slog.Logger) RelauncherOption {
	return func(r *Relauncher) { r.logger = logger }
}

// NewRelauncher creates a relauncher for the given runner, schedule, and
// run phase.
func NewRelauncher(runner Runner, s Schedule, phase core.Phase, opts ...RelauncherOption) *Relauncher {
	r := &Relauncher{
		runner:   runner,
		schedule: s,
		phase:    phase,
		logger:   slog.Default(),
		now:      time.Now,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs launches until a pass has no retryable failures or the
// context is cancelled. The first pass happens immediately; subsequent
// passes follow the schedule. It returns the records of the final pass.
func (r *Relauncher) Start(ctx context.Context) ([]*core.SubmissionRecord, error) {
	runID := uuid.New().String()
	for {
		records, err := r.runner.Run(ctx, r.phase)
		if err != nil {
			return records, err
		}
		retryable := countFailed(records)
		if retryable == 0 {
			r.logger.Info("relaunch converged", "run", runID, "phase", r.phase, "jobs", len(records))
			return records, nil
		}

		next := r.schedule.Next(r.now())
		r.logger.Info("scheduling relaunch", "run", runID, "failed", retryable, "next", next)
		if err := r.sleep(ctx, next.Sub(r.now())); err != nil {
			return records, err
		}
	}
}

func countFailed(records []*core.SubmissionRecord) int {
	n := 0
	for _, rec := range records {
		switch rec.Outcome {
		case core.OutcomeSubmissionFailed, core.OutcomeDependencyNotFound:
			n++
		}
	}
	return n
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
