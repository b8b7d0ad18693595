package core

import "context"

// Store is the persistence layer for submission records. It doubles as the
// artifact store collaborator: an accepted record for an identity is the
// evidence that the corresponding artifact exists (or will, once the
// cluster finishes the job).
type Store interface {
	// Migrate creates the necessary database tables.
	Migrate(ctx context.Context) error

	// Exists reports whether an accepted submission record exists for the
	// identity. Non-accepted records (failures, skips) do not count.
	Exists(ctx context.Context, identity string) (bool, error)

	// Record upserts the submission record for its identity.
	Record(ctx context.Context, rec *SubmissionRecord) error

	// Get returns the record for an identity, or nil if none exists.
	Get(ctx context.Context, identity string) (*SubmissionRecord, error)

	// ListByOutcome returns up to limit records with the given outcome,
	// oldest first. limit <= 0 means no limit.
	ListByOutcome(ctx context.Context, outcome Outcome, limit int) ([]*SubmissionRecord, error)
}

// Backend hands a fully-formed job to the cluster scheduler. It treats the
// spec as opaque beyond needing a command line and an identity string.
//
// Submit returns the scheduler-assigned handle on success. Failures are
// reported as *SchedulerUnavailableError (transient, safe to retry later)
// or *InvalidJobSpecError (configuration, never retried without operator
// change).
type Backend interface {
	Submit(ctx context.Context, spec *JobSpec, identity string) (handle string, err error)
}
