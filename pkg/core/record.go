package core

import "time"

// Outcome classifies the result of considering one job spec in a run.
type Outcome string

const (
	// OutcomeSubmitted means the backend accepted the job.
	OutcomeSubmitted Outcome = "submitted"

	// OutcomeSkipped means an accepted record already existed for the
	// identity, so the job was not resubmitted.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeDependencyNotFound means a load-phase spec named a producing
	// identity with no accepted record in the store.
	OutcomeDependencyNotFound Outcome = "dependency_not_found"

	// OutcomeSubmissionFailed means the backend rejected the job or could
	// not be reached.
	OutcomeSubmissionFailed Outcome = "submission_failed"

	// OutcomeDryRun means the backend only printed the submission. Dry-run
	// outcomes are never persisted: the identity stays unclaimed and a later
	// real run still submits it.
	OutcomeDryRun Outcome = "dry_run"
)

// SubmissionRecord is the persisted result of one submission attempt.
// A record with OutcomeSubmitted is also the artifact reference for the
// identity: its existence is what load-phase dependency resolution checks.
type SubmissionRecord struct {
	// Identity is the canonical job identity, also the scheduler-visible
	// job name and the artifact name.
	Identity string `gorm:"primaryKey;size:255"`

	Outcome Outcome `gorm:"index;size:32;not null"`

	// Handle is the scheduler-assigned id for accepted submissions.
	Handle string `gorm:"size:64"`

	// Reason carries the sanitized failure message for failed outcomes,
	// or the producing identity for dependency failures.
	Reason string `gorm:"type:text"`

	// Denormalized spec fields, kept for operator queries.
	Env    string `gorm:"index;size:255"`
	Method string `gorm:"index;size:255"`
	Seed   int    `gorm:"index"`
	Phase  Phase  `gorm:"size:16"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Accepted reports whether the record represents an accepted submission.
func (r *SubmissionRecord) Accepted() bool {
	return r != nil && r.Outcome == OutcomeSubmitted
}
