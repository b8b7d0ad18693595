package core

import (
	"errors"
	"fmt"
)

// Configuration errors. These are fatal for the whole run: nothing is
// submitted when the grid itself is invalid.
var (
	ErrEmptyGrid          = errors.New("launch: grid has no axes")
	ErrEmptyAxis          = errors.New("launch: axis has no values")
	ErrDuplicateAxis      = errors.New("launch: duplicate axis name")
	ErrDuplicateAxisValue = errors.New("launch: duplicate value within axis")
	ErrUnknownPhase       = errors.New("launch: unknown phase")
	ErrMissingAxis        = errors.New("launch: required axis missing")
	ErrUnknownMethod      = errors.New("launch: method value has no descriptor")
	ErrNonNumericValue    = errors.New("launch: axis value must be an integer")
	ErrInvalidFieldValue  = errors.New("launch: invalid field value")
	ErrFieldValueTooLong  = errors.New("launch: field value too long")
	ErrSeparatorInField   = errors.New("launch: field value contains the identity separator")
)

// IdentityError indicates a spec whose field values would corrupt the
// canonical identity. Fatal for the offending spec only.
type IdentityError struct {
	Field string
	Value string
	Err   error
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("launch: identity field %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *IdentityError) Unwrap() error {
	return e.Err
}

// DependencyNotFoundError indicates a load-phase spec whose producing job
// has no accepted submission record. Recoverable at the run level: other
// jobs proceed, and a rerun after the generate phase resolves it.
type DependencyNotFoundError struct {
	// Identity of the missing producing job.
	Identity string
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("launch: no accepted submission for producing job %q", e.Identity)
}

// SchedulerUnavailableError indicates the submission mechanism could not be
// reached. Transient: a rerun retries only the jobs that failed, since the
// idempotency check skips already-accepted identities.
type SchedulerUnavailableError struct {
	Err error
}

func (e *SchedulerUnavailableError) Error() string {
	return fmt.Sprintf("launch: scheduler unavailable: %v", e.Err)
}

func (e *SchedulerUnavailableError) Unwrap() error {
	return e.Err
}

// InvalidJobSpecError indicates the scheduler rejected the job itself.
// Never retried without operator change.
type InvalidJobSpecError struct {
	Identity string
	Reason   string
}

func (e *InvalidJobSpecError) Error() string {
	return fmt.Sprintf("launch: scheduler rejected job %q: %s", e.Identity, e.Reason)
}

// IsTransient reports whether err represents a failure that a later rerun
// may succeed at without operator intervention.
func IsTransient(err error) bool {
	var unavailable *SchedulerUnavailableError
	return errors.As(err, &unavailable)
}
