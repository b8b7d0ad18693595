// Package launch expands experiment grids into cluster jobs and submits
// them, with a persistent submission record store providing at-most-once
// semantics across reruns.
//
// This is the main package users should import. It re-exports the public
// types from the internal pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	// Create the record store (also the artifact ledger)
//	db, _ := gorm.Open(sqlite.Open("records.db"), &gorm.Config{})
//	store := launch.NewGormStore(db)
//	store.Migrate(context.Background())
//
//	// Define the grid and run the generate phase
//	exp, _ := launch.LoadExperiment("experiment.yaml")
//	g, _ := exp.Grid()
//	l := launch.New(g, store, launch.NewSlurm())
//	records, _ := l.Run(ctx, launch.PhaseGenerate)
//
//	// Once the cluster has finished the generate wave, rerun with
//	// PhaseLoad to submit the jobs that consume its artifacts.
package launch

import (
	"context"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/ronuchit/predicators/pkg/backend"
	"github.com/ronuchit/predicators/pkg/config"
	"github.com/ronuchit/predicators/pkg/core"
	"github.com/ronuchit/predicators/pkg/grid"
	"github.com/ronuchit/predicators/pkg/identity"
	"github.com/ronuchit/predicators/pkg/launcher"
	"github.com/ronuchit/predicators/pkg/resolve"
	"github.com/ronuchit/predicators/pkg/schedule"
	"github.com/ronuchit/predicators/pkg/storage"
)

// Type aliases for the public surface.
type (
	// Phase selects the generate or load wave of an experiment.
	Phase = core.Phase

	// JobSpec is one concrete assignment of grid values plus a phase.
	JobSpec = core.JobSpec

	// Method describes one learning-approach variant.
	Method = core.Method

	// Outcome classifies the result of considering one job spec.
	Outcome = core.Outcome

	// SubmissionRecord is the persisted result of one submission attempt.
	SubmissionRecord = core.SubmissionRecord

	// Store is the submission record / artifact store collaborator.
	Store = core.Store

	// Backend hands jobs to the cluster scheduler.
	Backend = core.Backend

	// Axis is one dimension of the experiment grid.
	Axis = grid.Axis

	// Grid is an ordered sequence of axes expanded by cartesian product.
	Grid = grid.Grid

	// Cursor lazily walks a grid's cartesian product.
	Cursor = grid.Cursor

	// Resolver maps load-phase specs to the artifacts they consume.
	Resolver = resolve.Resolver

	// Launcher orchestrates one experiment run.
	Launcher = launcher.Launcher

	// Option configures a Launcher.
	Option = launcher.Option

	// Experiment is a YAML-defined grid of cluster runs.
	Experiment = config.Experiment

	// Slurm submits jobs through sbatch.
	Slurm = backend.Slurm

	// SlurmOption configures a Slurm backend.
	SlurmOption = backend.SlurmOption

	// GormStore implements Store using GORM.
	GormStore = storage.GormStore

	// Schedule defines when the next relaunch should happen.
	Schedule = schedule.Schedule

	// Relauncher re-invokes a launch on a schedule.
	Relauncher = schedule.Relauncher

	// IdentityError marks a spec whose field values would corrupt the
	// canonical identity.
	IdentityError = core.IdentityError

	// DependencyNotFoundError marks a load-phase spec whose producing job
	// has no accepted submission record.
	DependencyNotFoundError = core.DependencyNotFoundError

	// SchedulerUnavailableError marks a transient submission failure.
	SchedulerUnavailableError = core.SchedulerUnavailableError

	// InvalidJobSpecError marks a job the scheduler rejected outright.
	InvalidJobSpecError = core.InvalidJobSpecError
)

// Phase constants.
const (
	PhaseGenerate = core.PhaseGenerate
	PhaseLoad     = core.PhaseLoad
	PhaseBoth     = core.PhaseBoth
)

// Outcome constants.
const (
	OutcomeSubmitted          = core.OutcomeSubmitted
	OutcomeSkipped            = core.OutcomeSkipped
	OutcomeDependencyNotFound = core.OutcomeDependencyNotFound
	OutcomeSubmissionFailed   = core.OutcomeSubmissionFailed
	OutcomeDryRun             = core.OutcomeDryRun
)

// Error variables.
var (
	ErrEmptyGrid          = core.ErrEmptyGrid
	ErrEmptyAxis          = core.ErrEmptyAxis
	ErrDuplicateAxis      = core.ErrDuplicateAxis
	ErrDuplicateAxisValue = core.ErrDuplicateAxisValue
	ErrMissingAxis        = core.ErrMissingAxis
	ErrUnknownPhase       = core.ErrUnknownPhase
	ErrSeparatorInField   = core.ErrSeparatorInField
)

// New creates a launcher for the given grid, record store, and backend.
func New(g *Grid, store Store, b Backend, opts ...Option) *Launcher {
	return launcher.New(g, store, b, opts...)
}

// NewGormStore creates a new GORM-backed record store.
func NewGormStore(db *gorm.DB) *GormStore {
	return storage.NewGormStore(db)
}

// NewSlurm creates a Slurm backend with supercloud-style defaults.
func NewSlurm(opts ...SlurmOption) *Slurm {
	return backend.NewSlurm(opts...)
}

// NewResolver creates a dependency resolver backed by the given store.
func NewResolver(store Store) *Resolver {
	return resolve.New(store)
}

// ParsePhase converts a string into a run phase.
func ParsePhase(s string) (Phase, error) {
	return core.ParsePhase(s)
}

// Identity returns the canonical identity for a job spec.
func Identity(spec *JobSpec) (string, error) {
	return identity.ForSpec(spec)
}

// ProducerIdentity returns the identity of the generate-phase job whose
// artifacts the given spec would consume.
func ProducerIdentity(spec *JobSpec) (string, error) {
	return identity.Producer(spec)
}

// LoadExperiment reads a YAML experiment config from disk.
func LoadExperiment(path string) (*Experiment, error) {
	return config.Load(path)
}

// ParseExperiment decodes and validates an experiment config payload.
func ParseExperiment(data []byte) (*Experiment, error) {
	return config.Parse(data)
}

// Launcher option functions.

// WithLogger sets the launcher's logger.
func WithLogger(logger *slog.Logger) Option {
	return launcher.WithLogger(logger)
}

// OnOutcome registers a hook invoked after every per-job outcome.
func OnOutcome(fn func(context.Context, *SubmissionRecord)) Option {
	return launcher.OnOutcome(fn)
}

// Backend option functions.

// Partition sets the Slurm CPU partition.
func Partition(name string) SlurmOption {
	return backend.Partition(name)
}

// TimeLimit sets the sbatch --time value.
func TimeLimit(limit string) SlurmOption {
	return backend.TimeLimit(limit)
}

// UseGPU submits to the GPU partition with a GPU reservation.
func UseGPU() SlurmOption {
	return backend.UseGPU()
}

// LogDir sets the directory job logs are written to.
func LogDir(dir string) SlurmOption {
	return backend.LogDir(dir)
}

// DryRun prints sbatch commands to w instead of executing them.
func DryRun(w io.Writer) SlurmOption {
	return backend.DryRun(w)
}

// Schedule functions.

// Every creates a schedule that fires at fixed intervals.
func Every(d time.Duration) Schedule {
	return schedule.Every(d)
}

// Daily creates a schedule that fires at a specific UTC time each day.
func Daily(hour, minute int) Schedule {
	return schedule.Daily(hour, minute)
}

// Weekly creates a schedule that fires at a specific UTC day and time each
// week.
func Weekly(day time.Weekday, hour, minute int) Schedule {
	return schedule.Weekly(day, hour, minute)
}

// Cron creates a schedule from a standard five-field cron expression.
func Cron(expr string) (Schedule, error) {
	return schedule.Cron(expr)
}

// NewRelauncher creates a relauncher for the given launcher, schedule, and
// run phase.
func NewRelauncher(l *Launcher, s Schedule, phase Phase) *Relauncher {
	return schedule.NewRelauncher(l, s, phase)
}
