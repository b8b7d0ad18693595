// Package backend hands fully-formed experiment jobs to a cluster scheduler.
//
// This package includes:
//   - Command: the framework invocation generated for a job spec
//   - Slurm: a core.Backend that submits through sbatch
//
// The backend treats job specs as opaque beyond needing a command line and
// an identity string; it never interprets parameter semantics.
package backend
