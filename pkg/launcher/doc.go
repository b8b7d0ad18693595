// Package launcher drives a full experiment run.
//
// A Launcher expands a grid into job specs, resolves load-phase
// dependencies, and submits each job through a backend exactly once. One
// job's failure never halts the rest of the run, and identities with an
// accepted submission record are skipped rather than resubmitted, so a
// rerun after a transient scheduler outage retries only the jobs that
// failed.
//
// Phase ordering is an operator contract: invoke the load phase only after
// the generate phase's jobs have finished on the cluster and populated the
// artifact store. The launcher never waits on job completion.
package launcher
