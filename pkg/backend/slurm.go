package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ronuchit/predicators/pkg/core"
	"github.com/ronuchit/predicators/pkg/validate"
)

// SlurmConfig holds sbatch submission settings.
type SlurmConfig struct {
	// Partition is the CPU partition jobs are submitted to.
	Partition string

	// GPUPartition and Gres are used instead of Partition when UseGPU is set.
	GPUPartition string
	Gres         string
	UseGPU       bool

	// TimeLimit is passed through to sbatch --time.
	TimeLimit string

	// LogDir receives one log file per job, named <identity>__%j.log where
	// %j is expanded by the scheduler to its own job id.
	LogDir string

	// EntryPoint is the framework script the generated command invokes.
	EntryPoint string

	// DryRun prints the sbatch command instead of executing it.
	DryRun bool

	// Output receives dry-run command lines. Defaults to os.Stdout.
	Output io.Writer
}

// SlurmOption configures a Slurm backend.
type SlurmOption func(*SlurmConfig)

// Partition sets the CPU partition.
func Partition(name string) SlurmOption {
	return func(c *SlurmConfig) { c.Partition = name }
}

// TimeLimit sets the sbatch --time value.
func TimeLimit(limit string) SlurmOption {
	return func(c *SlurmConfig) { c.TimeLimit = limit }
}

// UseGPU submits to the GPU partition with a GPU reservation.
func UseGPU() SlurmOption {
	return func(c *SlurmConfig) { c.UseGPU = true }
}

// LogDir sets the directory job logs are written to.
func LogDir(dir string) SlurmOption {
	return func(c *SlurmConfig) { c.LogDir = dir }
}

// EntryPoint overrides the framework script invoked by generated commands.
func EntryPoint(script string) SlurmOption {
	return func(c *SlurmConfig) { c.EntryPoint = script }
}

// DryRun prints sbatch commands to w instead of executing them.
func DryRun(w io.Writer) SlurmOption {
	return func(c *SlurmConfig) {
		c.DryRun = true
		if w != nil {
			c.Output = w
		}
	}
}

// Slurm submits jobs through sbatch. Each submission writes a short run
// script, hands it to sbatch with the identity as the job name, and removes
// the script again. Submission is fire-and-forget: the backend never waits
// for the job to run.
type Slurm struct {
	config SlurmConfig

	// runCommand is swapped out in tests.
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewSlurm creates a Slurm backend with supercloud-style defaults.
func NewSlurm(opts ...SlurmOption) *Slurm {
	config := SlurmConfig{
		Partition:    "xeon-p8",
		GPUPartition: "xeon-g6-volta",
		Gres:         "gpu:volta:1",
		TimeLimit:    "99:00:00",
		LogDir:       "logs",
		EntryPoint:   DefaultEntryPoint,
		Output:       os.Stdout,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Slurm{
		config: config,
		runCommand: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// DryRunEnabled reports whether the backend prints submissions instead of
// executing them.
func (b *Slurm) DryRunEnabled() bool {
	return b.config.DryRun
}

// submittedPattern matches sbatch's acceptance line.
var submittedPattern = regexp.MustCompile(`Submitted batch job (\d+)`)

// Submit hands one job to sbatch and returns the scheduler-assigned job id.
func (b *Slurm) Submit(ctx context.Context, spec *core.JobSpec, identity string) (string, error) {
	sbatchArgs, cleanup, err := b.prepare(spec, identity)
	if err != nil {
		return "", err
	}
	defer cleanup()

	if b.config.DryRun {
		fmt.Fprintf(b.config.Output, "Running command: sbatch %s\n", strings.Join(sbatchArgs, " "))
		return "dryrun-" + uuid.New().String(), nil
	}

	output, err := b.runCommand(ctx, "sbatch", sbatchArgs...)
	text := strings.TrimSpace(string(output))
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || strings.Contains(text, "command not found") {
			return "", &core.SchedulerUnavailableError{Err: fmt.Errorf("sbatch: %w", err)}
		}
		if ctx.Err() != nil {
			return "", &core.SchedulerUnavailableError{Err: ctx.Err()}
		}
		return "", &core.InvalidJobSpecError{Identity: identity, Reason: validate.SanitizeReason(text)}
	}
	if strings.Contains(text, "command not found") {
		return "", &core.SchedulerUnavailableError{Err: errors.New("sbatch not on PATH; are you logged into the cluster?")}
	}

	if m := submittedPattern.FindStringSubmatch(text); m != nil {
		return m[1], nil
	}
	// Some schedulers print nothing useful; keep the record unique anyway.
	return uuid.New().String(), nil
}

// prepare writes the run script and builds the sbatch argument vector.
// The returned cleanup removes the script.
func (b *Slurm) prepare(spec *core.JobSpec, identity string) ([]string, func(), error) {
	if err := os.MkdirAll(b.config.LogDir, 0o755); err != nil {
		return nil, nil, &core.SchedulerUnavailableError{Err: err}
	}

	script := fmt.Sprintf("#!/bin/bash\n%s\n", CommandLine(spec, identity, b.config.EntryPoint))
	runFile, err := os.CreateTemp("", "run_"+identity+"_*.sh")
	if err != nil {
		return nil, nil, &core.SchedulerUnavailableError{Err: err}
	}
	if _, err := runFile.WriteString(script); err != nil {
		runFile.Close()
		os.Remove(runFile.Name())
		return nil, nil, &core.SchedulerUnavailableError{Err: err}
	}
	if err := runFile.Close(); err != nil {
		os.Remove(runFile.Name())
		return nil, nil, &core.SchedulerUnavailableError{Err: err}
	}

	logPattern := filepath.Join(b.config.LogDir, identity+"__%j.log")
	args := []string{"--time=" + b.config.TimeLimit}
	if b.config.UseGPU {
		args = append(args, "--partition="+b.config.GPUPartition, "--gres="+b.config.Gres)
	} else {
		args = append(args, "--partition="+b.config.Partition)
	}
	args = append(args,
		"--nodes=1", "--exclusive",
		"--job-name="+identity,
		"-o", logPattern,
		runFile.Name(),
	)
	return args, func() { os.Remove(runFile.Name()) }, nil
}
