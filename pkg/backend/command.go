package backend

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ronuchit/predicators/pkg/core"
)

// DefaultEntryPoint is the framework script the generated command invokes.
const DefaultEntryPoint = "predicators/main.py"

// Command returns the framework invocation for a job spec as an argument
// vector. Extra flags are emitted in sorted order so the command for a
// given spec is deterministic. Load-phase specs additionally instruct the
// framework to load the producing job's artifacts instead of regenerating
// them.
func Command(spec *core.JobSpec, identity, entryPoint string) []string {
	if entryPoint == "" {
		entryPoint = DefaultEntryPoint
	}
	args := []string{
		"python", entryPoint,
		"--env", spec.Env,
		"--approach", spec.Method,
		"--seed", strconv.Itoa(spec.Seed),
		"--num_train_tasks", strconv.Itoa(spec.NumTrainTasks),
		"--experiment_id", identity,
	}

	flags := make([]string, 0, len(spec.Flags))
	for name := range spec.Flags {
		flags = append(flags, name)
	}
	sort.Strings(flags)
	for _, name := range flags {
		args = append(args, "--"+name, spec.Flags[name])
	}

	if spec.Phase == core.PhaseLoad {
		args = append(args,
			"--load_approach",
			"--load_data",
			"--load_experiment_id", spec.DependsOn,
		)
	}
	return args
}

// CommandLine returns the framework invocation as a single shell line.
func CommandLine(spec *core.JobSpec, identity, entryPoint string) string {
	return strings.Join(Command(spec, identity, entryPoint), " ")
}
