// Package identity derives canonical, collision-free job identities.
//
// An identity is a pure function of a spec's significant fields, joined in
// a fixed canonical order by a double-underscore separator:
//
//	env__method__seed__numTrainTasks[__load]
//
// The identity doubles as the scheduler-visible job name and as the name of
// the artifact a generate-phase job produces. Incidental fields such as the
// operator comment never contribute.
package identity

import (
	"strconv"
	"strings"

	"github.com/ronuchit/predicators/pkg/core"
	"github.com/ronuchit/predicators/pkg/validate"
)

// Separator joins identity fields. Field values containing it are rejected.
const Separator = "__"

// loadSuffix distinguishes load-phase jobs from the generate-phase jobs
// whose artifacts they consume.
const loadSuffix = "load"

// ForSpec returns the canonical identity for a job spec.
func ForSpec(spec *core.JobSpec) (string, error) {
	return compose(spec.Env, spec.Method, spec.Seed, spec.NumTrainTasks, spec.Phase)
}

// Producer returns the identity of the generate-phase job that produces
// the artifacts the given spec would consume: the same significant fields
// with the phase forced to generate and the method replaced by its base.
func Producer(spec *core.JobSpec) (string, error) {
	return compose(spec.Env, spec.BaseMethod(), spec.Seed, spec.NumTrainTasks, core.PhaseGenerate)
}

func compose(env, method string, seed, numTrainTasks int, phase core.Phase) (string, error) {
	if err := validate.FieldValue("env", env); err != nil {
		return "", err
	}
	if err := validate.FieldValue("method", method); err != nil {
		return "", err
	}
	fields := []string{
		env,
		method,
		strconv.Itoa(seed),
		strconv.Itoa(numTrainTasks),
	}
	if phase == core.PhaseLoad {
		fields = append(fields, loadSuffix)
	}
	id := strings.Join(fields, Separator)
	if len(id) > validate.MaxIdentityLength {
		return "", &core.IdentityError{Field: "identity", Value: id, Err: core.ErrFieldValueTooLong}
	}
	return id, nil
}
