package clustersched

import (
	"fmt"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

// IncompatibilityError is returned (and surfaced via Host.ThrowException)
// when no machine exists that can host an arriving task: no machine of the
// required architecture exists, or none of the same-architecture machines
// has a GPU the task requires. It is the only error surfaced upward by the
// dispatch pipeline; everything else is absorbed (spec §7).
type IncompatibilityError struct {
	Task   schedtypes.TaskHandle
	Policy string
	Arch   schedtypes.CpuArch
}

func (e *IncompatibilityError) Error() string {
	return fmt.Sprintf("clustersched: no compatible %s machine for task %d under policy %q", e.Arch, e.Task, e.Policy)
}
