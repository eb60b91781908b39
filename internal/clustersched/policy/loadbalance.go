package policy

import "github.com/armadaproject/clustersched/internal/clustersched/schedtypes"

// LoadBalance selects the candidate with the fewest active tasks as
// reported by the host, rather than the engine's own queue counter. It
// still relies on the shared Bookkeeping for completion accounting (via
// the engine), even though it never reads QueueCount itself.
type LoadBalance struct{}

func (*LoadBalance) Name() string { return NameLoadBalance }

func (l *LoadBalance) Select(
	host schedtypes.Host,
	pool []schedtypes.MachineHandle,
	req schedtypes.TaskRequirements,
	bk Bookkeeping,
) (schedtypes.MachineHandle, bool) {
	return selectByScore(host, pool, req, bk, func(host schedtypes.Host, m schedtypes.MachineHandle, _ schedtypes.TaskRequirements, _ Bookkeeping) float64 {
		return float64(host.MachineInfo(m).ActiveTasks)
	})
}
