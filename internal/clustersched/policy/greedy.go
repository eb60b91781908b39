package policy

import "github.com/armadaproject/clustersched/internal/clustersched/schedtypes"

// Greedy selects the candidate with the smallest locally-tracked queue
// depth, breaking ties in favor of the earliest machine in pool order.
type Greedy struct{}

func (*Greedy) Name() string { return NameGreedy }

func (g *Greedy) Select(
	host schedtypes.Host,
	pool []schedtypes.MachineHandle,
	req schedtypes.TaskRequirements,
	bk Bookkeeping,
) (schedtypes.MachineHandle, bool) {
	return selectByScore(host, pool, req, bk, func(_ schedtypes.Host, m schedtypes.MachineHandle, _ schedtypes.TaskRequirements, bk Bookkeeping) float64 {
		return float64(bk.QueueCount(m))
	})
}
