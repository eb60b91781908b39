package policy

import (
	"math"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

// scoreFunc computes the objective a score-based policy minimizes for
// candidate m. Lower is better.
type scoreFunc func(host schedtypes.Host, m schedtypes.MachineHandle, req schedtypes.TaskRequirements, bk Bookkeeping) float64

// selectByScore implements the shared two-pass capacity-relaxation
// protocol: pass 1 requires both GPU and memory adequacy; pass 2, tried
// only if pass 1 finds nothing, drops the memory check but keeps the GPU
// check. Ties resolve to the first-seen candidate in pool order.
func selectByScore(
	host schedtypes.Host,
	pool []schedtypes.MachineHandle,
	req schedtypes.TaskRequirements,
	bk Bookkeeping,
	score scoreFunc,
) (schedtypes.MachineHandle, bool) {
	if len(pool) == 0 {
		return 0, false
	}
	if m, ok := scanMin(host, pool, req, bk, score, true); ok {
		return m, true
	}
	return scanMin(host, pool, req, bk, score, false)
}

func scanMin(
	host schedtypes.Host,
	pool []schedtypes.MachineHandle,
	req schedtypes.TaskRequirements,
	bk Bookkeeping,
	score scoreFunc,
	requireMemory bool,
) (schedtypes.MachineHandle, bool) {
	var best schedtypes.MachineHandle
	bestScore := math.Inf(1)
	found := false
	for _, m := range pool {
		info := host.MachineInfo(m)
		if !schedtypes.GPUOk(info, req) {
			continue
		}
		if requireMemory && !schedtypes.MemOk(info, req) {
			continue
		}
		s := score(host, m, req, bk)
		if !found || s < bestScore {
			found = true
			bestScore = s
			best = m
		}
	}
	return best, found
}
