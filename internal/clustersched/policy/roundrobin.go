package policy

import "github.com/armadaproject/clustersched/internal/clustersched/schedtypes"

// RoundRobin collapses "minimize score" to "return the first passing
// candidate under a rotating traversal order". Its cursor is owned
// exclusively by this instance, keyed by CpuArch since each pool is
// traversed independently.
type RoundRobin struct {
	cursor map[schedtypes.CpuArch]uint32
}

// NewRoundRobin returns a RoundRobin policy with a fresh, zeroed cursor
// for every architecture.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{cursor: make(map[schedtypes.CpuArch]uint32)}
}

func (*RoundRobin) Name() string { return NameRoundRobin }

func (r *RoundRobin) Select(
	host schedtypes.Host,
	pool []schedtypes.MachineHandle,
	req schedtypes.TaskRequirements,
	_ Bookkeeping,
) (schedtypes.MachineHandle, bool) {
	if len(pool) == 0 {
		return 0, false
	}
	if m, idx, ok := r.scan(host, pool, req, true); ok {
		r.advance(req.CPUArch, idx, len(pool))
		return m, true
	}
	if m, idx, ok := r.scan(host, pool, req, false); ok {
		r.advance(req.CPUArch, idx, len(pool))
		return m, true
	}
	// No match in either pass: cursor is left unchanged.
	return 0, false
}

// scan walks pool starting at the arch's cursor, wrapping once, and
// returns the first candidate passing the GPU check (and, if
// requireMemory, the memory check too).
func (r *RoundRobin) scan(
	host schedtypes.Host,
	pool []schedtypes.MachineHandle,
	req schedtypes.TaskRequirements,
	requireMemory bool,
) (schedtypes.MachineHandle, int, bool) {
	n := len(pool)
	start := int(r.cursor[req.CPUArch]) % n
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		m := pool[idx]
		info := host.MachineInfo(m)
		if !schedtypes.GPUOk(info, req) {
			continue
		}
		if requireMemory && !schedtypes.MemOk(info, req) {
			continue
		}
		return m, idx, true
	}
	return 0, 0, false
}

func (r *RoundRobin) advance(arch schedtypes.CpuArch, matchedIdx, poolLen int) {
	r.cursor[arch] = uint32((matchedIdx + 1) % poolLen)
}
