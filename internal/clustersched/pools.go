package clustersched

import (
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

// DefaultMachineCeiling mirrors the original source's MAX_MACH compile-time
// ceiling, carried forward here purely as a soft configuration guard (see
// SPEC_FULL.md's Open Question on design ceilings).
const DefaultMachineCeiling = 512

// Pools partitions machines into per-CpuArch pools (C1). Built once at
// init and frozen thereafter.
type Pools struct {
	byArch map[schedtypes.CpuArch][]schedtypes.MachineHandle
}

// BuildPools queries the host for its total machine count and architecture
// per machine, and partitions [0, total) into per-arch pools in ascending
// handle order. Pools partition the machine space exactly: every handle
// appears in exactly one pool.
func BuildPools(host schedtypes.Host, ceiling uint32, entry *log.Entry) *Pools {
	total := host.MachineTotal()
	if total > ceiling {
		entry.WithFields(log.Fields{"total": total, "ceiling": ceiling}).
			Warn("clustersched: machine total exceeds configured ceiling; truncating pool build")
		total = ceiling
	}

	byArch := make(map[schedtypes.CpuArch][]schedtypes.MachineHandle)
	for i := uint32(0); i < total; i++ {
		m := schedtypes.MachineHandle(i)
		arch := host.MachineCPUType(m)
		byArch[arch] = append(byArch[arch], m)
	}

	for _, arch := range schedtypes.CpuArches {
		entry.WithFields(log.Fields{"arch": arch, "count": len(byArch[arch])}).
			Debug("clustersched: built pool")
	}

	return &Pools{byArch: byArch}
}

// Pool returns the (possibly empty) pool of machines for arch, in
// ascending handle order.
func (p *Pools) Pool(arch schedtypes.CpuArch) []schedtypes.MachineHandle {
	return p.byArch[arch]
}
