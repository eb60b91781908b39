// Package schedtypes defines the handle types, enumerations and host-facing
// interface shared by the placement engine (internal/clustersched) and its
// pluggable policy family (internal/clustersched/policy). It has no
// dependencies on either so it can sit at the bottom of the import graph.
package schedtypes

import "fmt"

// MachineHandle identifies a physical machine. Densely numbered by the host
// from 0 to total_machines-1.
type MachineHandle uint32

// VMHandle identifies a guest VM. The zero value means "not yet created".
type VMHandle uint32

// TaskHandle identifies a task.
type TaskHandle uint32

// CpuArch is the architecture of a machine, fixed for the run.
type CpuArch int

const (
	X86 CpuArch = iota
	ARM
	POWER
	RISCV
)

func (c CpuArch) String() string {
	switch c {
	case X86:
		return "x86"
	case ARM:
		return "arm"
	case POWER:
		return "power"
	case RISCV:
		return "riscv"
	default:
		return fmt.Sprintf("CpuArch(%d)", int(c))
	}
}

// CpuArches enumerates every architecture the pool builder partitions over.
var CpuArches = []CpuArch{X86, ARM, POWER, RISCV}

// GuestOs is the guest operating system a task requires its VM to run.
type GuestOs int

const (
	LINUX GuestOs = iota
	LINUX_RT
	WIN
	AIX
)

func (g GuestOs) String() string {
	switch g {
	case LINUX:
		return "linux"
	case LINUX_RT:
		return "linux_rt"
	case WIN:
		return "win"
	case AIX:
		return "aix"
	default:
		return fmt.Sprintf("GuestOs(%d)", int(g))
	}
}

// SlaClass is the service-level obligation a task declares.
type SlaClass int

const (
	SLA0 SlaClass = iota
	SLA1
	SLA2
	SLA3
)

func (s SlaClass) String() string {
	switch s {
	case SLA0:
		return "SLA0"
	case SLA1:
		return "SLA1"
	case SLA2:
		return "SLA2"
	case SLA3:
		return "SLA3"
	default:
		return fmt.Sprintf("SlaClass(%d)", int(s))
	}
}

// Priority is the dispatch priority a task is submitted to its VM with.
type Priority int

const (
	HIGH Priority = iota
	MID
	LOW
)

func (p Priority) String() string {
	switch p {
	case HIGH:
		return "HIGH"
	case MID:
		return "MID"
	case LOW:
		return "LOW"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// PriorityForSLA implements the fixed SLA-to-priority mapping: SLA0 is
// HIGH, SLA1 is MID, everything else is LOW.
func PriorityForSLA(sla SlaClass) Priority {
	switch sla {
	case SLA0:
		return HIGH
	case SLA1:
		return MID
	default:
		return LOW
	}
}

// TaskRequirements is the set of facts about an arriving task the placement
// engine needs, gathered from the host in a single call at arrival time.
type TaskRequirements struct {
	GuestOS           GuestOs
	CPUArch           CpuArch
	GPURequired       bool
	RequiredMemoryMB  uint64
	TotalInstructions uint64
	SLA               SlaClass
}

// MachineInfo is the subset of host-reported machine facts the engine
// scores and filters candidates on.
type MachineInfo struct {
	MemorySizeMB uint64
	GPUs         uint32
	ActiveTasks  uint32
	// Performance holds peak instructions-per-second for each P-state;
	// element 0 is the peak state used in completion-time estimates.
	Performance []float64
}

// PeakPerformance returns MachineInfo.Performance[0], or 1 if the slice is
// empty or its first element is not positive, avoiding a division by zero
// in policies that estimate run time.
func (m MachineInfo) PeakPerformance() float64 {
	if len(m.Performance) == 0 {
		return 1
	}
	if m.Performance[0] <= 0 {
		return 1
	}
	return m.Performance[0]
}
