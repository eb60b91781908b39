package policy

import (
	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

// stubHost implements schedtypes.Host with only MachineInfo wired to real
// data; every other method is either a recording stub or a no-op, since
// Policy.Select only ever reads MachineInfo and GPU/memory compatibility.
type stubHost struct {
	info map[schedtypes.MachineHandle]schedtypes.MachineInfo
}

func newStubHost() *stubHost {
	return &stubHost{info: make(map[schedtypes.MachineHandle]schedtypes.MachineInfo)}
}

func (h *stubHost) set(m schedtypes.MachineHandle, info schedtypes.MachineInfo) {
	h.info[m] = info
}

func (h *stubHost) MachineTotal() uint32                                   { return uint32(len(h.info)) }
func (h *stubHost) MachineCPUType(schedtypes.MachineHandle) schedtypes.CpuArch { return schedtypes.X86 }
func (h *stubHost) MachineInfo(m schedtypes.MachineHandle) schedtypes.MachineInfo {
	return h.info[m]
}
func (h *stubHost) MachineClusterEnergy() float64 { return 0 }
func (h *stubHost) VMCreate(schedtypes.GuestOs, schedtypes.CpuArch) schedtypes.VMHandle {
	return 0
}
func (h *stubHost) VMAttach(schedtypes.VMHandle, schedtypes.MachineHandle)       {}
func (h *stubHost) VMShutdown(schedtypes.VMHandle)                              {}
func (h *stubHost) VMAddTask(schedtypes.VMHandle, schedtypes.TaskHandle, schedtypes.Priority) {}
func (h *stubHost) TaskRequirements(schedtypes.TaskHandle) schedtypes.TaskRequirements {
	return schedtypes.TaskRequirements{}
}
func (h *stubHost) TaskIsCompleted(schedtypes.TaskHandle) bool                { return false }
func (h *stubHost) SetTaskPriority(schedtypes.TaskHandle, schedtypes.Priority) {}
func (h *stubHost) ThrowException(string, schedtypes.TaskHandle)              {}
func (h *stubHost) SLAReport(schedtypes.SlaClass) float64                     { return 0 }
func (h *stubHost) SimOutput(string, int)                                     {}

var _ schedtypes.Host = (*stubHost)(nil)

// fakeBookkeeping is an in-memory Bookkeeping double for policy scoring
// tests, independent of the real memdb-backed clustersched.Bookkeeping.
type fakeBookkeeping struct {
	counts map[schedtypes.MachineHandle]uint32
}

func newFakeBookkeeping(counts map[schedtypes.MachineHandle]uint32) *fakeBookkeeping {
	if counts == nil {
		counts = make(map[schedtypes.MachineHandle]uint32)
	}
	return &fakeBookkeeping{counts: counts}
}

func (b *fakeBookkeeping) QueueCount(m schedtypes.MachineHandle) uint32 {
	return b.counts[m]
}

var _ Bookkeeping = (*fakeBookkeeping)(nil)
