package clustersched

import (
	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

// fakeHost is a minimal, fully in-memory schedtypes.Host used by the core's
// own unit tests. It is not the simulator: internal/simhost is the real,
// exercised discrete-event simulator used for the end-to-end scenarios in
// simhost_scenarios_test.go. fakeHost exists so pools/vmcache/bookkeeping/
// dispatch can be tested in isolation without pulling in a full event loop.
type fakeHost struct {
	arches    map[schedtypes.MachineHandle]schedtypes.CpuArch
	info      map[schedtypes.MachineHandle]schedtypes.MachineInfo
	reqs      map[schedtypes.TaskHandle]schedtypes.TaskRequirements
	completed map[schedtypes.TaskHandle]bool
	priority  map[schedtypes.TaskHandle]schedtypes.Priority

	nextVM       schedtypes.VMHandle
	createdVMs   []vmCreation
	attached     map[schedtypes.VMHandle]schedtypes.MachineHandle
	shutdownVMs  []schedtypes.VMHandle
	submitted    []taskSubmission
	exceptions   []exception
	energy       float64
	slaReport    map[schedtypes.SlaClass]float64
}

type vmCreation struct {
	Os   schedtypes.GuestOs
	Arch schedtypes.CpuArch
	VM   schedtypes.VMHandle
}

type taskSubmission struct {
	VM       schedtypes.VMHandle
	Task     schedtypes.TaskHandle
	Priority schedtypes.Priority
}

type exception struct {
	Msg  string
	Task schedtypes.TaskHandle
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		arches:    make(map[schedtypes.MachineHandle]schedtypes.CpuArch),
		info:      make(map[schedtypes.MachineHandle]schedtypes.MachineInfo),
		reqs:      make(map[schedtypes.TaskHandle]schedtypes.TaskRequirements),
		completed: make(map[schedtypes.TaskHandle]bool),
		priority:  make(map[schedtypes.TaskHandle]schedtypes.Priority),
		attached:  make(map[schedtypes.VMHandle]schedtypes.MachineHandle),
		slaReport: make(map[schedtypes.SlaClass]float64),
		nextVM:    1,
	}
}

func (h *fakeHost) addMachine(m schedtypes.MachineHandle, arch schedtypes.CpuArch, info schedtypes.MachineInfo) {
	h.arches[m] = arch
	h.info[m] = info
}

func (h *fakeHost) setTask(t schedtypes.TaskHandle, req schedtypes.TaskRequirements) {
	h.reqs[t] = req
}

func (h *fakeHost) MachineTotal() uint32 {
	return uint32(len(h.arches))
}

func (h *fakeHost) MachineCPUType(m schedtypes.MachineHandle) schedtypes.CpuArch {
	return h.arches[m]
}

func (h *fakeHost) MachineInfo(m schedtypes.MachineHandle) schedtypes.MachineInfo {
	return h.info[m]
}

func (h *fakeHost) MachineClusterEnergy() float64 {
	return h.energy
}

func (h *fakeHost) VMCreate(os schedtypes.GuestOs, arch schedtypes.CpuArch) schedtypes.VMHandle {
	vm := h.nextVM
	h.nextVM++
	h.createdVMs = append(h.createdVMs, vmCreation{Os: os, Arch: arch, VM: vm})
	return vm
}

func (h *fakeHost) VMAttach(vm schedtypes.VMHandle, m schedtypes.MachineHandle) {
	h.attached[vm] = m
}

func (h *fakeHost) VMShutdown(vm schedtypes.VMHandle) {
	h.shutdownVMs = append(h.shutdownVMs, vm)
}

func (h *fakeHost) VMAddTask(vm schedtypes.VMHandle, t schedtypes.TaskHandle, pr schedtypes.Priority) {
	h.submitted = append(h.submitted, taskSubmission{VM: vm, Task: t, Priority: pr})
}

func (h *fakeHost) TaskRequirements(t schedtypes.TaskHandle) schedtypes.TaskRequirements {
	return h.reqs[t]
}

func (h *fakeHost) TaskIsCompleted(t schedtypes.TaskHandle) bool {
	return h.completed[t]
}

func (h *fakeHost) SetTaskPriority(t schedtypes.TaskHandle, pr schedtypes.Priority) {
	h.priority[t] = pr
}

func (h *fakeHost) ThrowException(msg string, t schedtypes.TaskHandle) {
	h.exceptions = append(h.exceptions, exception{Msg: msg, Task: t})
}

func (h *fakeHost) SLAReport(class schedtypes.SlaClass) float64 {
	return h.slaReport[class]
}

func (h *fakeHost) SimOutput(msg string, verbosity int) {}

var _ schedtypes.Host = (*fakeHost)(nil)
