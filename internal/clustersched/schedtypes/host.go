package schedtypes

// Host is the set of simulator-supplied primitives the placement engine
// consumes. Any discrete-event simulator that implements Host can drive the
// engine; internal/simhost is this repository's own implementation, used
// for tests and the CLI demo, but the engine never imports it directly.
type Host interface {
	// MachineTotal returns the number of machines in the cluster.
	MachineTotal() uint32
	// MachineCPUType returns the (immutable) architecture of a machine.
	MachineCPUType(m MachineHandle) CpuArch
	// MachineInfo returns the current snapshot of a machine's capacity and load.
	MachineInfo(m MachineHandle) MachineInfo
	// MachineClusterEnergy returns cumulative cluster energy in kWh.
	MachineClusterEnergy() float64

	// VMCreate creates a new VM of the given guest OS on the given architecture.
	VMCreate(os GuestOs, arch CpuArch) VMHandle
	// VMAttach attaches a VM to a machine.
	VMAttach(vm VMHandle, m MachineHandle)
	// VMShutdown requests shutdown of a VM.
	VMShutdown(vm VMHandle)
	// VMAddTask submits a task to a VM at the given priority.
	VMAddTask(vm VMHandle, t TaskHandle, pr Priority)

	// TaskRequirements returns the arrival-time requirements of a task.
	TaskRequirements(t TaskHandle) TaskRequirements
	// TaskIsCompleted reports whether a task has already finished.
	TaskIsCompleted(t TaskHandle) bool
	// SetTaskPriority changes the dispatch priority of a task in flight.
	SetTaskPriority(t TaskHandle, pr Priority)

	// ThrowException reports an unrecoverable scheduling error for a task.
	ThrowException(msg string, t TaskHandle)
	// SLAReport returns the percentage of violations observed for an SLA class.
	SLAReport(class SlaClass) float64
	// SimOutput writes a log line at the given verbosity.
	SimOutput(msg string, verbosity int)
}
