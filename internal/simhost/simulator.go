package simhost

import (
	"container/heap"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
	"github.com/armadaproject/clustersched/internal/logging"
)

// slaDeadlineFactor is the multiple of a task's solo run time it is allowed
// to take before counting as an SLA violation. SLA3 has no deadline: the
// original interface's GetSLAReport only ever asked about SLA0-SLA2.
var slaDeadlineFactor = map[schedtypes.SlaClass]float64{
	schedtypes.SLA0: 1.2,
	schedtypes.SLA1: 1.5,
	schedtypes.SLA2: 2.0,
}

// machineState is a machine's mutable simulated state.
type machineState struct {
	arch        schedtypes.CpuArch
	memoryMB    uint64
	gpus        uint32
	performance []float64
	activeTasks uint32
}

func (m *machineState) info() schedtypes.MachineInfo {
	return schedtypes.MachineInfo{
		MemorySizeMB: m.memoryMB,
		GPUs:         m.gpus,
		ActiveTasks:  m.activeTasks,
		Performance:  m.performance,
	}
}

// taskState is a task's simulated lifecycle state.
type taskState struct {
	req       schedtypes.TaskRequirements
	priority  schedtypes.Priority
	vm        schedtypes.VMHandle
	machine   schedtypes.MachineHandle
	arrival   int64
	deadline  int64
	completed bool
	rejected  bool
}

// SchedulerCallbacks is the subset of internal/clustersched.Scheduler's
// public API the run loop drives. Defined here (rather than imported) so
// simhost has no compile-time dependency on the core, matching spec.md
// §1's framing of the simulator as an external collaborator driving the
// core through a fixed callback surface, never the other way around.
type SchedulerCallbacks interface {
	Init(host schedtypes.Host) error
	HandleNewTask(host schedtypes.Host, now int64, t schedtypes.TaskHandle) error
	HandleTaskCompletion(host schedtypes.Host, now int64, t schedtypes.TaskHandle) error
	MemoryWarning(host schedtypes.Host, now int64, m schedtypes.MachineHandle)
	SchedulerCheck(host schedtypes.Host, now int64)
	SLAWarning(host schedtypes.Host, now int64, t schedtypes.TaskHandle)
	SimulationComplete(host schedtypes.Host, now int64) error
}

// schedulerCheckIntervalUsec is the fixed period between scheduler_check
// ticks.
const schedulerCheckIntervalUsec = 1_000_000

// Simulator is a synthetic, in-process discrete-event simulator that
// implements schedtypes.Host. It is a real, exercised implementation, not a
// test double: internal/clustersched never imports it, but the CLI (C12)
// and the end-to-end tests construct one and run a Scheduler against it.
type Simulator struct {
	cluster  *ClusterSpec
	workload *WorkloadSpec
	log      *logrus.Entry
	rng      *rand.Rand

	machines  []machineState
	vmMachine map[schedtypes.VMHandle]schedtypes.MachineHandle
	vmQueue   map[schedtypes.VMHandle][]schedtypes.TaskHandle
	vmRunning map[schedtypes.VMHandle]schedtypes.TaskHandle
	nextVM    schedtypes.VMHandle

	tasks         map[schedtypes.TaskHandle]*taskState
	tasksIssued   uint32
	tasksDone     uint32
	tasksRejected uint32
	nextTask      schedtypes.TaskHandle

	clock   int64
	events  eventLog
	nextSeq int64

	energyKWh   float64
	slaTotal    map[schedtypes.SlaClass]uint64
	slaViolated map[schedtypes.SlaClass]uint64
}

// NewSimulator builds a Simulator over the given cluster and workload,
// validating both first.
func NewSimulator(cluster *ClusterSpec, workload *WorkloadSpec, log *logrus.Entry) (*Simulator, error) {
	if err := cluster.Validate(); err != nil {
		return nil, err
	}
	if err := workload.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	// Tagging every log line from this run with a generated id, the same
	// way the teacher stamps each job run with a uuid in jobdb.go, makes
	// interleaved output from multiple simulations in the same process
	// distinguishable.
	log = log.WithField("run_id", uuid.NewString())

	var machines []machineState
	for _, pool := range cluster.Pools {
		for i := uint32(0); i < pool.Count; i++ {
			machines = append(machines, machineState{
				arch:        pool.Arch,
				memoryMB:    pool.MemoryMB,
				gpus:        pool.GPUs,
				performance: pool.Performance,
			})
		}
	}

	return &Simulator{
		cluster:     cluster,
		workload:    workload,
		log:         log,
		rng:         rand.New(rand.NewSource(workload.Seed)),
		machines:    machines,
		vmMachine:   make(map[schedtypes.VMHandle]schedtypes.MachineHandle),
		vmQueue:     make(map[schedtypes.VMHandle][]schedtypes.TaskHandle),
		vmRunning:   make(map[schedtypes.VMHandle]schedtypes.TaskHandle),
		tasks:       make(map[schedtypes.TaskHandle]*taskState),
		nextTask:    1,
		nextVM:      1,
		slaTotal:    make(map[schedtypes.SlaClass]uint64),
		slaViolated: make(map[schedtypes.SlaClass]uint64),
	}, nil
}

// ---- schedtypes.Host ----

func (s *Simulator) MachineTotal() uint32 { return uint32(len(s.machines)) }

func (s *Simulator) MachineCPUType(m schedtypes.MachineHandle) schedtypes.CpuArch {
	return s.machines[m].arch
}

func (s *Simulator) MachineInfo(m schedtypes.MachineHandle) schedtypes.MachineInfo {
	return s.machines[m].info()
}

func (s *Simulator) MachineClusterEnergy() float64 { return s.energyKWh }

func (s *Simulator) VMCreate(os schedtypes.GuestOs, arch schedtypes.CpuArch) schedtypes.VMHandle {
	vm := s.nextVM
	s.nextVM++
	return vm
}

func (s *Simulator) VMAttach(vm schedtypes.VMHandle, m schedtypes.MachineHandle) {
	s.vmMachine[vm] = m
}

func (s *Simulator) VMShutdown(vm schedtypes.VMHandle) {
	delete(s.vmQueue, vm)
	delete(s.vmRunning, vm)
}

func (s *Simulator) VMAddTask(vm schedtypes.VMHandle, t schedtypes.TaskHandle, pr schedtypes.Priority) {
	ts := s.tasks[t]
	ts.priority = pr
	ts.vm = vm
	ts.machine = s.vmMachine[vm]

	m := &s.machines[ts.machine]
	m.activeTasks++

	if _, busy := s.vmRunning[vm]; busy {
		s.enqueue(vm, t)
		return
	}
	s.startTask(vm, t)
}

// enqueue inserts t into vm's pending queue ordered by priority (HIGH
// first), stable among tasks of equal priority.
func (s *Simulator) enqueue(vm schedtypes.VMHandle, t schedtypes.TaskHandle) {
	q := s.vmQueue[vm]
	p := s.tasks[t].priority
	idx := len(q)
	for i, qt := range q {
		if s.tasks[qt].priority > p {
			idx = i
			break
		}
	}
	q = append(q, 0)
	copy(q[idx+1:], q[idx:])
	q[idx] = t
	s.vmQueue[vm] = q
}

func (s *Simulator) removeFromQueue(vm schedtypes.VMHandle, t schedtypes.TaskHandle) {
	q := s.vmQueue[vm]
	for i, qt := range q {
		if qt == t {
			s.vmQueue[vm] = append(q[:i], q[i+1:]...)
			return
		}
	}
}

func (s *Simulator) startTask(vm schedtypes.VMHandle, t schedtypes.TaskHandle) {
	ts := s.tasks[t]
	m := &s.machines[ts.machine]
	runtime := runtimeUsec(ts.req.TotalInstructions, m.performance)
	// The deadline is measured from arrival, not from when the VM actually
	// started the task, so queueing delay counts against the SLA the same
	// way it would for a real workload.
	ts.deadline = ts.arrival + int64(float64(runtime)*slaDeadlineFactor[ts.req.SLA])
	s.vmRunning[vm] = t
	s.energyKWh += energyForRun(runtime)
	s.pushEvent(s.clock+runtime, eventCompletion, t, vm)

	if _, hasDeadline := slaDeadlineFactor[ts.req.SLA]; hasDeadline {
		// Queueing delay may already have pushed the deadline into the
		// past by the time the task starts; never schedule an event
		// earlier than the current clock.
		warnAt := ts.deadline
		if warnAt < s.clock {
			warnAt = s.clock
		}
		s.pushEvent(warnAt, eventSLAWarning, t, vm)
	}
}

func runtimeUsec(totalInstructions uint64, performance []float64) int64 {
	peak := 1.0
	if len(performance) > 0 && performance[0] > 0 {
		peak = performance[0]
	}
	return int64(math.Ceil(float64(totalInstructions) / peak))
}

// energyForRun is a simple additive per-machine-active-second meter: not a
// physical power model (explicitly out of scope, spec.md §1), just enough
// to drive a non-zero simulation_complete report.
func energyForRun(durationUsec int64) float64 {
	const kwPerMachine = 0.3
	hours := float64(durationUsec) / 1_000_000 / 3600
	return kwPerMachine * hours
}

func (s *Simulator) TaskRequirements(t schedtypes.TaskHandle) schedtypes.TaskRequirements {
	return s.tasks[t].req
}

func (s *Simulator) TaskIsCompleted(t schedtypes.TaskHandle) bool {
	ts, ok := s.tasks[t]
	return ok && ts.completed
}

// SetTaskPriority updates a task's dispatch priority, and if the task is
// still waiting in its VM's pending queue (not yet running), re-sorts that
// queue so the new priority takes effect immediately — this is how an
// SLA warning escalation actually changes execution order.
func (s *Simulator) SetTaskPriority(t schedtypes.TaskHandle, pr schedtypes.Priority) {
	ts, ok := s.tasks[t]
	if !ok {
		return
	}
	ts.priority = pr
	if ts.vm == 0 || s.vmRunning[ts.vm] == t {
		return
	}
	s.removeFromQueue(ts.vm, t)
	s.enqueue(ts.vm, t)
}

func (s *Simulator) ThrowException(msg string, t schedtypes.TaskHandle) {
	if ts, ok := s.tasks[t]; ok && !ts.rejected {
		ts.rejected = true
		s.tasksRejected++
	}
	s.log.WithField("task", t).Warn("simhost: " + msg)
}

// Stats summarizes a completed (or in-progress) simulation run.
type Stats struct {
	TasksIssued   uint32
	TasksDone     uint32
	TasksRejected uint32
	EnergyKWh     float64
}

// Stats reports the simulator's current run counters, usable once Run
// returns or at any intermediate point for diagnostics.
func (s *Simulator) Stats() Stats {
	return Stats{
		TasksIssued:   s.tasksIssued,
		TasksDone:     s.tasksDone,
		TasksRejected: s.tasksRejected,
		EnergyKWh:     s.energyKWh,
	}
}

func (s *Simulator) SLAReport(class schedtypes.SlaClass) float64 {
	total := s.slaTotal[class]
	if total == 0 {
		return 0
	}
	return 100 * float64(s.slaViolated[class]) / float64(total)
}

func (s *Simulator) SimOutput(msg string, verbosity int) {
	logging.Log(s.log, msg, verbosity)
}

var _ schedtypes.Host = (*Simulator)(nil)

// ---- event loop ----

func (s *Simulator) pushEvent(at int64, kind eventKind, t schedtypes.TaskHandle, vm schedtypes.VMHandle) {
	heap.Push(&s.events, event{atUsec: at, sequenceNumber: s.nextSeq, kind: kind, task: t, vm: vm})
	s.nextSeq++
}

func (s *Simulator) scheduleArrivals() {
	at := int64(0)
	for i := uint32(0); i < s.workload.TaskCount; i++ {
		s.pushEvent(at, eventArrival, 0, 0)
		at += s.nextInterarrivalUsec()
	}
}

func (s *Simulator) nextInterarrivalUsec() int64 {
	mean := float64(s.workload.Arrival.MeanIntervalUsec)
	if s.workload.Arrival.Kind == ArrivalPoisson {
		return int64(s.rng.ExpFloat64() * mean)
	}
	return int64(mean)
}

func (s *Simulator) drawTemplate() TaskTemplate {
	var totalWeight float64
	for _, tpl := range s.workload.Templates {
		totalWeight += tpl.Weight
	}
	r := s.rng.Float64() * totalWeight
	for _, tpl := range s.workload.Templates {
		if r < tpl.Weight {
			return tpl
		}
		r -= tpl.Weight
	}
	return s.workload.Templates[len(s.workload.Templates)-1]
}

// Run drives scheduler through the full simulated lifecycle: init, the
// synthetic arrival stream, periodic scheduler_check ticks, task
// completions, and a final simulation_complete once every generated task
// has either been dispatched-and-completed or rejected.
func (s *Simulator) Run(scheduler SchedulerCallbacks) error {
	if err := scheduler.Init(s); err != nil {
		return err
	}

	s.scheduleArrivals()
	s.pushEvent(schedulerCheckIntervalUsec, eventSchedulerCheck, 0, 0)

	for s.events.Len() > 0 {
		e := heap.Pop(&s.events).(event)
		s.clock = e.atUsec

		switch e.kind {
		case eventArrival:
			t := s.nextTask
			s.nextTask++
			tpl := s.drawTemplate()
			ts := &taskState{
				req: schedtypes.TaskRequirements{
					GuestOS:           tpl.GuestOS,
					CPUArch:           tpl.CPUArch,
					GPURequired:       tpl.GPURequired,
					RequiredMemoryMB:  tpl.RequiredMemoryMB,
					TotalInstructions: tpl.TotalInstructions,
					SLA:               tpl.SLA,
				},
				arrival: s.clock,
			}
			s.tasks[t] = ts
			if ts.req.SLA != schedtypes.SLA3 {
				s.slaTotal[ts.req.SLA]++
			}
			s.tasksIssued++
			if err := scheduler.HandleNewTask(s, s.clock, t); err != nil {
				s.log.WithError(err).WithField("task", t).Debug("simhost: task rejected by scheduler")
			}
			if ts.rejected {
				s.tasksDone++
			}

		case eventCompletion:
			ts := s.tasks[e.task]
			ts.completed = true
			s.tasksDone++
			if ts.req.SLA != schedtypes.SLA3 && s.clock > ts.deadline {
				s.slaViolated[ts.req.SLA]++
			}
			s.machines[ts.machine].activeTasks--
			delete(s.vmRunning, e.vm)
			if err := scheduler.HandleTaskCompletion(s, s.clock, e.task); err != nil {
				return err
			}
			if next, ok := popQueue(s.vmQueue, e.vm); ok {
				s.startTask(e.vm, next)
			}
			s.checkOvercommit(scheduler)

		case eventSLAWarning:
			scheduler.SLAWarning(s, s.clock, e.task)

		case eventSchedulerCheck:
			scheduler.SchedulerCheck(s, s.clock)
			if s.tasksDone < s.tasksIssued || s.tasksIssued < s.workload.TaskCount {
				s.pushEvent(s.clock+schedulerCheckIntervalUsec, eventSchedulerCheck, 0, 0)
			}

		case eventSimulationComplete:
			return scheduler.SimulationComplete(s, s.clock)
		}

		if s.tasksIssued >= s.workload.TaskCount && s.tasksDone >= s.tasksIssued && !s.hasPendingCompletions() {
			s.pushEvent(s.clock, eventSimulationComplete, 0, 0)
		}
	}
	return nil
}

func (s *Simulator) hasPendingCompletions() bool {
	return len(s.vmRunning) > 0
}

func popQueue(q map[schedtypes.VMHandle][]schedtypes.TaskHandle, vm schedtypes.VMHandle) (schedtypes.TaskHandle, bool) {
	pending := q[vm]
	if len(pending) == 0 {
		return 0, false
	}
	q[vm] = pending[1:]
	return pending[0], true
}

// checkOvercommit fires MemoryWarning for any machine whose currently
// running tasks (queued tasks are not counted) together require more than
// its nominal memory capacity, a coarse stand-in
// for the real simulator's overcommit detection.
func (s *Simulator) checkOvercommit(scheduler SchedulerCallbacks) {
	for i := range s.machines {
		m := &s.machines[i]
		if m.activeTasks == 0 {
			continue
		}
		var required uint64
		for vm, machine := range s.vmMachine {
			if machine != schedtypes.MachineHandle(i) {
				continue
			}
			if t, ok := s.vmRunning[vm]; ok {
				required += s.tasks[t].req.RequiredMemoryMB
			}
		}
		if required > m.memoryMB {
			scheduler.MemoryWarning(s, s.clock, schedtypes.MachineHandle(i))
		}
	}
}
