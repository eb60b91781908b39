package simhost

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

func oneMachineCluster() *ClusterSpec {
	return &ClusterSpec{Pools: []MachinePoolSpec{
		{Arch: schedtypes.X86, Count: 1, MemoryMB: 8192, Performance: []float64{1.0}},
	}}
}

func fixedWorkload(taskCount uint32, intervalUsec int64, tpl TaskTemplate) *WorkloadSpec {
	return &WorkloadSpec{
		TaskCount: taskCount,
		Arrival:   ArrivalProcess{Kind: ArrivalFixed, MeanIntervalUsec: intervalUsec},
		Templates: []TaskTemplate{tpl},
		Seed:      1,
	}
}

func TestNewSimulator_RejectsInvalidSpecs(t *testing.T) {
	_, err := NewSimulator(&ClusterSpec{}, fixedWorkload(1, 10, validTemplate()), nil)
	assert.Error(t, err)

	_, err = NewSimulator(oneMachineCluster(), &WorkloadSpec{}, nil)
	assert.Error(t, err)
}

func TestSimulator_VMAddTask_QueuesByPriorityHighFirst(t *testing.T) {
	sim, err := NewSimulator(oneMachineCluster(), fixedWorkload(1, 1000, validTemplate()), nil)
	require.NoError(t, err)

	vm := sim.VMCreate(schedtypes.LINUX, schedtypes.X86)
	sim.VMAttach(vm, 0)

	t1, t2, t3 := schedtypes.TaskHandle(1), schedtypes.TaskHandle(2), schedtypes.TaskHandle(3)
	for _, h := range []schedtypes.TaskHandle{t1, t2, t3} {
		sim.tasks[h] = &taskState{req: schedtypes.TaskRequirements{TotalInstructions: 1000}}
	}

	sim.VMAddTask(vm, t1, schedtypes.LOW) // starts immediately, not queued
	sim.VMAddTask(vm, t2, schedtypes.LOW)
	sim.VMAddTask(vm, t3, schedtypes.HIGH)

	assert.Equal(t, []schedtypes.TaskHandle{t3, t2}, sim.vmQueue[vm])
}

func TestSimulator_SetTaskPriority_ResortsPendingQueue(t *testing.T) {
	sim, err := NewSimulator(oneMachineCluster(), fixedWorkload(1, 1000, validTemplate()), nil)
	require.NoError(t, err)

	vm := sim.VMCreate(schedtypes.LINUX, schedtypes.X86)
	sim.VMAttach(vm, 0)

	running, low, mid := schedtypes.TaskHandle(1), schedtypes.TaskHandle(2), schedtypes.TaskHandle(3)
	for _, h := range []schedtypes.TaskHandle{running, low, mid} {
		sim.tasks[h] = &taskState{req: schedtypes.TaskRequirements{TotalInstructions: 1000}}
	}
	sim.VMAddTask(vm, running, schedtypes.MID)
	sim.VMAddTask(vm, low, schedtypes.LOW)
	sim.VMAddTask(vm, mid, schedtypes.MID)
	require.Equal(t, []schedtypes.TaskHandle{mid, low}, sim.vmQueue[vm])

	sim.SetTaskPriority(low, schedtypes.HIGH)
	assert.Equal(t, []schedtypes.TaskHandle{low, mid}, sim.vmQueue[vm])

	// Raising the priority of the already-running task must not touch the queue.
	sim.SetTaskPriority(running, schedtypes.HIGH)
	assert.Equal(t, []schedtypes.TaskHandle{low, mid}, sim.vmQueue[vm])
}

func TestSimulator_StartTask_ClampsPastDeadlineWarningToNow(t *testing.T) {
	sim, err := NewSimulator(oneMachineCluster(), fixedWorkload(1, 1000, validTemplate()), nil)
	require.NoError(t, err)

	vm := sim.VMCreate(schedtypes.LINUX, schedtypes.X86)
	sim.VMAttach(vm, 0)

	task := schedtypes.TaskHandle(1)
	sim.tasks[task] = &taskState{
		req:     schedtypes.TaskRequirements{TotalInstructions: 1000, SLA: schedtypes.SLA0},
		arrival: 0,
	}
	// Simulated clock has moved far past what arrival-based deadline math
	// would compute, mimicking a long queueing delay.
	sim.clock = 1_000_000

	sim.startTask(vm, task)

	require.Equal(t, 2, sim.events.Len())
	var warning event
	for sim.events.Len() > 0 {
		e := heap.Pop(&sim.events).(event)
		if e.kind == eventSLAWarning {
			warning = e
		}
	}
	assert.Equal(t, sim.clock, warning.atUsec)
}

func TestRuntimeUsec(t *testing.T) {
	assert.Equal(t, int64(1000), runtimeUsec(1000, []float64{1.0}))
	assert.Equal(t, int64(500), runtimeUsec(1000, []float64{2.0}))
	assert.Equal(t, int64(1000), runtimeUsec(1000, nil)) // no performance curve, peak defaults to 1
}

func TestEnergyForRun_ScalesWithDuration(t *testing.T) {
	assert.InDelta(t, 0.3, energyForRun(3600*1_000_000), 1e-9)
	assert.InDelta(t, 0, energyForRun(0), 1e-9)
}

// recordingScheduler is a minimal SchedulerCallbacks that puts every
// arriving task on a single VM, so Run()'s full event lifecycle can be
// exercised without depending on internal/clustersched.
type recordingScheduler struct {
	vm               schedtypes.VMHandle
	priority         schedtypes.Priority
	completions      int
	schedulerChecks  int
	slaWarnings      int
	simulationDone   bool
	simulationDoneAt int64
}

func (r *recordingScheduler) Init(host schedtypes.Host) error {
	r.vm = host.VMCreate(schedtypes.LINUX, schedtypes.X86)
	host.VMAttach(r.vm, 0)
	if r.priority == 0 {
		r.priority = schedtypes.MID
	}
	return nil
}

func (r *recordingScheduler) HandleNewTask(host schedtypes.Host, now int64, t schedtypes.TaskHandle) error {
	host.VMAddTask(r.vm, t, r.priority)
	return nil
}

func (r *recordingScheduler) HandleTaskCompletion(host schedtypes.Host, now int64, t schedtypes.TaskHandle) error {
	r.completions++
	return nil
}

func (r *recordingScheduler) MemoryWarning(host schedtypes.Host, now int64, m schedtypes.MachineHandle) {}

func (r *recordingScheduler) SchedulerCheck(host schedtypes.Host, now int64) { r.schedulerChecks++ }

func (r *recordingScheduler) SLAWarning(host schedtypes.Host, now int64, t schedtypes.TaskHandle) {
	r.slaWarnings++
}

func (r *recordingScheduler) SimulationComplete(host schedtypes.Host, now int64) error {
	r.simulationDone = true
	r.simulationDoneAt = now
	return nil
}

var _ SchedulerCallbacks = (*recordingScheduler)(nil)

func TestSimulator_Run_CompletesAllTasksAndReportsDone(t *testing.T) {
	tpl := TaskTemplate{Weight: 1, CPUArch: schedtypes.X86, GuestOS: schedtypes.LINUX, RequiredMemoryMB: 100, TotalInstructions: 100, SLA: schedtypes.SLA1}
	sim, err := NewSimulator(oneMachineCluster(), fixedWorkload(3, 1000, tpl), nil)
	require.NoError(t, err)

	sched := &recordingScheduler{}
	require.NoError(t, sim.Run(sched))

	assert.True(t, sched.simulationDone)
	assert.Equal(t, 3, sched.completions)
	stats := sim.Stats()
	assert.EqualValues(t, 3, stats.TasksIssued)
	assert.EqualValues(t, 3, stats.TasksDone)
	assert.EqualValues(t, 0, stats.TasksRejected)
	assert.Greater(t, stats.EnergyKWh, 0.0)
}

func TestSimulator_Run_QueueingDelayCausesSLAViolation(t *testing.T) {
	tpl := TaskTemplate{Weight: 1, CPUArch: schedtypes.X86, GuestOS: schedtypes.LINUX, RequiredMemoryMB: 100, TotalInstructions: 100_000, SLA: schedtypes.SLA0}
	// Both tasks land on the single VM the stub scheduler creates; the
	// second queues behind the first for the full first runtime, blowing
	// its 1.2x-of-solo-runtime deadline.
	sim, err := NewSimulator(oneMachineCluster(), fixedWorkload(2, 10, tpl), nil)
	require.NoError(t, err)

	sched := &recordingScheduler{}
	require.NoError(t, sim.Run(sched))

	assert.Equal(t, 2, sched.completions)
	assert.Greater(t, sim.SLAReport(schedtypes.SLA0), 0.0)
}

func TestSimulator_ThrowException_MarksTaskRejectedOnce(t *testing.T) {
	sim, err := NewSimulator(oneMachineCluster(), fixedWorkload(1, 1000, validTemplate()), nil)
	require.NoError(t, err)

	task := schedtypes.TaskHandle(1)
	sim.tasks[task] = &taskState{}
	sim.ThrowException("no compatible machine", task)
	sim.ThrowException("no compatible machine", task)

	assert.EqualValues(t, 1, sim.Stats().TasksRejected)
}

func TestSimulator_SLAReport_ZeroTotalIsZeroNotNaN(t *testing.T) {
	sim, err := NewSimulator(oneMachineCluster(), fixedWorkload(1, 1000, validTemplate()), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim.SLAReport(schedtypes.SLA2))
}
