package simhost

import (
	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

// eventKind tags what an event's payload means; the run loop switches on it
// rather than carrying a closure, so the event log stays a plain value type.
type eventKind int

const (
	eventArrival eventKind = iota
	eventCompletion
	eventSchedulerCheck
	eventSLAWarning
	eventSimulationComplete
)

// event is one entry in the simulator's min-heap, ordered first by
// simulated time and second by sequence number, the same tie-break the
// teacher's events.go uses to keep same-tick events deterministic.
type event struct {
	atUsec         int64
	sequenceNumber int64
	kind           eventKind
	task           schedtypes.TaskHandle
	vm             schedtypes.VMHandle
	index          int
}

// eventLog implements container/heap.Interface.
type eventLog []event

func (el eventLog) Len() int { return len(el) }

func (el eventLog) Less(i, j int) bool {
	if el[i].atUsec == el[j].atUsec {
		return el[i].sequenceNumber < el[j].sequenceNumber
	}
	return el[i].atUsec < el[j].atUsec
}

func (el eventLog) Swap(i, j int) {
	el[i], el[j] = el[j], el[i]
	el[i].index = i
	el[j].index = j
}

func (el *eventLog) Push(x interface{}) {
	n := len(*el)
	e := x.(event)
	e.index = n
	*el = append(*el, e)
}

func (el *eventLog) Pop() interface{} {
	old := *el
	n := len(old)
	e := old[n-1]
	old[n-1] = event{}
	e.index = -1
	*el = old[:n-1]
	return e
}
