// Package policy implements the pluggable placement-policy family: a
// common two-pass capacity-relaxation skeleton (skeleton.go) with four
// distinct scoring rules substituted in (greedy.go, loadbalance.go,
// minmin.go, roundrobin.go).
package policy

import (
	"github.com/pkg/errors"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

// Bookkeeping is the read-only view of placement bookkeeping a policy may
// consult when scoring candidates. Implemented by clustersched.Bookkeeping.
type Bookkeeping interface {
	// QueueCount returns the number of tasks dispatched to m and not yet
	// observed complete.
	QueueCount(m schedtypes.MachineHandle) uint32
}

// Policy selects one machine from a same-architecture pool for an arriving
// task, or reports that no candidate exists.
type Policy interface {
	// Name identifies the policy in logs, metrics and exception messages.
	Name() string
	// Select returns a machine from pool satisfying req's hard constraints,
	// or ok=false if none does.
	Select(
		host schedtypes.Host,
		pool []schedtypes.MachineHandle,
		req schedtypes.TaskRequirements,
		bk Bookkeeping,
	) (m schedtypes.MachineHandle, ok bool)
}

// Names of the policy catalogue, as accepted by New and by configuration.
const (
	NameGreedy      = "greedy"
	NameLoadBalance = "loadbalance"
	NameMinMin      = "minmin"
	NameRoundRobin  = "roundrobin"
)

// New constructs a fresh Policy instance by name. Round-robin's cursor
// state is owned by the returned instance alone, per the design notes, so
// callers must not share a single instance across unrelated schedulers
// unless they intend to share its traversal cursor too.
func New(name string) (Policy, error) {
	switch name {
	case NameGreedy:
		return &Greedy{}, nil
	case NameLoadBalance:
		return &LoadBalance{}, nil
	case NameMinMin:
		return &MinMin{}, nil
	case NameRoundRobin:
		return NewRoundRobin(), nil
	default:
		return nil, errors.Errorf("clustersched: unknown placement policy %q", name)
	}
}
