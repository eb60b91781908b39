// Package metrics defines the Prometheus counters and gauges the placement
// engine reports through, grounded on the teacher's
// internal/scheduler/metrics/definitions.go prefix+label convention. They
// are package-level promauto registrations, the same as the teacher: the
// engine never needs to construct or own a registry, it just calls the
// Record* helpers below.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsPrefix = "clustersched_"

	PolicyLabel  = "policy"
	ArchLabel    = "arch"
	SlaLabel     = "sla"
	OsLabel      = "os"
	MachineLabel = "machine"
	ClassLabel   = "class"
)

var (
	dispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricsPrefix + "dispatched_total",
			Help: "Number of tasks successfully dispatched to a VM.",
		},
		[]string{PolicyLabel, ArchLabel, SlaLabel},
	)

	rejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricsPrefix + "rejected_total",
			Help: "Number of tasks rejected as incompatible with every machine in their pool.",
		},
		[]string{PolicyLabel, ArchLabel},
	)

	vmsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricsPrefix + "vms_created_total",
			Help: "Number of VMs created (one per distinct (machine, guest OS) pair).",
		},
		[]string{ArchLabel, OsLabel},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: metricsPrefix + "queue_depth",
			Help: "Current per-machine dispatched-but-not-complete task count.",
		},
		[]string{MachineLabel},
	)

	overcommitWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricsPrefix + "overcommit_warnings_total",
			Help: "Number of memory_warning callbacks observed per machine.",
		},
		[]string{MachineLabel},
	)

	slaViolationPct = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: metricsPrefix + "sla_violation_pct",
			Help: "SLA violation percentage sampled at simulation_complete.",
		},
		[]string{ClassLabel},
	)
)

func RecordDispatch(policy, arch, sla string) {
	dispatchedTotal.WithLabelValues(policy, arch, sla).Inc()
}

func RecordRejection(policy, arch string) {
	rejectedTotal.WithLabelValues(policy, arch).Inc()
}

func RecordVMCreated(arch, os string) {
	vmsCreatedTotal.WithLabelValues(arch, os).Inc()
}

func SetQueueDepth(machine string, depth float64) {
	queueDepth.WithLabelValues(machine).Set(depth)
}

func RecordOvercommitWarning(machine string) {
	overcommitWarningsTotal.WithLabelValues(machine).Inc()
}

func SetSLAViolationPct(class string, pct float64) {
	slaViolationPct.WithLabelValues(class).Set(pct)
}
