// Package clustersched implements the placement-engine core described in
// SPEC_FULL.md §1-§9: a scheduler callback surface driven by an external
// discrete-event simulator (schedtypes.Host), responsible for selecting a
// compatible machine for each arriving task, lazily materializing guest
// VMs, and bookkeeping dispatch/completion for O(1) accounting.
package clustersched

import (
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/clustersched/internal/clustersched/policy"
	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
	"github.com/armadaproject/clustersched/pkg/metrics"
)

// Scheduler is the core placement engine (C1-C7 bundled into one value, per
// the design notes: "process-wide mutable state... maps to a single
// Scheduler value"). Callers instantiate one Scheduler per simulation run.
type Scheduler struct {
	log    *log.Entry
	cfg    Config
	policy policy.Policy

	initialized bool
	pools       *Pools
	vmCache     *VMCache
	book        *Bookkeeping
}

// New constructs a Scheduler for the given configuration. The active
// placement policy is resolved from cfg.Policy immediately so that an
// unknown policy name fails fast, before the simulation starts, rather
// than on the first task arrival.
func New(entry *log.Entry, cfg Config) (*Scheduler, error) {
	if cfg.MachineCeiling == 0 {
		cfg.MachineCeiling = DefaultMachineCeiling
	}
	p, err := policy.New(cfg.Policy)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry = log.NewEntry(log.StandardLogger())
	}
	return &Scheduler{
		log:    entry,
		cfg:    cfg,
		policy: p,
	}, nil
}

// Init runs the one-shot initialization: builds the CPU-architecture
// pools, and resets the VM cache and bookkeeping. Idempotent — only the
// first call has any effect (C7).
func (s *Scheduler) Init(host schedtypes.Host) error {
	if s.initialized {
		return nil
	}

	book, err := NewBookkeeping()
	if err != nil {
		return err
	}
	vmCache, err := NewVMCache()
	if err != nil {
		return err
	}

	s.pools = BuildPools(host, s.cfg.MachineCeiling, s.log)
	s.vmCache = vmCache
	s.book = book
	s.initialized = true

	host.SimOutput("InitScheduler(): "+s.policy.Name()+" ready", 3)
	s.log.WithField("policy", s.policy.Name()).Info("clustersched: initialized")
	return nil
}

func (s *Scheduler) ensureInitialized(host schedtypes.Host) error {
	if s.initialized {
		return nil
	}
	return s.Init(host)
}

// HandleNewTask runs the dispatch pipeline for an arriving task (C6).
func (s *Scheduler) HandleNewTask(host schedtypes.Host, now int64, t schedtypes.TaskHandle) error {
	if err := s.ensureInitialized(host); err != nil {
		return err
	}
	host.SimOutput("HandleNewTask(): received new task", 4)
	return s.dispatch(host, t)
}

// HandleTaskCompletion updates bookkeeping for a completed task (C5).
// Idempotent: a duplicate completion callback for the same task is a
// no-op (P8).
func (s *Scheduler) HandleTaskCompletion(host schedtypes.Host, now int64, t schedtypes.TaskHandle) error {
	host.SimOutput("HandleTaskCompletion(): task completed", 4)
	m, placed, err := s.book.machineOf(t)
	if err != nil {
		return err
	}
	if err := s.book.OnComplete(t); err != nil {
		return err
	}
	if placed {
		metrics.SetQueueDepth(machineLabel(m), float64(s.book.QueueCount(m)))
	}
	return nil
}

// MemoryWarning absorbs an overcommit notice. Non-fatal; logged at high
// verbosity, no state change (§7).
func (s *Scheduler) MemoryWarning(host schedtypes.Host, now int64, m schedtypes.MachineHandle) {
	host.SimOutput("MemoryWarning(): overcommit detected", 0)
	metrics.RecordOvercommitWarning(machineLabel(m))
	s.log.WithField("machine", m).Warn("clustersched: machine overcommitted")
}

// MigrationDone is a reserved no-op hook (C7).
func (s *Scheduler) MigrationDone(host schedtypes.Host, now int64, vm schedtypes.VMHandle) {
	host.SimOutput("MigrationDone(): migration complete", 4)
}

// SchedulerCheck observes cluster energy on the periodic tick; base
// policies make no decision here (C7).
func (s *Scheduler) SchedulerCheck(host schedtypes.Host, now int64) {
	host.SimOutput("SchedulerCheck(): periodic tick", 4)
	_ = host.MachineClusterEnergy()
}

// SLAWarning optionally raises an incomplete task's priority to HIGH. A
// no-op if the task is already complete or already HIGH (§4.7, scenario 6).
func (s *Scheduler) SLAWarning(host schedtypes.Host, now int64, t schedtypes.TaskHandle) {
	if host.TaskIsCompleted(t) {
		return
	}
	host.SetTaskPriority(t, schedtypes.HIGH)
}

// StateChangeComplete is a reserved no-op hook (C7).
func (s *Scheduler) StateChangeComplete(host schedtypes.Host, now int64, m schedtypes.MachineHandle) {
	host.SimOutput("StateChangeComplete(): state change acknowledged", 4)
}

// SimulationComplete prints the stable SLA-violation report, samples SLA
// metrics, and runs the shutdown sweep over every materialized VM (C7).
func (s *Scheduler) SimulationComplete(host schedtypes.Host, now int64) error {
	printSLAReport(host, now)
	sampleSLAMetrics(host)
	host.SimOutput("SimulationComplete(): simulation finished", 4)
	return s.shutdown(host)
}

func (s *Scheduler) shutdown(host schedtypes.Host) error {
	vms, err := s.vmCache.All()
	if err != nil {
		return err
	}
	for _, vm := range vms {
		host.VMShutdown(vm)
	}
	host.SimOutput("SimulationComplete(): "+s.policy.Name()+" shutdown", 3)
	s.log.WithField("vms", len(vms)).Info("clustersched: shutdown sweep complete")
	return nil
}
