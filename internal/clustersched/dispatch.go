package clustersched

import (
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
	"github.com/armadaproject/clustersched/pkg/metrics"
)

// dispatch implements the seven-step on_new_task pipeline (C6). Init has
// already run by the time this is called (HandleNewTask guards that).
func (s *Scheduler) dispatch(host schedtypes.Host, t schedtypes.TaskHandle) error {
	req := host.TaskRequirements(t)
	priority := schedtypes.PriorityForSLA(req.SLA)

	pool := s.pools.Pool(req.CPUArch)
	m, ok := s.policy.Select(host, pool, req, s.book)
	if !ok {
		host.ThrowException(s.policy.Name()+": no compatible machine for task", t)
		metrics.RecordRejection(s.policy.Name(), req.CPUArch.String())
		s.log.WithFields(log.Fields{"task": t, "arch": req.CPUArch, "policy": s.policy.Name()}).
			Warn("clustersched: rejecting task, no compatible machine")
		return &IncompatibilityError{Task: t, Policy: s.policy.Name(), Arch: req.CPUArch}
	}

	vm, created, err := s.vmCache.Ensure(host, m, req.GuestOS)
	if err != nil {
		return errors.Wrapf(err, "clustersched: ensure vm for machine %d", m)
	}
	if created {
		metrics.RecordVMCreated(req.CPUArch.String(), req.GuestOS.String())
	}

	host.VMAddTask(vm, t, priority)

	if err := s.book.OnDispatch(t, m); err != nil {
		return errors.Wrapf(err, "clustersched: record dispatch of task %d to machine %d", t, m)
	}

	metrics.RecordDispatch(s.policy.Name(), req.CPUArch.String(), req.SLA.String())
	metrics.SetQueueDepth(machineLabel(m), float64(s.book.QueueCount(m)))

	s.log.WithFields(log.Fields{
		"task": t, "machine": m, "vm": vm, "priority": priority, "policy": s.policy.Name(),
	}).Debug("clustersched: dispatched task")
	return nil
}

func machineLabel(m schedtypes.MachineHandle) string {
	return strconv.FormatUint(uint64(m), 10)
}
