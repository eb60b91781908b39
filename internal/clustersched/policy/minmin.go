package policy

import "github.com/armadaproject/clustersched/internal/clustersched/schedtypes"

// MinMin estimates each candidate's completion time assuming serial
// execution of its current queue plus the arriving task (solo_time times
// queue_count+1), and selects the minimum. Between two candidates with
// equal queue depth, the faster machine (larger peak performance) wins
// because it has the smaller estimated solo time.
type MinMin struct{}

func (*MinMin) Name() string { return NameMinMin }

func (mm *MinMin) Select(
	host schedtypes.Host,
	pool []schedtypes.MachineHandle,
	req schedtypes.TaskRequirements,
	bk Bookkeeping,
) (schedtypes.MachineHandle, bool) {
	return selectByScore(host, pool, req, bk, func(host schedtypes.Host, m schedtypes.MachineHandle, req schedtypes.TaskRequirements, bk Bookkeeping) float64 {
		info := host.MachineInfo(m)
		soloTime := float64(req.TotalInstructions) / info.PeakPerformance()
		return float64(bk.QueueCount(m)+1) * soloTime
	})
}
