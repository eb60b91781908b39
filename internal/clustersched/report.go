package clustersched

import (
	"fmt"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
	"github.com/armadaproject/clustersched/pkg/metrics"
)

// printSLAReport writes the stable simulation-complete report to stdout,
// in the exact format SPEC_FULL.md §6 specifies.
func printSLAReport(host schedtypes.Host, nowMicros int64) {
	fmt.Println("SLA violation report")
	fmt.Printf("SLA0: %v%%\n", host.SLAReport(schedtypes.SLA0))
	fmt.Printf("SLA1: %v%%\n", host.SLAReport(schedtypes.SLA1))
	fmt.Printf("SLA2: %v%%\n", host.SLAReport(schedtypes.SLA2))
	fmt.Printf("Total Energy %vKW-Hour\n", host.MachineClusterEnergy())
	fmt.Printf("Simulation run finished in %v seconds\n", float64(nowMicros)/1_000_000)
}

func sampleSLAMetrics(host schedtypes.Host) {
	metrics.SetSLAViolationPct(schedtypes.SLA0.String(), host.SLAReport(schedtypes.SLA0))
	metrics.SetSLAViolationPct(schedtypes.SLA1.String(), host.SLAReport(schedtypes.SLA1))
	metrics.SetSLAViolationPct(schedtypes.SLA2.String(), host.SLAReport(schedtypes.SLA2))
}
