package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armadaproject/clustersched/internal/clustersched"
	"github.com/armadaproject/clustersched/internal/logging"
	"github.com/armadaproject/clustersched/internal/simhost"
	"github.com/armadaproject/clustersched/pkg/metrics"
)

// *clustersched.Scheduler structurally satisfies simhost.SchedulerCallbacks;
// this is the one place in the module that legitimately imports both
// packages, so the compile-time check tying them together lives here.
var _ simhost.SchedulerCallbacks = (*clustersched.Scheduler)(nil)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Runs a simulated scheduling session to completion",
		RunE:  runSimulation,
	}
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.Configure(cfg.Logging.Level)

	cluster, err := simhost.ClusterSpecFromFilePath(cfg.Sim.ClusterSpecPath)
	if err != nil {
		return err
	}
	workload, err := simhost.WorkloadSpecFromFilePath(cfg.Sim.WorkloadSpecPath)
	if err != nil {
		return err
	}

	sim, err := simhost.NewSimulator(cluster, workload, log)
	if err != nil {
		return err
	}

	sched, err := clustersched.New(log, cfg.Scheduler)
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		metrics.Serve(ctx, cfg.Metrics.Addr)
		log.WithField("addr", cfg.Metrics.Addr).Info("clustersched-sim: metrics endpoint listening")
	}

	if err := sim.Run(sched); err != nil {
		return err
	}

	stats := sim.Stats()
	log.WithFields(map[string]interface{}{
		"issued":   stats.TasksIssued,
		"done":     stats.TasksDone,
		"rejected": stats.TasksRejected,
		"energy":   stats.EnergyKWh,
	}).Info("clustersched-sim: simulation complete")
	fmt.Printf(
		"tasks issued=%d done=%d rejected=%d, cluster energy=%.4f kWh\n",
		stats.TasksIssued, stats.TasksDone, stats.TasksRejected, stats.EnergyKWh,
	)
	return nil
}
