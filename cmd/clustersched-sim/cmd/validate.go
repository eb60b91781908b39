package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armadaproject/clustersched/internal/simhost"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validates configuration and spec files without running a simulation",
		RunE:  validateConfig,
	}
}

func validateConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cluster, err := simhost.ClusterSpecFromFilePath(cfg.Sim.ClusterSpecPath)
	if err != nil {
		return err
	}
	workload, err := simhost.WorkloadSpecFromFilePath(cfg.Sim.WorkloadSpecPath)
	if err != nil {
		return err
	}

	fmt.Printf(
		"configuration valid: policy=%s machines=%d (%s) tasks=%d\n",
		cfg.Scheduler.Policy, cluster.TotalMachines(), cluster.ArchSummary(), workload.TaskCount,
	)
	return nil
}
