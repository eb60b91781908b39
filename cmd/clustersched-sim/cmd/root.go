// Package cmd implements the clustersched-sim CLI, grounded on the
// teacher's cmd/scheduler/cmd (RootCmd + a loadConfig helper shared by
// every subcommand).
package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/armadaproject/clustersched/internal/config"
)

// ConfigFlag is the persistent flag name every subcommand reads its
// configuration file path from.
const ConfigFlag = "config"

// RootCmd builds the clustersched-sim command tree.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "clustersched-sim",
		SilenceUsage: true,
		Short:        "Runs the cluster task scheduler against a synthetic discrete-event simulator",
	}

	cmd.PersistentFlags().String(ConfigFlag, "", "path to a YAML configuration file")

	cmd.AddCommand(
		runCmd(),
		validateCmd(),
	)

	return cmd
}

func loadConfig(cmd *cobra.Command) (config.Configuration, error) {
	path, err := cmd.Flags().GetString(ConfigFlag)
	if err != nil {
		return config.Configuration{}, errors.WithStack(err)
	}
	if path == "" {
		return config.Configuration{}, errors.Errorf("cmd: --%s is required", ConfigFlag)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := config.Validate(cfg); err != nil {
		config.LogValidationErrors(err)
		return cfg, err
	}
	return cfg, nil
}
