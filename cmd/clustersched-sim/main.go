package main

import (
	"os"

	"github.com/armadaproject/clustersched/cmd/clustersched-sim/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
