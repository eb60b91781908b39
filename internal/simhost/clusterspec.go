// Package simhost implements internal/clustersched/schedtypes.Host: a
// self-contained discrete-event simulator that stands in for the external
// simulator the core is written against. It owns a synthetic cluster, a
// synthetic workload, a logical clock, and a minimal VM/task execution
// model, and drives a SchedulerCallbacks implementation through the same
// entry points the real simulator would.
package simhost

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

// MachinePoolSpec describes one homogeneous slice of the cluster: Count
// machines of Arch, each with the same memory/GPU/performance profile.
type MachinePoolSpec struct {
	Arch        schedtypes.CpuArch `mapstructure:"arch"`
	Count       uint32             `mapstructure:"count"`
	MemoryMB    uint64             `mapstructure:"memoryMB"`
	GPUs        uint32             `mapstructure:"gpus"`
	Performance []float64          `mapstructure:"performance"`
}

// ClusterSpec is the declarative description of a synthetic cluster,
// structurally modeled on the teacher's simulator.ClusterSpec
// (internal/scheduler/simulator/runner.go's ClusterSpecFromFilePath), but
// re-specified for machine pools instead of Kubernetes executor groups.
type ClusterSpec struct {
	Name  string            `mapstructure:"name"`
	Pools []MachinePoolSpec `mapstructure:"pools"`
}

// ClusterSpecFromFilePath loads and validates a ClusterSpec from a YAML
// file, the same viper-based load/unmarshal shape the teacher uses for its
// own spec files.
func ClusterSpecFromFilePath(path string) (*ClusterSpec, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "simhost: read cluster spec %s", path)
	}
	spec := &ClusterSpec{}
	if err := v.Unmarshal(spec, decodeHooks...); err != nil {
		return nil, errors.Wrapf(err, "simhost: unmarshal cluster spec %s", path)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate reports whether the spec describes a usable cluster: at least
// one pool, every pool has a positive machine count and performance curve.
func (c *ClusterSpec) Validate() error {
	if len(c.Pools) == 0 {
		return errors.New("simhost: cluster spec has no machine pools")
	}
	for i, p := range c.Pools {
		if p.Count == 0 {
			return errors.Errorf("simhost: pool %d (%s) has zero machines", i, p.Arch)
		}
		if len(p.Performance) == 0 || p.Performance[0] <= 0 {
			return errors.Errorf("simhost: pool %d (%s) has no positive peak performance", i, p.Arch)
		}
	}
	return nil
}

// TotalMachines sums the machine count across every pool.
func (c *ClusterSpec) TotalMachines() uint32 {
	var total uint32
	for _, p := range c.Pools {
		total += p.Count
	}
	return total
}

// MachinesByArch sums the machine count per architecture across pools; a
// spec may list several pools for the same arch.
func (c *ClusterSpec) MachinesByArch() map[schedtypes.CpuArch]uint32 {
	byArch := make(map[schedtypes.CpuArch]uint32, len(c.Pools))
	for _, p := range c.Pools {
		byArch[p.Arch] += p.Count
	}
	return byArch
}

// ArchSummary renders MachinesByArch in a stable, sorted-by-arch order, the
// same map.Keys+slices.Sort idiom nodedb.go uses for deterministic log
// output over a map keyed by an enum.
func (c *ClusterSpec) ArchSummary() string {
	byArch := c.MachinesByArch()
	arches := maps.Keys(byArch)
	slices.Sort(arches)

	parts := make([]string, len(arches))
	for i, arch := range arches {
		parts[i] = fmt.Sprintf("%s=%d", arch, byArch[arch])
	}
	return strings.Join(parts, " ")
}
