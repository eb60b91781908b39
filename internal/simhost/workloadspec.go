package simhost

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

// ArrivalKind selects the inter-arrival distribution for synthetic task
// generation.
type ArrivalKind string

const (
	ArrivalFixed   ArrivalKind = "fixed"
	ArrivalPoisson ArrivalKind = "poisson"
)

// ArrivalProcess describes how simulated task arrivals are spaced in time.
type ArrivalProcess struct {
	Kind             ArrivalKind `mapstructure:"kind"`
	MeanIntervalUsec int64       `mapstructure:"meanIntervalUsec"`
}

// TaskTemplate is one shape of task the workload generator can draw. Weight
// is the relative likelihood of drawing this template among all templates
// in the spec; templates are otherwise independent of one another.
type TaskTemplate struct {
	Name              string             `mapstructure:"name"`
	Weight            float64            `mapstructure:"weight"`
	CPUArch           schedtypes.CpuArch `mapstructure:"cpuArch"`
	GuestOS           schedtypes.GuestOs `mapstructure:"guestOS"`
	GPURequired       bool               `mapstructure:"gpuRequired"`
	RequiredMemoryMB  uint64             `mapstructure:"requiredMemoryMB"`
	TotalInstructions uint64             `mapstructure:"totalInstructions"`
	SLA               schedtypes.SlaClass `mapstructure:"sla"`
}

// WorkloadSpec is the declarative description of a synthetic task arrival
// workload, structurally modeled on the teacher's simulator.WorkloadSpec
// (queues of job templates), collapsed here to a single flat template pool
// since this domain has no queue/priority-class hierarchy of its own.
type WorkloadSpec struct {
	Name      string         `mapstructure:"name"`
	Seed      int64          `mapstructure:"seed"`
	TaskCount uint32         `mapstructure:"taskCount"`
	Arrival   ArrivalProcess `mapstructure:"arrival"`
	Templates []TaskTemplate `mapstructure:"templates"`
}

// WorkloadSpecFromFilePath loads and validates a WorkloadSpec from a YAML
// file.
func WorkloadSpecFromFilePath(path string) (*WorkloadSpec, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "simhost: read workload spec %s", path)
	}
	spec := &WorkloadSpec{}
	if err := v.Unmarshal(spec, decodeHooks...); err != nil {
		return nil, errors.Wrapf(err, "simhost: unmarshal workload spec %s", path)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate reports whether the spec describes a runnable workload.
func (w *WorkloadSpec) Validate() error {
	if w.TaskCount == 0 {
		return errors.New("simhost: workload spec has zero tasks")
	}
	if len(w.Templates) == 0 {
		return errors.New("simhost: workload spec has no task templates")
	}
	if w.Arrival.MeanIntervalUsec <= 0 {
		return errors.New("simhost: workload spec arrival interval must be positive")
	}
	var totalWeight float64
	for _, tpl := range w.Templates {
		totalWeight += tpl.Weight
	}
	if totalWeight <= 0 {
		return errors.New("simhost: workload spec templates have non-positive total weight")
	}
	return nil
}
