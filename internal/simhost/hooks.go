package simhost

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

// decodeHooks lets cluster/workload spec files name enums by their
// lowercase string form ("x86", "linux", "SLA0") instead of their
// underlying int, the same viper.DecodeHook(mapstructure.DecodeHookFuncType)
// shape the teacher uses for its own config value types in
// internal/common/config/hooks.go. The three hooks are composed into a
// single option because each viper.DecodeHook call replaces the previous one.
var decodeHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		cpuArchHookFunc(),
		guestOsHookFunc(),
		slaClassHookFunc(),
	)),
}

func cpuArchHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(schedtypes.X86) {
			return data, nil
		}
		switch data.(string) {
		case "x86":
			return schedtypes.X86, nil
		case "arm":
			return schedtypes.ARM, nil
		case "power":
			return schedtypes.POWER, nil
		case "riscv":
			return schedtypes.RISCV, nil
		default:
			return nil, errUnknownEnum("cpu arch", data.(string))
		}
	}
}

func guestOsHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(schedtypes.LINUX) {
			return data, nil
		}
		switch data.(string) {
		case "linux":
			return schedtypes.LINUX, nil
		case "linux_rt":
			return schedtypes.LINUX_RT, nil
		case "win":
			return schedtypes.WIN, nil
		case "aix":
			return schedtypes.AIX, nil
		default:
			return nil, errUnknownEnum("guest os", data.(string))
		}
	}
}

func slaClassHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(schedtypes.SLA0) {
			return data, nil
		}
		switch data.(string) {
		case "SLA0":
			return schedtypes.SLA0, nil
		case "SLA1":
			return schedtypes.SLA1, nil
		case "SLA2":
			return schedtypes.SLA2, nil
		case "SLA3":
			return schedtypes.SLA3, nil
		default:
			return nil, errUnknownEnum("sla class", data.(string))
		}
	}
}

func errUnknownEnum(kind, value string) error {
	return &unknownEnumError{kind: kind, value: value}
}

type unknownEnumError struct {
	kind, value string
}

func (e *unknownEnumError) Error() string {
	return "simhost: unknown " + e.kind + " " + "\"" + e.value + "\""
}
