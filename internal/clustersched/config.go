package clustersched

// Config is the engine-level configuration (C7/C1). The outer
// internal/config.Configuration (C8) holds this in its Scheduler field and adds the ambient
// concerns (logging, metrics, sim host) on top.
type Config struct {
	// Policy selects the active placement policy: one of greedy,
	// loadbalance, minmin, roundrobin.
	Policy string `mapstructure:"policy"`
	// MachineCeiling is the soft guard on pool size (design ceiling 512).
	MachineCeiling uint32 `mapstructure:"machineCeiling"`
}

// DefaultConfig returns the Config the engine uses if none is supplied.
func DefaultConfig() Config {
	return Config{
		Policy:         "greedy",
		MachineCeiling: DefaultMachineCeiling,
	}
}
