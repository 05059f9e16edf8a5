package cmd

import (
	"github.com/spf13/cobra"

	"github.com/qcline-sim/qcline-sim/sim"
)

// configFlags are the run-configuration flags shared by `run` and `config`.
// A flag overrides the config file only when set on the command line.
type configFlags struct {
	path         string
	seed         int64
	horizon      float64
	warmup       float64
	interArrival float64
	reworkLimit  int
	pollInterval float64
}

func (f *configFlags) register(cmd *cobra.Command) {
	d := sim.DefaultConfig()
	cmd.Flags().StringVar(&f.path, "config", "", "YAML run configuration (default: built-in reference line)")
	cmd.Flags().Int64Var(&f.seed, "seed", d.Seed, "Seed for all random streams")
	cmd.Flags().Float64Var(&f.horizon, "horizon", d.HorizonMin, "Simulation horizon (minutes)")
	cmd.Flags().Float64Var(&f.warmup, "warmup", d.WarmupMin, "Warm-up excluded from throughput and utilization (minutes)")
	cmd.Flags().Float64Var(&f.interArrival, "inter-arrival", d.InterArrivalMean, "Mean part inter-arrival time (minutes)")
	cmd.Flags().IntVar(&f.reworkLimit, "rework-limit", d.ReworkLimit, "Rework attempts allowed before a part is scrapped")
	cmd.Flags().Float64Var(&f.pollInterval, "poll-interval", d.PollInterval, "Downtime polling and processing increment (minutes)")
}

// load builds the effective configuration: defaults, then the config file,
// then any flags set explicitly. The result is validated.
func (f *configFlags) load(cmd *cobra.Command) (*sim.Config, error) {
	cfg := sim.DefaultConfig()
	if f.path != "" {
		loaded, err := sim.LoadConfig(f.path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	f.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *configFlags) apply(cmd *cobra.Command, cfg *sim.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("horizon") {
		cfg.HorizonMin = f.horizon
	}
	if flags.Changed("warmup") {
		cfg.WarmupMin = f.warmup
	}
	if flags.Changed("inter-arrival") {
		cfg.InterArrivalMean = f.interArrival
	}
	if flags.Changed("rework-limit") {
		cfg.ReworkLimit = f.reworkLimit
	}
	if flags.Changed("poll-interval") {
		cfg.PollInterval = f.pollInterval
	}
}
