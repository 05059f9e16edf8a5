package export

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qcline-sim/qcline-sim/sim"
)

// shortRun simulates one hour of the reference line.
func shortRun(t *testing.T) (*sim.Config, *sim.KPIs, []sim.InspectionRecord) {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.HorizonMin = 60
	cfg.WarmupMin = 10
	s, err := sim.NewSimulator(cfg)
	require.NoError(t, err)
	s.Run()
	return cfg, s.KPIs(), s.Ctx.Inspections
}

// fixedKPIs is a hand-built summary with known values.
func fixedKPIs() *sim.KPIs {
	return &sim.KPIs{
		HorizonMin: 480, WarmupMin: 30,
		Good: 90, Scrap: 10, Rework: 4, Total: 100, PartsCreated: 101, InFlight: 1, ForcedScrap: 2,
		Throughput: 12, FPY: 0.9, ScrapRate: 0.1,
		CycleTimeMean: 3.5, CycleTimeP50: 3.2, CycleTimeP95: 6.25,
		Stations: []sim.StationKPI{
			{Name: "Cutting", Utilization: 0.5, UtilizationAfterWarmup: 0.45, Availability: 200.0 / 205.0, Failures: 2},
			{Name: "Assembly", Utilization: 1.05, UtilizationAfterWarmup: 0.8, Availability: 150.0 / 158.0, Failures: 3},
		},
		Bottleneck: "Assembly",
	}
}
