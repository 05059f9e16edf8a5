// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/qcline-sim/qcline-sim/sim/trace"
)

// RunSummary holds the process-wide outcome counters of a run.
type RunSummary struct {
	Good   int // parts classified PASS
	Scrap  int // parts scrapped, including rework-limit scraps
	Rework int // REWORK classifications (attempts, not parts)

	PartsCreated int       // parts that arrived
	InFlight     int       // parts not yet PASS or SCRAP
	ForcedScrap  int       // subset of Scrap caused by the rework limit
	CycleTimes   []float64 // end − birth for PASS parts born at or after warm-up
}

// Finished returns the number of parts that reached PASS or SCRAP.
func (rs *RunSummary) Finished() int { return rs.Good + rs.Scrap }

// RunContext is the single owned bag of mutable run state passed to every
// process step. It replaces process-wide globals.
type RunContext struct {
	Config      *Config
	Stations    map[string]*Station
	Order       []string // station names in configuration order
	Summary     RunSummary
	Inspections []InspectionRecord
	Trace       *trace.SimulationTrace // nil when tracing is disabled

	// OnPartDone, when set, observes every part as it reaches PASS or SCRAP.
	// The part must not be retained past the call.
	OnPartDone func(p *Part, outcome Outcome)

	rng        *PartitionedRNG
	nextPartID int
}

// nextID returns the next part identity, starting at 1.
func (ctx *RunContext) nextID() int {
	ctx.nextPartID++
	return ctx.nextPartID
}

// source returns the RNG stream for a subsystem.
func (ctx *RunContext) source(subsystem string) RandomSource {
	return ctx.rng.ForSubsystem(subsystem)
}

// sampleDuration clamps a sampled interval to a strictly positive value.
func (ctx *RunContext) sampleDuration(raw float64, what string) float64 {
	d := ClampDuration(raw)
	if d != raw {
		logrus.Debugf("clamped %s duration %v to %v", what, raw, d)
	}
	return d
}

// newRunContext builds the runtime state for a validated config.
func newRunContext(cfg *Config) *RunContext {
	ctx := &RunContext{
		Config:      cfg,
		Stations:    make(map[string]*Station, len(cfg.Stations)),
		Order:       make([]string, 0, len(cfg.Stations)),
		Inspections: make([]InspectionRecord, 0),
		rng:         NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}
	ctx.Summary.CycleTimes = make([]float64, 0)
	for _, sc := range cfg.Stations {
		ctx.Stations[sc.Name] = NewStation(sc)
		ctx.Order = append(ctx.Order, sc.Name)
	}
	return ctx
}

// Option customizes a Simulator at construction.
type Option func(*Simulator)

// WithTrace enables event tracing at the given level.
func WithTrace(cfg trace.TraceConfig) Option {
	return func(s *Simulator) {
		if cfg.Enabled() {
			s.Ctx.Trace = trace.NewSimulationTrace(cfg)
		}
	}
}

// WithPartObserver installs a RunContext.OnPartDone hook.
func WithPartObserver(fn func(p *Part, outcome Outcome)) Option {
	return func(s *Simulator) {
		s.Ctx.OnPartDone = fn
	}
}

// Simulator wires the processes of one run to its scheduler.
type Simulator struct {
	Scheduler *Scheduler
	Ctx       *RunContext
	ran       bool
}

// NewSimulator validates cfg and spawns one BreakdownProcess per failing
// station (in configuration order) followed by the first PartFlow.
func NewSimulator(cfg *Config, opts ...Option) (*Simulator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx := newRunContext(cfg)
	s := &Simulator{Scheduler: NewScheduler(), Ctx: ctx}
	for _, opt := range opts {
		opt(s)
	}

	for _, name := range ctx.Order {
		st := ctx.Stations[name]
		if st.Config.NeverFails() {
			logrus.Debugf("station %s never fails; no breakdown process", name)
			continue
		}
		s.Scheduler.Spawn(newBreakdownProcess(ctx, st))
	}
	s.Scheduler.Spawn(newPartFlow(ctx))
	return s, nil
}

// Run advances virtual time to the configured horizon. A Simulator runs once.
func (s *Simulator) Run() {
	if s.ran {
		panic("Simulator.Run called twice")
	}
	s.ran = true
	cfg := s.Ctx.Config
	logrus.Infof("Starting simulation: horizon=%gmin warmup=%gmin inter-arrival=%g rework-limit=%d seed=%d",
		cfg.HorizonMin, cfg.WarmupMin, cfg.InterArrivalMean, cfg.ReworkLimit, cfg.Seed)

	s.Scheduler.RunUntil(cfg.HorizonMin)

	for _, name := range s.Ctx.Order {
		s.Ctx.Stations[name].CloseDowntime(cfg.HorizonMin)
	}
	logrus.Infof("[t=%g] Simulation ended: created=%d good=%d scrap=%d in-flight=%d resumptions=%d",
		s.Scheduler.Now(), s.Ctx.Summary.PartsCreated, s.Ctx.Summary.Good, s.Ctx.Summary.Scrap,
		s.Ctx.Summary.InFlight, s.Scheduler.Resumptions())
	if s.Ctx.Trace != nil {
		ts := trace.Summarize(s.Ctx.Trace)
		logrus.Infof("Trace: failures=%d repairs=%d forced-scrap=%d max-reworks=%d",
			ts.TotalFailures, ts.TotalRepairs, ts.ForcedScrap, ts.MaxReworks)
	}
}

// KPIs computes the post-run KPI summary.
func (s *Simulator) KPIs() *KPIs {
	return ComputeKPIs(s.Ctx)
}
