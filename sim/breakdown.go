package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/qcline-sim/qcline-sim/sim/trace"
)

type breakdownPhase int

const (
	breakdownStart breakdownPhase = iota // spawned, first failure not yet drawn
	breakdownUp                          // waiting for the next failure
	breakdownDown                        // waiting for repair
)

// BreakdownProcess toggles one station's Down flag on an exponential
// failure/repair cycle for the whole horizon. It never touches a Resource or
// a Part.
type BreakdownProcess struct {
	ProcessBase
	ctx     *RunContext
	station *Station
	rng     RandomSource
	phase   breakdownPhase
}

func newBreakdownProcess(ctx *RunContext, st *Station) *BreakdownProcess {
	return &BreakdownProcess{
		ctx:     ctx,
		station: st,
		rng:     ctx.source(SubsystemBreakdown(st.Name())),
	}
}

// Resume implements Process.
func (b *BreakdownProcess) Resume(s *Scheduler) {
	cfg := b.station.Config
	switch b.phase {
	case breakdownStart:
		b.phase = breakdownUp
		mustWait(s, b, b.ctx.sampleDuration(SampleExponential(b.rng, cfg.MTBF), "time-to-failure"))

	case breakdownUp:
		b.transition(s.Now(), true)
		b.phase = breakdownDown
		mustWait(s, b, b.ctx.sampleDuration(SampleExponential(b.rng, cfg.MTTR), "repair"))

	case breakdownDown:
		b.transition(s.Now(), false)
		b.phase = breakdownUp
		mustWait(s, b, b.ctx.sampleDuration(SampleExponential(b.rng, cfg.MTBF), "time-to-failure"))
	}
}

func (b *BreakdownProcess) transition(now float64, down bool) {
	b.station.setDown(now, down)
	if down {
		logrus.Infof("[t=%9.3f] station %s DOWN", now, b.station.Name())
	} else {
		logrus.Infof("[t=%9.3f] station %s UP", now, b.station.Name())
	}
	if b.ctx.Trace != nil {
		b.ctx.Trace.RecordBreakdown(trace.BreakdownRecord{
			Station: b.station.Name(),
			Clock:   now,
			Down:    down,
		})
	}
}
