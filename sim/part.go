package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/qcline-sim/qcline-sim/sim/trace"
)

// Interval is one station visit in a part's processing history.
type Interval struct {
	Station string
	Start   float64
	End     float64
}

// Part is owned by its PartFlow for its entire lifetime and dropped once it
// reaches PASS or SCRAP.
type Part struct {
	ID      int
	Birth   float64
	Reworks int
	History []Interval
}

// PartState is the lifecycle state of a PartFlow.
type PartState int

const (
	PartArrived     PartState = iota // identity not yet assigned
	PartRouting                      // visiting the pre-inspection route
	PartInspecting                   // visiting the inspection station
	PartReworking                    // revisiting the rework station
	PartArrivalWait                  // PASS/SCRAP reached, waiting to spawn the next part
	PartDone                         // next arrival spawned
)

func (s PartState) String() string {
	switch s {
	case PartArrived:
		return "ARRIVED"
	case PartRouting:
		return "ROUTING"
	case PartInspecting:
		return "INSPECTING"
	case PartReworking:
		return "REWORKING"
	case PartArrivalWait:
		return "ARRIVAL_WAIT"
	case PartDone:
		return "DONE"
	}
	return fmt.Sprintf("PartState(%d)", int(s))
}

// PartFlow drives one part through the route, inspection and the bounded
// rework loop, then draws the next inter-arrival interval and spawns the next
// part's PartFlow. Arrivals are therefore a renewal process chained one part
// at a time.
type PartFlow struct {
	ProcessBase
	ctx      *RunContext
	part     *Part
	state    PartState
	routeIdx int
	visit    *stationVisit
	outcome  Outcome
}

func newPartFlow(ctx *RunContext) *PartFlow {
	return &PartFlow{ctx: ctx}
}

// Part returns the part being processed, nil before arrival and after disposal.
func (pf *PartFlow) Part() *Part { return pf.part }

// Stage returns the lifecycle state.
func (pf *PartFlow) Stage() PartState { return pf.state }

// Outcome returns the terminal outcome, empty while the part is in flight.
func (pf *PartFlow) Outcome() Outcome { return pf.outcome }

// Resume implements Process.
func (pf *PartFlow) Resume(s *Scheduler) {
	ctx := pf.ctx
	line := ctx.Config.Line
	for {
		switch pf.state {
		case PartArrived:
			pf.part = &Part{ID: ctx.nextID(), Birth: s.Now(), History: make([]Interval, 0, 4)}
			ctx.Summary.PartsCreated++
			ctx.Summary.InFlight++
			logrus.Debugf("[t=%9.3f] part %d arrived", s.Now(), pf.part.ID)
			if len(line.Route) > 0 {
				pf.enter(PartRouting, line.Route[0])
			} else {
				pf.enter(PartInspecting, line.Inspection)
			}

		case PartRouting:
			if !pf.visit.advance(s, pf, ctx, pf.part) {
				return
			}
			pf.routeIdx++
			if pf.routeIdx < len(line.Route) {
				pf.enter(PartRouting, line.Route[pf.routeIdx])
			} else {
				pf.enter(PartInspecting, line.Inspection)
			}

		case PartInspecting:
			if !pf.visit.advance(s, pf, ctx, pf.part) {
				return
			}
			pf.classify(s)

		case PartReworking:
			if !pf.visit.advance(s, pf, ctx, pf.part) {
				return
			}
			pf.enter(PartInspecting, line.Inspection)

		case PartArrivalWait:
			ia := ctx.sampleDuration(SampleExponential(ctx.source(SubsystemArrivals), ctx.Config.InterArrivalMean), "inter-arrival")
			pf.state = PartDone
			mustWait(s, pf, ia)
			return

		case PartDone:
			s.Spawn(newPartFlow(ctx))
			s.Terminate(pf)
			return
		}
	}
}

// enter starts a fresh visit at the named station.
func (pf *PartFlow) enter(state PartState, station string) {
	pf.state = state
	pf.visit = newStationVisit(pf.ctx.Stations[station])
}

// classify inspects the part after an inspection visit and picks the next state.
func (pf *PartFlow) classify(s *Scheduler) {
	ctx := pf.ctx
	outcome := ctx.inspect(pf.part)
	switch outcome {
	case OutcomePass:
		if pf.part.Birth >= ctx.Config.WarmupMin {
			ctx.Summary.CycleTimes = append(ctx.Summary.CycleTimes, s.Now()-pf.part.Birth)
		}
		pf.finish(s, OutcomePass, false)

	case OutcomeScrap:
		pf.finish(s, OutcomeScrap, false)

	case OutcomeRework:
		if pf.part.Reworks >= ctx.Config.ReworkLimit {
			ctx.Summary.Scrap++
			ctx.Summary.ForcedScrap++
			pf.finish(s, OutcomeScrap, true)
			return
		}
		pf.part.Reworks++
		if ctx.Config.Line.Rework == "" {
			pf.enter(PartInspecting, ctx.Config.Line.Inspection)
		} else {
			pf.enter(PartReworking, ctx.Config.Line.Rework)
		}
	}
}

// finish records the terminal outcome and drops the part.
func (pf *PartFlow) finish(s *Scheduler, outcome Outcome, forced bool) {
	ctx := pf.ctx
	ctx.Summary.InFlight--
	pf.outcome = outcome
	logrus.Debugf("[t=%9.3f] part %d %s after %d rework(s)", s.Now(), pf.part.ID, outcome, pf.part.Reworks)
	if ctx.Trace != nil {
		ctx.Trace.RecordDisposition(trace.DispositionRecord{
			PartID:  pf.part.ID,
			Clock:   s.Now(),
			Outcome: string(outcome),
			Reworks: pf.part.Reworks,
			Forced:  forced,
		})
	}
	if ctx.OnPartDone != nil {
		ctx.OnPartDone(pf.part, outcome)
	}
	pf.part = nil
	pf.visit = nil
	pf.state = PartArrivalWait
}
