package sim

type visitPhase int

const (
	visitArrive     visitPhase = iota // not yet queued
	visitQueued                       // waiting in the Resource queue
	visitWaitUp                       // holding the slot, polling while the station is DOWN
	visitProcessing                   // consuming processing time in increments
	visitDone                         // slot released, history recorded
)

// stationVisit is one Station Processing Step: queue, acquire, wait out
// downtime, process in increments that pause while DOWN, account, release.
type stationVisit struct {
	station   *Station
	phase     visitPhase
	start     float64
	remaining float64
	step      float64 // increment in flight, credited on the next resume
}

func newStationVisit(st *Station) *stationVisit {
	return &stationVisit{station: st}
}

// advance runs the visit until it suspends (false) or the part has left the
// station (true). p is the owning process; all waits suspend p.
func (v *stationVisit) advance(s *Scheduler, p Process, ctx *RunContext, part *Part) bool {
	st := v.station
	poll := ctx.Config.PollInterval
	for {
		switch v.phase {
		case visitArrive:
			st.QueueSamples = append(st.QueueSamples, st.Resource.QueueLen())
			v.phase = visitQueued
			if !st.Resource.Acquire(s, p) {
				return false
			}

		case visitQueued:
			// Resumed by Release with the slot already granted.
			v.phase = visitWaitUp

		case visitWaitUp:
			if st.Down {
				mustWait(s, p, poll)
				return false
			}
			v.start = s.Now()
			v.remaining = ctx.sampleDuration(
				SampleNormal(ctx.source(SubsystemProcessing(st.Name())), st.Config.CTMean, st.Config.CTStdDev),
				"processing")
			v.phase = visitProcessing

		case visitProcessing:
			if v.step > 0 {
				now := s.Now()
				st.creditBusy(now-v.step, now, ctx.Config.WarmupMin)
				v.remaining -= v.step
				v.step = 0
			}
			if v.remaining > 0 {
				if st.Down {
					mustWait(s, p, poll)
					return false
				}
				v.step = min(poll, v.remaining)
				mustWait(s, p, v.step)
				return false
			}
			part.History = append(part.History, Interval{Station: st.Name(), Start: v.start, End: s.Now()})
			st.Resource.Release(s, p)
			v.phase = visitDone
			return true

		case visitDone:
			return true
		}
	}
}
