package sim

import (
	"fmt"
)

// scriptedProcess logs every resumption and then waits the next scripted
// delay; it terminates once the script is exhausted.
type scriptedProcess struct {
	ProcessBase
	name   string
	delays []float64
	idx    int
	log    *[]string
}

func (p *scriptedProcess) Resume(s *Scheduler) {
	*p.log = append(*p.log, fmt.Sprintf("%s@%g", p.name, s.Now()))
	if p.idx < len(p.delays) {
		mustWait(s, p, p.delays[p.idx])
		p.idx++
	}
}

// holderProcess acquires r, holds it for hold minutes, releases it and stops.
type holderProcess struct {
	ProcessBase
	name    string
	r       *Resource
	hold    float64
	phase   int
	grants  *[]string
	maxSeen *int
}

func (p *holderProcess) Resume(s *Scheduler) {
	switch p.phase {
	case 0:
		if !p.r.Acquire(s, p) {
			p.phase = 1
			return
		}
		p.granted(s)
	case 1:
		p.granted(s)
	case 2:
		p.r.Release(s, p)
		p.phase = 3
	}
}

func (p *holderProcess) granted(s *Scheduler) {
	*p.grants = append(*p.grants, fmt.Sprintf("%s@%g", p.name, s.Now()))
	if p.r.InUse() > *p.maxSeen {
		*p.maxSeen = p.r.InUse()
	}
	p.phase = 2
	mustWait(s, p, p.hold)
}

type toggle struct {
	at   float64
	down bool
}

// breakerProcess applies scripted Down transitions to a station.
type breakerProcess struct {
	ProcessBase
	station *Station
	toggles []toggle
	idx     int
}

func (b *breakerProcess) Resume(s *Scheduler) {
	for b.idx < len(b.toggles) && b.toggles[b.idx].at <= s.Now()+1e-9 {
		b.station.setDown(s.Now(), b.toggles[b.idx].down)
		b.idx++
	}
	if b.idx < len(b.toggles) {
		mustWait(s, b, b.toggles[b.idx].at-s.Now())
	}
}

// visitorProcess performs a single station visit for a fresh part.
type visitorProcess struct {
	ProcessBase
	ctx   *RunContext
	visit *stationVisit
	part  *Part
	done  bool
}

func (v *visitorProcess) Resume(s *Scheduler) {
	if v.visit.advance(s, v, v.ctx, v.part) {
		v.done = true
	}
}

// singleStationConfig returns a valid inspection-only line around one station.
func singleStationConfig(sc StationConfig) *Config {
	cfg := DefaultConfig()
	cfg.Stations = []StationConfig{sc}
	cfg.Line = LineConfig{Inspection: sc.Name}
	return cfg
}

// reworkOnlyConfig makes every measurement land inside the upper guard band.
func reworkOnlyConfig(limit int) *Config {
	cfg := DefaultConfig()
	cfg.ReworkLimit = limit
	cfg.Inspection.TargetMean = 10.11
	cfg.Inspection.ProcessSigma = 0.001
	cfg.Inspection.GaugeSigma = 0
	return cfg
}

// collectParts runs cfg to its horizon and returns every finished part.
// An observer installed through opts still sees each part first.
func collectParts(cfg *Config, opts ...Option) (*Simulator, []*Part, error) {
	var parts []*Part
	opts = append(opts, func(s *Simulator) {
		prev := s.Ctx.OnPartDone
		s.Ctx.OnPartDone = func(p *Part, o Outcome) {
			if prev != nil {
				prev(p, o)
			}
			cp := *p
			cp.History = append([]Interval(nil), p.History...)
			parts = append(parts, &cp)
		}
	})
	s, err := NewSimulator(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	s.Run()
	return s, parts, nil
}
