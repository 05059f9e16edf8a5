package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalFailures     int
	TotalRepairs      int
	FailuresByStation map[string]int // station → UP→DOWN transitions
	Outcomes          map[string]int // outcome → parts
	ForcedScrap       int
	MaxReworks        int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		FailuresByStation: make(map[string]int),
		Outcomes:          make(map[string]int),
	}
	if st == nil {
		return summary
	}

	for _, b := range st.Breakdowns {
		if b.Down {
			summary.TotalFailures++
			summary.FailuresByStation[b.Station]++
		} else {
			summary.TotalRepairs++
		}
	}

	for _, d := range st.Dispositions {
		summary.Outcomes[d.Outcome]++
		if d.Forced {
			summary.ForcedScrap++
		}
		if d.Reworks > summary.MaxReworks {
			summary.MaxReworks = d.Reworks
		}
	}

	return summary
}
