package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures breakdown transitions and part dispositions.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether any records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelEvents
}

// SimulationTrace collects event records during a run.
type SimulationTrace struct {
	Config       TraceConfig
	Breakdowns   []BreakdownRecord
	Dispositions []DispositionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:       config,
		Breakdowns:   make([]BreakdownRecord, 0),
		Dispositions: make([]DispositionRecord, 0),
	}
}

// RecordBreakdown appends a breakdown transition record.
func (st *SimulationTrace) RecordBreakdown(record BreakdownRecord) {
	st.Breakdowns = append(st.Breakdowns, record)
}

// RecordDisposition appends a part disposition record.
func (st *SimulationTrace) RecordDisposition(record DispositionRecord) {
	st.Dispositions = append(st.Dispositions, record)
}
