package trace

import (
	"testing"
)

func TestSimulationTrace_RecordBreakdown_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for events
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})

	// WHEN a breakdown record is recorded
	st.RecordBreakdown(BreakdownRecord{Station: "Cutting", Clock: 12.5, Down: true})

	// THEN the trace contains one breakdown record with correct data
	if len(st.Breakdowns) != 1 {
		t.Fatalf("expected 1 breakdown, got %d", len(st.Breakdowns))
	}
	if st.Breakdowns[0].Station != "Cutting" {
		t.Errorf("expected station Cutting, got %s", st.Breakdowns[0].Station)
	}
	if !st.Breakdowns[0].Down {
		t.Error("expected down=true")
	}
}

func TestSimulationTrace_RecordDisposition_PreservesOrder(t *testing.T) {
	// GIVEN a trace configured for events
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})

	// WHEN dispositions are recorded for parts 1, 2, 3
	for i := 1; i <= 3; i++ {
		st.RecordDisposition(DispositionRecord{PartID: i, Clock: float64(i), Outcome: "PASS"})
	}

	// THEN they are kept in recording order
	if len(st.Dispositions) != 3 {
		t.Fatalf("expected 3 dispositions, got %d", len(st.Dispositions))
	}
	for i, d := range st.Dispositions {
		if d.PartID != i+1 {
			t.Errorf("disposition[%d]: got part %d, want %d", i, d.PartID, i+1)
		}
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"events", true},
		{"", true},
		{"decisions", false},
		{"EVENTS", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}

func TestTraceConfig_Enabled(t *testing.T) {
	if (TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("none level must not be enabled")
	}
	if (TraceConfig{}).Enabled() {
		t.Error("empty level must not be enabled")
	}
	if !(TraceConfig{Level: TraceLevelEvents}).Enabled() {
		t.Error("events level must be enabled")
	}
}
