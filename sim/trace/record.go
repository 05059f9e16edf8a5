// Package trace provides event-trace recording for QC line runs.
// It has no dependencies on sim/ and stores pure data types.
package trace

// BreakdownRecord captures one UP/DOWN transition of a station.
type BreakdownRecord struct {
	Station string
	Clock   float64
	Down    bool // true for UP→DOWN, false for DOWN→UP
}

// DispositionRecord captures the terminal outcome of one part.
type DispositionRecord struct {
	PartID  int
	Clock   float64
	Outcome string // "PASS" or "SCRAP"
	Reworks int
	Forced  bool // scrapped because the rework limit was reached
}
