// Package sim provides the discrete-event simulation engine for a three-station
// manufacturing quality-control line.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - scheduler.go: virtual clock, wakeup heap and the resumable Process contract
//   - resource.go: capacity-limited FIFO station slot
//   - part.go: Part lifecycle (arrived → routed → inspected → pass/rework/scrap)
//   - simulator.go: RunContext, process wiring and the run to horizon
//
// # Architecture
//
// Every logical process (one Breakdown per failing station, one PartFlow per
// in-flight part) is an explicit state machine. The Scheduler resumes exactly
// one process at a time in (time, creation order, scheduling order) order, so
// state shared between processes (a station's Down flag, busy time, queue
// samples) is only ever touched between suspension points. Nothing in this
// package is safe for concurrent use from multiple goroutines.
//
// Sub-packages hold pure data and output sinks:
//   - sim/trace/: breakdown and disposition event records
//   - sim/export/: CSV, SQLite and Prometheus textfile sinks
package sim
