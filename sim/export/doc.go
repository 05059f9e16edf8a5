// Package export writes the results of a finished run to external sinks:
// the inspection log as CSV, the run and its KPIs to a SQLite store, and the
// KPIs as a Prometheus textfile.
//
// Nothing here is read back into a simulation.
package export
