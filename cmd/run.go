package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qcline-sim/qcline-sim/sim"
	"github.com/qcline-sim/qcline-sim/sim/export"
	"github.com/qcline-sim/qcline-sim/sim/trace"
)

type runOptions struct {
	config      configFlags
	logLevel    string
	csvPath     string
	dbPath      string
	metricsPath string
	traceLevel  string
}

// newRunCmd builds the command that executes one simulation run
func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the QC line simulation",
		Run: func(cmd *cobra.Command, args []string) {
			// Set up logging
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				logrus.Fatalf("Invalid log level: %s", opts.logLevel)
			}
			logrus.SetLevel(level)

			if err := runSimulation(cmd, opts); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Info("Simulation complete.")
		},
	}

	opts.config.register(cmd)
	cmd.Flags().StringVar(&opts.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "inspection_data.csv", "Inspection log CSV output (empty to skip)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite run store to append this run to")
	cmd.Flags().StringVar(&opts.metricsPath, "metrics-out", "", "Prometheus textfile to write the KPIs to")
	cmd.Flags().StringVar(&opts.traceLevel, "trace", string(trace.TraceLevelNone), "Event trace level (none, events)")
	return cmd
}

// runSimulation runs the configured line to its horizon, prints the KPI
// summary and writes the requested sinks.
func runSimulation(cmd *cobra.Command, opts *runOptions) error {
	if !trace.IsValidTraceLevel(opts.traceLevel) {
		return fmt.Errorf("invalid trace level %q (want none or events)", opts.traceLevel)
	}
	cfg, err := opts.config.load(cmd)
	if err != nil {
		return err
	}

	s, err := sim.NewSimulator(cfg, sim.WithTrace(trace.TraceConfig{Level: trace.TraceLevel(opts.traceLevel)}))
	if err != nil {
		return err
	}
	startTime := time.Now()
	s.Run()
	logrus.Infof("Simulated %gmin in %v", cfg.HorizonMin, time.Since(startTime))

	k := s.KPIs()
	out := cmd.OutOrStdout()
	k.Print(out)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return writeSinks(ctx, out, opts, cfg, k, s.Ctx.Inspections)
}

func writeSinks(ctx context.Context, out io.Writer, opts *runOptions, cfg *sim.Config, k *sim.KPIs, records []sim.InspectionRecord) error {
	if opts.csvPath != "" {
		if err := export.SaveInspectionCSV(opts.csvPath, records); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved inspection data → %s\n", opts.csvPath)
	}

	if opts.dbPath != "" {
		store, err := export.OpenStore(opts.dbPath)
		if err != nil {
			return fmt.Errorf("opening run store %s: %w", opts.dbPath, err)
		}
		defer store.Close()
		id, err := store.SaveRun(ctx, cfg, k, records)
		if err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		fmt.Fprintf(out, "Saved run %s → %s\n", id, opts.dbPath)
	}

	if opts.metricsPath != "" {
		if err := export.WriteMetricsTextfile(opts.metricsPath, k); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved metrics → %s\n", opts.metricsPath)
	}
	return nil
}
