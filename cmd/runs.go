package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qcline-sim/qcline-sim/sim/export"
)

// newRunsCmd builds the command that lists runs saved with `run --db`
func newRunsCmd() *cobra.Command {
	var dbPath string
	var inspections bool
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List stored runs, or show the station KPIs of one run",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := queryRuns(cmd, dbPath, inspections, args); err != nil {
				logrus.Fatalf("%v", err)
			}
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite run store")
	cmd.Flags().BoolVar(&inspections, "inspections", false, "With a run id, print its inspection log as CSV")
	return cmd
}

// queryRuns opens the store, prints the requested view and closes the store
// before returning.
func queryRuns(cmd *cobra.Command, dbPath string, inspections bool, args []string) error {
	if dbPath == "" {
		return fmt.Errorf("--db is required")
	}
	if inspections && len(args) == 0 {
		return fmt.Errorf("--inspections needs a run id")
	}
	store, err := export.OpenStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening run store %s: %w", dbPath, err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	switch {
	case inspections:
		records, err := store.Inspections(ctx, args[0])
		if err != nil {
			return err
		}
		return export.WriteInspectionCSV(out, records)
	case len(args) == 1:
		return showRun(ctx, out, store, args[0])
	default:
		return listRuns(ctx, out, store)
	}
}

func listRuns(ctx context.Context, w io.Writer, store *export.Store) error {
	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSEED\tGOOD\tSCRAP\tFPY\tTHROUGHPUT\tBOTTLENECK")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.3f\t%.2f\t%s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Seed, r.Good, r.Scrap, r.FPY, r.Throughput, r.Bottleneck)
	}
	return tw.Flush()
}

func showRun(ctx context.Context, w io.Writer, store *export.Store, id string) error {
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	stations, err := store.StationKPIs(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Run %s (seed %d, horizon %gmin, warm-up %gmin)\n", run.ID, run.Seed, run.HorizonMin, run.WarmupMin)
	fmt.Fprintf(w, "Good %d  |  Scrap %d  |  FPY %.3f  |  Throughput %.2f/hr\n", run.Good, run.Scrap, run.FPY, run.Throughput)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATION\tUTILIZATION\tAVAILABILITY\tOBS. AVAILABILITY\tOEE\tFAILURES\tAVG QUEUE")
	for _, sk := range stations {
		fmt.Fprintf(tw, "%s\t%.1f%%\t%.1f%%\t%.1f%%\t%.1f%%\t%d\t%.2f\n",
			sk.Name, sk.Utilization*100, sk.Availability*100, sk.ObservedAvailability*100, sk.OEE*100,
			sk.Failures, sk.AvgQueueLen)
	}
	return tw.Flush()
}
