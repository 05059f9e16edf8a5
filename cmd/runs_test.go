package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcline-sim/qcline-sim/sim"
	"github.com/qcline-sim/qcline-sim/sim/export"
)

// seedStore saves one short run into a fresh store and returns its id and
// the number of inspections it logged.
func seedStore(t *testing.T, path string) (string, int) {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.HorizonMin = 40
	cfg.WarmupMin = 5
	s, err := sim.NewSimulator(cfg)
	require.NoError(t, err)
	s.Run()

	store, err := export.OpenStore(path)
	require.NoError(t, err)
	defer store.Close()
	id, err := store.SaveRun(context.Background(), cfg, s.KPIs(), s.Ctx.Inspections)
	require.NoError(t, err)
	return id, len(s.Ctx.Inspections)
}

func TestRunsCmd_ListsStoredRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	id, _ := seedStore(t, path)

	cmd := newRunsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--db", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "BOTTLENECK")
	assert.Contains(t, out.String(), id)
}

func TestRunsCmd_ShowsOneRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	id, _ := seedStore(t, path)

	cmd := newRunsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--db", path, id})
	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "Run "+id)
	for _, name := range []string{"Cutting", "Assembly", "Inspection"} {
		assert.Contains(t, text, name)
	}
	// Modelled and observed availability are separate columns.
	assert.Contains(t, text, "OBS. AVAILABILITY")
	assert.Contains(t, text, "97.6%")
}

func TestRunsCmd_PrintsInspectionLog(t *testing.T) {
	// GIVEN a stored run
	path := filepath.Join(t.TempDir(), "runs.db")
	id, n := seedStore(t, path)
	require.Positive(t, n)

	// WHEN its inspection log is requested
	cmd := newRunsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--db", path, "--inspections", id})
	require.NoError(t, cmd.Execute())

	// THEN it is printed as CSV, one row per inspection
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Equal(t, "part_id,time,measurement", lines[0])
	assert.Len(t, lines, n+1)
}

func TestQueryRuns_ErrorsReturnAfterClosingStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	seedStore(t, path)
	cmd := newRunsCmd()
	cmd.SetOut(&bytes.Buffer{})

	assert.Error(t, queryRuns(cmd, "", false, nil))
	assert.Error(t, queryRuns(cmd, path, true, nil))

	// GIVEN an unknown run id
	// WHEN it is queried
	err := queryRuns(cmd, path, false, []string{"no-such-run"})

	// THEN the error is returned rather than exiting
	assert.ErrorIs(t, err, export.ErrRunNotFound)
	// AND the store was closed, so it can be opened and read again
	store, err := export.OpenStore(path)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
