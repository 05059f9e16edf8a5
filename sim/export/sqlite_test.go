package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/qcline-sim/qcline-sim/sim"
	"github.com/qcline-sim/qcline-sim/sim/internal/testutil"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := OpenStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveRunRoundTrip(t *testing.T) {
	// GIVEN a finished run and an empty store
	cfg, k, records := shortRun(t)
	store := openTestStore(t, filepath.Join(t.TempDir(), "runs.db"))
	ctx := context.Background()

	// WHEN the run is saved
	id, err := store.SaveRun(ctx, cfg, k, records)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// THEN the run row carries the counters, KPIs and the effective config
	row, err := store.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, row.ID)
	assert.Equal(t, cfg.Seed, row.Seed)
	assert.Equal(t, k.HorizonMin, row.HorizonMin)
	assert.Equal(t, k.Good, row.Good)
	assert.Equal(t, k.Scrap, row.Scrap)
	assert.Equal(t, k.PartsCreated, row.PartsCreated)
	testutil.AssertFloat64Equal(t, "fpy", k.FPY, row.FPY, 1e-12)
	testutil.AssertFloat64Equal(t, "throughput", k.Throughput, row.Throughput, 1e-12)
	assert.Equal(t, k.Bottleneck, row.Bottleneck)
	assert.False(t, row.CreatedAt.IsZero())

	var stored sim.Config
	require.NoError(t, yaml.Unmarshal([]byte(row.ConfigYAML), &stored))
	assert.Equal(t, *cfg, stored)

	// AND the inspection log comes back in order
	got, err := store.Inspections(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	// AND one KPI row exists per station
	stations, err := store.StationKPIs(ctx, id)
	require.NoError(t, err)
	require.Len(t, stations, len(k.Stations))
	for _, sk := range stations {
		want, ok := k.Station(sk.Name)
		require.True(t, ok, sk.Name)
		assert.Equal(t, want, sk)
		testutil.AssertFloat64Equal(t, sk.Name+" utilization", want.Utilization, sk.Utilization, 1e-12)
		testutil.AssertFloat64Equal(t, sk.Name+" utilization after warm-up",
			want.UtilizationAfterWarmup, sk.UtilizationAfterWarmup, 1e-12)
	}
}

func TestStore_ListRunsAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	ctx := context.Background()
	k := fixedKPIs()
	cfg := sim.DefaultConfig()

	// GIVEN two runs saved through one connection
	first, err := OpenStore(path)
	require.NoError(t, err)
	idA, err := first.SaveRun(ctx, cfg, k, nil)
	require.NoError(t, err)
	idB, err := first.SaveRun(ctx, cfg, k, []sim.InspectionRecord{{PartID: 1, Measurement: 10}})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// WHEN the database is reopened (migrations run again)
	store := openTestStore(t, path)

	// THEN both runs are still listed with distinct ids
	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	ids := []string{runs[0].ID, runs[1].ID}
	assert.ElementsMatch(t, []string{idA, idB}, ids)
	assert.NotEqual(t, idA, idB)

	empty, err := store.Inspections(ctx, idA)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_GetRunUnknownID(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "runs.db"))
	_, err := store.GetRun(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStore_SaveRunHonorsCancelledContext(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "runs.db"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.SaveRun(ctx, sim.DefaultConfig(), fixedKPIs(), nil)
	require.Error(t, err)

	runs, err := store.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}
