package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcline-sim/qcline-sim/sim"
)

func TestWriteInspectionCSV(t *testing.T) {
	// GIVEN two inspection records
	records := []sim.InspectionRecord{
		{PartID: 1, Time: 0, Measurement: 10.01},
		{PartID: 2, Time: 1.5, Measurement: 9.97},
	}
	var buf bytes.Buffer

	// WHEN written as CSV
	require.NoError(t, WriteInspectionCSV(&buf, records))

	// THEN a header precedes one row per record in order
	assert.Equal(t, "part_id,time,measurement\n1,0,10.01\n2,1.5,9.97\n", buf.String())
}

func TestWriteInspectionCSV_EmptyLogHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInspectionCSV(&buf, nil))
	assert.Equal(t, "part_id,time,measurement\n", buf.String())
}

func TestSaveInspectionCSV_OneRowPerAttempt(t *testing.T) {
	// GIVEN the inspection log of a real run
	_, _, records := shortRun(t)
	require.NotEmpty(t, records)
	path := filepath.Join(t.TempDir(), "inspection_data.csv")

	// WHEN saved
	require.NoError(t, SaveInspectionCSV(path, records))

	// THEN the file holds the header plus exactly one line per record
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Len(t, lines, len(records)+1)
	assert.Equal(t, "part_id,time,measurement", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,"))
}

func TestSaveInspectionCSV_BadPath(t *testing.T) {
	err := SaveInspectionCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), nil)
	assert.Error(t, err)
}
