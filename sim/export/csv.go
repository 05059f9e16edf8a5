package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/qcline-sim/qcline-sim/sim"
)

// InspectionCSVHeader is the header row of the inspection log.
var InspectionCSVHeader = []string{"part_id", "time", "measurement"}

// WriteInspectionCSV writes one row per inspection record, in record order.
func WriteInspectionCSV(w io.Writer, records []sim.InspectionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(InspectionCSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.PartID),
			strconv.FormatFloat(r.Time, 'g', -1, 64),
			strconv.FormatFloat(r.Measurement, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for part %d: %w", r.PartID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// SaveInspectionCSV creates (or truncates) path and writes the inspection log to it.
func SaveInspectionCSV(path string, records []sim.InspectionRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return WriteInspectionCSV(f, records)
}
