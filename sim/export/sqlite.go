package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/qcline-sim/qcline-sim/sim"
)

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

// Store persists finished runs to a SQLite database.
type Store struct {
	db *sql.DB
}

// RunRow is one row of the runs table.
type RunRow struct {
	ID           string
	CreatedAt    time.Time
	Seed         int64
	HorizonMin   float64
	WarmupMin    float64
	ConfigYAML   string
	Good         int
	Scrap        int
	Rework       int
	PartsCreated int
	InFlight     int
	ForcedScrap  int
	Throughput   float64
	FPY          float64
	ScrapRate    float64
	CycleTime    float64
	Bottleneck   string
}

// OpenStore opens (creating if needed) the database at path and runs migrations.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		seed INTEGER NOT NULL,
		horizon_min REAL NOT NULL,
		warmup_min REAL NOT NULL,
		config_yaml TEXT NOT NULL,
		good INTEGER NOT NULL,
		scrap INTEGER NOT NULL,
		rework INTEGER NOT NULL,
		parts_created INTEGER NOT NULL,
		in_flight INTEGER NOT NULL,
		forced_scrap INTEGER NOT NULL,
		throughput REAL NOT NULL,
		fpy REAL NOT NULL,
		scrap_rate REAL NOT NULL,
		cycle_time_mean REAL NOT NULL,
		bottleneck TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS inspections (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		part_id INTEGER NOT NULL,
		time REAL NOT NULL,
		measurement REAL NOT NULL,
		PRIMARY KEY (run_id, seq),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS station_kpis (
		run_id TEXT NOT NULL,
		station TEXT NOT NULL,
		utilization REAL NOT NULL,
		utilization_after_warmup REAL NOT NULL,
		availability REAL NOT NULL,
		observed_availability REAL NOT NULL,
		performance REAL NOT NULL,
		quality REAL NOT NULL,
		oee REAL NOT NULL,
		avg_queue_len REAL NOT NULL,
		max_queue_len INTEGER NOT NULL,
		visits INTEGER NOT NULL,
		busy_time REAL NOT NULL,
		down_time REAL NOT NULL,
		failures INTEGER NOT NULL,
		PRIMARY KEY (run_id, station),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores the configuration, KPIs and inspection log of one run in a
// single transaction and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, cfg *sim.Config, k *sim.KPIs, records []sim.InspectionRecord) (string, error) {
	cfgYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, seed, horizon_min, warmup_min, config_yaml,
			good, scrap, rework, parts_created, in_flight, forced_scrap,
			throughput, fpy, scrap_rate, cycle_time_mean, bottleneck)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), cfg.Seed, k.HorizonMin, k.WarmupMin, string(cfgYAML),
		k.Good, k.Scrap, k.Rework, k.PartsCreated, k.InFlight, k.ForcedScrap,
		k.Throughput, k.FPY, k.ScrapRate, k.CycleTimeMean, k.Bottleneck,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	insp, err := tx.PrepareContext(ctx,
		`INSERT INTO inspections (run_id, seq, part_id, time, measurement) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare inspections: %w", err)
	}
	defer insp.Close()
	for i, r := range records {
		if _, err := insp.ExecContext(ctx, id, i, r.PartID, r.Time, r.Measurement); err != nil {
			return "", fmt.Errorf("insert inspection %d: %w", i, err)
		}
	}

	for _, sk := range k.Stations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO station_kpis (run_id, station, utilization, utilization_after_warmup, availability,
				observed_availability, performance, quality, oee, avg_queue_len, max_queue_len, visits,
				busy_time, down_time, failures)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, sk.Name, sk.Utilization, sk.UtilizationAfterWarmup, sk.Availability, sk.ObservedAvailability,
			sk.Performance, sk.Quality, sk.OEE, sk.AvgQueueLen, sk.MaxQueueLen, sk.Visits,
			sk.BusyTime, sk.DownTime, sk.Failures,
		)
		if err != nil {
			return "", fmt.Errorf("insert station kpis for %s: %w", sk.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

const runColumns = `id, created_at, seed, horizon_min, warmup_min, config_yaml,
	good, scrap, rework, parts_created, in_flight, forced_scrap,
	throughput, fpy, scrap_rate, cycle_time_mean, bottleneck`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*RunRow, error) {
	r := &RunRow{}
	err := sc.Scan(&r.ID, &r.CreatedAt, &r.Seed, &r.HorizonMin, &r.WarmupMin, &r.ConfigYAML,
		&r.Good, &r.Scrap, &r.Rework, &r.PartsCreated, &r.InFlight, &r.ForcedScrap,
		&r.Throughput, &r.FPY, &r.ScrapRate, &r.CycleTime, &r.Bottleneck)
	return r, err
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRow, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	return r, nil
}

// ListRuns returns all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Inspections returns the inspection log of a run in recording order.
func (s *Store) Inspections(ctx context.Context, runID string) ([]sim.InspectionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT part_id, time, measurement FROM inspections WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query inspections: %w", err)
	}
	defer rows.Close()

	records := make([]sim.InspectionRecord, 0)
	for rows.Next() {
		var r sim.InspectionRecord
		if err := rows.Scan(&r.PartID, &r.Time, &r.Measurement); err != nil {
			return nil, fmt.Errorf("scan inspection: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// StationKPIs returns the per-station KPIs of a run, ordered by station name.
func (s *Store) StationKPIs(ctx context.Context, runID string) ([]sim.StationKPI, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT station, utilization, utilization_after_warmup, availability, observed_availability, performance, quality, oee,
			avg_queue_len, max_queue_len, visits, busy_time, down_time, failures
		FROM station_kpis WHERE run_id = ? ORDER BY station`, runID)
	if err != nil {
		return nil, fmt.Errorf("query station kpis: %w", err)
	}
	defer rows.Close()

	var out []sim.StationKPI
	for rows.Next() {
		var sk sim.StationKPI
		if err := rows.Scan(&sk.Name, &sk.Utilization, &sk.UtilizationAfterWarmup, &sk.Availability, &sk.ObservedAvailability,
			&sk.Performance, &sk.Quality, &sk.OEE, &sk.AvgQueueLen, &sk.MaxQueueLen, &sk.Visits,
			&sk.BusyTime, &sk.DownTime, &sk.Failures); err != nil {
			return nil, fmt.Errorf("scan station kpis: %w", err)
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}
