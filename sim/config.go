package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// NeverFailsMTBF is the MTBF sentinel at or above which a station never breaks down.
const NeverFailsMTBF = 9999.0

// DefaultPollInterval is the downtime polling and processing increment (minutes).
const DefaultPollInterval = 0.1

// StationConfig groups the immutable parameters of one station.
type StationConfig struct {
	Name     string  `yaml:"name"`
	CTMean   float64 `yaml:"ct_mean"`  // processing time mean (minutes)
	CTStdDev float64 `yaml:"ct_stdev"` // processing time stdev (minutes)
	MTBF     float64 `yaml:"mtbf"`     // mean time between failures (minutes)
	MTTR     float64 `yaml:"mttr"`     // mean time to repair (minutes)
	Capacity int     `yaml:"capacity"` // concurrent parts (must be >= 1)
}

// NeverFails reports whether the station is configured with the MTBF sentinel.
func (sc StationConfig) NeverFails() bool {
	return sc.MTBF >= NeverFailsMTBF
}

// LineConfig names the stations each part visits.
// Route is visited in order before inspection. Rework names the station a
// reworked part revisits before re-inspection; empty means straight back to
// inspection.
type LineConfig struct {
	Route      []string `yaml:"route"`
	Inspection string   `yaml:"inspection"`
	Rework     string   `yaml:"rework"`
}

// InspectionConfig groups the measurement model and tolerance limits.
type InspectionConfig struct {
	TargetMean   float64 `yaml:"target_mean"`
	ProcessSigma float64 `yaml:"process_sigma"`
	GaugeSigma   float64 `yaml:"gauge_sigma"`
	LSL          float64 `yaml:"lsl"`
	USL          float64 `yaml:"usl"`
}

// Config is the complete, process-wide run configuration.
// Loaded from YAML via LoadConfig(path) or built from DefaultConfig().
type Config struct {
	Seed             int64            `yaml:"seed"`
	HorizonMin       float64          `yaml:"horizon_min"`
	WarmupMin        float64          `yaml:"warmup_min"`
	InterArrivalMean float64          `yaml:"inter_arrival_mean"`
	ReworkLimit      int              `yaml:"rework_limit"`
	PollInterval     float64          `yaml:"poll_interval"`
	Line             LineConfig       `yaml:"line"`
	Stations         []StationConfig  `yaml:"stations"`
	Inspection       InspectionConfig `yaml:"inspection"`
}

// DefaultConfig returns the reference line: an 8h shift with a 30 minute
// warm-up, one part per minute, Cutting → Assembly → Inspection and one
// rework pass.
func DefaultConfig() *Config {
	return &Config{
		Seed:             42,
		HorizonMin:       8 * 60,
		WarmupMin:        30,
		InterArrivalMean: 1.0,
		ReworkLimit:      1,
		PollInterval:     DefaultPollInterval,
		Line: LineConfig{
			Route:      []string{"Cutting", "Assembly"},
			Inspection: "Inspection",
			Rework:     "Assembly",
		},
		Stations: []StationConfig{
			{Name: "Cutting", CTMean: 0.8, CTStdDev: 0.1, MTBF: 200, MTTR: 5, Capacity: 1},
			{Name: "Assembly", CTMean: 1.2, CTStdDev: 0.15, MTBF: 150, MTTR: 8, Capacity: 1},
			{Name: "Inspection", CTMean: 0.6, CTStdDev: 0.05, MTBF: NeverFailsMTBF, MTTR: 0, Capacity: 1},
		},
		Inspection: InspectionConfig{
			TargetMean:   10.0,
			ProcessSigma: 0.05,
			GaugeSigma:   0.01,
			LSL:          9.9,
			USL:          10.1,
		},
	}
}

// LoadConfig reads a YAML run configuration layered over DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
// The result is not validated; call Validate.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes layered over DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Station returns the configuration of the named station.
func (c *Config) Station(name string) (StationConfig, bool) {
	for _, sc := range c.Stations {
		if sc.Name == name {
			return sc, true
		}
	}
	return StationConfig{}, false
}

// Validate checks that every field is usable before a run starts.
// All failures wrap ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if err := validateFinitePositive("horizon_min", c.HorizonMin); err != nil {
		return err
	}
	if err := validateFiniteNonNegative("warmup_min", c.WarmupMin); err != nil {
		return err
	}
	if c.WarmupMin >= c.HorizonMin {
		return invalidf("warmup_min (%g) must be less than horizon_min (%g)", c.WarmupMin, c.HorizonMin)
	}
	if err := validateFinitePositive("inter_arrival_mean", c.InterArrivalMean); err != nil {
		return err
	}
	if c.ReworkLimit < 0 {
		return invalidf("rework_limit must be non-negative, got %d", c.ReworkLimit)
	}
	if err := validateFinitePositive("poll_interval", c.PollInterval); err != nil {
		return err
	}
	if len(c.Stations) == 0 {
		return invalidf("at least one station required")
	}
	seen := make(map[string]bool, len(c.Stations))
	for i, sc := range c.Stations {
		if err := validateStation(&sc, i); err != nil {
			return err
		}
		if seen[sc.Name] {
			return invalidf("station[%d]: duplicate name %q", i, sc.Name)
		}
		seen[sc.Name] = true
	}
	if err := c.validateLine(seen); err != nil {
		return err
	}
	return validateInspection(&c.Inspection)
}

func validateStation(sc *StationConfig, idx int) error {
	prefix := fmt.Sprintf("station[%d]", idx)
	if sc.Name == "" {
		return invalidf("%s: name is required", prefix)
	}
	prefix = fmt.Sprintf("station[%d] %s", idx, sc.Name)
	if err := validateFiniteNonNegative(prefix+".ct_mean", sc.CTMean); err != nil {
		return err
	}
	if err := validateFiniteNonNegative(prefix+".ct_stdev", sc.CTStdDev); err != nil {
		return err
	}
	if err := validateFinitePositive(prefix+".mtbf", sc.MTBF); err != nil {
		return err
	}
	if err := validateFiniteNonNegative(prefix+".mttr", sc.MTTR); err != nil {
		return err
	}
	if sc.Capacity < 1 {
		return invalidf("%s.capacity must be >= 1, got %d", prefix, sc.Capacity)
	}
	return nil
}

func (c *Config) validateLine(stations map[string]bool) error {
	if c.Line.Inspection == "" {
		return invalidf("line.inspection is required")
	}
	if !stations[c.Line.Inspection] {
		return invalidf("line.inspection: unknown station %q", c.Line.Inspection)
	}
	for i, name := range c.Line.Route {
		if !stations[name] {
			return invalidf("line.route[%d]: unknown station %q", i, name)
		}
	}
	if c.Line.Rework != "" && !stations[c.Line.Rework] {
		return invalidf("line.rework: unknown station %q", c.Line.Rework)
	}
	return nil
}

func validateInspection(ic *InspectionConfig) error {
	limits := []struct {
		name string
		val  float64
	}{
		{"inspection.target_mean", ic.TargetMean},
		{"inspection.lsl", ic.LSL},
		{"inspection.usl", ic.USL},
	}
	for _, l := range limits {
		if math.IsNaN(l.val) || math.IsInf(l.val, 0) {
			return invalidf("%s must be a finite number, got %f", l.name, l.val)
		}
	}
	if err := validateFiniteNonNegative("inspection.process_sigma", ic.ProcessSigma); err != nil {
		return err
	}
	if err := validateFiniteNonNegative("inspection.gauge_sigma", ic.GaugeSigma); err != nil {
		return err
	}
	if ic.LSL >= ic.USL {
		return invalidf("inspection.lsl (%g) must be less than inspection.usl (%g)", ic.LSL, ic.USL)
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return invalidf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return invalidf("%s must be positive, got %f", name, val)
	}
	return nil
}

func validateFiniteNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return invalidf("%s must be a finite number, got %f", name, val)
	}
	if val < 0 {
		return invalidf("%s must be non-negative, got %f", name, val)
	}
	return nil
}
