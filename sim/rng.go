package sim

import (
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce identical inspection logs and counters.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Names ===

const (
	// SubsystemArrivals drives inter-arrival intervals.
	SubsystemArrivals = "arrivals"

	// SubsystemInspection drives true and measured values at inspection.
	SubsystemInspection = "inspection"
)

// SubsystemProcessing returns the subsystem name for a station's processing times.
func SubsystemProcessing(station string) string {
	return "processing_" + station
}

// SubsystemBreakdown returns the subsystem name for a station's failure/repair cycle.
func SubsystemBreakdown(station string) string {
	return "breakdown_" + station
}

// === RandomSource ===

// RandomSource is the random-number collaborator: unit normal and unit
// exponential variates. *rand.Rand satisfies it.
type RandomSource interface {
	NormFloat64() float64
	ExpFloat64() float64
}

// SampleNormal draws from N(mean, stdev).
func SampleNormal(src RandomSource, mean, stdev float64) float64 {
	return mean + stdev*src.NormFloat64()
}

// SampleExponential draws from an exponential distribution with the given mean.
func SampleExponential(src RandomSource, mean float64) float64 {
	return mean * src.ExpFloat64()
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem,
// so drawing more processing times at one station never shifts the breakdown
// or inspection streams of another.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
