package sim

import (
	"math"
	"testing"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 5; i++ {
		a := rng1.ForSubsystem(SubsystemInspection).NormFloat64()
		b := rng2.ForSubsystem(SubsystemInspection).NormFloat64()
		if a != b {
			t.Errorf("Value %d: got %v and %v, want identical", i, a, b)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// Drawing from one station's processing stream doesn't shift another's breakdown stream
	rngA := NewPartitionedRNG(NewSimulationKey(7))
	rngB := NewPartitionedRNG(NewSimulationKey(7))

	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemProcessing("Cutting")).Float64()
	}

	got := rngA.ForSubsystem(SubsystemBreakdown("Assembly")).ExpFloat64()
	want := rngB.ForSubsystem(SubsystemBreakdown("Assembly")).ExpFloat64()
	if got != want {
		t.Errorf("breakdown stream shifted by processing draws: got %v, want %v", got, want)
	}
}

func TestPartitionedRNG_CachedInstance(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(1))
	if p.ForSubsystem(SubsystemArrivals) != p.ForSubsystem(SubsystemArrivals) {
		t.Error("ForSubsystem must return the cached instance for the same name")
	}
	if p.ForSubsystem(SubsystemArrivals) == p.ForSubsystem(SubsystemInspection) {
		t.Error("different subsystems must not share an instance")
	}
	if p.Key() != NewSimulationKey(1) {
		t.Errorf("Key() = %d, want 1", p.Key())
	}
}

func TestPartitionedRNG_DifferentSeedsDiffer(t *testing.T) {
	a := NewPartitionedRNG(NewSimulationKey(1)).ForSubsystem(SubsystemArrivals).Float64()
	b := NewPartitionedRNG(NewSimulationKey(2)).ForSubsystem(SubsystemArrivals).Float64()
	if a == b {
		t.Errorf("seeds 1 and 2 produced the same first draw %v", a)
	}
}

// fixedSource returns constant unit variates.
type fixedSource struct{ norm, exp float64 }

func (f fixedSource) NormFloat64() float64 { return f.norm }
func (f fixedSource) ExpFloat64() float64  { return f.exp }

func TestSampleDistributions(t *testing.T) {
	src := fixedSource{norm: -1.5, exp: 2}
	if got := SampleNormal(src, 1.2, 0.2); math.Abs(got-0.9) > 1e-12 {
		t.Errorf("SampleNormal = %v, want 0.9", got)
	}
	if got := SampleExponential(src, 150); got != 300 {
		t.Errorf("SampleExponential = %v, want 300", got)
	}
	if got := SampleNormal(src, 10, 0); got != 10 {
		t.Errorf("SampleNormal with zero stdev = %v, want exactly 10", got)
	}
}
