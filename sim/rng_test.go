package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// GIVEN two generators with the same master seed
	rng1 := NewPartitionedRNG(42)
	rng2 := NewPartitionedRNG(42)

	// WHEN three values are drawn from the resample subsystem of each
	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemResample).Uint32()
		v2 := rng2.ForSubsystem(SubsystemResample).Uint32()

		// THEN the sequences are identical
		if v1 != v2 {
			t.Errorf("value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// GIVEN two generators with the same master seed
	rngA := NewPartitionedRNG(42)
	rngB := NewPartitionedRNG(42)

	// WHEN A draws from the population stream and B from the resample stream
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemPopulation).Float64()
	}
	for i := 0; i < 5; i++ {
		rngB.ForSubsystem(SubsystemResample).Float64()
	}

	// THEN A's first resample draw is unaffected by its population draws
	aFirst := rngA.ForSubsystem(SubsystemResample).Float64()
	bSixth := rngB.ForSubsystem(SubsystemResample).Float64()
	expectedFirst := NewPartitionedRNG(42).ForSubsystem(SubsystemResample).Float64()

	if aFirst != expectedFirst {
		t.Errorf("A's resample first value = %v, want %v (isolation broken)", aFirst, expectedFirst)
	}
	if bSixth == expectedFirst {
		t.Error("B's 6th resample value equals 1st value - unexpected")
	}
}

func TestPartitionedRNG_PopulationUsesMasterSeed(t *testing.T) {
	// GIVEN a partitioned generator and a PCG seeded directly with the master seed
	rng := NewPartitionedRNG(DeterministicSeed)
	population := rng.ForSubsystem(SubsystemPopulation)
	direct := newRandFromSeed(DeterministicSeed)

	// THEN both produce identical sequences
	for i := 0; i < 10; i++ {
		if got, want := population.Uint64(), direct.Uint64(); got != want {
			t.Errorf("value %d: population RNG = %v, direct RNG = %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_OtherSubsystemsXorNameHash(t *testing.T) {
	// GIVEN a partitioned generator
	seed := uint64(12345)
	rng := NewPartitionedRNG(seed)

	// WHEN the resample stream is compared with a PCG seeded by seed ^ fnv1a64("resample")
	direct := newRandFromSeed(seed ^ fnv1a64(SubsystemResample))

	// THEN they match
	assert.Equal(t, direct.Uint64(), rng.ForSubsystem(SubsystemResample).Uint64())
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(42)

	if rng.ForSubsystem(SubsystemPopulation) != rng.ForSubsystem(SubsystemPopulation) {
		t.Error("ForSubsystem returned different instances for same name")
	}
}

func TestPartitionedRNG_Seed(t *testing.T) {
	rng := NewPartitionedRNG(12345)

	if rng.Seed() != 12345 {
		t.Errorf("Seed() = %v, want 12345", rng.Seed())
	}
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	// GIVEN a fresh generator, no streams exist
	rng := NewPartitionedRNG(42)
	if len(rng.streams) != 0 {
		t.Errorf("new PartitionedRNG has %d streams, want 0", len(rng.streams))
	}

	// WHEN one subsystem is requested, THEN exactly one stream exists
	rng.ForSubsystem(SubsystemPopulation)
	if len(rng.streams) != 1 {
		t.Errorf("after one ForSubsystem call, have %d streams, want 1", len(rng.streams))
	}
}

func TestPartitionedRNG_Workers_FirstSharesResampleStream(t *testing.T) {
	// GIVEN a generator asked for four worker streams
	rng := NewPartitionedRNG(42)
	workers := rng.Workers(4)

	// THEN worker 0 is the resample stream and all streams are distinct
	require.Len(t, workers, 4)
	assert.Same(t, rng.ForSubsystem(SubsystemResample), workers[0])
	seen := make(map[*rand.Rand]bool)
	for _, w := range workers {
		assert.False(t, seen[w], "worker stream reused")
		seen[w] = true
	}
}

func TestEntropySeed_ProducesDistinctSeeds(t *testing.T) {
	a, err := EntropySeed()
	require.NoError(t, err)
	b, err := EntropySeed()
	require.NoError(t, err)

	// Two 64-bit entropy reads colliding is vanishingly unlikely.
	assert.NotEqual(t, a, b)
}

func TestUniform01_Range(t *testing.T) {
	tests := []struct {
		name string
		v    uint32
		want float64
	}{
		{"zero", 0, 0},
		{"half", 1 << 31, 0.5},
		{"max stays below one", ^uint32(0), float64(^uint32(0)) / (1 << 32)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Uniform01(fixedSource{tc.v})
			assert.Equal(t, tc.want, got)
			assert.Less(t, got, 1.0)
		})
	}
}

// === fnv1a64 Tests ===

func TestFnv1a64_Deterministic(t *testing.T) {
	input := "test_subsystem"
	if fnv1a64(input) != fnv1a64(input) {
		t.Errorf("fnv1a64(%q) not deterministic", input)
	}
}

func TestFnv1a64_Collision(t *testing.T) {
	// Different subsystem names should produce different hashes (spot check)
	names := []string{
		SubsystemPopulation,
		SubsystemResample,
		SubsystemWorker(1),
		SubsystemWorker(2),
		SubsystemWorker(100),
		"",
	}

	hashes := make(map[uint64]string)
	for _, name := range names {
		h := fnv1a64(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

// === SubsystemWorker Tests ===

func TestSubsystemWorker(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{0, "resample"},
		{1, "resample_worker_1"},
		{100, "resample_worker_100"},
	}

	for _, tt := range tests {
		if got := SubsystemWorker(tt.id); got != tt.want {
			t.Errorf("SubsystemWorker(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

// === Benchmark ===

func BenchmarkPartitionedRNG_ForSubsystem_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(42)
	rng.ForSubsystem(SubsystemResample)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(SubsystemResample)
	}
}

// === Helpers ===

// newRandFromSeed creates a PCG-backed *rand.Rand with the given seed.
func newRandFromSeed(seed uint64) *rand.Rand {
	src := &rand.PCGSource{}
	src.Seed(seed)
	return rand.New(src)
}

// fixedSource returns the same 32-bit value forever.
type fixedSource struct{ v uint32 }

func (f fixedSource) Uint32() uint32 { return f.v }
