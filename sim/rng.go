package sim

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// DeterministicSeed is the master seed used for reproducible runs.
const DeterministicSeed uint64 = 0x1337FEED

// === Subsystem Constants ===

const (
	// SubsystemPopulation is the RNG subsystem for drawing the source population.
	// Uses the master seed directly.
	SubsystemPopulation = "population"

	// SubsystemResample is the RNG subsystem for reservoir accept/reject draws
	// when trials run on a single worker.
	SubsystemResample = "resample"
)

// SubsystemWorker returns the subsystem name for resampling worker N.
// Worker 0 shares the SubsystemResample stream so that a one-worker run and
// the sequential path draw identical numbers.
func SubsystemWorker(id int) string {
	if id == 0 {
		return SubsystemResample
	}
	return fmt.Sprintf("resample_worker_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated PCG generators per subsystem.
//
// Derivation formula:
//   - For SubsystemPopulation: uses the master seed directly
//   - For all other subsystems: seed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Streams must be fetched from one goroutine;
// each returned *rand.Rand may then be handed to exactly one worker.
type PartitionedRNG struct {
	seed    uint64
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed uint64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:    seed,
		streams: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded generator for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}

	derived := p.seed
	if name != SubsystemPopulation {
		derived = p.seed ^ fnv1a64(name)
	}

	src := &rand.PCGSource{}
	src.Seed(derived)
	rng := rand.New(src)
	p.streams[name] = rng
	return rng
}

// Workers returns one independent generator per resampling worker.
func (p *PartitionedRNG) Workers(n int) []*rand.Rand {
	streams := make([]*rand.Rand, n)
	for i := range streams {
		streams[i] = p.ForSubsystem(SubsystemWorker(i))
	}
	return streams
}

// Seed returns the master seed used to create this PartitionedRNG.
func (p *PartitionedRNG) Seed() uint64 {
	return p.seed
}

// EntropySeed reads a fresh master seed from the operating system.
func EntropySeed() (uint64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, errors.Wrap(err, "reading entropy seed")
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// Uniform01 turns one 32-bit output into a uniform value in [0, 1).
func Uniform01(src Uint32Source) float64 {
	return float64(src.Uint32()) / (1 << 32)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
