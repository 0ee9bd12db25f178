package bench

import (
	"hash/fnv"
	"math/rand"
)

// SweepKey uniquely identifies a reproducible sweep. Two sweeps with the same
// SweepKey and identical configuration draw identical random streams.
type SweepKey int64

// NewSweepKey creates a SweepKey from a seed value.
func NewSweepKey(seed int64) SweepKey {
	return SweepKey(seed)
}

const (
	// SubsystemDataset is the RNG subsystem for synthetic dataset generation.
	// Uses the master seed directly so --seed alone pins the datasets.
	SubsystemDataset = "dataset"

	// SubsystemLoader is the RNG subsystem for batch-loader shuffling. The
	// stream advances across loader rebuilds, giving each estimator
	// invocation an independent randomized batch order.
	SubsystemLoader = "loader"

	// SubsystemModel is the RNG subsystem for model initialization and
	// training.
	SubsystemModel = "model"
)

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemDataset: uses the master seed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. The sweep is single-threaded.
type PartitionedRNG struct {
	key        SweepKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SweepKey.
func NewPartitionedRNG(key SweepKey) *PartitionedRNG {
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

	var derivedSeed int64
	if name == SubsystemDataset {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SweepKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SweepKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
