// Package prng implements the pluggable, seedable, splittable pseudo-random
// number generator registry (component B). Every algorithm is a pure-Go,
// fixed-width-integer implementation, so a fixed algorithm and seed produce
// identical output on any platform — there is no dependency on a platform
// random source anywhere in this package.
package prng

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Algorithm names the registry supports, selected by --algorithm.
type Algorithm string

const (
	HC128    Algorithm = "hc128"
	ChaCha12 Algorithm = "chacha12"
	ChaCha20 Algorithm = "chacha20"
	ISAAC    Algorithm = "isaac"
	ISAAC64  Algorithm = "isaac64"
	Xorshift Algorithm = "xorshift"
	PCG32    Algorithm = "pcg32"
	Step     Algorithm = "step"

	// Default is the algorithm used when the caller doesn't request one.
	Default = HC128
)

// engine is the minimal interface every algorithm must implement: a stream
// of uniformly distributed 64-bit words.
type engine interface {
	Uint64() uint64
}

type engineCtor func(key [32]byte) engine

var registry = map[Algorithm]engineCtor{
	HC128:    newHC128,
	ChaCha12: func(key [32]byte) engine { return newChaCha(key, 12) },
	ChaCha20: func(key [32]byte) engine { return newChaCha(key, 20) },
	ISAAC:    newISAAC,
	ISAAC64:  newISAAC64,
	Xorshift: newXorshift,
	PCG32:    newPCG32,
	Step:     newStep,
}

// Valid reports whether name is a registered algorithm.
func Valid(name Algorithm) bool {
	_, ok := registry[name]
	return ok
}

// Names returns the supported algorithm names, for --help text and errors.
func Names() []string {
	return []string{string(HC128), string(ChaCha12), string(ChaCha20),
		string(ISAAC), string(ISAAC64), string(Xorshift), string(PCG32), string(Step)}
}

// State is a seeded PRNG stream. The zero value is not usable; build one
// with SeedFromHex or Fork.
type State struct {
	alg Algorithm
	key [32]byte
	eng engine
}

// SeedFromHex builds the root State for a run from a 64-hex-digit (32 byte)
// seed and an algorithm name.
func SeedFromHex(alg Algorithm, hexSeed string) (*State, error) {
	ctor, ok := registry[alg]
	if !ok {
		return nil, fmt.Errorf("unknown prng algorithm %q", alg)
	}
	raw, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, fmt.Errorf("seed must be hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("seed must be 64 hex digits (32 bytes), got %d bytes", len(raw))
	}
	var key [32]byte
	copy(key[:], raw)
	return &State{alg: alg, key: key, eng: ctor(key)}, nil
}

// Fork derives an independent child State from a deterministic function of
// this State's seed and an integer path index — the only mechanism the
// scheduler uses to hand out independent per-segment and per-derived-row
// streams (spec §4.2, §4.6). The child's key is a keyed BLAKE3 hash of the
// path index under the parent's key, so: same parent seed + same path index
// -> same child seed, on any platform, regardless of fork order.
func (s *State) Fork(pathIndex uint64) *State {
	h, _ := blake3.NewKeyed(s.key[:]) // key is always 32 bytes, so no error
	var idxBytes [8]byte
	for i := 0; i < 8; i++ {
		idxBytes[i] = byte(pathIndex >> (8 * i))
	}
	h.Write([]byte("tabgen-prng-fork"))
	h.Write(idxBytes[:])
	sum := h.Sum(nil)
	var childKey [32]byte
	copy(childKey[:], sum[:32])
	return &State{alg: s.alg, key: childKey, eng: registry[s.alg](childKey)}
}

// Uint64 returns the next uniformly distributed 64-bit word.
func (s *State) Uint64() uint64 { return s.eng.Uint64() }

// Algorithm returns the name this state was built with.
func (s *State) Algorithm() Algorithm { return s.alg }
