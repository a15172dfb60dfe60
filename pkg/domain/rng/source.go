// Package rng provides the deterministic random source threaded through a
// simulated week. Sources are values: every draw returns the advanced source
// alongside the result, so the full state of a game can be persisted and
// replayed from its seed.
package rng

import (
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Source is a PCG generator state
type Source struct {
	pcg rand.PCG
}

// New seeds a Source
func New(seed uint64) Source {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return Source{pcg: *rand.NewPCG(seedWord(seed, "hi"), seedWord(seed, "lo"))}
}

func seedWord(seed uint64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", seed, salt)
	return h.Sum64()
}

// draw runs fn against a copy of the state and returns the advanced copy
func (s Source) draw(fn func(r *rand.Rand)) Source {
	p := s.pcg
	fn(rand.New(&p))
	return Source{pcg: p}
}

// Uint64 returns the next 64 random bits
func (s Source) Uint64() (v uint64, next Source) {
	next = s.draw(func(r *rand.Rand) { v = r.Uint64() })
	return v, next
}

// Float64 returns a uniform value in [0, 1)
func (s Source) Float64() (v float64, next Source) {
	next = s.draw(func(r *rand.Rand) { v = r.Float64() })
	return v, next
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (s Source) IntN(n int) (v int, next Source) {
	next = s.draw(func(r *rand.Rand) { v = r.IntN(n) })
	return v, next
}

// Uniform returns a uniform value in [lo, hi)
func (s Source) Uniform(lo, hi float64) (float64, Source) {
	f, next := s.Float64()
	return lo + f*(hi-lo), next
}

// Bernoulli reports true with probability p
func (s Source) Bernoulli(p float64) (bool, Source) {
	f, next := s.Float64()
	return f < p, next
}

// Normal draws from N(mean, stddev²). A zero stddev returns mean without
// consuming any state.
func (s Source) Normal(mean, stddev float64) (v float64, next Source) {
	if stddev == 0 {
		return mean, s
	}
	next = s.draw(func(r *rand.Rand) { v = mean + r.NormFloat64()*stddev })
	return v, next
}

// MarshalText encodes the generator state as hex
func (s Source) MarshalText() ([]byte, error) {
	b, err := s.pcg.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode rng state: %w", err)
	}
	return []byte(hex.EncodeToString(b)), nil
}

// UnmarshalText restores a state written by MarshalText
func (s *Source) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid rng state: %w", err)
	}
	var p rand.PCG
	if err := p.UnmarshalBinary(b); err != nil {
		return fmt.Errorf("invalid rng state: %w", err)
	}
	s.pcg = p
	return nil
}
