// Package pageseq generates the deterministic 32767-long obfuscated page
// sequence SAS embeds in every page so readers can validate write order.
package pageseq

import "github.com/hailam/sas7bdat/internal/sasfmt/sasfmterr"

// Initial is the seed value SAS's own writer treats as the initial page
// sequence.
const Initial uint32 = 0xF4A4FFF6

// maxIncrements is the file format's hard limit: more than 32767 pages
// cannot be represented.
const maxIncrements = 32767

// nibbleXorCycle is the low-nibble XOR cycle SAS applies on each
// increment: XOR with 1, then 3, then 1, then 7, then 1, then 3, then 1,
// then 15 — applied twice (16 steps total) before the low nibble returns
// to its starting value and the byte above is decremented by 1.
var nibbleXorCycle = [16]uint32{1, 3, 1, 7, 1, 3, 1, 15, 1, 3, 1, 7, 1, 3, 1, 15}

// Sequence is a per-writer page sequence generator. It is not safe for
// concurrent use; a single Exporter owns exactly one Sequence.
type Sequence struct {
	initial    uint32
	current    uint32
	increments int
	cycleIndex int
}

// New creates a Sequence starting at Initial.
func New() *Sequence {
	return &Sequence{initial: Initial, current: Initial}
}

// Initial returns the value this sequence began at.
func (s *Sequence) Initial() uint32 {
	return s.initial
}

// Current returns the current value without mutating the sequence.
func (s *Sequence) Current() uint32 {
	return s.current
}

// Increment advances the sequence to its next value and returns it.
// Fails with a State error once the format's 32767-page limit is hit.
func (s *Sequence) Increment() (uint32, error) {
	if s.increments >= maxIncrements {
		return 0, sasfmterr.Statef("page sequence exhausted after %d increments (limit %d)", s.increments, maxIncrements)
	}
	s.current ^= nibbleXorCycle[s.cycleIndex]
	s.cycleIndex++
	if s.cycleIndex == len(nibbleXorCycle) {
		s.cycleIndex = 0
		// The low nibble has completed its 16-step cycle back to its
		// starting value; the byte above it decrements by one.
		s.current -= 0x100
	}
	s.increments++
	return s.current, nil
}
