// Package rng provides a deterministic random stream keyed by a seed
// string. The same seed always produces the same sequence, which makes
// generated game content reproducible.
package rng

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math"
)

// Stream generates bytes using HMAC-SHA256 rounds over the seed and
// derives floats, ints and shuffles from them.
type Stream struct {
	seed   string
	round  uint64
	pos    int
	buffer [32]byte
}

// New creates a stream for the given seed.
func New(seed string) *Stream {
	s := &Stream{seed: seed}
	s.generateRound()
	return s
}

// next returns the next byte, advancing to a fresh HMAC round when the
// current 32-byte buffer is exhausted.
func (s *Stream) next() byte {
	if s.pos >= 32 {
		s.round++
		s.pos = 0
		s.generateRound()
	}

	b := s.buffer[s.pos]
	s.pos++
	return b
}

func (s *Stream) generateRound() {
	h := hmac.New(sha256.New, []byte(s.seed))
	fmt.Fprintf(h, "round:%d", s.round)
	copy(s.buffer[:], h.Sum(nil))
}

// Float returns the next float in [0, 1) using exactly 4 bytes.
func (s *Stream) Float() float64 {
	result := 0.0
	for i := 0; i < 4; i++ {
		divider := math.Pow(256, float64(i+1))
		result += float64(s.next()) / divider
	}
	return result
}

// Intn returns a value in [0, n). n must be > 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("rng: Intn called with n=%d", n))
	}

	index := int(math.Floor(s.Float() * float64(n)))
	if index >= n {
		index = n - 1
	}
	return index
}

// IntRange returns a value in [lo, hi] inclusive.
func (s *Stream) IntRange(lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("rng: IntRange called with lo=%d hi=%d", lo, hi))
	}
	return lo + s.Intn(hi-lo+1)
}

// Shuffle permutes n elements in place using Fisher-Yates.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		swap(i, j)
	}
}

// Perm returns a permutation of [0, n).
func (s *Stream) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	s.Shuffle(n, func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p
}
