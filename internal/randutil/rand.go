// Package randutil builds the random sources used for shoe shuffling.
package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// NewSecure returns a *rand.Rand whose bits come from crypto/rand. Use it for
// live play; rand.Rand.IntN performs unbiased bounded selection on top of it.
func NewSecure() *rand.Rand {
	return rand.New(cryptoSource{})
}

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Simulations and tests use it to get reproducible shoes.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// cryptoSource adapts crypto/rand to the rand.Source interface.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = crand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
