// Package roundid generates time-sortable, prefixed identifiers for rounds
// and fair-play sessions, e.g. "rnd_01h5n0et5q6mt3v7ms1234abcd".
//
// The suffix is a UUIDv7 encoded with Crockford's base32 in the TypeID
// style. IDs issued by one Generator within the same millisecond stay ordered
// through a 12-bit sequence counter.
package roundid

import (
	crand "crypto/rand"
	"fmt"
	"strings"
	"sync"

	"github.com/coder/quartz"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Prefixes in use
const (
	PrefixRound   = "rnd"
	PrefixSession = "ses"
)

const suffixLen = 26

// RandSource allows deterministic randomness in tests
type RandSource interface {
	IntN(n int) int
}

// Generator issues identifiers
type Generator struct {
	rand  RandSource
	clock quartz.Clock

	mu     sync.Mutex
	lastMS int64
	seq    uint16
}

// NewGenerator creates a generator. A nil RandSource uses crypto/rand and a
// nil clock uses the wall clock.
func NewGenerator(rand RandSource, clock quartz.Clock) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{rand: rand, clock: clock}
}

var defaultGenerator = NewGenerator(nil, nil)

// New returns an identifier with the given prefix from the default generator
func New(prefix string) string {
	return defaultGenerator.New(prefix)
}

// New returns an identifier with the given prefix
func (g *Generator) New(prefix string) string {
	uuid := g.uuidV7()
	return prefix + "_" + encodeBase32(uuid)
}

func (g *Generator) uuidV7() [16]byte {
	var uuid [16]byte

	ms := g.clock.Now().UnixMilli()

	g.mu.Lock()
	if ms == g.lastMS {
		g.seq = (g.seq + 1) & 0x0fff
	} else {
		g.lastMS = ms
		g.seq = 0
	}
	seq := g.seq
	g.mu.Unlock()

	uuid[0] = byte(ms >> 40)
	uuid[1] = byte(ms >> 32)
	uuid[2] = byte(ms >> 24)
	uuid[3] = byte(ms >> 16)
	uuid[4] = byte(ms >> 8)
	uuid[5] = byte(ms)

	if g.rand != nil {
		for i := 8; i < 16; i++ {
			uuid[i] = byte(g.rand.IntN(256))
		}
	} else if _, err := crand.Read(uuid[8:]); err != nil {
		panic("roundid: failed to read random bytes: " + err.Error())
	}

	// version 7 in the high nibble, sequence in the remaining 12 bits
	uuid[6] = 0x70 | byte(seq>>8)
	uuid[7] = byte(seq)
	// variant 10
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return uuid
}

// encodeBase32 encodes 128 bits as 26 characters. The first character carries
// only the top 3 bits.
func encodeBase32(data [16]byte) string {
	out := make([]byte, suffixLen)
	// Treat the value as 130 bits with two leading zero bits.
	for i := 0; i < suffixLen; i++ {
		bitOffset := i*5 - 2
		var v uint16
		for b := 0; b < 5; b++ {
			pos := bitOffset + b
			v <<= 1
			if pos < 0 {
				continue
			}
			if data[pos/8]&(0x80>>(pos%8)) != 0 {
				v |= 1
			}
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

// Validate checks that id is "<prefix>_<26 base32 chars>"
func Validate(id string) error {
	idx := strings.LastIndexByte(id, '_')
	if idx <= 0 {
		return fmt.Errorf("id %q has no prefix", id)
	}
	prefix, suffix := id[:idx], id[idx+1:]
	for _, r := range prefix {
		if r < 'a' || r > 'z' {
			return fmt.Errorf("id prefix %q must be lowercase letters", prefix)
		}
	}
	if len(suffix) != suffixLen {
		return fmt.Errorf("id suffix must be exactly %d characters, got %d", suffixLen, len(suffix))
	}
	if suffix[0] > '7' {
		return fmt.Errorf("id suffix first character must be 0-7, got %c", suffix[0])
	}
	for i, char := range suffix {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}

// Prefix returns the prefix of a valid id
func Prefix(id string) string {
	idx := strings.LastIndexByte(id, '_')
	if idx <= 0 {
		return ""
	}
	return id[:idx]
}
