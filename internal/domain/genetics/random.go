package genetics

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Source is the seedable pseudo-random generator passed explicitly into
// every stochastic operation. *rand.Rand from math/rand/v2 satisfies it.
// A Source must not be shared between goroutines.
type Source interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
	Uint64() uint64
}

// NewRand returns a PCG-backed source. A zero seed draws a random seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// NewLineageID draws a version 4 UUID from src. The identifier depends only on
// the source state, never on gene content.
func NewLineageID(src Source) string {
	return newID(src)
}

// keyedNamespace scopes name based identifiers.
var keyedNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("chimera.lineage"))

// KeyedID returns a version 5 UUID naming key. Callers pass a key that is
// unique per stored record, such as a breeding request ID.
func KeyedID(key string) string {
	return uuid.NewSHA1(keyedNamespace, []byte(key)).String()
}

// NewID draws a version 4 UUID from src for any record that must replay
// identically under a fixed seed.
func NewID(src Source) string {
	return newID(src)
}

func newID(src Source) string {
	id, err := uuid.NewRandomFromReader(sourceReader{src: src})
	if err != nil {
		// sourceReader never fails; keep a valid identifier regardless
		return uuid.NewString()
	}
	return id.String()
}

// sourceReader adapts a Source to io.Reader for uuid generation.
type sourceReader struct {
	src Source
}

func (r sourceReader) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], r.src.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}
