package txid

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"time"
)

// NoiseSeed returns a seed read from the platform entropy source (the RNG
// peripheral on nRF targets). If that fails it falls back to the clock.
func NoiseSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err == nil {
		return int64(binary.LittleEndian.Uint64(b[:]))
	}
	return time.Now().UnixNano()
}

// NewRand returns the process-wide source identities are drawn from. Seed
// it once at boot.
func NewRand(seed int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(seed))
}
