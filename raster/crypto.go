package raster

import (
	"math"

	"github.com/spaolacci/murmur3"
)

// CryptoID returns the cryptomatte id of an object name: its 32-bit
// MurmurHash3 reinterpreted as a float32. Hashes whose exponent bits would
// make an infinity, NaN or denormal have their lowest exponent bit flipped.
func CryptoID(name string) float32 {
	h := murmur3.Sum32([]byte(name))
	if exp := h >> 23 & 0xff; exp == 0 || exp == 0xff {
		h ^= 1 << 23
	}
	return math.Float32frombits(h)
}
