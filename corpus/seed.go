package corpus

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
)

// SeedLength is the size of an ethash seed.
const SeedLength = 64

// Seed returns the seed ethash derives before mixing: Keccak-512 over the
// header hash followed by the nonce in little-endian order. For a decoded
// buffer this is the hash of bytes 1..40 as stored on disk.
func (r Record) Seed() (seed [SeedLength]byte) {
	var in [HeaderLength + NonceLength]byte
	copy(in[:], r.Header[:])
	binary.LittleEndian.PutUint64(in[HeaderLength:], r.Nonce.Uint64())
	copy(seed[:], crypto.Keccak512(in[:]))
	return seed
}
