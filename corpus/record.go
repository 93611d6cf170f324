// Package corpus decodes ethash fuzz corpus entries and walks corpus
// directories, rendering one summary line per recognised test case.
//
// A test case for the hashing kinds has the fixed layout
//
//	kind(1) | header hash(32) | nonce(8, little-endian)
//
// and is exactly 41 bytes long. Anything else is skipped silently.
package corpus

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Kind is the single-byte discriminant selecting how the fuzz target
// interprets the rest of a test case.
type Kind uint8

const (
	// KindLight hashes the header with the light cache.
	KindLight Kind = 0
	// KindFull hashes the header with the full dataset.
	KindFull Kind = 1
)

const (
	HeaderLength = common.HashLength
	NonceLength  = 8

	headerOffset = 1
	nonceOffset  = headerOffset + HeaderLength

	// HashRecordSize is the total size of a light or full hashing test case.
	HashRecordSize = nonceOffset + NonceLength
)

// Layout describes the shape of a recognised kind.
type Layout struct {
	Name string
	Size int // total buffer length including the kind byte
}

// layouts maps every recognised kind to its layout. Kinds missing here are
// not decoded.
var layouts = map[Kind]Layout{
	KindLight: {Name: "light", Size: HashRecordSize},
	KindFull:  {Name: "full", Size: HashRecordSize},
}

// LookupLayout returns the layout registered for k.
func LookupLayout(k Kind) (Layout, bool) {
	l, ok := layouts[k]
	return l, ok
}

// String returns the layout name, or kind(N) for unrecognised kinds.
func (k Kind) String() string {
	if l, ok := layouts[k]; ok {
		return l.Name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

var (
	ErrEmpty       = errors.New("empty test case")
	ErrUnknownKind = errors.New("unknown test kind")
	ErrBadLength   = errors.New("unexpected test case length")
)

// Record is a decoded hashing test case.
type Record struct {
	Kind   Kind
	Header common.Hash
	Nonce  types.BlockNonce
}

// ReadReversed returns a copy of the n bytes at offset with their order
// reversed, so that buf[offset+n-1] becomes the first byte. It returns nil
// if the span does not fit in buf.
func ReadReversed(buf []byte, offset, n int) []byte {
	if offset < 0 || n < 0 || offset > len(buf) || n > len(buf)-offset {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = buf[offset+n-1-i]
	}
	return out
}

// Parse decodes buf and reports why it was rejected. The returned error
// wraps ErrEmpty, ErrUnknownKind or ErrBadLength.
func Parse(buf []byte) (Record, error) {
	if len(buf) == 0 {
		return Record{}, ErrEmpty
	}
	kind := Kind(buf[0])
	layout, ok := layouts[kind]
	if !ok {
		return Record{}, fmt.Errorf("%w: %d", ErrUnknownKind, buf[0])
	}
	if len(buf) != layout.Size {
		return Record{}, fmt.Errorf("%w: %s wants %d bytes, have %d", ErrBadLength, kind, layout.Size, len(buf))
	}
	rec := Record{Kind: kind}
	copy(rec.Header[:], buf[headerOffset:nonceOffset])
	copy(rec.Nonce[:], ReadReversed(buf, nonceOffset, NonceLength))
	return rec, nil
}

// Decode is Parse without the reason.
func Decode(buf []byte) (Record, bool) {
	rec, err := Parse(buf)
	return rec, err == nil
}

// DecodeLine renders buf as a summary line terminated by a newline, or
// returns the empty string if buf is not a recognised test case. It never
// panics.
func DecodeLine(buf []byte) string {
	rec, ok := Decode(buf)
	if !ok {
		return ""
	}
	return rec.Line()
}

// String renders the record as "k: <kind>, h: <hex>, n: <hex>".
func (r Record) String() string {
	return fmt.Sprintf("k: %d, h: %s, n: %s", uint8(r.Kind), common.Bytes2Hex(r.Header[:]), common.Bytes2Hex(r.Nonce[:]))
}

// Line is String with a trailing newline.
func (r Record) Line() string {
	return r.String() + "\n"
}

// SeedLine is Line with the ethash seed appended as ", s: <hex>".
func (r Record) SeedLine() string {
	seed := r.Seed()
	return r.String() + ", s: " + common.Bytes2Hex(seed[:]) + "\n"
}
