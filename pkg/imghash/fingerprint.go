package imghash

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math/bits"

	"github.com/corona10/goimagehash"

	apperrors "github.com/KevinGliewe/imghash/internal/errors"
)

// Fingerprint is a fixed-length bit vector packed most-significant-bit first:
// bit i lives in byte i/8 at position 7-i%8. Unused trailing bits are zero.
type Fingerprint struct {
	data []byte
	n    int
}

// pack builds a fingerprint from an ordered bit sequence.
func pack(seq []bool) Fingerprint {
	data := make([]byte, byteLen(len(seq)))
	for i, set := range seq {
		if set {
			data[i/8] |= 0x80 >> (i % 8)
		}
	}
	return Fingerprint{data: data, n: len(seq)}
}

func byteLen(n int) int { return (n + 7) / 8 }

// FromBytes rebuilds a fingerprint of bitLen bits from its packed bytes.
func FromBytes(b []byte, bitLen int) (Fingerprint, error) {
	if bitLen < 0 || len(b) != byteLen(bitLen) {
		return Fingerprint{}, apperrors.Newf(apperrors.CodeInvalidEncoding,
			"%d bytes cannot hold a %d-bit fingerprint", len(b), bitLen)
	}
	if rem := bitLen % 8; rem != 0 && b[len(b)-1]&(0xFF>>rem) != 0 {
		return Fingerprint{}, apperrors.Newf(apperrors.CodeInvalidEncoding,
			"padding bits of a %d-bit fingerprint must be zero", bitLen)
	}
	data := make([]byte, len(b))
	copy(data, b)
	return Fingerprint{data: data, n: bitLen}, nil
}

// ParseHex decodes a fingerprint produced by Hex.
func ParseHex(s string, bitLen int) (Fingerprint, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Fingerprint{}, apperrors.Wrapf(err, apperrors.CodeInvalidEncoding, "decode hex fingerprint %q", s)
	}
	return FromBytes(b, bitLen)
}

// BitLen returns the number of bits.
func (f Fingerprint) BitLen() int { return f.n }

// Bytes returns a copy of the packed bytes.
func (f Fingerprint) Bytes() []byte {
	cp := make([]byte, len(f.data))
	copy(cp, f.data)
	return cp
}

// Bit reports whether bit i is set. It panics if i is out of range.
func (f Fingerprint) Bit(i int) bool {
	if i < 0 || i >= f.n {
		panic("imghash: bit index out of range")
	}
	return f.data[i/8]&(0x80>>(i%8)) != 0
}

// Hex returns the bytes as lowercase hex, two characters per byte.
func (f Fingerprint) Hex() string { return hex.EncodeToString(f.data) }

func (f Fingerprint) String() string { return f.Hex() }

// Equal reports whether f and other have the same length and bits.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.n == other.n && bytes.Equal(f.data, other.data)
}

// Distance returns the Hamming distance between f and other. Fingerprints of
// different bit lengths cannot be compared.
func (f Fingerprint) Distance(other Fingerprint) (int, error) {
	if f.n != other.n {
		return 0, apperrors.Newf(apperrors.CodeLengthMismatch,
			"cannot compare %d-bit and %d-bit fingerprints", f.n, other.n)
	}
	dist := 0
	for i, b := range f.data {
		dist += bits.OnesCount8(b ^ other.data[i])
	}
	return dist, nil
}

// ExtImageHash converts f to a goimagehash extended hash of the given kind.
// Words are filled big-endian from the packed bytes, so bit order and
// distances are preserved.
func (f Fingerprint) ExtImageHash(kind goimagehash.Kind) *goimagehash.ExtImageHash {
	words := make([]uint64, (f.n+63)/64)
	buf := make([]byte, len(words)*8)
	copy(buf, f.data)
	for i := range words {
		words[i] = binary.BigEndian.Uint64(buf[i*8:])
	}
	return goimagehash.NewExtImageHash(words, kind, f.n)
}

// FromExtImageHash converts a goimagehash extended hash back to a fingerprint.
func FromExtImageHash(h *goimagehash.ExtImageHash) (Fingerprint, error) {
	n := h.Bits()
	words := h.GetHash()
	if n < 0 || len(words) != (n+63)/64 {
		return Fingerprint{}, apperrors.Newf(apperrors.CodeInvalidEncoding,
			"%d words cannot hold a %d-bit hash", len(words), n)
	}
	buf := make([]byte, len(words)*8)
	for i, w := range words {
		binary.BigEndian.PutUint64(buf[i*8:], w)
	}
	for _, b := range buf[byteLen(n):] {
		if b != 0 {
			return Fingerprint{}, apperrors.Newf(apperrors.CodeInvalidEncoding,
				"padding bits of a %d-bit hash must be zero", n)
		}
	}
	return FromBytes(buf[:byteLen(n)], n)
}
