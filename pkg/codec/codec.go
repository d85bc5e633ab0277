// Package codec implements the fixed-width numeric and hashing primitives
// that the rest of Lithium builds on: big-endian integer encoders, a
// tolerant hex scanner for chain RPC quantity fields, and the Keccak-256
// wrapper used everywhere a leaf or tree node needs hashing.
package codec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// EncodingError reports a malformed hex string or an out-of-range integer
// passed to one of the encoders below.
type EncodingError struct {
	msg string
}

func (e *EncodingError) Error() string { return e.msg }

func newEncodingError(format string, args ...interface{}) *EncodingError {
	return &EncodingError{msg: fmt.Sprintf(format, args...)}
}

// U32BE encodes x as 4 big-endian bytes.
func U32BE(x uint32) [4]byte {
	var out [4]byte
	out[0] = byte(x >> 24)
	out[1] = byte(x >> 16)
	out[2] = byte(x >> 8)
	out[3] = byte(x)
	return out
}

// U64BE encodes x as 8 big-endian bytes.
func U64BE(x uint64) [8]byte {
	var out [8]byte
	for i := 0; i < 8; i++ {
		out[7-i] = byte(x >> (8 * uint(i)))
	}
	return out
}

// U256BE encodes x as 32 big-endian, left-zero-padded bytes.
func U256BE(x *uint256.Int) [32]byte {
	if x == nil {
		return [32]byte{}
	}
	return x.Bytes32()
}

// ScanHex decodes a `0x`-prefixed hex string into bytes. An odd number of
// hex digits is tolerated by left-padding a single zero nibble, which is
// required for chain quantity fields such as a transaction's `value`
// (e.g. "0x1" must decode as 0x01, not fail as an odd-length string).
func ScanHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, newEncodingError("scan hex %q: %v", s, err)
	}
	return b, nil
}

// Keccak256 hashes data with Keccak-256, independent of go-ethereum's
// RPC/ABI stack so the hot leaf/merkle hashing path carries only a
// minimal hashing dependency.
func Keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// U256FromHex scans a 0x-prefixed hex quantity and range-checks it into a
// uint256.Int. It fails with EncodingError on a malformed hex string or on
// a value longer than 32 bytes.
func U256FromHex(s string) (*uint256.Int, error) {
	b, err := ScanHex(s)
	if err != nil {
		return nil, err
	}
	if len(b) > 32 {
		return nil, newEncodingError("value %q exceeds 256 bits", s)
	}
	return new(uint256.Int).SetBytes(b), nil
}
