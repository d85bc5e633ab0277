package codec

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestU32BE(t *testing.T) {
	require.Equal(t, [4]byte{0x00, 0x00, 0x00, 0x01}, U32BE(1))
	require.Equal(t, [4]byte{0xff, 0xff, 0xff, 0xff}, U32BE(0xffffffff))
}

func TestU64BE(t *testing.T) {
	require.Equal(t, [8]byte{0, 0, 0, 0, 0, 0, 0, 10}, U64BE(10))
}

func TestU256BE(t *testing.T) {
	var want [32]byte
	want[31] = 0x2a
	require.Equal(t, want, U256BE(uint256.NewInt(42)))
}

func TestScanHexEvenLength(t *testing.T) {
	b, err := ScanHex("0x48656c6c6f")
	require.NoError(t, err)
	require.Equal(t, "Hello", string(b))
}

func TestScanHexOddLengthIsLeftPadded(t *testing.T) {
	// "0x1" must decode the same as "0x01", not fail as odd-length hex.
	b, err := ScanHex("0x1")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, b)
}

func TestScanHexInvalid(t *testing.T) {
	_, err := ScanHex("0xzz")
	require.Error(t, err)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
}

func TestKeccak256DeterministicAndNonZero(t *testing.T) {
	h1 := Keccak256([]byte("panautomata"))
	h2 := Keccak256([]byte("panautomata"))
	require.Equal(t, h1, h2)
	require.NotEqual(t, [32]byte{}, h1)
}

func TestKeccak256Concatenates(t *testing.T) {
	a := Keccak256([]byte("hello"))
	b := Keccak256([]byte("hel"), []byte("lo"))
	require.Equal(t, a, b)
}

func TestU256FromHex(t *testing.T) {
	v, err := U256FromHex("0x0")
	require.NoError(t, err)
	require.True(t, v.IsZero())

	v, err = U256FromHex("0xff")
	require.NoError(t, err)
	require.Equal(t, uint64(255), v.Uint64())
}
