package awssigner

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestLowSCanonicalization(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	digest := crypto.Keccak256([]byte("lithium"))
	sig, err := crypto.Sign(digest, key)
	require.NoError(t, err)

	s := new(big.Int).SetBytes(sig[32:64])
	if s.Cmp(secp256k1HalfOrder) > 0 {
		s = new(big.Int).Sub(crypto.S256().Params().N, s)
	}
	require.True(t, s.Cmp(secp256k1HalfOrder) <= 0)

	pub := &key.PublicKey
	sBytes := make([]byte, 32)
	s.FillBytes(sBytes)
	canonical := append(append([]byte{}, sig[0:32]...), sBytes...)
	canonical = append(canonical, 0)

	found := false
	for recID := byte(0); recID < 4; recID++ {
		canonical[64] = recID
		recovered, err := crypto.Ecrecover(digest, canonical)
		if err != nil {
			continue
		}
		rp, err := crypto.UnmarshalPubkey(recovered)
		if err != nil {
			continue
		}
		if rp.X.Cmp(pub.X) == 0 && rp.Y.Cmp(pub.Y) == 0 {
			found = true
			break
		}
	}
	require.True(t, found, "expected to recover a matching public key for one of the four recovery ids")
}
