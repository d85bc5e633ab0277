// Package awssigner implements destination.Signer against a key held in
// AWS KMS, recovering the Ethereum recovery id locally since KMS's
// ECDSA_SHA_256 signing does not return one.
package awssigner

import (
	"context"
	"crypto/ecdsa"
	"encoding/asn1"
	"math/big"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var secp256k1HalfOrder = new(big.Int).Rsh(crypto.S256().Params().N, 1)

type asn1EcSig struct {
	R, S asn1.RawValue
}

type asn1EcPublicKeyInfo struct {
	Algorithm asn1EcPublicKeyAlgorithm
	PublicKey asn1.BitString
}

type asn1EcPublicKeyAlgorithm struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}

// AWSSigner implements destination.Signer by asking KMS to sign each
// transaction's digest and recovering the Ethereum v from the known
// public key.
type AWSSigner struct {
	client    *kms.Client
	keyID     string
	pubKey    *ecdsa.PublicKey
	from      common.Address
	chainID   *big.Int
	ethClient *ethclient.Client
	logger    *zap.Logger
}

// NewAWSSigner builds a signer for keyID, fetching its public key from
// KMS once and deriving the Ethereum address from it.
func NewAWSSigner(ctx context.Context, awsCfg aws.Config, keyID string, ethClient *ethclient.Client, logger *zap.Logger) (*AWSSigner, error) {
	client := kms.NewFromConfig(awsCfg)

	pubKey, err := fetchPublicKey(ctx, client, keyID)
	if err != nil {
		return nil, errors.Wrap(err, "fetch KMS public key")
	}

	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get chain id")
	}

	return &AWSSigner{
		client:    client,
		keyID:     keyID,
		pubKey:    pubKey,
		from:      crypto.PubkeyToAddress(*pubKey),
		chainID:   chainID,
		ethClient: ethClient,
		logger:    logger,
	}, nil
}

// GetTransactOpts returns transact options whose Signer callback routes
// the digest through KMS, so NoSend is left false: contract.Update both
// builds and broadcasts in one call.
func (s *AWSSigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	signer := gethtypes.LatestSignerForChainID(s.chainID)
	return &bind.TransactOpts{
		Context: ctx,
		From:    s.from,
		Signer: func(addr common.Address, tx *gethtypes.Transaction) (*gethtypes.Transaction, error) {
			if addr != s.from {
				return nil, errors.Errorf("unexpected signer address %s", addr)
			}
			hash := signer.Hash(tx)
			sig, err := s.sign(ctx, hash.Bytes())
			if err != nil {
				return nil, errors.Wrap(err, "sign with KMS")
			}
			return tx.WithSignature(signer, sig)
		},
	}, nil
}

// SignAndSendTransaction waits for tx's receipt; tx was already signed
// and broadcast by GetTransactOpts's Signer during contract.Update.
func (s *AWSSigner) SignAndSendTransaction(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, s.ethClient, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "wait mined %s", tx.Hash())
	}
	return receipt, nil
}

// GetFromAddress returns the address derived from the KMS key's public key.
func (s *AWSSigner) GetFromAddress() common.Address {
	return s.from
}

// sign asks KMS to sign a 32-byte digest and returns a 65-byte Ethereum
// signature (R || S || V) with the recovery id brute-forced against the
// known public key, since KMS's ECDSA_SHA_256 scheme never returns one.
func (s *AWSSigner) sign(ctx context.Context, digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, errors.Errorf("digest must be 32 bytes, got %d", len(digest))
	}

	out, err := s.client.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(s.keyID),
		Message:          digest,
		MessageType:      types.MessageTypeDigest,
		SigningAlgorithm: types.SigningAlgorithmSpecEcdsaSha256,
	})
	if err != nil {
		return nil, errors.Wrap(err, "kms Sign")
	}

	var parsed asn1EcSig
	if _, err := asn1.Unmarshal(out.Signature, &parsed); err != nil {
		return nil, errors.Wrap(err, "parse DER signature")
	}

	r := new(big.Int).SetBytes(parsed.R.Bytes)
	sVal := new(big.Int).SetBytes(parsed.S.Bytes)

	// Ethereum requires the canonical low-S form.
	if sVal.Cmp(secp256k1HalfOrder) > 0 {
		sVal = new(big.Int).Sub(crypto.S256().Params().N, sVal)
	}

	rBytes := make([]byte, 32)
	sBytes := make([]byte, 32)
	r.FillBytes(rBytes)
	sVal.FillBytes(sBytes)

	sig := make([]byte, 65)
	copy(sig[0:32], rBytes)
	copy(sig[32:64], sBytes)

	for recID := byte(0); recID < 4; recID++ {
		sig[64] = recID
		recovered, err := crypto.Ecrecover(digest, sig)
		if err != nil {
			continue
		}
		pub, err := crypto.UnmarshalPubkey(recovered)
		if err != nil {
			continue
		}
		if pub.X.Cmp(s.pubKey.X) == 0 && pub.Y.Cmp(s.pubKey.Y) == 0 {
			return sig, nil
		}
	}

	return nil, errors.New("could not recover matching public key from KMS signature")
}

func fetchPublicKey(ctx context.Context, client *kms.Client, keyID string) (*ecdsa.PublicKey, error) {
	out, err := client.GetPublicKey(ctx, &kms.GetPublicKeyInput{KeyId: aws.String(keyID)})
	if err != nil {
		return nil, errors.Wrap(err, "kms GetPublicKey")
	}

	var info asn1EcPublicKeyInfo
	if _, err := asn1.Unmarshal(out.PublicKey, &info); err != nil {
		return nil, errors.Wrap(err, "parse DER public key")
	}

	pub, err := crypto.UnmarshalPubkey(info.PublicKey.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal secp256k1 public key")
	}
	return pub, nil
}
