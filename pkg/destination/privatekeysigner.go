package destination

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PrivateKeySigner implements Signer by holding the raw ECDSA key and
// broadcasting fully-signed transactions directly, the simplest signer
// for a relay operator who does not delegate to a remote signing
// service.
type PrivateKeySigner struct {
	key       *ecdsa.PrivateKey
	from      common.Address
	chainID   *big.Int
	ethClient *ethclient.Client
	logger    *zap.Logger
}

// NewPrivateKeySigner loads a hex-encoded private key, written without a
// 0x prefix, and derives its chain ID from ethClient.
func NewPrivateKeySigner(hexKey string, ethClient *ethclient.Client, logger *zap.Logger) (*PrivateKeySigner, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}

	chainID, err := ethClient.ChainID(context.Background())
	if err != nil {
		return nil, errors.Wrap(err, "get chain id")
	}

	return &PrivateKeySigner{
		key:       key,
		from:      crypto.PubkeyToAddress(key.PublicKey),
		chainID:   chainID,
		ethClient: ethClient,
		logger:    logger,
	}, nil
}

// GetTransactOpts returns transact options whose Signer fully signs the
// transaction, so NoSend is left false: contract.Update both builds and
// broadcasts in one call, and SignAndSendTransaction only waits for the
// receipt of the tx it's handed.
func (s *PrivateKeySigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "build transact opts")
	}
	opts.Context = ctx
	return opts, nil
}

// SignAndSendTransaction waits for tx's receipt; tx was already signed
// and broadcast by GetTransactOpts's Signer during contract.Update.
func (s *PrivateKeySigner) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, s.ethClient, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "wait mined %s", tx.Hash())
	}
	return receipt, nil
}

// GetFromAddress returns the signer's derived address.
func (s *PrivateKeySigner) GetFromAddress() common.Address {
	return s.from
}
