// Package destination adapts the generated LithiumLink contract binding
// and a transaction signer into the Link interface the relay loop
// consumes: GetHeight, GetMerkleRoot, and a submitting Update that waits
// for its receipt.
package destination

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/clearmatics/lithium/bindings/lithiumlink"
)

// Signer is the subset of transaction-signing behavior the relay's
// destination adapter needs: build transact options whose Signer signs
// the transaction the binding then broadcasts, and wait for the receipt
// of that already-sent transaction.
type Signer interface {
	GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error)
	SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	GetFromAddress() common.Address
}

// Link is the destination-contract surface the relay loop depends on.
type Link interface {
	GetHeight(ctx context.Context) (uint64, error)
	GetMerkleRoot(ctx context.Context, height uint64) (*uint256.Int, error)
	Update(ctx context.Context, prevHeight uint64, pairs []*uint256.Int) (*types.Receipt, error)
}

// ContractLink is Link backed by a deployed LithiumLink contract.
type ContractLink struct {
	contract *lithiumlink.LithiumLink
	signer   Signer
	logger   *zap.Logger
}

// NewContractLink binds to a deployed LithiumLink contract at addr over
// client and wires signer for submitting Update transactions.
func NewContractLink(addr common.Address, client *ethclient.Client, signer Signer, logger *zap.Logger) (*ContractLink, error) {
	contract, err := lithiumlink.NewLithiumLink(addr, client)
	if err != nil {
		return nil, errors.Wrap(err, "bind LithiumLink contract")
	}
	return &ContractLink{contract: contract, signer: signer, logger: logger}, nil
}

// GetHeight returns the destination contract's synced cursor.
func (l *ContractLink) GetHeight(ctx context.Context) (uint64, error) {
	height, err := l.contract.GetHeight(&bind.CallOpts{Context: ctx})
	if err != nil {
		return 0, errors.Wrap(err, "GetHeight")
	}
	return height, nil
}

// GetMerkleRoot returns the root committed for height.
func (l *ContractLink) GetMerkleRoot(ctx context.Context, height uint64) (*uint256.Int, error) {
	root, err := l.contract.GetMerkleRoot(&bind.CallOpts{Context: ctx}, height)
	if err != nil {
		return nil, errors.Wrapf(err, "GetMerkleRoot(%d)", height)
	}
	v, overflow := uint256.FromBig(root)
	if overflow {
		return nil, errors.Errorf("GetMerkleRoot(%d) returned a value exceeding 256 bits", height)
	}
	return v, nil
}

// Update submits a batch of (root, hash) pairs as a single transaction
// and blocks until its receipt is mined.
func (l *ContractLink) Update(ctx context.Context, prevHeight uint64, pairs []*uint256.Int) (*types.Receipt, error) {
	opts, err := l.signer.GetTransactOpts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "build transact opts")
	}

	flat := make([]*big.Int, len(pairs))
	for i, p := range pairs {
		flat[i] = p.ToBig()
	}

	tx, err := l.contract.Update(opts, prevHeight, flat)
	if err != nil {
		return nil, errors.Wrap(err, "submit Update")
	}

	l.logger.Sugar().Infow("submitted Update",
		"prevHeight", prevHeight,
		"pairCount", len(pairs)/2,
		"txHash", tx.Hash().Hex(),
		"from", l.signer.GetFromAddress().Hex(),
	)

	receipt, err := l.signer.SignAndSendTransaction(ctx, tx)
	if err != nil {
		return nil, errors.Wrap(err, "wait for Update receipt")
	}
	return receipt, nil
}
