package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/hgraphpay/swapflow/clients"
)

// LocalSigner is a key-in-process Signer for server-side and CLI use. It
// signs legacy transactions against a single backend; SwitchChain only
// succeeds when the requested chain is the one the backend serves.
type LocalSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
	backend clients.Backend
	chainID *big.Int
}

// NewLocalSigner parses a hex private key and binds it to a backend.
func NewLocalSigner(privateKeyHex string, backend clients.Backend, chainID *big.Int) (*LocalSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &LocalSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		backend: backend,
		chainID: chainID,
	}, nil
}

func (s *LocalSigner) Address() common.Address { return s.address }

func (s *LocalSigner) ChainID(ctx context.Context) (*big.Int, error) {
	if s.chainID != nil {
		return s.chainID, nil
	}
	return s.backend.ChainID(ctx)
}

func (s *LocalSigner) SwitchChain(ctx context.Context, chainID *big.Int) error {
	current, err := s.ChainID(ctx)
	if err != nil {
		return err
	}
	if current.Cmp(chainID) != 0 {
		return ErrUnrecognizedChain
	}
	return nil
}

func (s *LocalSigner) SendTransaction(ctx context.Context, req *TxRequest) (common.Hash, error) {
	nonce, err := s.backend.PendingNonceAt(ctx, s.address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice := req.GasPrice
	if gasPrice == nil {
		// network-priced chains still need a value on a locally signed
		// legacy tx, so fall back to the node's suggestion
		gasPrice, err = s.backend.SuggestGasPrice(ctx)
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
		}
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	tx := ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		To:       req.To,
		Value:    value,
		Gas:      req.GasLimit,
		GasPrice: gasPrice,
		Data:     req.Data,
	})

	chainID, err := s.ChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	signed, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(chainID), s.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signed.Hash(), nil
}
