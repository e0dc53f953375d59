package bridge

import (
	"context"
	"math/big"
	"testing"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgraphpay/swapflow/types"
	"github.com/hgraphpay/swapflow/wallet"
)

type fakeBackend struct {
	balance      *big.Int
	tokenBalance *big.Int
	estimate     uint64
	suggest      *big.Int

	receiptStatus uint64
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return big.NewInt(295), nil }
func (f *fakeBackend) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return f.balance, nil
}
func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 0, nil
}
func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	if f.suggest == nil {
		return nil, assert.AnError
	}
	return f.suggest, nil
}
func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*ethtypes.Header, error) {
	return &ethtypes.Header{}, nil
}
func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	if f.estimate == 0 {
		return 0, assert.AnError
	}
	return f.estimate, nil
}
func (f *fakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return common.LeftPadBytes(f.tokenBalance.Bytes(), 32), nil
}
func (f *fakeBackend) SendTransaction(context.Context, *ethtypes.Transaction) error { return nil }
func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*ethtypes.Receipt, error) {
	return &ethtypes.Receipt{Status: f.receiptStatus, BlockNumber: big.NewInt(7), GasUsed: 52_000}, nil
}

type fakeSigner struct {
	sent []*wallet.TxRequest
}

func (f *fakeSigner) Address() common.Address { return common.HexToAddress("0xf39F") }
func (f *fakeSigner) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(295), nil
}
func (f *fakeSigner) SwitchChain(context.Context, *big.Int) error { return nil }
func (f *fakeSigner) SendTransaction(_ context.Context, tx *wallet.TxRequest) (common.Hash, error) {
	f.sent = append(f.sent, tx)
	return common.HexToHash("0xfeed"), nil
}

const depositAddr = "0x000000000000000000000000000000000000bEEF"

func TestSendNativeDeposit(t *testing.T) {
	backend := &fakeBackend{
		balance:       big.NewInt(2_000_000_000_000_000_000),
		receiptStatus: 1,
	}
	signer := &fakeSigner{}
	tr := NewTransferer(backend, signer, nil)

	result := tr.Send(context.Background(), &Intent{
		Network:        types.NetworkHederaMainnet,
		TokenSymbol:    "HBAR",
		Amount:         "1",
		DepositAddress: depositAddr,
	})

	require.True(t, result.Success)
	assert.NotEmpty(t, result.Hash)
	require.Len(t, signer.sent, 1)
	tx := signer.sent[0]
	assert.Equal(t, "1000000000000000000", tx.Value.String())
	assert.Equal(t, uint64(21_000), tx.GasLimit)
	assert.Nil(t, tx.GasPrice)
	assert.Empty(t, tx.Data)
}

func TestSendNativeInsufficientFunds(t *testing.T) {
	backend := &fakeBackend{balance: big.NewInt(1)}
	signer := &fakeSigner{}
	tr := NewTransferer(backend, signer, nil)

	result := tr.Send(context.Background(), &Intent{
		Network:        types.NetworkHederaMainnet,
		TokenSymbol:    "HBAR",
		Amount:         "1",
		DepositAddress: depositAddr,
	})

	assert.False(t, result.Success)
	assert.Equal(t, types.ErrInsufficientFunds, result.Kind)
	assert.Empty(t, signer.sent)
}

func TestSendTokenDeposit(t *testing.T) {
	backend := &fakeBackend{
		tokenBalance:  big.NewInt(50_000_000),
		estimate:      60_000,
		suggest:       big.NewInt(3_000_000_000),
		receiptStatus: 1,
	}
	signer := &fakeSigner{}
	tr := NewTransferer(backend, signer, nil)

	result := tr.Send(context.Background(), &Intent{
		Network:        types.NetworkBSC,
		TokenAddress:   "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
		TokenSymbol:    "USDC",
		TokenDecimals:  6,
		Amount:         "25.5",
		DepositAddress: depositAddr,
	})

	require.True(t, result.Success)
	require.Len(t, signer.sent, 1)
	tx := signer.sent[0]
	assert.Equal(t, common.HexToAddress("0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d"), *tx.To)
	assert.NotEmpty(t, tx.Data)
	assert.Zero(t, tx.Value.Sign())
	assert.Equal(t, uint64(72_000), tx.GasLimit) // estimate + 20%
	assert.Equal(t, "3000000000", tx.GasPrice.String())
}

func TestSendTokenDefaultGasOnEstimateFailure(t *testing.T) {
	backend := &fakeBackend{
		tokenBalance:  big.NewInt(50_000_000),
		suggest:       big.NewInt(3_000_000_000),
		receiptStatus: 1,
	}
	signer := &fakeSigner{}
	tr := NewTransferer(backend, signer, nil)

	result := tr.Send(context.Background(), &Intent{
		Network:        types.NetworkBSC,
		TokenAddress:   "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
		TokenSymbol:    "USDC",
		TokenDecimals:  6,
		Amount:         "25.5",
		DepositAddress: depositAddr,
	})

	require.True(t, result.Success)
	assert.Equal(t, uint64(100_000), signer.sent[0].GasLimit)
}

func TestSendTokenInsufficientBalance(t *testing.T) {
	backend := &fakeBackend{tokenBalance: big.NewInt(1)}
	signer := &fakeSigner{}
	tr := NewTransferer(backend, signer, nil)

	result := tr.Send(context.Background(), &Intent{
		Network:        types.NetworkBSC,
		TokenAddress:   "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
		TokenSymbol:    "USDC",
		TokenDecimals:  6,
		Amount:         "25.5",
		DepositAddress: depositAddr,
	})

	assert.False(t, result.Success)
	assert.Equal(t, types.ErrInsufficientFunds, result.Kind)
	assert.Empty(t, signer.sent)
}

func TestSendRejectsBadInputs(t *testing.T) {
	tr := NewTransferer(&fakeBackend{}, &fakeSigner{}, nil)

	t.Run("bad deposit address", func(t *testing.T) {
		result := tr.Send(context.Background(), &Intent{
			Network:        types.NetworkBSC,
			TokenSymbol:    "BNB",
			Amount:         "1",
			DepositAddress: "not-an-address",
		})
		assert.Equal(t, types.ErrInvalidSwap, result.Kind)
	})

	t.Run("unknown network", func(t *testing.T) {
		result := tr.Send(context.Background(), &Intent{
			Network:        types.Network("ghostnet"),
			Amount:         "1",
			DepositAddress: depositAddr,
		})
		assert.Equal(t, types.ErrInvalidSwap, result.Kind)
	})

	t.Run("garbage amount", func(t *testing.T) {
		result := tr.Send(context.Background(), &Intent{
			Network:        types.NetworkBSC,
			TokenSymbol:    "BNB",
			Amount:         "one",
			DepositAddress: depositAddr,
		})
		assert.Equal(t, types.ErrInvalidSwap, result.Kind)
	})
}

// A reverted deposit keeps its hash so the user can inspect it; success is
// only declared on a clean receipt.
func TestSendRevertedDeposit(t *testing.T) {
	backend := &fakeBackend{
		balance:       big.NewInt(2_000_000_000_000_000_000),
		receiptStatus: 0,
	}
	signer := &fakeSigner{}
	tr := NewTransferer(backend, signer, nil)

	result := tr.Send(context.Background(), &Intent{
		Network:        types.NetworkHederaMainnet,
		TokenSymbol:    "HBAR",
		Amount:         "1",
		DepositAddress: depositAddr,
	})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Hash)
	assert.Equal(t, types.ErrTransactionFailed, result.Kind)
}
