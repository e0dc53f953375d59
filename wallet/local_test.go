package wallet

import (
	"context"
	"math/big"
	"testing"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hardhat account #0, a well-known throwaway key
const testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

type fakeBackend struct {
	chainID *big.Int
	sent    []*ethtypes.Transaction
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }
func (f *fakeBackend) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return new(big.Int), nil
}
func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 7, nil
}
func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(3_000_000_000), nil
}
func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*ethtypes.Header, error) {
	return &ethtypes.Header{}, nil
}
func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 21_000, nil
}
func (f *fakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, nil
}
func (f *fakeBackend) SendTransaction(_ context.Context, tx *ethtypes.Transaction) error {
	f.sent = append(f.sent, tx)
	return nil
}
func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*ethtypes.Receipt, error) {
	return &ethtypes.Receipt{Status: 1}, nil
}

func TestNewLocalSigner(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(295)}

	s, err := NewLocalSigner(testKeyHex, backend, big.NewInt(295))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), s.Address())

	// 0x prefix is tolerated
	prefixed, err := NewLocalSigner("0x"+testKeyHex, backend, big.NewInt(295))
	require.NoError(t, err)
	assert.Equal(t, s.Address(), prefixed.Address())

	_, err = NewLocalSigner("zz", backend, big.NewInt(295))
	assert.ErrorContains(t, err, "invalid private key")
}

func TestLocalSignerSendTransaction(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(295)}
	s, err := NewLocalSigner(testKeyHex, backend, big.NewInt(295))
	require.NoError(t, err)

	to := common.HexToAddress("0x0000000000000000000000000000000000159398")
	hash, err := s.SendTransaction(context.Background(), &TxRequest{
		To:       &to,
		Value:    big.NewInt(1_000_000),
		GasLimit: 240_000,
		GasPrice: big.NewInt(5_000_000_000),
	})

	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	tx := backend.sent[0]
	assert.Equal(t, hash, tx.Hash())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(240_000), tx.Gas())
	assert.Equal(t, "5000000000", tx.GasPrice().String())
	assert.Equal(t, to, *tx.To())
}

// A nil gas price on the request means the network prices the transaction,
// but a locally signed legacy tx still needs a concrete value; the node's
// suggestion fills it.
func TestLocalSignerFillsGasPrice(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(295)}
	s, err := NewLocalSigner(testKeyHex, backend, big.NewInt(295))
	require.NoError(t, err)

	to := common.HexToAddress("0x0000000000000000000000000000000000159398")
	_, err = s.SendTransaction(context.Background(), &TxRequest{To: &to, GasLimit: 21_000})

	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, "3000000000", backend.sent[0].GasPrice().String())
	assert.Zero(t, backend.sent[0].Value().Sign())
}

func TestLocalSignerSwitchChain(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(295)}
	s, err := NewLocalSigner(testKeyHex, backend, big.NewInt(295))
	require.NoError(t, err)

	assert.NoError(t, s.SwitchChain(context.Background(), big.NewInt(295)))
	assert.ErrorIs(t, s.SwitchChain(context.Background(), big.NewInt(56)), ErrUnrecognizedChain)
}
