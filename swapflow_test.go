package swapflow

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgraphpay/swapflow/bridge"
	"github.com/hgraphpay/swapflow/engine"
	"github.com/hgraphpay/swapflow/types"
	"github.com/hgraphpay/swapflow/wallet"
)

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
	return 0, nil
}
func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(3_000_000_000), nil
}
func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*ethtypes.Header, error) {
	return &ethtypes.Header{}, nil
}
func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 200_000, nil
}
func (f *fakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, nil
}
func (f *fakeBackend) SendTransaction(_ context.Context, tx *ethtypes.Transaction) error {
	f.sent = append(f.sent, tx)
	return nil
}
func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*ethtypes.Receipt, error) {
	return &ethtypes.Receipt{Status: 1, BlockNumber: big.NewInt(44), GasUsed: 180_000}, nil
}

func mirrorWithBalance(t *testing.T, tinybars string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balance":{"balance":` + tinybars + `}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func hederaFacade(t *testing.T, backend *fakeBackend, mirrorURL string) (*Swapflow, wallet.Signer) {
	t.Helper()
	signer, err := wallet.NewLocalSigner(testKeyHex, backend, big.NewInt(295))
	require.NoError(t, err)

	s := New()
	err = s.AddNetworkWithBackend(types.NetworkHederaMainnet, NetworkConfig{
		Signer:    signer,
		MirrorURL: mirrorURL,
	}, backend)
	require.NoError(t, err)
	return s, signer
}

// Full native-in swap through the facade: plan, balance check against the
// mirror node, network guard and submission over a single fake backend.
func TestSwapEndToEnd(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(295)}
	// 1 HBAR in tinybars, plenty for a 0.01 swap
	s, signer := hederaFacade(t, backend, mirrorWithBalance(t, "100000000").URL)

	intent := &types.SwapIntent{
		Network:          types.NetworkHederaMainnet,
		TokenInAddress:   "0x0000000000000000000000000000000000000000",
		TokenInSymbol:    "HBAR",
		TokenInDecimals:  8,
		TokenOutAddress:  "0x00000000000000000000000000000000000cba44",
		TokenOutSymbol:   "SAUCE",
		TokenOutDecimals: 6,
		AmountIn:         "0.01",
		ExactInput:       true,
		Router:           "0x0000000000000000000000000000000000159398",
		RouterVersion:    types.RouterV2,
	}

	result := s.Swap(context.Background(), intent, engine.Account{
		EVMAddress: signer.Address(),
		LedgerID:   "0.0.4242",
	})

	require.True(t, result.Success, "swap failed: %s", result.Error)
	assert.NotEmpty(t, result.Hash)
	require.NotNil(t, result.Receipt)
	assert.Equal(t, uint64(1), result.Receipt.Status)

	require.Len(t, backend.sent, 1)
	assert.Equal(t, "10000000000000000", backend.sent[0].Value().String())

	stored, ok := s.Store().Result()
	require.True(t, ok)
	assert.True(t, stored.Success)
}

func TestSwapInsufficientMirrorBalance(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(295)}
	// 100 tinybars cannot fund a 0.01 HBAR swap
	s, signer := hederaFacade(t, backend, mirrorWithBalance(t, "100").URL)

	result := s.Swap(context.Background(), &types.SwapIntent{
		Network:          types.NetworkHederaMainnet,
		TokenInAddress:   "0x0000000000000000000000000000000000000000",
		TokenInSymbol:    "HBAR",
		TokenInDecimals:  8,
		TokenOutAddress:  "0x00000000000000000000000000000000000cba44",
		TokenOutSymbol:   "SAUCE",
		TokenOutDecimals: 6,
		AmountIn:         "0.01",
		ExactInput:       true,
		Router:           "0x0000000000000000000000000000000000159398",
		RouterVersion:    types.RouterV2,
	}, engine.Account{EVMAddress: signer.Address(), LedgerID: "0.0.4242"})

	assert.False(t, result.Success)
	assert.Equal(t, types.ErrInsufficientFunds, result.Kind)
	assert.Empty(t, backend.sent)
}

func TestAddNetworkValidation(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(295)}
	signer, err := wallet.NewLocalSigner(testKeyHex, backend, big.NewInt(295))
	require.NoError(t, err)

	s := New()

	err = s.AddNetworkWithBackend(types.NetworkHederaMainnet, NetworkConfig{}, backend)
	assert.ErrorContains(t, err, "signer is required")

	err = s.AddNetworkWithBackend(types.Network("ghostnet"), NetworkConfig{Signer: signer}, backend)
	assert.ErrorContains(t, err, "unsupported network")
}

func TestIsNetworkSupported(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(295)}
	s, _ := hederaFacade(t, backend, "")

	assert.True(t, s.IsNetworkSupported(types.NetworkHederaMainnet))
	assert.False(t, s.IsNetworkSupported(types.NetworkBSC))
	assert.False(t, s.IsNetworkSupported(types.Network("ghostnet")))
}

func TestSendBridgeDepositUnknownNetwork(t *testing.T) {
	s := New()

	result := s.SendBridgeDeposit(context.Background(), &bridge.Intent{
		Network:        types.NetworkBSC,
		TokenSymbol:    "BNB",
		Amount:         "1",
		DepositAddress: "0x000000000000000000000000000000000000bEEF",
	})

	assert.False(t, result.Success)
	assert.Equal(t, types.ErrInvalidSwap, result.Kind)
}
