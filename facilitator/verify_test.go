package facilitator

import (
	"context"
	"encoding/base64"
	"testing"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgraphpay/swapflow/types"
)

const testOperator = "0.0.4242"

func testService(t *testing.T) *Service {
	t.Helper()
	key, err := hedera.PrivateKeyGenerateEd25519()
	require.NoError(t, err)
	s, err := New(NetworkHederaTestnet, testOperator, key.String(), nil, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

// frozenHbarTransfer builds a frozen transfer paid for by the given account,
// encoded the way clients submit it.
func frozenHbarTransfer(t *testing.T, payer string) string {
	t.Helper()
	payerID, err := hedera.AccountIDFromString(payer)
	require.NoError(t, err)

	tx, err := hedera.NewTransferTransaction().
		AddHbarTransfer(payerID, hedera.NewHbar(-1)).
		AddHbarTransfer(hedera.AccountID{Account: 800}, hedera.NewHbar(1)).
		SetTransactionID(hedera.TransactionIDGenerate(payerID)).
		SetNodeAccountIDs([]hedera.AccountID{{Account: 3}}).
		Freeze()
	require.NoError(t, err)

	raw, err := tx.ToBytes()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func frozenTokenTransfer(t *testing.T, payer, tokenID string) string {
	t.Helper()
	payerID, err := hedera.AccountIDFromString(payer)
	require.NoError(t, err)
	token, err := hedera.TokenIDFromString(tokenID)
	require.NoError(t, err)

	tx, err := hedera.NewTransferTransaction().
		AddTokenTransfer(token, payerID, -100).
		AddTokenTransfer(token, hedera.AccountID{Account: 800}, 100).
		SetTransactionID(hedera.TransactionIDGenerate(payerID)).
		SetNodeAccountIDs([]hedera.AccountID{{Account: 3}}).
		Freeze()
	require.NoError(t, err)

	raw, err := tx.ToBytes()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func exactPayload(transaction string) *types.PaymentPayload {
	return &types.PaymentPayload{
		X402Version: 1,
		Scheme:      string(types.SchemeExact),
		Network:     NetworkHederaTestnet,
		Transaction: transaction,
	}
}

func exactRequirements(asset string) *types.PaymentRequirements {
	return &types.PaymentRequirements{
		Scheme:            string(types.SchemeExact),
		Network:           NetworkHederaTestnet,
		MaxAmountRequired: "100000000",
		PayTo:             "0.0.800",
		Asset:             asset,
		Extra:             map[string]interface{}{"feePayer": testOperator},
	}
}

func TestNewRejectsBadInputs(t *testing.T) {
	key, err := hedera.PrivateKeyGenerateEd25519()
	require.NoError(t, err)

	_, err = New("base-sepolia", testOperator, key.String(), nil, nil)
	assert.ErrorContains(t, err, "unsupported facilitator network")

	_, err = New(NetworkHederaTestnet, "", key.String(), nil, nil)
	assert.ErrorContains(t, err, "operator credentials")

	_, err = New(NetworkHederaTestnet, "not-an-account", key.String(), nil, nil)
	assert.ErrorContains(t, err, "operator account id")

	_, err = New(NetworkHederaTestnet, testOperator, "not-a-key", nil, nil)
	assert.ErrorContains(t, err, "operator key")
}

func TestVerifyValidNativePayment(t *testing.T) {
	s := testService(t)
	payload := exactPayload(frozenHbarTransfer(t, testOperator))

	resp := s.Verify(context.Background(), payload, exactRequirements(types.NativeAssetMarker))

	require.True(t, resp.IsValid)
	assert.Empty(t, resp.InvalidReason)
	assert.Equal(t, testOperator, resp.Payer)
}

func TestVerifyValidTokenPayment(t *testing.T) {
	s := testService(t)
	payload := exactPayload(frozenTokenTransfer(t, testOperator, "0.0.731861"))

	resp := s.Verify(context.Background(), payload, exactRequirements("0.0.731861"))

	require.True(t, resp.IsValid)
	assert.Equal(t, testOperator, resp.Payer)
}

func TestVerifyRejectsScheme(t *testing.T) {
	s := testService(t)
	payload := exactPayload(frozenHbarTransfer(t, testOperator))
	payload.Scheme = "permit"

	resp := s.Verify(context.Background(), payload, exactRequirements(types.NativeAssetMarker))

	require.False(t, resp.IsValid)
	assert.Equal(t, types.ReasonInvalidScheme, resp.InvalidReason)
}

func TestVerifyRejectsNetworkMismatch(t *testing.T) {
	s := testService(t)
	payload := exactPayload(frozenHbarTransfer(t, testOperator))

	t.Run("payload disagrees with requirements", func(t *testing.T) {
		p := *payload
		p.Network = NetworkHederaMainnet
		resp := s.Verify(context.Background(), &p, exactRequirements(types.NativeAssetMarker))
		require.False(t, resp.IsValid)
		assert.Equal(t, types.ReasonInvalidNetwork, resp.InvalidReason)
	})

	t.Run("both disagree with the service", func(t *testing.T) {
		p := *payload
		p.Network = NetworkHederaMainnet
		req := exactRequirements(types.NativeAssetMarker)
		req.Network = NetworkHederaMainnet
		resp := s.Verify(context.Background(), &p, req)
		require.False(t, resp.IsValid)
		assert.Equal(t, types.ReasonInvalidNetwork, resp.InvalidReason)
	})
}

func TestVerifyRejectsUndecodableTransaction(t *testing.T) {
	s := testService(t)
	req := exactRequirements(types.NativeAssetMarker)

	t.Run("not base64", func(t *testing.T) {
		resp := s.Verify(context.Background(), exactPayload("%%%not-base64%%%"), req)
		require.False(t, resp.IsValid)
		assert.Equal(t, types.ReasonInvalidPayloadTransaction, resp.InvalidReason)
	})

	t.Run("base64 but not a transaction", func(t *testing.T) {
		garbage := base64.StdEncoding.EncodeToString([]byte("hello world"))
		resp := s.Verify(context.Background(), exactPayload(garbage), req)
		require.False(t, resp.IsValid)
		assert.Equal(t, types.ReasonInvalidPayloadTransaction, resp.InvalidReason)
	})
}

// A payload built against the wrong fee payer must be rejected even when
// everything else lines up: the facilitator only ever co-signs transactions
// it is the declared payer of.
func TestVerifyRejectsForeignFeePayer(t *testing.T) {
	s := testService(t)
	payload := exactPayload(frozenHbarTransfer(t, "0.0.9999"))

	resp := s.Verify(context.Background(), payload, exactRequirements(types.NativeAssetMarker))

	require.False(t, resp.IsValid)
	assert.Equal(t, types.ReasonInvalidPayloadSignature, resp.InvalidReason)
}

func TestVerifyRejectsFeePayerAbsentFromRequirements(t *testing.T) {
	s := testService(t)
	payload := exactPayload(frozenHbarTransfer(t, testOperator))
	req := exactRequirements(types.NativeAssetMarker)
	req.Extra = nil

	resp := s.Verify(context.Background(), payload, req)

	require.False(t, resp.IsValid)
	assert.Equal(t, types.ReasonInvalidPayloadSignature, resp.InvalidReason)
}

func TestVerifyAssetMismatch(t *testing.T) {
	s := testService(t)

	t.Run("token transfer against a native requirement", func(t *testing.T) {
		payload := exactPayload(frozenTokenTransfer(t, testOperator, "0.0.731861"))
		resp := s.Verify(context.Background(), payload, exactRequirements(types.NativeAssetMarker))
		require.False(t, resp.IsValid)
		assert.Equal(t, types.ReasonAssetMismatch, resp.InvalidReason)
	})

	t.Run("malformed token id in requirements", func(t *testing.T) {
		payload := exactPayload(frozenTokenTransfer(t, testOperator, "0.0.731861"))
		resp := s.Verify(context.Background(), payload, exactRequirements("SAUCE"))
		require.False(t, resp.IsValid)
		assert.Equal(t, types.ReasonAssetMismatch, resp.InvalidReason)
	})
}

func TestSupported(t *testing.T) {
	s := testService(t)

	kind := s.Supported()

	assert.Equal(t, 1, kind.X402Version)
	assert.Equal(t, "exact", kind.Scheme)
	assert.Equal(t, NetworkHederaTestnet, kind.Network)
	assert.Equal(t, testOperator, kind.Extra["feePayer"])
}
