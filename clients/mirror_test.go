package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mirrorServer(t *testing.T, handler http.HandlerFunc) *MirrorClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewMirrorClientWithURL(srv.URL)
}

func TestAccountBalanceTinybar(t *testing.T) {
	m := mirrorServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/accounts/0.0.4242", r.URL.Path)
		w.Write([]byte(`{"account":"0.0.4242","balance":{"balance":123456789,"timestamp":"1.0"}}`))
	})

	balance, err := m.AccountBalanceTinybar(context.Background(), "0.0.4242")

	require.NoError(t, err)
	assert.Equal(t, "123456789", balance.String())
}

func TestAccountBalanceMissingField(t *testing.T) {
	m := mirrorServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"account":"0.0.4242"}`))
	})

	_, err := m.AccountBalanceTinybar(context.Background(), "0.0.4242")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing balance")
}

func TestAccountBalanceHTTPError(t *testing.T) {
	m := mirrorServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := m.AccountBalanceTinybar(context.Background(), "0.0.404")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestTokenBalance(t *testing.T) {
	m := mirrorServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0.0.731861", r.URL.Query().Get("token.id"))
		w.Write([]byte(`{"tokens":[{"token_id":"0.0.731861","balance":5500000}]}`))
	})

	balance, err := m.TokenBalance(context.Background(), "0.0.4242", "0.0.731861")

	require.NoError(t, err)
	assert.Equal(t, "5500000", balance.String())
}

// An account that never associated with the token gets an empty token list
// back; that reads as a zero balance, not an error.
func TestTokenBalanceUnassociated(t *testing.T) {
	m := mirrorServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tokens":[]}`))
	})

	balance, err := m.TokenBalance(context.Background(), "0.0.4242", "0.0.731861")

	require.NoError(t, err)
	assert.Zero(t, balance.Sign())
}
