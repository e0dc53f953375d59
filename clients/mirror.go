package clients

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hgraphpay/swapflow/types"
)

// Mirror-node REST endpoints per network.
const (
	mirrorMainnetURL = "https://mainnet-public.mirrornode.hedera.com"
	mirrorTestnetURL = "https://testnet.mirrornode.hedera.com"
)

// MirrorClient reads account and token balances from the hash-graph chain's
// public indexing service. Balances come back in the ledger base (tinybars
// for hbar), not the contract-call base.
type MirrorClient struct {
	baseURL string
	http    *http.Client
}

// NewMirrorClient builds a client for the network's public mirror node.
func NewMirrorClient(network types.Network) *MirrorClient {
	base := mirrorMainnetURL
	if network == types.NetworkHederaTestnet {
		base = mirrorTestnetURL
	}
	return NewMirrorClientWithURL(base)
}

// NewMirrorClientWithURL builds a client against a specific mirror endpoint.
func NewMirrorClientWithURL(baseURL string) *MirrorClient {
	return &MirrorClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *MirrorClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror node request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mirror node returned %d for %s", resp.StatusCode, path)
	}
	return body, nil
}

// AccountBalanceTinybar returns an account's hbar balance in tinybars.
// The account may be given in ledger form ("0.0.x") or as an EVM address.
func (m *MirrorClient) AccountBalanceTinybar(ctx context.Context, account string) (*big.Int, error) {
	body, err := m.get(ctx, "/api/v1/accounts/"+url.PathEscape(account))
	if err != nil {
		return nil, err
	}
	balance := gjson.GetBytes(body, "balance.balance")
	if !balance.Exists() {
		return nil, fmt.Errorf("mirror node response missing balance for %s", account)
	}
	return big.NewInt(balance.Int()), nil
}

// TokenBalance returns an account's balance of one token, in the token's
// smallest units.
func (m *MirrorClient) TokenBalance(ctx context.Context, account, tokenID string) (*big.Int, error) {
	path := fmt.Sprintf("/api/v1/accounts/%s/tokens?token.id=%s", url.PathEscape(account), url.QueryEscape(tokenID))
	body, err := m.get(ctx, path)
	if err != nil {
		return nil, err
	}
	tokens := gjson.GetBytes(body, "tokens")
	if !tokens.Exists() || len(tokens.Array()) == 0 {
		// not associated: the account holds none of this token
		return new(big.Int), nil
	}
	return big.NewInt(tokens.Array()[0].Get("balance").Int()), nil
}
