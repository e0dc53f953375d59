// Package pools discovers swap pools from the DEX REST API and caches the
// list under a TTL so repeated quote/route lookups do not hammer the API.
package pools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tidwall/gjson"

	"github.com/hgraphpay/swapflow/chain"
	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/types"
)

// DefaultTTL is how long a fetched pool list stays fresh.
const DefaultTTL = 5 * time.Minute

const poolsKey = "pools"

// PoolToken is one side of a pool pair.
type PoolToken struct {
	Address  string
	ID       string
	Symbol   string
	Decimals int
}

// Pool is one discovered liquidity pool.
type Pool struct {
	ID       string
	Contract string
	TokenA   PoolToken
	TokenB   PoolToken
	Fee      int
}

// Discovery fetches and caches the pool list for one network. The cache is
// an owned object, not process state; two Discovery instances never share
// entries.
type Discovery struct {
	network types.Network
	baseURL string
	httpc   *http.Client
	cache   *gocache.Cache
	log     logger.Logger
}

// NewDiscovery builds a Discovery against the given API base URL. A zero ttl
// means DefaultTTL.
func NewDiscovery(network types.Network, baseURL string, ttl time.Duration, log logger.Logger) *Discovery {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Discovery{
		network: network,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		cache:   gocache.New(ttl, 2*ttl),
		log:     log,
	}
}

// Pools returns the pool list, from cache when fresh.
func (d *Discovery) Pools(ctx context.Context) ([]Pool, error) {
	if cached, ok := d.cache.Get(poolsKey); ok {
		return cached.([]Pool), nil
	}

	pools, err := d.fetch(ctx)
	if err != nil {
		return nil, err
	}
	d.cache.SetDefault(poolsKey, pools)
	d.log.Debug("pool list refreshed", map[string]any{
		"network": d.network,
		"pools":   len(pools),
	})
	return pools, nil
}

// Invalidate drops the cached list so the next call refetches.
func (d *Discovery) Invalidate() {
	d.cache.Delete(poolsKey)
}

func (d *Discovery) fetch(ctx context.Context) ([]Pool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/api/v1/pools", nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch pools: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch pools: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pools response: %w", err)
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("unexpected pools response shape")
	}

	var pools []Pool
	parsed.ForEach(func(_, item gjson.Result) bool {
		pools = append(pools, Pool{
			ID:       item.Get("id").String(),
			Contract: item.Get("contractId").String(),
			TokenA:   parseToken(item.Get("tokenA")),
			TokenB:   parseToken(item.Get("tokenB")),
			Fee:      int(item.Get("fee").Int()),
		})
		return true
	})
	return pools, nil
}

func parseToken(r gjson.Result) PoolToken {
	return PoolToken{
		Address:  r.Get("evmAddress").String(),
		ID:       r.Get("id").String(),
		Symbol:   r.Get("symbol").String(),
		Decimals: int(r.Get("decimals").Int()),
	}
}

// FindPair returns the first pool whose two sides match the given token
// addresses, in either order. Native sentinels are matched through the
// chain's wrapped-native address.
func (d *Discovery) FindPair(ctx context.Context, tokenA, tokenB string) (Pool, bool, error) {
	pools, err := d.Pools(ctx)
	if err != nil {
		return Pool{}, false, err
	}
	a := d.resolve(tokenA)
	b := d.resolve(tokenB)
	for _, pool := range pools {
		pa := strings.ToLower(pool.TokenA.Address)
		pb := strings.ToLower(pool.TokenB.Address)
		if (pa == a && pb == b) || (pa == b && pb == a) {
			return pool, true, nil
		}
	}
	return Pool{}, false, nil
}

func (d *Discovery) resolve(token string) string {
	if chain.IsNative(token, "", d.network) {
		if wrapped := chain.WrappedNativeFor(d.network); wrapped != "" {
			return strings.ToLower(wrapped)
		}
	}
	return strings.ToLower(token)
}
