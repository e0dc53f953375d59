package clients

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20ABIJSON = `[
  {"name":"balanceOf","type":"function","stateMutability":"view","inputs":[
    {"name":"owner","type":"address"}],
   "outputs":[{"name":"balance","type":"uint256"}]},
  {"name":"allowance","type":"function","stateMutability":"view","inputs":[
    {"name":"owner","type":"address"},
    {"name":"spender","type":"address"}],
   "outputs":[{"name":"remaining","type":"uint256"}]},
  {"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[
    {"name":"spender","type":"address"},
    {"name":"amount","type":"uint256"}],
   "outputs":[{"name":"success","type":"bool"}]},
  {"name":"transfer","type":"function","stateMutability":"nonpayable","inputs":[
    {"name":"to","type":"address"},
    {"name":"amount","type":"uint256"}],
   "outputs":[{"name":"success","type":"bool"}]},
  {"name":"decimals","type":"function","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint8"}]}
]`

var erc20ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// ERC20 wraps read calls and call-data packing for one token contract.
// Approve and transfer transactions are built here but submitted through
// the wallet boundary.
type ERC20 struct {
	addr    common.Address
	backend Backend
}

// NewERC20 binds a token contract to a backend.
func NewERC20(tokenAddress string, backend Backend) ERC20 {
	return ERC20{addr: common.HexToAddress(tokenAddress), backend: backend}
}

func (e ERC20) Address() common.Address { return e.addr }

func (e ERC20) call(ctx context.Context, method string, args ...interface{}) ([]byte, error) {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	return e.backend.CallContract(ctx, ethereum.CallMsg{To: &e.addr, Data: data}, nil)
}

// BalanceOf returns the owner's token balance in smallest units.
func (e ERC20) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := e.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	return new(big.Int).SetBytes(out), nil
}

// Allowance returns the amount spender may currently move on behalf of
// owner.
func (e ERC20) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	out, err := e.call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("allowance: %w", err)
	}
	return new(big.Int).SetBytes(out), nil
}

// Decimals reads the token's decimal base.
func (e ERC20) Decimals(ctx context.Context) (int, error) {
	out, err := e.call(ctx, "decimals")
	if err != nil {
		return 0, fmt.Errorf("decimals: %w", err)
	}
	return int(new(big.Int).SetBytes(out).Int64()), nil
}

// ApproveCalldata packs approve(spender, amount).
func (e ERC20) ApproveCalldata(spender common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("approve", spender, amount)
}

// TransferCalldata packs transfer(to, amount).
func (e ERC20) TransferCalldata(to common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("transfer", to, amount)
}
