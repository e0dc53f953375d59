package router

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const routerABIJSON = `[
  {"name":"swapExactETHForTokens","type":"function","stateMutability":"payable","inputs":[
    {"name":"amountOutMin","type":"uint256"},
    {"name":"path","type":"address[]"},
    {"name":"to","type":"address"},
    {"name":"deadline","type":"uint256"}],
   "outputs":[{"name":"amounts","type":"uint256[]"}]},
  {"name":"swapETHForExactTokens","type":"function","stateMutability":"payable","inputs":[
    {"name":"amountOut","type":"uint256"},
    {"name":"path","type":"address[]"},
    {"name":"to","type":"address"},
    {"name":"deadline","type":"uint256"}],
   "outputs":[{"name":"amounts","type":"uint256[]"}]},
  {"name":"swapExactTokensForETH","type":"function","stateMutability":"nonpayable","inputs":[
    {"name":"amountIn","type":"uint256"},
    {"name":"amountOutMin","type":"uint256"},
    {"name":"path","type":"address[]"},
    {"name":"to","type":"address"},
    {"name":"deadline","type":"uint256"}],
   "outputs":[{"name":"amounts","type":"uint256[]"}]},
  {"name":"swapTokensForExactETH","type":"function","stateMutability":"nonpayable","inputs":[
    {"name":"amountOut","type":"uint256"},
    {"name":"amountInMax","type":"uint256"},
    {"name":"path","type":"address[]"},
    {"name":"to","type":"address"},
    {"name":"deadline","type":"uint256"}],
   "outputs":[{"name":"amounts","type":"uint256[]"}]},
  {"name":"swapExactTokensForTokens","type":"function","stateMutability":"nonpayable","inputs":[
    {"name":"amountIn","type":"uint256"},
    {"name":"amountOutMin","type":"uint256"},
    {"name":"path","type":"address[]"},
    {"name":"to","type":"address"},
    {"name":"deadline","type":"uint256"}],
   "outputs":[{"name":"amounts","type":"uint256[]"}]},
  {"name":"swapTokensForExactTokens","type":"function","stateMutability":"nonpayable","inputs":[
    {"name":"amountOut","type":"uint256"},
    {"name":"amountInMax","type":"uint256"},
    {"name":"path","type":"address[]"},
    {"name":"to","type":"address"},
    {"name":"deadline","type":"uint256"}],
   "outputs":[{"name":"amounts","type":"uint256[]"}]},
  {"name":"exactInputSingle","type":"function","stateMutability":"payable","inputs":[
    {"name":"params","type":"tuple","components":[
      {"name":"tokenIn","type":"address"},
      {"name":"tokenOut","type":"address"},
      {"name":"fee","type":"uint24"},
      {"name":"recipient","type":"address"},
      {"name":"deadline","type":"uint256"},
      {"name":"amountIn","type":"uint256"},
      {"name":"amountOutMinimum","type":"uint256"},
      {"name":"sqrtPriceLimitX96","type":"uint160"}]}],
   "outputs":[{"name":"amountOut","type":"uint256"}]}
]`

var routerABI = mustParseABI(routerABIJSON)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// ABI returns the shared router ABI used for call-data packing.
func ABI() abi.ABI {
	return routerABI
}

// ExactInputSingleParams is the tuple argument of exactInputSingle.
type ExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	Deadline          *big.Int
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}
