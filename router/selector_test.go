package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgraphpay/swapflow/types"
)

func TestSelectFunctionMatrix(t *testing.T) {
	tests := []struct {
		name                 string
		inNative, outNative  bool
		exactInput           bool
		want                 string
	}{
		{"native in, exact in", true, false, true, FnSwapExactETHForTokens},
		{"native in, exact out", true, false, false, FnSwapETHForExactTokens},
		{"native out, exact in", false, true, true, FnSwapExactTokensForETH},
		{"native out, exact out", false, true, false, FnSwapTokensForExactETH},
		{"token to token, exact in", false, false, true, FnSwapExactTokensForTokens},
		{"token to token, exact out", false, false, false, FnSwapTokensForExactTokens},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectFunction(tt.inNative, tt.outNative, tt.exactInput, types.RouterV2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectFunctionNativeToNative(t *testing.T) {
	for _, version := range []types.RouterVersion{types.RouterV2, types.RouterV3} {
		for _, exactInput := range []bool{true, false} {
			_, err := SelectFunction(true, true, exactInput, version)
			require.Error(t, err)
			swapErr, ok := err.(*types.SwapError)
			require.True(t, ok)
			assert.Equal(t, types.ErrInvalidSwap, swapErr.Kind)
		}
	}
}

// On the concentrated-liquidity router wrapping is implicit, so every valid
// combination resolves to the single-hop exact-input function.
func TestSelectFunctionV3(t *testing.T) {
	combos := []struct{ inNative, outNative, exactInput bool }{
		{true, false, true}, {true, false, false},
		{false, true, true}, {false, true, false},
		{false, false, true}, {false, false, false},
	}
	for _, c := range combos {
		got, err := SelectFunction(c.inNative, c.outNative, c.exactInput, types.RouterV3)
		require.NoError(t, err)
		assert.Equal(t, FnExactInputSingle, got)
	}
}

// Every non-native-to-native input must produce a function the router ABI
// actually declares.
func TestSelectFunctionTotality(t *testing.T) {
	for _, version := range []types.RouterVersion{types.RouterV2, types.RouterV3} {
		for _, inNative := range []bool{true, false} {
			for _, outNative := range []bool{true, false} {
				for _, exactInput := range []bool{true, false} {
					fn, err := SelectFunction(inNative, outNative, exactInput, version)
					if inNative && outNative {
						assert.Error(t, err)
						continue
					}
					require.NoError(t, err)
					_, declared := ABI().Methods[fn]
					assert.True(t, declared, "selected function %s is not in the ABI", fn)
				}
			}
		}
	}
}
