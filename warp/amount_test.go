package warp

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestRescale(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		from, to uint8
		expected int64
	}{
		{
			name:     "identity at same decimals",
			value:    123456,
			from:     18,
			to:       18,
			expected: 123456,
		},
		{
			name:     "scale up",
			value:    5,
			from:     6,
			to:       9,
			expected: 5000,
		},
		{
			name:     "sub-unit amounts vanish on scale down",
			value:    1,
			from:     18,
			to:       6,
			expected: 0,
		},
		{
			name:     "scale down truncates toward zero",
			value:    1_999_999,
			from:     9,
			to:       3,
			expected: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Rescale(sdkmath.NewInt(tc.value), tc.from, tc.to)
			require.Equal(t, tc.expected, got.Int64())
		})
	}
}

func TestRescaleRoundTrip(t *testing.T) {
	// D -> D -> D is the identity
	v := sdkmath.NewInt(987654321)
	require.True(t, Rescale(Rescale(v, 9, 9), 9, 9).Equal(v))

	// scaling up then back down is also lossless
	require.True(t, Rescale(Rescale(v, 6, 18), 18, 6).Equal(v))
}

func TestTokenAmountArithmetic(t *testing.T) {
	eth := Token{ChainName: evmChainName, Standard: StandardNative, Decimals: 18, Symbol: "ETH"}
	synthetic := Token{ChainName: cosmosChainName, Standard: StandardSynthetic, Decimals: 6, Symbol: "wETH", AddressOrDenom: "hyperlane/weth"}

	a := NewTokenAmount(eth, sdkmath.NewInt(100))
	b := NewTokenAmount(eth, sdkmath.NewInt(40))
	require.Equal(t, int64(60), a.Sub(b).Amount.Int64())
	require.Equal(t, int64(140), a.Add(b).Amount.Int64())

	// mixing tokens is a programming error, not a validation outcome
	other := NewTokenAmount(synthetic, sdkmath.NewInt(1))
	require.Panics(t, func() { a.Sub(other) })
	require.Panics(t, func() { a.Add(other) })
}

func TestTokenAmountRescaleTo(t *testing.T) {
	eth := Token{ChainName: evmChainName, Decimals: 18, Symbol: "ETH"}
	wrapped := Token{ChainName: cosmosChainName, Decimals: 6, Symbol: "wETH", AddressOrDenom: "hyperlane/weth"}

	amount := NewTokenAmount(eth, sdkmath.NewIntWithDecimal(5, 18))
	converted := amount.RescaleTo(wrapped)
	require.True(t, converted.Token.Equal(wrapped))
	require.Equal(t, sdkmath.NewIntWithDecimal(5, 6).String(), converted.Amount.String())
}

func TestTokenIdentity(t *testing.T) {
	upper := Token{ChainName: evmChainName, AddressOrDenom: "0xAF9053BB6C4346381C77C2FED279B17ABAFCDF4D"}
	lower := Token{ChainName: evmChainName, AddressOrDenom: "0xaf9053bb6c4346381c77c2fed279b17abafcdf4d"}
	require.True(t, upper.Equal(lower))
	require.Equal(t, upper.ID(), lower.ID())

	// denoms stay case-sensitive
	utia := Token{ChainName: cosmosChainName, AddressOrDenom: "utia"}
	utiaUpper := Token{ChainName: cosmosChainName, AddressOrDenom: "UTIA"}
	require.False(t, utia.Equal(utiaUpper))
}
