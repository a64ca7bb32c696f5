package warp

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// TokenAmount pairs a token with an integer quantity in the token's own
// decimals. Negative amounts are representable (they signal a validation
// failure downstream), but arithmetic across non-fungible tokens is a
// programming error.
type TokenAmount struct {
	Token  Token
	Amount sdkmath.Int
}

func NewTokenAmount(token Token, amount sdkmath.Int) TokenAmount {
	return TokenAmount{Token: token, Amount: amount}
}

// Sub subtracts b from a. The two amounts must be denominated in the same
// token; mixing tokens here is a bug in the caller, not a user-input problem.
func (a TokenAmount) Sub(b TokenAmount) TokenAmount {
	if !a.Token.Equal(b.Token) {
		panic(fmt.Sprintf("token amount arithmetic across distinct tokens: %s vs %s", a.Token, b.Token))
	}
	return TokenAmount{Token: a.Token, Amount: a.Amount.Sub(b.Amount)}
}

// Add adds b to a under the same fungibility rule as Sub.
func (a TokenAmount) Add(b TokenAmount) TokenAmount {
	if !a.Token.Equal(b.Token) {
		panic(fmt.Sprintf("token amount arithmetic across distinct tokens: %s vs %s", a.Token, b.Token))
	}
	return TokenAmount{Token: a.Token, Amount: a.Amount.Add(b.Amount)}
}

// RescaleTo re-expresses the amount in another token's decimals.
func (a TokenAmount) RescaleTo(token Token) TokenAmount {
	return TokenAmount{
		Token:  token,
		Amount: Rescale(a.Amount, a.Token.Decimals, token.Decimals),
	}
}

func (a TokenAmount) String() string {
	return fmt.Sprintf("%s %s", a.Amount, a.Token.Symbol)
}

// Rescale converts a quantity from one decimal scale to another in integer
// arithmetic, truncating toward zero. Floating point is never used here:
// rounding up a collateral or rate-limit bound would open a gap.
func Rescale(value sdkmath.Int, fromDecimals, toDecimals uint8) sdkmath.Int {
	if fromDecimals == toDecimals {
		return value
	}
	if toDecimals > fromDecimals {
		return value.Mul(tenPow(toDecimals - fromDecimals))
	}
	return value.Quo(tenPow(fromDecimals - toDecimals))
}

func tenPow(exp uint8) sdkmath.Int {
	return sdkmath.NewIntWithDecimal(1, int(exp))
}
