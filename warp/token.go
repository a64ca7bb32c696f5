// Package warp implements the warp transfer engine: the token and connection
// graph loaded from a route config, fee estimation, the transfer validation
// pipeline, and transaction sequencing.
package warp

import (
	"fmt"
	"strings"
)

// TokenStandard is the closed set of on-chain representations a routed asset
// can take.
type TokenStandard string

const (
	// StandardNative is the chain's own gas token routed via a native router.
	StandardNative TokenStandard = "Native"
	// StandardCollateral locks an existing asset behind the router.
	StandardCollateral TokenStandard = "Collateral"
	// StandardSynthetic is minted and burned by the router.
	StandardSynthetic TokenStandard = "Synthetic"
	// StandardCollateralLockbox wraps a rate-limited synthetic behind a
	// lockbox holding the canonical asset.
	StandardCollateralLockbox TokenStandard = "CollateralLockbox"
	// StandardRateLimitedSynthetic is a synthetic whose mint/burn capacity is
	// bounded by a rolling limit.
	StandardRateLimitedSynthetic TokenStandard = "RateLimitedSynthetic"
	// StandardRateLimitedLockbox is the doubly rate-limited lockbox variant:
	// its usable mint limit is additionally capped by a max-buffer.
	StandardRateLimitedLockbox TokenStandard = "RateLimitedLockbox"
	// StandardIbcLinked routes through an IBC channel rather than a mailbox.
	StandardIbcLinked TokenStandard = "IbcLinked"
	// StandardMultiCollateral draws on several collateral pools; fees
	// denominated in the token are debited alongside the transfer.
	StandardMultiCollateral TokenStandard = "MultiCollateral"
	// StandardNFTCollateral locks non-fungible tokens.
	StandardNFTCollateral TokenStandard = "NFTCollateral"
)

func (s TokenStandard) Valid() bool {
	switch s {
	case StandardNative, StandardCollateral, StandardSynthetic,
		StandardCollateralLockbox, StandardRateLimitedSynthetic,
		StandardRateLimitedLockbox, StandardIbcLinked,
		StandardMultiCollateral, StandardNFTCollateral:
		return true
	}
	return false
}

// IsCollateralized reports whether transfers into this representation are
// bounded by locked collateral on its chain.
func (s TokenStandard) IsCollateralized() bool {
	switch s {
	case StandardCollateral, StandardCollateralLockbox,
		StandardRateLimitedLockbox, StandardMultiCollateral,
		StandardNFTCollateral:
		return true
	}
	return false
}

// IsLockbox reports whether collateral is tracked as bridged supply rather
// than a raw balance.
func (s TokenStandard) IsLockbox() bool {
	return s == StandardCollateralLockbox || s == StandardRateLimitedLockbox
}

// IsMintLimited reports whether mints on this representation are bounded by a
// rolling limit.
func (s TokenStandard) IsMintLimited() bool {
	return s == StandardRateLimitedSynthetic || s == StandardRateLimitedLockbox
}

// IsBufferLimited reports whether the usable mint limit is further capped at
// half the max-buffer.
func (s TokenStandard) IsBufferLimited() bool {
	return s == StandardRateLimitedLockbox
}

// IsBurnLimited reports whether burns on this representation are bounded by a
// rolling limit.
func (s TokenStandard) IsBurnLimited() bool {
	return s == StandardRateLimitedSynthetic || s == StandardRateLimitedLockbox
}

// IsMultiCollateral reports whether the router debits token-denominated fees
// together with the transfer.
func (s TokenStandard) IsMultiCollateral() bool {
	return s == StandardMultiCollateral
}

// IsNFT reports whether the routed asset is non-fungible.
func (s TokenStandard) IsNFT() bool {
	return s == StandardNFTCollateral
}

// Token identifies one on-chain representation of a routed asset. It is a
// value object, immutable after construction; identity is the
// (chainName, addressOrDenom) pair.
type Token struct {
	ChainName string
	Standard  TokenStandard
	Decimals  uint8
	Symbol    string
	Name      string
	// AddressOrDenom is the on-chain identifier. Empty only for a chain's
	// implicit native token.
	AddressOrDenom string
	// CollateralAddressOrDenom is the asset a collateral-standard token
	// locks.
	CollateralAddressOrDenom string
}

// ID is the canonical registry key for this token.
func (t Token) ID() string {
	return t.ChainName + "|" + normalizeAddress(t.AddressOrDenom)
}

// Equal reports identity: same chain and same address, case-insensitively for
// hex-style addresses.
func (t Token) Equal(other Token) bool {
	return t.ChainName == other.ChainName && addressEqual(t.AddressOrDenom, other.AddressOrDenom)
}

func (t Token) String() string {
	return fmt.Sprintf("%s (%s on %s)", t.Symbol, t.Standard, t.ChainName)
}

// normalizeAddress lowercases hex-style addresses so lookups are
// case-insensitive; denoms keep their exact form.
func normalizeAddress(addr string) string {
	if isHexStyle(addr) {
		return strings.ToLower(addr)
	}
	return addr
}

func addressEqual(a, b string) bool {
	return normalizeAddress(a) == normalizeAddress(b)
}

func isHexStyle(addr string) bool {
	return strings.HasPrefix(addr, "0x") || strings.HasPrefix(addr, "0X")
}
