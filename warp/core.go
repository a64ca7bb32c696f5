package warp

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/interchainlabs/warpcore/adapter"
	"github.com/interchainlabs/warpcore/chain"
	"github.com/interchainlabs/warpcore/provider"
)

// AdapterSource resolves the token capability binding for a token.
// Implementations are per-protocol and live outside this module.
type AdapterSource interface {
	TokenAdapter(ctx context.Context, token Token) (adapter.TokenAdapter, error)
}

// CoreParams wire a Core.
type CoreParams struct {
	Chains       *chain.Registry
	Config       Config
	Adapters     AdapterSource
	FeeEstimator provider.FeeEstimator
	Logger       *zap.Logger
}

// feeConstant is a parsed static fee override.
type feeConstant struct {
	amount         sdkmath.Int
	addressOrDenom string
}

// Core is the warp transfer engine. It is built once from a validated config
// and read-only afterwards; concurrent requests need no coordination.
type Core struct {
	logger       *zap.Logger
	chains       *chain.Registry
	adapters     AdapterSource
	feeEstimator provider.FeeEstimator

	// token arena and directed edges, addressed by dense ids
	tokens  []Token
	index   map[string]tokenID // Token.ID() -> arena index
	edges   map[tokenID][]Connection
	reverse map[tokenID][]Connection

	localFeeConstants      map[ChainPair]feeConstant
	interchainFeeConstants map[ChainPair]feeConstant
	routeBlacklist         map[ChainPair]struct{}
}

// NewCore builds the engine from a route config. Loading is strict: duplicate
// tokens and connections referencing absent tokens are errors, never skipped.
func NewCore(params CoreParams) (*Core, error) {
	if params.Chains == nil {
		return nil, fmt.Errorf("chain registry is required")
	}
	if params.Adapters == nil {
		return nil, fmt.Errorf("adapter source is required")
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if err := params.Config.validate(); err != nil {
		return nil, fmt.Errorf("invalid warp config: %w", err)
	}

	c := &Core{
		logger:                 params.Logger,
		chains:                 params.Chains,
		adapters:               params.Adapters,
		feeEstimator:           params.FeeEstimator,
		index:                  make(map[string]tokenID),
		edges:                  make(map[tokenID][]Connection),
		reverse:                make(map[tokenID][]Connection),
		localFeeConstants:      make(map[ChainPair]feeConstant),
		interchainFeeConstants: make(map[ChainPair]feeConstant),
		routeBlacklist:         make(map[ChainPair]struct{}),
	}

	for _, tc := range params.Config.Tokens {
		if _, ok := c.chains.Get(tc.ChainName); !ok {
			return nil, fmt.Errorf("token %s/%s: %w: %s", tc.ChainName, tc.AddressOrDenom, ErrUnknownChain, tc.ChainName)
		}
		token := Token{
			ChainName:                tc.ChainName,
			Standard:                 tc.Standard,
			Decimals:                 tc.Decimals,
			Symbol:                   tc.Symbol,
			Name:                     tc.Name,
			AddressOrDenom:           tc.AddressOrDenom,
			CollateralAddressOrDenom: tc.CollateralAddressOrDenom,
		}
		if _, ok := c.index[token.ID()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateToken, token.ID())
		}
		id := tokenID(len(c.tokens))
		c.tokens = append(c.tokens, token)
		c.index[token.ID()] = id
	}

	// connections are installed after the whole arena exists so forward
	// references resolve
	for i, tc := range params.Config.Tokens {
		from := tokenID(i)
		for _, cc := range tc.Connections {
			key, err := parseConnectionKey(cc.Token)
			if err != nil {
				return nil, err
			}
			to, ok := c.index[key.chainName+"|"+normalizeAddress(key.address)]
			if !ok {
				return nil, fmt.Errorf("token %s connects to unknown token %q", c.tokens[from].ID(), cc.Token)
			}
			if meta, ok := c.chains.Get(key.chainName); ok && string(meta.Protocol) != key.protocol {
				return nil, fmt.Errorf("token %s connection %q: protocol %q does not match chain %s (%s)",
					c.tokens[from].ID(), cc.Token, key.protocol, key.chainName, meta.Protocol)
			}
			conn := Connection{from: from, to: to}
			if cc.SourceChannel != "" || cc.SourcePort != "" {
				conn.IBC = &IBCArgs{SourcePort: cc.SourcePort, SourceChannel: cc.SourceChannel}
			}
			c.edges[from] = append(c.edges[from], conn)
			c.reverse[to] = append(c.reverse[to], conn)
		}
	}

	if opts := params.Config.Options; opts != nil {
		if err := parseFeeConstants(opts.LocalFeeConstants, c.localFeeConstants); err != nil {
			return nil, fmt.Errorf("local fee constants: %w", err)
		}
		if err := parseFeeConstants(opts.InterchainFeeConstants, c.interchainFeeConstants); err != nil {
			return nil, fmt.Errorf("interchain fee constants: %w", err)
		}
		for _, pair := range opts.RouteBlacklist {
			c.routeBlacklist[pair] = struct{}{}
		}
	}

	c.logger.Info("warp core loaded",
		zap.Int("tokens", len(c.tokens)),
		zap.Int("blacklisted_routes", len(c.routeBlacklist)),
	)
	return c, nil
}

func parseFeeConstants(configs []FeeConstantConfig, out map[ChainPair]feeConstant) error {
	for _, fc := range configs {
		amount, ok := sdkmath.NewIntFromString(fc.Amount)
		if !ok {
			return fmt.Errorf("route %s->%s: invalid amount %q", fc.Origin, fc.Destination, fc.Amount)
		}
		pair := ChainPair{Origin: fc.Origin, Destination: fc.Destination}
		if _, exists := out[pair]; exists {
			return fmt.Errorf("route %s->%s: duplicate constant", fc.Origin, fc.Destination)
		}
		out[pair] = feeConstant{amount: amount, addressOrDenom: fc.AddressOrDenom}
	}
	return nil
}

// Tokens returns the loaded tokens in config order.
func (c *Core) Tokens() []Token {
	out := make([]Token, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// FindToken looks up a token by (chain, addressOrDenom). Hex addresses match
// case-insensitively. If nothing matches explicitly but the query names the
// chain's native token, a native Token is synthesized on the fly so configs
// need not enumerate every chain's gas token. Returns nil when not found.
func (c *Core) FindToken(chainName, addressOrDenom string) *Token {
	if id, ok := c.index[chainName+"|"+normalizeAddress(addressOrDenom)]; ok {
		token := c.tokens[id]
		return &token
	}

	meta, ok := c.chains.Get(chainName)
	if !ok {
		return nil
	}
	if addressOrDenom == "" || addressOrDenom == meta.NativeDenom() {
		token := c.nativeToken(meta)
		return &token
	}
	return nil
}

// nativeToken synthesizes the chain's implicit native token.
func (c *Core) nativeToken(meta chain.Metadata) Token {
	return Token{
		ChainName:      meta.Name,
		Standard:       StandardNative,
		Decimals:       meta.NativeToken.Decimals,
		Symbol:         meta.NativeToken.Symbol,
		Name:           meta.NativeToken.Name,
		AddressOrDenom: meta.NativeDenom(),
	}
}

// connectionsForChain collects every edge from token into destinationChain,
// from whichever side the edge was declared on.
func (c *Core) connectionsForChain(token Token, destinationChain string) ([]Connection, error) {
	id, ok := c.index[token.ID()]
	if !ok {
		return nil, fmt.Errorf("token %s is not registered", token.ID())
	}

	var out []Connection
	for _, conn := range c.edges[id] {
		if c.tokens[conn.to].ChainName == destinationChain {
			out = append(out, conn)
		}
	}
	// edges are directed in storage but bidirectional in intent; IBC args are
	// channel identifiers on the declaring chain and do not apply to the
	// reverse direction
	for _, conn := range c.reverse[id] {
		if c.tokens[conn.from].ChainName == destinationChain {
			out = append(out, Connection{from: id, to: conn.from})
		}
	}
	return out, nil
}

// GetConnectionForChain returns the single edge from token into
// destinationChain, nil when there is none, or ErrAmbiguousRoute when the
// fan-out is ambiguous and the caller must disambiguate.
func (c *Core) GetConnectionForChain(token Token, destinationChain string) (*Connection, error) {
	conns, err := c.connectionsForChain(token, destinationChain)
	if err != nil {
		return nil, err
	}
	switch len(conns) {
	case 0:
		return nil, nil
	case 1:
		return &conns[0], nil
	default:
		return nil, fmt.Errorf("%w: token %s has %d connections into %s", ErrAmbiguousRoute, token.ID(), len(conns), destinationChain)
	}
}

// CounterpartToken resolves the token a connection points at.
func (c *Core) CounterpartToken(conn *Connection) Token {
	return c.tokens[conn.to]
}

// resolveDestinationToken picks the destination token for a transfer, either
// the caller's explicit choice (which must sit on the destination chain and
// be connected to the origin token) or the sole counterpart.
func (c *Core) resolveDestinationToken(origin Token, destinationChain string, explicit *Token) (Token, error) {
	if explicit != nil {
		conns, err := c.connectionsForChain(origin, destinationChain)
		if err != nil {
			return Token{}, err
		}
		for _, conn := range conns {
			if c.tokens[conn.to].Equal(*explicit) {
				return c.tokens[conn.to], nil
			}
		}
		return Token{}, fmt.Errorf("%w: %s has no edge to %s", ErrNoConnection, origin.ID(), explicit.ID())
	}

	conn, err := c.GetConnectionForChain(origin, destinationChain)
	if err != nil {
		return Token{}, err
	}
	if conn == nil {
		return Token{}, fmt.Errorf("%w: %s -> %s", ErrNoConnection, origin.ID(), destinationChain)
	}
	return c.tokens[conn.to], nil
}

// IsRouteBlacklisted reports whether the chain pair is statically disallowed.
func (c *Core) IsRouteBlacklisted(origin, destination string) bool {
	_, ok := c.routeBlacklist[ChainPair{Origin: origin, Destination: destination}]
	return ok
}
