package warp

import (
	"context"
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/interchainlabs/warpcore/adapter"
)

// TransferParams describe one requested transfer.
type TransferParams struct {
	// Origin is the token and amount leaving the origin chain.
	Origin TokenAmount
	// Destination is the chain the value should arrive on.
	Destination string
	// Sender is the funding address on the origin chain.
	Sender string
	// Recipient is the receiving address on the destination chain.
	Recipient string
	// DestinationToken disambiguates the route when the origin token has
	// several counterparts on the destination chain. Optional otherwise.
	DestinationToken *Token
}

// Validation failure fields.
const (
	FieldOrigin      = "origin"
	FieldDestination = "destination"
	FieldRecipient   = "recipient"
	FieldAmount      = "amount"
)

// FieldError is a user-correctable validation failure keyed by the input
// field it concerns, suitable for inline rendering. It is a result value, not
// a Go error: user-input problems never abort the operation.
type FieldError struct {
	Field   string
	Message string
}

func fieldErrorf(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateTransfer runs the ordered check pipeline against a requested
// transfer. It is a pure query: no transactions are built or submitted. The
// first failing check's FieldError is returned and later checks do not run;
// configuration and infrastructure faults come back on the error channel
// instead.
func (c *Core) ValidateTransfer(ctx context.Context, p TransferParams) (*FieldError, error) {
	if fe := c.validateChains(p); fe != nil {
		return fe, nil
	}
	if fe := c.validateRecipient(p); fe != nil {
		return fe, nil
	}
	destToken, fe, err := c.validateRoute(p)
	if fe != nil || err != nil {
		return fe, err
	}
	if fe, err := c.validateAmount(ctx, p, destToken); fe != nil || err != nil {
		return fe, err
	}
	if fe, err := c.validateDestinationRateLimit(ctx, p, destToken); fe != nil || err != nil {
		return fe, err
	}
	if fe, err := c.validateDestinationCollateral(ctx, p, destToken); fe != nil || err != nil {
		return fe, err
	}
	if fe, err := c.validateOriginBurnLimit(ctx, p); fe != nil || err != nil {
		return fe, err
	}
	if fe, err := c.validateBalances(ctx, p); fe != nil || err != nil {
		return fe, err
	}

	c.logger.Debug("transfer validated",
		zap.String("origin", p.Origin.Token.ID()),
		zap.String("destination", p.Destination),
		zap.String("amount", p.Origin.Amount.String()),
	)
	return nil, nil
}

// 1. both chain names must resolve and the route must not be blacklisted.
func (c *Core) validateChains(p TransferParams) *FieldError {
	origin := p.Origin.Token.ChainName
	if _, ok := c.chains.Get(origin); !ok {
		return fieldErrorf(FieldOrigin, "Invalid origin chain %s", origin)
	}
	if _, ok := c.chains.Get(p.Destination); !ok {
		return fieldErrorf(FieldDestination, "Invalid destination chain %s", p.Destination)
	}
	if c.IsRouteBlacklisted(origin, p.Destination) {
		return fieldErrorf(FieldDestination, "Transfers from %s to %s are not currently allowed", origin, p.Destination)
	}
	return nil
}

// 2. the recipient must be well formed under the destination chain's rules.
func (c *Core) validateRecipient(p TransferParams) *FieldError {
	meta, _ := c.chains.Get(p.Destination)
	if err := meta.ValidateRecipient(p.Recipient); err != nil {
		return fieldErrorf(FieldRecipient, "Invalid recipient address")
	}
	return nil
}

// 3. the destination token must resolve unambiguously.
func (c *Core) validateRoute(p TransferParams) (Token, *FieldError, error) {
	if p.DestinationToken != nil && p.DestinationToken.ChainName != p.Destination {
		return Token{}, fieldErrorf(FieldDestination,
			"Destination token is on %s, not %s", p.DestinationToken.ChainName, p.Destination), nil
	}

	destToken, err := c.resolveDestinationToken(p.Origin.Token, p.Destination, p.DestinationToken)
	if err != nil {
		if errors.Is(err, ErrAmbiguousRoute) {
			return Token{}, fieldErrorf(FieldDestination, "Ambiguous route, specify a destination token"), nil
		}
		return Token{}, nil, err
	}
	return destToken, nil, nil
}

// 4. the amount must be a positive integer at least the destination's
// minimum.
func (c *Core) validateAmount(ctx context.Context, p TransferParams, destToken Token) (*FieldError, error) {
	amount := p.Origin.Amount
	if amount.IsNil() || !amount.IsPositive() {
		if p.Origin.Token.Standard.IsNFT() {
			return fieldErrorf(FieldAmount, "Invalid token ID"), nil
		}
		return fieldErrorf(FieldAmount, "Invalid amount"), nil
	}

	destAdapter, err := c.adapters.TokenAdapter(ctx, destToken)
	if err != nil {
		return nil, fmt.Errorf("getting adapter for %s: %w", destToken.ID(), err)
	}
	minimum, err := destAdapter.GetMinimumTransferAmount(ctx, p.Recipient)
	if err != nil {
		return nil, fmt.Errorf("fetching minimum transfer amount on %s: %w", destToken.ChainName, err)
	}
	minimumOrigin := Rescale(minimum, destToken.Decimals, p.Origin.Token.Decimals)
	if amount.LT(minimumOrigin) {
		return fieldErrorf(FieldAmount, "Minimum transfer amount is %s %s", minimumOrigin, p.Origin.Token.Symbol), nil
	}
	return nil, nil
}

// 5. mint-limited destinations must have remaining capacity.
func (c *Core) validateDestinationRateLimit(ctx context.Context, p TransferParams, destToken Token) (*FieldError, error) {
	if !destToken.Standard.IsMintLimited() {
		return nil, nil
	}

	limited, err := c.limitedAdapter(ctx, destToken)
	if err != nil {
		return nil, err
	}
	limit, err := limited.GetMintLimit(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching mint limit on %s: %w", destToken.ChainName, err)
	}
	if destToken.Standard.IsBufferLimited() {
		maxLimit, err := limited.GetMintMaxLimit(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching mint max limit on %s: %w", destToken.ChainName, err)
		}
		// the usable limit is capped at half the buffer
		limit = sdkmath.MinInt(limit, maxLimit.QuoRaw(2))
	}

	limitOrigin := Rescale(limit, destToken.Decimals, p.Origin.Token.Decimals)
	if p.Origin.Amount.GT(limitOrigin) {
		return fieldErrorf(FieldAmount, "Destination rate limit exceeded, maximum is %s %s", limitOrigin, p.Origin.Token.Symbol), nil
	}
	return nil, nil
}

// 6. collateralized destinations must hold enough backing to release the
// transferred value.
func (c *Core) validateDestinationCollateral(ctx context.Context, p TransferParams, destToken Token) (*FieldError, error) {
	if !destToken.Standard.IsCollateralized() {
		return nil, nil
	}

	destAdapter, err := c.adapters.TokenAdapter(ctx, destToken)
	if err != nil {
		return nil, fmt.Errorf("getting adapter for %s: %w", destToken.ID(), err)
	}

	var collateral sdkmath.Int
	if destToken.Standard.IsLockbox() {
		limited, err := c.limitedAdapter(ctx, destToken)
		if err != nil {
			return nil, err
		}
		collateral, err = limited.GetBridgedSupply(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching bridged supply on %s: %w", destToken.ChainName, err)
		}
	} else {
		collateral, err = destAdapter.GetBalance(ctx, destToken.AddressOrDenom)
		if err != nil {
			return nil, fmt.Errorf("fetching collateral balance on %s: %w", destToken.ChainName, err)
		}
	}

	collateralOrigin := Rescale(collateral, destToken.Decimals, p.Origin.Token.Decimals)
	if p.Origin.Amount.GT(collateralOrigin) {
		return fieldErrorf(FieldAmount, "Insufficient collateral on destination"), nil
	}
	return nil, nil
}

// 7. burn-limited origins must have remaining burn capacity.
func (c *Core) validateOriginBurnLimit(ctx context.Context, p TransferParams) (*FieldError, error) {
	origin := p.Origin.Token
	if !origin.Standard.IsBurnLimited() {
		return nil, nil
	}

	limited, err := c.limitedAdapter(ctx, origin)
	if err != nil {
		return nil, err
	}
	limit, err := limited.GetBurnLimit(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching burn limit on %s: %w", origin.ChainName, err)
	}
	if limit.LT(p.Origin.Amount) {
		return fieldErrorf(FieldAmount, "Origin burn limit exceeded, maximum is %s %s", limit, origin.Symbol), nil
	}
	return nil, nil
}

// 8. the sender must cover the transfer and both fee legs.
func (c *Core) validateBalances(ctx context.Context, p TransferParams) (*FieldError, error) {
	origin := p.Origin.Token
	originAdapter, err := c.adapters.TokenAdapter(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("getting adapter for %s: %w", origin.ID(), err)
	}
	balance, err := originAdapter.GetBalance(ctx, p.Sender)
	if err != nil {
		return nil, fmt.Errorf("fetching sender balance on %s: %w", origin.ChainName, err)
	}
	if balance.LT(p.Origin.Amount) {
		return fieldErrorf(FieldAmount, "Insufficient balance"), nil
	}

	fees, err := c.EstimateTransferFees(ctx, p)
	if err != nil {
		return nil, err
	}

	// the interchain fee may be denominated in a token other than the one
	// transferred; that token's balance is checked on its own
	if !fees.Interchain.Token.Equal(origin) {
		feeAdapter, err := c.adapters.TokenAdapter(ctx, fees.Interchain.Token)
		if err != nil {
			return nil, fmt.Errorf("getting adapter for fee token %s: %w", fees.Interchain.Token.ID(), err)
		}
		feeBalance, err := feeAdapter.GetBalance(ctx, p.Sender)
		if err != nil {
			return nil, fmt.Errorf("fetching fee token balance on %s: %w", origin.ChainName, err)
		}
		if feeBalance.LT(fees.Interchain.Amount) {
			return fieldErrorf(FieldAmount, "Insufficient balance for interchain gas"), nil
		}
	}

	// same for the local fee when the transferred token is not the native one
	if !fees.Local.Token.Equal(origin) {
		required := fees.Local.Amount
		if fees.Interchain.Token.Equal(fees.Local.Token) {
			required = required.Add(fees.Interchain.Amount)
		}
		nativeAdapter, err := c.adapters.TokenAdapter(ctx, fees.Local.Token)
		if err != nil {
			return nil, fmt.Errorf("getting adapter for native token on %s: %w", origin.ChainName, err)
		}
		nativeBalance, err := nativeAdapter.GetBalance(ctx, p.Sender)
		if err != nil {
			return nil, fmt.Errorf("fetching native balance on %s: %w", origin.ChainName, err)
		}
		if nativeBalance.LT(required) {
			return fieldErrorf(FieldAmount, "Insufficient balance for local gas"), nil
		}
	}

	// finally the combined amount-plus-fees bound
	max := MaxTransferAmount(NewTokenAmount(origin, balance), fees.Local, fees.Interchain)
	if p.Origin.Amount.GT(max.Amount) {
		return fieldErrorf(FieldAmount, "Insufficient balance for gas and transfer"), nil
	}
	return nil, nil
}

// limitedAdapter fetches the token adapter and requires the limit-query
// capability. A limited standard bound to an adapter without it is a
// configuration error.
func (c *Core) limitedAdapter(ctx context.Context, token Token) (adapter.LimitedTokenAdapter, error) {
	tokenAdapter, err := c.adapters.TokenAdapter(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("getting adapter for %s: %w", token.ID(), err)
	}
	limited, ok := tokenAdapter.(adapter.LimitedTokenAdapter)
	if !ok {
		return nil, fmt.Errorf("adapter for %s standard %s does not support limit queries", token.ID(), token.Standard)
	}
	return limited, nil
}
