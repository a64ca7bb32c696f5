package warp

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/interchainlabs/warpcore/chain"
)

// evmTransferRemoteGasEstimate is a conservative gas-unit bound for a remote
// transfer on a contract chain. Used when the transfer cannot be simulated
// because its approval has not been submitted yet.
const evmTransferRemoteGasEstimate = 450_000

// TransferFees are the two legs of a transfer's cost.
type TransferFees struct {
	// Interchain is the destination-relay fee, possibly denominated in a
	// token other than the one transferred.
	Interchain TokenAmount
	// Local is the origin-chain execution fee, always in the origin chain's
	// native token.
	Local TokenAmount
}

// EstimateTransferFees computes both fee legs. The interchain leg is computed
// first: the local-fee simulation builds the real transfer transaction, which
// needs the interchain fee attached.
func (c *Core) EstimateTransferFees(ctx context.Context, p TransferParams) (*TransferFees, error) {
	interchain, err := c.InterchainFee(ctx, p)
	if err != nil {
		return nil, err
	}
	local, err := c.LocalFee(ctx, p, interchain)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("estimated transfer fees",
		zap.String("origin", p.Origin.Token.ChainName),
		zap.String("destination", p.Destination),
		zap.String("interchain_fee", interchain.String()),
		zap.String("local_fee", local.String()),
	)
	return &TransferFees{Interchain: interchain, Local: local}, nil
}

// InterchainFee resolves the destination-relay fee: the static constant table
// short-circuits the live quote entirely.
func (c *Core) InterchainFee(ctx context.Context, p TransferParams) (TokenAmount, error) {
	origin := p.Origin.Token
	pair := ChainPair{Origin: origin.ChainName, Destination: p.Destination}
	if fc, ok := c.interchainFeeConstants[pair]; ok {
		feeToken, err := c.resolveFeeToken(origin.ChainName, fc.addressOrDenom)
		if err != nil {
			return TokenAmount{}, err
		}
		return NewTokenAmount(feeToken, fc.amount), nil
	}

	destMeta, ok := c.chains.Get(p.Destination)
	if !ok {
		return TokenAmount{}, fmt.Errorf("%w: %s", ErrUnknownChain, p.Destination)
	}
	tokenAdapter, err := c.adapters.TokenAdapter(ctx, origin)
	if err != nil {
		return TokenAmount{}, fmt.Errorf("getting adapter for %s: %w", origin.ID(), err)
	}
	quote, err := tokenAdapter.QuoteTransferRemoteGas(ctx, destMeta.DomainID, p.Sender)
	if err != nil {
		return TokenAmount{}, fmt.Errorf("quoting interchain gas on %s for %s: %w", origin.ChainName, p.Destination, err)
	}

	feeToken, err := c.resolveFeeToken(origin.ChainName, quote.AddressOrDenom)
	if err != nil {
		return TokenAmount{}, err
	}
	return NewTokenAmount(feeToken, quote.Amount), nil
}

// resolveFeeToken maps a quoted fee-token address onto a registry token. An
// empty address denotes the chain's native token. An address the registry
// cannot resolve is a configuration error, not a user-input problem.
func (c *Core) resolveFeeToken(chainName, addressOrDenom string) (Token, error) {
	token := c.FindToken(chainName, addressOrDenom)
	if token == nil {
		return Token{}, fmt.Errorf("%w: %s on %s", ErrUnknownFeeToken, addressOrDenom, chainName)
	}
	return *token, nil
}

// LocalFee resolves the origin-chain execution fee, denominated in the origin
// chain's native token.
func (c *Core) LocalFee(ctx context.Context, p TransferParams, interchainFee TokenAmount) (TokenAmount, error) {
	origin := p.Origin.Token
	originMeta, ok := c.chains.Get(origin.ChainName)
	if !ok {
		return TokenAmount{}, fmt.Errorf("%w: %s", ErrUnknownChain, origin.ChainName)
	}
	native := c.nativeToken(originMeta)

	pair := ChainPair{Origin: origin.ChainName, Destination: p.Destination}
	if fc, ok := c.localFeeConstants[pair]; ok {
		return NewTokenAmount(native, fc.amount), nil
	}

	// module-chain fee markets are not meaningfully simulatable; a zero
	// estimate beats a spurious failure
	if originMeta.Protocol == chain.ProtocolCosmosNative {
		return NewTokenAmount(native, sdkmath.ZeroInt()), nil
	}

	if c.feeEstimator == nil {
		return TokenAmount{}, fmt.Errorf("fee estimator required to simulate local fee on %s", origin.ChainName)
	}

	// build the real transaction set for a nominal 1-unit transfer
	unit := p
	unit.Origin = NewTokenAmount(origin, sdkmath.OneInt())
	txs, err := c.GetTransferRemoteTxs(ctx, unit, &interchainFee)
	if err != nil {
		return TokenAmount{}, fmt.Errorf("simulating transfer on %s for local fee: %w", origin.ChainName, err)
	}

	if len(txs) == 2 && originMeta.Protocol == chain.ProtocolEthereum {
		// an approval precedes the transfer; simulating the transfer before
		// the approval exists is unreliable, so bound the gas units and take
		// the live gas price
		gasPrice, err := c.feeEstimator.GasPrice(ctx, origin.ChainName)
		if err != nil {
			return TokenAmount{}, fmt.Errorf("fetching gas price on %s: %w", origin.ChainName, err)
		}
		return NewTokenAmount(native, gasPrice.MulRaw(evmTransferRemoteGasEstimate)), nil
	}

	transferTx := txs[len(txs)-1]
	fee, err := c.feeEstimator.EstimateTxFee(ctx, origin.ChainName, transferTx.Request, p.Sender)
	if err != nil {
		return TokenAmount{}, fmt.Errorf("estimating local fee on %s: %w", origin.ChainName, err)
	}
	return NewTokenAmount(native, fee), nil
}
