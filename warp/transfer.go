package warp

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/interchainlabs/warpcore/adapter"
)

// GetTransferRemoteTxs builds the ordered transaction list that executes a
// transfer: an approval when the origin token requires one, then the remote
// transfer carrying the interchain fee. Pass a pre-computed interchainFee to
// skip re-quoting; nil computes it here.
func (c *Core) GetTransferRemoteTxs(ctx context.Context, p TransferParams, interchainFee *TokenAmount) ([]adapter.Tx, error) {
	origin := p.Origin.Token
	destToken, err := c.resolveDestinationToken(origin, p.Destination, p.DestinationToken)
	if err != nil {
		return nil, err
	}
	destMeta, ok := c.chains.Get(destToken.ChainName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChain, destToken.ChainName)
	}

	if interchainFee == nil {
		fee, err := c.InterchainFee(ctx, p)
		if err != nil {
			return nil, err
		}
		interchainFee = &fee
	}

	tokenAdapter, err := c.adapters.TokenAdapter(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("getting adapter for %s: %w", origin.ID(), err)
	}

	// multi-collateral routers debit the token-denominated fee leg together
	// with the transfer, so the approval must cover both
	approveAmount := p.Origin.Amount
	if origin.Standard.IsMultiCollateral() && interchainFee.Token.Equal(origin) {
		approveAmount = approveAmount.Add(interchainFee.Amount)
	}

	var txs []adapter.Tx
	required, err := tokenAdapter.IsApproveRequired(ctx, p.Sender, origin.AddressOrDenom, approveAmount)
	if err != nil {
		return nil, fmt.Errorf("checking approval requirement on %s: %w", origin.ChainName, err)
	}
	if required {
		req, err := tokenAdapter.PopulateApproveTx(ctx, adapter.ApproveParams{
			Amount:    approveAmount,
			Recipient: origin.AddressOrDenom,
		})
		if err != nil {
			return nil, fmt.Errorf("populating approval on %s: %w", origin.ChainName, err)
		}
		txs = append(txs, adapter.Tx{
			Category: adapter.TxCategoryApproval,
			Kind:     req.Kind(),
			Request:  req,
		})
	}

	req, err := tokenAdapter.PopulateTransferRemoteTx(ctx, adapter.TransferRemoteParams{
		Amount:            p.Origin.Amount,
		DestinationDomain: destMeta.DomainID,
		Recipient:         p.Recipient,
		InterchainFee: adapter.FeeQuote{
			Amount:         interchainFee.Amount,
			AddressOrDenom: interchainFee.Token.AddressOrDenom,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("populating transfer on %s: %w", origin.ChainName, err)
	}
	txs = append(txs, adapter.Tx{
		Category: adapter.TxCategoryTransfer,
		Kind:     req.Kind(),
		Request:  req,
	})

	c.logger.Debug("sequenced transfer",
		zap.String("origin", origin.ID()),
		zap.String("destination", destToken.ID()),
		zap.Int("txs", len(txs)),
		zap.Bool("approval", required),
	)
	return txs, nil
}

// MaxTransferAmount is the largest amount the balance can fund once the fee
// legs denominated in the balance token are set aside. Fees in unrelated
// tokens do not reduce it. Never negative.
func MaxTransferAmount(balance, localFee, interchainFee TokenAmount) TokenAmount {
	max := balance.Amount
	if localFee.Token.Equal(balance.Token) {
		max = max.Sub(localFee.Amount)
	}
	if interchainFee.Token.Equal(balance.Token) {
		max = max.Sub(interchainFee.Amount)
	}
	if max.IsNegative() {
		max = sdkmath.ZeroInt()
	}
	return NewTokenAmount(balance.Token, max)
}

// GetMaxTransferAmount fetches the sender's balance and both fee legs, then
// applies MaxTransferAmount.
func (c *Core) GetMaxTransferAmount(ctx context.Context, p TransferParams) (TokenAmount, error) {
	origin := p.Origin.Token
	tokenAdapter, err := c.adapters.TokenAdapter(ctx, origin)
	if err != nil {
		return TokenAmount{}, fmt.Errorf("getting adapter for %s: %w", origin.ID(), err)
	}
	balance, err := tokenAdapter.GetBalance(ctx, p.Sender)
	if err != nil {
		return TokenAmount{}, fmt.Errorf("fetching sender balance on %s: %w", origin.ChainName, err)
	}
	fees, err := c.EstimateTransferFees(ctx, p)
	if err != nil {
		return TokenAmount{}, err
	}
	return MaxTransferAmount(NewTokenAmount(origin, balance), fees.Local, fees.Interchain), nil
}
