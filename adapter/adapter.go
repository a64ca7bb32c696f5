// Package adapter defines the capability contracts the warp engine consumes
// from per-protocol implementations: token operations (balances, approvals,
// transfer population, limits) and message operations (dispatch extraction,
// delivery confirmation).
package adapter

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// FeeQuote is the cost to relay and process a message on the destination
// chain, as quoted by the origin chain.
type FeeQuote struct {
	Amount sdkmath.Int
	// AddressOrDenom identifies the token the fee is paid in. Empty denotes
	// the origin chain's native token.
	AddressOrDenom string
}

// ApproveParams are the inputs to an approval transaction.
type ApproveParams struct {
	Amount sdkmath.Int
	// Recipient is the spender being approved, typically the token router.
	Recipient string
}

// TransferRemoteParams are the inputs to a remote transfer transaction.
type TransferRemoteParams struct {
	Amount            sdkmath.Int
	DestinationDomain uint32
	Recipient         string
	// InterchainFee is attached to the transfer so the message is paid for
	// at dispatch time.
	InterchainFee FeeQuote
}

// TokenAdapter is the per-protocol token capability consumed by the engine.
// Implementations hold their own connection handles and bindings.
type TokenAdapter interface {
	GetBalance(ctx context.Context, address string) (sdkmath.Int, error)
	IsApproveRequired(ctx context.Context, owner, spender string, amount sdkmath.Int) (bool, error)
	PopulateApproveTx(ctx context.Context, params ApproveParams) (TxRequest, error)
	PopulateTransferRemoteTx(ctx context.Context, params TransferRemoteParams) (TxRequest, error)
	QuoteTransferRemoteGas(ctx context.Context, destinationDomain uint32, sender string) (FeeQuote, error)
	GetMinimumTransferAmount(ctx context.Context, recipient string) (sdkmath.Int, error)
}

// LimitedTokenAdapter extends TokenAdapter with the queries required by
// rate-limited and collateralized token standards.
type LimitedTokenAdapter interface {
	TokenAdapter
	GetMintLimit(ctx context.Context) (sdkmath.Int, error)
	GetMintMaxLimit(ctx context.Context) (sdkmath.Int, error)
	GetBurnLimit(ctx context.Context) (sdkmath.Int, error)
	GetBridgedSupply(ctx context.Context) (sdkmath.Int, error)
}

// DispatchedMessage identifies one message emitted by a source transaction.
type DispatchedMessage struct {
	MessageID string
	// Destination is the chain tag the message was dispatched to, as recorded
	// on the origin chain (a domain id rendered in decimal).
	Destination string
}

// MessageAdapter is the per-protocol message capability. An instance is bound
// to a single chain.
type MessageAdapter interface {
	// ExtractMessageIDs returns every message dispatched by the transaction
	// the receipt belongs to. Malformed entries are skipped, never returned
	// half-parsed.
	ExtractMessageIDs(receipt *Receipt) []DispatchedMessage
	// WaitForMessageProcessed polls until the message is observed as
	// delivered on this chain or the attempt budget is exhausted.
	WaitForMessageProcessed(ctx context.Context, messageID string, opts PollOptions) error
}
