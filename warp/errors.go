package warp

import "errors"

// Unrecoverable configuration and programming errors. These abort the
// operation: they mean the engine cannot proceed correctly, not that the
// caller's input was bad.
var (
	// ErrDuplicateToken reports two config entries resolving to the same
	// (chain, address) identity.
	ErrDuplicateToken = errors.New("duplicate token registration")
	// ErrNoConnection reports a transfer toward a chain the origin token has
	// no route to.
	ErrNoConnection = errors.New("no connection for destination chain")
	// ErrAmbiguousRoute reports a token with several edges into the same
	// destination chain; the caller must name the destination token.
	ErrAmbiguousRoute = errors.New("ambiguous route")
	// ErrUnknownFeeToken reports an adapter fee quote naming a token the
	// registry does not know.
	ErrUnknownFeeToken = errors.New("quoted fee token unknown to registry")
	// ErrUnknownChain reports a chain name absent from the chain metadata
	// registry.
	ErrUnknownChain = errors.New("unknown chain")
)
