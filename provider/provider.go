// Package provider declares the contracts of the external collaborators that
// own network connections. The engine borrows handles; it never dials,
// pools, or closes anything itself.
package provider

import (
	"context"
	"math/big"

	sdkmath "cosmossdk.io/math"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	"github.com/ethereum/go-ethereum"
	"google.golang.org/grpc"

	"github.com/interchainlabs/warpcore/adapter"
)

// Provider hands out per-chain connection handles. Implementations own
// pooling and lifecycle.
type Provider interface {
	// GRPCConn returns a query connection for a module-based chain.
	GRPCConn(chainName string) (*grpc.ClientConn, error)
	// EVMCaller returns a read-only contract caller for a contract chain.
	EVMCaller(chainName string) (EVMCaller, error)
	// TxSearcher returns an event-indexed transaction search handle for a
	// module-based chain.
	TxSearcher(chainName string) (TxSearcher, error)
	// LedgerReader returns an account reader for a ledger chain.
	LedgerReader(chainName string) (LedgerReader, error)
}

// EVMCaller executes read-only contract calls. *ethclient.Client satisfies
// this.
type EVMCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// TxSearcher queries committed transactions by event. The comet RPC client
// satisfies this.
type TxSearcher interface {
	TxSearch(ctx context.Context, query string, prove bool, page, perPage *int, orderBy string) (*coretypes.ResultTxSearch, error)
}

// LedgerReader resolves and inspects derived accounts on ledger chains.
type LedgerReader interface {
	// DeriveAddress computes the deterministic account address for the given
	// seed sequence.
	DeriveAddress(seeds [][]byte) (string, error)
	// AccountExists reports whether an account is present on chain.
	AccountExists(ctx context.Context, address string) (bool, error)
}

// FeeEstimator is the chain fee primitive used for local-fee simulation.
type FeeEstimator interface {
	// EstimateTxFee returns the execution cost of tx in the chain's native
	// token, at current gas prices.
	EstimateTxFee(ctx context.Context, chainName string, tx adapter.TxRequest, sender string) (sdkmath.Int, error)
	// GasPrice returns the chain's current gas price in native token units
	// per gas unit.
	GasPrice(ctx context.Context, chainName string) (sdkmath.Int, error)
}
