package warp

import (
	"context"
	"fmt"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/stretchr/testify/require"

	"github.com/interchainlabs/warpcore/adapter"
	"github.com/interchainlabs/warpcore/chain"
)

const (
	evmChainName    = "testevm"
	evmChainDomain  = 421614
	cosmosChainName = "testcosmos"
	cosmosDomain    = 69420

	evmRecipient = "0xaF9053bB6c4346381C77C2FeD279B17ABAfCDf4d"
	evmSender    = "0x0E55C5f4d1b435b6bDeF4bB647bE6b26628E863b"

	syntheticAddr = "0x26f32245fCF5Ad53159E875d5Cae62aEcf19c2d4"
)

func testRegistry(t *testing.T) *chain.Registry {
	t.Helper()
	reg, err := chain.NewRegistry(
		chain.Metadata{
			Name:     evmChainName,
			DomainID: evmChainDomain,
			Protocol: chain.ProtocolEthereum,
			NativeToken: chain.NativeToken{
				Name:     "Ether",
				Symbol:   "ETH",
				Decimals: 18,
			},
			CoreContracts: &chain.CoreContracts{
				Mailbox: "0xfFAEF09B3cd11D9b20d1a19bECca54EEC2884766",
			},
		},
		chain.Metadata{
			Name:         cosmosChainName,
			DomainID:     cosmosDomain,
			Protocol:     chain.ProtocolCosmosNative,
			Bech32Prefix: "celestia",
			NativeToken: chain.NativeToken{
				Name:     "TIA",
				Symbol:   "TIA",
				Decimals: 6,
				Denom:    "utia",
			},
		},
	)
	require.NoError(t, err)
	return reg
}

func cosmosRecipient(t *testing.T) string {
	t.Helper()
	addr, err := bech32.ConvertAndEncode("celestia", []byte("test_________recipient"))
	require.NoError(t, err)
	return addr
}

// fakeTxRequest is a protocol payload stand-in.
type fakeTxRequest struct {
	kind adapter.TxKind
}

func (r fakeTxRequest) Kind() adapter.TxKind { return r.kind }

// fakeTokenAdapter implements adapter.LimitedTokenAdapter with canned
// responses and records the populate calls it receives.
type fakeTokenAdapter struct {
	kind            adapter.TxKind
	balances        map[string]sdkmath.Int
	minTransfer     sdkmath.Int
	quote           adapter.FeeQuote
	approveRequired bool
	mintLimit       sdkmath.Int
	mintMaxLimit    sdkmath.Int
	burnLimit       sdkmath.Int
	bridgedSupply   sdkmath.Int

	lastApprove  *adapter.ApproveParams
	lastTransfer *adapter.TransferRemoteParams
}

var _ adapter.LimitedTokenAdapter = (*fakeTokenAdapter)(nil)

func newFakeTokenAdapter(kind adapter.TxKind) *fakeTokenAdapter {
	return &fakeTokenAdapter{
		kind:          kind,
		balances:      make(map[string]sdkmath.Int),
		minTransfer:   sdkmath.ZeroInt(),
		quote:         adapter.FeeQuote{Amount: sdkmath.ZeroInt()},
		mintLimit:     sdkmath.ZeroInt(),
		mintMaxLimit:  sdkmath.ZeroInt(),
		burnLimit:     sdkmath.ZeroInt(),
		bridgedSupply: sdkmath.ZeroInt(),
	}
}

func (f *fakeTokenAdapter) GetBalance(_ context.Context, address string) (sdkmath.Int, error) {
	if balance, ok := f.balances[address]; ok {
		return balance, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (f *fakeTokenAdapter) IsApproveRequired(_ context.Context, _, _ string, _ sdkmath.Int) (bool, error) {
	return f.approveRequired, nil
}

func (f *fakeTokenAdapter) PopulateApproveTx(_ context.Context, params adapter.ApproveParams) (adapter.TxRequest, error) {
	f.lastApprove = &params
	return fakeTxRequest{kind: f.kind}, nil
}

func (f *fakeTokenAdapter) PopulateTransferRemoteTx(_ context.Context, params adapter.TransferRemoteParams) (adapter.TxRequest, error) {
	f.lastTransfer = &params
	return fakeTxRequest{kind: f.kind}, nil
}

func (f *fakeTokenAdapter) QuoteTransferRemoteGas(_ context.Context, _ uint32, _ string) (adapter.FeeQuote, error) {
	return f.quote, nil
}

func (f *fakeTokenAdapter) GetMinimumTransferAmount(_ context.Context, _ string) (sdkmath.Int, error) {
	return f.minTransfer, nil
}

func (f *fakeTokenAdapter) GetMintLimit(_ context.Context) (sdkmath.Int, error) {
	return f.mintLimit, nil
}

func (f *fakeTokenAdapter) GetMintMaxLimit(_ context.Context) (sdkmath.Int, error) {
	return f.mintMaxLimit, nil
}

func (f *fakeTokenAdapter) GetBurnLimit(_ context.Context) (sdkmath.Int, error) {
	return f.burnLimit, nil
}

func (f *fakeTokenAdapter) GetBridgedSupply(_ context.Context) (sdkmath.Int, error) {
	return f.bridgedSupply, nil
}

// fakeAdapterSource maps token identity to a fake adapter.
type fakeAdapterSource struct {
	adapters map[string]adapter.TokenAdapter
}

var _ AdapterSource = (*fakeAdapterSource)(nil)

func newFakeAdapterSource() *fakeAdapterSource {
	return &fakeAdapterSource{adapters: make(map[string]adapter.TokenAdapter)}
}

func (s *fakeAdapterSource) set(token Token, a adapter.TokenAdapter) {
	s.adapters[token.ID()] = a
}

func (s *fakeAdapterSource) TokenAdapter(_ context.Context, token Token) (adapter.TokenAdapter, error) {
	if a, ok := s.adapters[token.ID()]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("no adapter registered for %s", token.ID())
}

func adapterFeeQuote(amount int64, addressOrDenom string) adapter.FeeQuote {
	return adapter.FeeQuote{Amount: sdkmath.NewInt(amount), AddressOrDenom: addressOrDenom}
}

// fakeFeeEstimator returns fixed values.
type fakeFeeEstimator struct {
	txFee    sdkmath.Int
	gasPrice sdkmath.Int
}

func (f *fakeFeeEstimator) EstimateTxFee(_ context.Context, _ string, _ adapter.TxRequest, _ string) (sdkmath.Int, error) {
	return f.txFee, nil
}

func (f *fakeFeeEstimator) GasPrice(_ context.Context, _ string) (sdkmath.Int, error) {
	return f.gasPrice, nil
}
